package models

import "time"

type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

type ExportRequest struct {
	AssessmentID uint         `json:"assessment_id" validate:"required"`
	Format       ExportFormat `json:"format" validate:"required,oneof=xlsx csv"`
	DateFrom     *time.Time   `json:"date_from"`
	DateTo       *time.Time   `json:"date_to"`
}
