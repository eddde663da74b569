package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/flow"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/validator"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheetName  = "Responses"
	exportTimeLayout = "2006-01-02 15:04:05"
)

var fixedExportHeaders = []string{"Response ID", "Started At", "Submitted At", "Duration (seconds)", "Score", "Max Score"}

type exportService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewExportService(repo repositories.Repository, validator *validator.Validator, logger *slog.Logger) ExportService {
	return &exportService{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

// exportColumn is one question column of the sheet.
type exportColumn struct {
	nodeID string
	header string
}

func (s *exportService) Export(ctx context.Context, req *models.ExportRequest, actor string) ([]byte, string, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, "", err
	}

	assessment, err := loadOwnedAssessment(ctx, s.repo, nil, req.AssessmentID, actor)
	if err != nil {
		return nil, "", err
	}

	responses, err := s.repo.Responses().ListByAssessment(ctx, nil, req.AssessmentID, repositories.ResponseFilters{
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to load responses: %w", err)
	}

	columns := exportColumns(assessment, responses)
	rows := make([][]string, 0, len(responses))
	for _, r := range responses {
		rows = append(rows, responseToRow(r, columns))
	}

	header := make([]string, 0, len(fixedExportHeaders)+len(columns))
	header = append(header, fixedExportHeaders...)
	for _, c := range columns {
		header = append(header, c.header)
	}

	filename := fmt.Sprintf("assessment-%d-responses.%s", assessment.ID, req.Format)
	var body []byte
	switch req.Format {
	case models.ExportCSV:
		body, err = writeCSV(header, rows)
	case models.ExportXLSX:
		body, err = writeExcel(header, rows)
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("Responses exported",
		"assessment_id", assessment.ID,
		"format", req.Format,
		"rows", len(rows))
	return body, filename, nil
}

// exportColumns lists question nodes in graph order. Nodes answered in responses but no
// longer in the graph are appended in first-seen order.
func exportColumns(assessment *models.Assessment, responses []models.CompletedResponse) []exportColumn {
	var columns []exportColumn
	seen := map[string]bool{}

	for _, n := range assessment.Nodes {
		q := n.Question()
		if q == nil {
			continue
		}
		seen[n.ID] = true
		columns = append(columns, exportColumn{nodeID: n.ID, header: columnHeader(n.ID, q.Text)})
	}

	for _, r := range responses {
		for _, a := range r.Answers {
			if seen[a.NodeID] {
				continue
			}
			seen[a.NodeID] = true
			columns = append(columns, exportColumn{nodeID: a.NodeID, header: columnHeader(a.NodeID, a.QuestionText)})
		}
	}
	return columns
}

// columnHeader shows piping tokens by their label, since no answers apply.
func columnHeader(nodeID, text string) string {
	text = strings.TrimSpace(flow.ResolveForDisplay(text, nil))
	if text == "" {
		return nodeID
	}
	return text
}

func responseToRow(r models.CompletedResponse, columns []exportColumn) []string {
	row := []string{
		r.ID,
		formatExportTime(r.StartedAt),
		formatExportTime(r.SubmittedAt),
		strconv.FormatFloat(r.Elapsed().Seconds(), 'f', 0, 64),
		formatOptionalFloat(r.Score),
		formatOptionalFloat(r.MaxScore),
	}
	for _, c := range columns {
		a, ok := r.AnswerFor(c.nodeID)
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, a.Value.String())
	}
	return row
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return buf.Bytes(), nil
}

func writeExcel(header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name Excel sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheetName, "A1", lastHeader, bold); err != nil {
		return nil, fmt.Errorf("failed to style Excel header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		// Score and duration columns are numeric in the sheet.
		for _, j := range []int{3, 4, 5} {
			if n, err := strconv.ParseFloat(row[j], 64); err == nil {
				values[j] = n
			}
		}
		if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func formatExportTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(exportTimeLayout)
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
