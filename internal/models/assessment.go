package models

import (
	"time"

	"gorm.io/gorm"
)

type AssessmentStatus string

const (
	StatusDraft     AssessmentStatus = "Draft"
	StatusPublished AssessmentStatus = "Published"
	StatusArchived  AssessmentStatus = "Archived"
)

// Assessment owns one flow graph. Nodes and Edges are the current authoring snapshot;
// Version increments on every save so drafts can detect a graph change mid-run.
type Assessment struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Title       string           `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string          `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Status      AssessmentStatus `json:"status" gorm:"default:Draft;index" validate:"omitempty,assessment_status"`

	Nodes NodeList `json:"nodes" gorm:"type:jsonb;not null"`
	Edges EdgeList `json:"edges" gorm:"type:jsonb;not null"`

	// Zero means unlimited.
	MaxResponses  int `json:"maxResponses" gorm:"default:0" validate:"min=0"`
	ResponseCount int `json:"responseCount" gorm:"default:0"`

	CreatedBy   string         `json:"createdBy" gorm:"not null;size:255;index"`
	Version     int            `json:"version" gorm:"default:1"`
	PublishedAt *time.Time     `json:"publishedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Assessment) TableName() string {
	return "assessments"
}

func (a Assessment) IsPublished() bool {
	return a.Status == StatusPublished
}
