package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Answer is one submitted answer. QuestionText is the rendered text at submit time.
type Answer struct {
	NodeID       string `json:"nodeId"`
	QuestionText string `json:"questionText"`
	Value        Value  `json:"value"`
}

// AnswerList is stored as a jsonb column.
type AnswerList []Answer

func (l AnswerList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Answer(l))
	return string(b), err
}

func (l *AnswerList) Scan(src any) error {
	return scanJSON(src, (*[]Answer)(l))
}

// CompletedResponse is an immutable record of one finished run.
type CompletedResponse struct {
	ID           string            `json:"id" gorm:"primaryKey;size:36"`
	AssessmentID uint              `json:"assessmentId" gorm:"not null;index"`
	Answers      AnswerList        `json:"answers" gorm:"type:jsonb;not null"`
	Score        *float64          `json:"score,omitempty"`
	MaxScore     *float64          `json:"maxScore,omitempty"`
	StartedAt    time.Time         `json:"startedAt" gorm:"not null"`
	SubmittedAt  time.Time         `json:"submittedAt" gorm:"not null;index"`
	Metadata     datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
}

func (CompletedResponse) TableName() string {
	return "responses"
}

// Elapsed is the time between start and submission.
func (r CompletedResponse) Elapsed() time.Duration {
	return r.SubmittedAt.Sub(r.StartedAt)
}

// AnswerFor returns the recorded answer for nodeID.
func (r CompletedResponse) AnswerFor(nodeID string) (Answer, bool) {
	for _, a := range r.Answers {
		if a.NodeID == nodeID {
			return a, true
		}
	}
	return Answer{}, false
}
