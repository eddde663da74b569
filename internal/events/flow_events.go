package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of flow events this service emits
type EventType string

const (
	EventAssessmentPublished EventType = "assessment.published"
	EventResponseSubmitted   EventType = "response.submitted"
	EventRunDeadEnd          EventType = "run.dead_end"
)

const (
	eventSource  = "assessment-builder"
	eventVersion = "1.0"
)

// Event is the envelope for every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type AssessmentPublishedEvent struct {
	AssessmentID uint      `json:"assessment_id"`
	Title        string    `json:"title"`
	Version      int       `json:"version"`
	NodeCount    int       `json:"node_count"`
	WarningCount int       `json:"warning_count"`
	PublishedBy  string    `json:"published_by"`
	PublishedAt  time.Time `json:"published_at"`
}

type ResponseSubmittedEvent struct {
	ResponseID     string    `json:"response_id"`
	AssessmentID   uint      `json:"assessment_id"`
	SubmittedAt    time.Time `json:"submitted_at"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	AnswerCount    int       `json:"answer_count"`
	Score          *float64  `json:"score,omitempty"`
	MaxScore       *float64  `json:"max_score,omitempty"`
}

// RunDeadEndEvent reports a run that stopped on a node with no matching edge. It points
// at a gap in the authored graph.
type RunDeadEndEvent struct {
	SessionID    string `json:"session_id"`
	AssessmentID uint   `json:"assessment_id"`
	NodeID       string `json:"node_id"`
	GraphVersion int    `json:"graph_version"`
}

func newEvent(t EventType, at time.Time, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: at.UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewAssessmentPublishedEvent(data AssessmentPublishedEvent) *Event {
	return newEvent(EventAssessmentPublished, data.PublishedAt, data)
}

func NewResponseSubmittedEvent(data ResponseSubmittedEvent) *Event {
	return newEvent(EventResponseSubmitted, data.SubmittedAt, data)
}

func NewRunDeadEndEvent(data RunDeadEndEvent, at time.Time) *Event {
	return newEvent(EventRunDeadEnd, at, data)
}
