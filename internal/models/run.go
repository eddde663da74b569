package models

import "time"

// Run is one respondent's in-progress traversal. It is owned by a single session and is
// discarded once converted into a CompletedResponse.
type Run struct {
	SessionID      string           `json:"sessionId"`
	AssessmentID   uint             `json:"assessmentId"`
	GraphVersion   int              `json:"graphVersion"`
	CurrentNodeID  string           `json:"currentNodeId"`
	Answers        map[string]Value `json:"answers"`
	VisitedHistory []string         `json:"visitedHistory"`
	StartedAt      time.Time        `json:"startedAt"`
	InviteToken    string           `json:"inviteToken,omitempty"`
	Completed      bool             `json:"completed"`

	// Metadata is copied onto the CompletedResponse.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
