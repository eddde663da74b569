package services

import (
	"context"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/analytics"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/flow"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
)

// FlowService is the authoring side: assessments and their flow graphs.
// actor is the authenticated user name; an empty actor skips ownership checks.
type FlowService interface {
	Create(ctx context.Context, req *CreateAssessmentRequest, actor string) (*models.Assessment, error)
	Get(ctx context.Context, id uint, actor string) (*models.Assessment, error)
	List(ctx context.Context, filters repositories.AssessmentFilters, actor string) ([]*models.Assessment, int64, error)

	SaveGraph(ctx context.Context, id uint, req *SaveGraphRequest, actor string) (*models.Assessment, error)
	Validate(ctx context.Context, id uint, actor string) (*ValidationReport, error)
	Publish(ctx context.Context, id uint, actor string) (*PublishResult, error)
	Archive(ctx context.Context, id uint, actor string) error

	// Ancestors lists the questions upstream of nodeID, nearest first, as piping candidates.
	Ancestors(ctx context.Context, id uint, nodeID string, actor string) ([]PipingCandidate, error)
}

// RunService drives one respondent through a published flow.
type RunService interface {
	Start(ctx context.Context, assessmentID uint, req *StartRunRequest) (*RunView, error)
	Get(ctx context.Context, sessionID string) (*RunView, error)
	Answer(ctx context.Context, sessionID string, req *AnswerRequest) (*RunView, error)
	Back(ctx context.Context, sessionID string) (*RunView, error)
}

type AnalyticsService interface {
	Summary(ctx context.Context, assessmentID uint, opts analytics.Options, actor string) (*analytics.Summary, error)
	GetResponse(ctx context.Context, assessmentID uint, responseID string, actor string) (*models.CompletedResponse, error)
	InvalidateSummary(ctx context.Context, assessmentID uint) error
}

type ExportService interface {
	// Export renders responses as xlsx or csv and returns the file body and a file name.
	Export(ctx context.Context, req *models.ExportRequest, actor string) ([]byte, string, error)
}

// NotificationEventService publishes flow events. Publishing is best effort: failures
// are logged and never fail the calling operation.
type NotificationEventService interface {
	NotifyAssessmentPublished(ctx context.Context, assessment *models.Assessment, warnings int, actor string)
	NotifyResponseSubmitted(ctx context.Context, response *models.CompletedResponse)
	NotifyRunDeadEnd(ctx context.Context, run *models.Run, nodeID string)
}

// ===== REQUESTS =====

type CreateAssessmentRequest struct {
	Title        string  `json:"title" validate:"required,min=1,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=1000"`
	MaxResponses int     `json:"maxResponses" validate:"min=0"`
}

type SaveGraphRequest struct {
	Nodes []models.Node `json:"nodes"`
	Edges []models.Edge `json:"edges"`
}

type StartRunRequest struct {
	InviteToken string                 `json:"inviteToken"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type AnswerRequest struct {
	NodeID string       `json:"nodeId"`
	Value  models.Value `json:"value"`
}

// ===== RESPONSES =====

type ValidationReport struct {
	Valid    bool              `json:"valid"`
	Errors   []flow.Diagnostic `json:"errors"`
	Warnings []flow.Diagnostic `json:"warnings"`
}

type PublishResult struct {
	Assessment *models.Assessment `json:"assessment"`
	Warnings   []flow.Diagnostic  `json:"warnings"`
}

type PipingCandidate struct {
	NodeID string              `json:"nodeId"`
	Text   string              `json:"text"`
	Kind   models.QuestionKind `json:"kind"`
	Token  string              `json:"token"`
}

// RunView is what the respondent sees after each step.
type RunView struct {
	SessionID    string                  `json:"sessionId"`
	AssessmentID uint                    `json:"assessmentId"`
	Screen       *flow.Screen            `json:"screen,omitempty"`
	Answers      map[string]models.Value `json:"answers"`
	CanGoBack    bool                    `json:"canGoBack"`
	Done         bool                    `json:"done"`
	DeadEnd      bool                    `json:"deadEnd"`
	Result       *RunResult              `json:"result,omitempty"`
}

type RunResult struct {
	ResponseID  string    `json:"responseId"`
	Score       *float64  `json:"score,omitempty"`
	MaxScore    *float64  `json:"maxScore,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}
