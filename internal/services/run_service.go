package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/flow"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
	"gorm.io/gorm"
)

// RunStore keeps in-progress runs between requests.
type RunStore interface {
	Save(ctx context.Context, run *models.Run) error
	Load(ctx context.Context, sessionID string) (*models.Run, error)
	Delete(ctx context.Context, sessionID string) error
}

type runService struct {
	repo      repositories.Repository
	runs      RunStore
	analytics AnalyticsService
	notifier  NotificationEventService
	logger    *slog.Logger
	slogger   *ServiceLogger
	newID     flow.IDGenerator
	now       func() time.Time
}

type RunServiceOption func(*runService)

// WithIDGenerator replaces the UUID generator used for session and response ids.
func WithIDGenerator(gen flow.IDGenerator) RunServiceOption {
	return func(s *runService) {
		s.newID = gen
	}
}

func WithClock(now func() time.Time) RunServiceOption {
	return func(s *runService) {
		s.now = now
	}
}

// WithDebugLogging logs every branching decision at debug level.
func WithDebugLogging() RunServiceOption {
	return func(s *runService) {
		s.slogger.config.EnableDebug = true
	}
}

func NewRunService(
	repo repositories.Repository,
	runs RunStore,
	analytics AnalyticsService,
	notifier NotificationEventService,
	logger *slog.Logger,
	opts ...RunServiceOption,
) RunService {
	s := &runService{
		repo:      repo,
		runs:      runs,
		analytics: analytics,
		notifier:  notifier,
		logger:    logger,
		slogger:   NewServiceLogger(logger, LogConfig{Service: "assessment-builder", Component: "run"}),
		newID:     flow.UUIDGenerator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===== CORE RUN OPERATIONS =====

func (s *runService) Start(ctx context.Context, assessmentID uint, req *StartRunRequest) (*RunView, error) {
	op := s.slogger.WithOperation(ctx, "start_run", "")

	assessment, err := s.loadPublished(ctx, assessmentID)
	if err != nil {
		op.LogResult("", "run", err)
		return nil, err
	}
	if err := s.checkAdmission(ctx, assessment, req.InviteToken); err != nil {
		op.LogResult("", "run", err)
		return nil, err
	}

	g := flow.NewGraph(assessment.Nodes, assessment.Edges)
	run, err := flow.StartRun(g, s.newID(), assessment.ID, s.now())
	if err != nil {
		op.LogResult("", "run", err)
		return nil, err
	}
	run.GraphVersion = assessment.Version
	run.InviteToken = req.InviteToken
	run.Metadata = req.Metadata

	if err := s.runs.Save(ctx, run); err != nil {
		op.LogResult(run.SessionID, "run", err)
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	op.LogResult(run.SessionID, "run", nil)
	return buildRunView(g, run)
}

func (s *runService) Get(ctx context.Context, sessionID string) (*RunView, error) {
	run, g, err := s.loadRun(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return buildRunView(g, run)
}

// Answer records the answer for the current node and moves on. When the run reaches an
// exit or a dead end it is converted into a CompletedResponse in the same call.
func (s *runService) Answer(ctx context.Context, sessionID string, req *AnswerRequest) (*RunView, error) {
	op := s.slogger.WithOperation(ctx, "answer", "")

	run, g, err := s.loadRun(ctx, sessionID)
	if err != nil {
		op.LogResult(sessionID, "run", err)
		return nil, err
	}

	step, err := flow.Advance(g, run, req.NodeID, req.Value)
	if err != nil {
		op.LogResult(sessionID, "run", err)
		return nil, err
	}
	s.slogger.LogDebug(ctx, "Branch resolved",
		"session_id", sessionID,
		"answered_node_id", req.NodeID,
		"next_node_id", step.NodeID,
		"done", step.Done)

	if !step.Done {
		if err := s.runs.Save(ctx, run); err != nil {
			op.LogResult(sessionID, "run", err)
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
		op.LogResult(sessionID, "run", nil)
		return buildRunView(g, run)
	}

	response, err := s.complete(ctx, g, run, step)
	op.LogResult(sessionID, "run", err)
	if err != nil {
		return nil, err
	}

	if step.DeadEnd {
		s.logger.Warn("Run reached a dead end",
			"session_id", sessionID,
			"assessment_id", run.AssessmentID,
			"node_id", step.NodeID)
		s.notifier.NotifyRunDeadEnd(ctx, run, step.NodeID)
	}

	view, err := buildRunView(g, run)
	if err != nil {
		return nil, err
	}
	view.DeadEnd = step.DeadEnd
	if step.DeadEnd {
		view.Screen = nil
	}
	view.Result = buildRunResult(g, step, response)
	return view, nil
}

func (s *runService) Back(ctx context.Context, sessionID string) (*RunView, error) {
	run, g, err := s.loadRun(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := flow.Back(run); err != nil {
		return nil, err
	}
	if err := s.runs.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}
	return buildRunView(g, run)
}

// complete persists the response. Invite use, the response counter and the response row
// commit together, so a rejected admission leaves no trace.
func (s *runService) complete(ctx context.Context, g *flow.Graph, run *models.Run, step flow.Step) (*models.CompletedResponse, error) {
	metadata := map[string]interface{}{}
	for k, v := range run.Metadata {
		metadata[k] = v
	}
	if step.DeadEnd {
		metadata["deadEnd"] = true
		metadata["deadEndNodeId"] = step.NodeID
	}

	submittedAt := s.now()
	response := flow.Complete(g, run, s.newID, submittedAt, metadata)

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if run.InviteToken != "" {
			if _, err := s.repo.Invites().ConsumeUse(ctx, tx, run.InviteToken, submittedAt); err != nil {
				return err
			}
		}
		if _, err := s.repo.Assessments().IncrementResponseCount(ctx, tx, run.AssessmentID); err != nil {
			return err
		}
		return s.repo.Responses().Create(ctx, tx, &response)
	})
	if err != nil {
		if IsGone(err) {
			// The run can never be admitted; drop the draft.
			s.deleteDraft(ctx, run.SessionID)
		}
		return nil, err
	}

	s.deleteDraft(ctx, run.SessionID)
	if err := s.analytics.InvalidateSummary(ctx, run.AssessmentID); err != nil {
		s.logger.Warn("Failed to invalidate analytics cache", "assessment_id", run.AssessmentID, "error", err)
	}
	s.notifier.NotifyResponseSubmitted(ctx, &response)

	s.logger.Info("Response submitted",
		"response_id", response.ID,
		"assessment_id", response.AssessmentID,
		"answers", len(response.Answers),
		"dead_end", step.DeadEnd)
	return &response, nil
}

// ===== LOADERS =====

func (s *runService) loadPublished(ctx context.Context, assessmentID uint) (*models.Assessment, error) {
	assessment, err := s.repo.Assessments().GetByID(ctx, nil, assessmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}
	if !assessment.IsPublished() {
		return nil, ErrAssessmentNotPublished
	}
	return assessment, nil
}

// loadRun fetches the draft and the graph it was started on.
func (s *runService) loadRun(ctx context.Context, sessionID string) (*models.Run, *flow.Graph, error) {
	run, err := s.runs.Load(ctx, sessionID)
	if err != nil {
		if isRunMissing(err) {
			return nil, nil, ErrRunNotFound
		}
		return nil, nil, err
	}

	assessment, err := s.loadPublished(ctx, run.AssessmentID)
	if err != nil {
		return nil, nil, err
	}
	if assessment.Version != run.GraphVersion {
		return nil, nil, ErrGraphChanged
	}
	return run, flow.NewGraph(assessment.Nodes, assessment.Edges), nil
}
