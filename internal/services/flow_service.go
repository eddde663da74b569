package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/flow"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/validator"
	"gorm.io/gorm"
)

type flowService struct {
	repo      repositories.Repository
	validator *validator.Validator
	notifier  NotificationEventService
	logger    *slog.Logger
	slogger   *ServiceLogger
	now       func() time.Time
}

func NewFlowService(repo repositories.Repository, validator *validator.Validator, notifier NotificationEventService, logger *slog.Logger) FlowService {
	return &flowService{
		repo:      repo,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
		slogger:   NewServiceLogger(logger, LogConfig{Service: "assessment-builder", Component: "flow"}),
		now:       time.Now,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *flowService) Create(ctx context.Context, req *CreateAssessmentRequest, actor string) (*models.Assessment, error) {
	op := s.slogger.WithOperation(ctx, "create_assessment", actor)

	if err := s.validator.Validate(req); err != nil {
		op.LogResult("", "assessment", err)
		return nil, err
	}

	assessment := &models.Assessment{
		Title:        req.Title,
		Description:  req.Description,
		MaxResponses: req.MaxResponses,
		CreatedBy:    actor,
	}
	if err := s.repo.Assessments().Create(ctx, nil, assessment); err != nil {
		op.LogResult("", "assessment", err)
		return nil, err
	}

	id := strconv.FormatUint(uint64(assessment.ID), 10)
	op.LogResult(id, "assessment", nil)
	op.LogAudit(AuditEventCreate, id, "assessment", map[string]interface{}{"title": assessment.Title})
	return assessment, nil
}

func (s *flowService) Get(ctx context.Context, id uint, actor string) (*models.Assessment, error) {
	return s.loadOwned(ctx, nil, id, actor)
}

func (s *flowService) List(ctx context.Context, filters repositories.AssessmentFilters, actor string) ([]*models.Assessment, int64, error) {
	if actor != "" {
		filters.CreatedBy = &actor
	}
	return s.repo.Assessments().List(ctx, nil, filters)
}

// ===== GRAPH OPERATIONS =====

// SaveGraph stores a new authoring snapshot. Only shape errors reject a save; structural
// diagnostics are reported by Validate and enforced by Publish.
func (s *flowService) SaveGraph(ctx context.Context, id uint, req *SaveGraphRequest, actor string) (*models.Assessment, error) {
	op := s.slogger.WithOperation(ctx, "save_graph", actor)
	resourceID := strconv.FormatUint(uint64(id), 10)

	if err := s.validator.ValidateGraph(req.Nodes, req.Edges); err != nil {
		op.LogResult(resourceID, "assessment", err)
		return nil, err
	}

	var saved *models.Assessment
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		assessment, err := s.loadOwned(ctx, tx, id, actor)
		if err != nil {
			return err
		}
		if assessment.Status != models.StatusDraft {
			return ErrAssessmentNotEditable
		}

		version, err := s.repo.Assessments().SaveGraph(ctx, tx, id, models.NodeList(req.Nodes), models.EdgeList(req.Edges))
		if err != nil {
			return err
		}

		assessment.Nodes = req.Nodes
		assessment.Edges = req.Edges
		assessment.Version = version
		saved = assessment
		return nil
	})
	op.LogResult(resourceID, "assessment", err)
	if err != nil {
		return nil, err
	}

	op.LogAudit(AuditEventUpdate, resourceID, "assessment", map[string]interface{}{
		"version": saved.Version,
		"nodes":   len(saved.Nodes),
		"edges":   len(saved.Edges),
	})
	return saved, nil
}

func (s *flowService) Validate(ctx context.Context, id uint, actor string) (*ValidationReport, error) {
	assessment, err := s.loadOwned(ctx, nil, id, actor)
	if err != nil {
		return nil, err
	}
	return buildValidationReport(flow.Validate(assessment.Nodes, assessment.Edges)), nil
}

// Publish freezes the graph. Any error diagnostic blocks it; warnings are returned.
func (s *flowService) Publish(ctx context.Context, id uint, actor string) (*PublishResult, error) {
	op := s.slogger.WithOperation(ctx, "publish_assessment", actor)
	resourceID := strconv.FormatUint(uint64(id), 10)

	var (
		published *models.Assessment
		warnings  []flow.Diagnostic
	)
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		assessment, err := s.loadOwned(ctx, tx, id, actor)
		if err != nil {
			return err
		}
		if err := validateStatusTransition(assessment.Status, models.StatusPublished); err != nil {
			return err
		}

		diags := flow.Validate(assessment.Nodes, assessment.Edges)
		if flow.HasErrors(diags) {
			return &PublishBlockedError{Diagnostics: diags}
		}
		warnings = flow.Warnings(diags)

		if err := s.repo.Assessments().UpdateStatus(ctx, tx, id, models.StatusPublished); err != nil {
			return err
		}
		now := s.now()
		assessment.Status = models.StatusPublished
		assessment.PublishedAt = &now
		published = assessment
		return nil
	})
	op.LogResult(resourceID, "assessment", err)
	if err != nil {
		return nil, err
	}

	op.LogAudit(AuditEventPublish, resourceID, "assessment", map[string]interface{}{"warnings": len(warnings)})
	s.notifier.NotifyAssessmentPublished(ctx, published, len(warnings), actor)

	if warnings == nil {
		warnings = []flow.Diagnostic{}
	}
	return &PublishResult{Assessment: published, Warnings: warnings}, nil
}

func (s *flowService) Archive(ctx context.Context, id uint, actor string) error {
	op := s.slogger.WithOperation(ctx, "archive_assessment", actor)
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		assessment, err := s.loadOwned(ctx, tx, id, actor)
		if err != nil {
			return err
		}
		if err := validateStatusTransition(assessment.Status, models.StatusArchived); err != nil {
			return err
		}
		return s.repo.Assessments().UpdateStatus(ctx, tx, id, models.StatusArchived)
	})
	op.LogResult(strconv.FormatUint(uint64(id), 10), "assessment", err)
	return err
}

func (s *flowService) Ancestors(ctx context.Context, id uint, nodeID string, actor string) ([]PipingCandidate, error) {
	assessment, err := s.loadOwned(ctx, nil, id, actor)
	if err != nil {
		return nil, err
	}

	g := flow.NewGraph(assessment.Nodes, assessment.Edges)
	if _, ok := g.Node(nodeID); !ok {
		return nil, fmt.Errorf("%w: %s", flow.ErrUnknownNode, nodeID)
	}

	ancestors := g.Ancestors(nodeID)
	candidates := make([]PipingCandidate, 0, len(ancestors))
	for _, n := range ancestors {
		q := n.Question()
		candidates = append(candidates, PipingCandidate{
			NodeID: n.ID,
			Text:   q.Text,
			Kind:   q.QuestionKind,
			Token:  pipingToken(n.ID, q.Text),
		})
	}
	return candidates, nil
}
