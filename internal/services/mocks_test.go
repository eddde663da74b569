package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/analytics"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ===== REPOSITORY MOCKS =====

type mockRepository struct {
	assessments *mockAssessmentRepository
	responses   *mockResponseRepository
	invites     *mockInviteRepository
	txCount     int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		assessments: &mockAssessmentRepository{},
		responses:   &mockResponseRepository{},
		invites:     &mockInviteRepository{},
	}
}

func (m *mockRepository) Assessments() repositories.AssessmentRepository { return m.assessments }
func (m *mockRepository) Responses() repositories.ResponseRepository     { return m.responses }
func (m *mockRepository) Invites() repositories.InviteRepository         { return m.invites }

// WithTransaction runs fn with a nil tx; the mocks ignore it.
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	m.txCount++
	return fn(nil)
}

type mockAssessmentRepository struct {
	mock.Mock
}

func (m *mockAssessmentRepository) Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	args := m.Called(ctx, tx, assessment)
	return args.Error(0)
}

func (m *mockAssessmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assessment, error) {
	args := m.Called(ctx, tx, id)
	if a := args.Get(0); a != nil {
		// Copy so services mutating the result don't leak into later calls.
		cp := *a.(*models.Assessment)
		return &cp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssessmentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	args := m.Called(ctx, tx, filters)
	return args.Get(0).([]*models.Assessment), args.Get(1).(int64), args.Error(2)
}

func (m *mockAssessmentRepository) SaveGraph(ctx context.Context, tx *gorm.DB, id uint, nodes models.NodeList, edges models.EdgeList) (int, error) {
	args := m.Called(ctx, tx, id, nodes, edges)
	return args.Int(0), args.Error(1)
}

func (m *mockAssessmentRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.AssessmentStatus) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

func (m *mockAssessmentRepository) IsOwner(ctx context.Context, tx *gorm.DB, assessmentID uint, userID string) (bool, error) {
	args := m.Called(ctx, tx, assessmentID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAssessmentRepository) IncrementResponseCount(ctx context.Context, tx *gorm.DB, id uint) (int, error) {
	args := m.Called(ctx, tx, id)
	return args.Int(0), args.Error(1)
}

type mockResponseRepository struct {
	mock.Mock
}

func (m *mockResponseRepository) Create(ctx context.Context, tx *gorm.DB, response *models.CompletedResponse) error {
	args := m.Called(ctx, tx, response)
	return args.Error(0)
}

func (m *mockResponseRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.CompletedResponse, error) {
	args := m.Called(ctx, tx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.CompletedResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResponseRepository) ListByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uint, filters repositories.ResponseFilters) ([]models.CompletedResponse, error) {
	args := m.Called(ctx, tx, assessmentID, filters)
	return args.Get(0).([]models.CompletedResponse), args.Error(1)
}

type mockInviteRepository struct {
	mock.Mock
}

func (m *mockInviteRepository) GetByToken(ctx context.Context, tx *gorm.DB, token string) (*models.Invite, error) {
	args := m.Called(ctx, tx, token)
	if i := args.Get(0); i != nil {
		return i.(*models.Invite), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInviteRepository) ConsumeUse(ctx context.Context, tx *gorm.DB, token string, now time.Time) (*models.Invite, error) {
	args := m.Called(ctx, tx, token, now)
	if i := args.Get(0); i != nil {
		return i.(*models.Invite), args.Error(1)
	}
	return nil, args.Error(1)
}

// ===== COLLABORATOR MOCKS =====

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyAssessmentPublished(ctx context.Context, assessment *models.Assessment, warnings int, actor string) {
	m.Called(ctx, assessment, warnings, actor)
}

func (m *mockNotifier) NotifyResponseSubmitted(ctx context.Context, response *models.CompletedResponse) {
	m.Called(ctx, response)
}

func (m *mockNotifier) NotifyRunDeadEnd(ctx context.Context, run *models.Run, nodeID string) {
	m.Called(ctx, run, nodeID)
}

type mockAnalytics struct {
	mock.Mock
}

func (m *mockAnalytics) Summary(ctx context.Context, assessmentID uint, opts analytics.Options, actor string) (*analytics.Summary, error) {
	args := m.Called(ctx, assessmentID, opts, actor)
	if s := args.Get(0); s != nil {
		return s.(*analytics.Summary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalytics) GetResponse(ctx context.Context, assessmentID uint, responseID string, actor string) (*models.CompletedResponse, error) {
	args := m.Called(ctx, assessmentID, responseID, actor)
	if r := args.Get(0); r != nil {
		return r.(*models.CompletedResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalytics) InvalidateSummary(ctx context.Context, assessmentID uint) error {
	args := m.Called(ctx, assessmentID)
	return args.Error(0)
}

// ===== GRAPH FIXTURES =====

func entryNode(id string) models.Node {
	return models.Node{ID: id, Payload: models.EntryPayload{Title: "Welcome"}}
}

func exitNode(id string, showScore bool) models.Node {
	return models.Node{ID: id, Payload: models.ExitPayload{Title: "Thanks", ShowScore: showScore}}
}

func choiceNode(id, text string, options ...string) models.Node {
	q := models.QuestionPayload{QuestionKind: models.QuestionMultipleChoice, Text: text, Required: true}
	for _, opt := range options {
		q.Options = append(q.Options, models.Option{ID: opt, Text: opt})
	}
	return models.Node{ID: id, Payload: q}
}

func textNode(id, text string) models.Node {
	return models.Node{ID: id, Payload: models.QuestionPayload{QuestionKind: models.QuestionShortText, Text: text}}
}

func edge(id, from, to string) models.Edge {
	return models.Edge{ID: id, SourceNodeID: from, TargetNodeID: to}
}

func optionEdge(id, from, to, option string) models.Edge {
	return models.Edge{ID: id, SourceNodeID: from, TargetNodeID: to, Condition: models.NewSingleOption(option)}
}

// publishedAssessment: entry -> q1 (Yes -> why -> end, No -> end). q1 scores 1 point for Yes.
func publishedAssessment() *models.Assessment {
	q1 := choiceNode("q1", "Do you agree?", "Yes", "No")
	q := q1.Question()
	points := 1.0
	correct := models.Scalar("Yes")
	scored := *q
	scored.Points = &points
	scored.CorrectAnswer = &correct
	q1.Payload = scored

	return &models.Assessment{
		ID:        7,
		Title:     "Survey",
		Status:    models.StatusPublished,
		CreatedBy: "alice",
		Version:   3,
		Nodes: models.NodeList{
			entryNode("entry"),
			q1,
			textNode("why", "Why {{q1:that}}?"),
			exitNode("end", true),
		},
		Edges: models.EdgeList{
			edge("e0", "entry", "q1"),
			optionEdge("e1", "q1", "why", "Yes"),
			optionEdge("e2", "q1", "end", "No"),
			edge("e3", "why", "end"),
		},
	}
}
