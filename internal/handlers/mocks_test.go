package handlers

import (
	"context"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/analytics"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/services"
	"github.com/stretchr/testify/mock"
)

type mockServiceManager struct {
	flow      *mockFlowService
	run       *mockRunService
	analytics *mockAnalyticsService
	export    *mockExportService
}

func newMockServiceManager() *mockServiceManager {
	return &mockServiceManager{
		flow:      &mockFlowService{},
		run:       &mockRunService{},
		analytics: &mockAnalyticsService{},
		export:    &mockExportService{},
	}
}

func (m *mockServiceManager) Flow() services.FlowService           { return m.flow }
func (m *mockServiceManager) Run() services.RunService             { return m.run }
func (m *mockServiceManager) Analytics() services.AnalyticsService { return m.analytics }
func (m *mockServiceManager) Export() services.ExportService       { return m.export }

type mockFlowService struct {
	mock.Mock
}

func (m *mockFlowService) Create(ctx context.Context, req *services.CreateAssessmentRequest, actor string) (*models.Assessment, error) {
	args := m.Called(ctx, req, actor)
	if a := args.Get(0); a != nil {
		return a.(*models.Assessment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFlowService) Get(ctx context.Context, id uint, actor string) (*models.Assessment, error) {
	args := m.Called(ctx, id, actor)
	if a := args.Get(0); a != nil {
		return a.(*models.Assessment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFlowService) List(ctx context.Context, filters repositories.AssessmentFilters, actor string) ([]*models.Assessment, int64, error) {
	args := m.Called(ctx, filters, actor)
	return args.Get(0).([]*models.Assessment), args.Get(1).(int64), args.Error(2)
}

func (m *mockFlowService) SaveGraph(ctx context.Context, id uint, req *services.SaveGraphRequest, actor string) (*models.Assessment, error) {
	args := m.Called(ctx, id, req, actor)
	if a := args.Get(0); a != nil {
		return a.(*models.Assessment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFlowService) Validate(ctx context.Context, id uint, actor string) (*services.ValidationReport, error) {
	args := m.Called(ctx, id, actor)
	if r := args.Get(0); r != nil {
		return r.(*services.ValidationReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFlowService) Publish(ctx context.Context, id uint, actor string) (*services.PublishResult, error) {
	args := m.Called(ctx, id, actor)
	if r := args.Get(0); r != nil {
		return r.(*services.PublishResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFlowService) Archive(ctx context.Context, id uint, actor string) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

func (m *mockFlowService) Ancestors(ctx context.Context, id uint, nodeID string, actor string) ([]services.PipingCandidate, error) {
	args := m.Called(ctx, id, nodeID, actor)
	if r := args.Get(0); r != nil {
		return r.([]services.PipingCandidate), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRunService struct {
	mock.Mock
}

func (m *mockRunService) view(args mock.Arguments) (*services.RunView, error) {
	if v := args.Get(0); v != nil {
		return v.(*services.RunView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRunService) Start(ctx context.Context, assessmentID uint, req *services.StartRunRequest) (*services.RunView, error) {
	return m.view(m.Called(ctx, assessmentID, req))
}

func (m *mockRunService) Get(ctx context.Context, sessionID string) (*services.RunView, error) {
	return m.view(m.Called(ctx, sessionID))
}

func (m *mockRunService) Answer(ctx context.Context, sessionID string, req *services.AnswerRequest) (*services.RunView, error) {
	return m.view(m.Called(ctx, sessionID, req))
}

func (m *mockRunService) Back(ctx context.Context, sessionID string) (*services.RunView, error) {
	return m.view(m.Called(ctx, sessionID))
}

type mockAnalyticsService struct {
	mock.Mock
}

func (m *mockAnalyticsService) Summary(ctx context.Context, assessmentID uint, opts analytics.Options, actor string) (*analytics.Summary, error) {
	args := m.Called(ctx, assessmentID, opts, actor)
	if s := args.Get(0); s != nil {
		return s.(*analytics.Summary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalyticsService) GetResponse(ctx context.Context, assessmentID uint, responseID string, actor string) (*models.CompletedResponse, error) {
	args := m.Called(ctx, assessmentID, responseID, actor)
	if r := args.Get(0); r != nil {
		return r.(*models.CompletedResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalyticsService) InvalidateSummary(ctx context.Context, assessmentID uint) error {
	return m.Called(ctx, assessmentID).Error(0)
}

type mockExportService struct {
	mock.Mock
}

func (m *mockExportService) Export(ctx context.Context, req *models.ExportRequest, actor string) ([]byte, string, error) {
	args := m.Called(ctx, req, actor)
	var body []byte
	if b := args.Get(0); b != nil {
		body = b.([]byte)
	}
	return body, args.String(1), args.Error(2)
}
