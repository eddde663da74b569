package services

import (
	"log/slog"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/cache"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/events"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/validator"
)

// ServiceManager hands out the services behind the HTTP API.
type ServiceManager interface {
	Flow() FlowService
	Run() RunService
	Analytics() AnalyticsService
	Export() ExportService
}

// ServiceDeps collects what NewServiceManager needs. Cache and Publisher may be nil.
type ServiceDeps struct {
	Repo              repositories.Repository
	Runs              RunStore
	Cache             cache.CacheService
	Publisher         events.EventPublisher
	Validator         *validator.Validator
	Logger            *slog.Logger
	AnalyticsCacheTTL time.Duration
}

type serviceManager struct {
	flow      FlowService
	run       RunService
	analytics AnalyticsService
	export    ExportService
}

func NewServiceManager(deps ServiceDeps, runOpts ...RunServiceOption) ServiceManager {
	notifier := NewNotificationEventService(deps.Publisher, deps.Logger)
	analytics := NewAnalyticsService(deps.Repo, deps.Cache, deps.AnalyticsCacheTTL, deps.Logger)

	return &serviceManager{
		flow:      NewFlowService(deps.Repo, deps.Validator, notifier, deps.Logger),
		run:       NewRunService(deps.Repo, deps.Runs, analytics, notifier, deps.Logger, runOpts...),
		analytics: analytics,
		export:    NewExportService(deps.Repo, deps.Validator, deps.Logger),
	}
}

func (m *serviceManager) Flow() FlowService           { return m.flow }
func (m *serviceManager) Run() RunService             { return m.run }
func (m *serviceManager) Analytics() AnalyticsService { return m.analytics }
func (m *serviceManager) Export() ExportService       { return m.export }
