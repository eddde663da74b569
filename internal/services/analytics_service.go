package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/analytics"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/cache"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/repositories"
)

const analyticsKeyPrefix = "analytics"

type analyticsService struct {
	repo     repositories.Repository
	cache    cache.CacheService
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewAnalyticsService builds the reporting service. cacheService may be nil to disable
// caching.
func NewAnalyticsService(repo repositories.Repository, cacheService cache.CacheService, cacheTTL time.Duration, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:     repo,
		cache:    cacheService,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Summary aggregates every response of an assessment. Results are cached per
// (assessment, days, buckets) until the next submission invalidates them.
func (s *analyticsService) Summary(ctx context.Context, assessmentID uint, opts analytics.Options, actor string) (*analytics.Summary, error) {
	if _, err := loadOwnedAssessment(ctx, s.repo, nil, assessmentID, actor); err != nil {
		return nil, err
	}

	if opts.Days <= 0 {
		opts.Days = analytics.DefaultTimelineDays
	}
	if opts.Buckets <= 0 {
		opts.Buckets = analytics.DefaultScoreBuckets
	}

	key := summaryCacheKey(assessmentID, opts)
	if s.cache != nil {
		var cached analytics.Summary
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Analytics cache read failed", "key", key, "error", err)
		}
	}

	responses, err := s.repo.Responses().ListByAssessment(ctx, nil, assessmentID, repositories.ResponseFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}

	if opts.Now.IsZero() {
		opts.Now = s.now()
	}
	summary := analytics.Summarize(responses, opts)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
			s.logger.Warn("Analytics cache write failed", "key", key, "error", err)
		}
	}
	return &summary, nil
}

func (s *analyticsService) GetResponse(ctx context.Context, assessmentID uint, responseID string, actor string) (*models.CompletedResponse, error) {
	if _, err := loadOwnedAssessment(ctx, s.repo, nil, assessmentID, actor); err != nil {
		return nil, err
	}

	response, err := s.repo.Responses().GetByID(ctx, nil, responseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if response.AssessmentID != assessmentID {
		return nil, ErrNotFound
	}
	return response, nil
}

// InvalidateSummary drops every cached summary variant of the assessment.
func (s *analyticsService) InvalidateSummary(ctx context.Context, assessmentID uint) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePattern(ctx, fmt.Sprintf("%s:%d:*", analyticsKeyPrefix, assessmentID))
}

func summaryCacheKey(assessmentID uint, opts analytics.Options) string {
	return fmt.Sprintf("%s:%d:%d:%d", analyticsKeyPrefix, assessmentID, opts.Days, opts.Buckets)
}
