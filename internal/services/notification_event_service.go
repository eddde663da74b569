package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/events"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

type notificationEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	now            func() time.Time
}

func NewNotificationEventService(eventPublisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
		now:            time.Now,
	}
}

// ===== ASSESSMENT NOTIFICATIONS =====

func (s *notificationEventService) NotifyAssessmentPublished(ctx context.Context, assessment *models.Assessment, warnings int, actor string) {
	publishedAt := s.now()
	if assessment.PublishedAt != nil {
		publishedAt = *assessment.PublishedAt
	}

	event := events.NewAssessmentPublishedEvent(events.AssessmentPublishedEvent{
		AssessmentID: assessment.ID,
		Title:        assessment.Title,
		Version:      assessment.Version,
		NodeCount:    len(assessment.Nodes),
		WarningCount: warnings,
		PublishedBy:  actor,
		PublishedAt:  publishedAt,
	})
	s.publish(ctx, event, "assessment_id", assessment.ID)
}

// ===== RUN NOTIFICATIONS =====

func (s *notificationEventService) NotifyResponseSubmitted(ctx context.Context, response *models.CompletedResponse) {
	event := events.NewResponseSubmittedEvent(events.ResponseSubmittedEvent{
		ResponseID:     response.ID,
		AssessmentID:   response.AssessmentID,
		SubmittedAt:    response.SubmittedAt,
		ElapsedSeconds: response.Elapsed().Seconds(),
		AnswerCount:    len(response.Answers),
		Score:          response.Score,
		MaxScore:       response.MaxScore,
	})
	s.publish(ctx, event, "response_id", response.ID)
}

func (s *notificationEventService) NotifyRunDeadEnd(ctx context.Context, run *models.Run, nodeID string) {
	event := events.NewRunDeadEndEvent(events.RunDeadEndEvent{
		SessionID:    run.SessionID,
		AssessmentID: run.AssessmentID,
		NodeID:       nodeID,
		GraphVersion: run.GraphVersion,
	}, s.now())
	s.publish(ctx, event, "session_id", run.SessionID)
}

func (s *notificationEventService) publish(ctx context.Context, event *events.Event, key string, value interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			"event_type", event.Type,
			"event_id", event.ID,
			key, value,
			"error", err)
		return
	}
	s.logger.Debug("Event published", "event_type", event.Type, "event_id", event.ID, key, value)
}
