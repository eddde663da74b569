package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventHandler is called once per decoded event. Returning an error nacks the message.
type EventHandler func(ctx context.Context, event *Event) error

// Consume subscribes to topic and feeds every event to handler until ctx is done or the
// subscriber is closed. Messages that do not decode are acked and dropped.
func Consume(ctx context.Context, sub message.Subscriber, topic string, logger *slog.Logger, handler EventHandler) error {
	messages, err := sub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	go func() {
		for msg := range messages {
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logger.Warn("Dropping undecodable event", "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			if err := handler(msg.Context(), &event); err != nil {
				logger.Error("Event handler failed",
					"event_id", event.ID,
					"event_type", event.Type,
					"error", err)
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()

	return nil
}

// LogHandler writes each event to logger. Used with the in-process publisher so events
// stay visible during development.
func LogHandler(logger *slog.Logger) EventHandler {
	return func(_ context.Context, event *Event) error {
		logger.Info("Flow event",
			"event_id", event.ID,
			"event_type", event.Type,
			"occurred_at", event.Timestamp)
		return nil
	}
}
