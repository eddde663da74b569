package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChannelEventPublisher_DeliversEnvelope(t *testing.T) {
	publisher, pubSub := NewChannelEventPublisher("flow-events", testLogger())
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "flow-events")
	require.NoError(t, err)

	score, maxScore := 4.0, 5.0
	submittedAt := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	event := NewResponseSubmittedEvent(ResponseSubmittedEvent{
		ResponseID:     "resp-1",
		AssessmentID:   12,
		SubmittedAt:    submittedAt,
		ElapsedSeconds: 42,
		AnswerCount:    3,
		Score:          &score,
		MaxScore:       &maxScore,
	})
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, "response.submitted", msg.Metadata.Get("event_type"))
		assert.Equal(t, "assessment-builder", msg.Metadata.Get("source"))
		assert.Equal(t, "2025-05-01T09:30:00Z", msg.Metadata.Get("timestamp"))

		var decoded struct {
			Type EventType              `json:"type"`
			Data map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, EventResponseSubmitted, decoded.Type)
		assert.Equal(t, "resp-1", decoded.Data["response_id"])
		assert.Equal(t, 4.0, decoded.Data["score"])
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestMockEventPublisher(t *testing.T) {
	m := NewMockEventPublisher(testLogger())
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, m.Publish(context.Background(), NewRunDeadEndEvent(RunDeadEndEvent{SessionID: "s", NodeID: "q3"}, at)))
	require.NoError(t, m.Publish(context.Background(), NewAssessmentPublishedEvent(AssessmentPublishedEvent{AssessmentID: 1, PublishedAt: at})))

	assert.Len(t, m.Events(), 2)
	deadEnds := m.EventsOfType(EventRunDeadEnd)
	require.Len(t, deadEnds, 1)
	assert.Equal(t, "q3", deadEnds[0].Data.(RunDeadEndEvent).NodeID)
	assert.Equal(t, at, deadEnds[0].Timestamp)
	assert.NotEmpty(t, deadEnds[0].ID)

	m.Clear()
	assert.Empty(t, m.Events())
}

func TestConsume_AcksDecodedAndUndecodableMessages(t *testing.T) {
	publisher, pubSub := NewChannelEventPublisher("flow-events", testLogger())
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *Event, 1)
	err := Consume(ctx, pubSub, "flow-events", testLogger(), func(_ context.Context, event *Event) error {
		received <- event
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, pubSub.Publish("flow-events", message.NewMessage("junk", []byte("not json"))))
	event := NewAssessmentPublishedEvent(AssessmentPublishedEvent{AssessmentID: 3, Title: "Survey"})
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case got := <-received:
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, EventAssessmentPublished, got.Type)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestChannelEventPublisher_DoesNotRetainMessages(t *testing.T) {
	publisher, pubSub := NewChannelEventPublisher("flow-events", testLogger())
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	early := NewAssessmentPublishedEvent(AssessmentPublishedEvent{AssessmentID: 1, Title: "Early"})
	require.NoError(t, publisher.Publish(ctx, early))

	messages, err := pubSub.Subscribe(ctx, "flow-events")
	require.NoError(t, err)

	late := NewAssessmentPublishedEvent(AssessmentPublishedEvent{AssessmentID: 2, Title: "Late"})
	require.NoError(t, publisher.Publish(ctx, late))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, late.ID, msg.UUID)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}
