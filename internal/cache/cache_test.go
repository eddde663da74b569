package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisCache(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	type summary struct {
		Total int `json:"total"`
	}

	require.NoError(t, c.Set(ctx, "analytics:1:30:5", summary{Total: 7}, time.Minute))

	var got summary
	require.NoError(t, c.Get(ctx, "analytics:1:30:5", &got))
	assert.Equal(t, 7, got.Total)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, c.Get(ctx, "analytics:1:30:5", &got), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", 1, 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestRedisCache_UndecodableIsMiss(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisCache(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, mr.Set("bad", "{not json"))

	var dest map[string]int
	assert.ErrorIs(t, c.Get(context.Background(), "bad", &dest), ErrCacheMiss)
	assert.False(t, mr.Exists("bad"))
}

func TestRedisCache_DeletePattern(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisCache(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	for _, k := range []string{"analytics:1:30:5", "analytics:1:7:5", "analytics:2:30:5"} {
		require.NoError(t, c.Set(ctx, k, 1, 0))
	}

	require.NoError(t, c.DeletePattern(ctx, "analytics:1:*"))

	assert.False(t, mr.Exists("analytics:1:30:5"))
	assert.False(t, mr.Exists("analytics:1:7:5"))
	assert.True(t, mr.Exists("analytics:2:30:5"))
}

func TestRunStore_SaveLoadExpire(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRunStore(client, WithRunTTL(time.Hour), WithRunPrefix("test:run:"))
	ctx := context.Background()

	started := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)
	run := &models.Run{
		SessionID:      "sess-1",
		AssessmentID:   3,
		GraphVersion:   2,
		CurrentNodeID:  "q2",
		Answers:        map[string]models.Value{"q1": models.Strings("a", "b"), "age": models.Scalar(31)},
		VisitedHistory: []string{"entry", "q1", "q2"},
		StartedAt:      started,
		InviteToken:    "inv",
	}
	require.NoError(t, store.Save(ctx, run))
	assert.True(t, mr.Exists("test:run:sess-1"))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, run.CurrentNodeID, loaded.CurrentNodeID)
	assert.Equal(t, run.VisitedHistory, loaded.VisitedHistory)
	assert.Equal(t, run.Answers, loaded.Answers)
	assert.True(t, started.Equal(loaded.StartedAt))
	assert.Equal(t, "inv", loaded.InviteToken)

	mr.FastForward(59 * time.Minute)
	require.NoError(t, store.Save(ctx, loaded))
	mr.FastForward(59 * time.Minute)
	_, err = store.Load(ctx, "sess-1")
	assert.NoError(t, err, "saving refreshes the TTL")

	mr.FastForward(2 * time.Hour)
	_, err = store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunStore_Delete(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRunStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.Run{SessionID: "s"}))
	require.NoError(t, store.Delete(ctx, "s"))

	_, err := store.Load(ctx, "s")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
