package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	backend "github.com/redis/go-redis/v9"
)

// ErrRunNotFound is returned when a session has no stored run, including after expiry.
var ErrRunNotFound = errors.New("run not found")

const defaultRunPrefix = "assessment-builder:run:"

// RunStore keeps in-progress runs in Redis. Each save refreshes the TTL, so a run expires
// only after a period of inactivity.
type RunStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type RunStoreOption func(*RunStore)

// WithRunTTL sets the inactivity expiry. Zero disables expiry.
func WithRunTTL(ttl time.Duration) RunStoreOption {
	return func(s *RunStore) {
		s.ttl = ttl
	}
}

func WithRunPrefix(prefix string) RunStoreOption {
	return func(s *RunStore) {
		s.prefix = prefix
	}
}

func NewRunStore(client *backend.Client, opts ...RunStoreOption) *RunStore {
	store := &RunStore{
		client: client,
		prefix: defaultRunPrefix,
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *RunStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RunStore) Save(ctx context.Context, run *models.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := s.client.Set(ctx, s.key(run.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func (s *RunStore) Load(ctx context.Context, sessionID string) (*models.Run, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var run models.Run
	if err := json.Unmarshal(val, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	if run.Answers == nil {
		run.Answers = map[string]models.Value{}
	}
	return &run, nil
}

func (s *RunStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
