package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

const defaultSnapshotPrefix = "dashboard:session:"

// RedisSnapshots implements SnapshotStore using Redis.
type RedisSnapshots struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisSnapshots.
type RedisOption func(*RedisSnapshots)

// WithTTL sets the expiration of saved snapshots. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisSnapshots) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisSnapshots) {
		s.prefix = prefix
	}
}

// NewRedisSnapshots connects a snapshot store to the given server.
func NewRedisSnapshots(address, password string, db int, opts ...RedisOption) *RedisSnapshots {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisSnapshotsFromClient(client, opts...)
}

// NewRedisSnapshotsFromClient builds a snapshot store over an existing client.
func NewRedisSnapshotsFromClient(client *backend.Client, opts ...RedisOption) *RedisSnapshots {
	s := &RedisSnapshots{
		client: client,
		prefix: defaultSnapshotPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client exposes the underlying client for health checks.
func (s *RedisSnapshots) Client() *backend.Client {
	return s.client
}

func (s *RedisSnapshots) key(sessionID string) string {
	return s.prefix + sessionID
}

// Save stores st under the session key.
func (s *RedisSnapshots) Save(ctx context.Context, sessionID string, st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the saved state or ErrSessionNotFound.
func (s *RedisSnapshots) Load(ctx context.Context, sessionID string) (State, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return State{}, ErrSessionNotFound
		}
		return State{}, fmt.Errorf("load snapshot: %w", err)
	}

	st := emptyState()
	if err := json.Unmarshal(val, &st); err != nil {
		return State{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	// clone fills in a null map or history.
	return st.clone(), nil
}

// Delete removes the session's snapshot. Missing keys are not an error.
func (s *RedisSnapshots) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
