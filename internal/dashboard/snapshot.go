package dashboard

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned by a SnapshotStore with nothing saved for a session.
var ErrSessionNotFound = errors.New("session not found")

// SnapshotStore persists populated dashboard state between process restarts and
// across replicas.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, st State) error
	Load(ctx context.Context, sessionID string) (State, error)
	Delete(ctx context.Context, sessionID string) error
}
