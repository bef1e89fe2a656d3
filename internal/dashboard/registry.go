package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"resume-dashboard/internal/shared/metrics"
	"resume-dashboard/internal/shared/telemetry"
)

const (
	// DefaultRegistrySize bounds the live sessions when no size is configured.
	DefaultRegistrySize = 1024
	snapshotTimeout     = 2 * time.Second
)

// Session is one user's dashboard: its Store and the Loader that fills it.
type Session struct {
	ID     string
	Store  *Store
	Loader *Loader

	restoreOnce sync.Once
}

// ActionsFactory builds the Actions a session's Loader fetches through.
type ActionsFactory func(sessionID string) Actions

// Registry holds live sessions in a bounded LRU. Evicting a session clears its Store.
type Registry struct {
	mu         sync.Mutex
	cache      *lru.Cache[string, *Session]
	newActions ActionsFactory
	snapshots  SnapshotStore
	loaderOpts []LoaderOption
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSnapshots persists populated sessions to store and restores them on first use.
func WithSnapshots(store SnapshotStore) RegistryOption {
	return func(r *Registry) {
		r.snapshots = store
	}
}

// WithLoaderOptions applies opts to every session's Loader.
func WithLoaderOptions(opts ...LoaderOption) RegistryOption {
	return func(r *Registry) {
		r.loaderOpts = append(r.loaderOpts, opts...)
	}
}

// NewRegistry returns a Registry holding at most size sessions.
func NewRegistry(size int, newActions ActionsFactory, opts ...RegistryOption) (*Registry, error) {
	if newActions == nil {
		return nil, errors.New("dashboard: actions factory is required")
	}
	if size <= 0 {
		size = DefaultRegistrySize
	}
	r := &Registry{newActions: newActions}
	for _, opt := range opts {
		opt(r)
	}

	cache, err := lru.NewWithEvict[string, *Session](size, func(_ string, s *Session) {
		s.Store.Clear()
		s.Loader.reset()
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	r.cache = cache
	return r, nil
}

// Session returns the live session for id, creating it when absent. A new session
// restores its saved snapshot, if any, before it is returned.
func (r *Registry) Session(ctx context.Context, id string) *Session {
	r.mu.Lock()
	s, ok := r.cache.Get(id)
	if !ok {
		s = r.newSession(id)
		r.cache.Add(id, s)
	}
	r.mu.Unlock()
	metrics.SetActiveSessions(r.cache.Len())

	s.restoreOnce.Do(func() {
		r.restore(ctx, s)
	})
	return s
}

// Lookup returns the session for id only if it is live.
func (r *Registry) Lookup(id string) (*Session, bool) {
	return r.cache.Peek(id)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	return r.cache.Len()
}

// SetCurrentResume selects a resume in a live session and refreshes its snapshot.
// It reports whether the session was live.
func (r *Registry) SetCurrentResume(ctx context.Context, id string, resumeID *string) bool {
	s, ok := r.cache.Peek(id)
	if !ok {
		return false
	}
	s.Store.SetCurrentResumeID(resumeID)
	if s.Loader.Initialized() {
		r.save(ctx, id, s.Store.Snapshot())
	}
	return true
}

// Invalidate makes the session's next Load fetch again. The current state stays
// visible until the reload replaces it.
func (r *Registry) Invalidate(ctx context.Context, id string) {
	if s, ok := r.cache.Peek(id); ok {
		s.Loader.reset()
	}
	r.deleteSnapshot(ctx, id)
}

// Teardown drops the session and its snapshot. Its Store is cleared.
func (r *Registry) Teardown(ctx context.Context, id string) {
	r.mu.Lock()
	r.cache.Remove(id)
	r.mu.Unlock()
	metrics.SetActiveSessions(r.cache.Len())
	r.deleteSnapshot(ctx, id)
	telemetry.Info("dashboard.session.teardown", map[string]any{"session_id": id})
}

func (r *Registry) newSession(id string) *Session {
	store := NewStore()
	opts := append([]LoaderOption{WithSessionID(id)}, r.loaderOpts...)
	if r.snapshots != nil {
		opts = append(opts, WithOnPopulated(func(st State) {
			r.save(context.Background(), id, st)
		}))
	}
	return &Session{
		ID:     id,
		Store:  store,
		Loader: NewLoader(store, r.newActions(id), opts...),
	}
}

func (r *Registry) restore(ctx context.Context, s *Session) {
	if r.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
	defer cancel()

	st, err := r.snapshots.Load(ctx, s.ID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			telemetry.Warn("dashboard.snapshot.restore_failed", map[string]any{
				"session_id": s.ID,
				"error":      err,
			})
		}
		return
	}
	s.Store.restore(st)
	s.Loader.markInitialized()
	telemetry.Info("dashboard.snapshot.restored", map[string]any{"session_id": s.ID})
}

func (r *Registry) save(ctx context.Context, id string, st State) {
	if r.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
	defer cancel()
	if err := r.snapshots.Save(ctx, id, st); err != nil {
		telemetry.Warn("dashboard.snapshot.save_failed", map[string]any{
			"session_id": id,
			"error":      err,
		})
	}
}

func (r *Registry) deleteSnapshot(ctx context.Context, id string) {
	if r.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
	defer cancel()
	if err := r.snapshots.Delete(ctx, id); err != nil {
		telemetry.Warn("dashboard.snapshot.delete_failed", map[string]any{
			"session_id": id,
			"error":      err,
		})
	}
}
