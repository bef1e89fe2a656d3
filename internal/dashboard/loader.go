package dashboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"resume-dashboard/internal/scores"
	"resume-dashboard/internal/shared/metrics"
	"resume-dashboard/internal/shared/telemetry"
)

// Actions fetches the data a dashboard is populated from.
type Actions interface {
	// FetchLatestScore returns nil, nil when no score exists.
	FetchLatestScore(ctx context.Context) (*scores.ResumeScore, error)
	FetchScoreHistory(ctx context.Context) ([]scores.ResumeScore, error)
}

const loadKey = "dashboard"

// Loader populates a Store from Actions once per session. Concurrent Load calls share
// one in-flight load; a failed load leaves the Loader uninitialized so the next Load
// retries.
type Loader struct {
	store       *Store
	actions     Actions
	normalize   NormalizeFunc
	timeout     time.Duration
	sessionID   string
	onPopulated func(State)

	group       singleflight.Group
	initialized atomic.Bool
	// generation advances on reset; a flight started under an older generation
	// never marks the loader initialized.
	generation atomic.Uint64
	// runMu keeps a stale flight from writing over a newer one.
	runMu sync.Mutex
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithNormalizer replaces NormalizeError.
func WithNormalizer(fn NormalizeFunc) LoaderOption {
	return func(l *Loader) {
		if fn != nil {
			l.normalize = fn
		}
	}
}

// WithTimeout bounds each load. Zero means no timeout.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithSessionID tags log lines with the session.
func WithSessionID(id string) LoaderOption {
	return func(l *Loader) {
		l.sessionID = id
	}
}

// WithOnPopulated registers a callback receiving the state after each successful load.
func WithOnPopulated(fn func(State)) LoaderOption {
	return func(l *Loader) {
		l.onPopulated = fn
	}
}

// NewLoader constructs a Loader writing into store.
func NewLoader(store *Store, actions Actions, opts ...LoaderOption) *Loader {
	l := &Loader{
		store:     store,
		actions:   actions,
		normalize: NormalizeError,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Initialized reports whether a load has completed successfully.
func (l *Loader) Initialized() bool {
	return l.initialized.Load()
}

// markInitialized records a population that did not go through Load.
func (l *Loader) markInitialized() {
	l.initialized.Store(true)
}

// reset makes the next Load fetch again. A load in flight when reset is called
// finishes without marking the loader initialized, and later callers do not join it.
func (l *Loader) reset() {
	l.generation.Add(1)
	l.group.Forget(loadKey)
	l.initialized.Store(false)
}

// Load populates the store unless it already was. It waits for the in-flight load or
// for ctx, whichever ends first; the load itself is not canceled by ctx. Outcomes are
// observed through the Store.
func (l *Loader) Load(ctx context.Context) {
	if l.initialized.Load() {
		metrics.IncDashboardLoad(metrics.LoadSkipped)
		return
	}

	leader := false
	ch := l.group.DoChan(loadKey, func() (any, error) {
		leader = true
		return nil, l.run(context.WithoutCancel(ctx))
	})

	select {
	case <-ch:
		if !leader {
			metrics.IncDashboardLoad(metrics.LoadJoined)
		}
	case <-ctx.Done():
	}
}

func (l *Loader) run(ctx context.Context) error {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	gen := l.generation.Load()
	// A load that finished between the caller's check and this flight.
	if l.initialized.Load() {
		return nil
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	metrics.IncDashboardLoad(metrics.LoadStarted)
	err := l.populate(ctx)
	duration := time.Since(start)
	metrics.ObserveDashboardLoad(duration)

	fields := map[string]any{
		"session_id":  l.sessionID,
		"duration_ms": float64(duration.Microseconds()) / 1000.0,
	}
	if err != nil {
		metrics.IncDashboardLoad(metrics.LoadFailed)
		fields["error"] = err.Error()
		fields["status_transition"] = "loading->errored"
		telemetry.Warn("dashboard.load", fields)
		return err
	}

	// Set before the check so a concurrent reset always wins.
	l.initialized.Store(true)
	if l.generation.Load() != gen {
		l.initialized.Store(false)
		metrics.IncDashboardLoad(metrics.LoadStale)
		fields["status_transition"] = "loading->stale"
		telemetry.Info("dashboard.load", fields)
		return nil
	}

	metrics.IncDashboardLoad(metrics.LoadCompleted)
	fields["status_transition"] = "loading->populated"
	telemetry.Info("dashboard.load", fields)
	if l.onPopulated != nil {
		l.onPopulated(l.store.Snapshot())
	}
	return nil
}

// populate runs both fetches with the loading flag held for their duration.
func (l *Loader) populate(ctx context.Context) (err error) {
	l.store.SetLoading(true)
	defer l.store.SetLoading(false)
	l.store.SetError(nil)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			msg := l.normalize(err)
			l.store.SetError(&msg)
		}
	}()

	latest, err := l.actions.FetchLatestScore(ctx)
	if err != nil {
		return fmt.Errorf("fetch latest score: %w", err)
	}
	if latest != nil {
		l.store.SetResumeScore(LatestKey, *latest)
	}

	history, err := l.actions.FetchScoreHistory(ctx)
	if err != nil {
		return fmt.Errorf("fetch score history: %w", err)
	}
	l.store.SetResumeHistory(history)
	return nil
}
