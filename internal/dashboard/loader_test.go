package dashboard

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"resume-dashboard/internal/scores"
)

type fakeActions struct {
	latest    *scores.ResumeScore
	history   []scores.ResumeScore
	latestErr error
	histErr   error

	// gate, when set, blocks FetchLatestScore until closed.
	gate chan struct{}

	latestCalls  atomic.Int32
	historyCalls atomic.Int32
}

func (f *fakeActions) FetchLatestScore(ctx context.Context) (*scores.ResumeScore, error) {
	f.latestCalls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest, nil
}

func (f *fakeActions) FetchScoreHistory(ctx context.Context) ([]scores.ResumeScore, error) {
	f.historyCalls.Add(1)
	if f.histErr != nil {
		return nil, f.histErr
	}
	return f.history, nil
}

func score(id string, value int) scores.ResumeScore {
	return scores.ResumeScore{ID: id, Score: value}
}

func TestLoadPopulatesStore(t *testing.T) {
	r1 := score("r1", 82)
	actions := &fakeActions{
		latest:  &r1,
		history: []scores.ResumeScore{score("r0", 75), score("r1", 82)},
	}
	store := NewStore()
	loader := NewLoader(store, actions)

	loader.Load(context.Background())

	st := store.Snapshot()
	if got, ok := st.ResumeScoresByKey[LatestKey]; !ok || got.ID != "r1" || got.Score != 82 {
		t.Fatalf("expected latest r1/82, got %+v (present=%v)", got, ok)
	}
	want := []scores.ResumeScore{score("r0", 75), score("r1", 82)}
	if !reflect.DeepEqual(st.ResumeHistory, want) {
		t.Fatalf("expected history %+v, got %+v", want, st.ResumeHistory)
	}
	if st.IsLoading {
		t.Fatalf("expected loading to be false")
	}
	if st.ErrorMessage != nil {
		t.Fatalf("expected no error, got %q", *st.ErrorMessage)
	}
	if !loader.Initialized() {
		t.Fatalf("expected loader to be initialized")
	}
}

func TestLoadWithoutLatestStillLoadsHistory(t *testing.T) {
	actions := &fakeActions{history: []scores.ResumeScore{score("r0", 75)}}
	store := NewStore()
	loader := NewLoader(store, actions)

	loader.Load(context.Background())

	st := store.Snapshot()
	if _, ok := st.ResumeScoresByKey[LatestKey]; ok {
		t.Fatalf("expected latest to stay unset")
	}
	if len(st.ResumeHistory) != 1 || st.ResumeHistory[0].ID != "r0" {
		t.Fatalf("unexpected history: %+v", st.ResumeHistory)
	}
	if actions.historyCalls.Load() != 1 {
		t.Fatalf("expected one history fetch, got %d", actions.historyCalls.Load())
	}
	if !loader.Initialized() {
		t.Fatalf("expected loader to be initialized")
	}
}

func TestLoadFailureLeavesLoaderUninitialized(t *testing.T) {
	tests := []struct {
		name    string
		actions *fakeActions
	}{
		{name: "latest fails", actions: &fakeActions{latestErr: errors.New("boom")}},
		{name: "history fails", actions: &fakeActions{histErr: errors.New("boom")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			loader := NewLoader(store, tt.actions)

			loader.Load(context.Background())

			st := store.Snapshot()
			if st.ErrorMessage == nil || *st.ErrorMessage == "" {
				t.Fatalf("expected an error message")
			}
			if st.IsLoading {
				t.Fatalf("expected loading to be false")
			}
			if loader.Initialized() {
				t.Fatalf("expected loader to stay uninitialized")
			}
		})
	}
}

func TestLoadNetworkTimeoutKeepsPriorHistory(t *testing.T) {
	store := NewStore()
	prior := []scores.ResumeScore{score("r0", 75)}
	store.SetResumeHistory(prior)

	loader := NewLoader(store, &fakeActions{latestErr: errors.New("network timeout")})
	loader.Load(context.Background())

	st := store.Snapshot()
	if st.ErrorMessage == nil || !strings.Contains(*st.ErrorMessage, "network timeout") {
		t.Fatalf("expected error mentioning network timeout, got %v", st.ErrorMessage)
	}
	if !reflect.DeepEqual(st.ResumeHistory, prior) {
		t.Fatalf("expected history unchanged, got %+v", st.ResumeHistory)
	}
	if st.IsLoading {
		t.Fatalf("expected loading to be false")
	}
}

func TestLoadIsIdempotentAfterSuccess(t *testing.T) {
	r1 := score("r1", 82)
	actions := &fakeActions{latest: &r1, history: []scores.ResumeScore{r1}}
	store := NewStore()
	loader := NewLoader(store, actions)

	loader.Load(context.Background())
	before := store.Snapshot()
	loader.Load(context.Background())
	after := store.Snapshot()

	if actions.latestCalls.Load() != 1 || actions.historyCalls.Load() != 1 {
		t.Fatalf("expected one fetch each, got latest=%d history=%d",
			actions.latestCalls.Load(), actions.historyCalls.Load())
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("expected store unchanged, before=%+v after=%+v", before, after)
	}
}

func TestLoadRetriesAfterFailure(t *testing.T) {
	actions := &fakeActions{latestErr: errors.New("unavailable")}
	store := NewStore()
	loader := NewLoader(store, actions)

	loader.Load(context.Background())
	if loader.Initialized() {
		t.Fatalf("expected failure to leave loader uninitialized")
	}

	r1 := score("r1", 82)
	actions.latestErr = nil
	actions.latest = &r1
	actions.history = []scores.ResumeScore{r1}
	loader.Load(context.Background())

	st := store.Snapshot()
	if !loader.Initialized() {
		t.Fatalf("expected retry to initialize loader")
	}
	if st.ErrorMessage != nil {
		t.Fatalf("expected error cleared, got %q", *st.ErrorMessage)
	}
	if st.ResumeScoresByKey[LatestKey].ID != "r1" {
		t.Fatalf("expected latest r1, got %+v", st.ResumeScoresByKey)
	}
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	r1 := score("r1", 82)
	actions := &fakeActions{
		latest:  &r1,
		history: []scores.ResumeScore{r1},
		gate:    make(chan struct{}),
	}
	store := NewStore()
	loader := NewLoader(store, actions)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loader.Load(context.Background())
		}()
	}

	deadline := time.Now().Add(2 * time.Second)
	for actions.latestCalls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("load never started")
		}
		time.Sleep(time.Millisecond)
	}
	if !store.Snapshot().IsLoading {
		t.Fatalf("expected loading while fetch is in flight")
	}
	close(actions.gate)
	wg.Wait()

	if actions.latestCalls.Load() != 1 || actions.historyCalls.Load() != 1 {
		t.Fatalf("expected a single fetch pair, got latest=%d history=%d",
			actions.latestCalls.Load(), actions.historyCalls.Load())
	}
	if store.Snapshot().IsLoading {
		t.Fatalf("expected loading to be false")
	}
}

func TestLoadReturnsWhenCallerContextEnds(t *testing.T) {
	r1 := score("r1", 82)
	actions := &fakeActions{latest: &r1, gate: make(chan struct{})}
	store := NewStore()
	loader := NewLoader(store, actions)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loader.Load(ctx)
		close(done)
	}()
	for actions.latestCalls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Load did not return after cancel")
	}

	// The shared load keeps running without the caller.
	close(actions.gate)
	deadline := time.Now().Add(2 * time.Second)
	for !loader.Initialized() {
		if time.Now().After(deadline) {
			t.Fatalf("detached load never completed")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLoadTimeoutIsNormalized(t *testing.T) {
	actions := &fakeActions{gate: make(chan struct{})}
	store := NewStore()
	loader := NewLoader(store, actions, WithTimeout(10*time.Millisecond))

	loader.Load(context.Background())

	st := store.Snapshot()
	if st.ErrorMessage == nil || *st.ErrorMessage != "request timed out" {
		t.Fatalf("expected timeout message, got %v", st.ErrorMessage)
	}
	if loader.Initialized() {
		t.Fatalf("expected loader to stay uninitialized")
	}
}

type panickingActions struct{ fakeActions }

func (p *panickingActions) FetchScoreHistory(context.Context) ([]scores.ResumeScore, error) {
	panic("history exploded")
}

func TestLoadRecoversFromPanickingAction(t *testing.T) {
	store := NewStore()
	loader := NewLoader(store, &panickingActions{})

	loader.Load(context.Background())

	st := store.Snapshot()
	if st.ErrorMessage == nil || !strings.Contains(*st.ErrorMessage, "history exploded") {
		t.Fatalf("expected panic message, got %v", st.ErrorMessage)
	}
	if st.IsLoading {
		t.Fatalf("expected loading to be false after panic")
	}
}

func TestLoadUsesCustomNormalizerAndCallback(t *testing.T) {
	var populated []State
	store := NewStore()
	failing := NewLoader(store, &fakeActions{latestErr: errors.New("x")},
		WithNormalizer(func(error) string { return "custom" }))
	failing.Load(context.Background())
	if msg := store.Snapshot().ErrorMessage; msg == nil || *msg != "custom" {
		t.Fatalf("expected custom message, got %v", msg)
	}

	ok := NewLoader(store, &fakeActions{}, WithOnPopulated(func(st State) {
		populated = append(populated, st)
	}))
	ok.Load(context.Background())
	if len(populated) != 1 {
		t.Fatalf("expected one populated callback, got %d", len(populated))
	}
	if populated[0].IsLoading || populated[0].ErrorMessage != nil {
		t.Fatalf("unexpected populated state: %+v", populated[0])
	}
}
