package dashboard

import (
	"sync"

	"resume-dashboard/internal/scores"
)

// Store is the state container for one dashboard session. Any number of readers may
// take snapshots; mutation goes through the setters only. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{state: emptyState()}
}

// SetResumeScore stores value under key.
func (s *Store) SetResumeScore(key string, value scores.ResumeScore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ResumeScoresByKey[key] = value
}

// SetResumeHistory replaces the history with a copy of seq.
func (s *Store) SetResumeHistory(seq []scores.ResumeScore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ResumeHistory = append([]scores.ResumeScore{}, seq...)
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = loading
}

// SetError sets or, with nil, clears the error message.
func (s *Store) SetError(msg *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ErrorMessage = cloneString(msg)
}

// SetCurrentResumeID sets or, with nil, clears the selected resume.
func (s *Store) SetCurrentResumeID(id *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentResumeID = cloneString(id)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Clear resets the store to its empty state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = emptyState()
}

// restore replaces the state with a persisted snapshot. Loading is never restored.
func (s *Store) restore(st State) {
	st = st.clone()
	st.IsLoading = false
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}
