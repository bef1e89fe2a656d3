// Package health aggregates dependency checks for the health endpoint.
package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

const defaultCheckTimeout = 2 * time.Second

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// Report is the outcome of a health probe.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Service runs registered checks concurrently.
type Service struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	timeout time.Duration
}

// NewService constructs a Service with no checks.
func NewService() *Service {
	return &Service{
		checks:  map[string]CheckFunc{},
		timeout: defaultCheckTimeout,
	}
}

// Register adds a named check, replacing any previous one with that name.
func (s *Service) Register(name string, check CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Names lists registered checks in order.
func (s *Service) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status runs every check with a per-check timeout. A failing check marks the report
// not OK and records its error.
func (s *Service) Status(ctx context.Context) Report {
	s.mu.RLock()
	checks := make(map[string]CheckFunc, len(s.checks))
	for name, fn := range s.checks {
		checks[name] = fn
	}
	s.mu.RUnlock()

	report := Report{OK: true}
	if len(checks) == 0 {
		return report
	}
	report.Checks = make(map[string]string, len(checks))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, fn := range checks {
		wg.Add(1)
		go func(name string, fn CheckFunc) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			result := "ok"
			if err := fn(checkCtx); err != nil {
				result = err.Error()
			}
			mu.Lock()
			defer mu.Unlock()
			report.Checks[name] = result
			if result != "ok" {
				report.OK = false
			}
		}(name, fn)
	}
	wg.Wait()
	return report
}
