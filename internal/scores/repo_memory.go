package scores

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores scores in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string][]ResumeScore
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string][]ResumeScore)}
}

// Create stores the score.
func (r *MemoryRepo) Create(ctx context.Context, score ResumeScore) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[score.UserID] = append(r.byUser[score.UserID], score)
	return nil
}

// Latest returns the newest score for a user.
func (r *MemoryRepo) Latest(ctx context.Context, userID string) (ResumeScore, error) {
	history, err := r.History(ctx, userID, 1)
	if err != nil {
		return ResumeScore{}, err
	}
	if len(history) == 0 {
		return ResumeScore{}, ErrNotFound
	}
	return history[0], nil
}

// History returns the newest scores for a user in chronological order.
func (r *MemoryRepo) History(ctx context.Context, userID string, limit int) ([]ResumeScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]ResumeScore, len(r.byUser[userID]))
	copy(out, r.byUser[userID])
	r.mu.RUnlock()

	// Stable keeps insertion order for equal timestamps.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
