package scores

import "context"

// Repo defines persistence operations for resume scores.
type Repo interface {
	Create(ctx context.Context, score ResumeScore) error
	// Latest returns the newest score for the user or ErrNotFound.
	Latest(ctx context.Context, userID string) (ResumeScore, error)
	// History returns at most limit of the user's newest scores, oldest first.
	History(ctx context.Context, userID string, limit int) ([]ResumeScore, error)
}
