package dashboard

import (
	"context"

	"resume-dashboard/internal/scores"
)

// ScoreActions binds Actions to the scores service for one user.
type ScoreActions struct {
	Scores       *scores.Service
	UserID       string
	HistoryLimit int
}

// FetchLatestScore returns the user's newest score or nil.
func (a ScoreActions) FetchLatestScore(ctx context.Context) (*scores.ResumeScore, error) {
	return a.Scores.Latest(ctx, a.UserID)
}

// FetchScoreHistory returns the user's score history, oldest first.
func (a ScoreActions) FetchScoreHistory(ctx context.Context) ([]scores.ResumeScore, error) {
	return a.Scores.History(ctx, a.UserID, a.HistoryLimit)
}
