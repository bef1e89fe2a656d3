package scores

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-dashboard/internal/shared/telemetry"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
	maxSummaryLen       = 2000
)

// Service contains business logic for resume scores.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service over repo.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Record validates and stores a new score for the user.
func (s *Service) Record(ctx context.Context, userID, documentID string, score int, summary string) (ResumeScore, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ResumeScore{}, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	if score < 0 || score > 100 {
		return ResumeScore{}, fmt.Errorf("%w: score must be between 0 and 100", ErrInvalidInput)
	}
	summary = strings.TrimSpace(summary)
	if len(summary) > maxSummaryLen {
		summary = strings.ToValidUTF8(summary[:maxSummaryLen], "")
	}

	rec := ResumeScore{
		ID:         uuid.NewString(),
		UserID:     userID,
		DocumentID: strings.TrimSpace(documentID),
		Score:      score,
		Summary:    summary,
		CreatedAt:  s.now(),
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return ResumeScore{}, fmt.Errorf("record score: %w", err)
	}
	telemetry.Info("score.recorded", map[string]any{
		"user_id":     userID,
		"score_id":    rec.ID,
		"document_id": rec.DocumentID,
		"score":       score,
	})
	return rec, nil
}

// Latest returns the user's newest score, or nil when none was recorded.
func (s *Service) Latest(ctx context.Context, userID string) (*ResumeScore, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	score, err := s.Repo.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest score: %w", err)
	}
	return &score, nil
}

// History returns up to limit of the user's newest scores in chronological order.
// Non-positive limits use DefaultHistoryLimit.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]ResumeScore, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	history, err := s.Repo.History(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("score history: %w", err)
	}
	return history, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
