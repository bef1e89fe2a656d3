package scores

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func newTestService() (*Service, *time.Time) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryRepo())
	svc.Now = func() time.Time { return now }
	return svc, &now
}

func TestRecordValidatesInput(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		score  int
	}{
		{name: "missing user", userID: " ", score: 50},
		{name: "negative score", userID: "u1", score: -1},
		{name: "score above range", userID: "u1", score: 101},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Record(ctx, tt.userID, "", tt.score, ""); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLatestReturnsNilWhenNoScores(t *testing.T) {
	svc, _ := newTestService()

	got, err := svc.Latest(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil score, got %+v", got)
	}
}

func TestHistoryIsChronologicalAndLimited(t *testing.T) {
	svc, now := newTestService()
	ctx := context.Background()

	for i, score := range []int{60, 75, 82} {
		*now = now.Add(time.Duration(i+1) * time.Hour)
		if _, err := svc.Record(ctx, "u1", "doc", score, "attempt"); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if _, err := svc.Record(ctx, "u2", "", 10, ""); err != nil {
		t.Fatalf("Record other user: %v", err)
	}

	history, err := svc.History(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].Score != 75 || history[1].Score != 82 {
		t.Fatalf("unexpected history: %+v", history)
	}

	latest, err := svc.Latest(ctx, "u1")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest == nil || latest.Score != 82 {
		t.Fatalf("expected latest score 82, got %+v", latest)
	}
}

func TestHistoryDefaultsLimit(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for i := 0; i < DefaultHistoryLimit+5; i++ {
		if _, err := svc.Record(ctx, "u1", "", i%100, ""); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	history, err := svc.History(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != DefaultHistoryLimit {
		t.Fatalf("expected %d entries, got %d", DefaultHistoryLimit, len(history))
	}
}

func TestRecordTruncatesSummaryOnRuneBoundary(t *testing.T) {
	svc, _ := newTestService()

	// Byte maxSummaryLen-1 starts a two-byte rune.
	summary := "a" + strings.Repeat("é", maxSummaryLen)
	rec, err := svc.Record(context.Background(), "u1", "", 70, summary)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !utf8.ValidString(rec.Summary) {
		t.Fatalf("expected valid UTF-8 summary")
	}
	if len(rec.Summary) != maxSummaryLen-1 {
		t.Fatalf("expected %d bytes, got %d", maxSummaryLen-1, len(rec.Summary))
	}
}
