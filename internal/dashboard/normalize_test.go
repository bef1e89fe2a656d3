package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "unexpected error"},
		{name: "blank", err: errors.New("  \n "), want: "unexpected error"},
		{name: "plain", err: errors.New("network timeout"), want: "network timeout"},
		{name: "multiline", err: errors.New("bad\n\tgateway  now"), want: "bad gateway now"},
		{name: "deadline", err: fmt.Errorf("fetch latest score: %w", context.DeadlineExceeded), want: "request timed out"},
		{name: "canceled", err: context.Canceled, want: "request canceled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeError(tt.err); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeErrorTruncates(t *testing.T) {
	got := NormalizeError(errors.New(strings.Repeat("é", 400)))
	if len(got) > maxErrorMessageLen {
		t.Fatalf("expected at most %d bytes, got %d", maxErrorMessageLen, len(got))
	}
	if !strings.HasPrefix(got, "é") || strings.ContainsRune(got, '�') {
		t.Fatalf("expected valid utf-8 prefix, got %q", got[:10])
	}
}
