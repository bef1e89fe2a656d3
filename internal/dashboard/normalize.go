package dashboard

import (
	"context"
	"errors"
	"strings"
)

const maxErrorMessageLen = 500

// NormalizeFunc maps a load failure to a display-ready message.
type NormalizeFunc func(error) string

// NormalizeError returns a non-empty, single-line message for err.
func NormalizeError(err error) string {
	switch {
	case err == nil:
		return "unexpected error"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request canceled"
	}

	msg := strings.Join(strings.Fields(err.Error()), " ")
	if msg == "" {
		return "unexpected error"
	}
	if len(msg) > maxErrorMessageLen {
		msg = strings.ToValidUTF8(msg[:maxErrorMessageLen], "")
	}
	return msg
}
