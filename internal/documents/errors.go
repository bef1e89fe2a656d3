package documents

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrTextUnavailable is returned for documents whose extraction failed.
	ErrTextUnavailable = errors.New("text unavailable")
)
