package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameLen = 200

// ErrInvalidFileName is returned for names that cannot be stored safely.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators, drops control characters and rejects
// traversal patterns. Long names keep their extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(name))
	if s == "" {
		return "", ErrInvalidFileName
	}
	if len(s) > maxFileNameLen {
		ext := ""
		if i := strings.LastIndex(s, "."); i > 0 && len(s)-i <= 10 {
			ext = s[i:]
		}
		s = s[:maxFileNameLen-len(ext)] + ext
	}
	return s, nil
}
