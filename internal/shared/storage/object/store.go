package object

import (
	"context"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// Object describes a stored blob.
type Object struct {
	Key         string
	SizeBytes   int64
	ContentType string
}

// ObjectStore saves and retrieves uploaded resumes and their derived text.
type ObjectStore interface {
	// Save stores r under a fresh key in the owner's namespace.
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (Object, error)
	// SaveWithKey stores r at an exact key, replacing any previous object.
	SaveWithKey(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

const sniffLen = 3072

// Sniff reads the head of r and detects its content type. The returned head must be
// written before the rest of r.
func Sniff(r io.Reader) ([]byte, string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", err
	}
	head = head[:n]
	return head, mimetype.Detect(head).String(), nil
}
