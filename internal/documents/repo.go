package documents

import "context"

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	// GetCurrentByUser returns the user's most recent upload or ErrNotFound.
	GetCurrentByUser(ctx context.Context, userID string) (Document, error)
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	// ListByUser returns documents newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error)
}
