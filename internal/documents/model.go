package documents

import "time"

// TextStatus records the outcome of text extraction for a document.
type TextStatus string

const (
	TextStatusExtracted TextStatus = "extracted"
	// TextStatusEmpty marks a document that decoded cleanly but holds no text.
	TextStatusEmpty  TextStatus = "empty"
	TextStatusFailed TextStatus = "failed"
)

// Document represents an uploaded document owned by a user.
type Document struct {
	ID               string
	UserID           string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	ExtractedTextKey string
	TextStatus       TextStatus
	TextError        string
	PageCount        int
	CreatedAt        time.Time
}
