package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-dashboard/internal/extract"
	"resume-dashboard/internal/shared/metrics"
	"resume-dashboard/internal/shared/storage/object"
	"resume-dashboard/internal/shared/telemetry"
)

const maxTextErrorLen = 500

// Service contains business logic for documents.
type Service struct {
	Store           object.ObjectStore
	Repo            DocumentsRepo
	StorageProvider string
	Now             func() time.Time
}

// Upload saves the file to object storage, extracts its text and records the
// document. A failed extraction still records the document with TextStatusFailed.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Document, error) {
	if strings.TrimSpace(userID) == "" {
		return Document{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if strings.TrimSpace(fileName) == "" {
		return Document{}, fmt.Errorf("%w: file name required", ErrInvalidInput)
	}

	obj, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Document{}, fmt.Errorf("store document: %w", err)
	}

	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        obj.ContentType,
		SizeBytes:       obj.SizeBytes,
		StorageProvider: s.StorageProvider,
		StorageKey:      obj.Key,
		CreatedAt:       s.now(),
	}
	s.applyExtraction(ctx, &doc)

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("record document: %w", err)
	}
	return doc, nil
}

func (s *Service) applyExtraction(ctx context.Context, doc *Document) {
	start := time.Now()
	res, err := extract.FromStore(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)

	fields := map[string]any{
		"document_id": doc.ID,
		"user_id":     doc.UserID,
		"format":      string(res.Format),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	switch {
	case err != nil:
		doc.TextStatus = TextStatusFailed
		doc.TextError = truncate(err.Error(), maxTextErrorLen)
		fields["error"] = err.Error()
		fields["unsupported"] = errors.Is(err, extract.ErrUnsupportedFormat)
		telemetry.Warn("document.extract_failed", fields)
	case res.Empty():
		doc.TextStatus = TextStatusEmpty
		doc.ExtractedTextKey = extract.ExtractedKey(doc.StorageKey)
		doc.PageCount = res.Pages
		telemetry.Info("document.extract_empty", fields)
	default:
		doc.TextStatus = TextStatusExtracted
		doc.ExtractedTextKey = extract.ExtractedKey(doc.StorageKey)
		doc.PageCount = res.Pages
		fields["chars"] = len(res.Text)
		telemetry.Info("document.extracted", fields)
	}
	metrics.IncExtraction(string(res.Format), string(doc.TextStatus))
}

// Current returns the current document for a user.
func (s *Service) Current(ctx context.Context, userID string) (Document, error) {
	if userID == "" {
		return Document{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return s.Repo.GetCurrentByUser(ctx, userID)
}

// List returns a page of the user's documents, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Text returns the extracted text of a document. Empty documents yield "".
func (s *Service) Text(ctx context.Context, userID, documentID string) (Document, string, error) {
	if userID == "" || strings.TrimSpace(documentID) == "" {
		return Document{}, "", fmt.Errorf("%w: user id and document id required", ErrInvalidInput)
	}
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return Document{}, "", err
	}
	if doc.TextStatus == TextStatusFailed || doc.ExtractedTextKey == "" {
		return doc, "", ErrTextUnavailable
	}

	body, err := s.Store.Open(ctx, doc.ExtractedTextKey)
	if err != nil {
		return doc, "", fmt.Errorf("open extracted text: %w", err)
	}
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		return doc, "", fmt.Errorf("read extracted text: %w", err)
	}
	return doc, string(raw), nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func truncate(v string, n int) string {
	if len(v) <= n {
		return v
	}
	return strings.ToValidUTF8(v[:n], "")
}
