package documents

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	localstore "resume-dashboard/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return &Service{
		Store:           localstore.New(t.TempDir()),
		Repo:            NewMemoryRepo(),
		StorageProvider: "local",
	}
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestUploadClassifiesExtraction(t *testing.T) {
	tests := []struct {
		name       string
		fileName   string
		body       []byte
		wantStatus TextStatus
	}{
		{name: "text", fileName: "resume.txt", body: []byte("Jane Doe\nGo engineer"), wantStatus: TextStatusExtracted},
		{name: "blank", fileName: "blank.txt", body: []byte("   \n\n"), wantStatus: TextStatusEmpty},
		{name: "image", fileName: "photo.png", body: pngHeader, wantStatus: TextStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			doc, err := svc.Upload(context.Background(), "user-1", tt.fileName, bytes.NewReader(tt.body))
			if err != nil {
				t.Fatalf("Upload: %v", err)
			}
			if doc.TextStatus != tt.wantStatus {
				t.Fatalf("expected status %s, got %s (%s)", tt.wantStatus, doc.TextStatus, doc.TextError)
			}
			if tt.wantStatus == TextStatusFailed {
				if doc.TextError == "" || doc.ExtractedTextKey != "" {
					t.Fatalf("expected failure details, got %+v", doc)
				}
			} else if doc.ExtractedTextKey == "" {
				t.Fatalf("expected extracted text key")
			}

			current, err := svc.Current(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("Current: %v", err)
			}
			if current.ID != doc.ID {
				t.Fatalf("expected current %s, got %s", doc.ID, current.ID)
			}
		})
	}
}

func TestUploadValidatesInput(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Upload(context.Background(), "user-1", " ", strings.NewReader("x")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), "", "a.txt", strings.NewReader("x")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTextReturnsExtractedText(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "user-1", "resume.txt", strings.NewReader("  Jane Doe  \n"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	_, text, err := svc.Text(ctx, "user-1", doc.ID)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "Jane Doe" {
		t.Fatalf("expected trimmed text, got %q", text)
	}

	if _, _, err := svc.Text(ctx, "user-2", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestTextDistinguishesEmptyFromFailed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	empty, err := svc.Upload(ctx, "user-1", "blank.txt", strings.NewReader(" "))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	_, text, err := svc.Text(ctx, "user-1", empty.ID)
	if err != nil || text != "" {
		t.Fatalf("expected empty text without error, got %q, %v", text, err)
	}

	failed, err := svc.Upload(ctx, "user-1", "photo.png", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, _, err := svc.Text(ctx, "user-1", failed.ID); !errors.Is(err, ErrTextUnavailable) {
		t.Fatalf("expected ErrTextUnavailable, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := svc.Upload(ctx, "user-1", name, strings.NewReader(name)); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}

	docs, err := svc.List(ctx, "user-1", 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
}
