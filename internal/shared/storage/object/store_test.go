package object

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestSniffDetectsPDFAndPreservesHead(t *testing.T) {
	payload := "%PDF-1.4\n" + strings.Repeat("x", 5000)
	r := strings.NewReader(payload)

	head, contentType, err := Sniff(r)
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if contentType != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", contentType)
	}
	rest, _ := io.ReadAll(r)
	if got := string(head) + string(rest); got != payload {
		t.Fatalf("head+rest does not reproduce payload")
	}
}

func TestSniffShortInput(t *testing.T) {
	head, contentType, err := Sniff(bytes.NewReader([]byte("hello")))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if string(head) != "hello" {
		t.Fatalf("unexpected head %q", head)
	}
	if !strings.HasPrefix(contentType, "text/plain") {
		t.Fatalf("expected text/plain, got %s", contentType)
	}
}
