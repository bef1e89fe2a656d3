package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExtractPrintsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("Jane Doe\nGo engineer\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := runCmd(t, "extract", path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.TrimSpace(out) != "Jane Doe\nGo engineer" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestExtractReportsEmptyAndFailure(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := runCmd(t, "extract", empty); !errors.Is(err, errEmptyDocument) {
		t.Fatalf("expected errEmptyDocument, got %v", err)
	}

	broken := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(broken, []byte("%PDF-1.4 not really"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := runCmd(t, "extract", broken, "--mime", "application/pdf")
	if err == nil || errors.Is(err, errEmptyDocument) {
		t.Fatalf("expected extraction failure, got %v", err)
	}
}

func TestDashboardFetchesState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/dashboard" || r.Header.Get("X-Guest-Id") != "g1" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"initialized":true,"isLoading":false}`))
	}))
	defer srv.Close()

	out, err := runCmd(t, "dashboard", "--api", srv.URL, "--guest", "g1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !strings.Contains(out, `"initialized": true`) {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := runCmd(t, "dashboard", "--api", srv.URL); err == nil {
		t.Fatalf("expected identity error")
	}
}
