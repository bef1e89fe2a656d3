package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadReadsSessionSettings(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("SESSION_CACHE_SIZE", "16")
	t.Setenv("DASHBOARD_LOAD_TIMEOUT", "3s")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("OBJECT_STORE", "S3")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production env, got %s", cfg.Env)
	}
	if cfg.SessionTTL != 90*time.Minute {
		t.Fatalf("expected SessionTTL=90m, got %s", cfg.SessionTTL)
	}
	if cfg.SessionCacheSize != 16 {
		t.Fatalf("expected SessionCacheSize=16, got %d", cfg.SessionCacheSize)
	}
	if cfg.DashboardLoadTimeout != 3*time.Second {
		t.Fatalf("expected DashboardLoadTimeout=3s, got %s", cfg.DashboardLoadTimeout)
	}
	if cfg.RedisDB != 2 {
		t.Fatalf("expected RedisDB=2, got %d", cfg.RedisDB)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected s3 store, got %s", cfg.ObjectStoreType)
	}
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("SESSION_CACHE_SIZE", "many")

	cfg := Load()
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default SessionTTL, got %s", cfg.SessionTTL)
	}
	if cfg.SessionCacheSize != 1024 {
		t.Fatalf("expected default SessionCacheSize, got %d", cfg.SessionCacheSize)
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" http://a.test , ,http://b.test")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %#v", got)
	}
}

func TestLoadEnvFilesKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("RESUMECTL_TEST_A=fromfile\nRESUMECTL_TEST_B=\"quoted\"\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("RESUMECTL_TEST_A", "fromenv")
	t.Setenv("RESUMECTL_TEST_B", "")
	os.Unsetenv("RESUMECTL_TEST_B")

	loadEnvFiles(filepath.Join(dir, "missing.env"), path)

	if got := os.Getenv("RESUMECTL_TEST_A"); got != "fromenv" {
		t.Fatalf("expected existing value to win, got %q", got)
	}
	if got := os.Getenv("RESUMECTL_TEST_B"); got != "quoted" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
