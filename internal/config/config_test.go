package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/localnerve/sitecms/internal/config"
)

// TestLoadDefaults checks defaults when nothing is set
func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "SITE_URL", "STATE_DB_TYPE", "GITHUB_OWNER", "GITHUB_REPO", "SAVE_PATH"} {
		t.Setenv(k, "")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "3001" {
		t.Errorf("Expected port 3001, got %s", cfg.Port)
	}
	if cfg.SaveURL() != "http://localhost:3001/api/save" {
		t.Errorf("Unexpected save URL %s", cfg.SaveURL())
	}
	if cfg.DocumentURL() != "http://localhost:3001/data.json" {
		t.Errorf("Unexpected document URL %s", cfg.DocumentURL())
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("Unexpected timeout %v", cfg.RequestTimeout)
	}
	if cfg.RemoteConfigured() {
		t.Errorf("Expected no remote target by default")
	}
}

// TestLoadValidation checks invalid combinations are rejected
func TestLoadValidation(t *testing.T) {
	t.Setenv("PORT", "nope")
	if _, err := config.Load(); err == nil {
		t.Errorf("Expected invalid port to fail")
	}

	t.Setenv("PORT", "")
	t.Setenv("GITHUB_OWNER", "owner")
	t.Setenv("GITHUB_REPO", "")
	if _, err := config.Load(); err == nil {
		t.Errorf("Expected owner without repo to fail")
	}

	t.Setenv("GITHUB_OWNER", "")
	t.Setenv("STATE_DB_TYPE", "mysql")
	t.Setenv("STATE_DB_USER", "")
	if _, err := config.Load(); err == nil {
		t.Errorf("Expected mysql without user to fail")
	}
}

// TestLoadEnvFile checks dotenv values are applied
func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SITECMS_TEST_VALUE=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SITECMS_TEST_VALUE") })

	if err := config.LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}
	if os.Getenv("SITECMS_TEST_VALUE") != "from-file" {
		t.Errorf("Expected value from env file")
	}
	if err := config.LoadEnvFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("Expected missing file to fail")
	}
}

// TestHTTPClientTimeout checks outbound editor requests carry REQUEST_TIMEOUT
func TestHTTPClientTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "7")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.HTTPClient().Timeout; got != 7*time.Second {
		t.Errorf("Expected 7s client timeout, got %v", got)
	}
}
