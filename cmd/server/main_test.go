package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/localnerve/sitecms/internal/config"
	"github.com/localnerve/sitecms/internal/persist"
)

func setupSite(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":       "<html>home</html>",
		"404.html":         "<html>missing</html>",
		"css/site.css":     "body{}",
		"data.json":        `{"admin":{"passwordHash":"` + persist.Digest("pw") + `"}}`,
		".env":             "SECRET=1",
		"assets/photo.png": "png",
		"media/clip.webm":  "webm",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		os.MkdirAll(filepath.Dir(path), 0o755)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return &config.Config{
		Port:         "3001",
		SiteRoot:     root,
		DataFile:     "data.json",
		NotFoundPage: "404.html",
		SavePath:     "/api/save",
	}
}

func body(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// TestStaticFiles checks file serving, content types, and the 404 page
func TestStaticFiles(t *testing.T) {
	app := newApp(setupSite(t))

	cases := []struct {
		path   string
		status int
		ctype  string
		body   string
	}{
		{"/", 200, "text/html", "<html>home</html>"},
		{"/index.html?v=2", 200, "text/html", "<html>home</html>"},
		{"/css/site.css", 200, "text/css", "body{}"},
		{"/assets/photo.png", 200, "image/png", "png"},
		{"/media/clip.webm", 200, "video/webm", "webm"},
		{"/nope.html", 404, "text/html", "<html>missing</html>"},
		{"/css", 404, "text/html", "<html>missing</html>"},
		{"/.env", 403, "text/plain", "Forbidden"},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		if err != nil {
			t.Fatalf("%s: request failed: %v", tc.path, err)
		}
		if resp.StatusCode != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.path, tc.status, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tc.ctype) {
			t.Errorf("%s: expected content type %s, got %s", tc.path, tc.ctype, ct)
		}
		if got := body(t, resp.Body); got != tc.body {
			t.Errorf("%s: unexpected body %q", tc.path, got)
		}
	}
}

// TestDocumentNotCached checks the document is served with no-cache headers
func TestDocumentNotCached(t *testing.T) {
	app := newApp(setupSite(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/data.json", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if !strings.Contains(resp.Header.Get("Cache-Control"), "no-store") {
		t.Errorf("Expected no-store, got %q", resp.Header.Get("Cache-Control"))
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		t.Errorf("Unexpected content type %s", resp.Header.Get("Content-Type"))
	}
}

// TestSaveEndpoint checks the write endpoint replies
func TestSaveEndpoint(t *testing.T) {
	cfg := setupSite(t)
	app := newApp(cfg)

	post := func(payload string) (int, map[string]any) {
		req := httptest.NewRequest("POST", "/api/save", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		var reply map[string]any
		json.NewDecoder(resp.Body).Decode(&reply)
		return resp.StatusCode, reply
	}

	if code, reply := post(`{oops`); code != 400 || reply["success"] != false {
		t.Errorf("Expected 400 for malformed payload, got %d %v", code, reply)
	}
	if code, reply := post(`{"admin":{"passwordHash":"wrong"}}`); code != 403 || reply["message"] != "Invalid Admin Password." {
		t.Errorf("Expected 403 for wrong digest, got %d %v", code, reply)
	}

	payload := `{"siteConfig":{"title":"Saved"},"admin":{"passwordHash":"` + persist.Digest("pw") + `"}}`
	code, reply := post(payload)
	if code != 200 || reply["success"] != true || reply["message"] != "Data saved successfully" {
		t.Fatalf("Expected success, got %d %v", code, reply)
	}
	data, _ := os.ReadFile(cfg.DataPath())
	if !strings.Contains(string(data), "\n  \"siteConfig\": {\n    \"title\": \"Saved\"") {
		t.Errorf("Expected indented document on disk, got:\n%s", data)
	}
}

// TestMethodNotAllowed checks unsupported methods get 405
func TestMethodNotAllowed(t *testing.T) {
	app := newApp(setupSite(t))

	for _, method := range []string{"PUT", "DELETE"} {
		resp, err := app.Test(httptest.NewRequest(method, "/api/save", nil))
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != 405 {
			t.Errorf("%s: expected 405, got %d", method, resp.StatusCode)
		}
	}
	resp, _ := app.Test(httptest.NewRequest("POST", "/other", nil))
	if resp.StatusCode != 405 {
		t.Errorf("Expected 405 for POST elsewhere, got %d", resp.StatusCode)
	}
}

// TestHealthEndpoint checks the health route
func TestHealthEndpoint(t *testing.T) {
	app := newApp(setupSite(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}
