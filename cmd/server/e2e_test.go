package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/localnerve/sitecms/internal/config"
	"github.com/localnerve/sitecms/internal/document"
	"github.com/localnerve/sitecms/internal/form"
	"github.com/localnerve/sitecms/internal/persist"
	"github.com/localnerve/sitecms/internal/session"
)

type yes struct{}

func (yes) Confirm(string) bool { return true }

// serve runs the site server on a loopback port and points SiteURL at it
func serve(t *testing.T, cfg *config.Config) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	cfg.SiteURL = "http://" + ln.Addr().String()

	app := newApp(cfg)
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })
}

func openEditor(t *testing.T, cfg *config.Config, download string) (*session.Session, *form.Synchronizer, *persist.Coordinator) {
	t.Helper()
	ctx := context.Background()

	sess := &session.Session{Source: &document.HTTPSource{URL: cfg.DocumentURL(), Client: cfg.HTTPClient()}}
	if err := sess.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := sess.Login(ctx, "pw", ""); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	sync := form.NewSynchronizer(sess.Store())
	saver := &persist.Coordinator{
		Store:    sess.Store(),
		Validity: sync,
		Backends: []persist.Backend{
			&persist.LocalBackend{URL: cfg.SaveURL(), Client: cfg.HTTPClient()},
			&persist.DownloadBackend{Dir: download},
		},
	}
	return sess, sync, saver
}

// TestE2ELocalSave edits through the form and saves through the running server
func TestE2ELocalSave(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	cfg := setupSite(t)
	serve(t, cfg)
	download := t.TempDir()

	sess, sync, saver := openEditor(t, cfg, download)

	if err := sync.Change("siteConfig.title", "Saved From Editor"); err != nil {
		t.Fatalf("Change failed: %v", err)
	}
	action, ok := sync.Tree().Action(form.Add, "events", 0)
	if !ok {
		t.Fatalf("Expected an add action for events")
	}
	if _, err := sync.Apply(action, yes{}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	res := saver.Save(context.Background(), sess.Password(), yes{})
	if res.State != persist.Success || res.Backend != "local" || res.Manual {
		t.Fatalf("Expected local success, got %+v", res)
	}

	data, err := os.ReadFile(cfg.DataPath())
	if err != nil {
		t.Fatal(err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		t.Fatalf("Saved document does not parse: %v", err)
	}
	if doc.SiteConfig.Title != "Saved From Editor" || len(doc.Events) != 1 {
		t.Errorf("Unexpected saved document: %+v", doc)
	}
	if doc.Admin.PasswordHash != persist.Digest("pw") {
		t.Errorf("Expected digest bound into saved document")
	}

	entries, _ := os.ReadDir(download)
	if len(entries) != 0 {
		t.Errorf("Expected no download fallback, found %d files", len(entries))
	}
}

// TestE2EBlockedByValidation checks an invalid field stops the save before any write
func TestE2EBlockedByValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	cfg := setupSite(t)
	serve(t, cfg)
	before, _ := os.ReadFile(cfg.DataPath())

	sess, sync, saver := openEditor(t, cfg, t.TempDir())
	sync.Change("siteConfig.contactEmail", "not-an-email")
	sync.Blur("siteConfig.contactEmail")

	res := saver.Save(context.Background(), sess.Password(), yes{})
	if res.State != persist.Failed || res.Focus != "siteConfig.contactEmail" {
		t.Fatalf("Expected validation failure, got %+v", res)
	}

	after, _ := os.ReadFile(cfg.DataPath())
	if string(before) != string(after) {
		t.Errorf("Expected document on disk unchanged")
	}
}

// TestE2EDownloadWhenServerGone checks the download fallback once the server stops answering
func TestE2EDownloadWhenServerGone(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	cfg := setupSite(t)
	serve(t, cfg)
	download := t.TempDir()

	sess, sync, saver := openEditor(t, cfg, download)
	sync.Change("siteConfig.title", "Offline")

	// nothing listens on the discard port
	saver.Backends[0] = &persist.LocalBackend{URL: "http://127.0.0.1:9/api/save"}

	res := saver.Save(context.Background(), sess.Password(), yes{})
	if res.State != persist.Success || res.Backend != "download" || !res.Manual {
		t.Fatalf("Expected manual download success, got %+v", res)
	}

	data, err := os.ReadFile(filepath.Join(download, "data.json"))
	if err != nil {
		t.Fatalf("Expected downloaded document: %v", err)
	}
	if !strings.Contains(string(data), `"title": "Offline"`) {
		t.Errorf("Unexpected downloaded document:\n%s", data)
	}
}
