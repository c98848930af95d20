package console_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/localnerve/sitecms/internal/console"
	"github.com/localnerve/sitecms/internal/document"
	"github.com/localnerve/sitecms/internal/form"
	"github.com/localnerve/sitecms/internal/persist"
	"github.com/localnerve/sitecms/internal/session"
)

func newEditor(t *testing.T, script string) (*console.Editor, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	doc := `{"siteConfig":{"title":"Site"},"sections":{"about":{"content":"Hi there"},"links":[]},` +
		`"events":[{"id":"event-1","title":"First"}],"admin":{"passwordHash":"` + persist.Digest("pw") + `"}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	sess := &session.Session{Source: document.FileSource{Path: path}}
	if err := sess.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := sess.Login(ctx, "pw", ""); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	sync := form.NewSynchronizer(sess.Store())
	out := &bytes.Buffer{}
	downloads := filepath.Join(dir, "downloads")
	ed := &console.Editor{
		Session: sess,
		Sync:    sync,
		Saver: &persist.Coordinator{
			Store:    sess.Store(),
			Validity: sync,
			Backends: []persist.Backend{&persist.DownloadBackend{Dir: downloads}},
		},
		Term: console.NewTerminal(strings.NewReader(script), out),
	}
	return ed, out, downloads
}

// TestEditorSession drives a full edit and save through the command loop
func TestEditorSession(t *testing.T) {
	script := strings.Join([]string{
		"set siteConfig.contactEmail bad",
		"save",
		"y",
		"set siteConfig.contactEmail a@example.com",
		"add events",
		"rm events 0",
		"n",
		"bold sections.about.content 0 2",
		"set siteConfig.subtitle Two  spaces",
		"save",
		"y",
		"quit",
	}, "\n")
	ed, out, downloads := newEditor(t, script)

	if err := ed.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "! siteConfig.contactEmail") {
		t.Errorf("Expected invalid email to be reported, got:\n%s", text)
	}

	data, err := os.ReadFile(filepath.Join(downloads, "data.json"))
	if err != nil {
		t.Fatalf("Expected a downloaded document: %v", err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		t.Fatalf("Downloaded document does not parse: %v", err)
	}
	if doc.SiteConfig.ContactEmail != "a@example.com" {
		t.Errorf("Unexpected email %q", doc.SiteConfig.ContactEmail)
	}
	if len(doc.Events) != 2 || doc.Events[0].Title != "First" || doc.Events[1].Title != "New Event" {
		t.Errorf("Unexpected events %+v", doc.Events)
	}
	if doc.Sections.About.Content != "<b>Hi</b> there" {
		t.Errorf("Unexpected about content %q", doc.Sections.About.Content)
	}
	if doc.SiteConfig.Subtitle != "Two  spaces" {
		t.Errorf("Expected inner spacing kept, got %q", doc.SiteConfig.Subtitle)
	}
	if doc.Admin.PasswordHash != persist.Digest("pw") {
		t.Errorf("Expected digest bound on save")
	}
}

// TestEditorLogout checks logout ends the loop
func TestEditorLogout(t *testing.T) {
	ed, out, _ := newEditor(t, "logout\ny\nshow\n")

	if err := ed.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Logged out.") {
		t.Errorf("Expected logout message, got:\n%s", out.String())
	}
	if ed.Session.Store() != nil {
		t.Errorf("Expected document discarded")
	}
}

// TestRender checks flags and first-row labels in the text form
func TestRender(t *testing.T) {
	doc, _ := document.Parse([]byte(`{"sections":{"links":[{"category":"C","items":[{"title":"a","url":"x"},{"title":"b","url":"/b"}]}]}}`))
	tree := form.Build(doc)

	var buf bytes.Buffer
	console.Render(&buf, tree, func(p string) bool { return p == "sections.links.0.items.0.url" })
	text := buf.String()

	if strings.Count(text, "Title | URL") != 1 {
		t.Errorf("Expected one label row, got:\n%s", text)
	}
	if !strings.Contains(text, "! a | x") {
		t.Errorf("Expected flagged row, got:\n%s", text)
	}
}
