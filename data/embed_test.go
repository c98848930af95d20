package data_test

import (
	"strings"
	"testing"

	"github.com/localnerve/sitecms/data"
	"github.com/localnerve/sitecms/internal/document"
)

// TestSeedDocument checks the starter document parses and has no password yet
func TestSeedDocument(t *testing.T) {
	doc, err := document.Parse(data.SeedDocument)
	if err != nil {
		t.Fatalf("Seed document does not parse: %v", err)
	}
	if doc.Admin.PasswordHash != "" {
		t.Errorf("Expected empty password hash in seed")
	}
	if doc.Activities == nil || doc.Activities.Title != document.DefaultActivitiesTitle {
		t.Errorf("Expected default activities section, got %+v", doc.Activities)
	}
	if len(doc.Sections.Links) != 1 || doc.Sections.Links[0].Category != document.UncategorizedName {
		t.Errorf("Expected one uncategorized link category, got %+v", doc.Sections.Links)
	}
}

// TestSeedNotFoundPage checks the starter 404 page is embedded
func TestSeedNotFoundPage(t *testing.T) {
	if !strings.Contains(string(data.SeedNotFoundPage), "404") {
		t.Errorf("Expected a 404 page")
	}
}
