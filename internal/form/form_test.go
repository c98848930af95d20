package form_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/localnerve/sitecms/internal/document"
	"github.com/localnerve/sitecms/internal/form"
)

const testDocument = `{
  "siteConfig": { "title": "Site", "contactEmail": "" },
  "sections": {
    "about": { "content": "Hello world" },
    "links": [
      { "category": "Friends", "items": [
        { "title": "A", "url": "https://a.example.com" },
        { "title": "B", "url": "/b" },
        { "title": "C", "url": "ref/c" }
      ] }
    ]
  },
  "events": [
    { "id": "event-1", "title": "First" },
    { "id": "event-2", "title": "Second" }
  ],
  "admin": { "passwordHash": "" }
}`

type answer bool

func (a answer) Confirm(string) bool { return bool(a) }

// recorder answers yes and keeps every prompt it was shown
type recorder struct {
	prompts []string
}

func (r *recorder) Confirm(prompt string) bool {
	r.prompts = append(r.prompts, prompt)
	return true
}

type prompter struct {
	value string
	ok    bool
}

func (p prompter) Prompt(string, string) (string, bool) { return p.value, p.ok }

func newSync(t *testing.T) (*document.Store, *form.Synchronizer) {
	t.Helper()
	doc, err := document.Parse([]byte(testDocument))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}
	store := document.NewStore(doc)
	return store, form.NewSynchronizer(store)
}

// TestBuildDeterministic checks building twice yields equal trees
func TestBuildDeterministic(t *testing.T) {
	store, _ := newSync(t)
	before, _ := store.Snapshot()

	a := form.Build(store.Document())
	b := form.Build(store.Document())
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Build is not deterministic")
	}

	after, _ := store.Snapshot()
	if string(before) != string(after) {
		t.Errorf("Build modified the document")
	}
}

// TestLinkRowLabels checks only the first link row carries column labels
func TestLinkRowLabels(t *testing.T) {
	_, sync := newSync(t)

	var links form.Group
	for _, g := range sync.Tree().Groups {
		if g.Title == "Links Section" {
			links = g
		}
	}
	rows := links.Lists[0].Blocks[0].Rows
	if len(rows) != 3 {
		t.Fatalf("Expected 3 link rows, got %d", len(rows))
	}
	if rows[0].Fields[0].Label != "Title" || rows[0].Fields[1].Label != "URL" {
		t.Errorf("Expected labels on first row, got %+v", rows[0].Fields)
	}
	for i, r := range rows[1:] {
		for _, f := range r.Fields {
			if f.Label != "" {
				t.Errorf("Row %d: expected no label, got %q", i+1, f.Label)
			}
		}
	}
}

// TestScalarEditWritesThrough checks a field change lands at the bound path
func TestScalarEditWritesThrough(t *testing.T) {
	store, sync := newSync(t)

	if err := sync.Change("events.1.location", "Main Hall"); err != nil {
		t.Fatalf("Change failed: %v", err)
	}
	got, _ := store.GetString("events.1.location")
	if got != "Main Hall" {
		t.Errorf("Expected store value %q, got %q", "Main Hall", got)
	}
	f, _ := sync.Tree().Field("events.1.location")
	if f.Value != "Main Hall" {
		t.Errorf("Expected field value to follow the edit, got %q", f.Value)
	}

	if err := sync.Change("events.9.location", "x"); err == nil {
		t.Errorf("Expected change on unknown field to fail")
	}
}

// TestBlurValidation checks flags are set on blur only and track the value
func TestBlurValidation(t *testing.T) {
	_, sync := newSync(t)
	const email = "siteConfig.contactEmail"
	const link = "sections.links.0.items.1.url"

	if len(sync.Invalid()) != 0 {
		t.Fatalf("Expected no flags initially, got %v", sync.Invalid())
	}

	if err := sync.Change(email, "not-an-email"); err != nil {
		t.Fatal(err)
	}
	if err := sync.Change(link, "ftp://x"); err != nil {
		t.Fatal(err)
	}
	if len(sync.Invalid()) != 0 {
		t.Errorf("Expected no flags before blur, got %v", sync.Invalid())
	}

	if sync.Blur(email) {
		t.Errorf("Expected email to be invalid")
	}
	if got := sync.Invalid(); !reflect.DeepEqual(got, []string{email}) {
		t.Errorf("Expected exactly %q flagged, got %v", email, got)
	}

	sync.Blur(link)
	if got := sync.Invalid(); !reflect.DeepEqual(got, []string{email, link}) {
		t.Errorf("Expected flags in form order, got %v", got)
	}

	sync.Change(email, "a@example.com")
	if !sync.Blur(email) || sync.IsInvalid(email) {
		t.Errorf("Expected valid email to clear the flag")
	}
	sync.Change(link, "")
	if !sync.Blur(link) {
		t.Errorf("Expected empty URL to be valid")
	}
}

// TestValidators checks the accepted shapes
func TestValidators(t *testing.T) {
	for _, v := range []string{"", "https://x.example.com", "http://x", "/path", "./rel", "ref/doc.pdf"} {
		if !form.URL.Validate(v) {
			t.Errorf("Expected URL %q to be valid", v)
		}
	}
	for _, v := range []string{"ftp://x", "www.example.com", "javascript:alert(1)"} {
		if form.URL.Validate(v) {
			t.Errorf("Expected URL %q to be invalid", v)
		}
	}
	if !form.Email.Validate("a@example.com") || form.Email.Validate("not-an-email") {
		t.Errorf("Unexpected email validation")
	}
}

// TestDeclinedRemove checks a declined confirmation changes nothing
func TestDeclinedRemove(t *testing.T) {
	store, sync := newSync(t)
	before, _ := store.Snapshot()
	tree := sync.Tree()

	action, ok := tree.Action(form.Remove, "events", 0)
	if !ok {
		t.Fatalf("Expected a remove action for events.0")
	}
	changed, err := sync.Apply(action, answer(false))
	if err != nil || changed {
		t.Fatalf("Expected declined removal to be a no-op, got changed=%v err=%v", changed, err)
	}

	after, _ := store.Snapshot()
	if string(before) != string(after) {
		t.Errorf("Declined removal changed the document")
	}
	if !reflect.DeepEqual(tree, sync.Tree()) {
		t.Errorf("Declined removal changed the tree")
	}
}

// TestRemoveRebuilds checks a confirmed removal rebuilds the tree with shifted paths
func TestRemoveRebuilds(t *testing.T) {
	store, sync := newSync(t)

	action, _ := sync.Tree().Action(form.Remove, "sections.links.0.items", 0)
	if action.Confirm == "" {
		t.Errorf("Expected link removal to ask for confirmation")
	}
	if changed, err := sync.Apply(action, answer(true)); err != nil || !changed {
		t.Fatalf("Apply failed: changed=%v err=%v", changed, err)
	}

	items := store.Document().Sections.Links[0].Items
	if len(items) != 2 || items[0].Title != "B" {
		t.Errorf("Unexpected items after removal: %+v", items)
	}
	f, ok := sync.Tree().Field("sections.links.0.items.0.title")
	if !ok || f.Value != "B" || f.Label != "Title" {
		t.Errorf("Expected rebuilt first row bound to B with labels, got %+v", f)
	}
	if _, ok := sync.Tree().Field("sections.links.0.items.2.title"); ok {
		t.Errorf("Expected no field for a removed index")
	}
}

// TestRebuildDropsStaleFlags checks removed fields leave no flag behind
func TestRebuildDropsStaleFlags(t *testing.T) {
	_, sync := newSync(t)
	const bad = "events.1.link"

	sync.Change(bad, "nope")
	sync.Blur(bad)
	if !sync.IsInvalid(bad) {
		t.Fatalf("Expected %q to be flagged", bad)
	}

	action, _ := sync.Tree().Action(form.Remove, "events", 1)
	if _, err := sync.Apply(action, answer(true)); err != nil {
		t.Fatal(err)
	}
	if len(sync.Invalid()) != 0 {
		t.Errorf("Expected no flags after removing the flagged event, got %v", sync.Invalid())
	}
}

// TestAddTemplates checks add actions append the expected records
func TestAddTemplates(t *testing.T) {
	store, sync := newSync(t)

	add, _ := sync.Tree().Action(form.Add, "sections.links", 0)
	if _, err := sync.Apply(add, nil); err != nil {
		t.Fatal(err)
	}
	cats := store.Document().Sections.Links
	if len(cats) != 2 || cats[1].Category != "New Category" || cats[1].Items == nil {
		t.Errorf("Unexpected categories %+v", cats)
	}

	addLink, ok := sync.Tree().Action(form.Add, "sections.links.1.items", 0)
	if !ok {
		t.Fatalf("Expected add-link action on new category")
	}
	sync.Apply(addLink, nil)
	if f, ok := sync.Tree().Field("sections.links.1.items.0.url"); !ok || f.Label != "URL" {
		t.Errorf("Expected labeled first row in new category, got %+v", f)
	}

	addEvent, _ := sync.Tree().Action(form.Add, "events", 0)
	sync.Apply(addEvent, nil)
	if ev := store.Document().Events[2]; ev.Title != "New Event" || ev.ID == "" {
		t.Errorf("Unexpected event template %+v", ev)
	}
}

// TestFormat checks markup insertion on rich text fields
func TestFormat(t *testing.T) {
	store, sync := newSync(t)
	const path = "sections.about.content"

	if err := sync.Format(path, form.Bold, form.Selection{Start: 0, End: 5}, nil); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.GetString(path); got != "<b>Hello</b> world" {
		t.Errorf("Unexpected bold result %q", got)
	}

	sync.Format(path, form.LineBreak, form.Selection{Start: 0, End: 3}, nil)
	if got, _ := store.GetString(path); got != "<br><b>Hello</b> world" {
		t.Errorf("Unexpected line break result %q", got)
	}

	sync.Change(path, "x")
	sync.Format(path, form.Hyperlink, form.Selection{Start: 1, End: 1}, prompter{"https://e.example.com", true})
	if got, _ := store.GetString(path); got != `x<a href="https://e.example.com" target="_blank">link text</a>` {
		t.Errorf("Unexpected link result %q", got)
	}

	sync.Change(path, "y")
	sync.Format(path, form.Hyperlink, form.Selection{}, prompter{"", false})
	if got, _ := store.GetString(path); got != "y" {
		t.Errorf("Expected cancelled prompt to leave %q, got %q", "y", got)
	}

	if err := sync.Format("siteConfig.title", form.Bold, form.Selection{}, nil); err == nil {
		t.Errorf("Expected formatting a plain field to fail")
	}
}

// TestRemovePromptNamesRenamedItem checks prompts follow edits made after the tree was built
func TestRemovePromptNamesRenamedItem(t *testing.T) {
	_, sync := newSync(t)

	if err := sync.Change("sections.links.0.category", "Partners"); err != nil {
		t.Fatal(err)
	}
	if err := sync.Change("sections.links.0.items.1.title", "Bravo"); err != nil {
		t.Fatal(err)
	}

	want := []string{
		`Delete link "Bravo"?`,
		`Delete category "Partners"? All links in it will be deleted too.`,
	}

	linkAction, _ := sync.Tree().Action(form.Remove, "sections.links.0.items", 1)
	if linkAction.Confirm != want[0] {
		t.Errorf("Expected tree prompt %q, got %q", want[0], linkAction.Confirm)
	}

	rec := &recorder{}
	if _, err := sync.Apply(linkAction, rec); err != nil {
		t.Fatal(err)
	}
	catAction, _ := sync.Tree().Action(form.Remove, "sections.links", 0)
	if _, err := sync.Apply(catAction, rec); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rec.prompts, want) {
		t.Errorf("Expected prompts %q, got %q", want, rec.prompts)
	}
}

// TestRemoveAlwaysConfirms checks hand-built removals still ask and are refused without a Confirmer
func TestRemoveAlwaysConfirms(t *testing.T) {
	store, sync := newSync(t)
	action := form.Action{Op: form.Remove, Collection: "events", Index: 0, Item: document.ItemEvent}

	changed, err := sync.Apply(action, nil)
	if !errors.Is(err, form.ErrNoConfirmer) || changed {
		t.Fatalf("Expected refusal without a Confirmer, got changed=%v err=%v", changed, err)
	}
	if len(store.Document().Events) != 2 {
		t.Fatalf("Expected events untouched, got %d", len(store.Document().Events))
	}

	rec := &recorder{}
	if changed, err := sync.Apply(action, rec); err != nil || !changed {
		t.Fatalf("Apply failed: changed=%v err=%v", changed, err)
	}
	want := []string{`Are you sure you want to delete the event "First"?`}
	if !reflect.DeepEqual(rec.prompts, want) {
		t.Errorf("Expected prompts %q, got %q", want, rec.prompts)
	}
	if len(store.Document().Events) != 1 {
		t.Errorf("Expected one event left, got %d", len(store.Document().Events))
	}
}

// TestLoadedInvalidValueFlagged checks a bad value already in the document is flagged before any blur
func TestLoadedInvalidValueFlagged(t *testing.T) {
	doc, err := document.Parse([]byte(`{"siteConfig":{"contactEmail":"not-an-email"},"admin":{"passwordHash":""}}`))
	if err != nil {
		t.Fatal(err)
	}
	sync := form.NewSynchronizer(document.NewStore(doc))
	if got := sync.Invalid(); !reflect.DeepEqual(got, []string{"siteConfig.contactEmail"}) {
		t.Errorf("Expected the loaded email to be flagged, got %v", got)
	}
}
