// tree.go
//
// Content editor and site server for a single-document static website
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of sitecms.
// sitecms is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// sitecms is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with sitecms.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package form

import (
	"fmt"

	"github.com/localnerve/sitecms/internal/document"
)

// Kind is the input kind of a field.
type Kind int

const (
	Text Kind = iota
	TextArea
	RichText
)

// Field is one editable value bound to a document path.
type Field struct {
	Path        string
	Label       string
	Kind        Kind
	Value       string
	Placeholder string
	Validator   *Validator
}

// Op is the structural operation an Action performs.
type Op int

const (
	Add Op = iota
	Remove
)

// Action is an add or remove control bound to a collection.
type Action struct {
	Op         Op
	Collection string
	Index      int
	Item       document.ItemKind
	Label      string
	Confirm    string
}

// Row is a compact line of fields, used for links.
type Row struct {
	Fields []Field
	Remove Action
}

// Block is one collection element.
type Block struct {
	Title  string
	Fields []Field
	Rows   []Row
	Add    *Action
	Remove Action
}

// List is an ordered collection with its add control.
type List struct {
	Title  string
	Blocks []Block
	Add    Action
}

// Group is a titled section of the form.
type Group struct {
	Title  string
	Fields []Field
	Lists  []List
}

// Tree is the whole form. It is derived from a document and holds no state of its own.
type Tree struct {
	Groups []Group
}

// Build derives the form tree for doc. It does not modify doc.
func Build(doc *document.Document) Tree {
	return Tree{Groups: []Group{
		siteConfigGroup(doc),
		aboutGroup(doc),
		activitiesGroup(doc),
		eventsGroup(doc),
		linksGroup(doc),
	}}
}

func siteConfigGroup(doc *document.Document) Group {
	sc := doc.SiteConfig
	return Group{
		Title: "Site Configuration",
		Fields: []Field{
			{Path: "siteConfig.title", Label: "Title", Kind: Text, Value: sc.Title},
			{Path: "siteConfig.subtitle", Label: "Subtitle", Kind: Text, Value: sc.Subtitle},
			{Path: "siteConfig.description", Label: "Description", Kind: TextArea, Value: sc.Description},
			{Path: "siteConfig.leaders", Label: "Leaders", Kind: Text, Value: sc.Leaders},
			{Path: "siteConfig.contactEmail", Label: "Contact Email", Kind: Text, Value: sc.ContactEmail, Validator: Email},
		},
	}
}

func aboutGroup(doc *document.Document) Group {
	return Group{
		Title: "About Section",
		Fields: []Field{
			{Path: "sections.about.content", Label: "Content (HTML allowed)", Kind: RichText, Value: doc.Sections.About.Content},
		},
	}
}

func activitiesGroup(doc *document.Document) Group {
	acts := doc.Activities
	if acts == nil {
		acts = &document.Activities{}
	}

	reports := List{
		Title: "Activity Reports",
		Add:   Action{Op: Add, Collection: "activities.items", Item: document.ItemReport, Label: "+ Add New Report"},
	}
	for i, r := range acts.Items {
		p := fmt.Sprintf("activities.items.%d", i)
		reports.Blocks = append(reports.Blocks, Block{
			Title: fmt.Sprintf("Activity Report %d", i+1),
			Fields: []Field{
				{Path: p + ".date", Label: "Date", Kind: Text, Value: r.Date},
				{Path: p + ".title", Label: "Title", Kind: Text, Value: r.Title},
				{Path: p + ".content", Label: "Content", Kind: RichText, Value: r.Content},
				{Path: p + ".link", Label: "Detail Link (Optional, URL)", Kind: Text, Value: r.Link, Validator: URL},
			},
			Remove: removeAction("activities.items", i, document.ItemReport, "Delete Report", r),
		})
	}

	media := List{
		Title: "Media / External Links",
		Add:   Action{Op: Add, Collection: "activities.media", Item: document.ItemMedia, Label: "+ Add New Media Link"},
	}
	for i, m := range acts.Media {
		p := fmt.Sprintf("activities.media.%d", i)
		media.Blocks = append(media.Blocks, Block{
			Title: fmt.Sprintf("Media Link %d", i+1),
			Fields: []Field{
				{Path: p + ".title", Label: "Title", Kind: Text, Value: m.Title},
				{Path: p + ".url", Label: "URL", Kind: Text, Value: m.URL, Validator: URL},
			},
			Remove: removeAction("activities.media", i, document.ItemMedia, "Delete Media Link", m),
		})
	}

	return Group{
		Title: "Activities",
		Fields: []Field{
			{Path: "activities.prVideoUrl", Label: "PR Video Embed URL", Kind: Text, Value: acts.PRVideoURL, Validator: URL},
		},
		Lists: []List{reports, media},
	}
}

func eventsGroup(doc *document.Document) Group {
	events := List{
		Title: "Events",
		Add:   Action{Op: Add, Collection: "events", Item: document.ItemEvent, Label: "+ Add New Event"},
	}
	for i, ev := range doc.Events {
		p := fmt.Sprintf("events.%d", i)
		events.Blocks = append(events.Blocks, Block{
			Title: fmt.Sprintf("Event %d", i+1),
			Fields: []Field{
				{Path: p + ".id", Label: "Event ID (unique)", Kind: Text, Value: ev.ID},
				{Path: p + ".title", Label: "Title", Kind: Text, Value: ev.Title},
				{Path: p + ".date", Label: "Date (e.g. 2026-03-20)", Kind: Text, Value: ev.Date},
				{Path: p + ".time", Label: "Time", Kind: Text, Value: ev.Time},
				{Path: p + ".location", Label: "Location", Kind: Text, Value: ev.Location},
				{Path: p + ".description", Label: "Short Description", Kind: TextArea, Value: ev.Description},
				{Path: p + ".details", Label: "Main Details", Kind: RichText, Value: ev.Details},
				{Path: p + ".link", Label: "External URL", Kind: Text, Value: ev.Link, Validator: URL},
				{Path: p + ".image", Label: "Image Path (e.g. assets/img.png)", Kind: Text, Value: ev.Image},
			},
			Remove: removeAction("events", i, document.ItemEvent, "Delete Event", ev),
		})
	}

	return Group{Title: "News / Events", Lists: []List{events}}
}

func linksGroup(doc *document.Document) Group {
	cats := List{
		Title: "Link Categories",
		Add:   Action{Op: Add, Collection: "sections.links", Item: document.ItemCategory, Label: "+ Add New Category"},
	}
	for i, cat := range doc.Sections.Links {
		p := fmt.Sprintf("sections.links.%d", i)
		block := Block{
			Title: fmt.Sprintf("Category %d", i+1),
			Fields: []Field{
				{Path: p + ".category", Label: "Category Name", Kind: Text, Value: cat.Category},
			},
			Add: &Action{Op: Add, Collection: p + ".items", Item: document.ItemLink, Label: "+ Add Link"},
			Remove: removeAction("sections.links", i, document.ItemCategory, "Delete Category", cat),
		}
		for j, link := range cat.Items {
			lp := fmt.Sprintf("%s.items.%d", p, j)
			titleLabel, urlLabel := "", ""
			if j == 0 {
				titleLabel, urlLabel = "Title", "URL"
			}
			block.Rows = append(block.Rows, Row{
				Fields: []Field{
					{Path: lp + ".title", Label: titleLabel, Kind: Text, Value: link.Title, Placeholder: "Link title"},
					{Path: lp + ".url", Label: urlLabel, Kind: Text, Value: link.URL, Placeholder: "https://...", Validator: URL},
				},
				Remove: removeAction(p+".items", j, document.ItemLink, "×", link),
			})
		}
		cats.Blocks = append(cats.Blocks, block)
	}

	return Group{Title: "Links Section", Lists: []List{cats}}
}

func removeAction(collection string, index int, kind document.ItemKind, label string, item any) Action {
	return Action{Op: Remove, Collection: collection, Index: index, Item: kind, Label: label, Confirm: RemovePrompt(kind, item)}
}

// RemovePrompt is the confirmation asked before removing item. Items that carry a
// name are named in it.
func RemovePrompt(kind document.ItemKind, item any) string {
	switch v := item.(type) {
	case document.Event:
		if v.Title != "" {
			return fmt.Sprintf("Are you sure you want to delete the event %q?", v.Title)
		}
		return "Are you sure you want to delete this event?"
	case document.ActivityReport:
		if v.Title != "" {
			return fmt.Sprintf("Are you sure you want to delete the report %q?", v.Title)
		}
		return "Are you sure you want to delete this report?"
	case document.MediaLink:
		return fmt.Sprintf("Delete media link %q?", v.Title)
	case document.LinkCategory:
		return fmt.Sprintf("Delete category %q? All links in it will be deleted too.", v.Category)
	case document.Link:
		return fmt.Sprintf("Delete link %q?", v.Title)
	}
	return fmt.Sprintf("Delete this %s?", kind)
}

// Fields returns every field in form order.
func (t Tree) Fields() []Field {
	var out []Field
	for _, g := range t.Groups {
		out = append(out, g.Fields...)
		for _, l := range g.Lists {
			for _, b := range l.Blocks {
				out = append(out, b.Fields...)
				for _, r := range b.Rows {
					out = append(out, r.Fields...)
				}
			}
		}
	}
	return out
}

// Actions returns every add and remove control in form order.
func (t Tree) Actions() []Action {
	var out []Action
	for _, g := range t.Groups {
		for _, l := range g.Lists {
			for _, b := range l.Blocks {
				out = append(out, b.Remove)
				for _, r := range b.Rows {
					out = append(out, r.Remove)
				}
				if b.Add != nil {
					out = append(out, *b.Add)
				}
			}
			out = append(out, l.Add)
		}
	}
	return out
}

// Field looks up the field bound to path.
func (t Tree) Field(path string) (Field, bool) {
	for _, f := range t.Fields() {
		if f.Path == path {
			return f, true
		}
	}
	return Field{}, false
}

// Action looks up a control by operation, collection and, for removals, index.
func (t Tree) Action(op Op, collection string, index int) (Action, bool) {
	for _, a := range t.Actions() {
		if a.Op == op && a.Collection == collection && (op == Add || a.Index == index) {
			return a, true
		}
	}
	return Action{}, false
}
