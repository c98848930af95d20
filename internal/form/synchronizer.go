// synchronizer.go
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
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/localnerve/sitecms/internal/document"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Prompter asks the user for a value. ok is false when the user cancels.
type Prompter interface {
	Prompt(message, defaultValue string) (value string, ok bool)
}

// Format is a markup insertion offered on rich text fields.
type Format int

const (
	Bold Format = iota
	Hyperlink
	LineBreak
)

// Selection is a rune range within a field value.
type Selection struct {
	Start int
	End   int
}

// ErrNoConfirmer is returned for a removal attempted without a way to confirm it.
var ErrNoConfirmer = errors.New("removal needs a confirmation")

const (
	boldPlaceholder = "bold text"
	linkPlaceholder = "link text"
)

// Synchronizer keeps the form tree, the store and per-field validity consistent.
type Synchronizer struct {
	store   *document.Store
	tree    Tree
	invalid map[string]bool
	now     func() time.Time
}

// NewSynchronizer builds the initial tree for store.
func NewSynchronizer(store *document.Store) *Synchronizer {
	s := &Synchronizer{store: store, now: time.Now}
	s.Rebuild()
	return s
}

// Tree returns the current form tree.
func (s *Synchronizer) Tree() Tree {
	return s.tree
}

// Rebuild discards the tree and derives it again from the store. Validity is recomputed
// for every validated field so removed fields can never leave a stale flag behind.
// Loaded values are therefore flagged before their first blur, which is stricter than
// blur-only validation; a save must not go out with a bad value nobody touched.
func (s *Synchronizer) Rebuild() {
	s.tree = Build(s.store.Document())
	s.invalid = make(map[string]bool)
	for _, f := range s.tree.Fields() {
		if f.Validator != nil && !f.Validator.Validate(f.Value) {
			s.invalid[f.Path] = true
		}
	}
}

// Change writes a scalar edit through to the store. The tree is not rebuilt, but
// removal prompts are refreshed so they name items as they are now.
func (s *Synchronizer) Change(path, value string) error {
	if _, ok := s.tree.Field(path); !ok {
		return fmt.Errorf("no field bound to %q", path)
	}
	if err := s.store.Set(path, value); err != nil {
		return err
	}
	s.setValue(path, value)
	s.refreshPrompts()
	return nil
}

// Blur evaluates the field's validator and updates its flag. It reports validity.
func (s *Synchronizer) Blur(path string) bool {
	f, ok := s.tree.Field(path)
	if !ok || f.Validator == nil {
		return true
	}
	valid := f.Validator.Validate(f.Value)
	if valid {
		delete(s.invalid, path)
	} else {
		s.invalid[path] = true
	}
	return valid
}

// IsInvalid reports whether the field at path is flagged.
func (s *Synchronizer) IsInvalid(path string) bool {
	return s.invalid[path]
}

// Invalid returns the flagged field paths in form order.
func (s *Synchronizer) Invalid() []string {
	var out []string
	for _, f := range s.tree.Fields() {
		if s.invalid[f.Path] {
			out = append(out, f.Path)
		}
	}
	return out
}

// Apply performs a structural action. Every removal asks confirm first, naming the item
// as the store holds it now, and a decline leaves everything untouched. A removal without
// a Confirmer is refused. It reports whether the document changed.
func (s *Synchronizer) Apply(a Action, confirm Confirmer) (bool, error) {
	switch a.Op {
	case Add:
		if err := s.store.Append(a.Collection, document.NewItem(a.Item, s.now())); err != nil {
			return false, err
		}
	case Remove:
		if confirm == nil {
			return false, ErrNoConfirmer
		}
		item, err := s.store.Get(fmt.Sprintf("%s.%d", a.Collection, a.Index))
		if err != nil {
			return false, err
		}
		if !confirm.Confirm(RemovePrompt(a.Item, item)) {
			return false, nil
		}
		if err := s.store.RemoveAt(a.Collection, a.Index); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown action %d", a.Op)
	}
	s.Rebuild()
	return true, nil
}

// Format inserts markup into a rich text field around or at sel and writes it through.
func (s *Synchronizer) Format(path string, kind Format, sel Selection, prompt Prompter) error {
	f, ok := s.tree.Field(path)
	if !ok {
		return fmt.Errorf("no field bound to %q", path)
	}
	if f.Kind != RichText {
		return fmt.Errorf("field %q does not accept formatting", path)
	}

	runes := []rune(f.Value)
	start, end := clamp(sel.Start, len(runes)), clamp(sel.End, len(runes))
	if end < start {
		start, end = end, start
	}
	selected := string(runes[start:end])

	var insert string
	switch kind {
	case Bold:
		if selected == "" {
			selected = boldPlaceholder
		}
		insert = "<b>" + selected + "</b>"
	case Hyperlink:
		if prompt == nil {
			return nil
		}
		url, ok := prompt.Prompt("Enter the link URL:", "https://")
		if !ok || url == "" {
			return nil
		}
		if selected == "" {
			selected = linkPlaceholder
		}
		insert = fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, url, selected)
	case LineBreak:
		end = start
		insert = "<br>"
	default:
		return fmt.Errorf("unknown format %d", kind)
	}

	value := string(runes[:start]) + insert + string(runes[end:])
	return s.Change(path, value)
}

func (s *Synchronizer) refreshPrompts() {
	refresh := func(a *Action) {
		if a.Op != Remove {
			return
		}
		if item, err := s.store.Get(fmt.Sprintf("%s.%d", a.Collection, a.Index)); err == nil {
			a.Confirm = RemovePrompt(a.Item, item)
		}
	}
	for gi := range s.tree.Groups {
		g := &s.tree.Groups[gi]
		for li := range g.Lists {
			for bi := range g.Lists[li].Blocks {
				b := &g.Lists[li].Blocks[bi]
				refresh(&b.Remove)
				for ri := range b.Rows {
					refresh(&b.Rows[ri].Remove)
				}
			}
		}
	}
}

func (s *Synchronizer) setValue(path, value string) {
	for gi := range s.tree.Groups {
		g := &s.tree.Groups[gi]
		if setIn(g.Fields, path, value) {
			return
		}
		for li := range g.Lists {
			for bi := range g.Lists[li].Blocks {
				b := &g.Lists[li].Blocks[bi]
				if setIn(b.Fields, path, value) {
					return
				}
				for ri := range b.Rows {
					if setIn(b.Rows[ri].Fields, path, value) {
						return
					}
				}
			}
		}
	}
}

func setIn(fields []Field, path, value string) bool {
	for i := range fields {
		if fields[i].Path == path {
			fields[i].Value = value
			return true
		}
	}
	return false
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// RuneLen is the selection length unit used by Format.
func RuneLen(s string) int { return utf8.RuneCountInString(s) }
