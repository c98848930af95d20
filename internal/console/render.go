// render.go
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

package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/localnerve/sitecms/internal/form"
)

// Render writes the form tree as indented text. Flagged fields are marked with "!".
func Render(w io.Writer, tree form.Tree, invalid func(path string) bool) {
	for _, g := range tree.Groups {
		fmt.Fprintf(w, "== %s\n", g.Title)
		for _, f := range g.Fields {
			renderField(w, "  ", f, invalid)
		}
		for _, l := range g.Lists {
			fmt.Fprintf(w, "  -- %s (%d)\n", l.Title, len(l.Blocks))
			for _, b := range l.Blocks {
				fmt.Fprintf(w, "    %s  [rm %s %d]\n", b.Title, b.Remove.Collection, b.Remove.Index)
				for _, f := range b.Fields {
					renderField(w, "      ", f, invalid)
				}
				for _, r := range b.Rows {
					renderRow(w, r, invalid)
				}
				if b.Add != nil {
					fmt.Fprintf(w, "      %s  [add %s]\n", b.Add.Label, b.Add.Collection)
				}
			}
			fmt.Fprintf(w, "    %s  [add %s]\n", l.Add.Label, l.Add.Collection)
		}
	}
}

func renderField(w io.Writer, indent string, f form.Field, invalid func(string) bool) {
	mark := " "
	if invalid != nil && invalid(f.Path) {
		mark = "!"
	}
	label := f.Label
	if label == "" {
		label = f.Path
	}
	fmt.Fprintf(w, "%s%s %s <%s>: %s\n", indent, mark, label, f.Path, preview(f.Value))
}

func renderRow(w io.Writer, r form.Row, invalid func(string) bool) {
	var labels, cells []string
	mark := " "
	for _, f := range r.Fields {
		if f.Label != "" {
			labels = append(labels, f.Label)
		}
		cells = append(cells, preview(f.Value))
		if invalid != nil && invalid(f.Path) {
			mark = "!"
		}
	}
	if len(labels) > 0 {
		fmt.Fprintf(w, "        %s\n", strings.Join(labels, " | "))
	}
	fmt.Fprintf(w, "      %s %s  <%s>  [rm %s %d]\n", mark, strings.Join(cells, " | "),
		strings.TrimSuffix(r.Fields[0].Path, ".title"), r.Remove.Collection, r.Remove.Index)
}

func preview(v string) string {
	v = strings.ReplaceAll(v, "\n", `\n`)
	if r := []rune(v); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return v
}
