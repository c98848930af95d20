// editor.go
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
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/localnerve/sitecms/internal/form"
	"github.com/localnerve/sitecms/internal/persist"
	"github.com/localnerve/sitecms/internal/session"
)

// ErrQuit ends the editor loop.
var ErrQuit = errors.New("quit")

const helpText = `Commands:
  show                          print the form
  get <path>                    print one value
  set <path> <value...>         change a value (\n inserts a newline)
  add <collection>              append a new item, e.g. add events
  rm <collection> <index>       remove an item, e.g. rm sections.links.0.items 2
  bold <path> [start [end]]     wrap the selection in <b>
  link <path> [start [end]]     wrap the selection in a hyperlink
  br <path> [pos]               insert a line break
  invalid                       list fields with input errors
  save                          save the document
  logout                        forget the stored token and leave
  quit                          leave without saving
`

// Editor is the interactive editing loop over a logged-in session.
type Editor struct {
	Session *session.Session
	Sync    *form.Synchronizer
	Saver   *persist.Coordinator
	Term    *Terminal
}

// Run reads commands until quit, logout, or end of input.
func (e *Editor) Run(ctx context.Context) error {
	e.Term.Printf("Type help for commands.\n")
	for {
		e.Term.Printf("> ")
		line, err := e.Term.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		err = e.Exec(ctx, line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			e.Term.Printf("error: %v\n", err)
		}
	}
}

// Exec runs one command line.
func (e *Editor) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help", "?":
		e.Term.Printf("%s", helpText)
	case "show":
		Render(e.Term.out, e.Sync.Tree(), e.Sync.IsInvalid)
	case "get":
		if len(args) != 1 {
			return errors.New("usage: get <path>")
		}
		v, err := e.Session.Store().Get(args[0])
		if err != nil {
			return err
		}
		e.Term.Printf("%v\n", v)
	case "set":
		return e.set(line, args)
	case "add":
		if len(args) != 1 {
			return errors.New("usage: add <collection>")
		}
		return e.apply(form.Add, args[0], 0)
	case "rm":
		if len(args) != 2 {
			return errors.New("usage: rm <collection> <index>")
		}
		i, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad index %q", args[1])
		}
		return e.apply(form.Remove, args[0], i)
	case "bold":
		return e.format(form.Bold, args)
	case "link":
		return e.format(form.Hyperlink, args)
	case "br":
		return e.format(form.LineBreak, args)
	case "invalid":
		for _, p := range e.Sync.Invalid() {
			e.Term.Printf("! %s\n", p)
		}
	case "save":
		e.save(ctx)
	case "logout":
		ended, err := e.Session.Logout(ctx, e.Term)
		if err != nil {
			return err
		}
		if ended {
			e.Term.Printf("Logged out.\n")
			return ErrQuit
		}
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
	return nil
}

func (e *Editor) set(line string, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: set <path> <value...>")
	}
	path := args[0]

	// keep the value's inner spacing as typed
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "set"))
	value := strings.TrimSpace(strings.TrimPrefix(rest, path))
	value = strings.ReplaceAll(value, `\n`, "\n")

	if err := e.Sync.Change(path, value); err != nil {
		return err
	}
	if !e.Sync.Blur(path) {
		f, _ := e.Sync.Tree().Field(path)
		e.Term.Printf("! %s %s\n", path, f.Validator.Message)
	}
	return nil
}

func (e *Editor) apply(op form.Op, collection string, index int) error {
	action, ok := e.Sync.Tree().Action(op, collection, index)
	if !ok {
		return fmt.Errorf("no such collection or item: %s %d", collection, index)
	}
	changed, err := e.Sync.Apply(action, e.Term)
	if err != nil {
		return err
	}
	if changed {
		Render(e.Term.out, e.Sync.Tree(), e.Sync.IsInvalid)
	}
	return nil
}

func (e *Editor) format(kind form.Format, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: <bold|link|br> <path> [start [end]]")
	}
	path := args[0]
	f, ok := e.Sync.Tree().Field(path)
	if !ok {
		return fmt.Errorf("no field bound to %q", path)
	}

	end := form.RuneLen(f.Value)
	sel := form.Selection{Start: end, End: end}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad position %q", args[1])
		}
		sel = form.Selection{Start: n, End: n}
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("bad position %q", args[2])
		}
		sel.End = n
	}
	return e.Sync.Format(path, kind, sel, e.Term)
}

func (e *Editor) save(ctx context.Context) {
	res := e.Saver.Save(ctx, e.Session.Password(), e.Term)
	e.Term.Printf("%s\n", res.Message)
	if res.Focus != "" {
		for _, p := range e.Sync.Invalid() {
			e.Term.Printf("! %s\n", p)
		}
	}
}
