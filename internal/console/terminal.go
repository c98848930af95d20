// terminal.go
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal reads answers from a line-oriented input and writes prompts to out.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminal wraps in and out. Password input is hidden when in is a terminal.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
	}
	return t
}

// ReadLine returns the next input line without its terminator.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Printf writes to the output.
func (t *Terminal) Printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// Confirm asks a yes/no question. Anything but y or yes declines.
func (t *Terminal) Confirm(prompt string) bool {
	t.Printf("%s [y/N] ", prompt)
	line, err := t.ReadLine()
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Prompt asks for a value with a default. An empty answer takes the default and
// end of input cancels.
func (t *Terminal) Prompt(message, defaultValue string) (string, bool) {
	if defaultValue != "" {
		t.Printf("%s [%s] ", message, defaultValue)
	} else {
		t.Printf("%s ", message)
	}
	line, err := t.ReadLine()
	if err != nil {
		return "", false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		line = defaultValue
	}
	return line, true
}

// Secret asks for a value without echoing it on a terminal.
func (t *Terminal) Secret(message string) (string, error) {
	t.Printf("%s ", message)
	if t.fd < 0 {
		return t.ReadLine()
	}
	b, err := term.ReadPassword(t.fd)
	t.Printf("\n")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
