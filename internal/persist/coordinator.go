// coordinator.go
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

package persist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"

	"github.com/localnerve/sitecms/internal/document"
	"github.com/localnerve/sitecms/internal/types"
)

// PasswordHashPath is where the credential digest lives in the document.
const PasswordHashPath = "admin.passwordHash"

// Digest is the credential digest written into the document and checked by the
// local write endpoint: lowercase hex SHA-256 of the password.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Confirmer asks the user to confirm the save.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Validity reports the currently flagged field paths in form order.
type Validity interface {
	Invalid() []string
}

// Record is one finished save as kept in history.
type Record struct {
	Backend  string
	State    string
	Message  string
	Revision string
	Snapshot []byte
}

// Recorder keeps save history.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Coordinator runs the save state machine against an ordered backend list.
type Coordinator struct {
	Store    *document.Store
	Validity Validity
	Backends []Backend
	History  Recorder
	Observe  func(State)
}

// ConfirmPrompt is asked before every save.
const ConfirmPrompt = "Save changes? The site will be updated."

// Save confirms, validates, binds the credential digest and dispatches.
func (c *Coordinator) Save(ctx context.Context, password string, confirm Confirmer) Result {
	c.enter(Confirming)
	if confirm != nil && !confirm.Confirm(ConfirmPrompt) {
		c.enter(Idle)
		return Result{State: Idle, Message: "Save cancelled."}
	}

	c.enter(Validating)
	if c.Validity != nil {
		if invalid := c.Validity.Invalid(); len(invalid) > 0 {
			err := &types.ValidationError{Fields: invalid}
			c.enter(Failed)
			return Result{
				State:   Failed,
				Err:     err,
				Focus:   err.First(),
				Message: "Some fields have input errors. Fix the highlighted fields and save again.",
			}
		}
	}

	if err := c.Store.Set(PasswordHashPath, Digest(password)); err != nil {
		c.enter(Failed)
		return Result{State: Failed, Err: err, Message: "Save failed: " + err.Error()}
	}
	payload, err := c.Store.Snapshot()
	if err != nil {
		c.enter(Failed)
		return Result{State: Failed, Err: err, Message: "Save failed: " + err.Error()}
	}

	res := c.dispatch(ctx, payload)
	c.enter(res.State)
	c.record(ctx, res, payload)
	return res
}

// dispatch tries backends in order until one succeeds or fails terminally.
func (c *Coordinator) dispatch(ctx context.Context, payload []byte) Result {
	var last Result
	for _, b := range c.Backends {
		if !b.Available() {
			continue
		}
		c.enter(b.State())

		attempt := b.Save(ctx, payload)
		last = Result{
			Backend:  b.Name(),
			Message:  attempt.Message,
			Err:      attempt.Err,
			Revision: attempt.Revision,
			Manual:   attempt.Manual,
			Tried:    append(last.Tried, b.Name()),
		}

		switch attempt.Outcome {
		case OutcomeSuccess:
			last.State = Success
			return last
		case OutcomeTerminal:
			last.State = Failed
			return last
		}
		log.Printf("[Save] %s backend unavailable, trying next: %v", b.Name(), attempt.Err)
	}

	last.State = Failed
	if last.Message == "" {
		last.Message = "Save failed: no save method is available."
	}
	return last
}

func (c *Coordinator) enter(s State) {
	if c.Observe != nil {
		c.Observe(s)
	}
}

func (c *Coordinator) record(ctx context.Context, res Result, payload []byte) {
	if c.History == nil || res.Backend == "" {
		return
	}
	rec := Record{
		Backend:  res.Backend,
		State:    res.State.String(),
		Message:  res.Message,
		Revision: res.Revision,
	}
	if res.State == Success {
		rec.Snapshot = payload
	}
	if err := c.History.Record(ctx, rec); err != nil {
		log.Printf("[Save] Failed to record save history: %v", err)
	}
}
