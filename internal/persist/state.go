// state.go
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

import "fmt"

// State is a step of the save state machine.
type State int

const (
	Idle State = iota
	Confirming
	Validating
	RemoteSave
	LocalSave
	DownloadFallback
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Confirming:
		return "confirming"
	case Validating:
		return "validating"
	case RemoteSave:
		return "remote_save"
	case LocalSave:
		return "local_save"
	case DownloadFallback:
		return "download_fallback"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome tells the dispatcher whether to stop or try the next backend.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetryable
	OutcomeTerminal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeTerminal:
		return "terminal"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Attempt is what one backend reports for one save.
type Attempt struct {
	Outcome  Outcome
	Message  string
	Err      error
	Revision string
	Manual   bool
}

// Result is the user-visible end of a save.
type Result struct {
	State    State
	Backend  string
	Message  string
	Err      error
	Revision string
	Focus    string
	Manual   bool
	Tried    []string
}
