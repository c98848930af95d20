// error.go
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

package types

import (
	"errors"
	"fmt"
	"strings"
)

// CustomError carries an HTTP status for the fiber error handler.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// ErrRevisionConflict matches any RemoteConflictError via errors.Is.
var ErrRevisionConflict = errors.New("revision conflict")

// LoadError reports a document that could not be fetched or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load document from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// AuthError reports a rejected credential at login.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "invalid password"
	}
	return e.Message
}

// ValidationError lists the field paths flagged invalid, in form order.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("some fields have input errors: %s", strings.Join(e.Fields, ", "))
}

// First returns the first offending field path, or "".
func (e *ValidationError) First() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0]
}

// RemoteAuthReason classifies a credential or scope failure at the remote store.
type RemoteAuthReason string

const (
	RemoteTokenMissing RemoteAuthReason = "token_missing"
	RemoteUnauthorized RemoteAuthReason = "unauthorized"
	RemoteForbidden    RemoteAuthReason = "forbidden"
	RemoteNotFound     RemoteAuthReason = "not_found"
)

// RemoteAuthError reports a token that is invalid, lacks scope, or cannot see the target.
type RemoteAuthError struct {
	Status int
	Reason RemoteAuthReason
	Detail string
}

func (e *RemoteAuthError) Error() string {
	var msg string
	switch e.Reason {
	case RemoteTokenMissing:
		msg = "no access token supplied"
	case RemoteUnauthorized:
		msg = "access token is invalid or expired, issue a new token"
	case RemoteForbidden:
		msg = "access token lacks write permission on the repository contents"
	case RemoteNotFound:
		msg = "repository or file not found, check the owner, repository and token scope"
	default:
		msg = "remote authorization failed"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// RemoteConflictError reports that the remote revision changed since it was read.
type RemoteConflictError struct {
	Status   int
	Expected string
	Detail   string
}

func (e *RemoteConflictError) Error() string {
	msg := "the remote file changed since it was read, reload and retry"
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is reports a match against ErrRevisionConflict.
func (e *RemoteConflictError) Is(target error) bool {
	return target == ErrRevisionConflict
}

// RemoteError is any other non-success reply from the remote store.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("remote store returned status %d", e.Status)
	}
	return fmt.Sprintf("remote store returned status %d: %s", e.Status, e.Detail)
}

// TransportError reports a network failure or an unusable reply.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// WriteError is an explicit rejection from the local write endpoint.
type WriteError struct {
	Status  int
	Message string
}

func (e *WriteError) Error() string { return e.Message }

// PathError reports a document path that does not resolve.
type PathError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *PathError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("path %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("path %q at %q: %s", e.Path, e.Segment, e.Reason)
}
