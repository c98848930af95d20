// session.go
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

package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"strings"

	"github.com/localnerve/sitecms/internal/document"
	"github.com/localnerve/sitecms/internal/persist"
	"github.com/localnerve/sitecms/internal/types"
)

// LogoutPrompt is asked before logging out.
const LogoutPrompt = "Log out and delete the stored access token?"

// TokenStore persists the remote access token between sessions.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// TokenChecker confirms a token can read the remote target.
type TokenChecker func(ctx context.Context, token string) error

// Session is one authenticated editing session over a loaded document.
type Session struct {
	Source document.Source
	Tokens TokenStore
	Check  TokenChecker

	store    *document.Store
	password string
	token    string
	authed   bool
}

// Open loads the document. A load failure is fatal to the session.
func (s *Session) Open(ctx context.Context) error {
	doc, err := document.Load(ctx, s.Source)
	if err != nil {
		return err
	}
	s.store = document.NewStore(doc)

	if s.Tokens != nil {
		tok, err := s.Tokens.Token(ctx)
		if err != nil {
			log.Printf("[Session] Failed to read stored token: %v", err)
		}
		s.token = tok
	}
	return nil
}

// StoredToken is the token prefilled from the previous session, if any.
func (s *Session) StoredToken() string {
	return s.token
}

// Login checks password against the document digest. A non-empty token is checked
// against the remote target and persisted only when it works.
func (s *Session) Login(ctx context.Context, password, token string) error {
	if s.store == nil {
		return errors.New("session is not open")
	}

	want := s.store.Document().Admin.PasswordHash
	got := persist.Digest(password)
	if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return &types.AuthError{Message: "incorrect password"}
	}

	token = strings.TrimSpace(token)
	if token != "" {
		if s.Check != nil {
			if err := s.Check(ctx, token); err != nil {
				return err
			}
		}
		if s.Tokens != nil {
			if err := s.Tokens.SetToken(ctx, token); err != nil {
				log.Printf("[Session] Failed to persist token: %v", err)
			}
		}
		s.token = token
	}

	s.password = password
	s.authed = true
	return nil
}

// Authenticated reports whether Login succeeded.
func (s *Session) Authenticated() bool {
	return s.authed
}

// Store is the session's document store. It is nil before Open and after Logout.
func (s *Session) Store() *document.Store {
	return s.store
}

// Password is the credential entered at login, used to bind the digest on save.
func (s *Session) Password() string {
	return s.password
}

// Token is the remote access token in effect.
func (s *Session) Token() string {
	return s.token
}

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Logout clears the stored token and discards the document after confirmation.
// It reports whether the session ended.
func (s *Session) Logout(ctx context.Context, confirm Confirmer) (bool, error) {
	if confirm != nil && !confirm.Confirm(LogoutPrompt) {
		return false, nil
	}
	if s.Tokens != nil {
		if err := s.Tokens.ClearToken(ctx); err != nil {
			return false, err
		}
	}
	s.store = nil
	s.password = ""
	s.token = ""
	s.authed = false
	return true, nil
}
