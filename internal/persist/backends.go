// backends.go
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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/localnerve/sitecms/internal/remote"
	"github.com/localnerve/sitecms/internal/types"
)

// Backend is one way of persisting the serialized document.
type Backend interface {
	Name() string
	State() State
	Available() bool
	Save(ctx context.Context, payload []byte) Attempt
}

// Writer is the remote revision-conditional store.
type Writer interface {
	Save(ctx context.Context, content []byte, message string) (string, error)
}

// RemoteBackend writes to the repository when a token is present. Every failure is
// terminal so an auth or conflict error is never masked by a later backend.
type RemoteBackend struct {
	Token   func() string
	Writer  func(token string) Writer
	Message string
}

func (r *RemoteBackend) Name() string { return "remote" }
func (r *RemoteBackend) State() State { return RemoteSave }
func (r *RemoteBackend) Available() bool { return r.Token != nil && r.Token() != "" }

func (r *RemoteBackend) Save(ctx context.Context, payload []byte) Attempt {
	sha, err := r.Writer(r.Token()).Save(ctx, payload, r.Message)
	if err != nil {
		return Attempt{Outcome: OutcomeTerminal, Err: err, Message: "Save to the repository failed: " + err.Error()}
	}
	return Attempt{
		Outcome:  OutcomeSuccess,
		Revision: sha,
		Message:  "Saved to the repository. The site will update within a few minutes.",
	}
}

// NewRemoteBackend binds a remote backend to a contents API target.
func NewRemoteBackend(baseURL string, target remote.Target, timeout time.Duration, token func() string) *RemoteBackend {
	return &RemoteBackend{
		Token: token,
		Writer: func(tok string) Writer {
			return remote.NewClient(baseURL, tok, target, timeout)
		},
		Message: remote.DefaultCommitMessage,
	}
}

// LocalBackend posts the document to the site server's write endpoint.
type LocalBackend struct {
	URL    string
	Client *http.Client
}

type localReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (l *LocalBackend) Name() string { return "local" }
func (l *LocalBackend) State() State { return LocalSave }
func (l *LocalBackend) Available() bool { return l.URL != "" }

func (l *LocalBackend) Save(ctx context.Context, payload []byte) Attempt {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.URL, bytes.NewReader(payload))
	if err != nil {
		return retryable(&types.TransportError{Op: "POST", URL: l.URL, Err: err})
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return retryable(&types.TransportError{Op: "POST", URL: l.URL, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return retryable(&types.TransportError{Op: "POST", URL: l.URL, Err: err})
	}

	var reply localReply
	if err := json.Unmarshal(body, &reply); err != nil {
		// a static host answers with HTML or nothing at all
		return retryable(&types.TransportError{Op: "POST", URL: l.URL, Err: fmt.Errorf("no write endpoint: %w", err)})
	}

	if !reply.Success {
		err := &types.WriteError{Status: resp.StatusCode, Message: reply.Message}
		return Attempt{Outcome: OutcomeTerminal, Err: err, Message: reply.Message}
	}
	return Attempt{Outcome: OutcomeSuccess, Message: reply.Message}
}

func retryable(err error) Attempt {
	return Attempt{Outcome: OutcomeRetryable, Err: err, Message: err.Error()}
}

// DownloadBackend writes the document to a local directory for manual upload.
type DownloadBackend struct {
	Dir      string
	FileName string
}

func (d *DownloadBackend) Name() string { return "download" }
func (d *DownloadBackend) State() State { return DownloadFallback }
func (d *DownloadBackend) Available() bool { return true }

func (d *DownloadBackend) Save(ctx context.Context, payload []byte) Attempt {
	name := d.FileName
	if name == "" {
		name = "data.json"
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return Attempt{Outcome: OutcomeTerminal, Err: err, Message: "Download failed: " + err.Error()}
	}

	dest, err := freeName(d.Dir, name)
	if err != nil {
		return Attempt{Outcome: OutcomeTerminal, Err: err, Message: "Download failed: " + err.Error()}
	}
	if err := os.WriteFile(dest, payload, 0o644); err != nil {
		return Attempt{Outcome: OutcomeTerminal, Err: err, Message: "Download failed: " + err.Error()}
	}

	return Attempt{
		Outcome: OutcomeSuccess,
		Manual:  true,
		Message: fmt.Sprintf("No write endpoint was reachable. The document was saved to %s; upload it to the site manually.", dest),
	}
}

// freeName picks name, or "base (n).ext" when name is taken.
func freeName(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	candidate := filepath.Join(dir, name)
	for n := 1; n < 1000; n++ {
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		} else if err != nil {
			return "", err
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, ext))
	}
	return "", fmt.Errorf("no free file name for %s in %s", name, dir)
}
