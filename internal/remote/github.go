// github.go
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

package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/localnerve/sitecms/internal/types"
)

// DefaultCommitMessage labels commits written by the editor.
const DefaultCommitMessage = "Update data.json via Admin Panel"

// Target identifies the file in a repository.
type Target struct {
	Owner  string
	Repo   string
	Path   string
	Branch string
}

// Client talks to the GitHub repository contents API.
type Client struct {
	BaseURL string
	Token   string
	Target  Target
	HTTP    *http.Client
}

// NewClient creates a client for target authenticated by token.
func NewClient(baseURL, token string, target Target, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Target:  target,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// File is the current remote content and its revision marker.
type File struct {
	SHA     string
	Content []byte
}

type contentResponse struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *Client) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.BaseURL, url.PathEscape(c.Target.Owner), url.PathEscape(c.Target.Repo), c.Target.Path)
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+c.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Get reads the file and its current revision marker.
func (c *Client) Get(ctx context.Context) (*File, error) {
	if c.Token == "" {
		return nil, &types.RemoteAuthError{Reason: types.RemoteTokenMissing}
	}

	target := c.contentsURL() + "?ref=" + url.QueryEscape(c.Target.Branch)
	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &types.TransportError{Op: "GET", URL: target, Err: err}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &types.TransportError{Op: "GET", URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, false)
	}

	var body contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &types.TransportError{Op: "GET", URL: target, Err: err}
	}

	file := &File{SHA: body.SHA}
	if body.Encoding == "base64" {
		raw := strings.ReplaceAll(body.Content, "\n", "")
		file.Content, err = base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, &types.TransportError{Op: "GET", URL: target, Err: err}
		}
	}
	return file, nil
}

// Put replaces the file content on condition that the remote revision still equals sha.
// It returns the new revision marker.
func (c *Client) Put(ctx context.Context, content []byte, sha, message string) (string, error) {
	if c.Token == "" {
		return "", &types.RemoteAuthError{Reason: types.RemoteTokenMissing}
	}
	if message == "" {
		message = DefaultCommitMessage
	}

	payload, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     sha,
		Branch:  c.Target.Branch,
	})
	if err != nil {
		return "", err
	}

	target := c.contentsURL()
	req, err := c.newRequest(ctx, http.MethodPut, target, bytes.NewReader(payload))
	if err != nil {
		return "", &types.TransportError{Op: "PUT", URL: target, Err: err}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &types.TransportError{Op: "PUT", URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err := statusError(resp, true)
		var conflict *types.RemoteConflictError
		if errors.As(err, &conflict) {
			conflict.Expected = sha
		}
		return "", err
	}

	var body putResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("[Remote] Write accepted but reply was unreadable: %v", err)
		return "", nil
	}
	return body.Content.SHA, nil
}

// Save reads the current revision marker and writes content conditioned on it.
func (c *Client) Save(ctx context.Context, content []byte, message string) (string, error) {
	file, err := c.Get(ctx)
	if err != nil {
		return "", err
	}
	return c.Put(ctx, content, file.SHA, message)
}

func statusError(resp *http.Response, write bool) error {
	var body errorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if len(data) > 0 {
		_ = json.Unmarshal(data, &body)
	}
	detail := body.Message

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &types.RemoteAuthError{Status: resp.StatusCode, Reason: types.RemoteUnauthorized, Detail: detail}
	case http.StatusForbidden:
		return &types.RemoteAuthError{Status: resp.StatusCode, Reason: types.RemoteForbidden, Detail: detail}
	case http.StatusNotFound:
		return &types.RemoteAuthError{Status: resp.StatusCode, Reason: types.RemoteNotFound, Detail: detail}
	case http.StatusConflict:
		if write {
			return &types.RemoteConflictError{Status: resp.StatusCode, Detail: detail}
		}
	case http.StatusUnprocessableEntity:
		// 422 is also a payload validation failure; only a sha complaint is a stale marker
		if write && staleMarker(detail) {
			return &types.RemoteConflictError{Status: resp.StatusCode, Detail: detail}
		}
	}
	return &types.RemoteError{Status: resp.StatusCode, Detail: detail}
}

func staleMarker(detail string) bool {
	return strings.Contains(strings.ToLower(detail), "sha")
}
