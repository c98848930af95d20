// load.go
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

package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/localnerve/sitecms/internal/types"
)

// Source supplies the raw bytes of a persisted document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// FileSource reads the document from the local filesystem.
type FileSource struct {
	Path string
}

func (f FileSource) Fetch(ctx context.Context) ([]byte, error) {
	return os.ReadFile(f.Path)
}

func (f FileSource) String() string { return f.Path }

// HTTPSource fetches the document from the published site.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (h HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (h HTTPSource) String() string { return h.URL }

// Load fetches and parses a document. Any failure is a *types.LoadError.
func Load(ctx context.Context, src Source) (*Document, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, &types.LoadError{Source: src.String(), Err: err}
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, &types.LoadError{Source: src.String(), Err: err}
	}
	return doc, nil
}

// Parse decodes a document, migrating legacy links and filling missing containers.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	Normalize(&doc)
	return &doc, nil
}

// Normalize replaces absent optional containers with empty defaults.
func Normalize(doc *Document) {
	if doc.Sections.Links == nil {
		doc.Sections.Links = LinkCategories{}
	}
	for i := range doc.Sections.Links {
		if doc.Sections.Links[i].Items == nil {
			doc.Sections.Links[i].Items = []Link{}
		}
	}
	if doc.Events == nil {
		doc.Events = []Event{}
	}
	if doc.Activities == nil {
		doc.Activities = &Activities{Title: DefaultActivitiesTitle}
	}
	if doc.Activities.Items == nil {
		doc.Activities.Items = []ActivityReport{}
	}
	if doc.Activities.Media == nil {
		doc.Activities.Media = []MediaLink{}
	}
}

// Marshal serializes a document with two-space indentation and unescaped markup.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
