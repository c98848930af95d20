// sitefile.go
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

package services

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/sitecms/internal/types"
)

// SiteFile guards writes of the site document on disk.
type SiteFile struct {
	Path string
	mu   sync.Mutex
}

type adminProbe struct {
	Admin struct {
		PasswordHash string `json:"passwordHash"`
	} `json:"admin"`
}

func passwordHash(data []byte) string {
	var probe adminProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return ""
	}
	return probe.Admin.PasswordHash
}

// Save replaces the document with body when body carries the credential digest
// already stored on disk. Failures are *types.CustomError with an HTTP status.
func (f *SiteFile) Save(body []byte) error {
	if !json.Valid(body) {
		return &types.CustomError{Code: fiber.StatusBadRequest, Message: "Invalid JSON payload", Type: "payload"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := os.ReadFile(f.Path)
	if err != nil {
		log.Printf("[Save] Failed to read %s: %v", f.Path, err)
		return &types.CustomError{Code: fiber.StatusInternalServerError, Message: "Server file read error", Type: "read"}
	}

	serverHash := passwordHash(current)
	if serverHash == "" || serverHash != passwordHash(body) {
		return &types.CustomError{Code: fiber.StatusForbidden, Message: "Invalid Admin Password.", Type: "auth"}
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return &types.CustomError{Code: fiber.StatusBadRequest, Message: "Invalid JSON payload", Type: "payload"}
	}

	if err := writeAtomic(f.Path, out.Bytes()); err != nil {
		log.Printf("[Save] Failed to write %s: %v", f.Path, err)
		return &types.CustomError{Code: fiber.StatusInternalServerError, Message: "Failed to write file", Type: "write"}
	}

	log.Printf("[Save] Data saved successfully to %s", f.Path)
	return nil
}

// writeAtomic replaces path through a temporary file in the same directory.
func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
