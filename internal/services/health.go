// health.go
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
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/localnerve/sitecms/internal/config"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	SiteRoot     string            `json:"siteRoot"`
	Document     string            `json:"document"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck verifies the site root is present and the document is readable JSON
func HealthCheck(cfg *config.Config) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	if info, err := os.Stat(cfg.SiteRoot); err != nil || !info.IsDir() {
		result.Status = "unhealthy"
		result.SiteRoot = "missing"
		result.ErrorMessage = fmt.Sprintf("Site root %s is not a directory", cfg.SiteRoot)
		log.Printf("Health check failed - site root: %v", err)
		return result
	}
	result.SiteRoot = "ok"
	result.Details["site_root"] = cfg.SiteRoot

	data, err := os.ReadFile(cfg.DataPath())
	switch {
	case err != nil:
		result.Status = "unhealthy"
		result.Document = "unreadable"
		result.Details["document_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Document read failed: %v", err)
		log.Printf("Health check failed - document read: %v", err)
	case !json.Valid(data):
		result.Status = "unhealthy"
		result.Document = "invalid"
		result.ErrorMessage = "Document is not valid JSON"
		log.Printf("Health check failed - document is not valid JSON")
	default:
		result.Document = "ok"
		result.Details["document"] = cfg.DataFile
	}

	return result
}
