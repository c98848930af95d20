// site.go
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

package handlers

import (
	"errors"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// SiteHandler serves the static site files
type SiteHandler struct {
	Root         string
	NotFoundPage string
}

// Static handles GET /*
// @Summary Serve a site file
// @Description Serves a file from the site root. / serves index.html; missing files get the 404 page.
// @Tags Site
// @Produce html
// @Param path path string true "File path"
// @Success 200 {file} file
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found page"
// @Router /{path} [get]
func (h *SiteHandler) Static(c *fiber.Ctx) error {
	urlPath := c.Path()
	if p, err := url.PathUnescape(urlPath); err == nil {
		urlPath = p
	}
	if urlPath == "/" || urlPath == "" {
		urlPath = "/index.html"
	}

	resolved, ok := ResolveSitePath(h.Root, urlPath)
	if !ok {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(fiber.StatusForbidden).SendString("Forbidden")
	}

	info, err := os.Stat(resolved)
	if err == nil && info.IsDir() {
		return h.notFound(c)
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return h.notFound(c)
		}
		log.Printf("[Site] Failed to read %s: %v", resolved, err)
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(fiber.StatusInternalServerError).SendString("Sorry, check with the site admin for error: " + errorCode(err))
	}

	c.Set(fiber.HeaderContentType, contentTypeFor(resolved))
	return c.Status(fiber.StatusOK).Send(content)
}

func (h *SiteHandler) notFound(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	content, err := os.ReadFile(filepath.Join(h.Root, h.NotFoundPage))
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("<h1>404 Not Found</h1>")
	}
	return c.Status(fiber.StatusNotFound).Send(content)
}

func errorCode(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
