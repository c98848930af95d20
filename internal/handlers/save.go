// save.go
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

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/sitecms/internal/services"
	"github.com/localnerve/sitecms/internal/types"
	"github.com/localnerve/sitecms/internal/utils"
)

// SaveHandler accepts document writes from the editor
type SaveHandler struct {
	File *services.SiteFile
}

// Save handles POST /api/save
// @Summary Save the site document
// @Description Replaces the site document when the payload carries the stored credential digest.
// @Tags Site
// @Accept json
// @Produce json
// @Param document body object true "Whole site document"
// @Success 200 {object} utils.SaveResponseStruct
// @Failure 400 {object} utils.SaveResponseStruct
// @Failure 403 {object} utils.SaveResponseStruct
// @Failure 500 {object} utils.SaveResponseStruct
// @Router /api/save [post]
func (h *SaveHandler) Save(c *fiber.Ctx) error {
	if err := h.File.Save(c.Body()); err != nil {
		var ce *types.CustomError
		if errors.As(err, &ce) {
			return utils.SaveResponse(c, ce.Code, false, ce.Message)
		}
		return utils.SaveResponse(c, fiber.StatusInternalServerError, false, err.Error())
	}
	return utils.SaveResponse(c, fiber.StatusOK, true, "Data saved successfully")
}
