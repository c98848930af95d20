// history.go
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
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/sitecms/internal/models"
	"github.com/localnerve/sitecms/internal/persist"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoSnapshot is returned when a save record carries no document.
var ErrNoSnapshot = errors.New("save record has no snapshot")

// SaveHistory keeps a record of every finished save.
type SaveHistory struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (h *SaveHistory) quiet(ctx context.Context) *gorm.DB {
	return h.DB.WithContext(ctx).Session(&gorm.Session{Logger: h.DB.Logger.LogMode(logger.Silent)})
}

// Record implements persist.Recorder.
func (h *SaveHistory) Record(ctx context.Context, rec persist.Record) error {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	row := models.SaveRecord{
		SaveID:    uuid.NewString(),
		Backend:   rec.Backend,
		State:     rec.State,
		Message:   rec.Message,
		Revision:  rec.Revision,
		Snapshot:  models.NewJSON(rec.Snapshot),
		CreatedAt: now().UTC(),
	}
	return h.quiet(ctx).Create(&row).Error
}

// Recent returns up to limit records, newest first.
func (h *SaveHistory) Recent(ctx context.Context, limit int) ([]models.SaveRecord, error) {
	var rows []models.SaveRecord
	err := h.quiet(ctx).
		Select("save_id", "backend", "state", "message", "revision", "created_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Snapshot returns the document stored with a save record.
func (h *SaveHistory) Snapshot(ctx context.Context, saveID string) ([]byte, error) {
	var row models.SaveRecord
	if err := h.quiet(ctx).Where("save_id = ?", saveID).First(&row).Error; err != nil {
		return nil, err
	}
	data := row.Snapshot.Bytes()
	if data == nil {
		return nil, ErrNoSnapshot
	}
	return data, nil
}
