// settings.go
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

	"github.com/localnerve/sitecms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// TokenSettingKey stores the remote repository access token.
const TokenSettingKey = "github_token"

// SettingsStore keeps editor preferences in the state database.
type SettingsStore struct {
	DB *gorm.DB
}

func (s *SettingsStore) quiet(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Session(&gorm.Session{Logger: s.DB.Logger.LogMode(logger.Silent)})
}

// Get returns the stored value for key, or "" when none is stored.
func (s *SettingsStore) Get(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	err := s.quiet(ctx).Where("setting_key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.SettingValue, nil
}

// Set stores value under key, replacing any previous value.
func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	setting := models.Setting{SettingKey: key, SettingValue: value}
	return s.quiet(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&setting).Error
}

// Delete removes key. Removing an absent key is not an error.
func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	return s.quiet(ctx).Where("setting_key = ?", key).Delete(&models.Setting{}).Error
}

// Token returns the persisted access token.
func (s *SettingsStore) Token(ctx context.Context) (string, error) {
	return s.Get(ctx, TokenSettingKey)
}

// SetToken persists the access token.
func (s *SettingsStore) SetToken(ctx context.Context, token string) error {
	return s.Set(ctx, TokenSettingKey, token)
}

// ClearToken removes the persisted access token.
func (s *SettingsStore) ClearToken(ctx context.Context) error {
	return s.Delete(ctx, TokenSettingKey)
}
