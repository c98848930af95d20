// state.go
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

package models

import (
	"time"
)

// Setting is a persisted editor preference, such as the remote access token.
type Setting struct {
	SettingKey   string `gorm:"primaryKey;size:128"`
	SettingValue string `gorm:"type:text;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SaveRecord is one finished save attempt.
type SaveRecord struct {
	SaveID    string `gorm:"primaryKey;size:36"`
	Backend   string `gorm:"size:32;not null;index"`
	State     string `gorm:"size:32;not null"`
	Message   string `gorm:"type:text"`
	Revision  string `gorm:"size:64"`
	Snapshot  JSON
	CreatedAt time.Time `gorm:"index"`
}

// TableName overrides the table name for Setting
func (Setting) TableName() string {
	return "editor_settings"
}

// TableName overrides the table name for SaveRecord
func (SaveRecord) TableName() string {
	return "save_history"
}
