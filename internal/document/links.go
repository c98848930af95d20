// links.go
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
	"encoding/json"
)

// UncategorizedName is the category that wraps links found in the legacy flat shape.
const UncategorizedName = "uncategorized"

// LinkCategories is the links section. It decodes both the categorized shape and the
// legacy shape where link records sit directly in the list.
type LinkCategories []LinkCategory

// UnmarshalJSON implements the json.Unmarshaler interface.
func (l *LinkCategories) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*l = LinkCategories{}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cats, _, err := MigrateLinks(raw)
	if err != nil {
		return err
	}
	*l = cats
	return nil
}

// MigrateLinks decodes raw link-section entries. Entries shaped like a link (no category
// key) are gathered, in order, into one category named UncategorizedName placed where the
// first of them appeared. It reports whether any entry needed migrating. Applying it to an
// already categorized list returns the list unchanged.
func MigrateLinks(raw []json.RawMessage) (LinkCategories, bool, error) {
	cats := make(LinkCategories, 0, len(raw))
	legacy := -1

	for _, entry := range raw {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(entry, &probe); err != nil {
			return nil, false, err
		}

		if isLinkShaped(probe) {
			var link Link
			if err := json.Unmarshal(entry, &link); err != nil {
				return nil, false, err
			}
			if legacy < 0 {
				legacy = len(cats)
				cats = append(cats, LinkCategory{Category: UncategorizedName, Items: []Link{}})
			}
			cats[legacy].Items = append(cats[legacy].Items, link)
			continue
		}

		var cat LinkCategory
		if err := json.Unmarshal(entry, &cat); err != nil {
			return nil, false, err
		}
		if cat.Items == nil {
			cat.Items = []Link{}
		}
		cats = append(cats, cat)
	}

	return cats, legacy >= 0, nil
}

func isLinkShaped(entry map[string]json.RawMessage) bool {
	if _, ok := entry["category"]; ok {
		return false
	}
	if _, ok := entry["items"]; ok {
		return false
	}
	_, hasTitle := entry["title"]
	_, hasURL := entry["url"]
	return hasTitle || hasURL
}
