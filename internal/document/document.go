// document.go
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
	"fmt"
	"time"
)

// DefaultActivitiesTitle is used when a document carries no activities section.
const DefaultActivitiesTitle = "ACTIVITIES"

// Document is the whole content model of the site, persisted as one JSON file.
type Document struct {
	SiteConfig SiteConfig  `json:"siteConfig"`
	Sections   Sections    `json:"sections"`
	Events     []Event     `json:"events"`
	Activities *Activities `json:"activities,omitempty"`
	Admin      Admin       `json:"admin"`
}

// SiteConfig holds the site-wide scalar settings.
type SiteConfig struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Description  string `json:"description"`
	Leaders      string `json:"leaders"`
	ContactEmail string `json:"contactEmail"`
}

// Sections holds the about text and the categorized links.
type Sections struct {
	About About          `json:"about"`
	Links LinkCategories `json:"links"`
}

// About is the rich text about section.
type About struct {
	Content string `json:"content"`
}

// Link is one titled URL.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// LinkCategory groups links under a category name.
type LinkCategory struct {
	Category string `json:"category"`
	Items    []Link `json:"items"`
}

// Event is a dated entry in the events list.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Details     string `json:"details"`
	Link        string `json:"link"`
	Image       string `json:"image"`
}

// Activities holds activity reports and media links.
type Activities struct {
	Title      string           `json:"title"`
	PRVideoURL string           `json:"prVideoUrl"`
	Items      []ActivityReport `json:"items"`
	Media      []MediaLink      `json:"media"`
}

// ActivityReport is one dated report.
type ActivityReport struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Link    string `json:"link,omitempty"`
}

// MediaLink is a titled URL shown in the media list.
type MediaLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Admin holds the credential digest checked by the local write endpoint.
type Admin struct {
	PasswordHash string `json:"passwordHash"`
}

// ItemKind names the kind of record a collection holds.
type ItemKind int

const (
	ItemEvent ItemKind = iota
	ItemReport
	ItemMedia
	ItemCategory
	ItemLink
)

func (k ItemKind) String() string {
	switch k {
	case ItemEvent:
		return "event"
	case ItemReport:
		return "report"
	case ItemMedia:
		return "media link"
	case ItemCategory:
		return "category"
	case ItemLink:
		return "link"
	}
	return fmt.Sprintf("ItemKind(%d)", int(k))
}

// NewEventID derives an event identifier from the creation time.
func NewEventID(now time.Time) string {
	return fmt.Sprintf("event-%d", now.UnixMilli())
}

// NewItem returns the template record appended for a new item of kind k.
func NewItem(k ItemKind, now time.Time) any {
	switch k {
	case ItemEvent:
		return Event{ID: NewEventID(now), Title: "New Event"}
	case ItemReport:
		return ActivityReport{Title: "New Report"}
	case ItemMedia:
		return MediaLink{Title: "New Media Link"}
	case ItemCategory:
		return LinkCategory{Category: "New Category", Items: []Link{}}
	case ItemLink:
		return Link{}
	}
	return nil
}
