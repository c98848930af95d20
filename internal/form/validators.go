// validators.go
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

package form

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validator is a named field check. Empty values always pass.
type Validator struct {
	Name    string
	Message string
	rule    validation.Rule
}

// Validate reports whether value passes the check.
func (v *Validator) Validate(value string) bool {
	return validation.Validate(value, v.rule) == nil
}

var urlPrefix = regexp.MustCompile(`^(https?://|/|\./|ref/)`)

var (
	// Email accepts a local@domain.tld address.
	Email = &Validator{
		Name:    "email",
		Message: "must be a valid email address",
		rule:    is.EmailFormat,
	}

	// URL accepts absolute http(s) URLs and site-relative paths.
	URL = &Validator{
		Name:    "url",
		Message: "must start with http://, https://, /, ./ or ref/",
		rule:    validation.Match(urlPrefix),
	}
)
