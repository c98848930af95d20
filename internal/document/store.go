// store.go
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
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/localnerve/sitecms/internal/types"
)

// Store is the single authoritative in-memory copy of a document. Paths are dot
// separated JSON keys with decimal indices for list elements, e.g. "events.0.title".
type Store struct {
	mu  sync.RWMutex
	doc *Document
}

// NewStore wraps a parsed document.
func NewStore(doc *Document) *Store {
	Normalize(doc)
	return &Store{doc: doc}
}

// Document returns the live document. Callers must not retain it across mutations.
func (s *Store) Document() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Snapshot serializes the current document.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Marshal(s.doc)
}

// Get returns the value at path.
func (s *Store) Get(path string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// GetString returns the string at path.
func (s *Store) GetString(path string) (string, error) {
	v, err := s.Get(path)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", &types.PathError{Path: path, Reason: "not a text value"}
	}
	return str, nil
}

// Set overwrites the value at path. Every intermediate segment must already exist.
func (s *Store) Set(path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	val, err := assignable(path, value, target.Type())
	if err != nil {
		return err
	}
	target.Set(val)
	return nil
}

// Len returns the number of elements in the collection at path.
func (s *Store) Len(path string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, err := s.collection(path)
	if err != nil {
		return 0, err
	}
	return coll.Len(), nil
}

// Append adds item to the end of the collection at path.
func (s *Store) Append(path string, item any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, err := s.collection(path)
	if err != nil {
		return err
	}
	val, err := assignable(path, item, coll.Type().Elem())
	if err != nil {
		return err
	}
	coll.Set(reflect.Append(coll, val))
	return nil
}

// RemoveAt deletes the element at index, preserving the order of the rest.
func (s *Store) RemoveAt(path string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, err := s.collection(path)
	if err != nil {
		return err
	}
	n := coll.Len()
	if index < 0 || index >= n {
		return &types.PathError{Path: path, Segment: strconv.Itoa(index), Reason: "index out of range"}
	}

	out := reflect.MakeSlice(coll.Type(), 0, n-1)
	out = reflect.AppendSlice(out, coll.Slice(0, index))
	out = reflect.AppendSlice(out, coll.Slice(index+1, n))
	coll.Set(out)
	return nil
}

func (s *Store) collection(path string) (reflect.Value, error) {
	v, err := s.resolve(path)
	if err != nil {
		return reflect.Value{}, err
	}
	if v.Kind() != reflect.Slice {
		return reflect.Value{}, &types.PathError{Path: path, Reason: "not a collection"}
	}
	return v, nil
}

func (s *Store) resolve(path string) (reflect.Value, error) {
	if path == "" {
		return reflect.Value{}, &types.PathError{Path: path, Reason: "empty path"}
	}

	v := reflect.ValueOf(s.doc).Elem()
	for _, seg := range strings.Split(path, ".") {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, &types.PathError{Path: path, Segment: seg, Reason: "missing intermediate value"}
			}
			v = v.Elem()
		}

		switch v.Kind() {
		case reflect.Struct:
			field, ok := fieldByJSONName(v, seg)
			if !ok {
				return reflect.Value{}, &types.PathError{Path: path, Segment: seg, Reason: "no such key"}
			}
			v = field
		case reflect.Slice:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return reflect.Value{}, &types.PathError{Path: path, Segment: seg, Reason: "expected a list index"}
			}
			if i < 0 || i >= v.Len() {
				return reflect.Value{}, &types.PathError{Path: path, Segment: seg, Reason: "index out of range"}
			}
			v = v.Index(i)
		default:
			return reflect.Value{}, &types.PathError{Path: path, Segment: seg, Reason: "not a container"}
		}
	}
	return v, nil
}

func fieldByJSONName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		key, _, _ := strings.Cut(tag, ",")
		if key == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func assignable(path string, value any, want reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(want), nil
	}
	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(want) {
		return val, nil
	}
	if val.Kind() == want.Kind() && val.Type().ConvertibleTo(want) {
		return val.Convert(want), nil
	}
	return reflect.Value{}, &types.PathError{
		Path:   path,
		Reason: "cannot assign " + val.Type().String() + " to " + want.String(),
	}
}
