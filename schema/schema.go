// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package schema defines record types for the wirespec codec: ordered
// field lists, the closed type system used to classify fields, byte-order
// configuration, length policies, type resolvers, and hooks. A Schema is
// immutable once built and is shared by encode and decode; concurrent
// calls against the same Schema need no synchronization.
package schema

import (
	"encoding/binary"
	"fmt"
)

// Field is one named, typed slot within a record. ByteOrder, Length, and
// Resolve are optional per-field overrides; when nil the record defaults
// apply.
type Field struct {
	Name string
	Type Type
	// ByteOrder overrides the record's byte order for this field's
	// numeric units
	ByteOrder binary.ByteOrder
	// Length computes the field's size descriptor per call
	Length LengthPolicy
	// Resolve narrows a union-declared type to a concrete candidate
	Resolve TypeResolver
}

// Schema is an immutable ordered list of field specs, fixed at definition
// time and shared identically by encode and decode
type Schema struct {
	name       string
	fields     []Field
	fieldIdx   map[string]int
	byteOrder  binary.ByteOrder
	preEncode  Hook
	postDecode Hook
}

// SchemaOptionFunc is a type that represents functions that modify the Schema config
type SchemaOptionFunc func(*Schema)

// WithFields specifies the ordered field list
func WithFields(fields ...Field) SchemaOptionFunc {
	return func(s *Schema) {
		s.fields = fields
	}
}

// WithByteOrder specifies the default byte order for numeric units. The
// default is big-endian (network order).
func WithByteOrder(order binary.ByteOrder) SchemaOptionFunc {
	return func(s *Schema) {
		s.byteOrder = order
	}
}

// WithPreEncode specifies a hook run on the instance before encoding
func WithPreEncode(hook Hook) SchemaOptionFunc {
	return func(s *Schema) {
		s.preEncode = hook
	}
}

// WithPostDecode specifies a hook run on the instance after decoding
func WithPostDecode(hook Hook) SchemaOptionFunc {
	return func(s *Schema) {
		s.postDecode = hook
	}
}

// New builds a Schema from the provided options. Field names must be
// non-empty and unique; field types must be non-nil.
func New(name string, options ...SchemaOptionFunc) (*Schema, error) {
	s := &Schema{
		name:      name,
		byteOrder: binary.BigEndian,
	}
	for _, option := range options {
		option(s)
	}
	s.fieldIdx = make(map[string]int, len(s.fields))
	for i, f := range s.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("record %s: field %d has no name", name, i)
		}
		if f.Type == nil {
			return nil, fmt.Errorf(
				"record %s: field %s has no type",
				name,
				f.Name,
			)
		}
		if _, ok := s.fieldIdx[f.Name]; ok {
			return nil, fmt.Errorf(
				"record %s: duplicate field name %s",
				name,
				f.Name,
			)
		}
		s.fieldIdx[f.Name] = i
	}
	return s, nil
}

// Kind implements Type so a Schema can be used directly as a nested
// record field type
func (s *Schema) Kind() Kind { return KindRecord }

func (s *Schema) String() string { return "record " + s.name }

// Name returns the record type's name
func (s *Schema) Name() string { return s.name }

// Fields returns the ordered field specs. Callers must not modify the
// returned slice.
func (s *Schema) Fields() []Field { return s.fields }

// FieldIndex returns the schema-order index of the named field
func (s *Schema) FieldIndex(name string) (int, bool) {
	i, ok := s.fieldIdx[name]
	return i, ok
}

// ByteOrder returns the record's default byte order
func (s *Schema) ByteOrder() binary.ByteOrder { return s.byteOrder }

// FieldByteOrder returns the effective byte order for a field, applying
// the per-field override when present
func (s *Schema) FieldByteOrder(f Field) binary.ByteOrder {
	if f.ByteOrder != nil {
		return f.ByteOrder
	}
	return s.byteOrder
}

// PreEncode returns the pre-encode hook, or nil
func (s *Schema) PreEncode() Hook { return s.preEncode }

// PostDecode returns the post-decode hook, or nil
func (s *Schema) PostDecode() Hook { return s.postDecode }
