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

package codec

import (
	"github.com/blinklabs-io/wirespec/schema"
)

// resolveDecodeType narrows a union-declared field to a concrete type at
// decode time. A resolver is mandatory: decoding a union field without one
// is a schema configuration error, never defaulted.
func resolveDecodeType(
	s *schema.Schema,
	f schema.Field,
	u schema.UnionType,
	ctx schema.Context,
) (schema.Type, error) {
	if f.Resolve == nil {
		return nil, schemaErrorf(
			s.Name(),
			f.Name,
			"union field has no type resolver",
		)
	}
	t, err := f.Resolve(ctx)
	if err != nil {
		return nil, &SchemaError{Record: s.Name(), Field: f.Name, Err: err}
	}
	if !unionHasCandidate(u, t) {
		return nil, schemaErrorf(
			s.Name(),
			f.Name,
			"resolver returned %s, not a declared candidate of %s",
			t,
			u,
		)
	}
	return t, nil
}

// resolveEncodeType narrows a union-declared field at encode time. The
// resolver is optional here since the concrete value already exists: with
// no resolver the value is matched structurally against the candidates,
// and the match must be unique.
func resolveEncodeType(
	s *schema.Schema,
	f schema.Field,
	u schema.UnionType,
	value any,
	ctx schema.Context,
) (schema.Type, error) {
	if f.Resolve != nil {
		t, err := f.Resolve(ctx)
		if err != nil {
			return nil, &SchemaError{Record: s.Name(), Field: f.Name, Err: err}
		}
		if !unionHasCandidate(u, t) {
			return nil, schemaErrorf(
				s.Name(),
				f.Name,
				"resolver returned %s, not a declared candidate of %s",
				t,
				u,
			)
		}
		return t, nil
	}
	var match schema.Type
	for _, c := range u.Candidates {
		if !valueMatches(c, value) {
			continue
		}
		if match != nil {
			return nil, schemaErrorf(
				s.Name(),
				f.Name,
				"value %T matches multiple candidates of %s, resolver required",
				value,
				u,
			)
		}
		match = c
	}
	if match == nil {
		return nil, schemaErrorf(
			s.Name(),
			f.Name,
			"value %T matches no candidate of %s",
			value,
			u,
		)
	}
	return match, nil
}

// unionHasCandidate reports whether t is one of the union's declared
// candidates. Comparison is structural; opaque candidates are matched by
// category since their factory functions are not comparable.
func unionHasCandidate(u schema.UnionType, t schema.Type) bool {
	if t == nil {
		return false
	}
	for _, c := range u.Candidates {
		if typesMatch(c, t) {
			return true
		}
	}
	return false
}

func typesMatch(a schema.Type, b schema.Type) bool {
	switch at := a.(type) {
	case schema.UintType:
		bt, ok := b.(schema.UintType)
		return ok && at == bt
	case schema.TupleType:
		bt, ok := b.(schema.TupleType)
		return ok && at == bt
	case schema.SequenceType:
		bt, ok := b.(schema.SequenceType)
		return ok && at == bt
	case schema.AbsentType:
		_, ok := b.(schema.AbsentType)
		return ok
	case schema.OpaqueType:
		_, ok := b.(schema.OpaqueType)
		return ok
	case *schema.Schema:
		bt, ok := b.(*schema.Schema)
		return ok && at == bt
	}
	return false
}

// valueMatches reports whether a value is structurally admissible for a
// candidate type
func valueMatches(t schema.Type, value any) bool {
	switch ct := t.(type) {
	case schema.UintType:
		_, ok := value.(uint64)
		return ok
	case schema.TupleType:
		v, ok := value.([]uint64)
		return ok && len(v) == ct.Count
	case schema.SequenceType:
		switch ct.Elem {
		case schema.ElemByte:
			_, ok := value.([]byte)
			return ok
		case schema.ElemChar:
			_, ok := value.(string)
			return ok
		case schema.ElemNumeric:
			_, ok := value.([]uint64)
			return ok
		}
		return false
	case schema.AbsentType:
		return value == nil
	case schema.OpaqueType:
		_, ok := value.(schema.Opaque)
		return ok
	case *schema.Schema:
		v, ok := value.(*schema.Instance)
		return ok && v.Schema() == ct
	}
	return false
}
