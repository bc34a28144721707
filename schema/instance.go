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

package schema

import (
	"bytes"
	"fmt"
	"reflect"
	"slices"

	"github.com/jinzhu/copier"
)

// Instance is a concrete value conforming to a Schema: one value per
// field, in schema order. Instances are treated as immutable by the codec
// engines; hooks derive modified instances via WithValue or Copy rather
// than mutating in place.
type Instance struct {
	schema *Schema
	values []any
}

// NewInstance builds an instance from field values given in schema order
func (s *Schema) NewInstance(values ...any) (*Instance, error) {
	if len(values) != len(s.fields) {
		return nil, fmt.Errorf(
			"record %s has %d fields, got %d values",
			s.name,
			len(s.fields),
			len(values),
		)
	}
	return &Instance{
		schema: s,
		values: slices.Clone(values),
	}, nil
}

// Schema returns the record type this instance conforms to
func (i *Instance) Schema() *Schema { return i.schema }

// Value returns the named field's value
func (i *Instance) Value(name string) (any, bool) {
	idx, ok := i.schema.fieldIdx[name]
	if !ok {
		return nil, false
	}
	return i.values[idx], true
}

// ValueAt returns the field value at the given schema-order index
func (i *Instance) ValueAt(idx int) any { return i.values[idx] }

// Uint returns the named field's value as a scalar. It returns false if
// the field doesn't exist or doesn't hold a scalar value.
func (i *Instance) Uint(name string) (uint64, bool) {
	v, ok := i.Value(name)
	if !ok {
		return 0, false
	}
	n, ok := v.(uint64)
	return n, ok
}

// WithValue returns a deep copy of the instance with the named field
// replaced. The receiver is not modified.
func (i *Instance) WithValue(name string, value any) (*Instance, error) {
	idx, ok := i.schema.fieldIdx[name]
	if !ok {
		return nil, fmt.Errorf(
			"record %s has no field %s",
			i.schema.name,
			name,
		)
	}
	ret := i.Copy()
	ret.values[idx] = value
	return ret, nil
}

// Copy returns a deep copy of the instance sharing only the (immutable)
// schema with the original
func (i *Instance) Copy() *Instance {
	values := make([]any, len(i.values))
	for idx, v := range i.values {
		values[idx] = copyValue(v)
	}
	return &Instance{
		schema: i.schema,
		values: values,
	}
}

func copyValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case uint64:
		return val
	case string:
		return val
	case []byte:
		return bytes.Clone(val)
	case []uint64:
		return slices.Clone(val)
	case *Instance:
		return val.Copy()
	default:
		// Opaque and other caller-supplied values get a generic deep copy
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			tmp := reflect.New(rv.Elem().Type())
			if err := copier.CopyWithOption(tmp.Interface(), v, copier.Option{DeepCopy: true}); err != nil {
				return v
			}
			return tmp.Interface()
		}
		tmp := reflect.New(rv.Type())
		if err := copier.CopyWithOption(tmp.Interface(), v, copier.Option{DeepCopy: true}); err != nil {
			return v
		}
		return tmp.Elem().Interface()
	}
}

// Equal reports whether two instances share a record type and all field
// values compare equal in schema order
func (i *Instance) Equal(other *Instance) bool {
	if i == nil || other == nil {
		return i == other
	}
	if i.schema != other.schema {
		return false
	}
	for idx := range i.values {
		if !valueEqual(i.values[idx], other.values[idx]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case []uint64:
		bv, ok := b.([]uint64)
		return ok && slices.Equal(av, bv)
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av.Equal(bv)
	default:
		return reflect.DeepEqual(a, b)
	}
}
