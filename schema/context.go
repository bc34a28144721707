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

import "fmt"

// Context is the per-call view handed to length policies and type
// resolvers. An encode context exposes every field of the instance being
// encoded and no byte budget. A decode context exposes only sibling fields
// decoded strictly earlier in schema order, plus the record's total byte
// budget when the caller or an enclosing record supplied one.
type Context interface {
	// Budget returns the total byte budget of the current record, if known
	Budget() (int, bool)
	// Remaining returns the unconsumed portion of the budget, if known
	Remaining() (int, bool)
	// Field returns the value of the named field, if visible
	Field(name string) (any, bool)
}

// TypeResolver narrows a union-declared field to a single concrete type
// using the call context. Returning AbsentType selects the zero-width
// candidate for optional fields.
type TypeResolver func(ctx Context) (Type, error)

// SelectByField builds a resolver that dispatches on the numeric value of
// an earlier sibling field, such as a preceding kind or tag discriminator
func SelectByField(name string, choices map[uint64]Type) TypeResolver {
	return func(ctx Context) (Type, error) {
		v, ok := ctx.Field(name)
		if !ok {
			return nil, fmt.Errorf(
				"discriminator field %s not available",
				name,
			)
		}
		n, ok := v.(uint64)
		if !ok {
			return nil, fmt.Errorf(
				"discriminator field %s is %T, not a scalar",
				name,
				v,
			)
		}
		t, ok := choices[n]
		if !ok {
			return nil, fmt.Errorf(
				"no candidate type for discriminator %s=%d",
				name,
				n,
			)
		}
		return t, nil
	}
}

// Hook transforms a record instance immediately before encoding or after
// decoding. A hook must return an instance of the same record type; it is
// used to populate computed fields such as element counts and checksums,
// or to reject an invalid decoded instance by returning an error.
type Hook func(inst *Instance) (*Instance, error)
