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

// LengthKind identifies how a field's size is framed on the wire
type LengthKind int

const (
	// LengthUnresolved means the policy could not produce a concrete
	// count from the available context. The encoder falls back to the
	// value's own element count; the decoder treats it as a length error.
	LengthUnresolved LengthKind = iota
	// LengthSelfDescribed frames the field with a varint element count
	LengthSelfDescribed
	// LengthExact requires the value to have exactly Count elements
	LengthExact
	// LengthPadded zero-fills shorter values up to Count elements and
	// rejects longer ones
	LengthPadded
	// LengthUnframed reads or writes Count elements with no size marker
	LengthUnframed
)

func (k LengthKind) String() string {
	switch k {
	case LengthUnresolved:
		return "unresolved"
	case LengthSelfDescribed:
		return "self-described"
	case LengthExact:
		return "exact"
	case LengthPadded:
		return "padded"
	case LengthUnframed:
		return "unframed"
	}
	return fmt.Sprintf("LengthKind(%d)", int(k))
}

// Length is the resolved size descriptor for one field on one call. Count
// is in elements (bytes for byte/char sequences) and is meaningful for the
// exact, padded, and unframed kinds.
type Length struct {
	Kind  LengthKind
	Count int
}

// SelfDescribed returns a descriptor for varint-prefixed framing
func SelfDescribed() Length {
	return Length{Kind: LengthSelfDescribed}
}

// Exactly returns a descriptor requiring exactly n elements
func Exactly(n int) Length {
	return Length{Kind: LengthExact, Count: n}
}

// Padded returns a descriptor padding up to n elements
func Padded(n int) Length {
	return Length{Kind: LengthPadded, Count: n}
}

// Unframed returns a descriptor for exactly n elements with no size marker
func Unframed(n int) Length {
	return Length{Kind: LengthUnframed, Count: n}
}

// Unresolved returns a descriptor carrying no concrete count
func Unresolved() Length {
	return Length{Kind: LengthUnresolved}
}

// LengthPolicy computes a field's size descriptor from the call context.
// Policies must be pure functions of the context.
type LengthPolicy func(ctx Context) (Length, error)

// VarLength frames the field with a varint element count
func VarLength() LengthPolicy {
	return func(_ Context) (Length, error) {
		return SelfDescribed(), nil
	}
}

// FixedLength requires exactly n elements, raw
func FixedLength(n int) LengthPolicy {
	return func(_ Context) (Length, error) {
		return Exactly(n), nil
	}
}

// PadTo zero-fills values shorter than n elements and rejects longer ones
func PadTo(n int) LengthPolicy {
	return func(_ Context) (Length, error) {
		return Padded(n), nil
	}
}

// LengthOf sizes the field by the decoded value of an earlier sibling
// field. The sibling must be a scalar; the count is its numeric value.
func LengthOf(name string) LengthPolicy {
	return func(ctx Context) (Length, error) {
		v, ok := ctx.Field(name)
		if !ok {
			return Unresolved(), nil
		}
		n, ok := v.(uint64)
		if !ok {
			return Length{}, fmt.Errorf(
				"length field %s is %T, not a scalar",
				name,
				v,
			)
		}
		return Unframed(int(n)), nil
	}
}

// RestOfRecord sizes the field as the remaining byte budget of the
// enclosing record minus the given reservation. Only resolvable when the
// budget is known; at encode time it falls back to the value's own count.
func RestOfRecord(reserve int) LengthPolicy {
	return func(ctx Context) (Length, error) {
		remaining, ok := ctx.Remaining()
		if !ok {
			return Unresolved(), nil
		}
		n := remaining - reserve
		if n < 0 {
			return Length{}, fmt.Errorf(
				"remaining budget %d smaller than reservation %d",
				remaining,
				reserve,
			)
		}
		return Unframed(n), nil
	}
}
