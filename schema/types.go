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
	"fmt"
	"io"
)

// Kind is the handling category assigned to a field's resolved type. The
// category determines the code path taken by both the encoder and decoder,
// and depends only on the type, never on the value.
type Kind int

const (
	KindScalar Kind = iota
	KindTuple
	KindSequence
	KindRecord
	KindAbsent
	KindOpaque
	// KindUnion marks a declared-only type that must pass through a type
	// resolver before classification
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindTuple:
		return "tuple"
	case KindSequence:
		return "sequence"
	case KindRecord:
		return "record"
	case KindAbsent:
		return "absent"
	case KindOpaque:
		return "opaque"
	case KindUnion:
		return "union"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type describes the wire shape of a field
type Type interface {
	Kind() Kind
	String() string
}

// Classify maps a resolved type to its handling category. A union type is
// not a valid input: it must be narrowed to one of its candidates first.
func Classify(t Type) (Kind, error) {
	if t == nil {
		return 0, fmt.Errorf("cannot classify nil type")
	}
	k := t.Kind()
	if k == KindUnion {
		return 0, fmt.Errorf("union type %s must be resolved before classification", t)
	}
	return k, nil
}

// UintType is an unsigned integer scalar of 1, 2, 4, or 8 bytes. Values
// are represented as uint64 regardless of wire size.
type UintType struct {
	Size int
}

func (t UintType) Kind() Kind { return KindScalar }

func (t UintType) String() string { return fmt.Sprintf("uint%d", t.Size*8) }

var (
	U8  = UintType{Size: 1}
	U16 = UintType{Size: 2}
	U32 = UintType{Size: 4}
	U64 = UintType{Size: 8}
)

// TupleType is a fixed-count group of numeric units, such as a MAC address
// or an IPv4 address. Values are []uint64 of exactly Count elements.
type TupleType struct {
	Elem  UintType
	Count int
}

func (t TupleType) Kind() Kind { return KindTuple }

func (t TupleType) String() string {
	return fmt.Sprintf("[%d]%s", t.Count, t.Elem)
}

// TupleOf builds a fixed tuple type of count elements
func TupleOf(elem UintType, count int) TupleType {
	return TupleType{Elem: elem, Count: count}
}

// ElemKind selects the element representation of a variable sequence
type ElemKind int

const (
	ElemByte ElemKind = iota
	ElemChar
	ElemNumeric
)

// SequenceType is a variable-length run of elements. Byte sequences carry
// []byte values, char sequences carry string values, and numeric sequences
// carry []uint64 values sized per Unit.
type SequenceType struct {
	Elem ElemKind
	// Unit is the per-element wire size for numeric sequences
	Unit UintType
}

func (t SequenceType) Kind() Kind { return KindSequence }

func (t SequenceType) String() string {
	switch t.Elem {
	case ElemByte:
		return "bytes"
	case ElemChar:
		return "string"
	case ElemNumeric:
		return fmt.Sprintf("[]%s", t.Unit)
	}
	return fmt.Sprintf("sequence(%d)", int(t.Elem))
}

// ElemSize returns the wire size of a single element
func (t SequenceType) ElemSize() int {
	if t.Elem == ElemNumeric {
		return t.Unit.Size
	}
	return 1
}

var (
	Bytes  = SequenceType{Elem: ElemByte}
	String = SequenceType{Elem: ElemChar}
)

// UintsOf builds a numeric sequence type with the given unit size
func UintsOf(unit UintType) SequenceType {
	return SequenceType{Elem: ElemNumeric, Unit: unit}
}

// AbsentType occupies zero wire bytes and carries a nil value. It exists
// so optional fields can be expressed as a union candidate rather than a
// special-cased null.
type AbsentType struct{}

func (t AbsentType) Kind() Kind { return KindAbsent }

func (t AbsentType) String() string { return "absent" }

var Absent = AbsentType{}

// Opaque is the escape hatch for values that supply their own raw wire
// primitives. An Opaque value must be self-framing: ReadWire must consume
// exactly the bytes WriteWire produced, using only sequential reads.
type Opaque interface {
	WriteWire(w io.Writer) error
	ReadWire(r io.Reader) error
}

// OpaqueType declares a field handled entirely by the value's own wire
// primitives. New produces an empty value for the decoder to fill.
type OpaqueType struct {
	New func() Opaque
}

func (t OpaqueType) Kind() Kind { return KindOpaque }

func (t OpaqueType) String() string { return "opaque" }

// OpaqueOf builds an opaque type from a factory function
func OpaqueOf(newFn func() Opaque) OpaqueType {
	return OpaqueType{New: newFn}
}

// UnionType declares a field as one of several candidate types. The
// concrete candidate is chosen per call: at decode time by the field's
// type resolver (mandatory), at encode time by the resolver or by
// structural matching against the value.
type UnionType struct {
	Candidates []Type
}

func (t UnionType) Kind() Kind { return KindUnion }

func (t UnionType) String() string {
	ret := "oneof("
	for i, c := range t.Candidates {
		if i > 0 {
			ret += ", "
		}
		ret += c.String()
	}
	return ret + ")"
}

// OneOf builds a union type from candidate types
func OneOf(candidates ...Type) UnionType {
	return UnionType{Candidates: candidates}
}
