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
	"bytes"
	"encoding/binary"
	"io"

	"github.com/blinklabs-io/wirespec/schema"
	"github.com/blinklabs-io/wirespec/varint"
)

// Encode serializes a record instance to its exact byte sequence. The
// schema's pre-encode hook runs first; the caller's instance is never
// modified.
func Encode(inst *schema.Instance) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := EncodeTo(buf, inst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo serializes a record instance to a byte sink
func EncodeTo(w io.Writer, inst *schema.Instance) error {
	return encodeRecord(w, inst, true)
}

// EncodeRaw serializes a record instance without invoking the record's
// own pre-encode hook. This is the entry point for hooks that need to
// re-serialize an instance without recursing into themselves, such as a
// checksum hook that must see the encoding of every other field.
func EncodeRaw(inst *schema.Instance) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := EncodeRawTo(buf, inst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeRawTo serializes a record instance to a byte sink, bypassing the
// record's own pre-encode hook
func EncodeRawTo(w io.Writer, inst *schema.Instance) error {
	return encodeRecord(w, inst, false)
}

func encodeRecord(w io.Writer, inst *schema.Instance, withHooks bool) error {
	s := inst.Schema()
	if withHooks {
		if hook := s.PreEncode(); hook != nil {
			newInst, err := hook(inst)
			if err != nil {
				return &SchemaError{Record: s.Name(), Err: err}
			}
			if newInst == nil || newInst.Schema() != s {
				return schemaErrorf(
					s.Name(),
					"",
					"pre-encode hook returned an instance of a different record type",
				)
			}
			inst = newInst
		}
	}
	ectx := &encodeContext{inst: inst}
	for i, f := range s.Fields() {
		if err := encodeField(w, s, f, inst.ValueAt(i), ectx); err != nil {
			return err
		}
	}
	return nil
}

func encodeField(
	w io.Writer,
	s *schema.Schema,
	f schema.Field,
	value any,
	ectx *encodeContext,
) error {
	t := f.Type
	if u, ok := t.(schema.UnionType); ok {
		resolved, err := resolveEncodeType(s, f, u, value, ectx)
		if err != nil {
			return err
		}
		t = resolved
	}
	kind, err := schema.Classify(t)
	if err != nil {
		return &SchemaError{Record: s.Name(), Field: f.Name, Err: err}
	}
	order := s.FieldByteOrder(f)
	switch kind {
	case schema.KindScalar:
		ut := t.(schema.UintType)
		v, ok := value.(uint64)
		if !ok {
			return schemaErrorf(
				s.Name(),
				f.Name,
				"expected scalar value, got %T",
				value,
			)
		}
		return putUint(w, order, ut.Size, v)
	case schema.KindTuple:
		tt := t.(schema.TupleType)
		v, ok := value.([]uint64)
		if !ok {
			return schemaErrorf(
				s.Name(),
				f.Name,
				"expected tuple value, got %T",
				value,
			)
		}
		if len(v) != tt.Count {
			return lengthErrorf(
				s.Name(),
				f.Name,
				"tuple has %d elements, type requires %d",
				len(v),
				tt.Count,
			)
		}
		for _, elem := range v {
			if err := putUint(w, order, tt.Elem.Size, elem); err != nil {
				return err
			}
		}
		return nil
	case schema.KindSequence:
		return encodeSequence(w, s, f, t.(schema.SequenceType), value, ectx)
	case schema.KindRecord:
		return encodeNested(w, s, f, t.(*schema.Schema), value, ectx)
	case schema.KindAbsent:
		if value != nil {
			return schemaErrorf(
				s.Name(),
				f.Name,
				"absent field carries a value of type %T",
				value,
			)
		}
		return nil
	case schema.KindOpaque:
		v, ok := value.(schema.Opaque)
		if !ok {
			return schemaErrorf(
				s.Name(),
				f.Name,
				"expected opaque value, got %T",
				value,
			)
		}
		return v.WriteWire(w)
	}
	return schemaErrorf(s.Name(), f.Name, "unhandled category %s", kind)
}

func encodeSequence(
	w io.Writer,
	s *schema.Schema,
	f schema.Field,
	st schema.SequenceType,
	value any,
	ectx *encodeContext,
) error {
	desc, err := resolveSeqLength(s, f, st, ectx)
	if err != nil {
		return err
	}
	count, err := seqElemCount(s, f, st, value)
	if err != nil {
		return err
	}
	switch desc.Kind {
	case schema.LengthSelfDescribed:
		if err := varint.Write(w, uint64(count)); err != nil {
			return err
		}
		return writeSeqElems(w, s, f, st, value)
	case schema.LengthExact:
		if count != desc.Count {
			return lengthErrorf(
				s.Name(),
				f.Name,
				"sequence has %d elements, policy requires exactly %d",
				count,
				desc.Count,
			)
		}
		return writeSeqElems(w, s, f, st, value)
	case schema.LengthPadded:
		if count > desc.Count {
			return lengthErrorf(
				s.Name(),
				f.Name,
				"sequence has %d elements, policy pads to %d",
				count,
				desc.Count,
			)
		}
		if err := writeSeqElems(w, s, f, st, value); err != nil {
			return err
		}
		return writeZeros(w, (desc.Count-count)*st.ElemSize())
	case schema.LengthUnframed, schema.LengthUnresolved:
		// Unframed writes the value's actual element count with no size
		// marker. An unresolved descriptor behaves the same at encode
		// time since the value's own count is always known here.
		return writeSeqElems(w, s, f, st, value)
	}
	return lengthErrorf(s.Name(), f.Name, "unhandled descriptor %s", desc.Kind)
}

func encodeNested(
	w io.Writer,
	s *schema.Schema,
	f schema.Field,
	nested *schema.Schema,
	value any,
	ectx *encodeContext,
) error {
	inst, ok := value.(*schema.Instance)
	if !ok || inst.Schema() != nested {
		return schemaErrorf(
			s.Name(),
			f.Name,
			"expected instance of %s, got %T",
			nested,
			value,
		)
	}
	if f.Length == nil {
		// Nested hooks run independently of the enclosing record's
		return encodeRecord(w, inst, true)
	}
	desc, err := f.Length(ectx)
	if err != nil {
		return &LengthError{Record: s.Name(), Field: f.Name, Err: err}
	}
	switch desc.Kind {
	case schema.LengthUnframed, schema.LengthUnresolved:
		return encodeRecord(w, inst, true)
	case schema.LengthSelfDescribed, schema.LengthExact, schema.LengthPadded:
		buf := bytes.NewBuffer(nil)
		if err := encodeRecord(buf, inst, true); err != nil {
			return err
		}
		switch desc.Kind {
		case schema.LengthSelfDescribed:
			if err := varint.Write(w, uint64(buf.Len())); err != nil {
				return err
			}
		case schema.LengthExact:
			if buf.Len() != desc.Count {
				return lengthErrorf(
					s.Name(),
					f.Name,
					"nested record encodes to %d bytes, policy requires exactly %d",
					buf.Len(),
					desc.Count,
				)
			}
		case schema.LengthPadded:
			if buf.Len() > desc.Count {
				return lengthErrorf(
					s.Name(),
					f.Name,
					"nested record encodes to %d bytes, policy pads to %d",
					buf.Len(),
					desc.Count,
				)
			}
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
		if desc.Kind == schema.LengthPadded {
			return writeZeros(w, desc.Count-buf.Len())
		}
		return nil
	}
	return lengthErrorf(s.Name(), f.Name, "unhandled descriptor %s", desc.Kind)
}

// resolveSeqLength applies the field's length policy, or the default when
// none is configured: char sequences are self-describing, while byte and
// numeric sequences require explicit intent from the schema
func resolveSeqLength(
	s *schema.Schema,
	f schema.Field,
	st schema.SequenceType,
	ctx schema.Context,
) (schema.Length, error) {
	if f.Length == nil {
		if st.Elem == schema.ElemChar {
			return schema.SelfDescribed(), nil
		}
		return schema.Length{}, schemaErrorf(
			s.Name(),
			f.Name,
			"%s sequence requires an explicit length policy",
			st,
		)
	}
	desc, err := f.Length(ctx)
	if err != nil {
		return schema.Length{}, &LengthError{
			Record: s.Name(),
			Field:  f.Name,
			Err:    err,
		}
	}
	return desc, nil
}

func seqElemCount(
	s *schema.Schema,
	f schema.Field,
	st schema.SequenceType,
	value any,
) (int, error) {
	switch st.Elem {
	case schema.ElemByte:
		v, ok := value.([]byte)
		if !ok {
			return 0, schemaErrorf(
				s.Name(),
				f.Name,
				"expected []byte value, got %T",
				value,
			)
		}
		return len(v), nil
	case schema.ElemChar:
		v, ok := value.(string)
		if !ok {
			return 0, schemaErrorf(
				s.Name(),
				f.Name,
				"expected string value, got %T",
				value,
			)
		}
		return len(v), nil
	case schema.ElemNumeric:
		v, ok := value.([]uint64)
		if !ok {
			return 0, schemaErrorf(
				s.Name(),
				f.Name,
				"expected []uint64 value, got %T",
				value,
			)
		}
		return len(v), nil
	}
	return 0, schemaErrorf(s.Name(), f.Name, "unhandled sequence type %s", st)
}

func writeSeqElems(
	w io.Writer,
	s *schema.Schema,
	f schema.Field,
	st schema.SequenceType,
	value any,
) error {
	switch st.Elem {
	case schema.ElemByte:
		_, err := w.Write(value.([]byte))
		return err
	case schema.ElemChar:
		_, err := io.WriteString(w, value.(string))
		return err
	case schema.ElemNumeric:
		order := s.FieldByteOrder(f)
		for _, elem := range value.([]uint64) {
			if err := putUint(w, order, st.Unit.Size, elem); err != nil {
				return err
			}
		}
		return nil
	}
	return schemaErrorf(s.Name(), f.Name, "unhandled sequence type %s", st)
}

// putUint writes a single numeric unit in the given byte order. Length
// prefix bytes never pass through here; varints are order-independent by
// construction.
func putUint(w io.Writer, order binary.ByteOrder, size int, v uint64) error {
	var buf [8]byte
	switch size {
	case 1:
		buf[0] = byte(v)
	case 2:
		order.PutUint16(buf[:2], uint16(v))
	case 4:
		order.PutUint32(buf[:4], uint32(v))
	case 8:
		order.PutUint64(buf[:8], v)
	default:
		return schemaErrorf("", "", "unsupported scalar size %d", size)
	}
	_, err := w.Write(buf[:size])
	return err
}

func writeZeros(w io.Writer, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := w.Write(make([]byte, n))
	return err
}
