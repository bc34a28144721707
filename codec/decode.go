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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blinklabs-io/wirespec/schema"
	"github.com/blinklabs-io/wirespec/varint"
)

type decodeConfig struct {
	budget      int
	budgetKnown bool
}

// DecodeOptionFunc is a type that represents functions that modify the decode config
type DecodeOptionFunc func(*decodeConfig)

// WithBudget specifies the total byte budget for the decoded record. The
// buffer-based entry points default to the buffer length; the stream
// entry point has no budget unless one is given here.
func WithBudget(n int) DecodeOptionFunc {
	return func(c *decodeConfig) {
		c.budget = n
		c.budgetKnown = true
	}
}

// Decode reads a record instance of the given type from a byte buffer.
// The record's byte budget defaults to the buffer length. The schema's
// post-decode hook runs before the instance is returned.
func Decode(
	data []byte,
	s *schema.Schema,
	options ...DecodeOptionFunc,
) (*schema.Instance, error) {
	cfg := decodeConfig{budget: len(data), budgetKnown: true}
	for _, option := range options {
		option(&cfg)
	}
	cr := &countReader{r: bytes.NewReader(data)}
	return decodeRecord(cr, s, cfg.budget, cfg.budgetKnown, true)
}

// DecodeRaw reads a record instance from a byte buffer without invoking
// the record's own post-decode hook. This is the entry point for hooks
// that need to re-examine an encoding without recursing into themselves.
func DecodeRaw(
	data []byte,
	s *schema.Schema,
	options ...DecodeOptionFunc,
) (*schema.Instance, error) {
	cfg := decodeConfig{budget: len(data), budgetKnown: true}
	for _, option := range options {
		option(&cfg)
	}
	cr := &countReader{r: bytes.NewReader(data)}
	return decodeRecord(cr, s, cfg.budget, cfg.budgetKnown, false)
}

// DecodeFrom reads a record instance from a sequential byte source. No
// bytes beyond the record are consumed. The byte budget is unknown unless
// supplied via WithBudget.
func DecodeFrom(
	r io.Reader,
	s *schema.Schema,
	options ...DecodeOptionFunc,
) (*schema.Instance, error) {
	var cfg decodeConfig
	for _, option := range options {
		option(&cfg)
	}
	cr := &countReader{r: r}
	return decodeRecord(cr, s, cfg.budget, cfg.budgetKnown, true)
}

func decodeRecord(
	cr *countReader,
	s *schema.Schema,
	budget int,
	budgetKnown bool,
	withHooks bool,
) (*schema.Instance, error) {
	dctx := newDecodeContext(cr, s, budget, budgetKnown)
	for _, f := range s.Fields() {
		value, err := decodeField(dctx, s, f)
		if err != nil {
			return nil, err
		}
		// The accumulator grows only after the field completes, which is
		// what limits sibling visibility to strictly earlier fields
		dctx.acc = append(dctx.acc, value)
	}
	inst, err := s.NewInstance(dctx.acc...)
	if err != nil {
		return nil, &SchemaError{Record: s.Name(), Err: err}
	}
	if withHooks {
		if hook := s.PostDecode(); hook != nil {
			newInst, err := hook(inst)
			if err != nil {
				return nil, &ValidationError{Record: s.Name(), Err: err}
			}
			if newInst == nil || newInst.Schema() != s {
				return nil, schemaErrorf(
					s.Name(),
					"",
					"post-decode hook returned an instance of a different record type",
				)
			}
			inst = newInst
		}
	}
	return inst, nil
}

func decodeField(
	dctx *decodeContext,
	s *schema.Schema,
	f schema.Field,
) (any, error) {
	t := f.Type
	if u, ok := t.(schema.UnionType); ok {
		resolved, err := resolveDecodeType(s, f, u, dctx)
		if err != nil {
			return nil, err
		}
		t = resolved
	}
	kind, err := schema.Classify(t)
	if err != nil {
		return nil, &SchemaError{Record: s.Name(), Field: f.Name, Err: err}
	}
	order := s.FieldByteOrder(f)
	switch kind {
	case schema.KindScalar:
		return readUint(dctx, s, f, order, t.(schema.UintType).Size)
	case schema.KindTuple:
		tt := t.(schema.TupleType)
		ret := make([]uint64, tt.Count)
		for i := range ret {
			v, err := readUint(dctx, s, f, order, tt.Elem.Size)
			if err != nil {
				return nil, err
			}
			ret[i] = v
		}
		return ret, nil
	case schema.KindSequence:
		return decodeSequence(dctx, s, f, t.(schema.SequenceType))
	case schema.KindRecord:
		return decodeNested(dctx, s, f, t.(*schema.Schema))
	case schema.KindAbsent:
		return nil, nil
	case schema.KindOpaque:
		ot := t.(schema.OpaqueType)
		if ot.New == nil {
			return nil, schemaErrorf(
				s.Name(),
				f.Name,
				"opaque type has no value factory",
			)
		}
		value := ot.New()
		if err := value.ReadWire(dctx); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, &TruncationError{
					Record: s.Name(),
					Field:  f.Name,
					Err:    err,
				}
			}
			return nil, err
		}
		return value, nil
	}
	return nil, schemaErrorf(s.Name(), f.Name, "unhandled category %s", kind)
}

func decodeSequence(
	dctx *decodeContext,
	s *schema.Schema,
	f schema.Field,
	st schema.SequenceType,
) (any, error) {
	desc, err := resolveSeqLength(s, f, st, dctx)
	if err != nil {
		return nil, err
	}
	var count int
	stripPadding := false
	switch desc.Kind {
	case schema.LengthSelfDescribed:
		n, err := varint.Read(dctx)
		if err != nil {
			if errors.Is(err, varint.ErrOverflow) {
				return nil, &LengthError{
					Record: s.Name(),
					Field:  f.Name,
					Err:    err,
				}
			}
			return nil, &TruncationError{
				Record: s.Name(),
				Field:  f.Name,
				Err:    err,
			}
		}
		count = int(n)
	case schema.LengthExact, schema.LengthPadded:
		count = desc.Count
		stripPadding = true
	case schema.LengthUnframed:
		count = desc.Count
	case schema.LengthUnresolved:
		// Decoding must never guess a length
		return nil, lengthErrorf(
			s.Name(),
			f.Name,
			"length policy did not resolve to a concrete count",
		)
	default:
		return nil, lengthErrorf(
			s.Name(),
			f.Name,
			"unhandled descriptor %s",
			desc.Kind,
		)
	}
	if count < 0 {
		return nil, lengthErrorf(
			s.Name(),
			f.Name,
			"length policy resolved to negative count %d",
			count,
		)
	}
	// Reject impossible counts before allocating for them. The division
	// form avoids overflow on forged counts near the top of the int range.
	if remaining, ok := dctx.Remaining(); ok && count > remaining/st.ElemSize() {
		return nil, &TruncationError{
			Record: s.Name(),
			Field:  f.Name,
			Err: fmt.Errorf(
				"sequence of %d %d-byte elements exceeds remaining budget %d: %w",
				count,
				st.ElemSize(),
				remaining,
				io.ErrUnexpectedEOF,
			),
		}
	}
	switch st.Elem {
	case schema.ElemByte:
		return readSeqBytes(dctx, s, f, count)
	case schema.ElemChar:
		buf, err := readSeqBytes(dctx, s, f, count)
		if err != nil {
			return nil, err
		}
		ret := string(buf)
		if stripPadding {
			ret = strings.TrimRight(ret, "\x00")
		}
		return ret, nil
	case schema.ElemNumeric:
		order := s.FieldByteOrder(f)
		ret := make([]uint64, 0, min(count, seqChunkSize/st.ElemSize()))
		for i := 0; i < count; i++ {
			v, err := readUint(dctx, s, f, order, st.Unit.Size)
			if err != nil {
				return nil, err
			}
			ret = append(ret, v)
		}
		return ret, nil
	}
	return nil, schemaErrorf(s.Name(), f.Name, "unhandled sequence type %s", st)
}

// seqChunkSize bounds the per-step allocation while reading a sequence
const seqChunkSize = 64 * 1024

// readSeqBytes reads count bytes, growing the result in bounded chunks.
// With no byte budget the count is attacker-controlled, so the allocation
// must track what the source actually supplies rather than the claim.
func readSeqBytes(
	dctx *decodeContext,
	s *schema.Schema,
	f schema.Field,
	count int,
) ([]byte, error) {
	chunk := make([]byte, min(count, seqChunkSize))
	ret := make([]byte, 0, min(count, seqChunkSize))
	for left := count; left > 0; {
		n := min(left, seqChunkSize)
		if err := readFull(dctx, s, f, chunk[:n]); err != nil {
			return nil, err
		}
		ret = append(ret, chunk[:n]...)
		left -= n
	}
	return ret, nil
}

func decodeNested(
	dctx *decodeContext,
	s *schema.Schema,
	f schema.Field,
	nested *schema.Schema,
) (any, error) {
	// The nested record's budget comes from this field's length policy
	// when one is configured, and otherwise from whatever remains of the
	// enclosing record's own budget
	nestedBudget := 0
	budgetKnown := false
	enforceExact := false
	padded := false
	if f.Length != nil {
		desc, err := f.Length(dctx)
		if err != nil {
			return nil, &LengthError{Record: s.Name(), Field: f.Name, Err: err}
		}
		switch desc.Kind {
		case schema.LengthSelfDescribed:
			n, err := varint.Read(dctx)
			if err != nil {
				if errors.Is(err, varint.ErrOverflow) {
					return nil, &LengthError{
						Record: s.Name(),
						Field:  f.Name,
						Err:    err,
					}
				}
				return nil, &TruncationError{
					Record: s.Name(),
					Field:  f.Name,
					Err:    err,
				}
			}
			nestedBudget = int(n)
			budgetKnown = true
			enforceExact = true
		case schema.LengthExact:
			nestedBudget = desc.Count
			budgetKnown = true
			enforceExact = true
		case schema.LengthPadded:
			nestedBudget = desc.Count
			budgetKnown = true
			padded = true
		case schema.LengthUnframed:
			nestedBudget = desc.Count
			budgetKnown = true
			enforceExact = true
		case schema.LengthUnresolved:
			// Fall back to the enclosing record's remaining budget
		}
	}
	if !budgetKnown {
		nestedBudget, budgetKnown = dctx.Remaining()
	} else {
		if nestedBudget < 0 {
			return nil, lengthErrorf(
				s.Name(),
				f.Name,
				"length policy resolved to negative count %d",
				nestedBudget,
			)
		}
		if remaining, ok := dctx.Remaining(); ok && nestedBudget > remaining {
			return nil, &TruncationError{
				Record: s.Name(),
				Field:  f.Name,
				Err: fmt.Errorf(
					"nested record framed as %d bytes, only %d remain: %w",
					nestedBudget,
					remaining,
					io.ErrUnexpectedEOF,
				),
			}
		}
	}
	before := dctx.cr.n
	inst, err := decodeRecord(dctx.cr, nested, nestedBudget, budgetKnown, true)
	if err != nil {
		return nil, err
	}
	consumed := dctx.cr.n - before
	if enforceExact && consumed != nestedBudget {
		return nil, lengthErrorf(
			s.Name(),
			f.Name,
			"nested record consumed %d of %d framed bytes",
			consumed,
			nestedBudget,
		)
	}
	if padded && nestedBudget > consumed {
		// Discard the zero fill after the nested record
		if err := readFull(dctx, s, f, make([]byte, nestedBudget-consumed)); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func readUint(
	dctx *decodeContext,
	s *schema.Schema,
	f schema.Field,
	order binary.ByteOrder,
	size int,
) (uint64, error) {
	var buf [8]byte
	if err := readFull(dctx, s, f, buf[:size]); err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return uint64(order.Uint16(buf[:2])), nil
	case 4:
		return uint64(order.Uint32(buf[:4])), nil
	case 8:
		return order.Uint64(buf[:8]), nil
	}
	return 0, schemaErrorf(s.Name(), f.Name, "unsupported scalar size %d", size)
}

func readFull(
	dctx *decodeContext,
	s *schema.Schema,
	f schema.Field,
	buf []byte,
) error {
	if _, err := io.ReadFull(dctx, buf); err != nil {
		return &TruncationError{Record: s.Name(), Field: f.Name, Err: err}
	}
	return nil
}
