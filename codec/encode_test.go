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

package codec_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/blinklabs-io/wirespec/codec"
	"github.com/blinklabs-io/wirespec/internal/test"
	"github.com/blinklabs-io/wirespec/schema"
)

func mustSchema(
	t *testing.T,
	name string,
	options ...schema.SchemaOptionFunc,
) *schema.Schema {
	t.Helper()
	s, err := schema.New(name, options...)
	if err != nil {
		t.Fatalf("unexpected error building schema: %s", err)
	}
	return s
}

func mustInstance(
	t *testing.T,
	s *schema.Schema,
	values ...any,
) *schema.Instance {
	t.Helper()
	inst, err := s.NewInstance(values...)
	if err != nil {
		t.Fatalf("unexpected error building instance: %s", err)
	}
	return inst
}

func TestEncodeScalars(t *testing.T) {
	testDefs := []struct {
		typ      schema.UintType
		order    binary.ByteOrder
		value    uint64
		expected string
	}{
		{schema.U8, binary.BigEndian, 0xab, "ab"},
		{schema.U16, binary.BigEndian, 0x0102, "0102"},
		{schema.U16, binary.LittleEndian, 0x0102, "0201"},
		{schema.U32, binary.BigEndian, 0x01020304, "01020304"},
		{schema.U32, binary.LittleEndian, 0x01020304, "04030201"},
		{schema.U64, binary.BigEndian, 0x0102030405060708, "0102030405060708"},
	}
	for _, testDef := range testDefs {
		s := mustSchema(
			t,
			"scalar",
			schema.WithByteOrder(testDef.order),
			schema.WithFields(schema.Field{Name: "v", Type: testDef.typ}),
		)
		ret, err := codec.Encode(mustInstance(t, s, testDef.value))
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !bytes.Equal(ret, test.DecodeHexString(testDef.expected)) {
			t.Fatalf(
				"did not get expected bytes for %s: got %x, expected %s",
				testDef.typ,
				ret,
				testDef.expected,
			)
		}
	}
}

func TestEncodeByteOrderReversal(t *testing.T) {
	// Big- and little-endian encodings of a multi-byte scalar must be
	// byte-reversed images of each other
	value := uint64(0xcafebabe)
	var encodings [][]byte
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		s := mustSchema(
			t,
			"scalar",
			schema.WithByteOrder(order),
			schema.WithFields(schema.Field{Name: "v", Type: schema.U32}),
		)
		ret, err := codec.Encode(mustInstance(t, s, value))
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		encodings = append(encodings, ret)
	}
	reversed := bytes.Clone(encodings[1])
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	if !bytes.Equal(encodings[0], reversed) {
		t.Fatalf(
			"expected byte-reversed encodings: got %x and %x",
			encodings[0],
			encodings[1],
		)
	}
}

func TestEncodePerFieldByteOrderOverride(t *testing.T) {
	s := mustSchema(
		t,
		"mixed",
		schema.WithFields(
			schema.Field{Name: "be", Type: schema.U16},
			schema.Field{
				Name:      "le",
				Type:      schema.U16,
				ByteOrder: binary.LittleEndian,
			},
		),
	)
	ret, err := codec.Encode(mustInstance(t, s, uint64(0x0102), uint64(0x0304)))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(ret, test.DecodeHexString("01020403")) {
		t.Fatalf("did not get expected bytes: got %x", ret)
	}
}

func TestEncodeTuple(t *testing.T) {
	s := mustSchema(
		t,
		"addr",
		schema.WithFields(
			schema.Field{Name: "mac", Type: schema.TupleOf(schema.U8, 6)},
		),
	)
	ret, err := codec.Encode(
		mustInstance(t, s, []uint64{0x02, 0x00, 0x00, 0x12, 0x34, 0x56}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(ret, test.DecodeHexString("020000123456")) {
		t.Fatalf("did not get expected bytes: got %x", ret)
	}
	// Wrong element count
	_, err = codec.Encode(mustInstance(t, s, []uint64{0x02}))
	var lengthErr *codec.LengthError
	if !errors.As(err, &lengthErr) {
		t.Fatalf("expected LengthError, got %v", err)
	}
}

func TestEncodeStringDefaultSelfDescribing(t *testing.T) {
	s := mustSchema(
		t,
		"msg",
		schema.WithFields(schema.Field{Name: "s", Type: schema.String}),
	)
	ret, err := codec.Encode(mustInstance(t, s, "hi"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(ret, test.DecodeHexString("026869")) {
		t.Fatalf("did not get expected bytes: got %x", ret)
	}
}

func TestEncodeBytesRequirePolicy(t *testing.T) {
	// Binary sequences must never get an implicit length policy
	s := mustSchema(
		t,
		"msg",
		schema.WithFields(schema.Field{Name: "b", Type: schema.Bytes}),
	)
	_, err := codec.Encode(mustInstance(t, s, []byte{0x01}))
	var schemaErr *codec.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestEncodeLengthPolicyBoundaries(t *testing.T) {
	testDefs := []struct {
		name        string
		policy      schema.LengthPolicy
		value       any
		expectedHex string
		expectedErr bool
	}{
		{
			name:        "exact at boundary",
			policy:      schema.FixedLength(3),
			value:       []byte{0x01, 0x02, 0x03},
			expectedHex: "010203",
		},
		{
			name:        "exact too short",
			policy:      schema.FixedLength(3),
			value:       []byte{0x01},
			expectedErr: true,
		},
		{
			name:        "exact too long",
			policy:      schema.FixedLength(3),
			value:       []byte{0x01, 0x02, 0x03, 0x04},
			expectedErr: true,
		},
		{
			name:        "padded shorter zero-fills",
			policy:      schema.PadTo(4),
			value:       []byte{0xaa, 0xbb},
			expectedHex: "aabb0000",
		},
		{
			name:        "padded at boundary",
			policy:      schema.PadTo(4),
			value:       []byte{0xaa, 0xbb, 0xcc, 0xdd},
			expectedHex: "aabbccdd",
		},
		{
			name:        "padded oversize is an error",
			policy:      schema.PadTo(4),
			value:       []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee},
			expectedErr: true,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			s := mustSchema(
				t,
				"msg",
				schema.WithFields(schema.Field{
					Name:   "b",
					Type:   schema.Bytes,
					Length: testDef.policy,
				}),
			)
			ret, err := codec.Encode(mustInstance(t, s, testDef.value))
			if testDef.expectedErr {
				var lengthErr *codec.LengthError
				if !errors.As(err, &lengthErr) {
					t.Fatalf("expected LengthError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if !bytes.Equal(ret, test.DecodeHexString(testDef.expectedHex)) {
				t.Fatalf(
					"did not get expected bytes: got %x, expected %s",
					ret,
					testDef.expectedHex,
				)
			}
		})
	}
}

func TestEncodeNumericSequence(t *testing.T) {
	s := mustSchema(
		t,
		"msg",
		schema.WithByteOrder(binary.LittleEndian),
		schema.WithFields(schema.Field{
			Name:   "v",
			Type:   schema.UintsOf(schema.U16),
			Length: schema.FixedLength(2),
		}),
	)
	ret, err := codec.Encode(mustInstance(t, s, []uint64{0x0102, 0x0304}))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// Byte order applies per element, never across the sequence
	if !bytes.Equal(ret, test.DecodeHexString("02010403")) {
		t.Fatalf("did not get expected bytes: got %x", ret)
	}
}

func TestEncodeAbsentField(t *testing.T) {
	s := mustSchema(
		t,
		"msg",
		schema.WithFields(
			schema.Field{Name: "a", Type: schema.U8},
			schema.Field{Name: "gap", Type: schema.Absent},
			schema.Field{Name: "b", Type: schema.U8},
		),
	)
	ret, err := codec.Encode(mustInstance(t, s, uint64(1), nil, uint64(2)))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(ret, test.DecodeHexString("0102")) {
		t.Fatalf("did not get expected bytes: got %x", ret)
	}
}

func TestEncodeDeterminism(t *testing.T) {
	s := mustSchema(
		t,
		"msg",
		schema.WithFields(
			schema.Field{Name: "n", Type: schema.U8},
			schema.Field{Name: "s", Type: schema.String},
		),
	)
	inst := mustInstance(t, s, uint64(7), "repeatable")
	first, err := codec.Encode(inst)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	second, err := codec.Encode(inst)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("repeated encodings differ: %x != %x", first, second)
	}
}

func TestEncodeNestedFraming(t *testing.T) {
	inner := mustSchema(
		t,
		"inner",
		schema.WithFields(schema.Field{Name: "x", Type: schema.U16}),
	)
	testDefs := []struct {
		name        string
		policy      schema.LengthPolicy
		expectedHex string
		expectedErr bool
	}{
		{
			name:        "unframed",
			policy:      nil,
			expectedHex: "0102ff",
		},
		{
			name:        "self-described",
			policy:      schema.VarLength(),
			expectedHex: "020102ff",
		},
		{
			name:        "exact",
			policy:      schema.FixedLength(2),
			expectedHex: "0102ff",
		},
		{
			name:        "exact mismatch",
			policy:      schema.FixedLength(3),
			expectedErr: true,
		},
		{
			name:        "padded",
			policy:      schema.PadTo(4),
			expectedHex: "01020000ff",
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			outer := mustSchema(
				t,
				"outer",
				schema.WithFields(
					schema.Field{
						Name:   "body",
						Type:   inner,
						Length: testDef.policy,
					},
					schema.Field{Name: "tail", Type: schema.U8},
				),
			)
			body := mustInstance(t, inner, uint64(0x0102))
			ret, err := codec.Encode(mustInstance(t, outer, body, uint64(0xff)))
			if testDef.expectedErr {
				var lengthErr *codec.LengthError
				if !errors.As(err, &lengthErr) {
					t.Fatalf("expected LengthError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if !bytes.Equal(ret, test.DecodeHexString(testDef.expectedHex)) {
				t.Fatalf(
					"did not get expected bytes: got %x, expected %s",
					ret,
					testDef.expectedHex,
				)
			}
		})
	}
}

func TestEncodeUnionStructuralMatch(t *testing.T) {
	// With no resolver, the value's shape must pick exactly one candidate
	s := mustSchema(
		t,
		"msg",
		schema.WithFields(
			schema.Field{Name: "v", Type: schema.OneOf(schema.U16, schema.String)},
		),
	)
	ret, err := codec.Encode(mustInstance(t, s, "hi"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(ret, test.DecodeHexString("026869")) {
		t.Fatalf("did not get expected bytes: got %x", ret)
	}
	// Ambiguous candidates require a resolver
	ambiguous := mustSchema(
		t,
		"msg",
		schema.WithFields(
			schema.Field{Name: "v", Type: schema.OneOf(schema.U16, schema.U32)},
		),
	)
	_, err = codec.Encode(mustInstance(t, ambiguous, uint64(1)))
	var schemaErr *codec.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestEncodeDoesNotMutateInstance(t *testing.T) {
	s := mustSchema(
		t,
		"msg",
		schema.WithFields(
			schema.Field{Name: "n", Type: schema.U8},
			schema.Field{Name: "s", Type: schema.String},
		),
		schema.WithPreEncode(func(inst *schema.Instance) (*schema.Instance, error) {
			return inst.WithValue("n", uint64(99))
		}),
	)
	inst := mustInstance(t, s, uint64(0), "data")
	ret, err := codec.Encode(inst)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if ret[0] != 99 {
		t.Fatalf("expected hook-populated field in encoding: got %x", ret)
	}
	if n, _ := inst.Uint("n"); n != 0 {
		t.Fatalf("encode mutated the caller's instance: n=%d", n)
	}
}
