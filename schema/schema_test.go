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

package schema_test

import (
	"encoding/binary"
	"testing"

	"github.com/blinklabs-io/wirespec/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := schema.New(
		"header",
		schema.WithFields(
			schema.Field{Name: "version", Type: schema.U8},
			schema.Field{Name: "length", Type: schema.U16},
		),
	)
	require.NoError(t, err)
	assert.Equal(t, "header", s.Name())
	assert.Len(t, s.Fields(), 2)
	// Network order unless overridden
	assert.Equal(t, binary.ByteOrder(binary.BigEndian), s.ByteOrder())
	idx, ok := s.FieldIndex("length")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = s.FieldIndex("missing")
	assert.False(t, ok)
}

func TestNewInvalid(t *testing.T) {
	testDefs := []struct {
		name   string
		fields []schema.Field
	}{
		{
			name: "duplicate field name",
			fields: []schema.Field{
				{Name: "a", Type: schema.U8},
				{Name: "a", Type: schema.U16},
			},
		},
		{
			name: "empty field name",
			fields: []schema.Field{
				{Name: "", Type: schema.U8},
			},
		},
		{
			name: "nil field type",
			fields: []schema.Field{
				{Name: "a", Type: nil},
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := schema.New("bad", schema.WithFields(testDef.fields...))
			assert.Error(t, err)
		})
	}
}

func TestFieldByteOrder(t *testing.T) {
	s, err := schema.New(
		"mixed",
		schema.WithByteOrder(binary.LittleEndian),
		schema.WithFields(
			schema.Field{Name: "a", Type: schema.U16},
			schema.Field{
				Name:      "b",
				Type:      schema.U16,
				ByteOrder: binary.BigEndian,
			},
		),
	)
	require.NoError(t, err)
	fields := s.Fields()
	assert.Equal(
		t,
		binary.ByteOrder(binary.LittleEndian),
		s.FieldByteOrder(fields[0]),
	)
	assert.Equal(
		t,
		binary.ByteOrder(binary.BigEndian),
		s.FieldByteOrder(fields[1]),
	)
}

func TestSchemaAsNestedType(t *testing.T) {
	inner, err := schema.New(
		"inner",
		schema.WithFields(schema.Field{Name: "x", Type: schema.U8}),
	)
	require.NoError(t, err)
	outer, err := schema.New(
		"outer",
		schema.WithFields(schema.Field{Name: "body", Type: inner}),
	)
	require.NoError(t, err)
	assert.Equal(t, schema.KindRecord, outer.Fields()[0].Type.Kind())
}
