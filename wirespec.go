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

// Package wirespec is a declarative binary codec: a record schema
// describes an ordered set of typed fields, and the codec engines convert
// between in-memory record instances and exact byte sequences without
// hand-written per-protocol parsing code.
//
// Schemas are declared with the schema package and driven through the
// codec package. This package re-exports the two entry points most
// callers need.
package wirespec

import (
	"io"

	"github.com/blinklabs-io/wirespec/codec"
	"github.com/blinklabs-io/wirespec/schema"
)

// Encode serializes a record instance to its exact byte sequence
func Encode(inst *schema.Instance) ([]byte, error) {
	return codec.Encode(inst)
}

// EncodeTo serializes a record instance to a byte sink
func EncodeTo(w io.Writer, inst *schema.Instance) error {
	return codec.EncodeTo(w, inst)
}

// Decode reads a record instance of the given type from a byte buffer
func Decode(data []byte, s *schema.Schema) (*schema.Instance, error) {
	return codec.Decode(data, s)
}

// DecodeFrom reads a record instance from a sequential byte source
func DecodeFrom(r io.Reader, s *schema.Schema) (*schema.Instance, error) {
	return codec.DecodeFrom(r, s)
}
