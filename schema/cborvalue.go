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

	_cbor "github.com/fxamacker/cbor/v2"

	"github.com/blinklabs-io/wirespec/varint"
)

// CBORValue is a ready-made opaque passthrough carrying an arbitrary
// CBOR-encodable value inside a record. The wire form is a varint byte
// length followed by the CBOR encoding, which keeps the field readable
// with a single sequential pass.
type CBORValue struct {
	Value any
}

// CBORField declares an opaque field backed by CBORValue
func CBORField() OpaqueType {
	return OpaqueOf(func() Opaque {
		return &CBORValue{}
	})
}

func (c *CBORValue) WriteWire(w io.Writer) error {
	opts := _cbor.EncOptions{
		// Make sure that maps have ordered keys
		Sort: _cbor.SortCoreDeterministic,
	}
	em, err := opts.EncMode()
	if err != nil {
		return err
	}
	data, err := em.Marshal(c.Value)
	if err != nil {
		return err
	}
	if err := varint.Write(w, uint64(len(data))); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (c *CBORValue) ReadWire(r io.Reader) error {
	br, ok := r.(io.ByteReader)
	if !ok {
		return fmt.Errorf("reader %T does not support byte reads", r)
	}
	size, err := varint.Read(br)
	if err != nil {
		return err
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return err
	}
	return _cbor.Unmarshal(data, &c.Value)
}
