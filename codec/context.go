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
	"io"

	"github.com/blinklabs-io/wirespec/schema"
)

// encodeContext exposes the whole instance being encoded. The total
// emitted length is generally unknown before encoding completes, so no
// budget is reported.
type encodeContext struct {
	inst *schema.Instance
}

func (c *encodeContext) Budget() (int, bool) { return 0, false }

func (c *encodeContext) Remaining() (int, bool) { return 0, false }

func (c *encodeContext) Field(name string) (any, bool) {
	return c.inst.Value(name)
}

// countReader tracks the total number of bytes consumed from the
// underlying source. It deliberately avoids read-ahead buffering so the
// source is never consumed past the decoded record.
type countReader struct {
	r io.Reader
	n int
}

func (c *countReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

// decodeContext is the per-record decode state: the shared counting
// reader, the byte budget when known, and the ordered accumulator of
// already-decoded sibling values. A nested record gets its own
// independent context over the same reader.
//
// All field reads go through the context so the record's byte budget is
// enforced uniformly, including inside opaque passthrough values.
type decodeContext struct {
	cr          *countReader
	schema      *schema.Schema
	acc         []any
	budget      int
	budgetKnown bool
	start       int
}

func newDecodeContext(
	cr *countReader,
	s *schema.Schema,
	budget int,
	budgetKnown bool,
) *decodeContext {
	return &decodeContext{
		cr:          cr,
		schema:      s,
		acc:         make([]any, 0, len(s.Fields())),
		budget:      budget,
		budgetKnown: budgetKnown,
		start:       cr.n,
	}
}

func (d *decodeContext) consumed() int { return d.cr.n - d.start }

func (d *decodeContext) Budget() (int, bool) {
	return d.budget, d.budgetKnown
}

func (d *decodeContext) Remaining() (int, bool) {
	if !d.budgetKnown {
		return 0, false
	}
	return d.budget - d.consumed(), true
}

// Field exposes only sibling values decoded strictly earlier in schema
// order
func (d *decodeContext) Field(name string) (any, bool) {
	idx, ok := d.schema.FieldIndex(name)
	if !ok || idx >= len(d.acc) {
		return nil, false
	}
	return d.acc[idx], true
}

func (d *decodeContext) Read(p []byte) (int, error) {
	if d.budgetKnown {
		if remaining := d.budget - d.consumed(); len(p) > remaining {
			if remaining > 0 {
				// Allow a partial read up to the budget so the overrun
				// surfaces as an unexpected EOF from io.ReadFull
				p = p[:remaining]
			} else {
				return 0, io.ErrUnexpectedEOF
			}
		}
	}
	return d.cr.Read(p)
}

func (d *decodeContext) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(d, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
