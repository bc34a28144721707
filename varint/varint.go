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

// Package varint implements the unsigned little-endian base-128 encoding
// used for self-describing field lengths. Each byte carries seven value
// bits; a set high bit means more bytes follow.
package varint

import (
	"errors"
	"io"
)

// MaxLen is the maximum encoded length of a uint64 in bytes
const MaxLen = 10

var ErrOverflow = errors.New("varint overflows uint64")

// Len returns the encoded length of v in bytes
func Len(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// Append appends the encoding of v to dst and returns the extended slice
func Append(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Write writes the encoding of v to w
func Write(w io.Writer, v uint64) error {
	buf := Append(make([]byte, 0, MaxLen), v)
	_, err := w.Write(buf)
	return err
}

// Read reads a single varint from r. A source that ends mid-value returns
// io.ErrUnexpectedEOF; a source that ends before the first byte returns
// io.EOF unchanged.
func Read(r io.ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < MaxLen; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if i > 0 && errors.Is(err, io.EOF) {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		if shift == 63 && b > 1 {
			return 0, ErrOverflow
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, ErrOverflow
}

// Decode decodes a single varint from the start of data, returning the
// value and the number of bytes consumed
func Decode(data []byte) (uint64, int, error) {
	var result uint64
	var shift uint
	for i := 0; i < len(data) && i < MaxLen; i++ {
		b := data[i]
		if shift == 63 && b > 1 {
			return 0, 0, ErrOverflow
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
	}
	if len(data) >= MaxLen {
		return 0, 0, ErrOverflow
	}
	return 0, 0, io.ErrUnexpectedEOF
}
