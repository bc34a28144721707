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

// Package codec implements the encode and decode engines for wirespec
// record schemas.
//
// # Entry Points
//
// Hook-enabled (the normal path):
//   - Encode / EncodeTo: pre-encode hook, then per-field serialization
//   - Decode / DecodeFrom: per-field deserialization, then post-decode hook
//
// Hook-bypassing (for hooks that re-serialize their own record):
//   - EncodeRaw / EncodeRawTo
//   - DecodeRaw
//
// # Critical Pattern: checksum hooks
//
// A checksum field must be computed over the encoding of everything except
// itself. The pre-encode hook zeroes the checksum field, re-serializes via
// EncodeRaw (which skips the hook so it cannot recurse), computes the
// digest, and returns a new instance with the checksum filled in:
//
//	hook := func(inst *schema.Instance) (*schema.Instance, error) {
//	    tmp, err := inst.WithValue("fcs", uint64(0))
//	    if err != nil {
//	        return nil, err
//	    }
//	    data, err := codec.EncodeRaw(tmp)
//	    if err != nil {
//	        return nil, err
//	    }
//	    sum := crc32.ChecksumIEEE(data[:len(data)-4])
//	    return inst.WithValue("fcs", uint64(sum))
//	}
//
// The matching post-decode hook recomputes the digest the same way and
// returns an error on mismatch, which surfaces to the caller as a
// ValidationError.
//
// # Failure Model
//
// SchemaError, LengthError, TruncationError, and ValidationError all abort
// the enclosing call immediately with no partial result; nested record
// failures propagate unchanged to the outermost call.
package codec
