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

import "fmt"

// SchemaError indicates a record type configuration that cannot support
// the attempted call, such as a union field with no type resolver or a
// binary sequence with no length policy. It is detected at the first
// encode or decode attempt and is never silently defaulted.
type SchemaError struct {
	Record string
	Field  string
	Err    error
}

func (e *SchemaError) Error() string {
	return "schema error: " + errLocation(e.Record, e.Field) + e.Err.Error()
}

func (e *SchemaError) Unwrap() error { return e.Err }

// LengthError indicates a resolved length inconsistent with the actual
// value, or a length that could not be resolved to a concrete count at
// decode time. The enclosing call aborts with no usable partial result.
type LengthError struct {
	Record string
	Field  string
	Err    error
}

func (e *LengthError) Error() string {
	return "length error: " + errLocation(e.Record, e.Field) + e.Err.Error()
}

func (e *LengthError) Unwrap() error { return e.Err }

// TruncationError indicates the byte source was exhausted, or a record's
// byte budget overrun, before a field was fully read
type TruncationError struct {
	Record string
	Field  string
	Err    error
}

func (e *TruncationError) Error() string {
	return "truncation error: " + errLocation(e.Record, e.Field) + e.Err.Error()
}

func (e *TruncationError) Unwrap() error { return e.Err }

// ValidationError indicates the post-decode hook rejected the decoded
// instance, such as on a checksum mismatch. The caller receives no
// instance.
type ValidationError struct {
	Record string
	Err    error
}

func (e *ValidationError) Error() string {
	return "validation error: " + errLocation(e.Record, "") + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func errLocation(record string, field string) string {
	if record == "" {
		return ""
	}
	if field == "" {
		return fmt.Sprintf("record %s: ", record)
	}
	return fmt.Sprintf("record %s: field %s: ", record, field)
}

func schemaErrorf(
	record string,
	field string,
	format string,
	args ...any,
) *SchemaError {
	return &SchemaError{
		Record: record,
		Field:  field,
		Err:    fmt.Errorf(format, args...),
	}
}

func lengthErrorf(
	record string,
	field string,
	format string,
	args ...any,
) *LengthError {
	return &LengthError{
		Record: record,
		Field:  field,
		Err:    fmt.Errorf(format, args...),
	}
}
