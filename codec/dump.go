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
	"fmt"

	"github.com/blinklabs-io/wirespec/schema"
)

// Dump generates an indented string representing a record instance for debugging purposes
func Dump(inst *schema.Instance) string {
	var ret bytes.Buffer
	dumpRecord(&ret, inst, "")
	return ret.String()
}

func dumpRecord(ret *bytes.Buffer, inst *schema.Instance, prefix string) {
	s := inst.Schema()
	fmt.Fprintf(ret, "%s%s {\n", prefix, s.Name())
	fieldPrefix := prefix + "  "
	for i, f := range s.Fields() {
		switch v := inst.ValueAt(i).(type) {
		case nil:
			fmt.Fprintf(ret, "%s%s: <absent>\n", fieldPrefix, f.Name)
		case uint64:
			fmt.Fprintf(ret, "%s%s: 0x%x (%d)\n", fieldPrefix, f.Name, v, v)
		case []uint64:
			fmt.Fprintf(ret, "%s%s: %v\n", fieldPrefix, f.Name, v)
		case []byte:
			fmt.Fprintf(
				ret,
				"%s%s: %x (length %d)\n",
				fieldPrefix,
				f.Name,
				v,
				len(v),
			)
		case string:
			fmt.Fprintf(ret, "%s%s: %q\n", fieldPrefix, f.Name, v)
		case *schema.Instance:
			fmt.Fprintf(ret, "%s%s:\n", fieldPrefix, f.Name)
			dumpRecord(ret, v, fieldPrefix+"  ")
		default:
			fmt.Fprintf(ret, "%s%s: %#v\n", fieldPrefix, f.Name, v)
		}
	}
	fmt.Fprintf(ret, "%s}\n", prefix)
}
