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

package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"hash/crc32"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/blinklabs-io/wirespec/codec"
	"github.com/blinklabs-io/wirespec/schema"
)

type frameDumpFlags struct {
	flagset *flag.FlagSet
	decode  string
	payload string
}

func newFrameDumpFlags() *frameDumpFlags {
	f := &frameDumpFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.decode,
		"decode",
		"",
		"hex-encoded frame to decode (default is to encode a demo frame)",
	)
	f.flagset.StringVar(
		&f.payload,
		"payload",
		"hello world!",
		"payload for the demo frame",
	)
	return f
}

// frameSchema builds an Ethernet-style frame record: destination and
// source addresses, an ethertype, a trailing payload, and a CRC32 frame
// check sequence maintained by hooks
func frameSchema() (*schema.Schema, error) {
	fcs := func(inst *schema.Instance) (uint64, error) {
		// Checksum covers the encoding of everything except the FCS
		// field itself, so compute it over a raw encoding with the FCS
		// zeroed
		tmp, err := inst.WithValue("fcs", uint64(0))
		if err != nil {
			return 0, err
		}
		data, err := codec.EncodeRaw(tmp)
		if err != nil {
			return 0, err
		}
		return uint64(crc32.ChecksumIEEE(data[:len(data)-4])), nil
	}
	return schema.New(
		"frame",
		schema.WithFields(
			schema.Field{Name: "dst", Type: schema.TupleOf(schema.U8, 6)},
			schema.Field{Name: "src", Type: schema.TupleOf(schema.U8, 6)},
			schema.Field{Name: "ethertype", Type: schema.U16},
			schema.Field{
				Name:   "payload",
				Type:   schema.Bytes,
				Length: schema.RestOfRecord(4),
			},
			schema.Field{Name: "fcs", Type: schema.U32},
		),
		schema.WithPreEncode(func(inst *schema.Instance) (*schema.Instance, error) {
			sum, err := fcs(inst)
			if err != nil {
				return nil, err
			}
			return inst.WithValue("fcs", sum)
		}),
		schema.WithPostDecode(func(inst *schema.Instance) (*schema.Instance, error) {
			sum, err := fcs(inst)
			if err != nil {
				return nil, err
			}
			got, _ := inst.Uint("fcs")
			if got != sum {
				return nil, fmt.Errorf(
					"FCS mismatch: frame carries %08x, computed %08x",
					got,
					sum,
				)
			}
			return inst, nil
		}),
	)
}

func main() {
	f := newFrameDumpFlags()
	if err := f.flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse commandline: %s\n", err)
		os.Exit(1)
	}
	frame, err := frameSchema()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	var data []byte
	if f.decode != "" {
		data, err = hex.DecodeString(f.decode)
		if err != nil {
			fmt.Printf("ERROR: invalid hex: %s\n", err)
			os.Exit(1)
		}
	} else {
		inst, err := frame.NewInstance(
			[]uint64{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			[]uint64{0x02, 0x00, 0x00, 0x12, 0x34, 0x56},
			uint64(0x0800),
			[]byte(f.payload),
			uint64(0),
		)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		data, err = codec.Encode(inst)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("encoded frame: %x\n", data)
	}
	decoded, err := codec.Decode(data, frame)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Print(codec.Dump(decoded))
	digest := blake2b.Sum256(data)
	fmt.Printf("frame digest (blake2b-256): %x\n", digest)
}
