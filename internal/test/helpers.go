package test

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off whitespace so hex dumps can be pasted with formatting intact
	hexData = strings.Map(
		func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' {
				return -1
			}
			return r
		},
		hexData,
	)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// CorruptByte returns a copy of data with the byte at the given offset
// flipped. The original slice is not modified.
func CorruptByte(data []byte, offset int) []byte {
	ret := bytes.Clone(data)
	ret[offset] ^= 0xff
	return ret
}
