// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package checksum

import (
	"fmt"

	"github.com/zeebo/blake3"
)

// Code is the multihash code identifying a hash algorithm. It occupies
// the first byte of every encoded checksum.
type Code uint8

// BLAKE3 is the multihash code for BLAKE3 with a 256-bit output.
const BLAKE3 Code = 0x1e

// Default is the algorithm used by [New].
const Default = BLAKE3

// MaxSize bounds the digest width any table entry may declare. The
// Checksum array is sized for it so values stay comparable.
const MaxSize = 64

// Algorithm describes one entry of the known-code table.
type Algorithm struct {
	// Code is the multihash code written into the header.
	Code Code

	// Name is the lowercase algorithm name used in logs and errors.
	Name string

	// Size is the digest width in bytes. Parsing rejects a length byte
	// that disagrees with it.
	Size int

	sum func(data []byte) []byte
}

// String returns the algorithm name.
func (a Algorithm) String() string { return a.Name }

// algorithms is the known-code table. Adding an algorithm means adding
// an entry here; previously stored checksums stay valid because the
// code of each entry never changes.
var algorithms = map[Code]Algorithm{
	BLAKE3: {
		Code: BLAKE3,
		Name: "blake3",
		Size: 32,
		sum: func(data []byte) []byte {
			digest := blake3.Sum256(data)
			return digest[:]
		},
	},
}

// Lookup returns the table entry for code.
func Lookup(code Code) (Algorithm, bool) {
	algorithm, ok := algorithms[code]
	return algorithm, ok
}

// String returns the code as two lowercase hex digits.
func (c Code) String() string {
	return fmt.Sprintf("%02x", uint8(c))
}
