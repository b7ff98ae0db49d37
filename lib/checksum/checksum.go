// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package checksum

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// headerSize is the code byte plus the length byte.
const headerSize = 2

// Checksum is a digest tagged with the algorithm that produced it. The
// zero value is not a valid checksum; see [Checksum.IsZero].
type Checksum struct {
	code   Code
	size   uint8
	digest [MaxSize]byte
}

// New hashes data with the [Default] algorithm.
func New(data []byte) Checksum {
	sum, err := Sum(Default, data)
	if err != nil {
		panic("checksum: default algorithm: " + err.Error())
	}
	return sum
}

// Sum hashes data with the algorithm registered under code.
//
// Panics if the hash primitive returns a digest whose width disagrees
// with the table. That is a defect in the table, not bad input.
func Sum(code Code, data []byte) (Checksum, error) {
	algorithm, ok := Lookup(code)
	if !ok {
		return Checksum{}, formatError(code.String(), ErrUnknownCode, "no algorithm registered")
	}
	digest := algorithm.sum(data)
	if len(digest) != algorithm.Size || algorithm.Size > MaxSize {
		panic(fmt.Sprintf("checksum: %s produced %d bytes, table declares %d",
			algorithm.Name, len(digest), algorithm.Size))
	}
	var result Checksum
	result.code = algorithm.Code
	result.size = uint8(algorithm.Size)
	copy(result.digest[:], digest)
	return result, nil
}

// Parse decodes the text form produced by [Checksum.String].
func Parse(text string) (Checksum, error) {
	raw, err := hex.DecodeString(text)
	if err != nil {
		return Checksum{}, formatError(text, ErrMalformedHex, "%v", err)
	}
	return decode(raw, text)
}

// MustParse is like [Parse] but panics on error. For constants in tests
// and fixtures.
func MustParse(text string) Checksum {
	sum, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return sum
}

// FromBytes decodes the binary form produced by [Checksum.Bytes].
func FromBytes(raw []byte) (Checksum, error) {
	return decode(raw, hex.EncodeToString(raw))
}

// decode validates header then digest. The digest is only copied once
// code and length have been accepted.
func decode(raw []byte, input string) (Checksum, error) {
	if len(raw) < headerSize {
		return Checksum{}, formatError(input, ErrUnexpectedLength,
			"%d bytes, need at least %d for the header", len(raw), headerSize)
	}

	code := Code(raw[0])
	declared := int(raw[1])

	algorithm, ok := Lookup(code)
	if !ok {
		return Checksum{}, formatError(input, ErrUnknownCode, "code 0x%s", code)
	}
	if declared != algorithm.Size {
		return Checksum{}, formatError(input, ErrInconsistentLength,
			"%s digests are %d bytes, header declares %d", algorithm.Name, algorithm.Size, declared)
	}

	digest := raw[headerSize:]
	if len(digest) != declared {
		return Checksum{}, formatError(input, ErrUnexpectedLength,
			"digest is %d bytes, header declares %d", len(digest), declared)
	}

	var result Checksum
	result.code = code
	result.size = uint8(declared)
	copy(result.digest[:], digest)
	return result, nil
}

// Code returns the algorithm code.
func (c Checksum) Code() Code { return c.code }

// Size returns the digest width in bytes.
func (c Checksum) Size() int { return int(c.size) }

// Algorithm returns the table entry for the checksum's code.
func (c Checksum) Algorithm() (Algorithm, bool) { return Lookup(c.code) }

// Digest returns a copy of the raw digest bytes.
func (c Checksum) Digest() []byte {
	return append([]byte(nil), c.digest[:c.size]...)
}

// Bytes returns the binary form: code, length, digest.
func (c Checksum) Bytes() []byte {
	raw := make([]byte, 0, headerSize+int(c.size))
	raw = append(raw, byte(c.code), c.size)
	return append(raw, c.digest[:c.size]...)
}

// String returns the canonical text form.
func (c Checksum) String() string {
	return hex.EncodeToString(c.Bytes())
}

// IsZero reports whether c is the zero value.
func (c Checksum) IsZero() bool { return c == Checksum{} }

// Equal reports structural equality. Same as ==.
func (c Checksum) Equal(other Checksum) bool { return c == other }

// Verify reports whether hashing data with c's algorithm yields c.
func (c Checksum) Verify(data []byte) bool {
	sum, err := Sum(c.code, data)
	if err != nil {
		return false
	}
	return sum == c
}

// MarshalText implements encoding.TextMarshaler using the canonical
// text form.
func (c Checksum) MarshalText() ([]byte, error) {
	if c.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero-value Checksum")
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Checksum) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Compare orders checksums by code, then length, then digest bytes.
// Returns -1, 0 or +1.
func Compare(a, b Checksum) int {
	switch {
	case a.code != b.code:
		if a.code < b.code {
			return -1
		}
		return 1
	case a.size != b.size:
		if a.size < b.size {
			return -1
		}
		return 1
	}
	return bytes.Compare(a.digest[:a.size], b.digest[:b.size])
}
