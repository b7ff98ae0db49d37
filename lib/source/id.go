// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package source

import "strings"

// Separator joins a source ID and an entry path in a qualified name.
const Separator = ":"

// ID names a source. The zero value is the empty ID, which is valid.
type ID struct {
	name string
}

// ParseID validates s as a source ID.
func ParseID(s string) (ID, error) {
	if strings.Contains(s, Separator) {
		return ID{}, &IdentifierError{Input: s, Err: ErrReservedSeparator}
	}
	return ID{name: s}, nil
}

// MustParseID is like [ParseID] but panics on error. For literals in
// tests and fixtures.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the ID text.
func (id ID) String() string { return id.name }

// IsEmpty reports whether id is the empty ID.
func (id ID) IsEmpty() bool { return id.name == "" }

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(data []byte) error {
	parsed, err := ParseID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
