// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"fmt"
	"strings"

	"github.com/onelo-foundation/onelo/lib/checksum"
	"github.com/onelo-foundation/onelo/lib/contenttype"
)

// Entry is one file within a source.
type Entry struct {
	source      ID
	path        string
	content     checksum.Checksum
	contentType contenttype.ContentType
}

// ParseEntry parses a qualified name "<source>:<path>". The split is
// on the first ':'.
func ParseEntry(s string) (Entry, error) {
	sourcePart, path, found := strings.Cut(s, Separator)
	if !found {
		return Entry{}, &IdentifierError{Input: s, Err: ErrUnknownPattern}
	}
	id, err := ParseID(sourcePart)
	if err != nil {
		return Entry{}, err
	}
	return NewEntry(id, path)
}

// MustParseEntry is like [ParseEntry] but panics on error.
func MustParseEntry(s string) Entry {
	entry, err := ParseEntry(s)
	if err != nil {
		panic(err)
	}
	return entry
}

// NewEntry builds an entry from its parts. The path must not contain
// ':' and its final segment must carry a known extension.
func NewEntry(id ID, path string) (Entry, error) {
	if strings.Contains(path, Separator) {
		return Entry{}, &IdentifierError{Input: path, Err: ErrReservedSeparator}
	}
	extension, ok := Extension(path)
	if !ok {
		return Entry{}, &IdentifierError{Input: path, Err: ErrMissingExtension}
	}
	contentType, err := contenttype.FromExtension(extension)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s%s%s: %w", id, Separator, path, err)
	}
	return Entry{source: id, path: path, contentType: contentType}, nil
}

// Extension returns the text after the last '.' of the final '/'
// separated segment of path. It reports false if there is no dot or
// nothing follows it.
func Extension(path string) (string, bool) {
	segment := path[strings.LastIndexByte(path, '/')+1:]
	dot := strings.LastIndexByte(segment, '.')
	if dot < 0 || dot == len(segment)-1 {
		return "", false
	}
	return segment[dot+1:], true
}

// Source returns the ID of the source the entry belongs to.
func (e Entry) Source() ID { return e.source }

// Path returns the path relative to the source route, '/' separated.
func (e Entry) Path() string { return e.path }

// ContentType returns the type derived from the extension.
func (e Entry) ContentType() contenttype.ContentType { return e.contentType }

// ContentID returns the checksum of the entry's content, if it has
// been computed.
func (e Entry) ContentID() (checksum.Checksum, bool) {
	return e.content, !e.content.IsZero()
}

// WithContent returns a copy of e carrying the given content checksum.
func (e Entry) WithContent(id checksum.Checksum) Entry {
	e.content = id
	return e
}

// QualifiedID returns "<source>:<path>", the entry's cache key.
func (e Entry) QualifiedID() string {
	return e.source.String() + Separator + e.path
}

// String returns the qualified ID.
func (e Entry) String() string { return e.QualifiedID() }

// MarshalText implements encoding.TextMarshaler with the qualified ID.
// The content checksum is not part of the text form.
func (e Entry) MarshalText() ([]byte, error) {
	if e.contentType.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero-value Entry")
	}
	return []byte(e.QualifiedID()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Entry) UnmarshalText(data []byte) error {
	parsed, err := ParseEntry(string(data))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
