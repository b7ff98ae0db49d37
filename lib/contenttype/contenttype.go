// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package contenttype classifies source entries into a closed set of
// content kinds.
//
// Resolution goes through two static tables, one keyed by file
// extension (without the leading dot) and one keyed by IANA media type.
// A lookup either returns a known kind or a [*ClassificationError]; it
// never guesses. Adding a content type is a change to those tables and
// nothing else.
//
// [Other] exists for values that are recognized as meaningful but are
// not markdown. Neither table produces it today.
package contenttype

import (
	"errors"
	"fmt"
	"sort"
)

type kind uint8

const (
	kindMarkdown kind = iota + 1
	kindOther
)

// ContentType is one member of the closed set {Markdown, Other(raw)}.
// The zero value is not a valid content type.
type ContentType struct {
	kind kind
	raw  string
}

// Markdown is CommonMark text, extension "md", media type text/markdown.
var Markdown = ContentType{kind: kindMarkdown}

// Other returns the variant for a recognized non-markdown type.
func Other(raw string) ContentType {
	return ContentType{kind: kindOther, raw: raw}
}

const markdownName = "markdown"

var byExtension = map[string]ContentType{
	"md": Markdown,
}

var byIANA = map[string]ContentType{
	"text/markdown": Markdown,
}

var ianaNames = map[kind]string{
	kindMarkdown: "text/markdown",
}

// Sentinels wrapped by [ClassificationError].
var (
	ErrUnknownExtension = errors.New("unknown extension")
	ErrUnknownIana      = errors.New("unknown IANA media type")
)

// ClassificationError reports a value missing from the lookup tables.
type ClassificationError struct {
	Value string
	Err   error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Value)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// FromExtension resolves a file extension such as "md" (no dot).
func FromExtension(extension string) (ContentType, error) {
	contentType, ok := byExtension[extension]
	if !ok {
		return ContentType{}, &ClassificationError{Value: extension, Err: ErrUnknownExtension}
	}
	return contentType, nil
}

// FromIANA resolves a media type such as "text/markdown".
func FromIANA(mediaType string) (ContentType, error) {
	contentType, ok := byIANA[mediaType]
	if !ok {
		return ContentType{}, &ClassificationError{Value: mediaType, Err: ErrUnknownIana}
	}
	return contentType, nil
}

// Extensions returns the known extensions in sorted order.
func Extensions() []string {
	extensions := make([]string, 0, len(byExtension))
	for extension := range byExtension {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}

// Parse reverses [ContentType.String]: "markdown" is Markdown, any
// other non-empty name is Other(name). Used when reloading persisted
// rows, where the name was produced by String.
func Parse(name string) (ContentType, error) {
	switch name {
	case "":
		return ContentType{}, fmt.Errorf("content type name is empty")
	case markdownName:
		return Markdown, nil
	default:
		return Other(name), nil
	}
}

// IsMarkdown reports whether c is the Markdown variant.
func (c ContentType) IsMarkdown() bool { return c.kind == kindMarkdown }

// IsZero reports whether c is the zero value.
func (c ContentType) IsZero() bool { return c.kind == 0 }

// Raw returns the payload of an Other value and "" otherwise.
func (c ContentType) Raw() string {
	if c.kind != kindOther {
		return ""
	}
	return c.raw
}

// String returns the canonical name stored in the cache.
func (c ContentType) String() string {
	switch c.kind {
	case kindMarkdown:
		return markdownName
	case kindOther:
		return c.raw
	default:
		return ""
	}
}

// IANA returns the media type for known kinds and "" for Other.
func (c ContentType) IANA() string {
	return ianaNames[c.kind]
}

// MarshalText implements encoding.TextMarshaler.
func (c ContentType) MarshalText() ([]byte, error) {
	if c.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero-value ContentType")
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ContentType) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
