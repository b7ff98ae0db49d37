// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"errors"
	"fmt"
)

// Sentinels wrapped by [IdentifierError].
var (
	// ErrReservedSeparator means a source ID or entry path contains
	// the ':' separator.
	ErrReservedSeparator = errors.New("contains reserved separator ':'")

	// ErrUnknownPattern means a qualified entry name has no ':'.
	ErrUnknownPattern = errors.New("not of the form <source>:<path>")

	// ErrMissingExtension means the final path segment has no
	// extension to derive a content type from.
	ErrMissingExtension = errors.New("path has no extension")
)

// IdentifierError reports a malformed source ID or entry name.
type IdentifierError struct {
	Input string
	Err   error
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("identifier %q: %v", e.Input, e.Err)
}

func (e *IdentifierError) Unwrap() error { return e.Err }
