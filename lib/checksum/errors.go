// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package checksum

import (
	"errors"
	"fmt"
)

// Sentinels wrapped by [FormatError]. Match them with errors.Is.
var (
	// ErrMalformedHex means the text form is not valid hexadecimal.
	ErrMalformedHex = errors.New("malformed hex")

	// ErrUnexpectedLength means the input is too short to hold a
	// header, or the digest does not match the declared length.
	ErrUnexpectedLength = errors.New("unexpected length")

	// ErrUnknownCode means the algorithm code is not in the table.
	// Readers seeing a checksum from a newer release fail here.
	ErrUnknownCode = errors.New("unknown algorithm code")

	// ErrInconsistentLength means the length byte disagrees with the
	// digest size of the declared algorithm.
	ErrInconsistentLength = errors.New("inconsistent length")
)

// FormatError reports a checksum that could not be decoded. Input is
// the text form, or the hex encoding of the binary form.
//
//	var formatErr *checksum.FormatError
//	if errors.As(err, &formatErr) && errors.Is(err, checksum.ErrUnknownCode) { ... }
type FormatError struct {
	Input  string
	Err    error
	Detail string
}

func (e *FormatError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("checksum %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("checksum %q: %v: %s", e.Input, e.Err, e.Detail)
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatError(input string, sentinel error, format string, args ...any) *FormatError {
	return &FormatError{
		Input:  input,
		Err:    sentinel,
		Detail: fmt.Sprintf(format, args...),
	}
}
