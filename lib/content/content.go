// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package content pairs a blob of bytes with the checksum that names
// it.
//
// A Content value can only be produced by hashing ([New]) or by
// re-verifying a persisted pair ([Restore]), so its identity always
// matches its bytes. Two Content values with equal blobs have equal
// identities, which is what lets the cache store each distinct blob
// once no matter how many entries reference it.
package content

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/onelo-foundation/onelo/lib/checksum"
)

// ErrChecksumMismatch means a stored blob no longer hashes to the
// checksum it was stored under.
var ErrChecksumMismatch = errors.New("content does not match its checksum")

// Content is an immutable blob together with its checksum.
type Content struct {
	id   checksum.Checksum
	blob []byte
}

// New hashes blob with the default algorithm. The blob is copied, so
// the caller may reuse its buffer.
func New(blob []byte) Content {
	owned := clone(blob)
	return Content{id: checksum.New(owned), blob: owned}
}

// Restore rebuilds a Content from a persisted identity and blob,
// rehashing the blob with id's algorithm to confirm they still agree.
func Restore(id checksum.Checksum, blob []byte) (Content, error) {
	if !id.Verify(blob) {
		return Content{}, fmt.Errorf("content %s (%d bytes): %w", id, len(blob), ErrChecksumMismatch)
	}
	return Content{id: id, blob: clone(blob)}, nil
}

func clone(blob []byte) []byte {
	owned := bytes.Clone(blob)
	if owned == nil {
		owned = []byte{}
	}
	return owned
}

// ID returns the checksum identifying the blob.
func (c Content) ID() checksum.Checksum { return c.id }

// Blob returns a copy of the bytes.
func (c Content) Blob() []byte { return bytes.Clone(c.blob) }

// Len returns the blob size in bytes.
func (c Content) Len() int { return len(c.blob) }

// IsZero reports whether c is the zero value.
func (c Content) IsZero() bool { return c.id.IsZero() }

// Equal reports whether c and other have the same identity. Both were
// verified on construction, so equal identities mean equal bytes.
func (c Content) Equal(other Content) bool { return c.id == other.id }

// String reports the identity and size.
func (c Content) String() string {
	return fmt.Sprintf("%s (%d bytes)", c.id, len(c.blob))
}
