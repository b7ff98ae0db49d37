// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"
)

// Sentinels wrapped by [StorageError].
var (
	// ErrClosed means the store is not connected.
	ErrClosed = errors.New("store is closed")

	// ErrNotBootstrapped means an entity operation ran before
	// Bootstrap.
	ErrNotBootstrapped = errors.New("store is not bootstrapped")

	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrContentMismatch means a stored blob no longer hashes to its
	// key.
	ErrContentMismatch = errors.New("stored content does not match its checksum")

	// ErrReadersAttached means Disconnect gave up waiting for other
	// connections to close, so the file is still in WAL mode. The next
	// writer to disconnect cleanly restores it.
	ErrReadersAttached = errors.New("other connections still attached")
)

// StorageError reports a failed cache operation. Op names the
// operation ("put entry", "bootstrap"); Err is a sentinel above or the
// underlying SQLite error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cache: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *StorageError
	if errors.As(err, &existing) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
