// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for onelo packages.
//
// [WriteTree] lays out a note tree from a map of slash-separated paths
// to file contents, creating parent directories as needed. Build and
// CLI tests use it to describe a source in one literal.
//
// [CachePath] returns a cache database path inside a fresh t.TempDir.
//
// [RequireReceive] and [RequireClosed] bound a wait on a channel so a
// stuck goroutine fails the test instead of hanging it. They are the
// only wall-clock timeouts in the test suite.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation. Use it instead of time.Now() when tests need distinct
// note bodies or source ids.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no onelo-internal dependencies.
package testutil
