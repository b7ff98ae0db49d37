// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache is the persistent, content-addressed store behind
// onelo builds.
//
// A [Store] owns one SQLite connection and moves through three states:
//
//	Closed --Connect--> Connected --Bootstrap--> Bootstrapped
//	   ^                                              |
//	   +-------------------Disconnect-----------------+
//
// Connect opens the database (a file, or memory when the path is empty
// or ":memory:") and switches it to WAL. Bootstrap creates the schema
// and is safe to repeat. Disconnect checkpoints the write-ahead log,
// returns the file to rollback-journal mode and closes it, so a cache
// at rest is a single file with no -wal or -shm companions.
//
// Operations outside their state fail immediately with a
// [*StorageError]: ErrClosed before Connect or after Disconnect,
// ErrNotBootstrapped for entity operations between Connect and
// Bootstrap.
//
// # Tables
//
//   - source: one row per [source.Source], with the tree checksum
//     from its last build.
//   - content: one row per distinct blob, keyed by checksum text, so
//     identical files share storage. Blobs are compressed per the
//     configured [compress.Policy] and re-verified on read.
//   - source_entry: one row per qualified entry name, pointing at its
//     content and carrying CBOR-encoded frontmatter metadata.
//   - entry_link: qualified links found in an entry's body.
//   - build_run: a summary row per build.
//
// # Observers
//
// [OpenReader] opens a read-only connection pool over the same file.
// While a build holds the Store, readers see the last committed
// snapshot and never block the writer.
package cache
