// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package build indexes note sources into the cache.
//
// A build walks every configured source, hashes each candidate file,
// and compares the checksum with the one cached for the same qualified
// name. Files whose checksum is unchanged are not parsed again. New and
// changed files are parsed by lib/markdown, their blob is stored once
// per checksum, and the entry row, metadata and outgoing links are
// replaced.
//
// Each source is indexed inside one cache transaction: a failure while
// writing a source leaves its previous state intact. A file that cannot
// be named, read or parsed is logged and counted as failed; it does not
// stop the build.
//
// After a source is indexed its tree checksum is recomputed from the
// sorted "qualified-id<TAB>content-checksum" lines of its entries, so
// two builds over identical trees record identical tree checksums.
//
// [Run] is the entry point the CLI uses: it connects the cache,
// bootstraps it, builds and disconnects on every exit path. [Builder]
// runs against an already bootstrapped [cache.Store] for callers that
// manage the store themselves.
package build
