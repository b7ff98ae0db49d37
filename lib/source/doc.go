// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package source models where notes come from and how a single note is
// named.
//
// A [Source] is a named root directory. Its [ID] is a short label
// ("docs", "journal") that may be empty but never contains ':'. The
// colon is reserved as the separator of qualified entry names:
//
//	docs:notes/intro.md
//	^^^^ ^^^^^^^^^^^^^^
//	 ID   path relative to the source route
//
// An [Entry] is one file under a source. Its content type comes from
// the extension of the final path segment, resolved through
// lib/contenttype; files whose type cannot be resolved are rejected
// rather than guessed. An entry starts without a content checksum and
// gains one with [Entry.WithContent] once the file has been hashed.
//
// The colon is also rejected inside entry paths, so every qualified ID
// parses back to the entry that produced it.
package source
