// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package markdown extracts what the cache records about a note
// besides its bytes: frontmatter metadata, a title, and links to other
// notes.
//
// Frontmatter is optional. A note may open with a TOML block fenced by
// "+++" lines or a YAML block fenced by "---" lines; either is decoded
// into a map with string keys at every level. Without a block the whole
// file is body.
//
// Links are qualified entry names used as link destinations, either
// inline or as autolinks:
//
//	See [the intro](docs:notes/intro.md) or <journal:2026/03/01.md>.
//
// Destinations that do not parse as an entry name (web URLs, relative
// paths, unknown extensions) are not links in this sense and are
// ignored. A fragment or query after the path is dropped.
package markdown
