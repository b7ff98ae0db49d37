// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used for data onelo stores
// in the cache but never shows to users verbatim, chiefly the
// frontmatter metadata attached to each entry.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same frontmatter always produces identical bytes, so a metadata
// column can be compared byte for byte across builds.
//
//	data, err := codec.Marshal(metadata)
//	err = codec.Unmarshal(data, &metadata)
//
// Decoding into an untyped target produces map[string]any for maps and
// uint64/int64 for integers. Frontmatter parsed from YAML can contain
// map[any]any values; those encode as ordinary CBOR maps and decode
// back as map[string]any.
package codec
