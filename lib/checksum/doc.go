// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package checksum implements onelo's self-describing content hash.
//
// A [Checksum] carries the algorithm that produced it alongside the
// digest, so that a value written by a future release with a different
// hash function is recognized as foreign rather than misread. The
// canonical text form is:
//
//	<code:2 hex><length:2 hex><digest:2*length hex>
//
// For the only algorithm currently in the table (BLAKE3-256, multihash
// code 0x1e) that is "1e20" followed by 64 hex digits, 68 characters in
// total. The binary form returned by [Checksum.Bytes] is the same three
// fields without hex encoding.
//
// The text form is the identity persisted in the cache and shown to
// users, so it must stay byte-for-byte reproducible:
//
//	checksum.New([]byte("onelo")).String()
//	// 1e20cabe0427e7fdaa13ec1d49de58a6179a2ecb6dd6fd674261421949fab0acc525
//
// [Parse] validates in a fixed order: hex decoding, header presence,
// algorithm code, length byte against the algorithm's digest size, and
// finally the digest length. Every failure is a [*FormatError] wrapping
// one of [ErrMalformedHex], [ErrUnexpectedLength], [ErrUnknownCode] or
// [ErrInconsistentLength].
//
// New algorithms are added by extending the table in algorithm.go.
// Checksum values are comparable with ==, which is structural equality
// over (code, length, digest).
package checksum
