// Copyright 2026 The Onelo Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress stores note blobs compactly in the cache.
//
// Each stored blob carries a one-byte [Tag] naming the algorithm and
// its uncompressed size, so decompression can verify it got back
// exactly what went in. Compression never changes identity: checksums
// are always computed over the uncompressed bytes.
//
// A [Policy] decides the tag for each blob. "auto" picks per blob
// (zstd for text, otherwise by trial compression); a fixed algorithm is applied as
// given. Either way a blob that would not shrink is stored raw.
package compress

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Tag identifies the compression algorithm used for a blob. Tags are
// persisted in the cache; changing them breaks existing caches.
type Tag uint8

const (
	// None stores the blob as is.
	None Tag = 0

	// LZ4 is block-mode LZ4. Fast, modest ratio.
	LZ4 Tag = 1

	// Zstd is zstd at the default level. Better ratio on text, which
	// is nearly everything onelo stores.
	Zstd Tag = 2
)

// String returns the human-readable name of a tag.
func (tag Tag) String() string {
	switch tag {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}

// ParseTag parses a tag from its string form.
func ParseTag(name string) (Tag, error) {
	switch name {
	case "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("unknown compression tag: %q", name)
	}
}

// Compress compresses data with the given algorithm. For None the
// input is returned unchanged. Returns an error satisfying
// [IsIncompressible] when the output would not be smaller.
func Compress(data []byte, tag Tag) ([]byte, error) {
	switch tag {
	case None:
		return data, nil
	case LZ4:
		return compressLZ4(data)
	case Zstd:
		return compressZstd(data)
	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

// Decompress reverses [Compress]. uncompressedSize must match the
// original length exactly; a mismatch is an error.
func Decompress(compressed []byte, tag Tag, uncompressedSize int) ([]byte, error) {
	switch tag {
	case None:
		if len(compressed) != uncompressedSize {
			return nil, fmt.Errorf("uncompressed blob: size %d does not match expected %d",
				len(compressed), uncompressedSize)
		}
		return compressed, nil
	case LZ4:
		return decompressLZ4(compressed, uncompressedSize)
	case Zstd:
		return decompressZstd(compressed, uncompressedSize)
	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock returns 0 for incompressible input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(compressed []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, uncompressedSize)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != uncompressedSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, uncompressedSize)
	}
	return destination, nil
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use, so one
// of each serves the whole process.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("compress: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, uncompressedSize int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, uncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != uncompressedSize {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), uncompressedSize)
	}
	return result, nil
}

var errIncompressible = errors.New("data is incompressible")

// IsIncompressible reports whether err means the data could not be
// compressed below its original size.
func IsIncompressible(err error) bool {
	return errors.Is(err, errIncompressible)
}

// Select picks an algorithm for data. Known text media types go
// straight to zstd; anything else is trial-compressed with zstd and the ratio
// decides: 1.5x or better is zstd, 1.1x or better is LZ4, below that
// the blob is stored raw.
func Select(data []byte, mediaType string) Tag {
	switch mediaType {
	case "text/markdown", "text/plain", "application/json":
		return Zstd
	}
	if len(data) == 0 {
		return None
	}
	compressed := zstdEncoder.EncodeAll(data, nil)
	ratio := float64(len(data)) / float64(len(compressed))
	switch {
	case ratio >= 1.5:
		return Zstd
	case ratio >= 1.1:
		return LZ4
	default:
		return None
	}
}

// Policy is the configured compression choice: either automatic
// selection or one fixed algorithm.
type Policy struct {
	auto bool
	tag  Tag
}

// Auto selects per blob with [Select].
var Auto = Policy{auto: true}

// Fixed always uses tag, falling back to None for incompressible data.
func Fixed(tag Tag) Policy { return Policy{tag: tag} }

// ParsePolicy parses "auto", "none", "lz4" or "zstd". The empty string
// is "auto".
func ParsePolicy(name string) (Policy, error) {
	if name == "" || name == "auto" {
		return Auto, nil
	}
	tag, err := ParseTag(name)
	if err != nil {
		return Policy{}, err
	}
	return Fixed(tag), nil
}

// String returns the name ParsePolicy accepts.
func (p Policy) String() string {
	if p.auto {
		return "auto"
	}
	return p.tag.String()
}

// Apply compresses data under the policy and returns the stored bytes
// with the tag that must accompany them.
func (p Policy) Apply(data []byte, mediaType string) ([]byte, Tag, error) {
	tag := p.tag
	if p.auto {
		tag = Select(data, mediaType)
	}
	compressed, err := Compress(data, tag)
	if err != nil {
		if IsIncompressible(err) {
			return data, None, nil
		}
		return nil, 0, err
	}
	return compressed, tag, nil
}
