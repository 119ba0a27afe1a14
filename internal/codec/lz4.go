// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// maxLZ4Input mirrors LZ4_MAX_INPUT_SIZE. A var, not a const, so
// tests can shrink it to exercise sub-block chunking cheaply.
var maxLZ4Input int64 = 2113929216

// compressLZ4Chunk compresses with fast (non-HC) block-level LZ4,
// grounded on the teacher's lib/artifactstore/compress.go, which uses
// the same raw block API (no frame headers) for its own container
// format, exactly the shape XISF's "lz4" wire payloads need.
func compressLZ4Chunk(chunk []byte, level int) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(chunk))
	dst := make([]byte, bound)

	n, err := lz4.CompressBlock(chunk, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if n == 0 {
		// CompressBlock returns 0 when the input could not be
		// compressed smaller. The raw chunk is not a valid LZ4 block
		// that UncompressBlock could decode, so this is a hard
		// failure; codec None stores incompressible data as is.
		return nil, fmt.Errorf("lz4 compress: input is incompressible")
	}
	return dst[:n], nil
}

// compressLZ4HCChunk compresses with high-compression block-level
// LZ4. Decoding uses the same lz4.UncompressBlock as fast LZ4, HC
// only changes the encoder, not the block format.
func compressLZ4HCChunk(chunk []byte, level int) ([]byte, error) {
	hc := lz4.CompressorHC{Level: lz4Level(level)}

	bound := lz4.CompressBlockBound(len(chunk))
	dst := make([]byte, bound)

	n, err := hc.CompressBlock(chunk, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4hc compress: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("lz4hc compress: input is incompressible")
	}
	return dst[:n], nil
}

func decompressLZ4Chunk(chunk []byte, expectedSize int64) ([]byte, error) {
	dst := make([]byte, expectedSize)
	n, err := lz4.UncompressBlock(chunk, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return dst[:n], nil
}

// lz4Level maps a XISF-style integer level (DefaultLevel for "library
// default", otherwise an LZ4HC depth 1-9) onto pierrec/lz4's named
// CompressionLevel constants. LZ4HC's own library default is level 9.
func lz4Level(level int) lz4.CompressionLevel {
	switch level {
	case 1:
		return lz4.Level1
	case 2:
		return lz4.Level2
	case 3:
		return lz4.Level3
	case 4:
		return lz4.Level4
	case 5:
		return lz4.Level5
	case 6:
		return lz4.Level6
	case 7:
		return lz4.Level7
	case 8:
		return lz4.Level8
	case 9:
		return lz4.Level9
	default:
		return lz4.Level9
	}
}
