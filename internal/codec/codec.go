// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is a uniform adapter around the compression codecs a
// DataBlock may be stored under: none, zlib, lz4, lz4hc, and zstd.
// Each codec is treated as a black-box {compress, decompress} pair;
// callers never reach for the underlying library directly.
//
// Inputs that exceed a codec's maximum single-call size are split
// into sub-blocks on compress, and the sub-block list is walked in
// order on decompress. Callers that never produced sub-blocks (single
// implicit chunk) are still handled correctly.
package codec

import (
	"fmt"
)

// Name identifies a compression algorithm, matching the codec names
// used in the XISF "compression" attribute grammar.
type Name string

const (
	None  Name = "none"
	Zlib  Name = "zlib"
	LZ4   Name = "lz4"
	LZ4HC Name = "lz4hc"
	Zstd  Name = "zstd"
)

// ParseName parses a codec name from its wire representation.
// Reports ok=false for an unrecognized name; the caller decides
// whether that is fatal (structural error) or tolerated.
func ParseName(s string) (Name, bool) {
	switch Name(s) {
	case None, Zlib, LZ4, LZ4HC, Zstd:
		return Name(s), true
	default:
		return "", false
	}
}

// DefaultLevel is the sentinel meaning "use the codec's own default
// compression level".
const DefaultLevel = -1

// SubBlock describes one segment of a chunked compressed stream: the
// length of the compressed bytes and the length they decompress to.
type SubBlock struct {
	CompressedLen   int64
	DecompressedLen int64
}

// FailureError wraps an underlying codec error. Any codec failure is
// fatal for the DataBlock being processed, there is no partial
// recovery.
type FailureError struct {
	Codec Name
	Op    string // "compress" or "decompress"
	Err   error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("codec %s: %s: %v", e.Codec, e.Op, e.Err)
}

func (e *FailureError) Unwrap() error { return e.Err }

func fail(name Name, op string, err error) error {
	return &FailureError{Codec: name, Op: op, Err: err}
}

// Compress compresses input with the named codec at the given level
// (codec.DefaultLevel requests the library default). When input
// exceeds the codec's maximum single-call size, it is split into
// sub-blocks and each is compressed independently; the returned
// subBlocks slice is nil when no splitting was needed.
func Compress(name Name, input []byte, level int) (output []byte, subBlocks []SubBlock, err error) {
	switch name {
	case None, "":
		return input, nil, nil
	case Zlib:
		return compressChunked(input, level, maxZlibInput, compressZlibChunk)
	case LZ4:
		return compressChunked(input, level, maxLZ4Input, compressLZ4Chunk)
	case LZ4HC:
		return compressChunked(input, level, maxLZ4Input, compressLZ4HCChunk)
	case Zstd:
		out, err := compressZstdChunk(input, level)
		if err != nil {
			return nil, nil, fail(name, "compress", err)
		}
		return out, nil, nil
	default:
		return nil, nil, fmt.Errorf("codec: unsupported codec %q", name)
	}
}

// compressFunc compresses a single chunk that is within the codec's
// maximum single-call input size.
type compressFunc func(chunk []byte, level int) ([]byte, error)

// compressChunked applies fn to input in slices no larger than
// maxInput, building the sub-block list as it goes. A single chunk
// that fits within maxInput still returns with subBlocks == nil,
// since the DataBlock pipeline only needs an explicit list when more
// than one chunk exists.
func compressChunked(input []byte, level int, maxInput int64, fn compressFunc) ([]byte, []SubBlock, error) {
	if int64(len(input)) <= maxInput {
		out, err := fn(input, level)
		if err != nil {
			return nil, nil, err
		}
		return out, nil, nil
	}

	var output []byte
	var subBlocks []SubBlock
	for offset := 0; offset < len(input); {
		end := offset + int(maxInput)
		if end > len(input) {
			end = len(input)
		}
		chunk := input[offset:end]

		compressed, err := fn(chunk, level)
		if err != nil {
			return nil, nil, err
		}

		output = append(output, compressed...)
		subBlocks = append(subBlocks, SubBlock{
			CompressedLen:   int64(len(compressed)),
			DecompressedLen: int64(len(chunk)),
		})

		offset = end
	}
	return output, subBlocks, nil
}

// Decompress decompresses input with the named codec into a buffer
// of exactly expectedSize bytes. When subBlocks is empty, a single
// implicit entry spanning the whole input is assumed.
func Decompress(name Name, input []byte, expectedSize int64, subBlocks []SubBlock) ([]byte, error) {
	if name == None || name == "" {
		if int64(len(input)) != expectedSize {
			return nil, fmt.Errorf("codec: uncompressed size %d does not match expected %d", len(input), expectedSize)
		}
		return input, nil
	}

	if len(subBlocks) == 0 {
		subBlocks = []SubBlock{{CompressedLen: int64(len(input)), DecompressedLen: expectedSize}}
	}

	var fn decompressFunc
	switch name {
	case Zlib:
		fn = decompressZlibChunk
	case LZ4, LZ4HC:
		fn = decompressLZ4Chunk
	case Zstd:
		fn = decompressZstdChunk
	default:
		return nil, fmt.Errorf("codec: unsupported codec %q", name)
	}

	output := make([]byte, 0, expectedSize)
	var compressedOffset, decompressedOffset int64
	for i, sub := range subBlocks {
		if compressedOffset+sub.CompressedLen > int64(len(input)) {
			return nil, fmt.Errorf("codec: sub-block %d compressed range exceeds input length", i)
		}
		chunk := input[compressedOffset : compressedOffset+sub.CompressedLen]

		decompressed, err := fn(chunk, sub.DecompressedLen)
		if err != nil {
			return nil, fail(name, "decompress", fmt.Errorf("sub-block %d: %w", i, err))
		}
		if int64(len(decompressed)) != sub.DecompressedLen {
			return nil, fail(name, "decompress", fmt.Errorf("sub-block %d: got %d bytes, expected %d", i, len(decompressed), sub.DecompressedLen))
		}

		output = append(output, decompressed...)
		compressedOffset += sub.CompressedLen
		decompressedOffset += sub.DecompressedLen
	}

	if int64(len(output)) != expectedSize {
		return nil, fail(name, "decompress", fmt.Errorf("total decompressed size %d does not match expected %d", len(output), expectedSize))
	}
	return output, nil
}

type decompressFunc func(chunk []byte, expectedSize int64) ([]byte, error)
