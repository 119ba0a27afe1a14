// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Zstd needs only a single call per the specification (no sub-block
// chunking), its frame format already handles arbitrarily large
// inputs internally.

// zstdDecoder is reused across calls to avoid repeated initialization
// overhead; zstd.Decoder is safe for concurrent use.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("xisf: zstd decoder initialization failed: " + err.Error())
	}
}

// zstdEncoders caches one zstd.Encoder per EncoderLevel, built lazily,
// since a *zstd.Encoder is bound to a single level for its lifetime.
// zstd.Encoder is safe for concurrent use, so a cached instance can be
// shared across callers once built.
var (
	zstdEncodersMu sync.Mutex
	zstdEncoders   = map[zstd.EncoderLevel]*zstd.Encoder{}
)

func zstdEncoderLevel(level int) zstd.EncoderLevel {
	switch {
	case level < 0:
		return zstd.SpeedDefault
	case level <= 1:
		return zstd.SpeedFastest
	case level <= 6:
		return zstd.SpeedDefault
	case level <= 12:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

func zstdEncoderFor(level zstd.EncoderLevel) (*zstd.Encoder, error) {
	zstdEncodersMu.Lock()
	defer zstdEncodersMu.Unlock()

	if enc, ok := zstdEncoders[level]; ok {
		return enc, nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	zstdEncoders[level] = enc
	return enc, nil
}

func compressZstdChunk(input []byte, level int) ([]byte, error) {
	enc, err := zstdEncoderFor(zstdEncoderLevel(level))
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(input, make([]byte, 0, len(input))), nil
}

func decompressZstdChunk(chunk []byte, expectedSize int64) ([]byte, error) {
	out, err := zstdDecoder.DecodeAll(chunk, make([]byte, 0, expectedSize))
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}
