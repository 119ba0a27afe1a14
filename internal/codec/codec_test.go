// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"fmt"
	"testing"
)

func compressibleData(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % 17)
	}
	return out
}

func TestRoundTripAllCodecs(t *testing.T) {
	codecs := []Name{None, Zlib, LZ4, LZ4HC, Zstd}
	sizes := []int{0, 1, 65, 4096, 1 << 20}

	for _, c := range codecs {
		for _, size := range sizes {
			t.Run(fmt.Sprintf("%s/size=%d", c, size), func(t *testing.T) {
				data := compressibleData(size)

				compressed, subBlocks, err := Compress(c, data, DefaultLevel)
				if err != nil {
					t.Fatalf("Compress failed: %v", err)
				}

				decompressed, err := Decompress(c, compressed, int64(size), subBlocks)
				if err != nil {
					t.Fatalf("Decompress failed: %v", err)
				}

				if !bytes.Equal(decompressed, data) {
					t.Fatalf("roundtrip mismatch for codec=%s size=%d", c, size)
				}
			})
		}
	}
}

func TestZlibForcesSubBlockChunking(t *testing.T) {
	// Temporarily shrink the chunking threshold so we can exercise
	// sub-block splitting without allocating gigabytes.
	original := maxZlibInput
	maxZlibInput = 1024
	defer func() { maxZlibInput = original }()

	data := compressibleData(5000)
	compressed, subBlocks, err := Compress(Zlib, data, DefaultLevel)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if len(subBlocks) < 2 {
		t.Fatalf("expected multiple sub-blocks, got %d", len(subBlocks))
	}

	var totalDecompressed int64
	for _, sub := range subBlocks {
		totalDecompressed += sub.DecompressedLen
	}
	if totalDecompressed != int64(len(data)) {
		t.Fatalf("sub-block decompressed lengths sum to %d, want %d", totalDecompressed, len(data))
	}

	decompressed, err := Decompress(Zlib, compressed, int64(len(data)), subBlocks)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("chunked zlib roundtrip mismatch")
	}
}

func TestLZ4ForcesSubBlockChunking(t *testing.T) {
	original := maxLZ4Input
	maxLZ4Input = 1024
	defer func() { maxLZ4Input = original }()

	data := compressibleData(5000)
	compressed, subBlocks, err := Compress(LZ4, data, DefaultLevel)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if len(subBlocks) < 2 {
		t.Fatalf("expected multiple sub-blocks, got %d", len(subBlocks))
	}

	decompressed, err := Decompress(LZ4, compressed, int64(len(data)), subBlocks)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("chunked lz4 roundtrip mismatch")
	}
}

func TestDecompressWithoutSubBlocksAssumesSingleChunk(t *testing.T) {
	data := compressibleData(4096)
	compressed, subBlocks, err := Compress(Zlib, data, DefaultLevel)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if subBlocks != nil {
		t.Fatalf("expected no sub-blocks for data within the single-call limit")
	}

	decompressed, err := Decompress(Zlib, compressed, int64(len(data)), nil)
	if err != nil {
		t.Fatalf("Decompress without sub-block list failed: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("roundtrip mismatch")
	}
}

func TestNoneCodecIsIdentity(t *testing.T) {
	data := []byte("uncompressed payload")
	compressed, subBlocks, err := Compress(None, data, DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}
	if subBlocks != nil {
		t.Fatal("none codec should never produce sub-blocks")
	}
	if &compressed[0] != &data[0] {
		t.Error("none codec should return the input slice unchanged, not a copy")
	}

	decompressed, err := Decompress(None, compressed, int64(len(data)), nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(decompressed) != string(data) {
		t.Fatal("none codec roundtrip failed")
	}
}

func TestNoneCodecSizeMismatchIsError(t *testing.T) {
	_, err := Decompress(None, []byte("short"), 100, nil)
	if err == nil {
		t.Fatal("expected error for size mismatch")
	}
}

func TestUnsupportedCodecNameIsError(t *testing.T) {
	if _, _, err := Compress(Name("bzip2"), []byte("x"), DefaultLevel); err == nil {
		t.Fatal("expected error for unsupported codec")
	}
	if _, err := Decompress(Name("bzip2"), []byte("x"), 1, nil); err == nil {
		t.Fatal("expected error for unsupported codec")
	}
}

func TestParseName(t *testing.T) {
	for _, name := range []string{"none", "zlib", "lz4", "lz4hc", "zstd"} {
		if _, ok := ParseName(name); !ok {
			t.Errorf("ParseName(%q) should succeed", name)
		}
	}
	if _, ok := ParseName("gzip"); ok {
		t.Error("ParseName(\"gzip\") should fail")
	}
}
