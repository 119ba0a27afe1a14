// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

// Package bytebuffer owns a reference-shared, mutable byte container
// with base-64 and base-16 transport encode/decode.
//
// Buffer mimics value semantics over a shared payload: copies share
// storage until a mutation, which always copies the payload first.
// Callers never observe aliasing, mutating one Buffer never changes
// another Buffer that was copied from it.
package bytebuffer

import (
	"bytes"
	"encoding/base64"
	"fmt"
)

// Buffer is a byte sequence with copy-on-write sharing.
type Buffer struct {
	data *[]byte
}

// New allocates a zero-filled Buffer of the given size.
func New(size int) Buffer {
	b := make([]byte, size)
	return Buffer{data: &b}
}

// FromBytes wraps an existing byte slice. The slice is taken as-is
// (not copied); callers must not mutate it through any other
// reference afterward.
func FromBytes(b []byte) Buffer {
	return Buffer{data: &b}
}

// FromString wraps the bytes of s.
func FromString(s string) Buffer {
	b := []byte(s)
	return Buffer{data: &b}
}

// Len returns the number of bytes in the buffer.
func (b Buffer) Len() int {
	if b.data == nil {
		return 0
	}
	return len(*b.data)
}

// Bytes returns the buffer's contents. The returned slice must be
// treated as read-only; mutate through Set/Resize/Append instead so
// copy-on-write sharing stays correct.
func (b Buffer) Bytes() []byte {
	if b.data == nil {
		return nil
	}
	return *b.data
}

// Clone returns a Buffer that initially shares storage with b. The
// clone is cheap (no copy) and only diverges on the next mutation of
// either value.
func (b Buffer) Clone() Buffer {
	return b
}

// At returns the byte at index i.
func (b Buffer) At(i int) byte {
	return (*b.data)[i]
}

// Set writes value at index i, copying the backing array first if it
// is shared with another Buffer.
func (b *Buffer) Set(i int, value byte) {
	b.detach()
	(*b.data)[i] = value
}

// Resize grows or shrinks the buffer to n bytes, zero-filling any new
// tail. Copies the backing array first if shared.
func (b *Buffer) Resize(n int) {
	if b.data == nil {
		buf := make([]byte, n)
		b.data = &buf
		return
	}
	b.detach()
	old := *b.data
	if n <= len(old) {
		resized := old[:n]
		b.data = &resized
		return
	}
	resized := make([]byte, n)
	copy(resized, old)
	b.data = &resized
}

// Append appends a byte, copying the backing array first if shared.
func (b *Buffer) Append(value byte) {
	b.detach()
	*b.data = append(*b.data, value)
}

// detach ensures this Buffer's backing array is not shared with any
// other Buffer value by copying it into a fresh allocation. Since
// Buffer has no refcount of its own (Go slices already carry a
// backing-array identity), detach always copies, the cost of a
// conservative copy-on-write is paid on every mutating call, which
// matches the external value-semantics contract without requiring
// atomic refcounting.
func (b *Buffer) detach() {
	if b.data == nil {
		empty := []byte{}
		b.data = &empty
		return
	}
	copied := make([]byte, len(*b.data))
	copy(copied, *b.data)
	b.data = &copied
}

// base64Encoding is the standard (non-URL) base64 alphabet used by
// XISF inline data.
var base64Encoding = base64.StdEncoding

// EncodeBase64 encodes b's contents as standard base64, padded with
// '=' to a multiple of 4 characters.
func (b Buffer) EncodeBase64() string {
	if b.Len() == 0 {
		return ""
	}
	return base64Encoding.EncodeToString(b.Bytes())
}

// DecodeBase64 decodes standard base64 text into a new Buffer.
// Whitespace and any byte outside the base64 alphabet is ignored.
// Padding is not required: a trailing group of 2 or 3 characters
// decodes to 1 or 2 bytes respectively.
func DecodeBase64(text string) (Buffer, error) {
	filtered := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if isBase64Char(c) {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return Buffer{}, nil
	}

	// Decode in groups of 4, handling a final partial group of 2 or 3
	// characters without requiring '=' padding.
	var out bytes.Buffer
	out.Grow(len(filtered) / 4 * 3)

	full := len(filtered) / 4 * 4
	if full > 0 {
		decoded := make([]byte, base64Encoding.DecodedLen(full))
		n, err := base64Encoding.Decode(decoded, filtered[:full])
		if err != nil {
			return Buffer{}, fmt.Errorf("bytebuffer: base64 decode: %w", err)
		}
		out.Write(decoded[:n])
	}

	tail := filtered[full:]
	switch len(tail) {
	case 0:
		// nothing left
	case 2, 3:
		padded := make([]byte, 4)
		copy(padded, tail)
		for i := len(tail); i < 4; i++ {
			padded[i] = '='
		}
		decoded := make([]byte, 3)
		n, err := base64Encoding.Decode(decoded, padded)
		if err != nil {
			return Buffer{}, fmt.Errorf("bytebuffer: base64 decode trailing group: %w", err)
		}
		out.Write(decoded[:n])
	default:
		return Buffer{}, fmt.Errorf("bytebuffer: base64 decode: dangling single character")
	}

	decodedBytes := out.Bytes()
	return FromBytes(decodedBytes), nil
}

func isBase64Char(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '+' || c == '/':
		return true
	}
	return false
}

const hexDigits = "0123456789abcdef"

// EncodeHex encodes b's contents as lowercase base-16.
func (b Buffer) EncodeHex() string {
	if b.Len() == 0 {
		return ""
	}
	src := b.Bytes()
	out := make([]byte, len(src)*2)
	for i, v := range src {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0f]
	}
	return string(out)
}

// DecodeHex decodes case-insensitive base-16 text into a new Buffer.
// An odd trailing nibble (dangling final hex digit) is truncated.
func DecodeHex(text string) (Buffer, error) {
	n := len(text) / 2
	if n == 0 {
		return Buffer{}, nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		hi, ok := hexNibble(text[i*2])
		if !ok {
			return Buffer{}, fmt.Errorf("bytebuffer: invalid hex digit %q at position %d", text[i*2], i*2)
		}
		lo, ok := hexNibble(text[i*2+1])
		if !ok {
			return Buffer{}, fmt.Errorf("bytebuffer: invalid hex digit %q at position %d", text[i*2+1], i*2+1)
		}
		out[i] = hi<<4 | lo
	}
	return FromBytes(out), nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
