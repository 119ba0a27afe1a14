// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package bytebuffer

import (
	"bytes"
	"testing"
)

func TestCloneIsValueSemantics(t *testing.T) {
	a := FromBytes([]byte{1, 2, 3})
	b := a.Clone()

	b.Set(0, 99)

	if a.At(0) == 99 {
		t.Fatal("mutating the clone must not affect the original")
	}
	if b.At(0) != 99 {
		t.Fatal("mutation did not apply to the clone")
	}
}

func TestResizeGrowZeroFills(t *testing.T) {
	b := FromBytes([]byte{1, 2, 3})
	b.Resize(5)

	if b.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", b.Len())
	}
	if b.At(3) != 0 || b.At(4) != 0 {
		t.Fatal("grown tail should be zero-filled")
	}
	if b.At(0) != 1 || b.At(1) != 2 || b.At(2) != 3 {
		t.Fatal("existing bytes should be preserved")
	}
}

func TestResizeShrink(t *testing.T) {
	b := FromBytes([]byte{1, 2, 3, 4, 5})
	b.Resize(2)
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
}

func TestAppend(t *testing.T) {
	b := New(0)
	for i := byte(0); i < 5; i++ {
		b.Append(i)
	}
	if !bytes.Equal(b.Bytes(), []byte{0, 1, 2, 3, 4}) {
		t.Fatalf("unexpected contents: %v", b.Bytes())
	}
}

func TestBase64RoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0x00},
		{0xff, 0xfe},
		[]byte("Hello XISF"),
		bytes.Repeat([]byte{0xAB, 0xCD, 0xEF}, 100),
	}

	for _, input := range cases {
		buf := FromBytes(input)
		encoded := buf.EncodeBase64()

		if len(encoded)%4 != 0 {
			t.Errorf("encoded length %d is not a multiple of 4 for input len %d", len(encoded), len(input))
		}

		decoded, err := DecodeBase64(encoded)
		if err != nil {
			t.Fatalf("DecodeBase64(%q) failed: %v", encoded, err)
		}
		if !bytes.Equal(decoded.Bytes(), input) {
			t.Errorf("roundtrip mismatch: got %v, want %v", decoded.Bytes(), input)
		}
	}
}

func TestBase64DecodeIgnoresNonAlphabetBytes(t *testing.T) {
	// "SGVsbG8=" is "Hello". Inject whitespace and garbage.
	decoded, err := DecodeBase64("SGVs\n bG8=\t!!!")
	if err != nil {
		t.Fatalf("DecodeBase64 failed: %v", err)
	}
	if string(decoded.Bytes()) != "Hello" {
		t.Fatalf("got %q, want %q", decoded.Bytes(), "Hello")
	}
}

func TestBase64DecodeTolerantOfMissingPadding(t *testing.T) {
	// "Hello" base64-encodes to "SGVsbG8=" (one pad char). Supplying it
	// without the trailing '=' must still decode correctly.
	decoded, err := DecodeBase64("SGVsbG8")
	if err != nil {
		t.Fatalf("DecodeBase64 without padding failed: %v", err)
	}
	if string(decoded.Bytes()) != "Hello" {
		t.Fatalf("got %q, want %q", decoded.Bytes(), "Hello")
	}
}

func TestHexRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0x00, 0xff},
		[]byte("Hello XISF"),
	}

	for _, input := range cases {
		buf := FromBytes(input)
		encoded := buf.EncodeHex()

		if len(encoded) != 2*len(input) {
			t.Errorf("encoded length %d, want %d", len(encoded), 2*len(input))
		}

		decoded, err := DecodeHex(encoded)
		if err != nil {
			t.Fatalf("DecodeHex(%q) failed: %v", encoded, err)
		}
		if !bytes.Equal(decoded.Bytes(), input) {
			t.Errorf("roundtrip mismatch: got %v, want %v", decoded.Bytes(), input)
		}
	}
}

func TestHexDecodeCaseInsensitive(t *testing.T) {
	lower, err := DecodeHex("deadbeef")
	if err != nil {
		t.Fatal(err)
	}
	upper, err := DecodeHex("DEADBEEF")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(lower.Bytes(), upper.Bytes()) {
		t.Fatal("hex decode should be case-insensitive")
	}
}

func TestHexDecodeTruncatesDanglingNibble(t *testing.T) {
	decoded, err := DecodeHex("abc")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded.Bytes(), []byte{0xab}) {
		t.Fatalf("got %v, want [0xab]", decoded.Bytes())
	}
}

func TestHexDecodeInvalidDigit(t *testing.T) {
	if _, err := DecodeHex("zz"); err == nil {
		t.Fatal("expected error for invalid hex digit")
	}
}

func TestEmptyInputsDoNotAllocateMeaningfully(t *testing.T) {
	b := FromBytes(nil)
	if b.EncodeBase64() != "" {
		t.Fatal("empty buffer should encode to empty string")
	}
	if b.EncodeHex() != "" {
		t.Fatal("empty buffer should encode to empty string")
	}
}
