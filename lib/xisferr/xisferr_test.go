// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisferr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsExtractsKindThroughWrapping(t *testing.T) {
	base := New(InvalidValue, "unknown type name %q", "Bogus")
	wrapped := fmt.Errorf("parsing property %q: %w", "Observation:Center:RA", base)

	if !Is(wrapped, InvalidValue) {
		t.Fatal("Is should see through fmt.Errorf wrapping")
	}
	if Is(wrapped, CodecFailure) {
		t.Fatal("Is should not match a different kind")
	}
}

func TestErrorsAsExtractsStruct(t *testing.T) {
	base := Wrap(CodecFailure, errors.New("zlib returned -3"), "decompressing attachment")
	wrapped := fmt.Errorf("reading image 0: %w", base)

	var xerr *Error
	if !errors.As(wrapped, &xerr) {
		t.Fatal("errors.As should extract *Error")
	}
	if xerr.Kind != CodecFailure {
		t.Fatalf("Kind = %v, want %v", xerr.Kind, CodecFailure)
	}
}

func TestIsFalseForPlainError(t *testing.T) {
	if Is(errors.New("plain"), IoError) {
		t.Fatal("Is should return false for an error with no *Error in its chain")
	}
}
