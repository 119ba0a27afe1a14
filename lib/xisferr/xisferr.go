// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

// Package xisferr defines the closed set of error kinds a conformant
// XISF reader/writer surfaces, grounded on the teacher's typed-error
// pattern ([messaging.MatrixError]): a struct carrying the kind plus
// context, extractable with errors.As, with an Is* predicate for
// callers who only care about the kind.
package xisferr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories a caller must be able
// to distinguish.
type Kind string

const (
	// IoError covers a missing or short signature area, short reads,
	// and seek failures.
	IoError Kind = "io"

	// MalformedHeader covers a wrong signature, and headers that are
	// not well-formed XML, are missing the root element, or declare an
	// unsupported version.
	MalformedHeader Kind = "malformed_header"

	// UnsupportedFeature covers codecs not compiled in and image
	// dimensionality other than 2.
	UnsupportedFeature Kind = "unsupported_feature"

	// InvalidReference covers attachment offset/length parse
	// failures and out-of-range locations.
	InvalidReference Kind = "invalid_reference"

	// InvalidValue covers unknown type names, numeric parse
	// failures, and non-positive dimensions.
	InvalidValue Kind = "invalid_value"

	// DuplicateProperty covers addProperty calls with a pre-existing
	// id.
	DuplicateProperty Kind = "duplicate_property"

	// OutOfBounds covers invalid image indices and mismatched matrix
	// dimensions.
	OutOfBounds Kind = "out_of_bounds"

	// CodecFailure covers any non-zero/negative status from a
	// compression codec.
	CodecFailure Kind = "codec_failure"
)

// Error is the single error type this module returns. Every error
// that crosses the package boundary is either an *Error or wraps one
// via fmt.Errorf("...: %w", err), recovery is never automatic, and
// no partial Image is ever handed back alongside an error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xisf: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("xisf: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind, wrapping an underlying
// cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether err is an *Error of the given kind, unwrapping
// as needed.
func Is(err error, kind Kind) bool {
	var xerr *Error
	if errors.As(err, &xerr) {
		return xerr.Kind == kind
	}
	return false
}
