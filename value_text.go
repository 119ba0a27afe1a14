// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joxda/libXISF/lib/xisferr"
)

// timeLayout is the XISF wire form for TimePoint: UTC, second
// precision, "YYYY-MM-DDTHH:MM:SSZ".
const timeLayout = "2006-01-02T15:04:05Z"

// FormatScalar renders v's text form for the scalar/string/time Kinds
// (the ones carried as an XML attribute or inner text rather than a
// DataBlock). Numeric formatting uses strconv, which, like the C
// locale the original format mandates, never varies with the
// process locale.
func (v Value) FormatScalar() (string, error) {
	switch v.kind {
	case KindBoolean:
		if v.boolVal {
			return "1", nil
		}
		return "0", nil
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(v.intVal, 10), nil
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return strconv.FormatUint(v.uintVal, 10), nil
	case KindFloat32:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 32), nil
	case KindFloat64:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 64), nil
	case KindComplex32:
		re, im := real(v.complexVal), imag(v.complexVal)
		return fmt.Sprintf("(%s,%s)",
			strconv.FormatFloat(re, 'g', -1, 32),
			strconv.FormatFloat(im, 'g', -1, 32)), nil
	case KindComplex64:
		re, im := real(v.complexVal), imag(v.complexVal)
		return fmt.Sprintf("(%s,%s)",
			strconv.FormatFloat(re, 'g', -1, 64),
			strconv.FormatFloat(im, 'g', -1, 64)), nil
	case KindString:
		return v.stringVal, nil
	case KindTimePoint:
		return v.timeVal.Format(timeLayout), nil
	case KindMonostate:
		return "", nil
	}
	return "", xisferr.New(xisferr.InvalidValue, "kind %v has no scalar text form", v.kind)
}

// ParseScalar parses text in the wire form for kind. Malformed
// numbers, unparseable complex pairs, and unparseable timestamps
// surface as *xisferr.Error with InvalidValue. Unknown kinds are the
// caller's responsibility to reject before calling ParseScalar (see
// ParseKind), per spec, an unknown type name must abort the current
// property rather than fall back to Monostate.
func ParseScalar(kind Kind, text string) (Value, error) {
	switch kind {
	case KindBoolean:
		switch text {
		case "0":
			return NewBool(false), nil
		case "1":
			return NewBool(true), nil
		}
		return Value{}, xisferr.New(xisferr.InvalidValue, "Boolean value must be 0 or 1, got %q", text)

	case KindInt8, KindInt16, KindInt32, KindInt64:
		bits := kindBitWidth(kind)
		n, err := strconv.ParseInt(text, 10, bits)
		if err != nil {
			return Value{}, xisferr.Wrap(xisferr.InvalidValue, err, "parsing %s value %q", kind, text)
		}
		return scalarFromInt(kind, n), nil

	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		bits := kindBitWidth(kind)
		n, err := strconv.ParseUint(text, 10, bits)
		if err != nil {
			return Value{}, xisferr.Wrap(xisferr.InvalidValue, err, "parsing %s value %q", kind, text)
		}
		return scalarFromUint(kind, n), nil

	case KindFloat32:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return Value{}, xisferr.Wrap(xisferr.InvalidValue, err, "parsing Float32 value %q", text)
		}
		return NewFloat32(float32(f)), nil

	case KindFloat64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, xisferr.Wrap(xisferr.InvalidValue, err, "parsing Float64 value %q", text)
		}
		return NewFloat64(f), nil

	case KindComplex32, KindComplex64:
		re, im, err := parseComplexText(text)
		if err != nil {
			return Value{}, xisferr.Wrap(xisferr.InvalidValue, err, "parsing %s value %q", kind, text)
		}
		if kind == KindComplex32 {
			return NewComplex32(float32(re), float32(im)), nil
		}
		return NewComplex64(re, im), nil

	case KindString:
		return NewString(text), nil

	case KindTimePoint:
		t, err := time.Parse(timeLayout, text)
		if err != nil {
			return Value{}, xisferr.Wrap(xisferr.InvalidValue, err, "parsing TimePoint value %q", text)
		}
		return NewTimePoint(t), nil

	case KindMonostate:
		return Monostate, nil
	}
	return Value{}, xisferr.New(xisferr.InvalidValue, "kind %v has no scalar text form", kind)
}

func kindBitWidth(kind Kind) int {
	switch kind {
	case KindInt8, KindUInt8:
		return 8
	case KindInt16, KindUInt16:
		return 16
	case KindInt32, KindUInt32:
		return 32
	case KindInt64, KindUInt64:
		return 64
	}
	return 64
}

func scalarFromInt(kind Kind, n int64) Value {
	switch kind {
	case KindInt8:
		return NewInt8(int8(n))
	case KindInt16:
		return NewInt16(int16(n))
	case KindInt32:
		return NewInt32(int32(n))
	default:
		return NewInt64(n)
	}
}

func scalarFromUint(kind Kind, n uint64) Value {
	switch kind {
	case KindUInt8:
		return NewUInt8(uint8(n))
	case KindUInt16:
		return NewUInt16(uint16(n))
	case KindUInt32:
		return NewUInt32(uint32(n))
	default:
		return NewUInt64(n)
	}
}

// parseComplexText parses the "(re,im)" wire form.
func parseComplexText(text string) (re, im float64, err error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return 0, 0, fmt.Errorf("complex value %q is not parenthesized", text)
	}
	inner := text[1 : len(text)-1]
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("complex value %q does not have a real,imag pair", text)
	}
	re, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("complex value %q: real part: %w", text, err)
	}
	im, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("complex value %q: imaginary part: %w", text, err)
	}
	return re, im, nil
}
