// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

// Kind identifies which of the forty XISF property type variants a
// Value holds. The tag fully determines the active payload; asking
// for the wrong alternative is an error (see Value's accessor
// methods).
type Kind uint8

const (
	KindMonostate Kind = iota
	KindBoolean
	KindInt8
	KindUInt8
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindFloat32
	KindFloat64
	KindComplex32
	KindComplex64
	KindString
	KindTimePoint

	KindI8Vector
	KindUI8Vector
	KindI16Vector
	KindUI16Vector
	KindI32Vector
	KindUI32Vector
	KindI64Vector
	KindUI64Vector
	KindF32Vector
	KindF64Vector
	KindC32Vector
	KindC64Vector

	KindI8Matrix
	KindUI8Matrix
	KindI16Matrix
	KindUI16Matrix
	KindI32Matrix
	KindUI32Matrix
	KindI64Matrix
	KindUI64Matrix
	KindF32Matrix
	KindF64Matrix
	KindC32Matrix
	KindC64Matrix

	kindSentinel // must stay last; used only for bounds-checking
)

// typeNames maps each Kind to its wire type-name string. The original
// C++ implementation this format was distilled from aliases
// F32Matrix onto the string "I8Matrix" and F64Matrix onto "UI8Matrix",
// a source defect. This table intentionally does not reproduce that
// aliasing: F32Matrix and F64Matrix round-trip under their own names.
var typeNames = [kindSentinel]string{
	KindMonostate: "",
	KindBoolean:   "Boolean",
	KindInt8:      "Int8",
	KindUInt8:     "UInt8",
	KindInt16:     "Int16",
	KindUInt16:    "UInt16",
	KindInt32:     "Int32",
	KindUInt32:    "UInt32",
	KindInt64:     "Int64",
	KindUInt64:    "UInt64",
	KindFloat32:   "Float32",
	KindFloat64:   "Float64",
	KindComplex32: "Complex32",
	KindComplex64: "Complex64",
	KindString:    "String",
	KindTimePoint: "TimePoint",

	KindI8Vector:  "I8Vector",
	KindUI8Vector: "UI8Vector",
	KindI16Vector: "I16Vector",
	KindUI16Vector: "UI16Vector",
	KindI32Vector: "I32Vector",
	KindUI32Vector: "UI32Vector",
	KindI64Vector: "I64Vector",
	KindUI64Vector: "UI64Vector",
	KindF32Vector: "F32Vector",
	KindF64Vector: "F64Vector",
	KindC32Vector: "C32Vector",
	KindC64Vector: "C64Vector",

	KindI8Matrix:  "I8Matrix",
	KindUI8Matrix: "UI8Matrix",
	KindI16Matrix: "I16Matrix",
	KindUI16Matrix: "UI16Matrix",
	KindI32Matrix: "I32Matrix",
	KindUI32Matrix: "UI32Matrix",
	KindI64Matrix: "I64Matrix",
	KindUI64Matrix: "UI64Matrix",
	KindF32Matrix: "F32Matrix",
	KindF64Matrix: "F64Matrix",
	KindC32Matrix: "C32Matrix",
	KindC64Matrix: "C64Matrix",
}

var kindByName map[string]Kind

func init() {
	kindByName = make(map[string]Kind, len(typeNames))
	for k, name := range typeNames {
		if name != "" {
			kindByName[name] = Kind(k)
		}
	}
}

// String returns the wire type-name for k, or "" for KindMonostate.
func (k Kind) String() string {
	if int(k) >= len(typeNames) {
		return ""
	}
	return typeNames[k]
}

// ParseKind looks up the Kind for a wire type-name. Unknown names
// MUST abort the current property rather than silently producing
// Monostate, callers check ok and report InvalidValue themselves.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// IsVector reports whether k is one of the twelve dense-vector kinds.
func (k Kind) IsVector() bool {
	return k >= KindI8Vector && k <= KindC64Vector
}

// IsMatrix reports whether k is one of the twelve dense-matrix kinds.
func (k Kind) IsMatrix() bool {
	return k >= KindI8Matrix && k <= KindC64Matrix
}

// IsScalar reports whether k is a plain scalar/string/time variant
// (carried as an XML attribute or inner text, never a DataBlock).
func (k Kind) IsScalar() bool {
	return k <= KindTimePoint
}
