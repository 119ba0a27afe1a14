// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import (
	"fmt"
	"time"
)

// Value is a closed tagged union over the forty XISF property types.
// Dispatch is a single switch on Kind, never an open type hierarchy;
// see the design note this mirrors in DESIGN.md.
type Value struct {
	kind Kind

	boolVal    bool
	intVal     int64
	uintVal    uint64
	floatVal   float64
	complexVal complex128
	stringVal  string
	timeVal    time.Time

	vectorVal any // one of []int8 .. []complex128, matching kind's element type
	matrixVal Matrix
}

// Matrix is a row-major dense matrix payload.
type Matrix struct {
	Rows, Columns int
	Data          any // one of []int8 .. []complex128
}

// Kind returns the active variant.
func (v Value) Kind() Kind { return v.kind }

// Monostate is the empty/absent value.
var Monostate = Value{kind: KindMonostate}

// --- scalar constructors ---

func NewBool(b bool) Value { return Value{kind: KindBoolean, boolVal: b} }

func NewInt8(n int8) Value   { return Value{kind: KindInt8, intVal: int64(n)} }
func NewInt16(n int16) Value { return Value{kind: KindInt16, intVal: int64(n)} }
func NewInt32(n int32) Value { return Value{kind: KindInt32, intVal: int64(n)} }
func NewInt64(n int64) Value { return Value{kind: KindInt64, intVal: n} }

func NewUInt8(n uint8) Value   { return Value{kind: KindUInt8, uintVal: uint64(n)} }
func NewUInt16(n uint16) Value { return Value{kind: KindUInt16, uintVal: uint64(n)} }
func NewUInt32(n uint32) Value { return Value{kind: KindUInt32, uintVal: uint64(n)} }
func NewUInt64(n uint64) Value { return Value{kind: KindUInt64, uintVal: n} }

func NewFloat32(f float32) Value { return Value{kind: KindFloat32, floatVal: float64(f)} }
func NewFloat64(f float64) Value { return Value{kind: KindFloat64, floatVal: f} }

func NewComplex32(re, im float32) Value {
	return Value{kind: KindComplex32, complexVal: complex(float64(re), float64(im))}
}
func NewComplex64(re, im float64) Value {
	return Value{kind: KindComplex64, complexVal: complex(re, im)}
}

func NewString(s string) Value { return Value{kind: KindString, stringVal: s} }

// NewTimePoint wraps t, truncated to second precision in UTC, the
// wire form has no sub-second component.
func NewTimePoint(t time.Time) Value {
	return Value{kind: KindTimePoint, timeVal: t.UTC().Truncate(time.Second)}
}

// --- scalar accessors ---
//
// Each accessor reports ok=false if v is not the matching Kind,
// rather than panicking: reading the wrong alternative is an error
// condition the caller (typically the XML writer choosing how to
// format a property) must be able to detect cheaply.

func (v Value) Bool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.boolVal, true
}

func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return v.intVal, true
	}
	return 0, false
}

func (v Value) UInt() (uint64, bool) {
	switch v.kind {
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return v.uintVal, true
	}
	return 0, false
}

func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return v.floatVal, true
	}
	return 0, false
}

func (v Value) Complex() (complex128, bool) {
	switch v.kind {
	case KindComplex32, KindComplex64:
		return v.complexVal, true
	}
	return 0, false
}

func (v Value) String2() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.stringVal, true
}

func (v Value) TimePoint() (time.Time, bool) {
	if v.kind != KindTimePoint {
		return time.Time{}, false
	}
	return v.timeVal, true
}

// --- vector constructors ---

func NewI8Vector(v []int8) Value    { return Value{kind: KindI8Vector, vectorVal: cloneSlice(v)} }
func NewUI8Vector(v []uint8) Value  { return Value{kind: KindUI8Vector, vectorVal: cloneSlice(v)} }
func NewI16Vector(v []int16) Value  { return Value{kind: KindI16Vector, vectorVal: cloneSlice(v)} }
func NewUI16Vector(v []uint16) Value {
	return Value{kind: KindUI16Vector, vectorVal: cloneSlice(v)}
}
func NewI32Vector(v []int32) Value { return Value{kind: KindI32Vector, vectorVal: cloneSlice(v)} }
func NewUI32Vector(v []uint32) Value {
	return Value{kind: KindUI32Vector, vectorVal: cloneSlice(v)}
}
func NewI64Vector(v []int64) Value { return Value{kind: KindI64Vector, vectorVal: cloneSlice(v)} }
func NewUI64Vector(v []uint64) Value {
	return Value{kind: KindUI64Vector, vectorVal: cloneSlice(v)}
}
func NewF32Vector(v []float32) Value {
	return Value{kind: KindF32Vector, vectorVal: cloneSlice(v)}
}
func NewF64Vector(v []float64) Value {
	return Value{kind: KindF64Vector, vectorVal: cloneSlice(v)}
}
func NewC32Vector(v []complex64) Value {
	return Value{kind: KindC32Vector, vectorVal: cloneSlice(v)}
}
func NewC64Vector(v []complex128) Value {
	return Value{kind: KindC64Vector, vectorVal: cloneSlice(v)}
}

func cloneSlice[T any](v []T) []T {
	if v == nil {
		return nil
	}
	out := make([]T, len(v))
	copy(out, v)
	return out
}

// Vector returns the vector payload as `any`; the caller type-asserts
// to the slice type matching v.Kind() (e.g. []uint16 for
// KindUI16Vector). Returns ok=false if v is not a vector kind.
func (v Value) Vector() (any, bool) {
	if !v.kind.IsVector() {
		return nil, false
	}
	return v.vectorVal, true
}

// VectorLen returns the element count of a vector Value, or -1 if v
// is not a vector kind.
func (v Value) VectorLen() int {
	n, ok := vectorLen(v.vectorVal)
	if !v.kind.IsVector() || !ok {
		return -1
	}
	return n
}

func vectorLen(data any) (int, bool) {
	switch s := data.(type) {
	case []int8:
		return len(s), true
	case []uint8:
		return len(s), true
	case []int16:
		return len(s), true
	case []uint16:
		return len(s), true
	case []int32:
		return len(s), true
	case []uint32:
		return len(s), true
	case []int64:
		return len(s), true
	case []uint64:
		return len(s), true
	case []float32:
		return len(s), true
	case []float64:
		return len(s), true
	case []complex64:
		return len(s), true
	case []complex128:
		return len(s), true
	}
	return 0, false
}

// --- matrix constructors ---

func NewI8Matrix(rows, cols int, data []int8) Value {
	return Value{kind: KindI8Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}
func NewUI8Matrix(rows, cols int, data []uint8) Value {
	return Value{kind: KindUI8Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}
func NewI16Matrix(rows, cols int, data []int16) Value {
	return Value{kind: KindI16Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}
func NewUI16Matrix(rows, cols int, data []uint16) Value {
	return Value{kind: KindUI16Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}
func NewI32Matrix(rows, cols int, data []int32) Value {
	return Value{kind: KindI32Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}
func NewUI32Matrix(rows, cols int, data []uint32) Value {
	return Value{kind: KindUI32Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}
func NewI64Matrix(rows, cols int, data []int64) Value {
	return Value{kind: KindI64Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}
func NewUI64Matrix(rows, cols int, data []uint64) Value {
	return Value{kind: KindUI64Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}
func NewF32Matrix(rows, cols int, data []float32) Value {
	return Value{kind: KindF32Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}
func NewF64Matrix(rows, cols int, data []float64) Value {
	return Value{kind: KindF64Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}
func NewC32Matrix(rows, cols int, data []complex64) Value {
	return Value{kind: KindC32Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}
func NewC64Matrix(rows, cols int, data []complex128) Value {
	return Value{kind: KindC64Matrix, matrixVal: Matrix{rows, cols, cloneSlice(data)}}
}

// MatrixValue returns the matrix payload. Returns ok=false if v is
// not a matrix kind.
func (v Value) MatrixValue() (Matrix, bool) {
	if !v.kind.IsMatrix() {
		return Matrix{}, false
	}
	return v.matrixVal, true
}

// elementSize returns the size in bytes of one element of the vector
// or matrix kind k. Panics for non-vector/matrix kinds, callers only
// invoke this after checking IsVector()/IsMatrix().
func (k Kind) elementSize() int {
	switch k {
	case KindI8Vector, KindUI8Vector, KindI8Matrix, KindUI8Matrix:
		return 1
	case KindI16Vector, KindUI16Vector, KindI16Matrix, KindUI16Matrix:
		return 2
	case KindI32Vector, KindUI32Vector, KindI32Matrix, KindUI32Matrix,
		KindF32Vector, KindF32Matrix:
		return 4
	case KindI64Vector, KindUI64Vector, KindI64Matrix, KindUI64Matrix,
		KindF64Vector, KindF64Matrix, KindC32Vector, KindC32Matrix:
		return 8
	case KindC64Vector, KindC64Matrix:
		return 16
	}
	panic(fmt.Sprintf("xisf: elementSize called on non-vector/matrix kind %v", k))
}

// baseElementKind returns the scalar Kind corresponding to a
// vector/matrix kind's element type (e.g. KindUI16Vector -> KindUInt16).
func (k Kind) baseElementKind() Kind {
	switch {
	case k.IsVector():
		return Kind(int(k) - int(KindI8Vector) + int(KindInt8))
	case k.IsMatrix():
		return Kind(int(k) - int(KindI8Matrix) + int(KindInt8))
	}
	return KindMonostate
}
