// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeVectorRoundTrip(t *testing.T) {
	cases := []Value{
		NewI8Vector([]int8{-1, 0, 1, 127, -128}),
		NewUI8Vector([]uint8{0, 255, 17}),
		NewI16Vector([]int16{-32768, 0, 32767}),
		NewUI16Vector([]uint16{0, 65535, 256}),
		NewI32Vector([]int32{-1, 1 << 20}),
		NewUI32Vector([]uint32{0, 1 << 31}),
		NewI64Vector([]int64{-1, 1 << 40}),
		NewUI64Vector([]uint64{0, 1 << 63}),
		NewF32Vector([]float32{1.5, -2.25, 0}),
		NewF64Vector([]float64{1.5, -2.25, 0}),
		NewC32Vector([]complex64{complex(1, -1), complex(0, 2)}),
		NewC64Vector([]complex128{complex(1, -1), complex(0, 2)}),
	}
	for _, v := range cases {
		raw, err := EncodeElements(v)
		if err != nil {
			t.Errorf("EncodeElements(%v): %v", v.Kind(), err)
			continue
		}
		wantLen := v.VectorLen() * v.Kind().elementSize()
		if len(raw) != wantLen {
			t.Errorf("%v: encoded length %d, want %d", v.Kind(), len(raw), wantLen)
		}
		decoded, err := DecodeVector(v.Kind(), raw)
		if err != nil {
			t.Errorf("DecodeVector(%v): %v", v.Kind(), err)
			continue
		}
		got, _ := decoded.Vector()
		want, _ := v.Vector()
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%v round trip mismatch: got %v, want %v", v.Kind(), got, want)
		}
	}
}

func TestEncodeDecodeMatrixRoundTrip(t *testing.T) {
	v := NewUI16Matrix(2, 3, []uint16{1, 2, 3, 4, 5, 6})
	raw, err := EncodeElements(v)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 2*3*2 {
		t.Fatalf("encoded length = %d, want %d", len(raw), 12)
	}
	decoded, err := DecodeMatrix(KindUI16Matrix, 2, 3, raw)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := decoded.MatrixValue()
	if !ok || m.Rows != 2 || m.Columns != 3 {
		t.Fatalf("MatrixValue() = %+v, %v", m, ok)
	}
	data, ok := m.Data.([]uint16)
	if !ok || !reflect.DeepEqual(data, []uint16{1, 2, 3, 4, 5, 6}) {
		t.Errorf("Data = %v", m.Data)
	}
}

func TestDecodeVectorRejectsMisalignedLength(t *testing.T) {
	if _, err := DecodeVector(KindUI16Vector, []byte{1, 2, 3}); err == nil {
		t.Error("DecodeVector should reject a length that is not a multiple of the element size")
	}
}

func TestDecodeMatrixRejectsWrongLength(t *testing.T) {
	if _, err := DecodeMatrix(KindUI16Matrix, 2, 3, []byte{1, 2, 3, 4}); err == nil {
		t.Error("DecodeMatrix should reject a payload that doesn't match rows*columns*elementSize")
	}
}

func TestEncodeElementsOnScalarIsError(t *testing.T) {
	if _, err := EncodeElements(NewInt32(5)); err == nil {
		t.Error("EncodeElements on a scalar Value should fail")
	}
}
