// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import (
	"encoding/binary"
	"math"

	"github.com/joxda/libXISF/lib/xisferr"
)

// EncodeElements serializes a vector or matrix Value's payload to its
// raw little-endian wire bytes, the form a DataBlock carries before
// byte-shuffling and compression are applied.
func EncodeElements(v Value) ([]byte, error) {
	switch {
	case v.kind.IsVector():
		return encodeElements(v.kind, v.vectorVal)
	case v.kind.IsMatrix():
		return encodeElements(v.kind, v.matrixVal.Data)
	}
	return nil, xisferr.New(xisferr.InvalidValue, "kind %v has no element encoding", v.kind)
}

func encodeElements(kind Kind, data any) ([]byte, error) {
	switch s := data.(type) {
	case []int8:
		out := make([]byte, len(s))
		for i, x := range s {
			out[i] = byte(x)
		}
		return out, nil
	case []uint8:
		out := make([]byte, len(s))
		copy(out, s)
		return out, nil
	case []int16:
		out := make([]byte, len(s)*2)
		for i, x := range s {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(x))
		}
		return out, nil
	case []uint16:
		out := make([]byte, len(s)*2)
		for i, x := range s {
			binary.LittleEndian.PutUint16(out[i*2:], x)
		}
		return out, nil
	case []int32:
		out := make([]byte, len(s)*4)
		for i, x := range s {
			binary.LittleEndian.PutUint32(out[i*4:], uint32(x))
		}
		return out, nil
	case []uint32:
		out := make([]byte, len(s)*4)
		for i, x := range s {
			binary.LittleEndian.PutUint32(out[i*4:], x)
		}
		return out, nil
	case []int64:
		out := make([]byte, len(s)*8)
		for i, x := range s {
			binary.LittleEndian.PutUint64(out[i*8:], uint64(x))
		}
		return out, nil
	case []uint64:
		out := make([]byte, len(s)*8)
		for i, x := range s {
			binary.LittleEndian.PutUint64(out[i*8:], x)
		}
		return out, nil
	case []float32:
		out := make([]byte, len(s)*4)
		for i, x := range s {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(x))
		}
		return out, nil
	case []float64:
		out := make([]byte, len(s)*8)
		for i, x := range s {
			binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(x))
		}
		return out, nil
	case []complex64:
		out := make([]byte, len(s)*8)
		for i, x := range s {
			binary.LittleEndian.PutUint32(out[i*8:], math.Float32bits(real(x)))
			binary.LittleEndian.PutUint32(out[i*8+4:], math.Float32bits(imag(x)))
		}
		return out, nil
	case []complex128:
		out := make([]byte, len(s)*16)
		for i, x := range s {
			binary.LittleEndian.PutUint64(out[i*16:], math.Float64bits(real(x)))
			binary.LittleEndian.PutUint64(out[i*16+8:], math.Float64bits(imag(x)))
		}
		return out, nil
	}
	return nil, xisferr.New(xisferr.InvalidValue, "kind %v has no element encoding", kind)
}

// DecodeVector parses raw little-endian wire bytes into a vector
// Value of the given kind. data's length must be an exact multiple of
// kind's element size.
func DecodeVector(kind Kind, data []byte) (Value, error) {
	if !kind.IsVector() {
		return Value{}, xisferr.New(xisferr.InvalidValue, "kind %v is not a vector kind", kind)
	}
	size := kind.elementSize()
	if len(data)%size != 0 {
		return Value{}, xisferr.New(xisferr.InvalidValue,
			"%v payload length %d is not a multiple of element size %d", kind, len(data), size)
	}
	decoded, err := decodeElements(kind, data)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: kind, vectorVal: decoded}, nil
}

// DecodeMatrix parses raw little-endian wire bytes into a matrix Value
// of the given kind and shape. data's length must equal
// rows*columns*elementSize.
func DecodeMatrix(kind Kind, rows, columns int, data []byte) (Value, error) {
	if !kind.IsMatrix() {
		return Value{}, xisferr.New(xisferr.InvalidValue, "kind %v is not a matrix kind", kind)
	}
	size := kind.elementSize()
	want := rows * columns * size
	if len(data) != want {
		return Value{}, xisferr.New(xisferr.OutOfBounds,
			"%v %dx%d payload must be %d bytes, got %d", kind, rows, columns, want, len(data))
	}
	decoded, err := decodeElements(kind, data)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: kind, matrixVal: Matrix{Rows: rows, Columns: columns, Data: decoded}}, nil
}

func decodeElements(kind Kind, data []byte) (any, error) {
	base := kind.baseElementKind()
	size := kind.elementSize()
	n := len(data) / size

	switch base {
	case KindInt8:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(data[i])
		}
		return out, nil
	case KindUInt8:
		out := make([]uint8, n)
		copy(out, data)
		return out, nil
	case KindInt16:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
		}
		return out, nil
	case KindUInt16:
		out := make([]uint16, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint16(data[i*2:])
		}
		return out, nil
	case KindInt32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return out, nil
	case KindUInt32:
		out := make([]uint32, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
		return out, nil
	case KindInt64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(data[i*8:]))
		}
		return out, nil
	case KindUInt64:
		out := make([]uint64, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint64(data[i*8:])
		}
		return out, nil
	case KindFloat32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return out, nil
	case KindFloat64:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		}
		return out, nil
	case KindComplex32:
		out := make([]complex64, n)
		for i := range out {
			re := math.Float32frombits(binary.LittleEndian.Uint32(data[i*8:]))
			im := math.Float32frombits(binary.LittleEndian.Uint32(data[i*8+4:]))
			out[i] = complex(re, im)
		}
		return out, nil
	case KindComplex64:
		out := make([]complex128, n)
		for i := range out {
			re := math.Float64frombits(binary.LittleEndian.Uint64(data[i*16:]))
			im := math.Float64frombits(binary.LittleEndian.Uint64(data[i*16+8:]))
			out[i] = complex(re, im)
		}
		return out, nil
	}
	return nil, xisferr.New(xisferr.InvalidValue, "kind %v has no element decoding", kind)
}
