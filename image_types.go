// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

// SampleFormat names the pixel sample storage type.
type SampleFormat int

const (
	UInt8 SampleFormat = iota
	UInt16
	UInt32
	UInt64
	Float32Format
	Float64Format
	Complex32Format
	Complex64Format
)

var sampleFormatNames = map[SampleFormat]string{
	UInt8:            "UInt8",
	UInt16:           "UInt16",
	UInt32:           "UInt32",
	UInt64:           "UInt64",
	Float32Format:    "Float32",
	Float64Format:    "Float64",
	Complex32Format:  "Complex32",
	Complex64Format:  "Complex64",
}

func (f SampleFormat) String() string {
	if s, ok := sampleFormatNames[f]; ok {
		return s
	}
	return "UInt16"
}

// ParseSampleFormat looks up a SampleFormat by name, falling back to
// the default (UInt16) for unknown tokens, per the reader's
// tolerant-enum-fallback rule.
func ParseSampleFormat(name string) SampleFormat {
	for f, s := range sampleFormatNames {
		if s == name {
			return f
		}
	}
	return UInt16
}

// SampleSize returns the size in bytes of one sample of format f.
func (f SampleFormat) SampleSize() int {
	switch f {
	case UInt8:
		return 1
	case UInt16:
		return 2
	case UInt32, Float32Format:
		return 4
	case UInt64, Float64Format, Complex32Format:
		return 8
	case Complex64Format:
		return 16
	}
	return 2
}

// IsFloat reports whether f stores floating-point or complex samples
// the sample formats for which a non-default bounds pair may be
// serialized.
func (f SampleFormat) IsFloat() bool {
	switch f {
	case Float32Format, Float64Format, Complex32Format, Complex64Format:
		return true
	}
	return false
}

// ColorSpace names an image's color interpretation.
type ColorSpace int

const (
	Gray ColorSpace = iota
	RGB
	CIELab
)

var colorSpaceNames = map[ColorSpace]string{
	Gray:   "Gray",
	RGB:    "RGB",
	CIELab: "CIELab",
}

func (c ColorSpace) String() string {
	if s, ok := colorSpaceNames[c]; ok {
		return s
	}
	return "Gray"
}

// ParseColorSpace falls back to Gray for unknown tokens.
func ParseColorSpace(name string) ColorSpace {
	for c, s := range colorSpaceNames {
		if s == name {
			return c
		}
	}
	return Gray
}

// PixelStorage names how multi-channel samples are interleaved.
type PixelStorage int

const (
	Planar PixelStorage = iota
	Normal
)

func (p PixelStorage) String() string {
	if p == Normal {
		return "Normal"
	}
	return "Planar"
}

// ParsePixelStorage falls back to Planar for unknown tokens.
func ParsePixelStorage(name string) PixelStorage {
	if name == "Normal" {
		return Normal
	}
	return Planar
}

// ImageType names an image's role within an acquisition/calibration
// workflow.
type ImageType int

const (
	Light ImageType = iota
	Bias
	Dark
	Flat
	MasterBias
	MasterDark
	MasterFlat
	DefectMap
	RejectionMapHigh
	RejectionMapLow
	BinaryRejectionMapHigh
	BinaryRejectionMapLow
	SlopeMap
	WeightMap
)

var imageTypeNames = map[ImageType]string{
	Light:                  "Light",
	Bias:                   "Bias",
	Dark:                   "Dark",
	Flat:                   "Flat",
	MasterBias:             "MasterBias",
	MasterDark:             "MasterDark",
	MasterFlat:             "MasterFlat",
	DefectMap:              "DefectMap",
	RejectionMapHigh:       "RejectionMapHigh",
	RejectionMapLow:        "RejectionMapLow",
	BinaryRejectionMapHigh: "BinaryRejectionMapHigh",
	BinaryRejectionMapLow:  "BinaryRejectionMapLow",
	SlopeMap:               "SlopeMap",
	WeightMap:              "WeightMap",
}

func (t ImageType) String() string {
	if s, ok := imageTypeNames[t]; ok {
		return s
	}
	return "Light"
}

// ParseImageType falls back to Light for unknown tokens.
func ParseImageType(name string) ImageType {
	for t, s := range imageTypeNames {
		if s == name {
			return t
		}
	}
	return Light
}

// Bounds is the nominal floating-point pixel value range, serialized
// only when non-default for float sample formats.
type Bounds struct {
	Lo, Hi float64
}

// DefaultBounds is the (0.0, 1.0) range assumed when no "bounds"
// attribute is present.
var DefaultBounds = Bounds{Lo: 0, Hi: 1}

// IsDefault reports whether b is the (0.0, 1.0) default.
func (b Bounds) IsDefault() bool { return b == DefaultBounds }
