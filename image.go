// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import (
	"github.com/joxda/libXISF/lib/xisferr"
)

// Property is a named, typed metadata value attached to a file or an
// Image. id is an XISF-style colon-separated path, e.g.
// "Observation:Center:RA".
type Property struct {
	ID      string
	Value   Value
	Comment string
}

// FITSKeyword is a legacy astronomical metadata triple carried
// alongside an Image's Property table, never deduplicated.
type FITSKeyword struct {
	Name    string
	Value   string
	Comment string
}

// ColorFilterArray describes the Bayer-like sensor mosaic pattern
// covering an Image, if any.
type ColorFilterArray struct {
	Width, Height int
	Pattern       string // alphabet {0,R,G,B,W,C,M,Y}
}

// Image is a single XISF image: geometry, sample format, color space
// and pixel storage, an ordered Property table with unique ids, an
// ordered (non-deduplicated) FITSKeyword list, an optional color
// filter array and ICC profile, and the pixel payload.
type Image struct {
	width, height, channels int
	sampleFormat             SampleFormat
	colorSpace               ColorSpace
	pixelStorage             PixelStorage
	bounds                   Bounds
	imageType                ImageType

	iccProfile []byte
	cfa        *ColorFilterArray

	properties    []Property
	propertyIndex map[string]int

	fitsKeywords []FITSKeyword

	pixels *DataBlock
}

// NewImage builds an Image with the given geometry and format, a
// Gray color space, Planar storage, and a zero-filled pixel buffer.
// width, height, and channels must all be positive.
func NewImage(width, height, channels int, format SampleFormat) (*Image, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, xisferr.New(xisferr.InvalidValue, "image geometry %dx%dx%d must be all positive", width, height, channels)
	}
	img := &Image{
		width:         width,
		height:        height,
		channels:      channels,
		sampleFormat:  format,
		colorSpace:    Gray,
		pixelStorage:  Planar,
		bounds:        DefaultBounds,
		imageType:     Light,
		propertyIndex: make(map[string]int),
		pixels:        &DataBlock{},
	}
	img.pixels.SetBytes(make([]byte, img.pixelByteSize()))
	return img, nil
}

func (img *Image) pixelByteSize() int {
	return img.width * img.height * img.channels * img.sampleFormat.SampleSize()
}

// Width, Height, Channels report the image geometry.
func (img *Image) Width() int    { return img.width }
func (img *Image) Height() int   { return img.height }
func (img *Image) Channels() int { return img.channels }

// SampleFormat, ColorSpace, PixelStorage, ImageType, Bounds report
// the corresponding image attributes.
func (img *Image) SampleFormat() SampleFormat { return img.sampleFormat }
func (img *Image) ColorSpace() ColorSpace     { return img.colorSpace }
func (img *Image) PixelStorage() PixelStorage { return img.pixelStorage }
func (img *Image) ImageType() ImageType       { return img.imageType }
func (img *Image) Bounds() Bounds             { return img.bounds }

// SetColorSpace, SetImageType, SetBounds set attributes with no
// rescale side effect.
func (img *Image) SetColorSpace(cs ColorSpace)   { img.colorSpace = cs }
func (img *Image) SetImageType(t ImageType)      { img.imageType = t }
func (img *Image) SetBounds(b Bounds)            { img.bounds = b }

// Pixels returns the DataBlock carrying the image's raw pixel bytes,
// laid out per PixelStorage in width*height*channels*sampleSize
// bytes.
func (img *Image) Pixels() *DataBlock { return img.pixels }

// SetGeometry changes width/height/channels and rescales the pixel
// buffer to a zero-filled buffer of the new size, preserving the
// DataBlock's byte-shuffle item size if shuffling is active (the new
// sample size may differ, so the item size is re-derived from the
// current sample format).
func (img *Image) SetGeometry(width, height, channels int) error {
	if width <= 0 || height <= 0 || channels <= 0 {
		return xisferr.New(xisferr.InvalidValue, "image geometry %dx%dx%d must be all positive", width, height, channels)
	}
	img.width, img.height, img.channels = width, height, channels
	img.rescale()
	return nil
}

// SetSampleFormat changes the sample format and rescales the pixel
// buffer to a zero-filled buffer of the new size.
func (img *Image) SetSampleFormat(format SampleFormat) {
	img.sampleFormat = format
	img.rescale()
}

func (img *Image) rescale() {
	size := img.pixelByteSize()
	wasShuffling := img.pixels.byteShuffling > 1
	img.pixels.SetBytes(make([]byte, size))
	if wasShuffling {
		img.pixels.byteShuffling = img.sampleFormat.SampleSize()
	}
}

// ICCProfile returns the image's ICC color profile bytes and whether
// one is present.
func (img *Image) ICCProfile() ([]byte, bool) {
	if img.iccProfile == nil {
		return nil, false
	}
	return img.iccProfile, true
}

// SetICCProfile attaches an ICC color profile. Passing nil removes it.
func (img *Image) SetICCProfile(profile []byte) {
	if profile == nil {
		img.iccProfile = nil
		return
	}
	img.iccProfile = append([]byte(nil), profile...)
}

// ColorFilterArray returns the image's sensor mosaic pattern and
// whether one is present.
func (img *Image) ColorFilterArray() (ColorFilterArray, bool) {
	if img.cfa == nil {
		return ColorFilterArray{}, false
	}
	return *img.cfa, true
}

// SetColorFilterArray attaches a color filter array. Passing nil
// removes it.
func (img *Image) SetColorFilterArray(cfa *ColorFilterArray) {
	if cfa == nil {
		img.cfa = nil
		return
	}
	copied := *cfa
	img.cfa = &copied
}

// Properties returns the image's Property table in insertion order.
// The returned slice must not be mutated by the caller.
func (img *Image) Properties() []Property { return img.properties }

// FITSKeywords returns the image's FITS keyword list in insertion
// order. The returned slice must not be mutated by the caller.
func (img *Image) FITSKeywords() []FITSKeyword { return img.fitsKeywords }

// AddFITSKeyword appends kw without deduplication.
func (img *Image) AddFITSKeyword(kw FITSKeyword) {
	img.fitsKeywords = append(img.fitsKeywords, kw)
}

// Property looks up a property by id.
func (img *Image) Property(id string) (Property, bool) {
	i, ok := img.propertyIndex[id]
	if !ok {
		return Property{}, false
	}
	return img.properties[i], true
}

// AddProperty inserts p at the end of the table. Fails with
// DuplicateProperty if p.ID already exists.
func (img *Image) AddProperty(p Property) error {
	if _, exists := img.propertyIndex[p.ID]; exists {
		return xisferr.New(xisferr.DuplicateProperty, "property %q already exists", p.ID)
	}
	img.propertyIndex[p.ID] = len(img.properties)
	img.properties = append(img.properties, p)
	return nil
}

// UpdateProperty inserts p, or replaces the existing entry with the
// same id in place, preserving its position. Always succeeds and
// leaves exactly one entry for p.ID.
func (img *Image) UpdateProperty(p Property) {
	if i, exists := img.propertyIndex[p.ID]; exists {
		img.properties[i] = p
		return
	}
	img.propertyIndex[p.ID] = len(img.properties)
	img.properties = append(img.properties, p)
}

// RemoveProperty deletes the property with the given id, if present,
// and re-indexes the positions of everything after it.
func (img *Image) RemoveProperty(id string) {
	i, exists := img.propertyIndex[id]
	if !exists {
		return
	}
	img.properties = append(img.properties[:i], img.properties[i+1:]...)
	delete(img.propertyIndex, id)
	for j := i; j < len(img.properties); j++ {
		img.propertyIndex[img.properties[j].ID] = j
	}
}

// ConvertPixelStorageTo transposes the pixel buffer between Planar
// layout ([c0[0..n], c1[0..n], ...]) and Normal layout
// ([p0_c0, p0_c1, ..., p1_c0, ...]). Single-channel images short
// circuit: only the storage tag changes. Calling it twice in a row
// (Planar -> Normal -> Planar) is the identity.
func (img *Image) ConvertPixelStorageTo(target PixelStorage) error {
	if img.pixelStorage == target {
		return nil
	}
	img.pixelStorage = target
	if img.channels == 1 {
		return nil
	}

	elemSize := img.sampleFormat.SampleSize()
	n := img.width * img.height
	src := img.pixels.Bytes()
	if len(src) != n*img.channels*elemSize {
		return xisferr.New(xisferr.InvalidValue, "pixel buffer length %d does not match %dx%dx%d", len(src), img.width, img.height, img.channels)
	}
	dst := make([]byte, len(src))

	// Planar index of sample (pixel p, channel c): c*n + p.
	// Normal index of the same sample:               p*channels + c.
	for p := 0; p < n; p++ {
		for c := 0; c < img.channels; c++ {
			var srcOff, dstOff int
			if target == Normal {
				srcOff = (c*n + p) * elemSize
				dstOff = (p*img.channels + c) * elemSize
			} else {
				srcOff = (p*img.channels + c) * elemSize
				dstOff = (c*n + p) * elemSize
			}
			copy(dst[dstOff:dstOff+elemSize], src[srcOff:srcOff+elemSize])
		}
	}
	img.pixels.SetBytes(dst)
	return nil
}
