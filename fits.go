// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

// fitsMapping describes how one FITS keyword maps onto a Property.
type fitsMapping struct {
	propertyID string
	kind       Kind
	// millimeterToMeter divides the parsed value by 1000 before
	// storing it, for the two FITS keywords recorded in millimeters
	// that XISF stores in meters.
	millimeterToMeter bool
}

// fitsKeywordMap is the FITS keyword name to Property mapping table.
var fitsKeywordMap = map[string]fitsMapping{
	"OBSERVER":  {"Observer:Name", KindString, false},
	"RADECSYS":  {"Observation:CelestialReferenceSystem", KindString, false},
	"CRVAL1":    {"Observation:Center:RA", KindFloat64, false},
	"CRVAL2":    {"Observation:Center:Dec", KindFloat64, false},
	"CRPIX1":    {"Observation:Center:X", KindFloat64, false},
	"CRPIX2":    {"Observation:Center:Y", KindFloat64, false},
	"EQUINOX":   {"Observation:Equinox", KindFloat64, false},
	"SITELAT":   {"Observation:Location:Latitude", KindFloat64, false},
	"SITELONG":  {"Observation:Location:Longitude", KindFloat64, false},
	"OBJECT":    {"Observation:Object:Name", KindString, false},
	"DEC":       {"Observation:Object:Dec", KindFloat64, false},
	"RA":        {"Observation:Object:RA", KindFloat64, false},
	"DATE-OBS":  {"Observation:Time:Start", KindTimePoint, false},
	"DATE-END":  {"Observation:Time:End", KindTimePoint, false},
	"GAIN":      {"Instrument:Camera:Gain", KindFloat32, false},
	"ISOSPEED":  {"Instrument:Camera:ISOSpeed", KindInt32, false},
	"INSTRUME":  {"Instrument:Camera:Name", KindString, false},
	"ROTATANG":  {"Instrument:Camera:Rotation", KindFloat32, false},
	"XBINNING":  {"Instrument:Camera:XBinning", KindInt32, false},
	"YBINNING":  {"Instrument:Camera:YBinning", KindInt32, false},
	"EXPTIME":   {"Instrument:ExposureTime", KindFloat32, false},
	"FILTER":    {"Instrument:Filter:Name", KindString, false},
	"FOCUSPOS":  {"Instrument:Focuser:Position", KindFloat32, false},
	"CCD-TEMP":  {"Instrument:Sensor:Temperature", KindFloat32, false},
	"APTDIA":    {"Instrument:Telescope:Aperture", KindFloat32, true},
	"FOCALLEN":  {"Instrument:Telescope:FocalLength", KindFloat32, true},
	"TELESCOP":  {"Instrument:Telescope:Name", KindString, false},
}

// AddFITSKeywordAsProperty appends kw to the image's FITS keyword list
// unconditionally, and additionally, when kw.Name appears in the
// FITS to Property mapping table, parses kw.Value as the mapped
// type and upserts a Property under the mapped id. APTDIA and
// FOCALLEN are divided by 1000 to convert millimeters to meters.
// Parse failures for the mapped Property are reported but do not
// prevent the FITSKeyword itself from being recorded.
func (img *Image) AddFITSKeywordAsProperty(kw FITSKeyword) error {
	img.AddFITSKeyword(kw)

	m, ok := fitsKeywordMap[kw.Name]
	if !ok {
		return nil
	}

	v, err := ParseScalar(m.kind, kw.Value)
	if err != nil {
		return err
	}
	if m.millimeterToMeter {
		f, _ := v.Float()
		v = NewFloat32(float32(f / 1000))
	}
	img.UpdateProperty(Property{ID: m.propertyID, Value: v, Comment: kw.Comment})
	return nil
}
