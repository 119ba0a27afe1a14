// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import "testing"

func TestAddFITSKeywordAsPropertyMapsKnownKeyword(t *testing.T) {
	img, err := NewImage(1, 1, 1, UInt8)
	if err != nil {
		t.Fatal(err)
	}
	if err := img.AddFITSKeywordAsProperty(FITSKeyword{Name: "OBJECT", Value: "M31", Comment: "target"}); err != nil {
		t.Fatal(err)
	}
	p, ok := img.Property("Observation:Object:Name")
	if !ok {
		t.Fatal("expected Observation:Object:Name property")
	}
	s, _ := p.Value.String2()
	if s != "M31" {
		t.Errorf("property value = %q, want %q", s, "M31")
	}
	if len(img.FITSKeywords()) != 1 || img.FITSKeywords()[0].Name != "OBJECT" {
		t.Errorf("FITSKeywords() = %v", img.FITSKeywords())
	}
}

func TestAddFITSKeywordAsPropertyConvertsMillimetersToMeters(t *testing.T) {
	img, err := NewImage(1, 1, 1, UInt8)
	if err != nil {
		t.Fatal(err)
	}
	if err := img.AddFITSKeywordAsProperty(FITSKeyword{Name: "FOCALLEN", Value: "1000"}); err != nil {
		t.Fatal(err)
	}
	p, ok := img.Property("Instrument:Telescope:FocalLength")
	if !ok {
		t.Fatal("expected Instrument:Telescope:FocalLength property")
	}
	f, ok := p.Value.Float()
	if !ok || f != 1 {
		t.Errorf("FocalLength = %v, %v, want 1.0 meters", f, ok)
	}
}

func TestAddFITSKeywordAsPropertyUnmappedKeywordIsRecordedButNoPropertyAdded(t *testing.T) {
	img, err := NewImage(1, 1, 1, UInt8)
	if err != nil {
		t.Fatal(err)
	}
	if err := img.AddFITSKeywordAsProperty(FITSKeyword{Name: "COMMENT", Value: "some free text"}); err != nil {
		t.Fatal(err)
	}
	if len(img.Properties()) != 0 {
		t.Errorf("Properties() = %v, want none for an unmapped keyword", img.Properties())
	}
	if len(img.FITSKeywords()) != 1 {
		t.Errorf("FITSKeywords() should still record the unmapped keyword")
	}
}

func TestAddFITSKeywordAsPropertyMalformedValueStillRecordsKeyword(t *testing.T) {
	img, err := NewImage(1, 1, 1, UInt8)
	if err != nil {
		t.Fatal(err)
	}
	err = img.AddFITSKeywordAsProperty(FITSKeyword{Name: "CRVAL1", Value: "not-a-number"})
	if err == nil {
		t.Error("expected a parse error for a malformed CRVAL1 value")
	}
	if len(img.FITSKeywords()) != 1 {
		t.Error("the FITSKeyword should still be recorded even though the Property mapping failed")
	}
}
