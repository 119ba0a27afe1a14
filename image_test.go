// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import (
	"testing"
)

func TestNewImageRejectsNonPositiveGeometry(t *testing.T) {
	cases := [][3]int{{0, 7, 1}, {5, 0, 1}, {5, 7, 0}, {-1, 7, 1}}
	for _, c := range cases {
		if _, err := NewImage(c[0], c[1], c[2], UInt16); err == nil {
			t.Errorf("NewImage(%v) should fail", c)
		}
	}
}

func TestNewImageZeroFillsPixelBuffer(t *testing.T) {
	img, err := NewImage(5, 7, 1, UInt16)
	if err != nil {
		t.Fatal(err)
	}
	want := 5 * 7 * 1 * 2
	if got := len(img.Pixels().Bytes()); got != want {
		t.Fatalf("pixel buffer length = %d, want %d", got, want)
	}
	for _, b := range img.Pixels().Bytes() {
		if b != 0 {
			t.Fatal("pixel buffer is not zero-filled")
		}
	}
}

func TestSetGeometryRescalesPixelBuffer(t *testing.T) {
	img, err := NewImage(2, 2, 1, UInt8)
	if err != nil {
		t.Fatal(err)
	}
	pixels := img.Pixels().Bytes()
	for i := range pixels {
		pixels[i] = 0xFF
	}
	img.Pixels().SetBytes(pixels)

	if err := img.SetGeometry(3, 3, 2); err != nil {
		t.Fatal(err)
	}
	want := 3 * 3 * 2 * 1
	if got := len(img.Pixels().Bytes()); got != want {
		t.Fatalf("pixel buffer length after SetGeometry = %d, want %d", got, want)
	}
	for _, b := range img.Pixels().Bytes() {
		if b != 0 {
			t.Fatal("SetGeometry should zero-fill the rescaled buffer")
		}
	}
}

func TestSetSampleFormatRescalesPixelBuffer(t *testing.T) {
	img, err := NewImage(4, 4, 1, UInt8)
	if err != nil {
		t.Fatal(err)
	}
	img.SetSampleFormat(UInt16)
	want := 4 * 4 * 1 * 2
	if got := len(img.Pixels().Bytes()); got != want {
		t.Fatalf("pixel buffer length after SetSampleFormat = %d, want %d", got, want)
	}
}

func TestAddPropertyRejectsDuplicateID(t *testing.T) {
	img, err := NewImage(1, 1, 1, UInt8)
	if err != nil {
		t.Fatal(err)
	}
	if err := img.AddProperty(Property{ID: "Observation:Object:Name", Value: NewString("M31")}); err != nil {
		t.Fatal(err)
	}
	if err := img.AddProperty(Property{ID: "Observation:Object:Name", Value: NewString("M42")}); err == nil {
		t.Fatal("AddProperty should reject a duplicate id")
	}
	if len(img.Properties()) != 1 {
		t.Fatalf("Properties() has %d entries, want 1", len(img.Properties()))
	}
}

func TestUpdatePropertyUpsertsAndPreservesOrder(t *testing.T) {
	img, err := NewImage(1, 1, 1, UInt8)
	if err != nil {
		t.Fatal(err)
	}
	img.UpdateProperty(Property{ID: "A", Value: NewInt32(1)})
	img.UpdateProperty(Property{ID: "B", Value: NewInt32(2)})
	img.UpdateProperty(Property{ID: "A", Value: NewInt32(99)})

	if len(img.Properties()) != 2 {
		t.Fatalf("Properties() has %d entries, want 2", len(img.Properties()))
	}
	if img.Properties()[0].ID != "A" {
		t.Errorf("updating A should not move it to the end; order = %v", img.Properties())
	}
	p, ok := img.Property("A")
	if !ok {
		t.Fatal("Property(\"A\") not found")
	}
	n, _ := p.Value.Int()
	if n != 99 {
		t.Errorf("Property(\"A\").Value = %d, want 99", n)
	}
}

func TestRemovePropertyReindexes(t *testing.T) {
	img, err := NewImage(1, 1, 1, UInt8)
	if err != nil {
		t.Fatal(err)
	}
	img.UpdateProperty(Property{ID: "A", Value: NewInt32(1)})
	img.UpdateProperty(Property{ID: "B", Value: NewInt32(2)})
	img.UpdateProperty(Property{ID: "C", Value: NewInt32(3)})

	img.RemoveProperty("B")
	if _, ok := img.Property("B"); ok {
		t.Error("Property(\"B\") should be gone after RemoveProperty")
	}
	p, ok := img.Property("C")
	if !ok {
		t.Fatal("Property(\"C\") should still be found after removing B")
	}
	n, _ := p.Value.Int()
	if n != 3 {
		t.Errorf("Property(\"C\").Value = %d, want 3", n)
	}
}

func TestConvertPixelStorageSingleChannelShortCircuits(t *testing.T) {
	img, err := NewImage(2, 2, 1, UInt8)
	if err != nil {
		t.Fatal(err)
	}
	before := append([]byte(nil), img.Pixels().Bytes()...)
	if err := img.ConvertPixelStorageTo(Normal); err != nil {
		t.Fatal(err)
	}
	if img.PixelStorage() != Normal {
		t.Error("storage tag did not change for single-channel image")
	}
	if string(img.Pixels().Bytes()) != string(before) {
		t.Error("single-channel image's pixel bytes should be unchanged by ConvertPixelStorageTo")
	}
}

func TestConvertPixelStorageRoundTripIsIdentity(t *testing.T) {
	img, err := NewImage(2, 3, 3, UInt16)
	if err != nil {
		t.Fatal(err)
	}
	pixels := img.Pixels().Bytes()
	for i := range pixels {
		pixels[i] = byte(i)
	}
	img.Pixels().SetBytes(pixels)
	original := append([]byte(nil), pixels...)

	if err := img.ConvertPixelStorageTo(Normal); err != nil {
		t.Fatal(err)
	}
	if err := img.ConvertPixelStorageTo(Planar); err != nil {
		t.Fatal(err)
	}
	if string(img.Pixels().Bytes()) != string(original) {
		t.Error("Planar -> Normal -> Planar should be the identity")
	}
}

func TestConvertPixelStorageTransposesCorrectly(t *testing.T) {
	// width=2, height=1, channels=3, UInt8: planar [c0p0,c0p1, c1p0,c1p1, c2p0,c2p1]
	img, err := NewImage(2, 1, 3, UInt8)
	if err != nil {
		t.Fatal(err)
	}
	planar := []byte{1, 2, 3, 4, 5, 6}
	img.Pixels().SetBytes(planar)

	if err := img.ConvertPixelStorageTo(Normal); err != nil {
		t.Fatal(err)
	}
	// Normal: [p0c0,p0c1,p0c2, p1c0,p1c1,p1c2] = [1,3,5, 2,4,6]
	want := []byte{1, 3, 5, 2, 4, 6}
	got := img.Pixels().Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Normal layout = %v, want %v", got, want)
		}
	}
}
