// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import "testing"

type sampleRecord struct {
	Name  string `cbor:"name"`
	Count int    `cbor:"count"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	original := sampleRecord{Name: "m31", Count: 7}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var got sampleRecord
	if err := Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != original {
		t.Fatalf("round trip = %+v, want %+v", got, original)
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	v := map[string]int{"b": 2, "a": 1, "c": 3}
	first, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatal("Marshal of identical map content produced different bytes")
	}
}
