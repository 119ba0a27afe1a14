// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisfcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joxda/libXISF"
)

func writeSampleFile(t *testing.T, dir string) string {
	t.Helper()
	img, err := xisf.NewImage(3, 3, 1, xisf.UInt16)
	if err != nil {
		t.Fatal(err)
	}
	if err := img.AddProperty(xisf.Property{ID: "Instrument:Name", Value: xisf.NewString("test-scope")}); err != nil {
		t.Fatal(err)
	}

	w := xisf.NewWriter()
	w.AddImage(img)

	path := filepath.Join(dir, "sample.xisf")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := w.WriteTo(f); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScanFilePopulatesAndReusesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleFile(t, dir)

	idx := NewIndex()
	first, err := idx.ScanFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(first))
	}
	if first[0].Width != 3 || first[0].Height != 3 || first[0].Channels != 1 {
		t.Errorf("summary geometry = %+v", first[0])
	}
	if len(first[0].PropertyIDs) != 1 || first[0].PropertyIDs[0] != "Instrument:Name" {
		t.Errorf("summary property ids = %v", first[0].PropertyIDs)
	}

	if idx.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", idx.Len())
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	cached, ok := idx.Lookup(path, info.ModTime(), info.Size())
	if !ok {
		t.Fatal("expected a cache hit after ScanFile")
	}
	if len(cached) != 1 {
		t.Fatalf("cached summaries = %v", cached)
	}
}

func TestLookupMissesOnModTimeChange(t *testing.T) {
	idx := NewIndex()
	idx.Put("a.xisf", time.Unix(100, 0), 1024, []ImageSummary{{Width: 1, Height: 1, Channels: 1}})

	if _, ok := idx.Lookup("a.xisf", time.Unix(200, 0), 1024); ok {
		t.Error("Lookup should miss when modTime differs")
	}
	if _, ok := idx.Lookup("a.xisf", time.Unix(100, 0), 2048); ok {
		t.Error("Lookup should miss when size differs")
	}
	if _, ok := idx.Lookup("a.xisf", time.Unix(100, 0), 1024); !ok {
		t.Error("Lookup should hit on an exact match")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "cache.cbor")

	idx := NewIndex()
	idx.Put("one.xisf", time.Unix(1000, 0), 42, []ImageSummary{
		{Width: 10, Height: 20, Channels: 3, SampleFormat: "Float32", PropertyIDs: []string{"A", "B"}},
	})

	if err := idx.Save(cachePath); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(cachePath)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("loaded.Len() = %d, want 1", loaded.Len())
	}
	got, ok := loaded.Lookup("one.xisf", time.Unix(1000, 0), 42)
	if !ok {
		t.Fatal("expected a hit after round trip")
	}
	if len(got) != 1 || got[0].Width != 10 || got[0].SampleFormat != "Float32" {
		t.Errorf("loaded summary = %+v", got)
	}
}

func TestLoadMissingFileReturnsEmptyIndex(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "does-not-exist.cbor"))
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 0 {
		t.Error("Load of a missing file should return an empty Index, not an error")
	}
}

func TestDelete(t *testing.T) {
	idx := NewIndex()
	idx.Put("a.xisf", time.Unix(1, 0), 1, nil)
	idx.Delete("a.xisf")
	if idx.Len() != 0 {
		t.Error("Delete should remove the entry")
	}
}
