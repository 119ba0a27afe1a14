// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

// Package xisfcache is an optional on-disk cache of parsed image
// headers, for directory-scanning tools that want to list many XISF
// files' metadata without re-parsing each file's XML header on every
// run. Entries are keyed by file path and modification time and
// persisted as a single CBOR document via internal/cbor.
package xisfcache

import (
	"os"
	"time"

	"github.com/joxda/libXISF"
	"github.com/joxda/libXISF/internal/cbor"
	"github.com/joxda/libXISF/lib/xisferr"
)

// ImageSummary is the cached subset of an Image's header: geometry,
// sample format, and the id of every property it carries. No pixel
// data and no property values are retained, only enough to decide
// whether a file is worth fully opening.
type ImageSummary struct {
	Width        int      `cbor:"w"`
	Height       int      `cbor:"h"`
	Channels     int      `cbor:"c"`
	SampleFormat string   `cbor:"format"`
	PropertyIDs  []string `cbor:"properties,omitempty"`
}

// entry is one cached file's summary, guarded by the modification
// time observed when it was cached.
type entry struct {
	ModTime time.Time      `cbor:"mtime"`
	Size    int64          `cbor:"size"`
	Images  []ImageSummary `cbor:"images"`
}

// Index maps a file path to its cached ImageSummary list. It is not
// safe for concurrent use by multiple goroutines.
type Index struct {
	entries map[string]entry
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]entry)}
}

// Load reads a CBOR-encoded Index from path. A missing file is
// reported as an empty Index, not an error, since a cache that has
// never been written is a normal starting state.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewIndex(), nil
		}
		return nil, xisferr.Wrap(xisferr.IoError, err, "reading cache index %q", path)
	}
	var entries map[string]entry
	if err := cbor.Unmarshal(data, &entries); err != nil {
		return nil, xisferr.Wrap(xisferr.MalformedHeader, err, "decoding cache index %q", path)
	}
	if entries == nil {
		entries = make(map[string]entry)
	}
	return &Index{entries: entries}, nil
}

// Save writes idx to path as CBOR, overwriting any existing file.
func (idx *Index) Save(path string) error {
	data, err := cbor.Marshal(idx.entries)
	if err != nil {
		return xisferr.Wrap(xisferr.IoError, err, "encoding cache index")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return xisferr.Wrap(xisferr.IoError, err, "writing cache index %q", path)
	}
	return nil
}

// Lookup returns the cached summaries for filePath if the index has
// an entry whose recorded modTime and size still match, ok is false
// on a miss (absent, stale, or size-mismatched entry) so the caller
// knows to re-parse and Put a fresh entry.
func (idx *Index) Lookup(filePath string, modTime time.Time, size int64) ([]ImageSummary, bool) {
	e, ok := idx.entries[filePath]
	if !ok || !e.ModTime.Equal(modTime) || e.Size != size {
		return nil, false
	}
	return e.Images, true
}

// Put records summaries for filePath under the given modTime/size,
// replacing any prior entry for that path.
func (idx *Index) Put(filePath string, modTime time.Time, size int64, summaries []ImageSummary) {
	idx.entries[filePath] = entry{ModTime: modTime, Size: size, Images: summaries}
}

// Delete removes filePath's cached entry, if any.
func (idx *Index) Delete(filePath string) {
	delete(idx.entries, filePath)
}

// Len reports how many file entries the index currently holds.
func (idx *Index) Len() int { return len(idx.entries) }

// summarize builds an ImageSummary from an already-parsed Image,
// without touching its pixel DataBlock.
func summarize(img *xisf.Image) ImageSummary {
	ids := make([]string, 0, len(img.Properties()))
	for _, p := range img.Properties() {
		ids = append(ids, p.ID)
	}
	return ImageSummary{
		Width:        img.Width(),
		Height:       img.Height(),
		Channels:     img.Channels(),
		SampleFormat: img.SampleFormat().String(),
		PropertyIDs:  ids,
	}
}

// ScanFile opens filePath and returns its image summaries, consulting
// and then populating idx so a repeat scan with an unchanged mtime and
// size is served from cache without touching the XML header again.
// Pixel attachments are never fetched: summarizing a file never reads
// more than its header.
func (idx *Index) ScanFile(filePath string) ([]ImageSummary, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, xisferr.Wrap(xisferr.IoError, err, "stat %q", filePath)
	}
	if cached, ok := idx.Lookup(filePath, info.ModTime(), info.Size()); ok {
		return cached, nil
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, xisferr.Wrap(xisferr.IoError, err, "opening %q", filePath)
	}
	defer f.Close()

	r, err := xisf.Open(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	summaries := make([]ImageSummary, r.NumImages())
	for i := 0; i < r.NumImages(); i++ {
		img, err := r.Image(i, false)
		if err != nil {
			return nil, err
		}
		summaries[i] = summarize(img)
	}

	idx.Put(filePath, info.ModTime(), info.Size(), summaries)
	return summaries, nil
}
