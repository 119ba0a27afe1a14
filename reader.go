// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/joxda/libXISF/internal/xmlmapper"
	"github.com/joxda/libXISF/lib/xisfconfig"
	"github.com/joxda/libXISF/lib/xisferr"
)

// ReaderState is the Reader's lifecycle position.
type ReaderState int

const (
	StateClosed ReaderState = iota
	StateSignatureRead
	StateHeaderRead
	StateReady
)

// Reader parses an XISF stream: the 16-byte signature, the XML
// header, and, lazily, on demand, each Image's pixel attachment.
//
// A Reader is not safe for concurrent use by multiple goroutines.
type Reader struct {
	opts  xisfconfig.ReaderOptions
	src   io.ReadSeeker
	state ReaderState

	images         []*Image
	fileProperties []Property
	thumbnail      *DataBlock
}

// Open validates the signature, parses the XML header into Images and
// file-level Properties, and returns a Reader in state StateReady. No
// image's pixels are fetched yet; call (*Reader).Image to resolve
// them.
func Open(src io.ReadSeeker, opts ...xisfconfig.ReaderOption) (*Reader, error) {
	r := &Reader{opts: xisfconfig.NewReaderOptions(opts...), src: src}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) open() error {
	sigArea := make([]byte, signatureAreaSize)
	if _, err := io.ReadFull(r.src, sigArea); err != nil {
		return xisferr.Wrap(xisferr.IoError, err, "reading signature")
	}
	if err := checkSignature(sigArea); err != nil {
		return err
	}
	r.state = StateSignatureRead

	headerSize := binary.LittleEndian.Uint32(sigArea[8:12])
	xmlBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r.src, xmlBytes); err != nil {
		return xisferr.Wrap(xisferr.IoError, err, "reading XML header")
	}
	xmlBytes = bytes.TrimRight(xmlBytes, "\x00")

	root, err := xmlmapper.ParseDocument(xmlBytes)
	if err != nil {
		return xisferr.Wrap(xisferr.MalformedHeader, err, "parsing XML header")
	}
	if root.Name != "xisf" {
		return xisferr.New(xisferr.MalformedHeader, "root element is %q, want %q", root.Name, "xisf")
	}
	version, _ := root.Attr("version")
	if version != "1.0" {
		return xisferr.New(xisferr.MalformedHeader, "unsupported xisf version %q", version)
	}
	r.state = StateHeaderRead
	r.opts.Logger().Debug("xisf: header parsed", "headerSize", headerSize)

	fetch := r.fetchAttachment

	for _, imgNode := range root.ChildrenNamed("Image") {
		img, err := nodeToImage(imgNode, fetch, true)
		if err != nil {
			return err
		}
		r.images = append(r.images, img)
	}

	// File-level properties are normally nested under <Metadata>, but a
	// <Property> found directly under <xisf> is tolerated (legacy files).
	for _, pNode := range root.ChildrenNamed("Property") {
		p, err := nodeToProperty(pNode, fetch)
		if err != nil {
			return err
		}
		r.fileProperties = append(r.fileProperties, p)
	}
	if metaNode, ok := root.FirstChildNamed("Metadata"); ok {
		for _, pNode := range metaNode.ChildrenNamed("Property") {
			p, err := nodeToProperty(pNode, fetch)
			if err != nil {
				return err
			}
			r.fileProperties = append(r.fileProperties, p)
		}
	}

	if thumbNode, ok := root.FirstChildNamed("Thumbnail"); ok {
		thumb, err := DecodeFromXML(thumbNode, fetch)
		if err != nil {
			return err
		}
		r.thumbnail = thumb
	}

	r.state = StateReady
	r.opts.Logger().Debug("xisf: document ready", "images", len(r.images), "fileProperties", len(r.fileProperties))
	return nil
}

func (r *Reader) fetchAttachment(pos, size int64) ([]byte, error) {
	r.opts.Logger().Debug("xisf: fetching attachment", "offset", pos, "size", size)
	if _, err := r.src.Seek(pos, io.SeekStart); err != nil {
		return nil, xisferr.Wrap(xisferr.IoError, err, "seeking to attachment at offset %d", pos)
	}
	maxChunk := r.opts.MaxChunkBytes
	if maxChunk <= 0 {
		maxChunk = maxChunkBytes
	}
	out := make([]byte, size)
	var done int64
	for done < size {
		chunk := size - done
		if chunk > maxChunk {
			chunk = maxChunk
		}
		n, err := io.ReadFull(r.src, out[done:done+chunk])
		if err != nil {
			return nil, xisferr.Wrap(xisferr.IoError, err, "reading attachment at offset %d", pos)
		}
		done += int64(n)
	}
	return out, nil
}

// NumImages reports how many Images the header describes.
func (r *Reader) NumImages() int { return len(r.images) }

// FileProperties returns the document's file-level Property table.
func (r *Reader) FileProperties() []Property { return r.fileProperties }

// Thumbnail returns the document's thumbnail DataBlock, if any,
// already resident.
func (r *Reader) Thumbnail() (*DataBlock, bool) {
	if r.thumbnail == nil {
		return nil, false
	}
	return r.thumbnail, true
}

// Image returns the i'th Image. If readPixels is true and the pixel
// DataBlock is still a non-resident attachment, it is fetched and
// decoded first; the result is cached, so subsequent calls are free.
func (r *Reader) Image(i int, readPixels bool) (*Image, error) {
	if r.state != StateReady {
		return nil, xisferr.New(xisferr.IoError, "reader is not in the Ready state")
	}
	if i < 0 || i >= len(r.images) {
		return nil, xisferr.New(xisferr.OutOfBounds, "image index %d out of range [0,%d)", i, len(r.images))
	}
	img := r.images[i]
	if readPixels && !img.pixels.IsResident() {
		if err := ResolveAttachment(img.pixels, r.fetchAttachment); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// Close drops all cached state and returns the Reader to StateClosed.
// It does not close the underlying io.ReadSeeker.
func (r *Reader) Close() error {
	r.state = StateClosed
	r.images = nil
	r.fileProperties = nil
	r.thumbnail = nil
	r.src = nil
	return nil
}
