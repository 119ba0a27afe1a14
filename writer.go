// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/joxda/libXISF/internal/xmlmapper"
	"github.com/joxda/libXISF/lib/xisfconfig"
	"github.com/joxda/libXISF/lib/xisferr"
)

// Writer accumulates Images, file-level Properties, and an optional
// Thumbnail, then serializes them to the XISF 1.0 container format
// with WriteTo.
//
// A Writer is not safe for concurrent use by multiple goroutines.
type Writer struct {
	opts xisfconfig.WriterOptions

	images         []*Image
	fileProperties []Property
	thumbnail      *DataBlock
}

// NewWriter returns an empty Writer configured by opts.
func NewWriter(opts ...xisfconfig.Option) *Writer {
	return &Writer{opts: xisfconfig.NewWriterOptions(opts...)}
}

// AddImage appends img to the document.
func (w *Writer) AddImage(img *Image) { w.images = append(w.images, img) }

// AddFileProperty appends a file-level Property, nested under the
// document's <Metadata> element.
func (w *Writer) AddFileProperty(p Property) { w.fileProperties = append(w.fileProperties, p) }

// SetThumbnail attaches a thumbnail DataBlock to the document. A
// Writer that never calls SetThumbnail emits no <Thumbnail> element;
// the Writer never synthesizes one on its own.
func (w *Writer) SetThumbnail(db *DataBlock) { w.thumbnail = db }

// WriteTo serializes the accumulated document to dst: the 16-byte
// signature, the XML header padded to its final length, and then
// each attachment payload in the order its DataBlock was encoded.
//
// Emission is two-phase. The XML tree is first built with every
// attachment location carrying the placeholder offset
// "attachment:2147483648:<size>"; once the document's serialized
// length is known, each placeholder is rewritten in document order
// with its real offset (always shorter, so the document shrinks) and
// the freed space is restored as trailing NUL padding, keeping the
// header's total length, and hence the final headerSize field,
// unchanged by the rewrite.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	for _, img := range w.images {
		img.pixels.ApplyDefaultCompression(w.opts.DefaultCodec, w.opts.DefaultLevel)
		img.pixels.ApplyEnvironmentOverride()
		if xisfconfig.EnvOverride() != nil && img.pixels.byteShuffling <= 1 {
			img.pixels.byteShuffling = img.sampleFormat.SampleSize()
		}
	}
	if w.thumbnail != nil {
		w.thumbnail.ApplyDefaultCompression(w.opts.DefaultCodec, w.opts.DefaultLevel)
		w.thumbnail.ApplyEnvironmentOverride()
	}

	root := xmlmapper.NewNode("xisf")
	root.SetAttr("version", "1.0")
	root.SetAttr("xmlns", xisfXMLNamespace)
	root.SetAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	root.SetAttr("xsi:schemaLocation", xisfXMLNamespace+" http://pixinsight.com/xisf/xisf-1.0.xsd")

	var attachments []pendingAttachment

	root.AddChild(w.buildMetadataNode(&attachments))

	for _, img := range w.images {
		imgNode, err := imageToNode(img, &attachments)
		if err != nil {
			return 0, err
		}
		root.AddChild(imgNode)
	}

	if w.thumbnail != nil {
		thumbNode := xmlmapper.NewNode("Thumbnail")
		payload, err := w.thumbnail.EncodeForXML(thumbNode, w.thumbnail.Bytes())
		if err != nil {
			return 0, err
		}
		if payload != nil {
			attachments = append(attachments, pendingAttachment{db: w.thumbnail, payload: payload})
		}
		root.AddChild(thumbNode)
	}

	var headerBuf bytes.Buffer
	headerBuf.Write(make([]byte, signatureAreaSize))
	if err := xmlmapper.WriteDocument(&headerBuf, root); err != nil {
		return 0, xisferr.Wrap(xisferr.IoError, err, "serializing XML header")
	}
	header := headerBuf.Bytes()

	header, err := patchAttachmentOffsets(header, attachments)
	if err != nil {
		return 0, err
	}

	headerSize := len(header) - signatureAreaSize
	copy(header[0:8], signature)
	binary.LittleEndian.PutUint32(header[8:12], uint32(headerSize))

	written, err := dst.Write(header)
	if err != nil {
		return 0, xisferr.Wrap(xisferr.IoError, err, "writing header")
	}
	total := int64(written)
	w.opts.Logger().Debug("xisf: header written", "headerSize", headerSize, "images", len(w.images), "attachments", len(attachments))

	for _, att := range attachments {
		n, err := writeChunked(dst, att.payload, w.opts.MaxChunkBytes)
		if err != nil {
			return total, err
		}
		total += n
	}
	w.opts.Logger().Debug("xisf: document written", "totalBytes", total)
	return total, nil
}

// buildMetadataNode returns the <Metadata> element every XISF 1.0
// document must carry: XISF:CreationTime and XISF:CreatorApplication,
// followed by whatever file-level properties the caller added.
// propertyToNode embeds every property's data in the header, so
// attachments is passed through but nothing is appended to it.
func (w *Writer) buildMetadataNode(attachments *[]pendingAttachment) *xmlmapper.Node {
	meta := xmlmapper.NewNode("Metadata")

	creationTime, err := propertyToNode(Property{
		ID:    "XISF:CreationTime",
		Value: NewTimePoint(time.Now().UTC()),
	}, attachments)
	if err == nil {
		meta.AddChild(creationTime)
	}

	creator := w.opts.CreatorApplication
	if creator == "" {
		creator = xisfconfig.DefaultCreatorApplication
	}
	creatorNode, err := propertyToNode(Property{
		ID:    "XISF:CreatorApplication",
		Value: NewString(creator),
	}, attachments)
	if err == nil {
		meta.AddChild(creatorNode)
	}

	for _, p := range w.fileProperties {
		pNode, err := propertyToNode(p, attachments)
		if err != nil {
			continue
		}
		meta.AddChild(pNode)
	}
	return meta
}

// attachmentPlaceholderPrefix is the literal substring patchAttachmentOffsets
// searches for; it must match exactly what FormatLocationAttribute
// emits for attachmentPlaceholderPos.
const attachmentPlaceholderPrefix = "attachment:2147483648:"

// patchAttachmentOffsets rewrites each placeholder attachment offset
// in header, in document order, with the real absolute file offset
// that attachment will land at. Since every real offset is written
// with fewer digits than the placeholder's 10, the document shrinks
// by the total savings; that many NUL bytes are appended after the
// end of the document so the header's total byte length,
// and thus headerSize, matches what was already serialized.
func patchAttachmentOffsets(header []byte, attachments []pendingAttachment) ([]byte, error) {
	if len(attachments) == 0 {
		return header, nil
	}

	text := string(header)

	// Every attachment's real offset is at most as many digits as
	// the placeholder's, so patching can never grow the document:
	// the final header length is already known (it's len(header)),
	// and the first attachment lands immediately after it.
	type placeholder struct {
		start, end int // byte range of "attachment:2147483648:<size>" within text
	}
	var found []placeholder
	search := signatureAreaSize
	for range attachments {
		idx := strings.Index(text[search:], attachmentPlaceholderPrefix)
		if idx < 0 {
			return nil, xisferr.New(xisferr.IoError, "could not find placeholder offset for attachment %d", len(found))
		}
		start := search + idx
		end := start + len(attachmentPlaceholderPrefix)
		for end < len(text) && text[end] >= '0' && text[end] <= '9' {
			end++
		}
		found = append(found, placeholder{start: start, end: end})
		search = end
	}

	var out strings.Builder
	out.Grow(len(text))
	lastEnd := 0
	attachOffset := int64(len(header))
	for i, ph := range found {
		out.WriteString(text[lastEnd:ph.start])
		sizeText := text[ph.start+len(attachmentPlaceholderPrefix) : ph.end]
		repl := fmt.Sprintf("attachment:%d:%s", attachOffset, sizeText)
		out.WriteString(repl)
		lastEnd = ph.end

		size, err := strconv.ParseInt(sizeText, 10, 64)
		if err != nil {
			return nil, xisferr.Wrap(xisferr.InvalidValue, err, "attachment %d size", i)
		}
		attachOffset += size
	}
	out.WriteString(text[lastEnd:])

	patched := out.String()
	savings := len(text) - len(patched)
	if savings < 0 {
		return nil, xisferr.New(xisferr.IoError, "attachment offset patching grew the header by %d bytes", -savings)
	}
	patched += strings.Repeat("\x00", savings)
	return []byte(patched), nil
}

// writeChunked writes payload to dst in slices no larger than
// maxChunk, so a single multi-gigabyte attachment never requires one
// oversized syscall.
func writeChunked(dst io.Writer, payload []byte, maxChunk int64) (int64, error) {
	if maxChunk <= 0 {
		maxChunk = xisfconfig.DefaultMaxChunkBytes
	}
	var total int64
	for len(payload) > 0 {
		chunk := payload
		if int64(len(chunk)) > maxChunk {
			chunk = chunk[:maxChunk]
		}
		n, err := dst.Write(chunk)
		if err != nil {
			return total, xisferr.Wrap(xisferr.IoError, err, "writing attachment payload")
		}
		total += int64(n)
		payload = payload[n:]
	}
	return total, nil
}
