// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import (
	"github.com/joxda/libXISF/internal/bytebuffer"
	"github.com/joxda/libXISF/internal/codec"
	"github.com/joxda/libXISF/internal/xmlmapper"
	"github.com/joxda/libXISF/lib/xisferr"
)

// EncodeForXML runs db's write-path pipeline on raw and attaches the
// result to node per db's location: "location"/"compression"/
// "subblocks" attributes for all three locations, plus an encoded
// <Data> child for embedded or encoded inner text for inline. For an
// attachment location it sets the placeholder offset (the caller,
// typically Writer, patches in the real offset later) and returns the
// wire payload for the caller to append to the attachment stream;
// for embedded/inline it returns a nil payload since the bytes are
// already inside node.
func (db *DataBlock) EncodeForXML(node *xmlmapper.Node, raw []byte) (attachmentPayload []byte, err error) {
	payload, err := db.Write(raw)
	if err != nil {
		return nil, err
	}
	if comp := db.FormatCompressionAttribute(); comp != "" {
		node.SetAttr("compression", comp)
	}
	if sb := db.FormatSubBlocksAttribute(); sb != "" {
		node.SetAttr("subblocks", sb)
	}

	switch db.location {
	case LocationEmbedded:
		node.SetAttr("location", "embedded")
		dataNode := node.AddChild(xmlmapper.NewNode("Data"))
		dataNode.SetAttr("encoding", db.inlineEncoding.String())
		dataNode.Text = encodeTransport(db.inlineEncoding, payload)
		return nil, nil

	case LocationInline:
		node.SetAttr("location", "inline:"+db.inlineEncoding.String())
		node.Text = encodeTransport(db.inlineEncoding, payload)
		return nil, nil

	case LocationAttachment:
		db.attachmentSize = int64(len(payload))
		db.attachmentPos = attachmentPlaceholderPos
		node.SetAttr("location", db.FormatLocationAttribute())
		return payload, nil
	}
	return nil, xisferr.New(xisferr.InvalidValue, "unrecognized DataBlock location %v", db.location)
}

func encodeTransport(enc InlineEncoding, data []byte) string {
	buf := bytebuffer.FromBytes(data)
	if enc == InlineBase16 {
		return buf.EncodeHex()
	}
	return buf.EncodeBase64()
}

func decodeTransport(enc InlineEncoding, text string) ([]byte, error) {
	if enc == InlineBase16 {
		buf, err := bytebuffer.DecodeHex(text)
		if err != nil {
			return nil, xisferr.Wrap(xisferr.InvalidValue, err, "decoding base16 data")
		}
		return buf.Bytes(), nil
	}
	buf, err := bytebuffer.DecodeBase64(text)
	if err != nil {
		return nil, xisferr.Wrap(xisferr.InvalidValue, err, "decoding base64 data")
	}
	return buf.Bytes(), nil
}

// AttachmentFetcher fetches size raw (still-compressed) bytes at
// absolute file offset pos, e.g. for an attachment DataBlock.
type AttachmentFetcher func(pos, size int64) ([]byte, error)

// DecodeFromXML parses node's "location"/"compression"/"subblocks"
// attributes into a new DataBlock and, for embedded and inline
// locations, immediately decodes the resident bytes. For an
// attachment location, fetch is consulted: if nil, the returned
// DataBlock is left non-resident (attachmentPos/attachmentSize set,
// no bytes decoded yet) for the caller to resolve lazily later via
// ResolveAttachment; if non-nil, the attachment is fetched and
// decoded immediately.
func DecodeFromXML(node *xmlmapper.Node, fetch AttachmentFetcher) (*DataBlock, error) {
	db := &DataBlock{compressLevel: codec.DefaultLevel}

	if comp, ok := node.Attr("compression"); ok {
		if err := db.ParseCompressionAttribute(comp); err != nil {
			return nil, err
		}
	}
	if sb, ok := node.Attr("subblocks"); ok {
		if err := db.ParseSubBlocksAttribute(sb); err != nil {
			return nil, err
		}
	}

	locAttr, ok := node.Attr("location")
	if !ok {
		locAttr = "embedded"
	}
	loc, enc, pos, size, err := ParseLocationAttribute(locAttr)
	if err != nil {
		return nil, err
	}
	db.location = loc
	db.inlineEncoding = enc
	db.attachmentPos = pos
	db.attachmentSize = size

	switch loc {
	case LocationEmbedded:
		dataNode, ok := node.FirstChildNamed("Data")
		if !ok {
			return nil, xisferr.New(xisferr.MalformedHeader, "element %q has location=\"embedded\" but no <Data> child", node.Name)
		}
		encName, _ := dataNode.Attr("encoding")
		childEnc := InlineBase64
		if encName == "base16" {
			childEnc = InlineBase16
		}
		payload, err := decodeTransport(childEnc, dataNode.Text)
		if err != nil {
			return nil, err
		}
		raw, err := db.Read(payload)
		if err != nil {
			return nil, err
		}
		db.SetBytes(raw)
		return db, nil

	case LocationInline:
		payload, err := decodeTransport(enc, node.Text)
		if err != nil {
			return nil, err
		}
		raw, err := db.Read(payload)
		if err != nil {
			return nil, err
		}
		db.SetBytes(raw)
		return db, nil

	case LocationAttachment:
		if fetch == nil {
			return db, nil
		}
		payload, err := fetch(pos, size)
		if err != nil {
			return nil, err
		}
		raw, err := db.Read(payload)
		if err != nil {
			return nil, err
		}
		db.SetBytes(raw)
		db.attachmentPos = 0
		return db, nil
	}
	return nil, xisferr.New(xisferr.InvalidReference, "unrecognized location attribute %q", locAttr)
}

// ResolveAttachment fetches and decodes a DataBlock left non-resident
// by DecodeFromXML (called with a nil fetcher). It is a no-op if db
// is already resident.
func ResolveAttachment(db *DataBlock, fetch AttachmentFetcher) error {
	if db.IsResident() {
		return nil
	}
	payload, err := fetch(db.attachmentPos, db.attachmentSize)
	if err != nil {
		return err
	}
	raw, err := db.Read(payload)
	if err != nil {
		return err
	}
	db.SetBytes(raw)
	db.attachmentPos = 0
	return nil
}
