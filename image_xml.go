// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joxda/libXISF/internal/xmlmapper"
	"github.com/joxda/libXISF/lib/xisferr"
)

// pendingAttachment is one attachment-location DataBlock discovered
// while building a document, in document order. Writer walks these
// in order to append payloads and patch placeholder offsets.
type pendingAttachment struct {
	db      *DataBlock
	payload []byte
}

// --- Property ---

func propertyToNode(p Property, attachments *[]pendingAttachment) (*xmlmapper.Node, error) {
	node := xmlmapper.NewNode("Property")
	node.SetAttr("id", p.ID)
	node.SetAttr("type", p.Value.Kind().String())
	if p.Comment != "" {
		node.SetAttr("comment", p.Comment)
	}

	switch {
	case p.Value.Kind() == KindString:
		s, _ := p.Value.String2()
		node.Text = s
		return node, nil

	case p.Value.Kind().IsScalar():
		text, err := p.Value.FormatScalar()
		if err != nil {
			return nil, err
		}
		node.SetAttr("value", text)
		return node, nil

	case p.Value.Kind().IsVector():
		node.SetAttr("length", strconv.Itoa(p.Value.VectorLen()))
		raw, err := EncodeElements(p.Value)
		if err != nil {
			return nil, err
		}
		db := &DataBlock{}
		db.SetLocationEmbedded()
		payload, err := db.EncodeForXML(node, raw)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			*attachments = append(*attachments, pendingAttachment{db: db, payload: payload})
		}
		return node, nil

	case p.Value.Kind().IsMatrix():
		m, _ := p.Value.MatrixValue()
		node.SetAttr("rows", strconv.Itoa(m.Rows))
		node.SetAttr("columns", strconv.Itoa(m.Columns))
		raw, err := EncodeElements(p.Value)
		if err != nil {
			return nil, err
		}
		db := &DataBlock{}
		db.SetLocationEmbedded()
		payload, err := db.EncodeForXML(node, raw)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			*attachments = append(*attachments, pendingAttachment{db: db, payload: payload})
		}
		return node, nil
	}
	return nil, xisferr.New(xisferr.InvalidValue, "property %q has an unencodable value kind %v", p.ID, p.Value.Kind())
}

func nodeToProperty(node *xmlmapper.Node, fetch AttachmentFetcher) (Property, error) {
	id, _ := node.Attr("id")
	typeName, _ := node.Attr("type")
	comment, _ := node.Attr("comment")

	kind, ok := ParseKind(typeName)
	if !ok {
		return Property{}, xisferr.New(xisferr.InvalidValue, "property %q has unknown type %q", id, typeName)
	}

	switch {
	case kind == KindString:
		if v, ok := node.Attr("value"); ok {
			return Property{ID: id, Value: NewString(v), Comment: comment}, nil
		}
		return Property{ID: id, Value: NewString(node.Text), Comment: comment}, nil

	case kind.IsScalar():
		text, ok := node.Attr("value")
		if !ok {
			return Property{}, xisferr.New(xisferr.InvalidValue, "property %q has no value attribute", id)
		}
		v, err := ParseScalar(kind, text)
		if err != nil {
			return Property{}, err
		}
		return Property{ID: id, Value: v, Comment: comment}, nil

	case kind.IsVector():
		lengthText, ok := node.Attr("length")
		if !ok {
			return Property{}, xisferr.New(xisferr.InvalidValue, "vector property %q has no length attribute", id)
		}
		length, err := strconv.Atoi(lengthText)
		if err != nil {
			return Property{}, xisferr.Wrap(xisferr.InvalidValue, err, "vector property %q length", id)
		}
		db, err := DecodeFromXML(node, fetch)
		if err != nil {
			return Property{}, err
		}
		if !db.IsResident() {
			return Property{}, xisferr.New(xisferr.InvalidReference, "vector property %q attachment was not resolved", id)
		}
		v, err := DecodeVector(kind, db.Bytes())
		if err != nil {
			return Property{}, err
		}
		if v.VectorLen() != length {
			return Property{}, xisferr.New(xisferr.InvalidValue, "vector property %q: length attribute %d does not match decoded length %d", id, length, v.VectorLen())
		}
		return Property{ID: id, Value: v, Comment: comment}, nil

	case kind.IsMatrix():
		rowsText, hasRows := node.Attr("rows")
		colsText, hasCols := node.Attr("columns")
		if !hasRows || !hasCols {
			return Property{}, xisferr.New(xisferr.InvalidValue, "matrix property %q is missing rows/columns attributes", id)
		}
		rows, err := strconv.Atoi(rowsText)
		if err != nil {
			return Property{}, xisferr.Wrap(xisferr.InvalidValue, err, "matrix property %q rows", id)
		}
		cols, err := strconv.Atoi(colsText)
		if err != nil {
			return Property{}, xisferr.Wrap(xisferr.InvalidValue, err, "matrix property %q columns", id)
		}
		db, err := DecodeFromXML(node, fetch)
		if err != nil {
			return Property{}, err
		}
		if !db.IsResident() {
			return Property{}, xisferr.New(xisferr.InvalidReference, "matrix property %q attachment was not resolved", id)
		}
		v, err := DecodeMatrix(kind, rows, cols, db.Bytes())
		if err != nil {
			return Property{}, err
		}
		return Property{ID: id, Value: v, Comment: comment}, nil
	}
	return Property{}, xisferr.New(xisferr.InvalidValue, "property %q has unsupported type %q", id, typeName)
}

// --- FITSKeyword ---

func fitsKeywordToNode(kw FITSKeyword) *xmlmapper.Node {
	node := xmlmapper.NewNode("FITSKeyword")
	node.SetAttr("name", kw.Name)
	node.SetAttr("value", kw.Value)
	if kw.Comment != "" {
		node.SetAttr("comment", kw.Comment)
	}
	return node
}

func nodeToFITSKeyword(node *xmlmapper.Node) FITSKeyword {
	name, _ := node.Attr("name")
	value, _ := node.Attr("value")
	comment, _ := node.Attr("comment")
	return FITSKeyword{Name: name, Value: value, Comment: comment}
}

// --- ColorFilterArray ---

func cfaToNode(cfa ColorFilterArray) *xmlmapper.Node {
	node := xmlmapper.NewNode("ColorFilterArray")
	node.SetAttr("width", strconv.Itoa(cfa.Width))
	node.SetAttr("height", strconv.Itoa(cfa.Height))
	node.SetAttr("pattern", cfa.Pattern)
	return node
}

func nodeToCFA(node *xmlmapper.Node) (ColorFilterArray, error) {
	widthText, _ := node.Attr("width")
	heightText, _ := node.Attr("height")
	pattern, _ := node.Attr("pattern")
	width, err := strconv.Atoi(widthText)
	if err != nil {
		return ColorFilterArray{}, xisferr.Wrap(xisferr.InvalidValue, err, "ColorFilterArray width")
	}
	height, err := strconv.Atoi(heightText)
	if err != nil {
		return ColorFilterArray{}, xisferr.Wrap(xisferr.InvalidValue, err, "ColorFilterArray height")
	}
	return ColorFilterArray{Width: width, Height: height, Pattern: pattern}, nil
}

// --- Image ---

func imageToNode(img *Image, attachments *[]pendingAttachment) (*xmlmapper.Node, error) {
	node := xmlmapper.NewNode("Image")
	node.SetAttr("geometry", fmt.Sprintf("%d:%d:%d", img.width, img.height, img.channels))
	node.SetAttr("sampleFormat", img.sampleFormat.String())
	node.SetAttr("colorSpace", img.colorSpace.String())
	node.SetAttr("pixelStorage", img.pixelStorage.String())
	node.SetAttr("imageType", img.imageType.String())
	if img.sampleFormat.IsFloat() && !img.bounds.IsDefault() {
		node.SetAttr("bounds", fmt.Sprintf("%s:%s", formatBoundsValue(img.bounds.Lo), formatBoundsValue(img.bounds.Hi)))
	}

	payload, err := img.pixels.EncodeForXML(node, img.pixels.Bytes())
	if err != nil {
		return nil, err
	}
	if payload != nil {
		*attachments = append(*attachments, pendingAttachment{db: img.pixels, payload: payload})
	}

	for _, p := range img.properties {
		pNode, err := propertyToNode(p, attachments)
		if err != nil {
			return nil, err
		}
		node.AddChild(pNode)
	}
	for _, kw := range img.fitsKeywords {
		node.AddChild(fitsKeywordToNode(kw))
	}
	if img.cfa != nil {
		node.AddChild(cfaToNode(*img.cfa))
	}
	if img.iccProfile != nil {
		iccNode := xmlmapper.NewNode("ICCProfile")
		iccDB := &DataBlock{}
		iccDB.SetLocationEmbedded()
		iccPayload, err := iccDB.EncodeForXML(iccNode, img.iccProfile)
		if err != nil {
			return nil, err
		}
		if iccPayload != nil {
			*attachments = append(*attachments, pendingAttachment{db: iccDB, payload: iccPayload})
		}
		node.AddChild(iccNode)
	}
	return node, nil
}

func formatBoundsValue(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func nodeToImage(node *xmlmapper.Node, fetch AttachmentFetcher, lazyPixels bool) (*Image, error) {
	geometry, ok := node.Attr("geometry")
	if !ok {
		return nil, xisferr.New(xisferr.InvalidValue, "Image element has no geometry attribute")
	}
	width, height, channels, err := parseGeometry(geometry)
	if err != nil {
		return nil, err
	}

	sampleFormatName, _ := node.Attr("sampleFormat")
	img := &Image{
		width:         width,
		height:        height,
		channels:      channels,
		sampleFormat:  ParseSampleFormat(sampleFormatName),
		propertyIndex: make(map[string]int),
	}
	if v, ok := node.Attr("colorSpace"); ok {
		img.colorSpace = ParseColorSpace(v)
	}
	if v, ok := node.Attr("pixelStorage"); ok {
		img.pixelStorage = ParsePixelStorage(v)
	} else {
		img.pixelStorage = Planar
	}
	if v, ok := node.Attr("imageType"); ok {
		img.imageType = ParseImageType(v)
	}
	img.bounds = DefaultBounds
	if v, ok := node.Attr("bounds"); ok {
		b, err := parseBounds(v)
		if err != nil {
			return nil, err
		}
		img.bounds = b
	}

	var pixelFetch AttachmentFetcher = fetch
	if lazyPixels {
		pixelFetch = nil
	}
	pixels, err := DecodeFromXML(node, pixelFetch)
	if err != nil {
		return nil, err
	}
	img.pixels = pixels

	if img.pixels.IsResident() {
		want := img.pixelByteSize()
		if len(img.pixels.Bytes()) != want {
			return nil, xisferr.New(xisferr.InvalidValue, "image pixel payload is %d bytes, want %d for %dx%dx%d %s",
				len(img.pixels.Bytes()), want, img.width, img.height, img.channels, img.sampleFormat)
		}
	}

	for _, pNode := range node.ChildrenNamed("Property") {
		p, err := nodeToProperty(pNode, fetch)
		if err != nil {
			return nil, err
		}
		if err := img.AddProperty(p); err != nil {
			return nil, err
		}
	}
	for _, kwNode := range node.ChildrenNamed("FITSKeyword") {
		img.AddFITSKeyword(nodeToFITSKeyword(kwNode))
	}
	if cfaNode, ok := node.FirstChildNamed("ColorFilterArray"); ok {
		cfa, err := nodeToCFA(cfaNode)
		if err != nil {
			return nil, err
		}
		img.SetColorFilterArray(&cfa)
	}
	if iccNode, ok := node.FirstChildNamed("ICCProfile"); ok {
		iccDB, err := DecodeFromXML(iccNode, fetch)
		if err != nil {
			return nil, err
		}
		img.SetICCProfile(iccDB.Bytes())
	}

	return img, nil
}

func parseGeometry(s string) (width, height, channels int, err error) {
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return 0, 0, 0, xisferr.New(xisferr.InvalidValue, "geometry %q must be W:H:C", s)
	}
	width, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, xisferr.Wrap(xisferr.InvalidValue, err, "geometry %q width", s)
	}
	height, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, 0, xisferr.Wrap(xisferr.InvalidValue, err, "geometry %q height", s)
	}
	channels, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, 0, xisferr.Wrap(xisferr.InvalidValue, err, "geometry %q channels", s)
	}
	if width <= 0 || height <= 0 || channels <= 0 {
		return 0, 0, 0, xisferr.New(xisferr.InvalidValue, "geometry %q must be all positive", s)
	}
	return width, height, channels, nil
}

func parseBounds(s string) (Bounds, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 2 {
		return Bounds{}, xisferr.New(xisferr.InvalidValue, "bounds %q must be lo:hi", s)
	}
	lo, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Bounds{}, xisferr.Wrap(xisferr.InvalidValue, err, "bounds %q lo", s)
	}
	hi, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Bounds{}, xisferr.Wrap(xisferr.InvalidValue, err, "bounds %q hi", s)
	}
	return Bounds{Lo: lo, Hi: hi}, nil
}
