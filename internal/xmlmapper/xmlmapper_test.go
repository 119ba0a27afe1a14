// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xmlmapper

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteDocumentAttributeOrderPreserved(t *testing.T) {
	root := NewNode("xisf")
	root.SetAttr("version", "1.0")
	root.SetAttr("xmlns", "http://www.pixinsight.com/xisf")

	var buf bytes.Buffer
	if err := WriteDocument(&buf, root); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	vIdx := strings.Index(out, `version="1.0"`)
	xIdx := strings.Index(out, `xmlns="http://www.pixinsight.com/xisf"`)
	if vIdx == -1 || xIdx == -1 || vIdx > xIdx {
		t.Errorf("attribute order not preserved: %s", out)
	}
}

func TestWriteDocumentEscapesText(t *testing.T) {
	root := NewNode("Property")
	root.Text = `a < b & "c"`
	var buf bytes.Buffer
	if err := WriteDocument(&buf, root); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<b") {
		t.Errorf("text was not escaped: %s", buf.String())
	}
}

func TestParseDocumentRoundTrip(t *testing.T) {
	src := `<?xml version="1.0"?>
<xisf version="1.0" xmlns="http://www.pixinsight.com/xisf">
  <Image geometry="5:7:1" sampleFormat="UInt16">
    <Property id="Observer:Name" type="String">hello</Property>
  </Image>
  <UnknownFutureElement foo="bar"/>
</xisf>`

	root, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if root.Name != "xisf" {
		t.Fatalf("root.Name = %q, want %q", root.Name, "xisf")
	}
	v, ok := root.Attr("version")
	if !ok || v != "1.0" {
		t.Errorf("version attr = %q, %v", v, ok)
	}

	img, ok := root.FirstChildNamed("Image")
	if !ok {
		t.Fatal("expected an Image child")
	}
	geom, ok := img.Attr("geometry")
	if !ok || geom != "5:7:1" {
		t.Errorf("geometry attr = %q, %v", geom, ok)
	}

	prop, ok := img.FirstChildNamed("Property")
	if !ok {
		t.Fatal("expected a Property child")
	}
	if prop.Text != "hello" {
		t.Errorf("Property text = %q, want %q", prop.Text, "hello")
	}

	unknown, ok := root.FirstChildNamed("UnknownFutureElement")
	if !ok {
		t.Fatal("unknown elements should still be parsed into the tree (skipping happens at the mapping layer, not here)")
	}
	if foo, _ := unknown.Attr("foo"); foo != "bar" {
		t.Errorf("foo attr = %q", foo)
	}
}

func TestParseDocumentStripsNamespacePrefixes(t *testing.T) {
	src := `<xisf xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="x"></xisf>`
	root, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := root.Attr("schemaLocation"); !ok {
		t.Errorf("expected the schemaLocation attribute with its namespace prefix stripped, attrs = %v", root.Attrs)
	}
}

func TestParseDocumentRejectsEmptyInput(t *testing.T) {
	if _, err := ParseDocument([]byte("")); err == nil {
		t.Error("ParseDocument on empty input should fail")
	}
}
