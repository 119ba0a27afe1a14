// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

// Package xmlmapper is a minimal DOM layer shared by the Reader and
// Writer: a Node tree with ordered attributes, built on the standard
// library's encoding/xml for tokenizing and escaping. No third-party
// XML DOM library appears anywhere in the retrieved reference corpus
// and XML parsing itself is explicitly out of scope as a concern to
// reimplement, so encoding/xml is used directly rather than hand-rolled.
//
// A plain token-stream DOM (rather than encoding/xml's struct-tag
// Unmarshal) is used because the Writer must control attribute order
// exactly and the Reader must tolerate unknown elements and attributes
// without a fixed schema, both awkward to express with struct tags.
package xmlmapper

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Attr is one XML attribute, in document order.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of the DOM tree. Text holds character data that
// is a direct child of this element (XISF never mixes text and
// element children within one node in a way this module needs to
// preserve).
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// NewNode creates a Node with no attributes or children.
func NewNode(name string) *Node { return &Node{Name: name} }

// SetAttr appends an attribute. Callers are responsible for ordering
// calls the way they want attributes to appear on the wire.
func (n *Node) SetAttr(name, value string) *Node {
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// Attr returns the value of the named attribute and whether it was
// present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AddChild appends a child node and returns it, for chained building.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// ChildrenNamed returns n's direct children whose local name matches
// name, in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildNamed returns n's first direct child named name, if any.
func (n *Node) FirstChildNamed(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// WriteDocument serializes root as a complete XML document: the
// standard declaration line followed by root and its descendants,
// attributes in the order they were added, text content escaped per
// XML rules.
func WriteDocument(w io.Writer, root *Node) error {
	if _, err := io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`); err != nil {
		return err
	}
	return writeNode(w, root)
}

func writeNode(w io.Writer, n *Node) error {
	if _, err := fmt.Fprintf(w, "<%s", n.Name); err != nil {
		return err
	}
	for _, a := range n.Attrs {
		if _, err := fmt.Fprintf(w, ` %s="`, a.Name); err != nil {
			return err
		}
		if err := xml.EscapeText(w, []byte(a.Value)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `"`); err != nil {
			return err
		}
	}
	if len(n.Children) == 0 && n.Text == "" {
		_, err := io.WriteString(w, "/>")
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if n.Text != "" {
		if err := xml.EscapeText(w, []byte(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := writeNode(w, c); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "</%s>", n.Name)
	return err
}

// ParseDocument parses an XML document into a Node tree. Namespace
// prefixes are stripped from both element and attribute names, XISF
// readers match on local name only, the way the format's own
// "unknown elements are skipped" tolerance rule implies.
func ParseDocument(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	var stack []*Node
	var root *Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: localName(t.Name)}
			for _, a := range t.Attr {
				node.Attrs = append(node.Attrs, Attr{Name: localName(a.Name), Value: a.Value})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			} else {
				root = node
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("xmlmapper: unbalanced end element %q", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				text := strings.TrimSpace(string(t))
				if text != "" {
					stack[len(stack)-1].Text += text
				}
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("xmlmapper: document has no root element")
	}
	return root, nil
}

func localName(n xml.Name) string { return n.Local }
