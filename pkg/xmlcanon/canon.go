// Copyright © 2026 One Concern

// Package xmlcanon rewrites metadata XML files into a canonical, compact
// form: child elements sorted by a configurable order, one leaf element per
// line, stable output suitable for diffing between retrieves.
package xmlcanon

import (
	"bytes"
	"encoding/xml"
	"io"
	"sort"
	"strings"

	"github.com/oneconcern/orgsync/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// SortOrder selects how sibling elements are reordered
type SortOrder string

const (
	// SimpleFirst places leaf elements before nested ones, each group
	// alphabetically ascending
	SimpleFirst SortOrder = "simple-first"

	// AlphabetAsc orders siblings by tag name ascending
	AlphabetAsc SortOrder = "alphabet-asc"

	// AlphabetDesc orders siblings by tag name descending
	AlphabetDesc SortOrder = "alphabet-desc"
)

// ErrUnknownSortOrder rejects unrecognized sort order names
var ErrUnknownSortOrder = errors.New("unknown sort order")

// ParseSortOrder validates a sort order name
func ParseSortOrder(name string) (SortOrder, error) {
	switch SortOrder(name) {
	case SimpleFirst, AlphabetAsc, AlphabetDesc:
		return SortOrder(name), nil
	default:
		return "", ErrUnknownSortOrder.WrapMessage("%q", name)
	}
}

const header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Option configures a Canonicalizer
type Option func(*Canonicalizer)

// WithFs sets the file system used for in-place rewrites
func WithFs(fs afero.Fs) Option {
	return func(c *Canonicalizer) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithOrder sets the sibling sort order
func WithOrder(order SortOrder) Option {
	return func(c *Canonicalizer) {
		c.order = order
	}
}

// Logger injects a logging facility
func Logger(l *zap.Logger) Option {
	return func(c *Canonicalizer) {
		if l != nil {
			c.l = l
		}
	}
}

// Canonicalizer rewrites XML files in place
type Canonicalizer struct {
	fs    afero.Fs
	order SortOrder
	l     *zap.Logger
}

// New builds a Canonicalizer, defaulting to simple-first order on the OS
// file system
func New(opts ...Option) *Canonicalizer {
	c := &Canonicalizer{
		fs:    afero.NewOsFs(),
		order: SimpleFirst,
		l:     zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

// CanonicalizeFile rewrites one XML file in place
func (c *Canonicalizer) CanonicalizeFile(path string) error {
	raw, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return err
	}
	out, err := Canonicalize(raw, c.order)
	if err != nil {
		return err
	}
	c.l.Debug("canonicalized file",
		zap.String("path", path),
		zap.Int("before", len(raw)),
		zap.Int("after", len(out)),
	)
	return afero.WriteFile(c.fs, path, out, 0600)
}

// Canonicalize transforms one XML document
func Canonicalize(raw []byte, order SortOrder) ([]byte, error) {
	root := &node{}
	if err := xml.Unmarshal(raw, root); err != nil {
		return nil, err
	}
	root.sortChildren(order)

	var buf bytes.Buffer
	buf.WriteString(header)
	root.render(&buf, 0)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// node is a generic XML element: metadata files carry no mixed content, so
// an element either holds text or child elements.
type node struct {
	name     xml.Name
	attrs    []xml.Attr
	text     string
	children []*node
}

func (n *node) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	n.name = start.Name
	n.attrs = start.Attr
	var text strings.Builder
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &node{}
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			n.children = append(n.children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if len(n.children) == 0 {
				n.text = text.String()
			}
			return nil
		}
	}
	return nil
}

func (n *node) sortChildren(order SortOrder) {
	for _, child := range n.children {
		child.sortChildren(order)
	}
	sort.SliceStable(n.children, func(i, j int) bool {
		a, b := n.children[i], n.children[j]
		switch order {
		case AlphabetDesc:
			return a.name.Local > b.name.Local
		case SimpleFirst:
			aLeaf, bLeaf := len(a.children) == 0, len(b.children) == 0
			if aLeaf != bLeaf {
				return aLeaf
			}
			return a.name.Local < b.name.Local
		default:
			return a.name.Local < b.name.Local
		}
	})
}

func (n *node) render(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("    ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(n.name.Local)
	for _, attr := range n.attrs {
		buf.WriteByte(' ')
		renderAttrName(buf, attr.Name)
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(attr.Value))
		buf.WriteByte('"')
	}

	if len(n.children) == 0 {
		text := strings.TrimSpace(n.text)
		if text == "" {
			buf.WriteString("/>")
			return
		}
		buf.WriteByte('>')
		_ = xml.EscapeText(buf, []byte(text))
		buf.WriteString("</")
		buf.WriteString(n.name.Local)
		buf.WriteByte('>')
		return
	}

	buf.WriteByte('>')
	for _, child := range n.children {
		buf.WriteByte('\n')
		child.render(buf, depth+1)
	}
	buf.WriteByte('\n')
	buf.WriteString(indent)
	buf.WriteString("</")
	buf.WriteString(n.name.Local)
	buf.WriteByte('>')
}

func renderAttrName(buf *bytes.Buffer, name xml.Name) {
	// the generic decoder resolves xmlns attributes to their URL space;
	// re-emit them in their declaration form
	if name.Space == "xmlns" {
		buf.WriteString("xmlns:")
		buf.WriteString(name.Local)
		return
	}
	if name.Local == "xmlns" {
		buf.WriteString("xmlns")
		return
	}
	buf.WriteString(name.Local)
}
