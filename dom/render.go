// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Void and boolean handling comes from htmldata.Registry instead of fixed tables.
//  - Attribute values pick their quotes with htmldata.EncodeAttributeValue.

package dom

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/dpotapov/go-htmldom/htmldata"
	"go4.org/bytereplacer"
	"golang.org/x/net/html"
)

type RenderOptions struct {
	// QuoteAllAttributes quotes attribute values even where HTML allows them bare.
	QuoteAllAttributes bool
}

type writer interface {
	io.Writer
	io.ByteWriter
	WriteString(string) (int, error)
}

var (
	textEscaper = bytereplacer.New("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = bytereplacer.New("&", "&amp;")
)

var errPlaintextAbort = errors.New("dom: internal error (plaintext abort)")

// Render writes the whole document.
func (d *Document) Render(w io.Writer, opts RenderOptions) error {
	return d.RenderNode(w, d.Root, opts)
}

// RenderNode writes the HTML for n and its subtree.
//
// Text is escaped, except inside raw text elements such as script and style. Boolean
// attributes are written as a bare name. Elements that cannot have children get no end tag.
func (d *Document) RenderNode(w io.Writer, n *Node, opts RenderOptions) error {
	r := renderer{reg: d.reg, opts: opts}
	if x, ok := w.(writer); ok {
		return r.render(x, n)
	}
	buf := bufio.NewWriter(w)
	if err := r.render(buf, n); err != nil {
		return err
	}
	return buf.Flush()
}

type renderer struct {
	reg  *htmldata.Registry
	opts RenderOptions
}

func (r *renderer) render(w writer, n *Node) error {
	err := r.render1(w, n)
	if err == errPlaintextAbort {
		err = nil
	}
	return err
}

func (r *renderer) render1(w writer, n *Node) error {
	switch n.Type {
	case html.ErrorNode:
		return errors.New("dom: cannot render an ErrorNode node")
	case html.TextNode:
		_, err := w.Write(textEscaper.Replace([]byte(n.Data)))
		return err
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := r.render1(w, c); err != nil {
				return err
			}
		}
		return nil
	case html.ElementNode:
		// No-op.
	case html.CommentNode:
		if _, err := w.WriteString("<!--"); err != nil {
			return err
		}
		if _, err := w.WriteString(n.Data); err != nil {
			return err
		}
		_, err := w.WriteString("-->")
		return err
	case html.DoctypeNode:
		if _, err := w.WriteString("<!DOCTYPE "); err != nil {
			return err
		}
		if _, err := w.WriteString(n.Data); err != nil {
			return err
		}
		return w.WriteByte('>')
	default:
		return fmt.Errorf("dom: unknown node type %v", n.Type)
	}

	// Render the <xxx> opening tag.
	if err := w.WriteByte('<'); err != nil {
		return err
	}
	if _, err := w.WriteString(n.Data); err != nil {
		return err
	}
	for _, a := range n.Attr {
		if err := r.renderAttr(w, a); err != nil {
			return err
		}
	}
	if err := w.WriteByte('>'); err != nil {
		return err
	}

	if !r.reg.ChildrenAllowed(n.DataID) && n.FirstChild == nil {
		return nil
	}

	// Render any child nodes.
	switch n.Data {
	case "iframe", "noembed", "noframes", "plaintext", "script", "style", "xmp":
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				if _, err := w.WriteString(c.Data); err != nil {
					return err
				}
			} else {
				if err := r.render1(w, c); err != nil {
					return err
				}
			}
		}
		if n.Data == "plaintext" {
			// Don't render anything else. <plaintext> must be the
			// last element in the file, with no closing tag.
			return errPlaintextAbort
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := r.render1(w, c); err != nil {
				return err
			}
		}
	}

	// Render the </xxx> closing tag.
	if _, err := w.WriteString("</"); err != nil {
		return err
	}
	if _, err := w.WriteString(n.Data); err != nil {
		return err
	}
	return w.WriteByte('>')
}

func (r *renderer) renderAttr(w writer, a Attribute) error {
	if err := w.WriteByte(' '); err != nil {
		return err
	}
	if _, err := w.WriteString(a.Key); err != nil {
		return err
	}
	if r.reg.IsBoolean(a.KeyID) {
		return nil
	}

	val := string(attrEscaper.Replace([]byte(a.Val)))
	val, quote := htmldata.EncodeAttributeValue(val, r.opts.QuoteAllAttributes)
	if _, err := w.WriteString("="); err != nil {
		return err
	}
	if _, err := w.WriteString(quote); err != nil {
		return err
	}
	if _, err := w.WriteString(val); err != nil {
		return err
	}
	_, err := w.WriteString(quote)
	return err
}
