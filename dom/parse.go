// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Replaced the HTML5 insertion modes with the registry's tag action rules. The tree keeps
//    the shape of the source, with only the optional start and end tags filled in.
//  - Tag and attribute names are interned through htmldata.Registry.

package dom

import (
	"io"
	"log/slog"
	"strings"

	"github.com/dpotapov/go-htmldom/htmldata"
	"golang.org/x/net/html"
	a "golang.org/x/net/html/atom"
)

// Options configure Parse and ParseFragment. The zero value uses htmldata.Default(),
// htmldata.DefaultPathEncoding and discards log output.
type Options struct {
	Registry     *htmldata.Registry
	PathEncoding *htmldata.PathEncoding

	// Logger receives a debug record for every implied end tag and synthesized element.
	Logger *slog.Logger
}

// A builder turns the token stream of golang.org/x/net/html into a Document.
type builder struct {
	// z provides the tokens.
	z *html.Tokenizer
	// selfClosing is set while a self-closing start tag like <br/> is being processed.
	selfClosing bool

	doc *Document
	reg *htmldata.Registry

	// The stack of open elements.
	oe nodeStack

	// documentMode enables html, head and body inference.
	documentMode bool

	logger *slog.Logger
}

// Parse returns the Document for the HTML from the given Reader. A missing html element is
// added before the first element, and head and body are inferred from the content.
//
// On a fatal error, such as more children under one element than the path encoding can
// address, Parse returns a nil Document and a *BuildError.
func Parse(r io.Reader, opts Options) (*Document, error) {
	return parse(r, opts, true)
}

// ParseFragment is like Parse, but does not infer the html, head and body elements.
func ParseFragment(r io.Reader, opts Options) (*Document, error) {
	return parse(r, opts, false)
}

func parse(r io.Reader, opts Options, documentMode bool) (*Document, error) {
	b := &builder{
		z:            html.NewTokenizer(r),
		doc:          NewDocument(opts.Registry, opts.PathEncoding),
		documentMode: documentMode,
		logger:       opts.Logger,
	}
	b.reg = b.doc.reg
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := b.build(); err != nil {
		return nil, err
	}
	return b.doc, nil
}

// build runs the token loop. Running out of registry ids panics inside the registry; build
// reports that as a *BuildError instead.
func (b *builder) build() (err error) {
	defer func() {
		if r := recover(); r != nil {
			oe, ok := r.(*htmldata.OverflowError)
			if !ok {
				panic(r)
			}
			err = &BuildError{Path: location(b.top()), Err: oe}
		}
	}()
	return b.tokens()
}

func (b *builder) tokens() error {
	for {
		tt := b.z.Next()
		var err error
		switch tt {
		case html.ErrorToken:
			if err := b.z.Err(); err != io.EOF {
				return &BuildError{Path: location(b.top()), Err: err}
			}
			return nil
		case html.TextToken:
			err = b.addText(string(b.z.Text()))
		case html.StartTagToken:
			err = b.startTag()
		case html.SelfClosingTagToken:
			b.selfClosing = true
			err = b.startTag()
			b.selfClosing = false
		case html.EndTagToken:
			b.endTag()
		case html.CommentToken:
			err = b.addChild(&Node{Type: html.CommentNode, Data: string(b.z.Text())})
		case html.DoctypeToken:
			err = b.addChild(&Node{Type: html.DoctypeNode, Data: string(b.z.Text())})
		}
		if err != nil {
			return err
		}
	}
}

func (b *builder) top() *Node {
	if n := b.oe.top(); n != nil {
		return n
	}
	return b.doc.Root
}

// addChild appends n to the top element, and pushes n onto the stack of open elements if it
// is an element node.
func (b *builder) addChild(n *Node) error {
	parent := b.top()
	if err := b.doc.AppendChild(parent, n); err != nil {
		return newBuildError(parent, n, err)
	}
	if n.Type == html.ElementNode {
		b.oe = append(b.oe, n)
	}
	return nil
}

// addText adds text to the preceding node if it is a text node, or else it calls addChild
// with a new text node.
func (b *builder) addText(text string) error {
	if text == "" {
		return nil
	}
	if b.documentMode && strings.TrimLeft(text, whitespace) != "" {
		if err := b.implyTags(htmldata.NoToken); err != nil {
			return err
		}
	}

	if n := b.top().LastChild; n != nil && n.Type == html.TextNode {
		n.Data += text
		return nil
	}
	return b.addChild(&Node{Type: html.TextNode, Data: text})
}

// internName returns the canonical name and the token for a lower-cased tag or attribute
// name read from the tokenizer. Names known to the atom table are interned without
// allocating.
func (b *builder) internName(name []byte) (string, htmldata.TokenID) {
	if at := a.Lookup(name); at != 0 {
		s := at.String()
		return s, b.reg.TokenID(s)
	}
	id := b.reg.TokenIDBytes(name)
	return b.reg.Name(id), id
}

func (b *builder) startTag() error {
	name, hasAttr := b.z.TagName()
	data, id := b.internName(name)

	n := &Node{Type: html.ElementNode, DataID: id, Data: data}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = b.z.TagAttr()
		b.addAttr(n, key, string(val))
	}

	if b.documentMode {
		if dup := b.sectioningElement(id); dup != nil {
			b.mergeAttrs(dup, n)
			return nil
		}
	}

	if err := b.implyTags(id); err != nil {
		return err
	}
	if err := b.addChild(n); err != nil {
		return err
	}
	if b.selfClosing || !b.reg.ChildrenAllowed(id) {
		b.oe.pop()
	}
	return nil
}

// addAttr appends an attribute unless n already has one with the same name.
func (b *builder) addAttr(n *Node, key []byte, val string) {
	k, kid := b.internName(key)
	if _, ok := n.AttrVal(kid); ok {
		return
	}
	n.Attr = append(n.Attr, Attribute{Key: k, KeyID: kid, Val: val})

	switch kid {
	case htmldata.AttrClass:
		for _, c := range strings.Fields(val) {
			n.ClassIDs = append(n.ClassIDs, b.reg.TokenIDCaseSensitive(c))
		}
	case htmldata.AttrID:
		if val != "" {
			n.IDToken = b.reg.TokenIDCaseSensitive(val)
		}
	}
}

// sectioningElement returns the html, head or body element already in the document for a
// repeated start tag with the same name.
func (b *builder) sectioningElement(id htmldata.TokenID) *Node {
	if len(b.oe) == 0 {
		return nil
	}
	root := b.oe[0]
	switch id {
	case htmldata.TagHTML:
		return root
	case htmldata.TagHead, htmldata.TagBody:
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataID == id {
				return c
			}
		}
	}
	return nil
}

// mergeAttrs copies the attributes of src that dst lacks.
func (b *builder) mergeAttrs(dst, src *Node) {
	for _, at := range src.Attr {
		if _, ok := dst.AttrVal(at.KeyID); ok {
			continue
		}
		dst.Attr = append(dst.Attr, at)
		switch at.KeyID {
		case htmldata.AttrClass:
			dst.ClassIDs = src.ClassIDs
		case htmldata.AttrID:
			dst.IDToken = src.IDToken
		}
	}
}

// implyTags closes and opens elements until next can be inserted under the top element.
func (b *builder) implyTags(next htmldata.TokenID) error {
	if b.documentMode && len(b.oe) == 0 && next != htmldata.TagHTML {
		if err := b.synthesize(htmldata.TagHTML, next); err != nil {
			return err
		}
	}

	for {
		open := b.top()
		if open == b.doc.Root {
			return nil
		}

		res := b.reg.ResolveTagAction(open.DataID, next, b.documentMode)
		switch res.Action {
		case htmldata.Close:
			b.oe.pop()
			b.logger.Debug("implied end tag",
				slog.String("tag", open.Data),
				slog.String("next", b.reg.Name(next)))
		case htmldata.CreateParent:
			// Metadata after an explicit </head> goes back into the existing head.
			if sec := b.sectioningElement(res.Tag); sec != nil && res.Tag != htmldata.TagHTML {
				b.oe = append(b.oe, sec)
				b.logger.Debug("reopened element",
					slog.String("tag", sec.Data),
					slog.String("next", b.reg.Name(next)))
				continue
			}
			if err := b.synthesize(res.Tag, next); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (b *builder) synthesize(tag, next htmldata.TokenID) error {
	n := &Node{Type: html.ElementNode, DataID: tag, Data: b.reg.Name(tag)}
	b.logger.Debug("implied start tag",
		slog.String("tag", n.Data),
		slog.String("next", b.reg.Name(next)))
	return b.addChild(n)
}

// endTag pops the stack of open elements up to and including the nearest element with the
// same name. End tags without a matching open element are ignored.
func (b *builder) endTag() {
	name, _ := b.z.TagName()
	id, ok := b.lookupName(name)
	if !ok {
		return
	}
	if b.documentMode && (id == htmldata.TagHTML || id == htmldata.TagBody) {
		return
	}

	for i := len(b.oe) - 1; i >= 0; i-- {
		if b.oe[i].DataID == id {
			b.oe = b.oe[:i]
			return
		}
	}
}

// lookupName finds the token of a name without interning it: a name that was never seen
// cannot match an open element.
func (b *builder) lookupName(name []byte) (htmldata.TokenID, bool) {
	if at := a.Lookup(name); at != 0 {
		return b.reg.Lookup(at.String(), true)
	}
	return b.reg.Lookup(string(name), true)
}
