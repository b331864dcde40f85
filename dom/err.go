package dom

import (
	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// BuildError reports a failure to add a node to the tree. Path locates the element the node
// was to be added to, like /html/body/ul.
type BuildError struct {
	Path string
	Err  error

	doc *etree.Document
}

// newBuildError describes a failure to append n to parent, keeping a few of parent's
// children around the insertion point as context.
func newBuildError(parent, n *Node, err error) *BuildError {
	d := etree.NewDocument()
	ctx := buildErrorContext(parent, n)
	for _, c := range append([]etree.Token(nil), ctx.Child...) {
		d.AddChild(c)
	}
	return &BuildError{Path: location(parent), Err: err, doc: d}
}

func (e *BuildError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// HTMLContext renders the markup around the failure: the parent element with the offending
// node and up to two siblings before it. Elided parts show as "...".
func (e *BuildError) HTMLContext() string {
	if e.doc == nil {
		return ""
	}
	s, err := e.doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// contextSiblings is the number of siblings kept before the offending node.
const contextSiblings = 2

// buildErrorContext creates an XML tree around n as the prospective last child of parent.
func buildErrorContext(parent, n *Node) *etree.Element {
	doc := &etree.Element{}

	var prev []*Node
	elided := false
	for c := parent.LastChild; c != nil; c = c.PrevSibling {
		if c.IsWhitespace() {
			continue
		}
		if len(prev) == contextSiblings {
			elided = true
			break
		}
		prev = append(prev, c)
	}
	if elided {
		doc.AddChild(etree.NewText("..."))
	}
	for i := len(prev) - 1; i >= 0; i-- {
		addContextToken(doc, prev[i])
	}
	addContextToken(doc, n)

	if parent.Type != html.ElementNode {
		return doc
	}
	doc.Tag = parent.Data
	for _, at := range parent.Attr {
		doc.CreateAttr(at.Key, at.Val)
	}
	wrapper := &etree.Element{}
	wrapper.AddChild(doc)
	return wrapper
}

// addContextToken appends a shallow copy of n: elements keep their attributes and text, deeper
// content is elided.
func addContextToken(doc *etree.Element, n *Node) {
	switch n.Type {
	case html.ElementNode:
		el := doc.CreateElement(n.Data)
		for _, at := range n.Attr {
			el.CreateAttr(at.Key, at.Val)
		}
		switch {
		case n.FirstChild == nil:
		case n.FirstChild == n.LastChild && n.FirstChild.Type == html.TextNode:
			el.SetText(n.FirstChild.Data)
		default:
			el.AddChild(etree.NewText("..."))
		}
	case html.TextNode:
		if !n.IsWhitespace() {
			doc.AddChild(etree.NewText(n.Data))
		}
	case html.CommentNode:
		doc.CreateComment(n.Data)
	}
}
