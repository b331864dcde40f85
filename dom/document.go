package dom

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dpotapov/go-htmldom/htmldata"
	"golang.org/x/net/html"
)

// Document owns a node tree together with the registry its tokens come from and the path
// encoding its node paths are built with.
type Document struct {
	Root *Node

	reg *htmldata.Registry
	enc *htmldata.PathEncoding
}

// NewDocument returns an empty document. Nil arguments select htmldata.Default() and
// htmldata.DefaultPathEncoding.
func NewDocument(reg *htmldata.Registry, enc *htmldata.PathEncoding) *Document {
	if reg == nil {
		reg = htmldata.Default()
	}
	if enc == nil {
		enc = htmldata.DefaultPathEncoding
	}
	return &Document{
		Root: &Node{Type: html.DocumentNode},
		reg:  reg,
		enc:  enc,
	}
}

func (d *Document) Registry() *htmldata.Registry { return d.reg }

func (d *Document) PathEncoding() *htmldata.PathEncoding { return d.enc }

// NewElement returns a detached element named name.
func (d *Document) NewElement(name string) *Node {
	id := d.reg.TokenID(name)
	return &Node{Type: html.ElementNode, DataID: id, Data: d.reg.Name(id)}
}

// NewText returns a detached text node.
func (d *Document) NewText(text string) *Node {
	return &Node{Type: html.TextNode, Data: text}
}

// AppendChild adds c as the last child of parent. It fails with an error matching
// htmldata.ErrOverflow when parent already has as many children as the path encoding can
// address; the tree is left unchanged then.
//
// It will panic if c already has a parent or siblings.
func (d *Document) AppendChild(parent, c *Node) error {
	return d.InsertBefore(parent, c, nil)
}

// InsertBefore inserts c as a child of parent, immediately before ref, or at the end when ref
// is nil. The following siblings and their subtrees get new paths.
func (d *Document) InsertBefore(parent, c, ref *Node) error {
	if ref != nil && ref.Parent != parent {
		return fmt.Errorf("dom: insert before a node that is not a child of %s", location(parent))
	}

	count := 0
	if parent.LastChild != nil {
		count = parent.LastChild.index + 1
	}
	if _, err := d.enc.Encode(count); err != nil {
		return err
	}

	parent.link(c, ref)
	return d.renumber(parent, c)
}

// RemoveChild detaches c from parent. The detached subtree is re-addressed as if c were a
// root.
func (d *Document) RemoveChild(parent, c *Node) error {
	next := c.NextSibling
	parent.unlink(c)
	c.index = 0
	if err := d.reindex(c, ""); err != nil {
		return err
	}
	if next != nil {
		return d.renumber(parent, next)
	}
	return nil
}

// renumber assigns indexes and paths to from and every sibling after it.
func (d *Document) renumber(parent, from *Node) error {
	i := 0
	if from.PrevSibling != nil {
		i = from.PrevSibling.index + 1
	}
	for c := from; c != nil; c = c.NextSibling {
		code, err := d.enc.Encode(i)
		if err != nil {
			return err
		}
		c.index = i
		if err := d.reindex(c, parent.path+code); err != nil {
			return err
		}
		i++
	}
	return nil
}

// reindex sets the path of n and recomputes the subtree below it.
func (d *Document) reindex(n *Node, path string) error {
	n.path = path
	if n.FirstChild == nil {
		return nil
	}
	return d.renumber(n, n.FirstChild)
}

// Depth is the number of path segments of n, which equals n.Depth()+1 for attached nodes.
func (d *Document) Depth(n *Node) int {
	return d.enc.Depth(n.path)
}

// Contains reports whether b is a descendant of a. Both nodes must belong to d.
func (d *Document) Contains(a, b *Node) bool {
	return len(b.path) > len(a.path) && strings.HasPrefix(b.path, a.path)
}

// Compare orders nodes of d by their position in the document: ancestors before descendants,
// earlier siblings before later ones.
func (d *Document) Compare(a, b *Node) int {
	return strings.Compare(a.path, b.path)
}

// SortNodes sorts nodes of d into document order.
func (d *Document) SortNodes(nodes []*Node) {
	slices.SortFunc(nodes, d.Compare)
}

// HasClass reports whether the class attribute of n lists name, compared case-sensitively.
func (d *Document) HasClass(n *Node, name string) bool {
	id, ok := d.reg.Lookup(name, true)
	return ok && slices.Contains(n.ClassIDs, id)
}

// ElementsByTag returns the elements named name in document order.
func (d *Document) ElementsByTag(name string) []*Node {
	id, ok := d.reg.Lookup(name, false)
	if !ok {
		return nil
	}
	var res []*Node
	for n := range d.Root.Descendants() {
		if n.Type == html.ElementNode && n.DataID == id {
			res = append(res, n)
		}
	}
	return res
}

// location describes where n is, for error messages: /html/body/ul.
func location(n *Node) string {
	var parts []string
	for ; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		switch n.Type {
		case html.ElementNode:
			parts = append(parts, n.Data)
		case html.TextNode:
			parts = append(parts, "#text")
		case html.CommentNode:
			parts = append(parts, "#comment")
		default:
			parts = append(parts, "#doctype")
		}
	}
	slices.Reverse(parts)
	return "/" + strings.Join(parts, "/")
}
