// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Tag and attribute names are registry tokens; class names and the id value are interned.
//  - Nodes carry a sibling index and a path code maintained by Document.

package dom

import (
	"iter"
	"strings"

	"github.com/dpotapov/go-htmldom/htmldata"
	"golang.org/x/net/html"
)

// A Node is a node in a parsed document. Links between nodes may be read freely, but the tree
// must be changed only through Document methods, which keep paths up to date.
type Node struct {
	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node

	Type html.NodeType

	// DataID is the tag token of an element. Data is the tag name of an element, or the
	// content of a text, comment or doctype node.
	DataID htmldata.TokenID
	Data   string

	Attr []Attribute

	// ClassIDs are the names in the class attribute and IDToken is the value of the id
	// attribute, interned case-sensitively.
	ClassIDs []htmldata.TokenID
	IDToken  htmldata.TokenID

	index int
	path  string
}

type Attribute struct {
	Key   string
	KeyID htmldata.TokenID
	Val   string
}

const whitespace = " \t\r\n\f"

// Index is the position of n among its siblings.
func (n *Node) Index() int {
	return n.index
}

// Path is the concatenation of the path codes of n and its ancestors. The document node has
// the empty path.
func (n *Node) Path() string {
	return n.path
}

// Depth is the number of ancestors of n below the document node.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil && p.Type != html.DocumentNode; p = p.Parent {
		d++
	}
	return d
}

// Location is the chain of element names from the document down to n, like /html/body/ul.
func (n *Node) Location() string {
	return location(n)
}

// Text returns the concatenated text of the direct text children of n.
func (n *Node) Text() string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// AttrVal returns the value of the attribute with the given token.
func (n *Node) AttrVal(key htmldata.TokenID) (string, bool) {
	for _, a := range n.Attr {
		if a.KeyID == key {
			return a.Val, true
		}
	}
	return "", false
}

func (n *Node) IsWhitespace() bool {
	return n.Type == html.TextNode && strings.TrimLeft(n.Data, whitespace) == ""
}

// Descendants yields the nodes below n in document order.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !yield(c) || !c.walk(yield) {
			return false
		}
	}
	return true
}

// link inserts c as a child of n, immediately before ref, or at the end when ref is nil.
//
// It will panic if c already has a parent or siblings.
func (n *Node) link(c, ref *Node) {
	if c.Parent != nil || c.PrevSibling != nil || c.NextSibling != nil {
		panic("dom: inserting an attached child Node")
	}
	var prev, next *Node
	if ref != nil {
		prev, next = ref.PrevSibling, ref
	} else {
		prev = n.LastChild
	}
	if prev != nil {
		prev.NextSibling = c
	} else {
		n.FirstChild = c
	}
	if next != nil {
		next.PrevSibling = c
	} else {
		n.LastChild = c
	}
	c.Parent = n
	c.PrevSibling = prev
	c.NextSibling = next
}

// unlink removes a node c that is a child of n. Afterwards, c will have no parent and no
// siblings.
//
// It will panic if c's parent is not n.
func (n *Node) unlink(c *Node) {
	if c.Parent != n {
		panic("dom: removing a non-child Node")
	}
	if n.FirstChild == c {
		n.FirstChild = c.NextSibling
	}
	if c.NextSibling != nil {
		c.NextSibling.PrevSibling = c.PrevSibling
	}
	if n.LastChild == c {
		n.LastChild = c.PrevSibling
	}
	if c.PrevSibling != nil {
		c.PrevSibling.NextSibling = c.NextSibling
	}
	c.Parent = nil
	c.PrevSibling = nil
	c.NextSibling = nil
}

// nodeStack is a stack of nodes.
type nodeStack []*Node

// pop pops the stack. It will panic if s is empty.
func (s *nodeStack) pop() *Node {
	i := len(*s)
	n := (*s)[i-1]
	*s = (*s)[:i-1]
	return n
}

// top returns the most recently pushed node, or nil if s is empty.
func (s *nodeStack) top() *Node {
	if i := len(*s); i > 0 {
		return (*s)[i-1]
	}
	return nil
}
