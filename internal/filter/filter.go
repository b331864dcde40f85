// Package filter selects elements of a dom.Document with expr-lang boolean expressions, such as
//
//	tag == "li" && depth > 2
//	"nav" in classes || attr["role"] == "navigation"
//	hasClass("item") && text contains "Total"
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dpotapov/go-htmldom/dom"
	"github.com/dpotapov/go-htmldom/htmldata"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"golang.org/x/net/html"
)

// Env is what a filter expression sees for one element.
type Env struct {
	Tag     string            `expr:"tag"`
	Depth   int               `expr:"depth"`
	Path    string            `expr:"path"`
	ID      string            `expr:"id"`
	Classes []string          `expr:"classes"`
	Attr    map[string]string `expr:"attr"`
	Text    string            `expr:"text"`

	HasClass func(name string) bool `expr:"hasClass"`
}

type Filter struct {
	src  string
	prog *vm.Program
}

// Compile checks src against Env and requires it to produce a bool.
func Compile(src string) (*Filter, error) {
	prog, err := expr.Compile(src,
		expr.Env(Env{}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return &Filter{src: src, prog: prog}, nil
}

func (f *Filter) String() string {
	return f.src
}

// Match evaluates the filter for n. Nodes other than elements never match.
func (f *Filter) Match(reg *htmldata.Registry, n *dom.Node) (bool, error) {
	if n.Type != html.ElementNode {
		return false, nil
	}
	res, err := expr.Run(f.prog, NewEnv(reg, n))
	if err != nil {
		return false, fmt.Errorf("run filter %q at %s: %w", f.src, n.Location(), err)
	}
	ok, _ := res.(bool)
	return ok, nil
}

// Select returns the elements of d that match f, in document order.
func (f *Filter) Select(d *dom.Document) ([]*dom.Node, error) {
	var res []*dom.Node
	for n := range d.Root.Descendants() {
		ok, err := f.Match(d.Registry(), n)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, n)
		}
	}
	return res, nil
}

// NewEnv collects the values a filter expression can refer to for element n.
func NewEnv(reg *htmldata.Registry, n *dom.Node) Env {
	env := Env{
		Tag:   n.Data,
		Depth: n.Depth(),
		Path:  n.Location(),
		ID:    reg.Name(n.IDToken),
		Attr:  make(map[string]string, len(n.Attr)),
		Text:  strings.TrimSpace(n.Text()),
	}
	for _, id := range n.ClassIDs {
		if name := reg.Name(id); !slices.Contains(env.Classes, name) {
			env.Classes = append(env.Classes, name)
		}
	}
	for _, a := range n.Attr {
		env.Attr[a.Key] = a.Val
	}
	env.HasClass = func(name string) bool {
		return slices.Contains(env.Classes, name)
	}
	return env
}
