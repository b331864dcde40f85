package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dpotapov/go-htmldom/dom"
	"github.com/dpotapov/go-htmldom/htmldata"
	"github.com/dpotapov/go-htmldom/internal/filter"
	"github.com/fatih/color"
	"golang.org/x/net/html"
)

type treeOptions struct {
	input    string
	fragment bool
	render   bool
	quoteAll bool
	filter   string
	paths    bool
	noColor  bool
	logger   *slog.Logger
}

type palette struct {
	tag, attr, text, comment, path *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		tag:     color.New(color.FgCyan, color.Bold),
		attr:    color.New(color.FgYellow),
		text:    color.New(color.FgGreen),
		comment: color.New(color.FgHiBlack),
		path:    color.New(color.FgMagenta),
	}
	if noColor {
		for _, c := range []*color.Color{p.tag, p.attr, p.text, p.comment, p.path} {
			c.DisableColor()
		}
	}
	return p
}

func runTree(opts *treeOptions, stdin io.Reader, out io.Writer) error {
	var f *filter.Filter
	if opts.filter != "" {
		var err error
		if f, err = filter.Compile(opts.filter); err != nil {
			return err
		}
	}

	in := stdin
	if opts.input != "-" {
		file, err := os.Open(opts.input)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	popts := dom.Options{Logger: opts.logger}
	if opts.paths {
		popts.PathEncoding = htmldata.DebugPathEncoding
	}
	parse := dom.Parse
	if opts.fragment {
		parse = dom.ParseFragment
	}
	doc, err := parse(in, popts)
	if err != nil {
		var be *dom.BuildError
		if errors.As(err, &be) {
			if ctx := be.HTMLContext(); ctx != "" {
				return fmt.Errorf("%w\n%s", err, ctx)
			}
		}
		return err
	}

	ropts := dom.RenderOptions{QuoteAllAttributes: opts.quoteAll}
	if opts.render && f == nil {
		if err := doc.Render(out, ropts); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out)
		return err
	}

	p := newPalette(opts.noColor)
	if f != nil {
		nodes, err := f.Select(doc)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			if opts.render {
				if err := doc.RenderNode(out, n, ropts); err != nil {
					return err
				}
				fmt.Fprintln(out)
				continue
			}
			printNode(out, p, n, 0, opts.paths)
		}
		return nil
	}

	for n := range doc.Root.Descendants() {
		printNode(out, p, n, n.Depth(), opts.paths)
	}
	return nil
}

func printNode(w io.Writer, p palette, n *dom.Node, depth int, paths bool) {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", depth))
	if paths {
		sb.WriteString(p.path.Sprintf("[%s] ", n.Path()))
	}

	switch n.Type {
	case html.ElementNode:
		sb.WriteString(p.tag.Sprint(n.Data))
		for _, a := range n.Attr {
			sb.WriteByte(' ')
			sb.WriteString(p.attr.Sprint(a.Key))
			sb.WriteByte('=')
			sb.WriteString(htmldata.AttributeEncode(a.Val, true))
		}
	case html.TextNode:
		sb.WriteString(p.text.Sprintf("%q", n.Data))
	case html.CommentNode:
		sb.WriteString(p.comment.Sprintf("<!--%s-->", n.Data))
	case html.DoctypeNode:
		sb.WriteString(p.comment.Sprintf("<!DOCTYPE %s>", n.Data))
	}
	fmt.Fprintln(w, sb.String())
}
