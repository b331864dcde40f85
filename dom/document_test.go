package dom

import (
	"testing"

	"github.com/dpotapov/go-htmldom/htmldata"
	"github.com/stretchr/testify/require"
)

func childPaths(n *Node) []string {
	var res []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		res = append(res, c.Path())
	}
	return res
}

func TestDocument_Mutations(t *testing.T) {
	d := NewDocument(htmldata.NewRegistry(), htmldata.DebugPathEncoding)

	ul := d.NewElement("UL")
	require.Equal(t, "ul", ul.Data)
	require.NoError(t, d.AppendChild(d.Root, ul))
	require.Equal(t, "000", ul.Path())

	a, b, c := d.NewElement("li"), d.NewElement("li"), d.NewElement("li")
	require.NoError(t, d.AppendChild(ul, a))
	require.NoError(t, d.AppendChild(ul, c))
	require.NoError(t, d.InsertBefore(ul, b, c))
	require.Equal(t, []string{"000000", "000001", "000002"}, childPaths(ul))
	require.Equal(t, 1, b.Index())

	text := d.NewText("x")
	require.NoError(t, d.AppendChild(c, text))
	require.Equal(t, "000002000", text.Path())

	require.NoError(t, d.RemoveChild(ul, a))
	require.Equal(t, []string{"000000", "000001"}, childPaths(ul))
	require.Equal(t, "000001000", text.Path(), "descendants follow their renumbered ancestor")
	require.Nil(t, a.Parent)
	require.Equal(t, "", a.Path())

	require.True(t, d.Contains(ul, text))
	require.False(t, d.Contains(b, text))
	require.Negative(t, d.Compare(b, text))
}

func TestDocument_InsertBeforeForeignRef(t *testing.T) {
	d := NewDocument(nil, nil)
	div, p := d.NewElement("div"), d.NewElement("p")
	require.NoError(t, d.AppendChild(d.Root, div))
	require.NoError(t, d.AppendChild(d.Root, p))

	err := d.InsertBefore(div, d.NewElement("span"), p)
	require.Error(t, err)
	require.Nil(t, div.FirstChild)
}

func TestDocument_AppendChildOverflow(t *testing.T) {
	enc, err := htmldata.NewPathEncoding("ab", 1)
	require.NoError(t, err)
	d := NewDocument(htmldata.NewRegistry(), enc)

	require.NoError(t, d.AppendChild(d.Root, d.NewText("a")))
	require.NoError(t, d.AppendChild(d.Root, d.NewText("b")))

	extra := d.NewText("c")
	err = d.AppendChild(d.Root, extra)
	require.ErrorIs(t, err, htmldata.ErrOverflow)
	require.Nil(t, extra.Parent)
	require.Equal(t, "b", d.Root.LastChild.Data)
}

func TestDocument_AttachedChildPanics(t *testing.T) {
	d := NewDocument(nil, nil)
	n := d.NewElement("div")
	require.NoError(t, d.AppendChild(d.Root, n))
	require.Panics(t, func() {
		_ = d.AppendChild(d.Root, n)
	})
}

func TestLocation(t *testing.T) {
	d := NewDocument(htmldata.NewRegistry(), nil)
	body, ul := d.NewElement("body"), d.NewElement("ul")
	require.NoError(t, d.AppendChild(d.Root, body))
	require.NoError(t, d.AppendChild(body, ul))
	text := d.NewText("x")
	require.NoError(t, d.AppendChild(ul, text))

	require.Equal(t, "/", location(d.Root))
	require.Equal(t, "/body/ul", location(ul))
	require.Equal(t, "/body/ul/#text", location(text))
}
