package dom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dpotapov/go-htmldom/htmldata"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts RenderOptions
		want string
	}{
		{
			name: "boolean attributes are bare",
			in:   `<input checked disabled=disabled value="a b">`,
			want: `<input checked disabled value="a b">`,
		},
		{
			name: "quote all",
			in:   `<a href=x class=y>z</a>`,
			opts: RenderOptions{QuoteAllAttributes: true},
			want: `<a href="x" class="y">z</a>`,
		},
		{
			name: "quote selection",
			in:   `<a title='say "hi"' alt="it's">z</a>`,
			want: `<a title='say "hi"' alt="it's">z</a>`,
		},
		{
			name: "empty value",
			in:   `<a title="">z</a>`,
			want: `<a title="">z</a>`,
		},
		{
			name: "ampersand in value",
			in:   `<a href="?a=1&amp;b=2">z</a>`,
			want: `<a href="?a=1&amp;b=2">z</a>`,
		},
		{
			name: "text escaping",
			in:   `<p>a &lt; b &amp;&amp; c &gt; d</p>`,
			want: `<p>a &lt; b &amp;&amp; c &gt; d</p>`,
		},
		{
			name: "raw text",
			in:   `<script>if (a < b && c) {}</script><style>a > b {}</style>`,
			want: `<script>if (a < b && c) {}</script><style>a > b {}</style>`,
		},
		{
			name: "void elements",
			in:   `<p>a<br>b<hr></p>`,
			want: `<p>a<br>b</p><hr>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseFragment(strings.NewReader(tt.in), Options{Registry: htmldata.NewRegistry()})
			require.NoError(t, err)
			require.Equal(t, tt.want, renderString(t, d, tt.opts))
		})
	}
}

func TestRenderNode_Subtree(t *testing.T) {
	d, err := ParseFragment(strings.NewReader("<div><ul><li>a<li>b</ul></div>"), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	ul := d.ElementsByTag("ul")[0]
	require.NoError(t, d.RenderNode(&buf, ul, RenderOptions{}))
	require.Equal(t, "<ul><li>a</li><li>b</li></ul>", buf.String())
}

func TestRender_RoundTrip(t *testing.T) {
	const src = `<html><head><title>T</title></head><body><ul class="a b"><li>x</li><li>y</li></ul></body></html>`
	d, err := Parse(strings.NewReader(src), Options{Registry: htmldata.NewRegistry()})
	require.NoError(t, err)
	out := renderString(t, d, RenderOptions{})
	require.Equal(t, src, out)

	d2, err := Parse(strings.NewReader(out), Options{Registry: htmldata.NewRegistry()})
	require.NoError(t, err)
	require.Equal(t, out, renderString(t, d2, RenderOptions{}))
}
