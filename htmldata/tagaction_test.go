package htmldata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveTagAction(t *testing.T) {
	r := NewRegistry()

	closeRes := Resolution{Action: Close}
	nothing := Resolution{}
	create := func(tag TokenID) Resolution { return Resolution{Action: CreateParent, Tag: tag} }

	tests := []struct {
		open, next string
		document   bool
		want       Resolution
	}{
		{"li", "li", false, closeRes},
		{"li", "ul", false, nothing},
		{"table", "tr", false, create(TagTBody)},
		{"table", "td", false, nothing},
		{"html", "meta", true, create(TagHead)},
		{"html", "title", true, create(TagHead)},
		{"html", "div", true, create(TagBody)},
		{"html", "x-custom", true, create(TagBody)},
		{"html", "head", true, nothing},
		{"html", "body", true, nothing},
		{"html", "div", false, nothing},
		{"span", "div", false, nothing},

		{"head", "div", false, closeRes},
		{"head", "x-custom", false, closeRes},
		{"head", "script", false, nothing},
		{"head", "link", true, nothing},

		{"dt", "dd", false, closeRes},
		{"dt", "dt", false, closeRes},
		{"dd", "dt", false, closeRes},
		{"dd", "p", false, nothing},

		{"p", "div", false, closeRes},
		{"p", "p", false, closeRes},
		{"p", "h6", false, closeRes},
		{"p", "table", false, closeRes},
		{"p", "span", false, nothing},
		{"p", "li", false, nothing},

		{"rt", "rp", false, closeRes},
		{"rp", "rt", false, closeRes},
		{"rt", "ruby", false, nothing},

		{"optgroup", "optgroup", false, closeRes},
		{"optgroup", "option", false, nothing},
		{"option", "option", false, closeRes},
		{"option", "optgroup", false, nothing},

		{"colgroup", "colgroup", false, closeRes},
		{"colgroup", "tr", false, closeRes},
		{"colgroup", "table", false, closeRes},
		{"colgroup", "thead", false, closeRes},
		{"colgroup", "tbody", false, closeRes},
		{"colgroup", "tfoot", false, closeRes},
		{"colgroup", "col", false, nothing},

		{"tr", "tr", false, closeRes},
		{"tr", "tbody", false, closeRes},
		{"tr", "tfoot", false, closeRes},
		{"tr", "td", false, nothing},
		{"tr", "thead", false, nothing},

		{"td", "td", false, closeRes},
		{"td", "th", false, closeRes},
		{"td", "tr", false, closeRes},
		{"td", "tbody", false, closeRes},
		{"td", "tfoot", false, closeRes},
		{"th", "td", false, closeRes},
		{"td", "div", false, nothing},

		{"thead", "tbody", false, closeRes},
		{"thead", "tfoot", false, closeRes},
		{"tbody", "tbody", false, closeRes},
		{"tbody", "tfoot", false, closeRes},
		{"tbody", "tr", false, nothing},

		{"tfoot", "thead", false, closeRes},
		{"tfoot", "body", false, closeRes},
		{"tfoot", "tbody", false, nothing},
	}
	for _, tt := range tests {
		got := r.ResolveTagActionNames(tt.open, tt.next, tt.document)
		require.Equal(t, tt.want, got, "open=%s next=%s document=%v", tt.open, tt.next, tt.document)
	}
}

func TestResolveTagAction_OutOfRangeOpen(t *testing.T) {
	r := NewRegistry()
	open := r.TokenID("my-element")
	require.Equal(t, Resolution{}, r.ResolveTagAction(open, TagLI, true))
	require.Equal(t, Resolution{}, r.ResolveTagAction(TokenID(0xFFFF), TagTR, false))
}

// Every CreateParent resolution outside document mode must agree with CreateParentFor.
func TestResolveTagAction_CreateParentAgrees(t *testing.T) {
	r := NewRegistry()
	for open := TokenID(0); open < MetadataTableSize; open++ {
		for next := TokenID(0); next < MetadataTableSize; next++ {
			res := r.ResolveTagAction(open, next, false)
			if res.Action != CreateParent {
				continue
			}
			require.Equal(t, res.Tag, r.CreateParentFor(next), "open=%s next=%s", r.Name(open), r.Name(next))
		}
	}
}

func TestCreateParentFor(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, TagTBody, r.CreateParentFor(TagTR))

	require.PanicsWithError(t, `htmldata: no parent to create for child tag "td"`, func() {
		r.CreateParentFor(TagTD)
	})
}

func TestAction_String(t *testing.T) {
	require.Equal(t, "nothing", Nothing.String())
	require.Equal(t, "close", Close.String())
	require.Equal(t, "create-parent", CreateParent.String())
	require.Equal(t, "Action(9)", Action(9).String())
}
