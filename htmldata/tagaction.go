package htmldata

import (
	"fmt"
	"slices"
)

// Action is what a tree builder must do before inserting a start tag under the current
// element.
type Action uint8

const (
	Nothing Action = iota
	// Close the current element, then ask again with its parent.
	Close
	// CreateParent: insert Resolution.Tag under the current element first, then ask again
	// with it as the current element.
	CreateParent
)

func (a Action) String() string {
	switch a {
	case Nothing:
		return "nothing"
	case Close:
		return "close"
	case CreateParent:
		return "create-parent"
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Resolution is the outcome of ResolveTagAction. Tag is set only for CreateParent.
type Resolution struct {
	Action Action
	Tag    TokenID
}

// tagRule matches the next tag either against a list of tokens or against a flag; with
// absent set it matches tokens lacking the flag.
type tagRule struct {
	next   []TokenID
	flag   Flag
	absent bool
	res    Resolution
}

func (t *tagRule) match(r *Registry, next TokenID) bool {
	if t.flag != 0 {
		return r.HasFlag(next, t.flag) != t.absent
	}
	return slices.Contains(t.next, next)
}

// tagRules is indexed by the open tag. The comments quote the HTML5 optional tag rules each
// entry is derived from; [relaxed] marks where the rule is looser than the standard.
//
// The closing tags of html and body are optional too, but the builder closes those when the
// input ends, so they need no rule here.
var tagRules = func() (t [MetadataTableSize][]tagRule) {
	closeOn := func(next ...TokenID) tagRule {
		return tagRule{next: next, res: Resolution{Action: Close}}
	}
	add := func(rule tagRule, open ...TokenID) {
		for _, id := range open {
			t[id] = append(t[id], rule)
		}
	}

	// [relaxed] A head element's end tag may be omitted if the head element is not
	// immediately followed by a space character or a comment. Anything that does not belong
	// in head closes it. Ids past the metadata table count as not belonging, so a custom
	// element like <my-widget> closes head too instead of staying inside it.
	add(tagRule{flag: MetaDataTag, absent: true, res: Resolution{Action: Close}}, TagHead)

	// An li element's end tag may be omitted if the li element is immediately followed by
	// another li element.
	add(closeOn(TagLI), TagLI)

	// A dt element's end tag may be omitted if the dt element is immediately followed by
	// another dt element or a dd element. Same for dd.
	add(closeOn(TagDT, TagDD), TagDT, TagDD)

	// A p element's end tag may be omitted if the p element is immediately followed by an
	// address, article, aside, blockquote, dir, div, dl, fieldset, footer, form, h1-h6,
	// header, hgroup, hr, menu, nav, ol, p, pre, section, table, or ul element.
	add(tagRule{flag: ParagraphCloser, res: Resolution{Action: Close}}, TagP)

	// An rt or rp element's end tag may be omitted if it is immediately followed by an rt
	// or rp element.
	add(closeOn(TagRT, TagRP), TagRT, TagRP)

	// An optgroup element's end tag may be omitted if the optgroup element is immediately
	// followed by another optgroup element.
	add(closeOn(TagOptgroup), TagOptgroup)

	// An option element's end tag may be omitted if the option element is immediately
	// followed by another option element.
	add(closeOn(TagOption), TagOption)

	// [relaxed] colgroup closes on anything else that belongs to the table.
	add(closeOn(TagColgroup, TagTR, TagTable, TagTHead, TagTBody, TagTFoot), TagColgroup)

	// [relaxed] A tr element's end tag may be omitted if the tr element is immediately
	// followed by another tr element. A new table section closes it too.
	add(closeOn(TagTR, TagTBody, TagTFoot), TagTR)

	// A td or th element's end tag may be omitted if it is immediately followed by a td or
	// th element. [relaxed] Any other table structure closes it as well.
	add(closeOn(TagTBody, TagTFoot, TagTH, TagTD, TagTR), TagTD, TagTH)

	// A thead element's end tag may be omitted if the thead element is immediately followed
	// by a tbody or tfoot element. Same for tbody.
	add(closeOn(TagTBody, TagTFoot), TagTHead, TagTBody)

	// A tfoot element's end tag may be omitted if the tfoot element is immediately followed
	// by a tbody element. [relaxed] A thead after tfoot is taken as sections in the wrong
	// order and closes it.
	add(closeOn(TagBody, TagTHead), TagTFoot)

	// A tbody element's start tag may be omitted if the first thing inside the tbody
	// element is a tr element.
	add(tagRule{next: []TokenID{TagTR}, res: Resolution{Action: CreateParent, Tag: TagTBody}}, TagTable)

	return t
}()

// ResolveTagAction decides what to do when a start tag next appears while open is the
// current element. In document mode, when open is the html element, the missing head or
// body start tag is inferred from next: metadata opens a head, anything except head and body
// opens a body.
func (r *Registry) ResolveTagAction(open, next TokenID, documentMode bool) Resolution {
	if open&nonSpecialMask != 0 {
		return Resolution{}
	}

	if documentMode && open == TagHTML {
		switch {
		case r.HasFlag(next, MetaDataTag):
			return Resolution{Action: CreateParent, Tag: TagHead}
		case next != TagHead && next != TagBody:
			return Resolution{Action: CreateParent, Tag: TagBody}
		}
		return Resolution{}
	}

	for i := range tagRules[open] {
		if rule := &tagRules[open][i]; rule.match(r, next) {
			return rule.res
		}
	}
	return Resolution{}
}

// ResolveTagActionNames is ResolveTagAction for tag names.
func (r *Registry) ResolveTagActionNames(open, next string, documentMode bool) Resolution {
	return r.ResolveTagAction(r.TokenID(open), r.TokenID(next), documentMode)
}

// CreateParentFor returns the element to synthesize around a child that cannot be inserted
// directly. Only tr has one; any other argument means the rule table and this function
// disagree, and it panics with a *ConsistencyError.
func (r *Registry) CreateParentFor(child TokenID) TokenID {
	switch child {
	case TagTR:
		return TagTBody
	}
	panic(&ConsistencyError{Msg: fmt.Sprintf("no parent to create for child tag %q", r.Name(child))})
}
