package htmldata

import "strings"

// Flag is a set of structural properties of a token.
type Flag uint16

const (
	// HTMLChildrenNotAllowed: the element may contain text but no elements.
	HTMLChildrenNotAllowed Flag = 1 << iota
	// ChildrenNotAllowed: void element, no children at all.
	ChildrenNotAllowed
	BlockElement
	// BooleanProperty: the attribute means something by being present, whatever its value.
	BooleanProperty
	// ParagraphCloser: an open p is implicitly closed when this element starts.
	ParagraphCloser
	AutoOpenOrClose
	// MetaDataTag: the element belongs in head.
	MetaDataTag
)

var flagNames = [...]string{
	"html-children-not-allowed",
	"children-not-allowed",
	"block",
	"boolean",
	"paragraph-closer",
	"auto-open-or-close",
	"metadata",
}

func (f Flag) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// MetadataTableSize bounds the ids that may carry flags. It must be a power of two no smaller
// than the number of tokens interned by NewRegistry; NewRegistry panics otherwise.
const MetadataTableSize = 256

// nonSpecialMask is non-zero for every id at or above MetadataTableSize.
const nonSpecialMask = ^TokenID(MetadataTableSize - 1)

var (
	// no element children allowed, but text children are
	noChildHTMLAllowed = []string{
		"SCRIPT", "TEXTAREA", "STYLE",
	}

	voidElements = []string{
		"BASE", "BASEFONT", "FRAME", "LINK", "META", "AREA", "COL", "HR", "PARAM",
		"IMG", "INPUT", "BR", "!DOCTYPE", "!--", "COMMAND", "EMBED", "KEYGEN", "SOURCE", "TRACK", "WBR",
	}

	// object is inline and deliberately missing.
	blockElements = []string{
		"BODY", "BR", "ADDRESS", "BLOCKQUOTE", "CENTER", "DIV", "DIR", "FORM", "FRAMESET",
		"H1", "H2", "H3", "H4", "H5", "H6", "HR",
		"ISINDEX", "LI", "NOFRAMES", "NOSCRIPT",
		"OL", "P", "PRE", "TABLE", "TR", "TEXTAREA", "UL",

		// html5
		"ARTICLE", "ASIDE", "BUTTON", "CANVAS", "CAPTION", "COL", "COLGROUP", "DD", "DL", "DT", "EMBED",
		"FIELDSET", "FIGCAPTION", "FIGURE", "FOOTER", "HEADER", "HGROUP", "PROGRESS", "SECTION",
		"TBODY", "THEAD", "TFOOT", "VIDEO",

		// legacy
		"APPLET", "LAYER", "LEGEND",
	}

	paragraphClosers = []string{
		"ADDRESS", "ARTICLE", "ASIDE", "BLOCKQUOTE", "DIR", "DIV", "DL", "FIELDSET", "FOOTER", "FORM",
		"H1", "H2", "H3", "H4", "H5", "H6", "HEADER", "HGROUP", "HR", "MENU", "NAV", "OL", "P", "PRE",
		"SECTION", "TABLE", "UL",
	}

	booleanAttributes = []string{
		"AUTOBUFFER", "AUTOFOCUS", "AUTOPLAY", "ASYNC", "CHECKED", "COMPACT", "CONTROLS",
		"DECLARE", "DEFAULTMUTED", "DEFAULTSELECTED", "DEFER", "DISABLED", "DRAGGABLE",
		"FORMNOVALIDATE", "HIDDEN", "INDETERMINATE", "ISMAP", "ITEMSCOPE", "LOOP", "MULTIPLE",
		"MUTED", "NOHREF", "NORESIZE", "NOSHADE", "NOWRAP", "NOVALIDATE", "OPEN", "PUBDATE",
		"READONLY", "REQUIRED", "REVERSED", "SCOPED", "SEAMLESS", "SELECTED", "SPELLCHECK",
		"TRUESPEED", "VISIBLE",
	}

	autoOpenOrClose = []string{
		"P", "LI", "TR", "TD", "TH", "THEAD", "TBODY", "TFOOT", "OPTION", "HEAD", "DT", "DD", "COLGROUP", "OPTGROUP",

		// parents of elements that may be opened automatically
		"TABLE", "HTML",
	}

	// the only elements allowed in head
	metaDataTags = []string{
		"BASE", "COMMAND", "LINK", "META", "NOSCRIPT", "SCRIPT", "STYLE", "TITLE",
	}
)

func (r *Registry) populateMetadata() {
	r.setFlag(noChildHTMLAllowed, HTMLChildrenNotAllowed)
	r.setFlag(voidElements, ChildrenNotAllowed|HTMLChildrenNotAllowed)
	r.setFlag(blockElements, BlockElement)
	r.setFlag(paragraphClosers, ParagraphCloser)
	r.setFlag(booleanAttributes, BooleanProperty)
	r.setFlag(autoOpenOrClose, AutoOpenOrClose)
	r.setFlag(metaDataTags, MetaDataTag)
}

func (r *Registry) setFlag(names []string, f Flag) {
	for _, name := range names {
		id := r.TokenID(name)
		if id&nonSpecialMask != 0 {
			panic(&ConsistencyError{Msg: "metadata table is too small for " + name})
		}
		r.meta[id] |= f
	}
}

// Flags returns the structural flags of id. Ids outside the metadata table have none.
func (r *Registry) Flags(id TokenID) Flag {
	if id&nonSpecialMask != 0 {
		return 0
	}
	return r.meta[id]
}

// HasFlag reports whether id carries any of the bits in f.
func (r *Registry) HasFlag(id TokenID, f Flag) bool {
	return id&nonSpecialMask == 0 && r.meta[id]&f != 0
}

// ChildrenAllowed reports whether the element may have any children. Only void elements
// may not.
func (r *Registry) ChildrenAllowed(id TokenID) bool {
	return id&nonSpecialMask != 0 || r.meta[id]&ChildrenNotAllowed == 0
}

// HTMLChildrenNotAllowed reports whether the element may not contain elements. Some of these
// elements may still contain text.
func (r *Registry) HTMLChildrenNotAllowed(id TokenID) bool {
	return r.HasFlag(id, HTMLChildrenNotAllowed)
}

func (r *Registry) IsBlock(id TokenID) bool {
	return r.HasFlag(id, BlockElement)
}

// IsBoolean reports whether the attribute is a boolean one.
func (r *Registry) IsBoolean(id TokenID) bool {
	return r.HasFlag(id, BooleanProperty)
}

func (r *Registry) IsParagraphCloser(id TokenID) bool {
	return r.HasFlag(id, ParagraphCloser)
}

func (r *Registry) IsMetaData(id TokenID) bool {
	return r.HasFlag(id, MetaDataTag)
}

func (r *Registry) IsAutoOpenOrClose(id TokenID) bool {
	return r.HasFlag(id, AutoOpenOrClose)
}

// The name variants intern their argument.

func (r *Registry) ChildrenAllowedName(name string) bool {
	return r.ChildrenAllowed(r.TokenID(name))
}

func (r *Registry) HTMLChildrenNotAllowedName(name string) bool {
	return r.HTMLChildrenNotAllowed(r.TokenID(name))
}

func (r *Registry) IsBlockName(name string) bool {
	return r.IsBlock(r.TokenID(name))
}

func (r *Registry) IsBooleanName(name string) bool {
	return r.IsBoolean(r.TokenID(name))
}
