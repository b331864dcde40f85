// Package htmldata holds reference data about HTML tags and attributes: a registry that
// interns names into small integer tokens, a table of structural flags for the well-known
// tokens, the rules for implicitly opened and closed tags, and the path encoding used to
// address nodes in a tree.
//
// Everything in this package is safe for concurrent use. Only the first sighting of a name
// takes a lock; all other lookups and predicates are plain reads.
package htmldata

import (
	"math"
	"sync"
	"sync/atomic"
)

// TokenID is an interned tag, attribute, class or id name.
type TokenID uint16

const (
	// NoToken is returned for empty names.
	NoToken TokenID = 0

	// closeToken is reserved; a real token never takes the value used for "close" in numeric
	// tag action encodings.
	closeToken TokenID = 1

	firstTokenID = 2
	maxTokenID   = math.MaxUint16
)

// Tokens with fixed ids. Every Registry interns these first, in this order, so the constants
// are valid for any instance.
const (
	placeholderToken TokenID = iota + firstTokenID
	AttrClass
	AttrValue
	AttrID
	AttrSelected
	AttrReadonly
	AttrChecked
	TagInput
	TagSelect
	TagOption
	TagP
	TagTR
	TagTD
	TagTH
	TagHead
	TagBody
	TagDT
	TagColgroup
	TagDD
	TagLI
	TagDL
	TagTable
	TagOptgroup
	TagUL
	TagOL
	TagTBody
	TagTFoot
	TagTHead
	TagRT
	TagRP
	TagScript
	TagTextarea
	TagStyle
	TagCol
	TagHTML
)

// hardcodedNames lists the names of the fixed tokens starting at AttrClass.
var hardcodedNames = [...]string{
	"class", "value", "id",
	"selected", "readonly", "checked",
	"input", "select", "option",
	"p", "tr", "td", "th", "head", "body", "dt", "colgroup", "dd", "li", "dl", "table",
	"optgroup", "ul", "ol", "tbody", "tfoot", "thead", "rt", "rp",
	"script", "textarea", "style", "col", "html",
}

// Registry is an append-only, bidirectional mapping between names and token ids, together
// with the structural metadata of the well-known tokens.
//
// Ids are handed out densely in insertion order and never reused, so Name is an index into a
// slice. The slice is published through an atomic pointer: a writer appends under the mutex
// and stores the new header, readers index into whatever header they loaded.
type Registry struct {
	mu    sync.Mutex
	ids   sync.Map // string -> TokenID
	names atomic.Pointer[[]string]
	meta  [MetadataTableSize]Flag
}

// NewRegistry returns a registry with the fixed tokens and the static tag and attribute lists
// already interned and flagged. Names seen for the first time afterwards get ids at or above
// MetadataTableSize.
func NewRegistry() *Registry {
	r := &Registry{}
	names := []string{""} // placeholderToken is never looked up by name
	r.names.Store(&names)

	for _, name := range hardcodedNames {
		r.TokenID(name)
	}
	if id := r.TokenID("html"); id != TagHTML {
		panic(&ConsistencyError{Msg: "fixed token ids are out of sync"})
	}

	r.populateMetadata()

	names = *r.names.Load()
	if len(names)+firstTokenID > MetadataTableSize {
		panic(&ConsistencyError{Msg: "metadata table is too small for the static token lists"})
	}
	for len(names)+firstTokenID < MetadataTableSize {
		names = append(names, "")
	}
	r.names.Store(&names)

	return r
}

var defaultRegistry = sync.OnceValue(NewRegistry)

// Default returns a process-wide registry, created on first use. Prefer passing an explicit
// *Registry where the caller controls construction.
func Default() *Registry {
	return defaultRegistry()
}

// TokenID returns the token for name, ignoring ASCII case, interning it if needed. The empty
// name maps to NoToken.
func (r *Registry) TokenID(name string) TokenID {
	if name == "" {
		return NoToken
	}
	return r.intern(toLowerASCII(name))
}

// TokenIDBytes is TokenID for a byte slice, as produced by tokenizers.
func (r *Registry) TokenIDBytes(name []byte) TokenID {
	if len(name) == 0 {
		return NoToken
	}
	return r.intern(toLowerASCII(string(name)))
}

// TokenIDCaseSensitive returns the token for name exactly as given, interning it if needed.
// It shares the id space with TokenID: a name that is already lower case gets the same id
// from both.
func (r *Registry) TokenIDCaseSensitive(name string) TokenID {
	if name == "" {
		return NoToken
	}
	return r.intern(name)
}

// Lookup returns the token of an already interned name without adding it.
func (r *Registry) Lookup(name string, caseSensitive bool) (TokenID, bool) {
	if name == "" {
		return NoToken, false
	}
	if !caseSensitive {
		name = toLowerASCII(name)
	}
	if v, ok := r.ids.Load(name); ok {
		return v.(TokenID), true
	}
	return NoToken, false
}

func (r *Registry) intern(name string) TokenID {
	if v, ok := r.ids.Load(name); ok {
		return v.(TokenID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.ids.Load(name); ok {
		return v.(TokenID)
	}

	names := *r.names.Load()
	next := len(names) + firstTokenID
	if next > maxTokenID {
		panic(&OverflowError{What: "tokens", Value: next, Max: maxTokenID})
	}
	names = append(names, name)
	r.names.Store(&names)

	id := TokenID(next)
	r.ids.Store(name, id)
	return id
}

// Name returns the name a token was interned with. Reserved and unassigned ids have no name.
func (r *Registry) Name(id TokenID) string {
	if id < firstTokenID {
		return ""
	}
	names := *r.names.Load()
	if i := int(id - firstTokenID); i < len(names) {
		return names[i]
	}
	return ""
}

// Len returns the number of ids handed out so far, reserved padding slots included.
func (r *Registry) Len() int {
	return len(*r.names.Load())
}

// Names returns a snapshot of all names in id order: Names()[i] is the name of id i+2.
// Reserved slots are empty strings.
func (r *Registry) Names() []string {
	names := *r.names.Load()
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// toLowerASCII lowers A-Z only. It returns s itself when there is nothing to change.
func toLowerASCII(s string) string {
	i := 0
	for ; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			break
		}
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		if c := b[i]; 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
