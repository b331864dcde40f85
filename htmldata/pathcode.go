package htmldata

import (
	"fmt"
	"math"
	"strings"
)

// PathEncoding turns a sibling index into a fixed-width code over an ordered alphabet. A
// node's path is the concatenation of the codes of itself and its ancestors, so comparing
// two paths as strings compares the nodes in document order, the length of a path gives the
// depth and every prefix of a multiple of Width is an ancestor.
type PathEncoding struct {
	alphabet string
	width    int
	max      int
	pad      string
	digits   [256]int16
}

var (
	// DefaultPathEncoding uses every byte value except 0x00 and 0x01, which stay free for
	// separators in indexes built from paths. Codes are two bytes wide.
	DefaultPathEncoding = mustPathEncoding(binaryAlphabet(), 2)

	// DebugPathEncoding produces printable base-62 codes, three characters wide.
	DebugPathEncoding = mustPathEncoding("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", 3)
)

func binaryAlphabet() string {
	b := make([]byte, 0, 254)
	for c := 2; c <= math.MaxUint8; c++ {
		b = append(b, byte(c))
	}
	return string(b)
}

func mustPathEncoding(alphabet string, width int) *PathEncoding {
	e, err := NewPathEncoding(alphabet, width)
	if err != nil {
		panic(err)
	}
	return e
}

// NewPathEncoding returns an encoding producing codes of width symbols drawn from alphabet.
// The alphabet must be strictly ascending, so that code order matches index order, must have
// at least two symbols and must not use the bytes 0x00 and 0x01.
func NewPathEncoding(alphabet string, width int) (*PathEncoding, error) {
	if len(alphabet) < 2 {
		return nil, fmt.Errorf("path alphabet needs at least 2 symbols, got %d", len(alphabet))
	}
	if width < 1 {
		return nil, fmt.Errorf("path width must be positive, got %d", width)
	}

	e := &PathEncoding{
		alphabet: alphabet,
		width:    width,
		pad:      strings.Repeat(alphabet[:1], width-1),
	}
	for i := range e.digits {
		e.digits[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		if c < 2 {
			return nil, fmt.Errorf("path alphabet must not contain %#x", c)
		}
		if i > 0 && c <= alphabet[i-1] {
			return nil, fmt.Errorf("path alphabet is not strictly ascending at %d", i)
		}
		e.digits[c] = int16(i)
	}

	base, capacity := len(alphabet), 1
	for i := 0; i < width; i++ {
		if capacity > math.MaxInt32/base {
			return nil, fmt.Errorf("path encoding %d^%d is too large", base, width)
		}
		capacity *= base
	}
	e.max = capacity - 1

	return e, nil
}

// Width is the length of one code.
func (e *PathEncoding) Width() int { return e.width }

// Base is the size of the alphabet.
func (e *PathEncoding) Base() int { return len(e.alphabet) }

// Max is the largest index that can be encoded.
func (e *PathEncoding) Max() int { return e.max }

// Encode returns the code for a sibling index. Indexes above Max are an *OverflowError: the
// tree cannot address that many children under one parent.
func (e *PathEncoding) Encode(index int) (string, error) {
	base := len(e.alphabet)
	switch {
	case index < 0:
		return "", fmt.Errorf("%w: negative index %d", ErrInvalidPath, index)
	case index < base:
		return e.pad + e.alphabet[index:index+1], nil
	case index > e.max:
		return "", &OverflowError{What: "child nodes", Value: index, Max: e.max}
	}

	buf := make([]byte, e.width)
	for i := e.width - 1; i >= 0; i-- {
		buf[i] = e.alphabet[index%base]
		index /= base
	}
	return string(buf), nil
}

// Decode is the inverse of Encode.
func (e *PathEncoding) Decode(code string) (int, error) {
	if len(code) != e.width {
		return 0, fmt.Errorf("%w: %q is %d bytes, want %d", ErrInvalidPath, code, len(code), e.width)
	}
	index := 0
	for i := 0; i < len(code); i++ {
		d := e.digits[code[i]]
		if d < 0 {
			return 0, fmt.Errorf("%w: %q has foreign symbol %#x", ErrInvalidPath, code, code[i])
		}
		index = index*len(e.alphabet) + int(d)
	}
	return index, nil
}

// Depth returns the number of codes in path.
func (e *PathEncoding) Depth(path string) int {
	return len(path) / e.width
}

// Parent drops the last code of path.
func (e *PathEncoding) Parent(path string) string {
	if len(path) < e.width {
		return ""
	}
	return path[:len(path)-e.width]
}

// Segment returns the code at depth (1-based) of path, or "" if the path is shallower.
func (e *PathEncoding) Segment(path string, depth int) string {
	end := depth * e.width
	if depth < 1 || end > len(path) {
		return ""
	}
	return path[end-e.width : end]
}
