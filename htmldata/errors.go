package htmldata

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow is matched by every *OverflowError.
	ErrOverflow = errors.New("htmldata: overflow")

	// ErrInvalidPath is returned when a path code has the wrong width or contains a symbol
	// outside the encoding's alphabet, or when a negative index is encoded.
	ErrInvalidPath = errors.New("htmldata: invalid path code")
)

// OverflowError reports a value that does not fit a fixed-capacity space: a sibling index
// beyond the path encoding capacity, or a token id beyond the uint16 range.
type OverflowError struct {
	What  string
	Value int
	Max   int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("htmldata: maximum number of %s (%d) exceeded: %d", e.What, e.Max, e.Value)
}

func (e *OverflowError) Is(target error) bool {
	return target == ErrOverflow
}

// ConsistencyError means two static tables of this package disagree with each other. It is
// raised through panic: it can only be fixed by changing the code.
type ConsistencyError struct {
	Msg string
}

func (e *ConsistencyError) Error() string {
	return "htmldata: " + e.Msg
}
