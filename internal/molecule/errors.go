package molecule

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat indicates a file extension with no registered parser.
	ErrUnsupportedFormat = errors.New("molecule: unsupported file format")

	// ErrMalformedStructure indicates declared atom/bond counts exceed the available lines,
	// or bonds that reference atoms outside the molecule.
	ErrMalformedStructure = errors.New("molecule: malformed structure")
)

// ParseError wraps a parse failure with the file and 0-based line it occurred on.
type ParseError struct {
	File    string
	Line    int
	Wrapped error
}

func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line >= 0:
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line+1, e.Wrapped)
	case e.File != "":
		return fmt.Sprintf("%s: %v", e.File, e.Wrapped)
	case e.Line >= 0:
		return fmt.Sprintf("line %d: %v", e.Line+1, e.Wrapped)
	}
	return e.Wrapped.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}
