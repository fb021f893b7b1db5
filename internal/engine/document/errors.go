package document

import (
	"errors"
	"fmt"
)

// Document errors.
var (
	// ErrNotSurroundable indicates a span that does not cover whole
	// top-level atoms and therefore cannot become a Section.
	ErrNotSurroundable = errors.New("span cannot be surrounded")

	// ErrUnknownNode indicates a node that is not part of the document.
	ErrUnknownNode = errors.New("node not in document")

	// ErrNotTopLevel indicates an atom that is already inside a Section.
	ErrNotTopLevel = errors.New("atom is inside a section")

	// ErrNotInSection indicates an atom that is not content of the given Section.
	ErrNotInSection = errors.New("atom is not in section")
)

// OperationError describes a failed document mutation.
type OperationError struct {
	Op   string // Operation name (e.g., "surround", "unwrap")
	Node Node   // Node involved, if any
	Err  error  // Underlying error
}

func (e *OperationError) Error() string {
	if e.Node != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Node, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Err
}

func opError(op string, n Node, err error) error {
	return &OperationError{Op: op, Node: n, Err: err}
}
