package region

import (
	"errors"
	"fmt"
)

// Region errors.
var (
	// ErrInvalidInterval indicates an interval with start >= end or
	// outside [0, duration].
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrOverlap indicates an interval that would overlap a neighbour.
	ErrOverlap = errors.New("interval overlaps a neighbouring region")

	// ErrIndexOutOfRange indicates a region index that does not exist.
	ErrIndexOutOfRange = errors.New("region index out of range")

	// ErrInvalidDuration indicates a non-positive media duration.
	ErrInvalidDuration = errors.New("duration must be positive")

	// ErrNotDragging indicates a drag update for a region that is not being dragged.
	ErrNotDragging = errors.New("region is not being dragged")
)

// IndexError reports a failed operation on a region index.
type IndexError struct {
	Op    string
	Index int
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("region %s at %d: %v", e.Op, e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *IndexError) Unwrap() error {
	return e.Err
}
