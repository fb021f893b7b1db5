package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRoom is returned when the gap between a Section's neighbours
	// leaves no time for its Region.
	ErrNoRoom = errors.New("no room for region")

	// ErrNotPaired is returned for a Section without a Region.
	ErrNotPaired = errors.New("section is not paired")

	// ErrIntervalCount is returned when restored intervals do not match
	// the document's Sections.
	ErrIntervalCount = errors.New("interval count does not match sections")

	// ErrDestroyed is returned by an Editor after Destroy.
	ErrDestroyed = errors.New("editor destroyed")
)

// ParityError reports a broken correspondence between Sections and Regions.
type ParityError struct {
	Index  int
	Reason string
}

func (e *ParityError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("timeline: %s", e.Reason)
	}
	return fmt.Sprintf("timeline: pair %d: %s", e.Index, e.Reason)
}
