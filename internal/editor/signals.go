package editor

import (
	"github.com/dshills/scribeline/internal/engine/document"
	"github.com/dshills/scribeline/internal/engine/region"
)

// SectionCreated announces a new Section at Index among the document's
// Sections. Interval is set when the times are already known, as for
// Sections restored from a transcript (Init); otherwise the receiver
// picks the interval.
type SectionCreated struct {
	Index    int
	Section  *document.Section
	Interval *region.Interval
	Init     bool
}

// SectionRemoved announces that the Section which was at Index is gone.
type SectionRemoved struct {
	Index   int
	Section *document.Section
}

// SectionEvent reports pointer activity on a Section. Index is -1 and
// Section nil for a click on empty space.
type SectionEvent struct {
	Index   int
	Section *document.Section
}
