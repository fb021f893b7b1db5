// Package span provides half-open slot ranges and the range algebra the
// editing surface uses to build, trim and split Sections.
//
// A Span addresses leaf slots of a document (atoms and handles) in
// document order. Start is inclusive, End is exclusive: [Start, End).
package span

import "fmt"

// Span is a contiguous run of slots in document order.
type Span struct {
	Start int // Inclusive start slot
	End   int // Exclusive end slot
}

// New creates a Span from start and end slots.
func New(start, end int) Span {
	return Span{Start: start, End: end}
}

// Of returns the Span covering a single slot.
func Of(slot int) Span {
	return Span{Start: slot, End: slot + 1}
}

// Collapsed returns an empty Span positioned at slot.
func Collapsed(slot int) Span {
	return Span{Start: slot, End: slot}
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// Len returns the number of slots covered.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span is collapsed.
func (s Span) IsEmpty() bool {
	return s.Start >= s.End
}

// IsValid returns true if Start <= End.
func (s Span) IsValid() bool {
	return s.Start <= s.End
}

// Contains returns true if slot lies within the span.
func (s Span) Contains(slot int) bool {
	return slot >= s.Start && slot < s.End
}

// ContainsSpan returns true if other lies entirely within s.
func (s Span) ContainsSpan(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Overlaps returns true if the spans share at least one slot.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Touches returns true if the spans overlap or are adjacent.
func (s Span) Touches(other Span) bool {
	return s.Start <= other.End && other.Start <= s.End
}

// Intersect returns the common slots of two spans, or a collapsed span
// at the later start if they don't overlap.
func (s Span) Intersect(other Span) Span {
	start := max(s.Start, other.Start)
	end := min(s.End, other.End)
	if start >= end {
		return Collapsed(start)
	}
	return Span{Start: start, End: end}
}

// Hull returns the smallest span containing both spans.
func (s Span) Hull(other Span) Span {
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Shift returns the span moved by delta slots.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}
