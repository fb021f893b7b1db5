package editor

import (
	"fmt"

	"github.com/dshills/scribeline/internal/engine/document"
	"github.com/dshills/scribeline/internal/engine/region"
	"github.com/dshills/scribeline/internal/playback"
)

// Pair is a Section together with its Region.
type Pair struct {
	Section *document.Section
	Region  region.Region
}

type pair struct {
	section *document.Section
	id      string
}

// Timeline is the ordered list of {Section, Region} pairs. Pair i holds
// the i-th Section of the document and the i-th Region of the set;
// Pair and Unpair change both sides in one step.
type Timeline struct {
	doc     *document.Document
	regions *region.Set
	pairs   []pair
}

// NewTimeline creates an empty timeline over doc and regions.
func NewTimeline(doc *document.Document, regions *region.Set) *Timeline {
	return &Timeline{doc: doc, regions: regions}
}

// Regions returns the region set the timeline drives.
func (t *Timeline) Regions() *region.Set {
	return t.regions
}

// Len returns the number of pairs.
func (t *Timeline) Len() int {
	return len(t.pairs)
}

// At returns pair i.
func (t *Timeline) At(i int) (Pair, bool) {
	if i < 0 || i >= len(t.pairs) {
		return Pair{}, false
	}
	r, ok := t.regions.At(i)
	if !ok {
		return Pair{}, false
	}
	return Pair{Section: t.pairs[i].section, Region: r}, true
}

// Pairs returns every pair in order.
func (t *Timeline) Pairs() []Pair {
	out := make([]Pair, 0, len(t.pairs))
	for i := range t.pairs {
		if p, ok := t.At(i); ok {
			out = append(out, p)
		}
	}
	return out
}

// IndexOf returns the pair index of s, or -1.
func (t *Timeline) IndexOf(s *document.Section) int {
	for i, p := range t.pairs {
		if p.section == s {
			return i
		}
	}
	return -1
}

// IntervalOf returns the interval paired with s.
func (t *Timeline) IntervalOf(s *document.Section) (region.Interval, bool) {
	i := t.IndexOf(s)
	if i < 0 {
		return region.Interval{}, false
	}
	r, ok := t.regions.At(i)
	return r.Interval, ok
}

// Gap returns the time between the Regions around position index: from
// the end of Region index-1 (or 0) to the start of Region index (or the
// duration).
func (t *Timeline) Gap(index int) region.Interval {
	gap := region.Interval{Start: 0, End: t.regions.Duration()}
	if r, ok := t.regions.At(index - 1); ok {
		gap.Start = r.End
	}
	if r, ok := t.regions.At(index); ok {
		gap.End = r.Start
	}
	gap.Start = max(gap.Start, 0)
	gap.End = min(gap.End, t.regions.Duration())
	return gap
}

// Pair inserts s and a Region over iv at index.
func (t *Timeline) Pair(index int, s *document.Section, iv region.Interval) (region.Region, error) {
	if t.IndexOf(s) >= 0 {
		return region.Region{}, fmt.Errorf("pair %v: already paired", s)
	}
	if index < 0 || index > len(t.pairs) {
		return region.Region{}, &region.IndexError{Op: "pair", Index: index, Err: region.ErrIndexOutOfRange}
	}
	if !iv.Valid() {
		return region.Region{}, fmt.Errorf("pair %d %s: %w", index, iv, ErrNoRoom)
	}
	r, err := t.regions.Insert(index, iv)
	if err != nil {
		return region.Region{}, err
	}
	t.pairs = append(t.pairs, pair{})
	copy(t.pairs[index+1:], t.pairs[index:])
	t.pairs[index] = pair{section: s, id: r.ID}
	return r, nil
}

// Unpair removes pair index and its Region.
func (t *Timeline) Unpair(index int) bool {
	if index < 0 || index >= len(t.pairs) {
		return false
	}
	if !t.regions.Remove(index) {
		return false
	}
	t.pairs = append(t.pairs[:index], t.pairs[index+1:]...)
	return true
}

// Clear removes every pair and Region.
func (t *Timeline) Clear() {
	t.pairs = nil
	t.regions.Clear()
}

// Check verifies that the pairs, the Regions and the Sections line up:
// one Region and one Section per pair, no overlapping Regions, and pair
// order equal to document order.
func (t *Timeline) Check() error {
	if n := t.regions.Len(); n != len(t.pairs) {
		return &ParityError{Index: -1, Reason: fmt.Sprintf("%d pairs but %d regions", len(t.pairs), n)}
	}
	if n := t.doc.SectionCount(); n != len(t.pairs) {
		return &ParityError{Index: -1, Reason: fmt.Sprintf("%d pairs but %d sections", len(t.pairs), n)}
	}
	prevIndex := -1
	var prevEnd float64
	for i, p := range t.pairs {
		r, _ := t.regions.At(i)
		if r.ID != p.id {
			return &ParityError{Index: i, Reason: "region out of place"}
		}
		if i > 0 && r.Start < prevEnd {
			return &ParityError{Index: i, Reason: fmt.Sprintf("region %s overlaps previous end %.3f", r.Interval, prevEnd)}
		}
		prevEnd = r.End
		si := t.doc.SectionIndex(p.section)
		if si < 0 {
			return &ParityError{Index: i, Reason: "section not in document"}
		}
		if si <= prevIndex {
			return &ParityError{Index: i, Reason: "sections out of document order"}
		}
		prevIndex = si
	}
	return nil
}

// Bounds returns the times of pair i, so a Tracker can follow playback
// across the Regions.
func (t *Timeline) Bounds(i int) playback.Bounds {
	r, ok := t.regions.At(i)
	if !ok {
		return playback.Bounds{}
	}
	return playback.Timed(r.Start, r.End)
}

var _ playback.Source = (*Timeline)(nil)
