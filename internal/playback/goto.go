package playback

// GotoTime returns the time to seek to for interval index: its start,
// else the end of the interval before it, else 0.
func GotoTime(src Source, index int) float64 {
	if index < 0 || index >= src.Len() {
		return 0
	}
	if b := src.Bounds(index); b.HasStart && b.Start != 0 {
		return b.Start
	}
	if index > 0 {
		if prev := src.Bounds(index - 1); prev.HasEnd {
			return prev.End
		}
	}
	return 0
}

// Slice is a Source backed by a slice of bounds.
type Slice []Bounds

// Len returns the number of intervals.
func (s Slice) Len() int { return len(s) }

// Bounds returns the bounds of interval i.
func (s Slice) Bounds(i int) Bounds { return s[i] }
