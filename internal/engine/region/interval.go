// Package region manages the time intervals paired with Sections: a
// sorted, non-overlapping set of Regions over a media timeline, and the
// clamp fixups that keep it that way while the user drags a Region.
package region

import "fmt"

// Interval is a span of media time in seconds, [Start, End].
type Interval struct {
	Start float64
	End   float64
}

// Valid returns true if Start < End.
func (iv Interval) Valid() bool {
	return iv.Start < iv.End
}

// Within returns true if the interval lies in [0, duration].
func (iv Interval) Within(duration float64) bool {
	return iv.Start >= 0 && iv.End <= duration
}

// Length returns End - Start.
func (iv Interval) Length() float64 {
	return iv.End - iv.Start
}

// Contains reports whether t lies in [Start, End].
func (iv Interval) Contains(t float64) bool {
	return t >= iv.Start && t <= iv.End
}

// Overlaps reports whether the intervals share more than an endpoint.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", iv.Start, iv.End)
}

// Region is an interval with a stable identifier.
type Region struct {
	ID string
	Interval
}
