// Package playback follows media time across a list of intervals: which
// one is current, whether the time lies inside it, and how far through
// it playback is. It also provides the transport abstraction that
// produces media time.
package playback

import (
	"math"

	"github.com/dshills/scribeline/internal/event"
)

// Bounds are the explicit times of an interval. Either side may be unset.
type Bounds struct {
	Start    float64
	End      float64
	HasStart bool
	HasEnd   bool
}

// Timed returns bounds with both sides set.
func Timed(start, end float64) Bounds {
	return Bounds{Start: start, End: end, HasStart: true, HasEnd: true}
}

// Source is the ordered list of intervals a Tracker walks.
type Source interface {
	Len() int
	Bounds(i int) Bounds
}

// State is the tracker's answer for a point in time.
type State struct {
	// Current is the index of the current interval, -1 before the first
	// and Len() after the last.
	Current int
	// Active is true when the time lies within the current interval's
	// explicit bounds.
	Active bool
	// Progress is the fraction of the current interval elapsed, in [0, 1].
	// It is zero when not Active.
	Progress float64
}

// CurrentEvent reports a change of the current interval.
type CurrentEvent struct {
	Previous int
	Current  int
}

// ActiveEvent reports the current interval becoming active or inactive,
// and the progress through it while active.
type ActiveEvent struct {
	Index    int
	Active   bool
	Progress float64
}

// Tracker locates media time within a Source. Successive updates walk
// forward or backward from the previous position, so monotonic playback
// costs O(1) per update.
type Tracker struct {
	src      Source
	current  int
	prevTime float64
	started  bool
	state    State

	CurrentChanged *event.Signal[CurrentEvent]
	ActiveChanged  *event.Signal[ActiveEvent]
}

// NewTracker creates a tracker over src.
func NewTracker(src Source) *Tracker {
	return &Tracker{
		src:            src,
		current:        -1,
		state:          State{Current: -1},
		CurrentChanged: event.NewSignal[CurrentEvent]("current-line"),
		ActiveChanged:  event.NewSignal[ActiveEvent]("active-line"),
	}
}

// SetSource replaces the intervals and resets the walk.
func (t *Tracker) SetSource(src Source) {
	t.src = src
	t.Reset()
}

// Reset forgets the position so the next Update starts from the beginning.
func (t *Tracker) Reset() {
	t.current = -1
	t.prevTime = 0
	t.started = false
	t.state = State{Current: -1}
}

// State returns the result of the last Update.
func (t *Tracker) State() State {
	return t.state
}

// Update moves the tracker to time now and returns the new state.
// Calling it twice with the same time yields the same state and emits
// nothing the second time.
func (t *Tracker) Update(now float64) State {
	n := t.src.Len()
	if !t.started {
		t.started = true
		t.current = -1
		t.prevTime = 0
		t.step(1, n)
	}

	if t.prevTime <= now {
		for t.current < 0 || (t.inBounds(n) && now >= t.widened(t.current).End) {
			if !t.step(1, n) {
				break
			}
		}
	} else {
		for t.current >= n || (t.inBounds(n) && now < t.widened(t.current).Start) {
			if !t.step(-1, n) {
				break
			}
		}
	}
	t.prevTime = now

	next := State{Current: t.current}
	if t.inBounds(n) {
		b := t.src.Bounds(t.current)
		if b.HasStart && b.HasEnd && now >= b.Start && now <= b.End {
			next.Active = true
			if length := b.End - b.Start; length > 0 {
				next.Progress = math.Min(1, (now-b.Start)/length)
			} else {
				next.Progress = 1
			}
		}
	}
	t.publish(next)
	return next
}

// step moves the current index by dir. It returns false when the move
// would leave [-1, n].
func (t *Tracker) step(dir, n int) bool {
	next := t.current + dir
	if next < -1 || next > n {
		return false
	}
	t.current = next
	return t.inBounds(n)
}

func (t *Tracker) inBounds(n int) bool {
	return t.current >= 0 && t.current < n
}

// widened returns the bounds of interval i with unset sides filled from
// its neighbours, so an untimed interval covers the gap around it.
func (t *Tracker) widened(i int) Bounds {
	b := t.src.Bounds(i)
	w := Bounds{Start: 0, End: math.Inf(1), HasStart: true, HasEnd: true}
	if i > 0 {
		if prev := t.src.Bounds(i - 1); prev.HasEnd {
			w.Start = prev.End
		}
	}
	if i < t.src.Len()-1 {
		if next := t.src.Bounds(i + 1); next.HasStart {
			w.End = next.Start
		}
	}
	if b.HasStart {
		w.Start = b.Start
	}
	if b.HasEnd {
		w.End = b.End
	}
	return w
}

func (t *Tracker) publish(next State) {
	prev := t.state
	t.state = next
	if next.Current != prev.Current {
		t.CurrentChanged.Emit(CurrentEvent{Previous: prev.Current, Current: next.Current})
	}
	if next.Active != prev.Active || next.Current != prev.Current || (next.Active && next.Progress != prev.Progress) {
		t.ActiveChanged.Emit(ActiveEvent{Index: next.Current, Active: next.Active, Progress: next.Progress})
	}
}
