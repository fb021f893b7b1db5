package selector

import (
	"time"

	"github.com/dshills/scribeline/internal/timing"
)

// clickTracker holds the pending single-click timers, one per element.
type clickTracker[E comparable] struct {
	clock   timing.Clock
	window  time.Duration
	pending map[E]timing.Timer
}

func newClickTracker[E comparable](clock timing.Clock, window time.Duration) *clickTracker[E] {
	return &clickTracker[E]{
		clock:   clock,
		window:  window,
		pending: make(map[E]timing.Timer),
	}
}

// record registers a click on target. It returns true if the click
// completes a double click, in which case the pending single click is
// cancelled. Otherwise single is scheduled to run after the window.
func (t *clickTracker[E]) record(target E, single func()) bool {
	if timer, ok := t.pending[target]; ok {
		timer.Stop()
		delete(t.pending, target)
		return true
	}
	t.pending[target] = t.clock.AfterFunc(t.window, func() {
		delete(t.pending, target)
		single()
	})
	return false
}

// reset cancels every pending single click.
func (t *clickTracker[E]) reset() {
	for target, timer := range t.pending {
		timer.Stop()
		delete(t.pending, target)
	}
}

// count returns the number of pending single clicks.
func (t *clickTracker[E]) count() int {
	return len(t.pending)
}
