package timing

import "time"

// Throttle runs fn at most once per interval. The first call of a
// window runs immediately; calls inside the window are dropped. Pair it
// with a Debounce when the last value of a burst must also be applied.
type Throttle[T any] struct {
	clock    Clock
	interval time.Duration
	fn       func(T)
	last     time.Time
	fired    bool
}

// NewThrottle creates a leading-edge throttle.
func NewThrottle[T any](clock Clock, interval time.Duration, fn func(T)) *Throttle[T] {
	return &Throttle[T]{clock: clock, interval: interval, fn: fn}
}

// Call runs fn(v) unless a call already ran inside the current window.
// It reports whether fn ran.
func (t *Throttle[T]) Call(v T) bool {
	now := t.clock.Now()
	if t.fired && now.Sub(t.last) < t.interval {
		return false
	}
	t.fired = true
	t.last = now
	t.fn(v)
	return true
}

// Reset opens a new window so the next Call runs immediately.
func (t *Throttle[T]) Reset() {
	t.fired = false
}

// SetInterval changes the window length for subsequent calls.
func (t *Throttle[T]) SetInterval(d time.Duration) {
	t.interval = d
}

// Debounce runs fn with the most recent value once no call has been
// made for interval.
type Debounce[T any] struct {
	clock    Clock
	interval time.Duration
	fn       func(T)
	timer    Timer
	value    T
	pending  bool
}

// NewDebounce creates a trailing-edge debounce.
func NewDebounce[T any](clock Clock, interval time.Duration, fn func(T)) *Debounce[T] {
	return &Debounce[T]{clock: clock, interval: interval, fn: fn}
}

// Call records v and restarts the quiet period.
func (d *Debounce[T]) Call(v T) {
	d.value = v
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.interval, d.fire)
}

// Pending returns true if a call is waiting for its quiet period.
func (d *Debounce[T]) Pending() bool {
	return d.pending
}

// PendingValue returns the value of the waiting call, if any.
func (d *Debounce[T]) PendingValue() (T, bool) {
	return d.value, d.pending
}

// Flush runs the pending call now, if any.
func (d *Debounce[T]) Flush() {
	if !d.pending {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.fire()
}

// Stop drops the pending call.
func (d *Debounce[T]) Stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
	var zero T
	d.value = zero
}

// SetInterval changes the quiet period for subsequent calls.
func (d *Debounce[T]) SetInterval(interval time.Duration) {
	d.interval = interval
}

func (d *Debounce[T]) fire() {
	if !d.pending {
		return
	}
	v := d.value
	d.pending = false
	d.timer = nil
	var zero T
	d.value = zero
	d.fn(v)
}
