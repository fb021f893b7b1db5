// Package timing provides the clock abstraction used by every deferred
// callback in the engine: the double-click window, the region fixup
// throttle and debounce, and config reload coalescing.
//
// Callbacks scheduled through a Clock always run on the owner's loop.
// The engine is single-threaded; a SystemClock hands expired timers to
// a post function that queues them onto that loop, and a ManualClock
// fires them synchronously from Advance in tests.
package timing

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from firing.
	// It returns false if the callback already ran or was stopped.
	Stop() bool
}

// Clock schedules deferred callbacks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc arranges for fn to run once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
}

// PostFunc queues fn onto the owner loop.
type PostFunc func(fn func())

// SystemClock is a Clock backed by the runtime timer wheel.
type SystemClock struct {
	post PostFunc
}

// NewSystemClock creates a clock that delivers expired callbacks through
// post. A nil post runs callbacks on the timer goroutine, which is only
// safe for callers that do their own locking.
func NewSystemClock(post PostFunc) *SystemClock {
	return &SystemClock{post: post}
}

// Now returns time.Now().
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn after d.
func (c *SystemClock) AfterFunc(d time.Duration, fn func()) Timer {
	st := &systemTimer{}
	st.t = time.AfterFunc(d, func() {
		if c.post == nil {
			st.fire(fn)
			return
		}
		c.post(func() { st.fire(fn) })
	})
	return st
}

type systemTimer struct {
	mu      sync.Mutex
	t       *time.Timer
	stopped bool
	fired   bool
}

// fire runs fn unless Stop won the race after the runtime timer expired
// but before the posted callback reached the loop.
func (st *systemTimer) fire(fn func()) {
	st.mu.Lock()
	if st.stopped || st.fired {
		st.mu.Unlock()
		return
	}
	st.fired = true
	st.mu.Unlock()
	fn()
}

func (st *systemTimer) Stop() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.stopped || st.fired {
		return false
	}
	st.stopped = true
	st.t.Stop()
	return true
}

// ManualClock is a deterministic Clock for tests.
// Time only moves when Advance or Set is called.
type ManualClock struct {
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

// NewManualClock creates a manual clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	return c.now
}

// AfterFunc schedules fn to run when the clock reaches Now()+d.
func (c *ManualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.seq++
	mt := &manualTimer{clock: c, when: c.now.Add(d), fn: fn, seq: c.seq}
	c.timers = append(c.timers, mt)
	return mt
}

// Advance moves the clock forward by d, firing due timers in deadline
// order. Timers scheduled by callbacks fire too if they fall due.
func (c *ManualClock) Advance(d time.Duration) {
	c.Set(c.now.Add(d))
}

// Set moves the clock to t, firing due timers in deadline order.
func (c *ManualClock) Set(t time.Time) {
	for {
		next := c.nextDue(t)
		if next == nil {
			break
		}
		c.remove(next)
		if next.when.After(c.now) {
			c.now = next.when
		}
		next.fn()
	}
	if t.After(c.now) {
		c.now = t
	}
}

// Pending returns the number of timers that have not fired.
func (c *ManualClock) Pending() int {
	return len(c.timers)
}

func (c *ManualClock) nextDue(t time.Time) *manualTimer {
	if len(c.timers) == 0 {
		return nil
	}
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].when.Equal(c.timers[j].when) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].when.Before(c.timers[j].when)
	})
	if c.timers[0].when.After(t) {
		return nil
	}
	return c.timers[0]
}

func (c *ManualClock) remove(mt *manualTimer) bool {
	for i, other := range c.timers {
		if other == mt {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}

type manualTimer struct {
	clock *ManualClock
	when  time.Time
	fn    func()
	seq   uint64
}

func (mt *manualTimer) Stop() bool {
	return mt.clock.remove(mt)
}
