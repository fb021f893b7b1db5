package timing

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualClockFiresInDeadlineOrder(t *testing.T) {
	c := NewManualClock(epoch)
	var order []string
	c.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(15 * time.Millisecond)
	if diff := cmp.Diff([]string{"a"}, order); diff != "" {
		t.Fatalf("after 15ms (-want +got):\n%s", diff)
	}

	c.Advance(time.Second)
	if diff := cmp.Diff([]string{"a", "b", "c"}, order); diff != "" {
		t.Fatalf("after 1s (-want +got):\n%s", diff)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestManualClockNowDuringCallback(t *testing.T) {
	c := NewManualClock(epoch)
	var seen time.Time
	c.AfterFunc(40*time.Millisecond, func() { seen = c.Now() })
	c.Advance(time.Second)

	if want := epoch.Add(40 * time.Millisecond); !seen.Equal(want) {
		t.Errorf("Now() in callback = %v, want %v", seen, want)
	}
	if want := epoch.Add(time.Second); !c.Now().Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", c.Now(), want)
	}
}

func TestManualClockStop(t *testing.T) {
	c := NewManualClock(epoch)
	fired := false
	tm := c.AfterFunc(10*time.Millisecond, func() { fired = true })

	if !tm.Stop() {
		t.Fatal("Stop() = false, want true")
	}
	if tm.Stop() {
		t.Error("second Stop() = true, want false")
	}
	c.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestManualClockChainedTimers(t *testing.T) {
	c := NewManualClock(epoch)
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			c.AfterFunc(10*time.Millisecond, tick)
		}
	}
	c.AfterFunc(10*time.Millisecond, tick)
	c.Advance(100 * time.Millisecond)

	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestThrottle(t *testing.T) {
	c := NewManualClock(epoch)
	var got []int
	th := NewThrottle(c, 150*time.Millisecond, func(v int) { got = append(got, v) })

	if !th.Call(1) {
		t.Error("first call should run")
	}
	c.Advance(50 * time.Millisecond)
	if th.Call(2) {
		t.Error("call inside window should be dropped")
	}
	c.Advance(100 * time.Millisecond)
	if !th.Call(3) {
		t.Error("call after window should run")
	}

	if diff := cmp.Diff([]int{1, 3}, got); diff != "" {
		t.Errorf("throttled values (-want +got):\n%s", diff)
	}

	th.Reset()
	if !th.Call(4) {
		t.Error("call after Reset should run")
	}
}

func TestDebounce(t *testing.T) {
	c := NewManualClock(epoch)
	var got []int
	d := NewDebounce(c, 150*time.Millisecond, func(v int) { got = append(got, v) })

	d.Call(1)
	c.Advance(100 * time.Millisecond)
	d.Call(2)
	c.Advance(100 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("debounce fired early: %v", got)
	}
	if !d.Pending() {
		t.Error("Pending() = false, want true")
	}

	c.Advance(50 * time.Millisecond)
	if diff := cmp.Diff([]int{2}, got); diff != "" {
		t.Errorf("debounced values (-want +got):\n%s", diff)
	}
	if d.Pending() {
		t.Error("Pending() = true after firing")
	}
}

func TestDebounceFlushAndStop(t *testing.T) {
	c := NewManualClock(epoch)
	var got []string
	d := NewDebounce(c, time.Second, func(v string) { got = append(got, v) })

	d.Call("flushed")
	d.Flush()
	d.Call("dropped")
	d.Stop()
	c.Advance(time.Minute)

	if diff := cmp.Diff([]string{"flushed"}, got); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}
}

func TestSystemClockPostsToLoop(t *testing.T) {
	posted := make(chan func(), 1)
	c := NewSystemClock(func(fn func()) { posted <- fn })

	done := false
	c.AfterFunc(time.Millisecond, func() { done = true })

	select {
	case fn := <-posted:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not posted")
	}
	if !done {
		t.Error("posted callback did not run")
	}
}

func TestSystemClockStopBeforePostedRun(t *testing.T) {
	posted := make(chan func(), 1)
	c := NewSystemClock(func(fn func()) { posted <- fn })

	ran := false
	tm := c.AfterFunc(time.Millisecond, func() { ran = true })

	var fn func()
	select {
	case fn = <-posted:
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not posted")
	}
	if !tm.Stop() {
		t.Error("Stop() before the loop ran the callback = false, want true")
	}
	fn()
	if ran {
		t.Error("callback ran after Stop")
	}
}
