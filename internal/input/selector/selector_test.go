package selector

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/scribeline/internal/event"
	"github.com/dshills/scribeline/internal/timing"
)

// strip lays words out on one row, ten units per word. Groups cover a
// run of words and sit behind them in the hit stack.
type strip struct {
	words  []string
	groups map[string][2]int
}

func newStrip(n int) *strip {
	s := &strip{groups: make(map[string][2]int)}
	for i := 0; i < n; i++ {
		s.words = append(s.words, string(rune('a'+i)))
	}
	return s
}

func (s *strip) at(i int) Point {
	return Point{X: float64(i*10 + 5), Y: 5}
}

func (s *strip) ElementsAt(p Point) []string {
	i := int(p.X) / 10
	if p.Y < 0 || p.Y >= 10 || p.X < 0 || i >= len(s.words) {
		return nil
	}
	stack := []string{s.words[i]}
	for name, g := range s.groups {
		if i >= g[0] && i <= g[1] {
			stack = append(stack, name)
		}
	}
	return stack
}

func (s *strip) index(el string) int {
	for i, w := range s.words {
		if w == el {
			return i
		}
	}
	if g, ok := s.groups[el]; ok {
		return g[0]
	}
	return -1
}

func (s *strip) Between(from, to string) []string {
	a, b := s.index(from), s.index(to)
	if a > b {
		a, b = b, a
	}
	return append([]string(nil), s.words[a:b+1]...)
}

func (s *strip) Selectables() []string {
	out := append([]string(nil), s.words...)
	for name := range s.groups {
		out = append(out, name)
	}
	return out
}

// recorder captures every signal a selector emits.
type recorder struct {
	events []Event[string]
}

func record(t *testing.T, sel *Selector[string]) *recorder {
	t.Helper()
	r := &recorder{}
	for _, k := range []Kind{Change, Stop, Click, DblClick} {
		if _, err := sel.On(k, event.Notify(func(ev Event[string]) {
			r.events = append(r.events, ev)
		})); err != nil {
			t.Fatalf("On(%v) error = %v", k, err)
		}
	}
	return r
}

func (r *recorder) kinds() []Kind {
	out := make([]Kind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func (r *recorder) count(k Kind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == k {
			n++
		}
	}
	return n
}

func (r *recorder) last(k Kind) (Event[string], bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == k {
			return r.events[i], true
		}
	}
	return Event[string]{}, false
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestSelector(s *strip, opts ...Option) (*Selector[string], *timing.ManualClock) {
	clock := timing.NewManualClock(epoch)
	opts = append([]Option{WithClock(clock)}, opts...)
	return New[string](s, s, opts...), clock
}

func TestDragSelectsRange(t *testing.T) {
	s := newStrip(6)
	sel, _ := newTestSelector(s)
	rec := record(t, sel)

	if !sel.PointerDown(s.at(1)) {
		t.Fatal("PointerDown() = false")
	}
	if sel.State() != Selecting {
		t.Fatalf("State() = %v, want selecting", sel.State())
	}
	sel.PointerMove(s.at(4))
	sel.PointerUp(s.at(4))

	stop, ok := rec.last(Stop)
	if !ok {
		t.Fatalf("no stop emitted; got %v", rec.kinds())
	}
	if diff := cmp.Diff([]string{"b", "c", "d", "e"}, stop.Selected); diff != "" {
		t.Errorf("stop selection (-want +got):\n%s", diff)
	}
	if stop.Pivot != "b" || stop.Target != "e" {
		t.Errorf("pivot/target = %q/%q, want b/e", stop.Pivot, stop.Target)
	}
	if sel.State() != Idle {
		t.Errorf("State() = %v, want idle", sel.State())
	}

	// Press change, move change, stop.
	want := []Kind{Change, Change, Stop}
	if diff := cmp.Diff(want, rec.kinds()); diff != "" {
		t.Errorf("signals (-want +got):\n%s", diff)
	}
	move := rec.events[1]
	if diff := cmp.Diff([]string{"c", "d", "e"}, move.Added); diff != "" {
		t.Errorf("move added (-want +got):\n%s", diff)
	}
}

func TestDragShrinkReportsRemoved(t *testing.T) {
	s := newStrip(6)
	sel, _ := newTestSelector(s)
	rec := record(t, sel)

	sel.PointerDown(s.at(0))
	sel.PointerMove(s.at(4))
	sel.PointerMove(s.at(2))

	ev, _ := rec.last(Change)
	if diff := cmp.Diff([]string{"d", "e"}, ev.Removed); diff != "" {
		t.Errorf("removed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, sel.Selected()); diff != "" {
		t.Errorf("Selected() (-want +got):\n%s", diff)
	}
}

func TestJustClickClearsSelection(t *testing.T) {
	s := newStrip(4)
	sel, _ := newTestSelector(s)
	rec := record(t, sel)

	sel.PointerDown(s.at(1))
	sel.PointerMove(Point{X: s.at(1).X + 3, Y: 5})
	sel.PointerUp(Point{X: s.at(1).X + 3, Y: 5})

	if rec.count(Stop) != 0 {
		t.Error("a click gesture emitted stop")
	}
	ev, _ := rec.last(Change)
	if len(ev.Selected) != 0 {
		t.Errorf("selection after click = %v, want empty", ev.Selected)
	}
	if diff := cmp.Diff([]string{"b"}, ev.Removed); diff != "" {
		t.Errorf("removed (-want +got):\n%s", diff)
	}
}

func TestDragFlagIsSticky(t *testing.T) {
	s := newStrip(30)
	sel, _ := newTestSelector(s)
	sel.SetThreshold(150)
	rec := record(t, sel)

	start := s.at(0)
	sel.PointerDown(start)
	sel.PointerMove(Point{X: start.X + 160, Y: start.Y})
	sel.PointerMove(start)
	sel.PointerUp(start)
	sel.Click(start)

	if rec.count(Stop) != 1 {
		t.Errorf("stop count = %d, want 1", rec.count(Stop))
	}
	if sel.PendingClicks() != 0 || rec.count(Click) != 0 {
		t.Error("click after a drag should be ignored")
	}
}

func TestThresholdIsExclusive(t *testing.T) {
	s := newStrip(30)
	sel, _ := newTestSelector(s, WithThreshold(20))
	rec := record(t, sel)

	sel.PointerDown(s.at(0))
	sel.PointerMove(s.at(2)) // exactly 20 units
	sel.PointerUp(s.at(2))

	if rec.count(Stop) != 0 {
		t.Error("travel equal to the threshold should stay a click")
	}
}

func TestBeforeStartVeto(t *testing.T) {
	s := newStrip(4)
	s.groups["g"] = [2]int{1, 2}
	sel, _ := newTestSelector(s)
	rec := record(t, sel)

	var offered []string
	sel.On(BeforeStart, func(ev Event[string]) event.Verdict {
		offered = append(offered, ev.Target)
		if ev.Target == "g" {
			return event.Accept
		}
		return event.Reject
	})

	if !sel.PointerDown(s.at(1)) {
		t.Fatal("PointerDown() = false, want the group accepted")
	}
	if diff := cmp.Diff([]string{"b", "g"}, offered); diff != "" {
		t.Errorf("offered candidates (-want +got):\n%s", diff)
	}
	if pivot, _ := sel.Pivot(); pivot != "g" {
		t.Errorf("Pivot() = %q, want g", pivot)
	}
	ev, _ := rec.last(Change)
	if ev.Origin != "b" {
		t.Errorf("Origin = %q, want b", ev.Origin)
	}

	sel.PointerUp(s.at(1))
	rec.events = nil

	if sel.PointerDown(s.at(0)) {
		t.Error("PointerDown() = true with every candidate rejected")
	}
	if sel.State() != Idle || len(rec.events) != 0 {
		t.Errorf("rejected press changed state (%v) or emitted %v", sel.State(), rec.kinds())
	}
}

func TestAnyListenerRejects(t *testing.T) {
	s := newStrip(2)
	sel, _ := newTestSelector(s)
	sel.On(BeforeStart, func(Event[string]) event.Verdict { return event.Accept })
	sel.On(BeforeStart, func(Event[string]) event.Verdict { return event.Reject })

	if sel.PointerDown(s.at(0)) {
		t.Error("PointerDown() accepted despite one listener rejecting")
	}
}

func TestHoverVeto(t *testing.T) {
	s := newStrip(6)
	sel, _ := newTestSelector(s)
	rec := record(t, sel)
	sel.On(Hover, func(ev Event[string]) event.Verdict {
		if ev.Target == "d" {
			return event.Reject
		}
		return event.Accept
	})

	sel.PointerDown(s.at(0))
	sel.PointerMove(s.at(3))
	if diff := cmp.Diff([]string{"a"}, sel.Selected()); diff != "" {
		t.Errorf("selection after rejected hover (-want +got):\n%s", diff)
	}
	if rec.count(Change) != 1 {
		t.Errorf("change count = %d, want 1", rec.count(Change))
	}

	sel.PointerMove(s.at(4))
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e"}, sel.Selected()); diff != "" {
		t.Errorf("selection after accepted hover (-want +got):\n%s", diff)
	}
}

func TestFiltersApplyAndResetOnPress(t *testing.T) {
	s := newStrip(5)
	sel, _ := newTestSelector(s)
	first := true
	sel.On(BeforeStart, event.Notify(func(ev Event[string]) {
		if first {
			ev.Selector.AddFilter(func(el string) bool { return el != "c" })
			first = false
		}
	}))

	sel.PointerDown(s.at(0))
	sel.PointerMove(s.at(3))
	if diff := cmp.Diff([]string{"a", "b", "d"}, sel.Selected()); diff != "" {
		t.Errorf("filtered selection (-want +got):\n%s", diff)
	}
	sel.PointerUp(s.at(3))

	sel.PointerDown(s.at(0))
	if sel.Filters() != 0 {
		t.Errorf("Filters() = %d after press, want 0", sel.Filters())
	}
	sel.PointerMove(s.at(3))
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, sel.Selected()); diff != "" {
		t.Errorf("selection after reset (-want +got):\n%s", diff)
	}
}

func TestAddFilterReturnsFiltered(t *testing.T) {
	sel, _ := newTestSelector(newStrip(3))
	id, kept := sel.AddFilter(func(el string) bool { return el != "b" }, "a", "b", "c")

	if diff := cmp.Diff([]string{"a", "c"}, kept); diff != "" {
		t.Errorf("kept (-want +got):\n%s", diff)
	}
	if err := sel.RemoveFilter(id); err != nil {
		t.Errorf("RemoveFilter() error = %v", err)
	}
	if err := sel.RemoveFilter(id); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("second RemoveFilter() error = %v, want ErrUnknownFilter", err)
	}
}

func TestKeepSelectionSeedsNextGesture(t *testing.T) {
	s := newStrip(6)
	sel, _ := newTestSelector(s)

	sel.PointerDown(s.at(0))
	sel.PointerMove(s.at(1))
	sel.KeepSelection()
	sel.PointerUp(s.at(1))

	sel.PointerDown(s.at(4))
	if diff := cmp.Diff([]string{"a", "b", "e"}, sel.Selected()); diff != "" {
		t.Errorf("seeded selection (-want +got):\n%s", diff)
	}
}

func TestVetoedPressSpendsGestureState(t *testing.T) {
	s := newStrip(6)
	sel, _ := newTestSelector(s)
	veto := false
	sel.On(BeforeStart, func(Event[string]) event.Verdict {
		if veto {
			return event.Reject
		}
		return event.Accept
	})

	sel.PointerDown(s.at(0))
	sel.PointerMove(s.at(1))
	sel.KeepSelection()
	sel.AddFilter(func(el string) bool { return el != "e" })
	sel.Ignore("f")
	sel.PointerUp(s.at(1))

	veto = true
	if sel.PointerDown(s.at(3)) {
		t.Fatal("PointerDown() = true with every candidate rejected")
	}
	if sel.Filters() != 0 {
		t.Errorf("Filters() = %d after vetoed press, want 0", sel.Filters())
	}

	veto = false
	sel.PointerDown(s.at(4))
	sel.PointerMove(s.at(5))
	if diff := cmp.Diff([]string{"e", "f"}, sel.Selected()); diff != "" {
		t.Errorf("selection after vetoed press (-want +got):\n%s", diff)
	}
}

func TestIgnore(t *testing.T) {
	s := newStrip(6)
	sel, _ := newTestSelector(s)
	var hovered []string
	sel.On(Hover, event.Notify(func(ev Event[string]) { hovered = append(hovered, ev.Target) }))

	sel.PointerDown(s.at(0))
	sel.Ignore("c")
	sel.PointerMove(s.at(2))
	sel.PointerMove(s.at(3))

	if diff := cmp.Diff([]string{"d"}, hovered); diff != "" {
		t.Errorf("hovered (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "d"}, sel.Selected()); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
}

func TestSingleClickAfterWindow(t *testing.T) {
	s := newStrip(3)
	sel, clock := newTestSelector(s)
	rec := record(t, sel)

	sel.PointerDown(s.at(1))
	sel.PointerUp(s.at(1))
	sel.Click(s.at(1))

	if rec.count(Click) != 0 {
		t.Fatal("click emitted before the window elapsed")
	}
	clock.Advance(200 * time.Millisecond)

	ev, ok := rec.last(Click)
	if !ok || ev.Target != "b" || !ev.HasTarget {
		t.Errorf("click = %+v, %v; want target b", ev, ok)
	}
}

func TestDoubleClick(t *testing.T) {
	s := newStrip(3)
	sel, clock := newTestSelector(s)
	rec := record(t, sel)

	for i := 0; i < 2; i++ {
		sel.PointerDown(s.at(1))
		sel.PointerUp(s.at(1))
		sel.Click(s.at(1))
		clock.Advance(100 * time.Millisecond)
	}
	clock.Advance(time.Second)

	if rec.count(DblClick) != 1 {
		t.Errorf("dblclick count = %d, want 1", rec.count(DblClick))
	}
	if rec.count(Click) != 0 {
		t.Errorf("click count = %d, want 0", rec.count(Click))
	}
}

func TestSlowClicksAreSingles(t *testing.T) {
	s := newStrip(3)
	sel, clock := newTestSelector(s)
	rec := record(t, sel)

	for i := 0; i < 2; i++ {
		sel.Click(s.at(1))
		clock.Advance(250 * time.Millisecond)
	}

	if rec.count(Click) != 2 || rec.count(DblClick) != 0 {
		t.Errorf("click/dblclick = %d/%d, want 2/0", rec.count(Click), rec.count(DblClick))
	}
}

func TestClickOnEmptySpace(t *testing.T) {
	s := newStrip(3)
	sel, _ := newTestSelector(s)
	rec := record(t, sel)

	sel.Click(Point{X: 500, Y: 500})

	ev, ok := rec.last(Click)
	if !ok || ev.HasTarget {
		t.Errorf("click = %+v, %v; want a click without target", ev, ok)
	}
}

func TestClickReportsEveryStackedTarget(t *testing.T) {
	s := newStrip(3)
	s.groups["g"] = [2]int{0, 2}
	sel, clock := newTestSelector(s)
	rec := record(t, sel)

	sel.Click(s.at(1))
	clock.Advance(time.Second)

	var targets []string
	for _, ev := range rec.events {
		targets = append(targets, ev.Target)
	}
	if diff := cmp.Diff([]string{"b", "g"}, targets); diff != "" {
		t.Errorf("click targets (-want +got):\n%s", diff)
	}
}

func TestUnknownSignal(t *testing.T) {
	sel, _ := newTestSelector(newStrip(1))
	_, err := sel.On(Kind(42), event.Notify(func(Event[string]) {}))
	if !errors.Is(err, ErrUnknownSignal) {
		t.Errorf("On(42) error = %v, want ErrUnknownSignal", err)
	}
	if err := sel.Off(Kind(42), nil); !errors.Is(err, ErrUnknownSignal) {
		t.Errorf("Off(42) error = %v, want ErrUnknownSignal", err)
	}
}

func TestOff(t *testing.T) {
	s := newStrip(2)
	sel, _ := newTestSelector(s)
	calls := 0
	sub, _ := sel.On(Change, event.Notify(func(Event[string]) { calls++ }))

	if err := sel.Off(Change, sub); err != nil {
		t.Fatalf("Off() error = %v", err)
	}
	sel.PointerDown(s.at(0))
	if calls != 0 {
		t.Errorf("listener called %d times after Off", calls)
	}
}

func TestDestroy(t *testing.T) {
	s := newStrip(3)
	sel, clock := newTestSelector(s)
	rec := record(t, sel)

	sel.Click(s.at(1))
	sel.Destroy()
	clock.Advance(time.Second)

	if len(rec.events) != 0 {
		t.Errorf("destroyed selector emitted %v", rec.kinds())
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clock.Pending())
	}
	if sel.PointerDown(s.at(0)) {
		t.Error("PointerDown() accepted after Destroy")
	}
	if _, err := sel.On(Change, event.Notify(func(Event[string]) {})); !errors.Is(err, ErrDestroyed) {
		t.Errorf("On() after Destroy error = %v, want ErrDestroyed", err)
	}
	sel.Destroy()
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to State
		ok       bool
	}{
		{Idle, Selecting, true},
		{Selecting, Idle, true},
		{Idle, Destroyed, true},
		{Destroyed, Idle, false},
		{Destroyed, Selecting, false},
		{Idle, Idle, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			if got := canTransition(tt.from, tt.to); got != tt.ok {
				t.Errorf("canTransition() = %v, want %v", got, tt.ok)
			}
		})
	}
}
