package selector

import (
	"time"

	"github.com/dshills/scribeline/internal/event"
)

// Selector is the selection state machine. It is not safe for
// concurrent use; feed it input from a single goroutine.
type Selector[E comparable] struct {
	cfg   Config
	hit   HitTester[E]
	order Orderer[E]
	state State

	selectables map[E]struct{}
	selected    []E
	stored      []E
	ignored     map[E]struct{}
	filters     []filterEntry[E]
	nextFilter  FilterID

	origin     E
	pivot      E
	target     E
	prevTarget E
	hasTarget  bool

	drag   dragTracker
	clicks *clickTracker[E]

	signals [numKinds]*event.Signal[Event[E]]
}

// New creates a Selector over the elements reported by hit and order.
func New[E comparable](hit HitTester[E], order Orderer[E], opts ...Option) *Selector[E] {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Selector[E]{
		cfg:     cfg,
		hit:     hit,
		order:   order,
		ignored: make(map[E]struct{}),
		clicks:  newClickTracker[E](cfg.Clock, cfg.DoubleClickWindow),
	}
	for _, k := range Kinds() {
		s.signals[k] = event.NewSignal[Event[E]](k.String())
	}
	s.ResolveSelectables()
	return s
}

// State returns the gesture state.
func (s *Selector[E]) State() State {
	return s.state
}

// Threshold returns the drag threshold.
func (s *Selector[E]) Threshold() float64 {
	return s.cfg.Threshold
}

// SetThreshold changes the drag threshold. It applies from the next
// pointer move.
func (s *Selector[E]) SetThreshold(t float64) {
	s.cfg.Threshold = t
}

// SetDoubleClickWindow changes the double-click window for clicks not
// yet recorded.
func (s *Selector[E]) SetDoubleClickWindow(d time.Duration) {
	s.cfg.DoubleClickWindow = d
	s.clicks.window = d
}

// Signal returns the signal of the given kind.
func (s *Selector[E]) Signal(k Kind) (*event.Signal[Event[E]], error) {
	if k >= numKinds {
		return nil, ErrUnknownSignal
	}
	return s.signals[k], nil
}

// On subscribes a listener to a signal kind.
func (s *Selector[E]) On(k Kind, l event.Listener[Event[E]], opts ...event.SubscriptionOption) (event.Subscription, error) {
	if s.state == Destroyed {
		return nil, ErrDestroyed
	}
	sig, err := s.Signal(k)
	if err != nil {
		return nil, err
	}
	return sig.Subscribe(l, opts...), nil
}

// Off detaches a listener previously attached with On.
func (s *Selector[E]) Off(k Kind, sub event.Subscription) error {
	sig, err := s.Signal(k)
	if err != nil {
		return err
	}
	return sig.Unsubscribe(sub)
}

// Selected returns a copy of the live selection.
func (s *Selector[E]) Selected() []E {
	return cloneSlice(s.selected)
}

// Pivot returns the accepted pivot of the current or last gesture.
func (s *Selector[E]) Pivot() (E, bool) {
	return s.pivot, s.hasTarget
}

// ResolveSelectables recomputes the set of selectable elements.
// It runs at every press; call it directly after the document changes
// outside a gesture.
func (s *Selector[E]) ResolveSelectables() {
	els := s.order.Selectables()
	s.selectables = make(map[E]struct{}, len(els))
	for _, el := range els {
		s.selectables[el] = struct{}{}
	}
}

// IsSelectable reports whether el is in the selectable set.
func (s *Selector[E]) IsSelectable(el E) bool {
	_, ok := s.selectables[el]
	return ok
}

// KeepSelection stores the current selection as the seed of the next
// gesture.
func (s *Selector[E]) KeepSelection() {
	s.stored = cloneSlice(s.selected)
}

// Ignore excludes elements from targeting and selection until the next press.
func (s *Selector[E]) Ignore(elements ...E) {
	for _, el := range elements {
		s.ignored[el] = struct{}{}
	}
}

// ClearSelection empties the selection and emits Change.
func (s *Selector[E]) ClearSelection() {
	if s.state == Destroyed {
		return
	}
	added, removed := s.updateSelected(nil)
	s.emit(Change, s.target, s.hasTarget, Point{}, added, removed)
}

// Destroy cancels pending click timers, drops every listener and makes
// the selector ignore further input.
func (s *Selector[E]) Destroy() {
	if s.state == Destroyed {
		return
	}
	s.transition(Destroyed)
	s.clicks.reset()
	for _, sig := range s.signals {
		sig.Clear()
	}
	s.selected = nil
	s.stored = nil
	s.filters = nil
	s.ignored = make(map[E]struct{})
}

// PointerDown starts a gesture at p. It returns true if a pivot was
// accepted and the selector is now Selecting.
func (s *Selector[E]) PointerDown(p Point) bool {
	if s.state != Idle {
		return false
	}
	s.drag.start(p)
	s.ResolveSelectables()

	stack := s.candidates(p, false)
	if len(stack) == 0 {
		return false
	}

	// A press spends the kept selection, the ignore set and the filters
	// even when every candidate is then vetoed.
	s.selected = s.stored
	s.stored = nil
	s.ignored = make(map[E]struct{})
	s.filters = nil
	s.origin = stack[0]

	accepted := false
	for _, cand := range stack {
		s.pivot = cand
		s.hasTarget = true
		if s.emit(BeforeStart, cand, true, p, nil, nil) == event.Accept {
			accepted = true
			break
		}
	}
	if !accepted {
		s.hasTarget = false
		return false
	}
	s.target = s.pivot
	s.prevTarget = s.pivot

	s.transition(Selecting)
	next := cloneSlice(s.selected)
	if !contains(next, s.origin) {
		next = append(next, s.origin)
	}
	added, removed := s.updateSelected(next)
	s.emit(Change, s.target, true, p, added, removed)
	return true
}

// PointerMove continues a gesture.
func (s *Selector[E]) PointerMove(p Point) {
	if s.state != Selecting {
		return
	}
	s.drag.update(p, s.cfg.Threshold)

	s.prevTarget = s.target
	accepted := false
	for _, cand := range s.candidates(p, true) {
		if cand == s.prevTarget {
			continue
		}
		if s.emit(Hover, cand, true, p, nil, nil) == event.Accept {
			s.target = cand
			accepted = true
			break
		}
	}
	if !accepted || s.target == s.prevTarget {
		return
	}

	added, removed := s.updateSelected(s.order.Between(s.pivot, s.target))
	if len(added) > 0 || len(removed) > 0 {
		s.emit(Change, s.target, true, p, added, removed)
	}
}

// PointerUp ends a gesture. A gesture that never travelled past the
// threshold clears the selection; a drag emits Stop.
func (s *Selector[E]) PointerUp(p Point) {
	if s.state != Selecting {
		return
	}
	s.transition(Idle)

	if s.drag.isClick() {
		added, removed := s.updateSelected(nil)
		s.emit(Change, s.target, s.hasTarget, p, added, removed)
		return
	}

	s.prevTarget = s.target
	if stack := s.candidates(p, false); len(stack) > 0 {
		s.target = stack[0]
	}
	added, removed := s.updateSelected(cloneSlice(s.selected))
	s.emit(Stop, s.target, s.hasTarget, p, added, removed)
}

// Click reports a click at p. Clicks that end a drag are ignored.
func (s *Selector[E]) Click(p Point) {
	if s.state == Destroyed || !s.drag.isClick() {
		return
	}
	stack := s.candidates(p, false)
	if len(stack) == 0 {
		var zero E
		s.emit(Click, zero, false, p, nil, nil)
		return
	}
	for _, target := range stack {
		target := target
		if s.clicks.record(target, func() {
			s.emit(Click, target, true, p, nil, nil)
		}) {
			s.emit(DblClick, target, true, p, nil, nil)
		}
	}
}

// PendingClicks returns the number of single clicks waiting for the
// double-click window to elapse.
func (s *Selector[E]) PendingClicks() int {
	return s.clicks.count()
}

// candidates returns the selectable elements under p, front to back.
func (s *Selector[E]) candidates(p Point, skipIgnored bool) []E {
	var out []E
	for _, el := range s.hit.ElementsAt(p) {
		if !s.IsSelectable(el) {
			continue
		}
		if _, ign := s.ignored[el]; skipIgnored && ign {
			continue
		}
		out = append(out, el)
	}
	return out
}

// updateSelected filters next and makes it the selection, returning the
// elements that entered and left it.
func (s *Selector[E]) updateSelected(next []E) (added, removed []E) {
	var kept []E
	for _, el := range next {
		if !s.IsSelectable(el) {
			continue
		}
		if _, ign := s.ignored[el]; ign {
			continue
		}
		if !s.passes(el) {
			continue
		}
		kept = append(kept, el)
	}
	for _, el := range kept {
		if !contains(s.selected, el) {
			added = append(added, el)
		}
	}
	for _, el := range s.selected {
		if !contains(kept, el) {
			removed = append(removed, el)
		}
	}
	s.selected = kept
	return added, removed
}

func (s *Selector[E]) emit(k Kind, target E, hasTarget bool, p Point, added, removed []E) event.Verdict {
	return s.signals[k].Emit(Event[E]{
		Kind:      k,
		Target:    target,
		HasTarget: hasTarget,
		Origin:    s.origin,
		Pivot:     s.pivot,
		Point:     p,
		Selected:  cloneSlice(s.selected),
		Added:     added,
		Removed:   removed,
		Selector:  s,
	})
}

func contains[E comparable](els []E, el E) bool {
	for _, x := range els {
		if x == el {
			return true
		}
	}
	return false
}

func cloneSlice[E any](els []E) []E {
	if els == nil {
		return nil
	}
	out := make([]E, len(els))
	copy(out, els)
	return out
}
