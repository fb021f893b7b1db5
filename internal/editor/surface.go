package editor

import (
	"slices"

	"github.com/dshills/scribeline/internal/engine/document"
	"github.com/dshills/scribeline/internal/engine/region"
	"github.com/dshills/scribeline/internal/engine/span"
	"github.com/dshills/scribeline/internal/event"
	"github.com/dshills/scribeline/internal/input/selector"
	"github.com/dshills/scribeline/internal/logging"
)

// Geometry maps surface points to document slots. The terminal view's
// layout implements it.
type Geometry interface {
	SlotAt(p selector.Point) (int, bool)
}

// gesture is what the current press will do on release.
type gesture uint8

const (
	gestureNone gesture = iota
	gestureCreate
	gestureResize
)

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithSelectorOptions passes options to the underlying selector.
func WithSelectorOptions(opts ...selector.Option) SurfaceOption {
	return func(s *Surface) {
		s.selOpts = append(s.selOpts, opts...)
	}
}

// WithSurfaceLogger sets the logger.
func WithSurfaceLogger(l *logging.Logger) SurfaceOption {
	return func(s *Surface) {
		s.log = l
	}
}

// WithWordFilters installs filters applied to every gesture that
// creates a Section.
func WithWordFilters(filters ...selector.Filter[document.Node]) SurfaceOption {
	return func(s *Surface) {
		s.words = append(s.words, filters...)
	}
}

// Surface is the editing surface of a document. It owns a selector over
// the document's nodes and turns finished gestures into new or resized
// Sections. It is not safe for concurrent use.
type Surface struct {
	doc     *document.Document
	geo     Geometry
	sel     *selector.Selector[document.Node]
	selOpts []selector.Option
	log     *logging.Logger
	words   []selector.Filter[document.Node]

	mode      gesture
	handle    *document.Handle
	selecting map[document.Node]bool
	hovered   *document.Section

	SectionCreated    *event.Signal[SectionCreated]
	SectionRemoved    *event.Signal[SectionRemoved]
	SectionClick      *event.Signal[SectionEvent]
	SectionDblClick   *event.Signal[SectionEvent]
	SectionMouseEnter *event.Signal[SectionEvent]
	SectionMouseLeave *event.Signal[SectionEvent]
}

// NewSurface creates an editing surface for doc laid out by geo.
func NewSurface(doc *document.Document, geo Geometry, opts ...SurfaceOption) *Surface {
	s := &Surface{
		doc:               doc,
		geo:               geo,
		selecting:         make(map[document.Node]bool),
		SectionCreated:    event.NewSignal[SectionCreated]("section-created"),
		SectionRemoved:    event.NewSignal[SectionRemoved]("section-removed"),
		SectionClick:      event.NewSignal[SectionEvent]("section-click"),
		SectionDblClick:   event.NewSignal[SectionEvent]("section-dblclick"),
		SectionMouseEnter: event.NewSignal[SectionEvent]("section-mouseenter"),
		SectionMouseLeave: event.NewSignal[SectionEvent]("section-mouseleave"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.OrDiscard(s.log).WithComponent("surface")
	s.sel = selector.New[document.Node](s, s, s.selOpts...)
	s.listen()
	return s
}

// Document returns the document being edited.
func (s *Surface) Document() *document.Document {
	return s.doc
}

// Selector returns the underlying selector.
func (s *Surface) Selector() *selector.Selector[document.Node] {
	return s.sel
}

// SetGeometry replaces the layout used for hit testing.
func (s *Surface) SetGeometry(geo Geometry) {
	s.geo = geo
}

// SetWordFilters replaces the filters applied to creating gestures.
func (s *Surface) SetWordFilters(filters ...selector.Filter[document.Node]) {
	s.words = filters
}

// Selecting reports whether n is part of the gesture in progress.
func (s *Surface) Selecting(n document.Node) bool {
	return s.selecting[n]
}

// Hovered returns the Section under the pointer, if any.
func (s *Surface) Hovered() *document.Section {
	return s.hovered
}

// ElementsAt returns the leaf under p followed by its Section.
func (s *Surface) ElementsAt(p selector.Point) []document.Node {
	if s.geo == nil {
		return nil
	}
	slot, ok := s.geo.SlotAt(p)
	if !ok {
		return nil
	}
	leaf, ok := s.doc.Leaf(slot)
	if !ok {
		return nil
	}
	stack := []document.Node{leaf}
	if sec := sectionOf(leaf); sec != nil {
		stack = append(stack, sec)
	}
	return stack
}

// Between returns the selectable nodes from one node to another.
func (s *Surface) Between(from, to document.Node) []document.Node {
	return s.doc.Between(from, to)
}

// Selectables returns every selectable node of the document.
func (s *Surface) Selectables() []document.Node {
	return s.doc.Selectables()
}

// PointerDown starts a gesture.
func (s *Surface) PointerDown(p selector.Point) bool {
	return s.sel.PointerDown(p)
}

// PointerMove continues a gesture and tracks the hovered Section.
func (s *Surface) PointerMove(p selector.Point) {
	s.sel.PointerMove(p)
	s.track(p)
}

// PointerUp ends a gesture.
func (s *Surface) PointerUp(p selector.Point) {
	s.sel.PointerUp(p)
}

// Click reports a click.
func (s *Surface) Click(p selector.Point) {
	s.sel.Click(p)
}

// Destroy tears the surface down. Pending click timers are cancelled and
// every listener is dropped.
func (s *Surface) Destroy() {
	s.sel.Destroy()
	s.selecting = make(map[document.Node]bool)
	s.hovered = nil
	s.mode = gestureNone
	for _, sig := range []interface{ Clear() }{
		s.SectionCreated, s.SectionRemoved, s.SectionClick,
		s.SectionDblClick, s.SectionMouseEnter, s.SectionMouseLeave,
	} {
		sig.Clear()
	}
}

// Announce emits SectionCreated with Init set for every Section of the
// document, carrying the matching interval.
func (s *Surface) Announce(ivs []region.Interval) {
	for i, sec := range s.doc.Sections() {
		if i >= len(ivs) {
			return
		}
		index := s.doc.SectionIndex(sec)
		if index < 0 {
			continue
		}
		iv := ivs[i]
		s.SectionCreated.Emit(SectionCreated{Index: index, Section: sec, Interval: &iv, Init: true})
	}
}

// Apply wraps the top-level atoms of sp into new Sections. Existing
// Sections inside sp are left alone: sp is split around the first one
// it meets and each remaining part is applied on its own. The Sections
// still in the document afterwards are returned in document order.
func (s *Surface) Apply(sp span.Span) []*document.Section {
	var out []*document.Section
	for _, sec := range s.apply(sp) {
		if s.doc.Contains(sec) {
			out = append(out, sec)
		}
	}
	return out
}

func (s *Surface) apply(sp span.Span) []*document.Section {
	if sp.IsEmpty() {
		return nil
	}
	for _, sec := range s.doc.Sections() {
		secSpan := s.doc.MustSpan(sec)
		if r := span.Compare(sp, secSpan); r == span.Before || r == span.After {
			continue
		}
		parts := span.Difference(sp, secSpan)
		// Right to left, so new Sections do not shift the parts still to do.
		var created []*document.Section
		for i := len(parts) - 1; i >= 0; i-- {
			created = append(s.apply(parts[i]), created...)
		}
		return created
	}

	sec, err := s.doc.Surround(sp)
	if err != nil {
		s.log.Debug("cannot surround %s: %v", sp, err)
		return nil
	}
	s.sel.ResolveSelectables()
	s.log.Debug("created %v over %s", sec, sp)
	s.SectionCreated.Emit(SectionCreated{Index: s.doc.SectionIndex(sec), Section: sec})
	return []*document.Section{sec}
}

// Join merges every node sp touches into one Section. Sections it
// dissolves are announced as removed, last first, before the new one is
// announced as created. It returns nil if the new Section did not
// survive its announcement.
func (s *Surface) Join(sp span.Span) (*document.Section, error) {
	before := make(map[*document.Section]int)
	for i, sec := range s.doc.Sections() {
		before[sec] = i
	}
	sec, dissolved, err := s.doc.Join(sp)
	if err != nil {
		return nil, err
	}
	s.sel.ResolveSelectables()
	for i := len(dissolved) - 1; i >= 0; i-- {
		d := dissolved[i]
		s.SectionRemoved.Emit(SectionRemoved{Index: before[d], Section: d})
	}
	s.SectionCreated.Emit(SectionCreated{Index: s.doc.SectionIndex(sec), Section: sec})
	if !s.doc.Contains(sec) {
		return nil, nil
	}
	return sec, nil
}

// RemoveSection dissolves sec and announces it with the index it had.
func (s *Surface) RemoveSection(sec *document.Section) bool {
	index := s.doc.SectionIndex(sec)
	if index < 0 {
		return false
	}
	if err := s.doc.Unwrap(sec); err != nil {
		s.log.Warn("unwrap %v: %v", sec, err)
		return false
	}
	if s.hovered == sec {
		s.hovered = nil
	}
	s.sel.ResolveSelectables()
	s.SectionRemoved.Emit(SectionRemoved{Index: index, Section: sec})
	return true
}

func (s *Surface) listen() {
	type on = selector.Event[document.Node]
	mustOn(s.sel, selector.BeforeStart, func(ev on) event.Verdict { return s.beforeStart(ev) })
	mustOn(s.sel, selector.Hover, func(ev on) event.Verdict { return s.hover(ev) })
	mustOn(s.sel, selector.Change, event.Notify(s.change))
	mustOn(s.sel, selector.Stop, event.Notify(s.stop))
	mustOn(s.sel, selector.Click, event.Notify(func(ev on) { s.click(s.SectionClick, ev) }))
	mustOn(s.sel, selector.DblClick, event.Notify(func(ev on) { s.click(s.SectionDblClick, ev) }))
}

func mustOn(sel *selector.Selector[document.Node], k selector.Kind, l event.Listener[selector.Event[document.Node]]) {
	if _, err := sel.On(k, l); err != nil {
		panic("editor: " + err.Error())
	}
}

// beforeStart picks the gesture from the pivot and narrows what the
// gesture may select: a plain word only grows over plain words in the
// same gap between Sections, a handle only over words it may take in
// or give back.
func (s *Surface) beforeStart(ev selector.Event[document.Node]) event.Verdict {
	s.mode = gestureNone
	s.handle = nil
	switch pivot := ev.Target.(type) {
	case *document.Atom:
		if !pivot.IsTopLevel() {
			return event.Accept
		}
		s.mode = gestureCreate
		ev.Selector.AddFilter(document.IsTopLevelAtom)
		ev.Selector.AddFilter(s.sameGap(pivot))
		for _, f := range s.words {
			ev.Selector.AddFilter(f)
		}
	case *document.Handle:
		s.mode = gestureResize
		s.handle = pivot
		ev.Selector.AddFilter(s.resizable(pivot))
	}
	return event.Accept
}

// hover keeps a resize from targeting a Section as a whole.
func (s *Surface) hover(ev selector.Event[document.Node]) event.Verdict {
	if s.mode == gestureResize && document.IsSection(ev.Target) {
		return event.Reject
	}
	return event.Accept
}

func (s *Surface) change(ev selector.Event[document.Node]) {
	if s.mode == gestureNone {
		return
	}
	for _, n := range ev.Removed {
		delete(s.selecting, n)
	}
	for _, n := range ev.Added {
		s.selecting[n] = true
	}
}

func (s *Surface) stop(ev selector.Event[document.Node]) {
	ev.Selector.ClearFilters()
	s.selecting = make(map[document.Node]bool)
	mode, handle := s.mode, s.handle
	s.mode, s.handle = gestureNone, nil

	switch mode {
	case gestureCreate:
		runs := s.runs(ev.Selected)
		// Right to left, so new Sections do not shift the runs still to do.
		for i := len(runs) - 1; i >= 0; i-- {
			s.Apply(runs[i])
		}
	case gestureResize:
		s.resize(handle, ev.Selected)
	}
}

// runs splits the selected nodes into spans of adjacent slots. Words a
// filter turned down leave a gap, so they never end up inside a new
// Section.
func (s *Surface) runs(selected []document.Node) []span.Span {
	nodes := slices.Clone(selected)
	s.doc.Sort(nodes)
	var out []span.Span
	for _, n := range nodes {
		sp, ok := s.doc.Span(n)
		if !ok {
			continue
		}
		if last := len(out) - 1; last >= 0 {
			if u, ok := span.Union(out[last], sp); ok {
				out[last] = u
				continue
			}
		}
		out = append(out, sp)
	}
	return out
}

func (s *Surface) click(sig *event.Signal[SectionEvent], ev selector.Event[document.Node]) {
	if !ev.HasTarget {
		sig.Emit(SectionEvent{Index: -1})
		return
	}
	if sec, ok := ev.Target.(*document.Section); ok {
		if index := s.doc.SectionIndex(sec); index >= 0 {
			sig.Emit(SectionEvent{Index: index, Section: sec})
		}
	}
}

// resize moves the selected words into or out of the handle's Section.
// A Section left with fewer than document.MinSectionAtoms words is
// removed.
func (s *Surface) resize(h *document.Handle, selected []document.Node) {
	sec := h.Section()
	index := s.doc.SectionIndex(sec)
	if index < 0 {
		return
	}
	var atoms []*document.Atom
	for _, n := range selected {
		if a, ok := n.(*document.Atom); ok {
			atoms = append(atoms, a)
		}
	}
	if len(atoms) == 0 {
		return
	}
	rng, _ := s.doc.SpanOf(selected)
	pos := span.CompareNode(rng, s.doc.MustSpan(sec))

	var err error
	grow := (h.Side() == document.Left && pos == span.NodeAfter) ||
		(h.Side() == document.Right && pos == span.NodeBefore)
	if grow {
		err = s.doc.MoveIntoSection(sec, atoms, h.Side())
	} else {
		err = s.doc.MoveOutOfSection(sec, atoms, h.Side())
	}
	if err != nil {
		s.log.Debug("resize %v: %v", sec, err)
		return
	}
	s.sel.ResolveSelectables()
	s.log.Debug("resized %v from the %s", sec, h.Side())

	if !grow && sec.Len() < document.MinSectionAtoms {
		if err := s.doc.Unwrap(sec); err != nil {
			s.log.Warn("unwrap %v: %v", sec, err)
			return
		}
		if s.hovered == sec {
			s.hovered = nil
		}
		s.sel.ResolveSelectables()
		s.SectionRemoved.Emit(SectionRemoved{Index: index, Section: sec})
	}
}

// sameGap accepts nodes lying between the same two Sections as pivot.
func (s *Surface) sameGap(pivot document.Node) selector.Filter[document.Node] {
	var bounds []span.Span
	for _, sec := range s.doc.Sections() {
		bounds = append(bounds, s.doc.MustSpan(sec))
	}
	gap := func(n document.Node) int {
		sp, ok := s.doc.Span(n)
		if !ok {
			return -1
		}
		g := 0
		for _, b := range bounds {
			if b.End <= sp.Start {
				g++
			}
		}
		return g
	}
	want := gap(pivot)
	return func(n document.Node) bool {
		return gap(n) == want
	}
}

// resizable accepts the words a handle may move: for a left handle the
// words from the end of the previous Section through its own Section,
// for a right handle the words from its own Section to the start of the
// next one.
func (s *Surface) resizable(h *document.Handle) selector.Filter[document.Node] {
	sec := h.Section()
	index := s.doc.SectionIndex(sec)
	own := s.doc.MustSpan(sec)
	valid := own
	if h.Side() == document.Left {
		valid.Start = 0
		if prev, ok := s.doc.Section(index - 1); ok {
			valid.Start = s.doc.MustSpan(prev).End
		}
	} else {
		valid.End = s.doc.Len()
		if next, ok := s.doc.Section(index + 1); ok {
			valid.End = s.doc.MustSpan(next).Start
		}
	}
	return func(n document.Node) bool {
		if _, ok := n.(*document.Atom); !ok {
			return false
		}
		sp, ok := s.doc.Span(n)
		return ok && valid.ContainsSpan(sp)
	}
}

// track emits enter and leave as the pointer crosses Sections.
func (s *Surface) track(p selector.Point) {
	var sec *document.Section
	for _, n := range s.ElementsAt(p) {
		if c, ok := n.(*document.Section); ok {
			sec = c
			break
		}
	}
	if sec == s.hovered {
		return
	}
	if prev := s.hovered; prev != nil {
		if index := s.doc.SectionIndex(prev); index >= 0 {
			s.SectionMouseLeave.Emit(SectionEvent{Index: index, Section: prev})
		}
	}
	s.hovered = sec
	if sec != nil {
		s.SectionMouseEnter.Emit(SectionEvent{Index: s.doc.SectionIndex(sec), Section: sec})
	}
}

func sectionOf(n document.Node) *document.Section {
	switch n := n.(type) {
	case *document.Atom:
		return n.Section()
	case *document.Handle:
		return n.Section()
	}
	return nil
}
