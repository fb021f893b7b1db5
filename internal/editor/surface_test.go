package editor

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/scribeline/internal/engine/document"
	"github.com/dshills/scribeline/internal/engine/span"
	"github.com/dshills/scribeline/internal/event"
	"github.com/dshills/scribeline/internal/input/selector"
	"github.com/dshills/scribeline/internal/timing"
)

// surfaceRecorder captures the section signals of a bare surface.
type surfaceRecorder struct {
	created []SectionCreated
	removed []SectionRemoved
	clicks  []int
	dbl     []int
	enter   []int
	leave   []int
}

func newSurface(t *testing.T, doc *document.Document, opts ...selector.Option) (*Surface, *surfaceRecorder, *timing.ManualClock) {
	t.Helper()
	clock := timing.NewManualClock(time.Unix(0, 0))
	selOpts := append([]selector.Option{selector.WithClock(clock), selector.WithThreshold(5)}, opts...)
	s := NewSurface(doc, row{}, WithSelectorOptions(selOpts...))
	rec := &surfaceRecorder{}
	s.SectionCreated.Subscribe(event.Notify(func(ev SectionCreated) { rec.created = append(rec.created, ev) }))
	s.SectionRemoved.Subscribe(event.Notify(func(ev SectionRemoved) { rec.removed = append(rec.removed, ev) }))
	s.SectionClick.Subscribe(event.Notify(func(ev SectionEvent) { rec.clicks = append(rec.clicks, ev.Index) }))
	s.SectionDblClick.Subscribe(event.Notify(func(ev SectionEvent) { rec.dbl = append(rec.dbl, ev.Index) }))
	s.SectionMouseEnter.Subscribe(event.Notify(func(ev SectionEvent) { rec.enter = append(rec.enter, ev.Index) }))
	s.SectionMouseLeave.Subscribe(event.Notify(func(ev SectionEvent) { rec.leave = append(rec.leave, ev.Index) }))
	return s, rec, clock
}

func sectionTexts(doc *document.Document) []string {
	var out []string
	for _, s := range doc.Sections() {
		out = append(out, s.Text())
	}
	return out
}

func TestSurfaceDragCreatesSection(t *testing.T) {
	doc := document.New("a", "b", "c", "d", "e")
	s, rec, _ := newSurface(t, doc, selector.WithThreshold(150))

	s.PointerDown(at(0))
	s.PointerMove(selector.Point{X: 25, Y: 200})
	s.PointerUp(selector.Point{X: 25, Y: 200})

	if diff := cmp.Diff([]string{"a b c"}, sectionTexts(doc)); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	if len(rec.created) != 1 {
		t.Fatalf("SectionCreated fired %d times, want 1", len(rec.created))
	}
	if ev := rec.created[0]; ev.Index != 0 || ev.Interval != nil || ev.Init {
		t.Errorf("SectionCreated = %+v, want index 0 without interval", ev)
	}
}

func TestSurfaceShortGestureDoesNotCreate(t *testing.T) {
	doc := document.New("a", "b", "c")
	s, rec, clock := newSurface(t, doc, selector.WithThreshold(150))

	s.PointerDown(at(0))
	s.PointerMove(at(2)) // 20 units, under the threshold
	s.PointerUp(at(2))
	s.Click(at(2))
	clock.Advance(250 * time.Millisecond)

	if doc.SectionCount() != 0 || len(rec.created) != 0 {
		t.Errorf("short gesture created sections: %v", sectionTexts(doc))
	}
	if len(s.Selector().Selected()) != 0 {
		t.Errorf("selection not cleared: %v", s.Selector().Selected())
	}
}

func TestSurfaceCreateStaysInGap(t *testing.T) {
	doc := document.NewBuilder().Text("a", "b").Section("c", "d").Text("e").Build()
	s, _, _ := newSurface(t, doc)

	e := doc.Atoms()[4]
	drag(s, 0, slotOf(t, doc, e))

	if diff := cmp.Diff([]string{"a b", "c d"}, sectionTexts(doc)); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	if !e.IsTopLevel() {
		t.Error("word beyond the existing section was taken")
	}
}

func TestSurfaceWordFilters(t *testing.T) {
	doc := document.New("um", "a", "b")
	noFillers := func(n document.Node) bool {
		a, ok := n.(*document.Atom)
		return !ok || a.Text() != "um"
	}
	clock := timing.NewManualClock(time.Unix(0, 0))
	s := NewSurface(doc, row{},
		WithSelectorOptions(selector.WithClock(clock), selector.WithThreshold(5)),
		WithWordFilters(noFillers),
	)

	drag(s, 2, 0)

	if diff := cmp.Diff([]string{"a b"}, sectionTexts(doc)); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestSurfaceFilteredWordSplitsSection(t *testing.T) {
	doc := document.New("a", "b", "um", "c")
	noFillers := func(n document.Node) bool {
		a, ok := n.(*document.Atom)
		return !ok || a.Text() != "um"
	}
	clock := timing.NewManualClock(time.Unix(0, 0))
	s := NewSurface(doc, row{},
		WithSelectorOptions(selector.WithClock(clock), selector.WithThreshold(5)),
		WithWordFilters(noFillers),
	)
	var created []int
	s.SectionCreated.Subscribe(event.Notify(func(ev SectionCreated) { created = append(created, ev.Index) }))

	drag(s, 0, 3)

	if diff := cmp.Diff([]string{"a b", "c"}, sectionTexts(doc)); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	if um := doc.Atoms()[2]; !um.IsTopLevel() {
		t.Errorf("filtered word %q taken into %v", um.Text(), um.Section())
	}
	// The later run is wrapped first.
	if diff := cmp.Diff([]int{0, 0}, created); diff != "" {
		t.Errorf("created indexes (-want +got):\n%s", diff)
	}
}

func TestSurfaceResize(t *testing.T) {
	// Slots: x0 y1 [2 a3 b4 c5 ]6 z7 w8
	tests := []struct {
		name     string
		from, to int
		sections []string
		text     string
	}{
		{"grow left", 2, 0, []string{"x y a b c"}, "x y a b c z w"},
		{"shrink left", 2, 3, []string{"b c"}, "x y a b c z w"},
		{"grow right", 6, 8, []string{"a b c z w"}, "x y a b c z w"},
		{"shrink right", 6, 5, []string{"a b"}, "x y a b c z w"},
		{"grow left by one", 2, 1, []string{"y a b c"}, "x y a b c z w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document.NewBuilder().Text("x", "y").Section("a", "b", "c").Text("z", "w").Build()
			s, rec, _ := newSurface(t, doc)

			drag(s, tt.from, tt.to)

			if diff := cmp.Diff(tt.sections, sectionTexts(doc)); diff != "" {
				t.Errorf("sections mismatch (-want +got):\n%s", diff)
			}
			if doc.Text() != tt.text {
				t.Errorf("document text = %q, want %q", doc.Text(), tt.text)
			}
			if len(rec.created) != 0 || len(rec.removed) != 0 {
				t.Errorf("resize announced created=%v removed=%v", rec.created, rec.removed)
			}
		})
	}
}

func TestSurfaceShrinkBelowMinimumRemovesSection(t *testing.T) {
	// Slots: [0 p1 q2 ]3 x4 [5 a6 b7 c8 ]9
	doc := document.NewBuilder().Section("p", "q").Text("x").Section("a", "b", "c").Build()
	s, rec, _ := newSurface(t, doc)
	doomed, _ := doc.Section(1)

	drag(s, 5, 7)

	if diff := cmp.Diff([]string{"p q"}, sectionTexts(doc)); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	if len(rec.removed) != 1 {
		t.Fatalf("SectionRemoved fired %d times, want 1", len(rec.removed))
	}
	if got := rec.removed[0]; got.Index != 1 || got.Section != doomed {
		t.Errorf("SectionRemoved = {%d %v}, want index 1 of the shrunk section", got.Index, got.Section)
	}
	if doc.Text() != "p q x a b c" {
		t.Errorf("document text = %q", doc.Text())
	}
}

func TestSurfaceApplySplitsAroundSections(t *testing.T) {
	tests := []struct {
		name    string
		doc     func() *document.Document
		span    func(*document.Document) span.Span
		created []string
		all     []string
	}{
		{
			name: "across three sections",
			doc: func() *document.Document {
				return document.NewBuilder().
					Text("a").Section("b", "c").
					Text("d").Section("e", "f").
					Text("g").Section("h", "i").
					Text("j").Build()
			},
			span:    func(d *document.Document) span.Span { return span.New(0, d.Len()) },
			created: []string{"a", "d", "g", "j"},
			all:     []string{"a", "b c", "d", "e f", "g", "h i", "j"},
		},
		{
			name: "overhanging a section",
			doc: func() *document.Document {
				return document.NewBuilder().Text("a", "b").Section("c", "d").Text("e").Build()
			},
			span:    func(d *document.Document) span.Span { return span.New(0, 4) },
			created: []string{"a b"},
			all:     []string{"a b", "c d"},
		},
		{
			name: "inside a section",
			doc: func() *document.Document {
				return document.NewBuilder().Section("a", "b", "c").Build()
			},
			span: func(d *document.Document) span.Span { return span.New(1, 3) },
			all:  []string{"a b c"},
		},
		{
			name: "collapsed",
			doc: func() *document.Document {
				return document.New("a", "b")
			},
			span: func(d *document.Document) span.Span { return span.Collapsed(1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tt.doc()
			s, rec, _ := newSurface(t, doc)

			var got []string
			for _, sec := range s.Apply(tt.span(doc)) {
				got = append(got, sec.Text())
			}

			if diff := cmp.Diff(tt.created, got); diff != "" {
				t.Errorf("created mismatch (-want +got):\n%s", diff)
			}
			if len(rec.created) != len(tt.created) {
				t.Errorf("SectionCreated fired %d times, want %d", len(rec.created), len(tt.created))
			}
			if diff := cmp.Diff(tt.all, sectionTexts(doc)); diff != "" {
				t.Errorf("sections mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSurfaceCreatedIndexes(t *testing.T) {
	doc := document.NewBuilder().
		Text("a").Section("b", "c").
		Text("d").Section("e", "f").
		Text("g").Build()
	s, rec, _ := newSurface(t, doc)

	s.Apply(span.New(0, doc.Len()))

	// Rightmost parts are created first.
	var got []int
	for _, ev := range rec.created {
		got = append(got, ev.Index)
	}
	if diff := cmp.Diff([]int{2, 1, 0}, got); diff != "" {
		t.Errorf("created indexes mismatch (-want +got):\n%s", diff)
	}
}

func TestSurfaceHoverRejectsSectionWhileResizing(t *testing.T) {
	doc := document.NewBuilder().Section("a", "b").Build()
	s, _, _ := newSurface(t, doc)
	sec, _ := doc.Section(0)

	s.mode = gestureResize
	if v := s.hover(selector.Event[document.Node]{Target: sec}); v != event.Reject {
		t.Errorf("hover(section) while resizing = %v, want reject", v)
	}
	if v := s.hover(selector.Event[document.Node]{Target: sec.Atoms()[0]}); v != event.Accept {
		t.Errorf("hover(atom) while resizing = %v, want accept", v)
	}

	s.mode = gestureCreate
	if v := s.hover(selector.Event[document.Node]{Target: sec}); v != event.Accept {
		t.Errorf("hover(section) while creating = %v, want accept", v)
	}
}

func TestSurfaceClicks(t *testing.T) {
	click := func(s *Surface, p selector.Point) {
		s.PointerDown(p)
		s.PointerUp(p)
		s.Click(p)
	}

	t.Run("single", func(t *testing.T) {
		doc := document.NewBuilder().Section("a", "b").Text("c").Build()
		s, rec, clock := newSurface(t, doc)

		click(s, at(1))
		if len(rec.clicks) != 0 {
			t.Fatalf("click emitted before the window elapsed")
		}
		clock.Advance(250 * time.Millisecond)

		if diff := cmp.Diff([]int{0}, rec.clicks); diff != "" {
			t.Errorf("clicks mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("double", func(t *testing.T) {
		doc := document.NewBuilder().Section("a", "b").Text("c").Build()
		s, rec, clock := newSurface(t, doc)

		click(s, at(1))
		clock.Advance(100 * time.Millisecond)
		click(s, at(2))
		clock.Advance(250 * time.Millisecond)

		if diff := cmp.Diff([]int{0}, rec.dbl); diff != "" {
			t.Errorf("dblclicks mismatch (-want +got):\n%s", diff)
		}
		if len(rec.clicks) != 0 {
			t.Errorf("single clicks = %v, want none", rec.clicks)
		}
	})

	t.Run("empty space", func(t *testing.T) {
		doc := document.New("a")
		s, rec, _ := newSurface(t, doc)

		click(s, selector.Point{X: -5, Y: 5})

		if diff := cmp.Diff([]int{-1}, rec.clicks); diff != "" {
			t.Errorf("clicks mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("plain word", func(t *testing.T) {
		doc := document.NewBuilder().Section("a", "b").Text("c").Build()
		s, rec, clock := newSurface(t, doc)

		click(s, at(4))
		clock.Advance(250 * time.Millisecond)

		if len(rec.clicks) != 0 {
			t.Errorf("click on a plain word reported section clicks %v", rec.clicks)
		}
	})
}

func TestSurfaceMouseEnterLeave(t *testing.T) {
	// Slots: [0 a1 b2 ]3 c4 [5 d6 e7 ]8
	doc := document.NewBuilder().Section("a", "b").Text("c").Section("d", "e").Build()
	s, rec, _ := newSurface(t, doc)

	for _, slot := range []int{1, 2, 4, 6, 7} {
		s.PointerMove(at(slot))
	}

	if diff := cmp.Diff([]int{0, 1}, rec.enter); diff != "" {
		t.Errorf("enter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0}, rec.leave); diff != "" {
		t.Errorf("leave mismatch (-want +got):\n%s", diff)
	}
	if s.Hovered() == nil || s.Hovered().Text() != "d e" {
		t.Errorf("Hovered() = %v, want the second section", s.Hovered())
	}
}

func TestSurfaceSelectingTracksGesture(t *testing.T) {
	doc := document.New("a", "b", "c")
	s, _, _ := newSurface(t, doc)
	atoms := doc.Atoms()

	s.PointerDown(at(0))
	s.PointerMove(at(1))
	if !s.Selecting(atoms[0]) || !s.Selecting(atoms[1]) || s.Selecting(atoms[2]) {
		t.Error("selecting set does not follow the gesture")
	}
	s.PointerUp(at(1))
	if s.Selecting(atoms[0]) {
		t.Error("selecting set not cleared on stop")
	}
}

func TestSurfaceJoin(t *testing.T) {
	// Slots: a0 [1 b2 c3 ]4 d5 [6 e7 f8 ]9 g10
	doc := document.NewBuilder().Text("a").Section("b", "c").Text("d").Section("e", "f").Text("g").Build()
	s, rec, _ := newSurface(t, doc)
	first, _ := doc.Section(0)
	second, _ := doc.Section(1)

	sec, err := s.Join(span.New(3, 8))
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if sec == nil || sec.Text() != "b c d e f" {
		t.Fatalf("Join() = %v, want section over b..f", sec)
	}

	want := []SectionRemoved{{Index: 1, Section: second}, {Index: 0, Section: first}}
	if len(rec.removed) != len(want) {
		t.Fatalf("removed %d sections, want %d", len(rec.removed), len(want))
	}
	for i, w := range want {
		if got := rec.removed[i]; got.Index != w.Index || got.Section != w.Section {
			t.Errorf("removed[%d] = {%d %v}, want {%d %v}", i, got.Index, got.Section, w.Index, w.Section)
		}
	}
	if len(rec.created) != 1 || rec.created[0].Index != 0 {
		t.Errorf("created = %+v, want one at index 0", rec.created)
	}
}

func TestSurfaceRemoveSection(t *testing.T) {
	doc := document.NewBuilder().Text("x").Section("a", "b").Build()
	s, rec, _ := newSurface(t, doc)
	sec, _ := doc.Section(0)

	if !s.RemoveSection(sec) {
		t.Fatal("RemoveSection() = false")
	}
	if s.RemoveSection(sec) {
		t.Error("second RemoveSection() = true")
	}
	if len(rec.removed) != 1 || rec.removed[0].Index != 0 {
		t.Errorf("removed = %+v", rec.removed)
	}
	if doc.SectionCount() != 0 || doc.Text() != "x a b" {
		t.Errorf("document after removal: %q with %d sections", doc.Text(), doc.SectionCount())
	}
}

func TestSurfaceDestroy(t *testing.T) {
	doc := document.New("a", "b", "c")
	s, rec, clock := newSurface(t, doc)

	s.PointerDown(at(0))
	s.PointerUp(at(0))
	s.Click(at(0))
	s.Destroy()
	clock.Advance(time.Second)

	if s.PointerDown(at(0)) {
		t.Error("PointerDown accepted after Destroy")
	}
	drag(s, 0, 2)
	if doc.SectionCount() != 0 || len(rec.created) != 0 {
		t.Error("destroyed surface still creates sections")
	}
	if clock.Pending() != 0 {
		t.Errorf("%d timers left after Destroy", clock.Pending())
	}
}
