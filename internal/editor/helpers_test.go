package editor

import (
	"testing"
	"time"

	"github.com/dshills/scribeline/internal/engine/document"
	"github.com/dshills/scribeline/internal/engine/region"
	"github.com/dshills/scribeline/internal/event"
	"github.com/dshills/scribeline/internal/input/selector"
	"github.com/dshills/scribeline/internal/timing"
)

// row lays every slot out on one line, ten units wide.
type row struct{}

func (row) SlotAt(p selector.Point) (int, bool) {
	if p.X < 0 {
		return 0, false
	}
	return int(p.X) / 10, true
}

func at(slot int) selector.Point {
	return selector.Point{X: float64(slot*10 + 5), Y: 5}
}

// drag presses at one slot, moves to another and releases there.
func drag(s *Surface, from, to int) {
	s.PointerDown(at(from))
	s.PointerMove(at(to))
	s.PointerUp(at(to))
	s.Click(at(to))
}

func slotOf(t *testing.T, doc *document.Document, n document.Node) int {
	t.Helper()
	sp, ok := doc.Span(n)
	if !ok {
		t.Fatalf("%v not in document", n)
	}
	return sp.Start
}

type fakePlayer struct {
	playing bool
	pauses  int
	ranges  []region.Interval
}

func (p *fakePlayer) IsPlaying() bool { return p.playing }

func (p *fakePlayer) Pause() {
	p.playing = false
	p.pauses++
}

func (p *fakePlayer) PlayRange(start, end float64) {
	p.playing = true
	p.ranges = append(p.ranges, region.Interval{Start: start, End: end})
}

// fixture is an editor over a document with a manual clock.
type fixture struct {
	clock   *timing.ManualClock
	player  *fakePlayer
	regions *region.Set
	editor  *Editor
	created []SectionCreated
	removed []SectionRemoved
	noRoom  []SectionCreated
}

func newFixture(t *testing.T, doc *document.Document, duration float64, opts ...selector.Option) *fixture {
	t.Helper()
	f := &fixture{
		clock:  timing.NewManualClock(time.Unix(0, 0)),
		player: &fakePlayer{},
	}
	regions, err := region.NewSet(duration, region.WithClock(f.clock), region.WithPlayer(f.player))
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	f.regions = regions
	selOpts := append([]selector.Option{selector.WithClock(f.clock)}, opts...)
	f.editor = New(doc, regions, row{},
		WithPlayer(f.player),
		WithSurfaceOptions(WithSelectorOptions(selOpts...)),
	)
	s := f.editor.Surface()
	s.SectionCreated.Subscribe(event.Notify(func(ev SectionCreated) { f.created = append(f.created, ev) }), event.WithPriority(event.PriorityLow))
	s.SectionRemoved.Subscribe(event.Notify(func(ev SectionRemoved) { f.removed = append(f.removed, ev) }))
	f.editor.NoRoom.Subscribe(event.Notify(func(ev SectionCreated) { f.noRoom = append(f.noRoom, ev) }))
	return f
}

func (f *fixture) intervals() []region.Interval {
	var out []region.Interval
	for _, r := range f.regions.All() {
		out = append(out, r.Interval)
	}
	return out
}

func (f *fixture) check(t *testing.T) {
	t.Helper()
	if err := f.editor.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}
