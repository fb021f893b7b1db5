package view

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scribeline/internal/engine/region"
	"github.com/dshills/scribeline/internal/input/selector"
	"github.com/dshills/scribeline/internal/logging"
)

// grip is the part of a region a press landed on.
type grip uint8

const (
	gripNone grip = iota
	gripStart
	gripEnd
	gripBody
)

// TimelineBar draws a region set on one row and turns pointer input
// into region drags, clicks and hover. It shows a window of the media
// that can be zoomed down to a minimum duration and panned.
type TimelineBar struct {
	regions *region.Set
	area    Area
	minZoom float64
	start   float64
	length  float64
	log     *logging.Logger

	// Seek is called with the time under a click on empty timeline.
	Seek func(t float64)

	drag struct {
		index  int
		grip   grip
		from   float64 // time under the press
		iv     region.Interval
		moved  bool
		active bool
	}
	hovered int
}

// NewTimelineBar shows the whole of regions' duration. minZoom is the
// shortest window Zoom may reach.
func NewTimelineBar(regions *region.Set, minZoom float64, log *logging.Logger) *TimelineBar {
	b := &TimelineBar{
		regions: regions,
		minZoom: minZoom,
		length:  regions.Duration(),
		hovered: -1,
		log:     logging.OrDiscard(log).WithComponent("timeline"),
	}
	b.drag.index = -1
	return b
}

// SetArea places the bar. Only the first row of a is used.
func (b *TimelineBar) SetArea(a Area) {
	b.area = a
}

// Area returns the bar's area.
func (b *TimelineBar) Area() Area {
	return b.area
}

// SetMinZoom changes the shortest window and re-applies the zoom.
func (b *TimelineBar) SetMinZoom(d float64) {
	b.minZoom = d
	b.Zoom(1, b.start)
}

// Window returns the visible start and length in seconds.
func (b *TimelineBar) Window() (start, length float64) {
	return b.start, b.length
}

// Zoom scales the window by factor, keeping the time around at the same
// column. The window stays between the minimum zoom and the whole
// media.
func (b *TimelineBar) Zoom(factor, around float64) {
	dur := b.regions.Duration()
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	next := b.length * factor
	next = math.Max(next, math.Min(b.minZoom, dur))
	next = math.Min(next, dur)
	frac := 0.0
	if b.length > 0 {
		frac = (around - b.start) / b.length
	}
	b.length = next
	b.pan(around - frac*next)
}

// Pan moves the window by dt seconds.
func (b *TimelineBar) Pan(dt float64) {
	b.pan(b.start + dt)
}

func (b *TimelineBar) pan(start float64) {
	b.start = math.Max(0, math.Min(start, b.regions.Duration()-b.length))
}

// Follow pans so that t is visible.
func (b *TimelineBar) Follow(t float64) {
	if t < b.start || t > b.start+b.length {
		b.pan(t - b.length/2)
	}
}

// TimeAt returns the time at the left edge of column x.
func (b *TimelineBar) TimeAt(x int) float64 {
	if b.area.W <= 0 {
		return b.start
	}
	return b.start + float64(x-b.area.X)*b.length/float64(b.area.W)
}

// cellTime is the media time one column covers.
func (b *TimelineBar) cellTime() float64 {
	if b.area.W <= 0 {
		return b.length
	}
	return b.length / float64(b.area.W)
}

// ColumnOf returns the column showing time t.
func (b *TimelineBar) ColumnOf(t float64) int {
	if b.length <= 0 {
		return b.area.X
	}
	return b.area.X + int(math.Floor((t-b.start)/b.length*float64(b.area.W)))
}

// span returns the first and last column of iv, clipped to the bar.
func (b *TimelineBar) span(iv region.Interval) (int, int, bool) {
	c0 := b.ColumnOf(iv.Start)
	c1 := b.ColumnOf(iv.End)
	if iv.End > iv.Start && c1 > c0 && b.ColumnOf(iv.End-1e-9) < c1 {
		c1-- // an end on a column boundary belongs to the column before
	}
	last := b.area.X + b.area.W - 1
	if c1 < b.area.X || c0 > last {
		return 0, 0, false
	}
	return max(c0, b.area.X), min(c1, last), true
}

// RegionAt returns the region under column x and which part of it.
func (b *TimelineBar) RegionAt(x int) (int, grip) {
	for i, r := range b.regions.All() {
		c0, c1, ok := b.span(r.Interval)
		if !ok || x < c0 || x > c1 {
			continue
		}
		switch {
		case c1 > c0 && x == c0:
			return i, gripStart
		case x == c1:
			return i, gripEnd
		default:
			return i, gripBody
		}
	}
	return -1, gripNone
}

func (b *TimelineBar) inside(p selector.Point) bool {
	return int(p.Y) == b.area.Y && b.area.Contains(int(p.X), int(p.Y))
}

// PointerDown grabs the region under p. A press on an edge resizes, a
// press on the body moves.
func (b *TimelineBar) PointerDown(p selector.Point) bool {
	b.drag.active = false
	b.drag.moved = false
	if !b.inside(p) {
		return false
	}
	i, g := b.RegionAt(int(p.X))
	b.drag.index, b.drag.grip = i, g
	b.drag.from = b.TimeAt(int(p.X))
	if i < 0 {
		return true
	}
	r, _ := b.regions.At(i)
	b.drag.iv = r.Interval
	if err := b.regions.BeginDrag(i); err != nil {
		b.log.WithError(err).Warn("begin drag %d", i)
		return true
	}
	b.drag.active = true
	return true
}

// PointerMove drags the grabbed region or tracks hover.
func (b *TimelineBar) PointerMove(p selector.Point) {
	if !b.drag.active {
		b.hover(p)
		return
	}
	dt := b.TimeAt(int(p.X)) - b.drag.from
	if dt == 0 && !b.drag.moved {
		return
	}
	b.drag.moved = true
	iv := b.drag.iv
	cell := b.cellTime()
	switch b.drag.grip {
	case gripStart:
		iv.Start = math.Min(iv.Start+dt, iv.End-cell)
	case gripEnd:
		iv.End = math.Max(iv.End+dt, iv.Start+cell)
	case gripBody:
		dt = math.Max(dt, -iv.Start)
		dt = math.Min(dt, b.regions.Duration()-iv.End)
		iv.Start += dt
		iv.End += dt
	}
	if err := b.regions.DragTo(b.drag.index, iv); err != nil {
		b.log.WithError(err).Debug("drag %d to %s", b.drag.index, iv)
	}
}

// PointerUp releases the grabbed region.
func (b *TimelineBar) PointerUp(p selector.Point) {
	if b.drag.active && b.drag.moved {
		if err := b.regions.EndDrag(b.drag.index); err != nil {
			b.log.WithError(err).Warn("end drag %d", b.drag.index)
		}
	}
}

// Click activates the region under p, or seeks when the click lands on
// empty timeline. Clicks that ended a drag are ignored.
func (b *TimelineBar) Click(p selector.Point) {
	if b.drag.moved {
		b.drag.moved = false
		b.drag.active = false
		return
	}
	if b.drag.active {
		// a press that never moved closes without a release
		b.regions.CancelDrag(b.drag.index)
		b.drag.active = false
	}
	if !b.inside(p) {
		return
	}
	if i, _ := b.RegionAt(int(p.X)); i >= 0 {
		b.regions.Click(i)
		return
	}
	if b.Seek != nil {
		b.Seek(math.Max(0, math.Min(b.TimeAt(int(p.X)), b.regions.Duration())))
	}
}

func (b *TimelineBar) hover(p selector.Point) {
	next := -1
	if b.inside(p) {
		next, _ = b.RegionAt(int(p.X))
	}
	if next == b.hovered {
		return
	}
	if b.hovered >= 0 {
		b.regions.Leave(b.hovered)
	}
	b.hovered = next
	if next >= 0 {
		b.regions.Enter(next)
	}
}

// Hovered returns the region under the pointer, or -1.
func (b *TimelineBar) Hovered() int {
	return b.hovered
}

// Draw paints the bar and the playhead at now.
func (b *TimelineBar) Draw(s tcell.Screen, now float64) {
	y := b.area.Y
	for x := b.area.X; x < b.area.X+b.area.W; x++ {
		s.SetContent(x, y, '─', nil, StyleDim)
	}
	active := b.regions.Active()
	for i, r := range b.regions.All() {
		c0, c1, ok := b.span(r.Interval)
		if !ok {
			continue
		}
		st := tcell.StyleDefault.Background(RegionColor(i, i == active, b.regions.IsHighlighted(i)))
		for x := c0; x <= c1; x++ {
			ch := ' '
			if x == c0 {
				ch = '▏'
			}
			s.SetContent(x, y, ch, nil, st)
		}
	}
	if c := b.ColumnOf(now); c >= b.area.X && c < b.area.X+b.area.W {
		_, _, st, _ := s.GetContent(c, y) //nolint:staticcheck // keep the region background
		_, bg, _ := st.Decompose()
		s.SetContent(c, y, '│', nil, StylePlayhead.Background(bg))
	}
}
