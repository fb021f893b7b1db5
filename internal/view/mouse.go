package view

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scribeline/internal/input/selector"
)

// Pointer receives the pointer gestures of one screen region. The
// editing surface and the timeline bar implement it.
type Pointer interface {
	PointerDown(p selector.Point) bool
	PointerMove(p selector.Point)
	PointerUp(p selector.Point)
	Click(p selector.Point)
}

// Target routes pointer input inside an area to a Pointer.
type Target struct {
	Area    Area
	Pointer Pointer
}

// Mouse turns tcell mouse events, which only report button state, into
// press, move, release and click calls. A press captures the target
// under it until the button is released; moves without a button go to
// the hovered target, and to the previously hovered one once more so it
// can see the pointer leave.
type Mouse struct {
	targets  []Target
	pressed  bool
	captured Pointer
	hovered  Pointer

	// Wheel is called for wheel events with dy -1 (up) or 1 (down).
	Wheel func(x, y, dy int, mod tcell.ModMask)
}

// SetTargets replaces the routing table. Earlier targets win overlaps.
func (m *Mouse) SetTargets(targets ...Target) {
	m.targets = targets
	m.pressed = false
	m.captured = nil
	m.hovered = nil
}

func (m *Mouse) at(x, y int) Pointer {
	for _, t := range m.targets {
		if t.Area.Contains(x, y) {
			return t.Pointer
		}
	}
	return nil
}

// Handle dispatches one mouse event.
func (m *Mouse) Handle(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := selector.Point{X: float64(x), Y: float64(y)}
	buttons := ev.Buttons()

	if m.Wheel != nil {
		switch {
		case buttons&tcell.WheelUp != 0:
			m.Wheel(x, y, -1, ev.Modifiers())
			return
		case buttons&tcell.WheelDown != 0:
			m.Wheel(x, y, 1, ev.Modifiers())
			return
		}
	}

	down := buttons&tcell.Button1 != 0
	switch {
	case down && !m.pressed:
		m.pressed = true
		m.captured = m.at(x, y)
		if m.captured != nil {
			m.captured.PointerDown(p)
		}
	case down:
		if m.captured != nil {
			m.captured.PointerMove(p)
		}
	case m.pressed:
		m.pressed = false
		if c := m.captured; c != nil {
			m.captured = nil
			c.PointerUp(p)
			c.Click(p)
		}
	default:
		next := m.at(x, y)
		if m.hovered != nil && m.hovered != next {
			m.hovered.PointerMove(p)
		}
		if next != nil {
			next.PointerMove(p)
		}
		m.hovered = next
	}
}
