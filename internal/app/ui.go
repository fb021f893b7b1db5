package app

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scribeline/internal/engine/document"
	"github.com/dshills/scribeline/internal/event"
	"github.com/dshills/scribeline/internal/input/selector"
	"github.com/dshills/scribeline/internal/view"
)

// Zoom steps for the timeline keys and wheel.
const (
	zoomIn  = 0.5
	zoomOut = 2.0
)

// UI adapts an Application to the terminal loop. The bottom row is the
// status line, the row above it the region timeline while editing, and
// the rest shows the transcript.
type UI struct {
	app    *Application
	mouse  view.Mouse
	lines  lineTarget
	width  int
	height int
}

// NewUI creates the terminal handler for a.
func NewUI(a *Application) *UI {
	u := &UI{app: a, lines: lineTarget{app: a}}
	u.mouse.Wheel = u.wheel
	a.StateChanged.Subscribe(event.Notify(func(StateEvent) { u.route() }))
	return u
}

func (u *UI) textArea() view.Area {
	return view.Area{X: 0, Y: 0, W: u.width, H: max(u.height-2, 0)}
}

func (u *UI) barArea() view.Area {
	return view.Area{X: 0, Y: max(u.height-2, 0), W: u.width, H: 1}
}

// route points the mouse at the targets of the current state.
func (u *UI) route() {
	switch u.app.State() {
	case Editing:
		u.mouse.SetTargets(
			view.Target{Area: u.textArea(), Pointer: u.app.Editor().Surface()},
			view.Target{Area: u.barArea(), Pointer: u.app.Bar()},
		)
	case Viewing:
		u.mouse.SetTargets(view.Target{Area: u.textArea(), Pointer: u.lines})
	default:
		u.mouse.SetTargets()
	}
}

// Resize lays the screen out again.
func (u *UI) Resize(width, height int) {
	u.width, u.height = width, height
	u.app.SetAreas(u.textArea(), u.barArea())
	u.route()
}

// Mouse routes a mouse event.
func (u *UI) Mouse(ev *tcell.EventMouse) {
	u.mouse.Handle(ev)
}

func (u *UI) wheel(x, y, dy int, _ tcell.ModMask) {
	if u.app.State() != Editing {
		return
	}
	if u.barArea().Contains(x, y) {
		factor := zoomOut
		if dy < 0 {
			factor = zoomIn
		}
		bar := u.app.Bar()
		bar.Zoom(factor, bar.TimeAt(x))
		return
	}
	u.app.Layout().Scroll(dy)
}

// Key handles a key press and reports whether to quit.
func (u *UI) Key(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		u.report(u.app.DoneEditing())
	case tcell.KeyEscape:
		u.report(u.app.CancelEditing())
	case tcell.KeyLeft:
		u.step(-1)
	case tcell.KeyRight:
		u.step(1)
	case tcell.KeyUp:
		u.scroll(-1)
	case tcell.KeyDown:
		u.scroll(1)
	case tcell.KeyRune:
		return u.rune(ev.Rune())
	}
	return false
}

func (u *UI) rune(r rune) bool {
	switch r {
	case 'q':
		return true
	case 'e':
		u.report(u.app.StartEditing())
	case ' ':
		u.app.TogglePlay()
	case 's':
		u.report(u.app.Save())
	case '+', '=':
		u.zoom(zoomIn)
	case '-':
		u.zoom(zoomOut)
	}
	return false
}

// step moves to the neighbouring line while viewing, or pans the
// timeline by a tenth of its window while editing.
func (u *UI) step(dir int) {
	switch u.app.State() {
	case Viewing:
		cur := u.app.Tracker().State().Current
		next := min(max(cur+dir, 0), len(u.app.Transcript())-1)
		if next >= 0 {
			u.report(u.app.Goto(next))
		}
	case Editing:
		_, length := u.app.Bar().Window()
		u.app.Bar().Pan(float64(dir) * length / 10)
	}
}

func (u *UI) scroll(dy int) {
	if u.app.State() == Editing {
		u.app.Layout().Scroll(dy)
	}
}

func (u *UI) zoom(factor float64) {
	if u.app.State() != Editing {
		return
	}
	u.app.Bar().Zoom(factor, u.app.Transport().CurrentTime())
}

func (u *UI) report(err error) {
	if err != nil {
		u.app.notice = err.Error()
		u.app.log.WithError(err).Debug("key action failed")
	}
}

// Draw paints the current state.
func (u *UI) Draw(s tcell.Screen) {
	a := u.app
	switch a.State() {
	case Viewing:
		view.DrawLines(s, a.Lines(), a.LineState)
	case Editing:
		view.DrawDocument(s, a.Layout(), u.nodeStyle)
		a.Bar().Draw(s, a.Transport().CurrentTime())
	case Error:
		if err := a.Err(); err != nil {
			view.DrawText(s, 1, 0, u.width-1, err.Error(), view.StyleError)
		}
	case Loading:
		view.DrawText(s, 1, 0, u.width-1, "loading…", view.StyleDim)
	}
	if u.height > 0 {
		view.DrawStatus(s, u.height-1, u.width, u.status(), u.clock(), view.StyleStatus)
	}
}

// nodeStyle colors a leaf by its Section's region and marks the nodes
// under a selection gesture.
func (u *UI) nodeStyle(n document.Node) tcell.Style {
	ed := u.app.Editor()
	if ed.Surface().Selecting(n) {
		return view.StyleSelecting
	}
	st := view.StyleText
	var sec *document.Section
	switch n := n.(type) {
	case *document.Atom:
		sec = n.Section()
	case *document.Handle:
		sec = n.Section()
		st = view.StyleHandle
	}
	if sec == nil {
		return st
	}
	i := ed.Timeline().IndexOf(sec)
	if i < 0 {
		return st
	}
	r := ed.Regions()
	return st.Background(view.RegionColor(i, r.IsActive(i), r.IsHighlighted(i)))
}

func (u *UI) status() string {
	a := u.app
	s := a.State().String()
	if a.Modified() {
		s += " *"
	}
	if n := a.Notice(); n != "" {
		s += "  " + n
	}
	return s
}

func (u *UI) clock() string {
	tr := u.app.Transport()
	if tr == nil {
		return ""
	}
	mark := "‖"
	if tr.IsPlaying() {
		mark = "▶"
	}
	return fmt.Sprintf("%s %s / %s", mark, formatTime(tr.CurrentTime()), formatTime(tr.Duration()))
}

func formatTime(t float64) string {
	t = math.Max(t, 0)
	return fmt.Sprintf("%d:%04.1f", int(t)/60, math.Mod(t, 60))
}

// lineTarget seeks to the line clicked while viewing.
type lineTarget struct {
	app *Application
}

func (l lineTarget) PointerDown(selector.Point) bool { return true }
func (l lineTarget) PointerMove(selector.Point)      {}
func (l lineTarget) PointerUp(selector.Point)        {}

func (l lineTarget) Click(p selector.Point) {
	lines := l.app.Lines()
	if lines == nil {
		return
	}
	if i, ok := lines.LineAt(int(p.X), int(p.Y)); ok {
		if err := l.app.Goto(i); err != nil {
			l.app.log.WithError(err).Debug("goto line %d", i)
		}
	}
}
