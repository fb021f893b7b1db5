package view

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/scribeline/internal/logging"
	"github.com/dshills/scribeline/internal/timing"
)

// Handler reacts to terminal events on the loop goroutine.
type Handler interface {
	// Key handles a key press. Returning true ends the loop.
	Key(ev *tcell.EventKey) bool
	Mouse(ev *tcell.EventMouse)
	Resize(width, height int)
	Draw(s tcell.Screen)
}

// quit is posted to stop the loop.
type quit struct{}

// Loop owns a tcell screen and runs every callback of the application
// on one goroutine: terminal events, and functions posted from other
// goroutines or from timers as interrupt events.
type Loop struct {
	screen  tcell.Screen
	handler Handler
	log     *logging.Logger
	clock   *timing.SystemClock
}

// OpenScreen initializes the terminal with mouse reporting enabled.
// Call Fini on the screen when done.
func OpenScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	return screen, nil
}

// NewLoop creates a loop over an initialized screen.
func NewLoop(screen tcell.Screen, handler Handler, log *logging.Logger) *Loop {
	l := &Loop{
		screen:  screen,
		handler: handler,
		log:     logging.OrDiscard(log).WithComponent("loop"),
	}
	l.clock = timing.NewSystemClock(l.Post)
	return l
}

// SetHandler replaces the handler. Call before Run.
func (l *Loop) SetHandler(h Handler) {
	l.handler = h
}

// Post queues fn to run on the loop. It is safe from any goroutine.
func (l *Loop) Post(fn func()) {
	if err := l.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		l.log.WithError(err).Warn("event queue full, dropping callback")
	}
}

// Clock returns a clock whose timers fire on the loop.
func (l *Loop) Clock() timing.Clock {
	return l.clock
}

// Stop asks the loop to return.
func (l *Loop) Stop() {
	_ = l.screen.PostEvent(tcell.NewEventInterrupt(quit{}))
}

// Run processes events until the handler asks to quit, Stop is called
// or ctx is done. The screen is redrawn after every event.
func (l *Loop) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			l.Stop()
		case <-done:
		}
	}()

	w, h := l.screen.Size()
	l.handler.Resize(w, h)
	l.redraw()
	for {
		ev := l.screen.PollEvent()
		if ev == nil {
			return ctx.Err()
		}
		if l.dispatch(ev) {
			return ctx.Err()
		}
		l.redraw()
	}
}

// dispatch handles one event and reports whether the loop should end.
func (l *Loop) dispatch(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case quit:
			return true
		case func():
			data()
		}
	case *tcell.EventKey:
		return l.handler.Key(ev)
	case *tcell.EventMouse:
		l.handler.Mouse(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		l.handler.Resize(w, h)
		l.screen.Sync()
	}
	return false
}

func (l *Loop) redraw() {
	l.screen.Clear()
	l.handler.Draw(l.screen)
	l.screen.Show()
}

// DrawText writes s from (x, y), clipped to width cells, and returns
// the column after the last cell written.
func DrawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	end := x + width
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if x+w > end {
			break
		}
		runes := g.Runes()
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}
