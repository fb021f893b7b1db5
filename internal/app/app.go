// Package app wires the transcript workflow together: loading a
// transcript, following playback line by line, and editing its Sections
// against the region timeline. All methods run on the owner's loop.
package app

import (
	"math"

	"github.com/dshills/scribeline/internal/config"
	"github.com/dshills/scribeline/internal/config/watcher"
	"github.com/dshills/scribeline/internal/editor"
	"github.com/dshills/scribeline/internal/engine/document"
	"github.com/dshills/scribeline/internal/engine/region"
	"github.com/dshills/scribeline/internal/event"
	"github.com/dshills/scribeline/internal/logging"
	"github.com/dshills/scribeline/internal/playback"
	"github.com/dshills/scribeline/internal/plugin/lua"
	"github.com/dshills/scribeline/internal/timing"
	"github.com/dshills/scribeline/internal/transcript"
	"github.com/dshills/scribeline/internal/view"
)

// durationPadding is added after the last timed line when the media
// length is derived from the transcript.
const durationPadding = 5.0

// Options configures the application.
type Options struct {
	// Config holds the settings. Defaults are used when nil.
	Config *config.Config

	// Reload selects the layers re-read when the watched config file
	// changes.
	Reload config.Options

	// Logger receives application logs.
	Logger *logging.Logger

	// Clock schedules the playback tick and every engine timer. Pass the
	// UI loop's clock so callbacks run on the loop.
	Clock timing.Clock

	// Transport is the media time source. A SimTransport of Duration
	// seconds is created on load when nil.
	Transport playback.Transport

	// Duration is the media length for the simulated transport. Zero
	// derives it from the transcript.
	Duration float64

	// SavePath is where Save writes. Empty saves over the loaded file.
	SavePath string
}

// Application is the central coordinator of a session.
type Application struct {
	opts  Options
	cfg   *config.Config
	log   *logging.Logger
	clock timing.Clock

	state  ViewState
	err    error
	notice string

	path       string
	transcript transcript.Transcript
	modified   bool

	transport playback.Transport
	tracker   *playback.Tracker
	lines     *view.LineLayout
	docArea   view.Area
	barArea   view.Area
	filters   []*lua.Filter

	// editing session
	doc     *document.Document
	regions *region.Set
	editor  *editor.Editor
	layout  *view.DocLayout
	bar     *view.TimelineBar
	subs    []event.Subscription

	tick    timing.Timer
	watcher *watcher.Watcher

	// StateChanged fires after every view state change.
	StateChanged *event.Signal[StateEvent]
}

// New creates an application in the Loading state.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = timing.NewSystemClock(nil)
	}
	log := logging.OrDiscard(opts.Logger).WithComponent("app")

	filters, err := lua.LoadFilters(cfg.Lua.Filters, lua.WithStateLogger(log))
	if err != nil {
		return nil, &OperationError{Op: "load filters", Err: err}
	}

	a := &Application{
		opts:         opts,
		cfg:          cfg,
		log:          log,
		clock:        clock,
		state:        Loading,
		transport:    opts.Transport,
		tracker:      playback.NewTracker(transcript.Transcript(nil)),
		filters:      filters,
		StateChanged: event.NewSignal[StateEvent]("view-state"),
	}
	a.tracker.CurrentChanged.Subscribe(event.Notify(func(ev playback.CurrentEvent) {
		if a.lines != nil && ev.Current >= 0 && ev.Current < a.lines.Lines() {
			a.lines.ScrollToLine(ev.Current)
		}
	}))
	return a, nil
}

// State returns the current view state.
func (a *Application) State() ViewState { return a.state }

// Err returns the failure shown in the Error state.
func (a *Application) Err() error { return a.err }

// Notice returns the last message for the status line.
func (a *Application) Notice() string { return a.notice }

// Config returns the active settings.
func (a *Application) Config() *config.Config { return a.cfg }

// Path returns the loaded transcript file.
func (a *Application) Path() string { return a.path }

// Transcript returns the current transcript, including finished edits.
func (a *Application) Transcript() transcript.Transcript { return a.transcript }

// Modified reports unsaved edits.
func (a *Application) Modified() bool { return a.modified }

// Transport returns the media time source, nil before a load.
func (a *Application) Transport() playback.Transport { return a.transport }

// Tracker returns the line tracker.
func (a *Application) Tracker() *playback.Tracker { return a.tracker }

// Lines returns the viewing layout, nil before a load.
func (a *Application) Lines() *view.LineLayout { return a.lines }

// Editor returns the editing session's editor, nil outside editing.
func (a *Application) Editor() *editor.Editor { return a.editor }

// Regions returns the editing session's regions, nil outside editing.
func (a *Application) Regions() *region.Set { return a.regions }

// Layout returns the editing document layout, nil outside editing.
func (a *Application) Layout() *view.DocLayout { return a.layout }

// Bar returns the region timeline, nil outside editing.
func (a *Application) Bar() *view.TimelineBar { return a.bar }

// SetAreas places the text area and the timeline row.
func (a *Application) SetAreas(text, bar view.Area) {
	a.docArea, a.barArea = text, bar
	if a.lines != nil {
		a.lines.SetArea(text)
	}
	if a.layout != nil {
		a.layout.SetArea(text)
	}
	if a.bar != nil {
		a.bar.SetArea(bar)
	}
}

func (a *Application) enter(to ViewState) error {
	from := a.state
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	a.state = to
	a.log.Debug("state %s -> %s", from, to)
	a.StateChanged.Emit(StateEvent{From: from, To: to})
	return nil
}

// fail records err and shows the Error state.
func (a *Application) fail(err error) error {
	if a.state == Editing {
		a.endEditing()
	}
	a.err = err
	a.log.WithError(err).Error("entering error state")
	if a.state != Error {
		if terr := a.enter(Error); terr != nil {
			return terr
		}
	}
	return err
}

// Load reads a transcript file and shows it.
func (a *Application) Load(path string) error {
	if a.state != Loading {
		if err := a.enter(Loading); err != nil {
			return err
		}
	}
	a.path = path
	t, err := transcript.Load(path)
	if err != nil {
		return a.fail(&OperationError{Op: "load", Target: path, Err: err})
	}
	return a.Open(t)
}

// Open shows an in-memory transcript.
func (a *Application) Open(t transcript.Transcript) error {
	if a.state != Loading {
		if err := a.enter(Loading); err != nil {
			return err
		}
	}
	if err := t.Validate(); err != nil {
		return a.fail(&OperationError{Op: "load", Target: a.path, Err: err})
	}
	if a.transport == nil {
		d := a.opts.Duration
		if d <= 0 {
			d = mediaDuration(t)
		}
		a.transport = playback.NewSimTransport(a.clock, d)
	}
	a.transcript = t
	a.modified = false
	a.err = nil
	a.tracker.SetSource(t)
	a.lines = view.NewLineLayout(lineWords(t), a.docArea)
	a.log.Info("loaded %d lines", len(t))
	return a.enter(Viewing)
}

func mediaDuration(t transcript.Transcript) float64 {
	end := 0.0
	for _, l := range t {
		if l.End != nil {
			end = math.Max(end, *l.End)
		}
	}
	return end + durationPadding
}

func lineWords(t transcript.Transcript) [][]string {
	out := make([][]string, len(t))
	for i, l := range t {
		out[i] = transcript.Words(l.Text)
	}
	return out
}

// LineState reports how line i is shown while viewing.
func (a *Application) LineState(i int) view.LineState {
	st := a.tracker.State()
	if i != st.Current {
		return view.LineState{}
	}
	return view.LineState{Current: true, Active: st.Active, Progress: st.Progress}
}

// Start begins the playback tick.
func (a *Application) Start() {
	a.schedule()
}

// Stop halts the playback tick.
func (a *Application) Stop() {
	if a.tick != nil {
		a.tick.Stop()
		a.tick = nil
	}
}

func (a *Application) schedule() {
	if a.tick != nil {
		a.tick.Stop()
	}
	a.tick = a.clock.AfterFunc(a.cfg.Playback.Tick.D(), a.onTick)
}

func (a *Application) onTick() {
	a.tick = nil
	if a.transport != nil {
		a.TimeUpdated(a.transport.CurrentTime())
	}
	a.schedule()
}

// TimeUpdated moves the view to media time t: the tracker while
// viewing, the timeline window while editing.
func (a *Application) TimeUpdated(t float64) {
	switch a.state {
	case Viewing:
		a.tracker.Update(t)
	case Editing:
		a.bar.Follow(t)
	}
}

// Seek moves playback to t seconds.
func (a *Application) Seek(t float64) error {
	if a.transport == nil {
		return ErrNoTranscript
	}
	if err := a.transport.Seek(t); err != nil {
		return err
	}
	a.TimeUpdated(a.transport.CurrentTime())
	return nil
}

// Seeked moves playback to a fraction of the media.
func (a *Application) Seeked(progress float64) error {
	if a.transport == nil {
		return ErrNoTranscript
	}
	if err := playback.SeekProgress(a.transport, progress); err != nil {
		return err
	}
	a.TimeUpdated(a.transport.CurrentTime())
	return nil
}

// Goto seeks to line i: its start, else the end of the line before.
func (a *Application) Goto(i int) error {
	if a.state != Viewing {
		return &TransitionError{From: a.state, To: Viewing}
	}
	if i < 0 || i >= len(a.transcript) {
		return &OperationError{Op: "goto", Err: playback.ErrSeekOutOfRange}
	}
	return a.Seek(playback.GotoTime(a.transcript, i))
}

// TogglePlay pauses or resumes playback. While editing with an active
// region, resuming plays just that region.
func (a *Application) TogglePlay() {
	tr := a.transport
	if tr == nil {
		return
	}
	if tr.IsPlaying() {
		tr.Pause()
		return
	}
	if a.state == Editing {
		if r, ok := a.regions.At(a.regions.Active()); ok {
			tr.PlayRange(r.Start, r.End)
			return
		}
	}
	tr.Play()
}
