package editor

import (
	"github.com/dshills/scribeline/internal/engine/document"
	"github.com/dshills/scribeline/internal/engine/region"
	"github.com/dshills/scribeline/internal/engine/span"
	"github.com/dshills/scribeline/internal/event"
	"github.com/dshills/scribeline/internal/logging"
	"github.com/dshills/scribeline/internal/transcript"
)

// Config configures an Editor.
type Config struct {
	// Player is paused whenever a Section and its Region are removed.
	Player region.Player

	Logger  *logging.Logger
	Surface []SurfaceOption
}

// Option configures an Editor.
type Option func(*Config)

// WithPlayer sets the player paused on removals.
func WithPlayer(p region.Player) Option {
	return func(c *Config) {
		c.Player = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithSurfaceOptions passes options to the editing surface.
func WithSurfaceOptions(opts ...SurfaceOption) Option {
	return func(c *Config) {
		c.Surface = append(c.Surface, opts...)
	}
}

// Editor keeps a document's Sections paired with a region set. Every
// Section the surface creates gets a Region, every Section it removes
// loses its Region, and pointer activity on either side is mirrored on
// the other.
type Editor struct {
	cfg       Config
	log       *logging.Logger
	doc       *document.Document
	surface   *Surface
	timeline  *Timeline
	subs      []event.Subscription
	destroyed bool

	// NoRoom reports a Section rolled back because no time was left
	// for its Region.
	NoRoom *event.Signal[SectionCreated]
}

// New creates an editor for doc over regions, laid out by geo.
func New(doc *document.Document, regions *region.Set, geo Geometry, opts ...Option) *Editor {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	log := logging.OrDiscard(cfg.Logger).WithComponent("editor")
	surfaceOpts := append([]SurfaceOption{WithSurfaceLogger(cfg.Logger)}, cfg.Surface...)

	e := &Editor{
		cfg:      cfg,
		log:      log,
		doc:      doc,
		surface:  NewSurface(doc, geo, surfaceOpts...),
		timeline: NewTimeline(doc, regions),
		NoRoom:   event.NewSignal[SectionCreated]("section-no-room"),
	}
	e.listen()
	return e
}

// Document returns the document being edited.
func (e *Editor) Document() *document.Document {
	return e.doc
}

// Surface returns the editing surface.
func (e *Editor) Surface() *Surface {
	return e.surface
}

// Timeline returns the Section/Region pairs.
func (e *Editor) Timeline() *Timeline {
	return e.timeline
}

// Regions returns the region set.
func (e *Editor) Regions() *region.Set {
	return e.timeline.Regions()
}

// Load pairs the document's existing Sections with ivs, one interval per
// Section in order. Sections whose interval cannot be placed are rolled
// back and reported on NoRoom.
func (e *Editor) Load(ivs []region.Interval) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if len(ivs) != e.doc.SectionCount() {
		return ErrIntervalCount
	}
	e.surface.Announce(ivs)
	return nil
}

// Join merges the nodes sp touches into one Section paired with the
// time between its neighbours.
func (e *Editor) Join(sp span.Span) (*document.Section, error) {
	if e.destroyed {
		return nil, ErrDestroyed
	}
	return e.surface.Join(sp)
}

// Export rebuilds the transcript from the edited document and the
// current Region times.
func (e *Editor) Export() transcript.Transcript {
	return transcript.Export(e.doc, e.timeline)
}

// Check verifies the Section/Region correspondence.
func (e *Editor) Check() error {
	return e.timeline.Check()
}

// Destroy detaches the editor from the surface and the region set and
// cancels region drags still settling. The pairs are left in place.
func (e *Editor) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.surface.Destroy()
	e.Regions().CancelPending()
	for _, sub := range e.subs {
		sub.Cancel()
	}
	e.subs = nil
	e.NoRoom.Clear()
}

func (e *Editor) listen() {
	s, r := e.surface, e.Regions()
	e.subs = append(e.subs,
		s.SectionCreated.Subscribe(event.Notify(e.created)),
		s.SectionRemoved.Subscribe(event.Notify(e.removed)),
		s.SectionClick.Subscribe(event.Notify(func(ev SectionEvent) { e.activate(ev.Index) })),
		s.SectionMouseEnter.Subscribe(event.Notify(func(ev SectionEvent) { r.Highlight(ev.Index, true) })),
		s.SectionMouseLeave.Subscribe(event.Notify(func(ev SectionEvent) { r.Highlight(ev.Index, false) })),
		r.Clicked.Subscribe(event.Notify(func(ev region.Event) { e.activate(ev.Index) })),
		r.MouseEnter.Subscribe(event.Notify(func(ev region.Event) { r.Highlight(ev.Index, true) })),
		r.MouseLeave.Subscribe(event.Notify(func(ev region.Event) { r.Highlight(ev.Index, false) })),
		r.UpdateEnd.Subscribe(event.Notify(func(ev region.Event) {
			e.log.Debug("region %d settled at %s", ev.Index, ev.Region.Interval)
		})),
	)
}

// created pairs a new Section with a Region, or rolls it back.
func (e *Editor) created(ev SectionCreated) {
	iv := e.timeline.Gap(ev.Index)
	if ev.Interval != nil {
		iv = *ev.Interval
	}
	if _, err := e.timeline.Pair(ev.Index, ev.Section, iv); err != nil {
		e.log.Info("no room for section %d %s: %v", ev.Index, iv, err)
		e.NoRoom.Emit(ev)
		e.surface.RemoveSection(ev.Section)
		return
	}
	e.log.Debug("paired section %d with %s", ev.Index, iv)
	if !ev.Init {
		e.activate(ev.Index)
	}
}

func (e *Editor) removed(ev SectionRemoved) {
	i := e.timeline.IndexOf(ev.Section)
	if i < 0 {
		return
	}
	if p := e.cfg.Player; p != nil {
		p.Pause()
	}
	e.timeline.Unpair(i)
	e.log.Debug("unpaired section %d", ev.Index)
}

// activate makes pair i active on both sides; -1 deactivates.
func (e *Editor) activate(i int) {
	e.Regions().Activate(i)
}

// Active returns the index of the active pair, or -1.
func (e *Editor) Active() int {
	return e.Regions().Active()
}
