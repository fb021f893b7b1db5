package app

import (
	"github.com/dshills/scribeline/internal/editor"
	"github.com/dshills/scribeline/internal/engine/region"
	"github.com/dshills/scribeline/internal/event"
	"github.com/dshills/scribeline/internal/input/selector"
	"github.com/dshills/scribeline/internal/plugin/lua"
	"github.com/dshills/scribeline/internal/transcript"
	"github.com/dshills/scribeline/internal/view"
)

// StartEditing pauses playback and opens the transcript for editing:
// every timed line becomes a Section paired with a Region.
func (a *Application) StartEditing() error {
	if a.state != Viewing {
		return &TransitionError{From: a.state, To: Editing}
	}
	a.transport.Pause()
	a.tracker.Reset()

	doc, ivs, err := transcript.Build(a.transcript)
	if err != nil {
		return &OperationError{Op: "edit", Target: a.path, Err: err}
	}
	regions, err := region.NewSet(a.transport.Duration(),
		region.WithFixupInterval(a.cfg.Regions.FixupInterval.D()),
		region.WithClock(a.clock),
		region.WithPlayer(a.transport),
		region.WithLogger(a.log))
	if err != nil {
		return &OperationError{Op: "edit", Target: a.path, Err: err}
	}

	layout := view.NewDocLayout(doc, a.docArea)
	ed := editor.New(doc, regions, layout,
		editor.WithPlayer(a.transport),
		editor.WithLogger(a.log),
		editor.WithSurfaceOptions(
			editor.WithSelectorOptions(
				selector.WithThreshold(a.cfg.Selection.Threshold),
				selector.WithDoubleClickWindow(a.cfg.Selection.DoubleClickWindow.D()),
				selector.WithClock(a.clock)),
			editor.WithWordFilters(lua.SelectorFilters(a.filters, doc, a.log)...)))

	a.subs = append(a.subs,
		ed.NoRoom.Subscribe(event.Notify(func(ev editor.SectionCreated) {
			a.notice = "no time left for a section here"
		})),
		regions.UpdateEnd.Subscribe(event.Notify(func(ev region.Event) {
			a.notice = ""
		})),
	)
	if err := ed.Load(ivs); err != nil {
		a.cancelSubs()
		ed.Destroy()
		return &OperationError{Op: "edit", Target: a.path, Err: err}
	}

	bar := view.NewTimelineBar(regions, a.cfg.Regions.MinZoomDuration, a.log)
	bar.SetArea(a.barArea)
	bar.Seek = func(t float64) {
		if err := a.Seek(t); err != nil {
			a.log.WithError(err).Warn("seek to %.3f", t)
		}
	}

	a.doc, a.regions, a.editor, a.layout, a.bar = doc, regions, ed, layout, bar
	return a.enter(Editing)
}

// DoneEditing keeps the edits: the transcript is rebuilt from the
// document and the region times, and viewing resumes.
func (a *Application) DoneEditing() error {
	if a.state != Editing {
		return ErrNotEditing
	}
	if err := a.editor.Check(); err != nil {
		a.log.WithError(err).Warn("sections and regions out of step")
	}
	t := a.editor.Export()
	a.endEditing()

	a.transcript = t
	a.modified = true
	a.tracker.SetSource(t)
	a.lines = view.NewLineLayout(lineWords(t), a.docArea)
	a.log.Info("edits applied, %d lines", len(t))
	return a.enter(Viewing)
}

// CancelEditing discards the edits and resumes viewing.
func (a *Application) CancelEditing() error {
	if a.state != Editing {
		return ErrNotEditing
	}
	a.endEditing()
	a.tracker.Reset()
	return a.enter(Viewing)
}

func (a *Application) endEditing() {
	a.transport.Pause()
	a.cancelSubs()
	a.editor.Destroy()
	a.regions.Clear()
	a.doc, a.regions, a.editor, a.layout, a.bar = nil, nil, nil, nil, nil
	a.notice = ""
}

func (a *Application) cancelSubs() {
	for _, sub := range a.subs {
		sub.Cancel()
	}
	a.subs = nil
}

// Save writes the transcript, including finished edits.
func (a *Application) Save() error {
	if a.transcript == nil {
		return ErrNoTranscript
	}
	path := a.opts.SavePath
	if path == "" {
		path = a.path
	}
	if path == "" {
		return ErrNoSavePath
	}
	if err := transcript.Save(path, a.transcript); err != nil {
		return &OperationError{Op: "save", Target: path, Err: err}
	}
	a.modified = false
	a.notice = "saved " + path
	a.log.Info("saved %s", path)
	return nil
}
