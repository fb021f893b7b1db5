// Package watcher reports changes to a configuration file.
//
// The file's directory is watched rather than the file itself so that
// editors which save by renaming a temporary file over the original are
// still seen. Bursts of events are coalesced: the handler runs once the
// file has been quiet for the debounce period.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/scribeline/internal/logging"
	"github.com/dshills/scribeline/internal/timing"
)

// ErrRunning is returned by Start on a running watcher.
var ErrRunning = errors.New("watcher already running")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the last operation seen in the burst.
	Op Operation
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

type options struct {
	debounce time.Duration
	clock    timing.Clock
	post     timing.PostFunc
	log      *logging.Logger
}

// Option configures a Watcher.
type Option func(*options)

// WithDebounce sets the quiet period before the handler runs.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithLoop delivers events and debounce timers through post on clock,
// so the handler runs on the owner's loop.
func WithLoop(clock timing.Clock, post timing.PostFunc) Option {
	return func(o *options) {
		o.clock = clock
		o.post = post
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// Watcher monitors one file for changes.
type Watcher struct {
	path    string
	handler Handler
	opts    options
	log     *logging.Logger

	// serializes handle and debounce callbacks when no loop is given
	mu       sync.Mutex
	debounce *timing.Debounce[Event]

	fs   *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:    abs,
		handler: handler,
		opts:    options{debounce: 100 * time.Millisecond},
	}
	for _, opt := range opts {
		opt(&w.opts)
	}
	if w.opts.post == nil {
		w.opts.post = w.serial
	}
	if w.opts.clock == nil {
		w.opts.clock = timing.NewSystemClock(w.opts.post)
	}
	w.log = logging.OrDiscard(w.opts.log).WithComponent("config-watcher")
	w.debounce = timing.NewDebounce(w.opts.clock, w.opts.debounce, w.fire)
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. The file itself need not exist yet.
func (w *Watcher) Start() error {
	if w.fs != nil {
		return ErrRunning
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	w.fs = fsw
	w.done = make(chan struct{})
	w.wg.Add(1)
	go w.loop(fsw, w.done)
	return nil
}

// Stop ends watching and drops any pending notification.
func (w *Watcher) Stop() error {
	if w.fs == nil {
		return nil
	}
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	w.fs = nil
	w.opts.post(w.debounce.Stop)
	return err
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, done <-chan struct{}) {
	defer w.wg.Done()
	for {
		select {
		case <-done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.opts.post(func() { w.handle(ev) })
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watch error")
		}
	}
}

// handle filters events down to the watched file and restarts the
// quiet period. It runs on the loop.
func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	op, ok := operation(ev.Op)
	if !ok {
		return
	}
	w.debounce.Call(Event{Path: w.path, Op: op})
}

func (w *Watcher) fire(ev Event) {
	w.log.Debug("%s %s", ev.Op, ev.Path)
	w.handler(ev)
}

func (w *Watcher) serial(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
}

func operation(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}
