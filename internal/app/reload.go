package app

import (
	"slices"

	"github.com/dshills/scribeline/internal/config"
	"github.com/dshills/scribeline/internal/config/watcher"
	"github.com/dshills/scribeline/internal/logging"
	"github.com/dshills/scribeline/internal/plugin/lua"
	"github.com/dshills/scribeline/internal/timing"
)

// ApplyConfig switches to cfg. Selection, region and zoom settings
// reach an open editing session at once; the tick interval applies from
// the next tick.
func (a *Application) ApplyConfig(cfg *config.Config) {
	prev := a.cfg
	a.cfg = cfg

	if lvl, err := logging.ParseLevel(cfg.Logging.Level); err == nil {
		a.log.SetLevel(lvl)
	}
	if !slices.Equal(prev.Lua.Filters, cfg.Lua.Filters) {
		a.reloadFilters()
	}
	if a.state != Editing {
		return
	}
	sel := a.editor.Surface().Selector()
	sel.SetThreshold(cfg.Selection.Threshold)
	sel.SetDoubleClickWindow(cfg.Selection.DoubleClickWindow.D())
	a.regions.SetFixupInterval(cfg.Regions.FixupInterval.D())
	a.bar.SetMinZoom(cfg.Regions.MinZoomDuration)
}

func (a *Application) reloadFilters() {
	filters, err := lua.LoadFilters(a.cfg.Lua.Filters, lua.WithStateLogger(a.log))
	if err != nil {
		a.log.WithError(err).Warn("keeping previous word filters")
		a.notice = "filter error: " + err.Error()
		return
	}
	lua.CloseAll(a.filters)
	a.filters = filters
	if a.state == Editing {
		a.editor.Surface().SetWordFilters(lua.SelectorFilters(filters, a.doc, a.log)...)
	}
}

// WatchConfig reloads the config whenever the file at Reload.Path
// changes. Events reach the application through post.
func (a *Application) WatchConfig(post timing.PostFunc) error {
	path := a.opts.Reload.Path
	if path == "" {
		return nil
	}
	path, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	w, err := watcher.New(path, a.configChanged,
		watcher.WithLoop(a.clock, post),
		watcher.WithLogger(a.log))
	if err != nil {
		return &OperationError{Op: "watch", Target: path, Err: err}
	}
	if err := w.Start(); err != nil {
		return &OperationError{Op: "watch", Target: path, Err: err}
	}
	a.watcher = w
	return nil
}

func (a *Application) configChanged(ev watcher.Event) {
	if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
		a.log.Warn("config %s %s, keeping current settings", ev.Path, ev.Op)
		return
	}
	cfg, err := config.Load(a.opts.Reload)
	if err != nil {
		a.log.WithError(err).Warn("config reload failed, keeping current settings")
		a.notice = "config: " + err.Error()
		return
	}
	a.ApplyConfig(cfg)
	a.notice = "config reloaded"
	a.log.Info("config reloaded from %s", ev.Path)
}

// Close stops the tick and the watcher, ends an editing session and
// releases the filter scripts.
func (a *Application) Close() error {
	var errs ErrorList
	a.Stop()
	if a.watcher != nil {
		errs.Add(a.watcher.Stop())
		a.watcher = nil
	}
	if a.state == Editing {
		a.endEditing()
	}
	lua.CloseAll(a.filters)
	a.filters = nil
	return errs.AsError()
}
