// Package config provides the layered configuration for scribeline.
//
// Settings come from four layers, lowest precedence first:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, by default ~/.config/scribeline/config.toml
//  3. SCRIBELINE_* environment variables
//  4. Overrides, normally the command-line flags
//
// The layers are merged as maps by the loader package and decoded into
// the typed Config, which is validated before use. The watcher package
// reports edits to the file so the application can reload it while
// running.
//
// Example file:
//
//	[selection]
//	threshold = 1
//	double_click_window = "200ms"
//
//	[regions]
//	fixup_interval = "150ms"
//	min_zoom_duration = 10
//
//	[playback]
//	tick = "100ms"
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[lua]
//	filters = ["~/.config/scribeline/filters/skip-fillers.lua"]
package config
