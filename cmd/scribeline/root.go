package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dshills/scribeline/internal/config"
	"github.com/dshills/scribeline/internal/config/loader"
	"github.com/dshills/scribeline/internal/logging"
)

// cli carries the state shared by every command.
type cli struct {
	v          *viper.Viper
	configPath string
	logFile    string
}

// setting binds a persistent flag to a config key.
type setting struct {
	key   string
	value func(v *viper.Viper, key string) any
}

func floatValue(v *viper.Viper, key string) any    { return v.GetFloat64(key) }
func stringValue(v *viper.Viper, key string) any   { return v.GetString(key) }
func durationValue(v *viper.Viper, key string) any { return v.GetDuration(key).String() }

func listValue(v *viper.Viper, key string) any {
	out := []any{}
	for _, s := range v.GetStringSlice(key) {
		out = append(out, s)
	}
	return out
}

// settings maps flag names to the config keys they override.
var settings = map[string]setting{
	"threshold":    {"selection.threshold", floatValue},
	"double-click": {"selection.double_click_window", durationValue},
	"fixup":        {"regions.fixup_interval", durationValue},
	"min-zoom":     {"regions.min_zoom_duration", floatValue},
	"tick":         {"playback.tick", durationValue},
	"log-level":    {"logging.level", stringValue},
	"log-format":   {"logging.format", stringValue},
	"filter":       {"lua.filters", listValue},
}

// New returns the root command with every subcommand attached.
func New() *cobra.Command {
	c := &cli{v: viper.New()}
	root := &cobra.Command{
		Use:   "scribeline",
		Short: "Edit the timing of media transcripts in the terminal",
		Long: `scribeline plays a transcript against a media clock, highlighting the
current line, and lets you regroup words into timed sections and drag
their regions on a timeline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	c.register(root.PersistentFlags())

	root.AddCommand(
		c.editCmd(),
		c.playCmd(),
		c.inspectCmd(),
		c.configCmd(),
		versionCmd(),
	)
	return root
}

// register defines the global flags on fs and binds the config
// overrides among them.
func (c *cli) register(fs *pflag.FlagSet) {
	fs.StringVarP(&c.configPath, "config", "c", "", "config file (default is $HOME/.config/scribeline/config.toml)")
	fs.StringVar(&c.logFile, "log-file", "", "append logs to this file")
	fs.Float64("threshold", 0, "cells a press must travel to start a drag")
	fs.Duration("double-click", 0, "longest gap between the clicks of a double click")
	fs.Duration("fixup", 0, "interval between clamp passes while dragging a region")
	fs.Float64("min-zoom", 0, "shortest span in seconds the timeline zooms to")
	fs.Duration("tick", 0, "playhead sampling interval")
	fs.StringP("log-level", "l", "", "log level: debug, info, warn, error")
	fs.String("log-format", "", "log format: text or json")
	fs.StringSlice("filter", nil, "Lua word filter script (repeatable)")

	for name, s := range settings {
		if err := c.v.BindPFlag(s.key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding --%s: %v", name, err))
		}
	}
}

// overrides collects the flags given on the command line as a settings
// map for the highest config layer.
func (c *cli) overrides() map[string]any {
	out := map[string]any{}
	for _, s := range settings {
		if c.v.IsSet(s.key) {
			loader.Set(out, s.key, s.value(c.v, s.key))
		}
	}
	return out
}

// options selects the config layers: the file, the environment and the
// flags.
func (c *cli) options() (config.Options, error) {
	path := c.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Options{}, err
		}
		path = p
	}
	return config.Options{Path: path, Overrides: c.overrides()}, nil
}

func (c *cli) load() (*config.Config, config.Options, error) {
	opts, err := c.options()
	if err != nil {
		return nil, opts, err
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, opts, fmt.Errorf("loading config: %w", err)
	}
	return cfg, opts, nil
}

// logger builds the root logger. Logs go to --log-file when given, and
// otherwise to fallback; a nil fallback discards them.
func (c *cli) logger(cfg *config.Config, fallback io.Writer) (*logging.Logger, func(), error) {
	lc := cfg.LogConfig()
	closer := func() {}
	switch {
	case c.logFile != "":
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("opening log file: %w", err)
		}
		lc.Output = f
		closer = func() { _ = f.Close() }
	case fallback != nil:
		lc.Output = fallback
	default:
		lc.Output = io.Discard
	}
	return logging.New(lc), closer, nil
}
