package config

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/scribeline/internal/config/loader"
	"github.com/dshills/scribeline/internal/logging"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "SCRIBELINE_"

// Config is the typed application configuration.
type Config struct {
	Selection Selection `toml:"selection"`
	Regions   Regions   `toml:"regions"`
	Playback  Playback  `toml:"playback"`
	Logging   Logging   `toml:"logging"`
	Lua       Lua       `toml:"lua"`
}

// Selection configures the pointer gesture recognizer.
type Selection struct {
	// Threshold is the distance in cells a press must travel before it
	// counts as a drag. The distance must exceed it.
	Threshold float64 `toml:"threshold"`
	// DoubleClickWindow is the longest gap between two clicks on the
	// same target that still makes a double click.
	DoubleClickWindow Duration `toml:"double_click_window"`
}

// Regions configures the timeline side.
type Regions struct {
	// FixupInterval spaces clamp passes while a region is dragged.
	FixupInterval Duration `toml:"fixup_interval"`
	// MinZoomDuration is the shortest span of media, in seconds, the
	// timeline bar may zoom to.
	MinZoomDuration float64 `toml:"min_zoom_duration"`
}

// Playback configures the simulated transport.
type Playback struct {
	// Tick is how often the playhead is sampled while playing.
	Tick Duration `toml:"tick"`
}

// Logging configures the root logger.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Lua lists selection filter scripts.
type Lua struct {
	Filters []string `toml:"filters"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Selection: Selection{
			Threshold:         1,
			DoubleClickWindow: Duration(200e6),
		},
		Regions: Regions{
			FixupInterval:   Duration(150e6),
			MinZoomDuration: 10,
		},
		Playback: Playback{
			Tick: Duration(100e6),
		},
		Logging: Logging{
			Level:  "info",
			Format: string(logging.FormatText),
		},
	}
}

// Options selects the layers Load reads.
type Options struct {
	// Path is the TOML file. Empty skips the file layer; a missing file
	// is not an error.
	Path string
	// EnvPrefix overrides EnvPrefix. Use "-" to skip the env layer.
	EnvPrefix string
	// Overrides is the highest layer, typically command-line flags.
	Overrides map[string]any
	// FS replaces the OS file system.
	FS loader.FileSystem
}

// Load builds a Config from defaults, the TOML file, environment
// variables and overrides, in increasing precedence, and validates it.
func Load(opts Options) (*Config, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = loader.DefaultFS()
	}
	path, err := ExpandPath(opts.Path)
	if err != nil {
		return nil, err
	}

	layers := []loader.Loader{loader.NewFile(fsys, path)}
	switch opts.EnvPrefix {
	case "-":
	case "":
		layers = append(layers, loader.NewEnvLoader(EnvPrefix))
	default:
		layers = append(layers, loader.NewEnvLoader(opts.EnvPrefix))
	}
	layers = append(layers, loader.Static(opts.Overrides))

	merged, err := loader.LoadAll(layers...)
	if err != nil {
		return nil, err
	}
	cfg, err := Decode(merged)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}
	return cfg, nil
}

// Decode applies a merged settings map on top of Default and validates
// the result. Unknown keys are rejected.
func Decode(settings map[string]any) (*Config, error) {
	cfg := Default()
	if len(settings) > 0 {
		data, err := toml.Marshal(settings)
		if err != nil {
			return nil, fmt.Errorf("encoding settings: %w", err)
		}
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, strict.String())
			}
			return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting and returns the first failure.
func (c *Config) Validate() error {
	switch {
	case c.Selection.Threshold < 0:
		return &ValidationError{Path: "selection.threshold", Message: "must not be negative", Value: c.Selection.Threshold}
	case c.Selection.DoubleClickWindow <= 0:
		return &ValidationError{Path: "selection.double_click_window", Message: "must be positive", Value: c.Selection.DoubleClickWindow}
	case c.Regions.FixupInterval <= 0:
		return &ValidationError{Path: "regions.fixup_interval", Message: "must be positive", Value: c.Regions.FixupInterval}
	case c.Regions.MinZoomDuration <= 0:
		return &ValidationError{Path: "regions.min_zoom_duration", Message: "must be positive", Value: c.Regions.MinZoomDuration}
	case c.Playback.Tick <= 0:
		return &ValidationError{Path: "playback.tick", Message: "must be positive", Value: c.Playback.Tick}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Message: err.Error(), Value: c.Logging.Level}
	}
	switch logging.Format(c.Logging.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return &ValidationError{Path: "logging.format", Message: "must be text or json", Value: c.Logging.Format}
	}
	return nil
}

// LogConfig converts the logging section. The config must be valid.
func (c *Config) LogConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level, _ = logging.ParseLevel(c.Logging.Level)
	lc.Format = logging.Format(c.Logging.Format)
	return lc
}

// Encode writes the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// DefaultPath returns ~/.config/scribeline/config.toml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", "scribeline", "config.toml"), nil
}

// ExpandPath resolves a leading ~ in p.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	out, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", p, err)
	}
	return out, nil
}
