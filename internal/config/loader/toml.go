package loader

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/pelletier/go-toml/v2"
)

// File reads one TOML config file. Keys may be written with dashes or
// underscores in any case.
type File struct {
	fs   FileSystem
	path string
}

// NewFile creates a loader for path on fsys. A nil fsys reads the OS
// file system.
func NewFile(fsys FileSystem, path string) *File {
	if fsys == nil {
		fsys = DefaultFS()
	}
	return &File{fs: fsys, path: path}
}

// Path returns the file the loader reads.
func (f *File) Path() string {
	return f.path
}

// Load parses the file. An empty path or a missing file loads nothing.
func (f *File) Load() (map[string]any, error) {
	if f.path == "" {
		return nil, nil
	}
	data, err := f.fs.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}

	var settings map[string]any
	if err := toml.Unmarshal(data, &settings); err != nil {
		perr := &ParseError{Path: f.path, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return normalizeKeys(settings), nil
}

// ParseError locates a syntax error in a config file.
type ParseError struct {
	Path   string
	Line   int // 1-based, 0 when unknown
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
