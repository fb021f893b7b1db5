// Package loader reads configuration layers into nested maps.
//
// Each loader produces a map[string]any keyed by section and setting
// name. Layers are combined with Merge, later layers winning, and
// the result is decoded into the typed configuration by the caller.
package loader

import "os"

// Loader produces one layer of settings. A source that does not exist
// yields nil and no error.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem reads config files. Tests substitute an in-memory one.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return osFS{}
}

// Static is a Loader over a fixed map, used for defaults and flag
// overrides.
type Static map[string]any

// Load returns a copy of the map.
func (s Static) Load() (map[string]any, error) {
	if s == nil {
		return nil, nil
	}
	return Merge(s), nil
}

// LoadAll runs every loader in order and merges the results, later
// loaders overriding earlier ones.
func LoadAll(loaders ...Loader) (map[string]any, error) {
	layers := make([]map[string]any, 0, len(loaders))
	for _, l := range loaders {
		m, err := l.Load()
		if err != nil {
			return nil, err
		}
		layers = append(layers, m)
	}
	return Merge(layers...), nil
}
