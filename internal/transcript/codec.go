package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Format is a transcript file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// session is the YAML file layout; a bare sequence of lines is accepted too.
type session struct {
	Lines Transcript `yaml:"lines"`
}

// DecodeYAML parses a YAML transcript.
func DecodeYAML(data []byte) (Transcript, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(root.Content) == 0 {
		return Transcript{}, nil
	}

	var t Transcript
	switch doc := root.Content[0]; doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&t); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case yaml.MappingNode:
		var s session
		if err := doc.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		t = s.Lines
	default:
		return nil, fmt.Errorf("%w: expected a list of lines", ErrMalformed)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// EncodeYAML writes t as a YAML session file.
func EncodeYAML(t Transcript) ([]byte, error) {
	return yaml.Marshal(session{Lines: t})
}

// DecodeJSON parses a JSON transcript: either an array of lines or an
// object with a "lines" array. Unknown fields are ignored and a null
// time counts as unset.
func DecodeJSON(data []byte) (Transcript, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	lines := gjson.ParseBytes(data)
	if lines.IsObject() {
		lines = lines.Get("lines")
	}
	if !lines.IsArray() {
		return nil, fmt.Errorf("%w: expected a list of lines", ErrMalformed)
	}

	t := Transcript{}
	for i, item := range lines.Array() {
		if !item.IsObject() {
			return nil, &LineError{Index: i, Err: fmt.Errorf("%w: line is not an object", ErrMalformed)}
		}
		l := Line{Text: item.Get("text").String()}
		var err error
		if l.Start, err = timeField(item, "start"); err != nil {
			return nil, &LineError{Index: i, Err: err}
		}
		if l.End, err = timeField(item, "end"); err != nil {
			return nil, &LineError{Index: i, Err: err}
		}
		t = append(t, l)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func timeField(item gjson.Result, key string) (*float64, error) {
	v := item.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return nil, nil
	}
	if v.Type != gjson.Number {
		return nil, fmt.Errorf("%w: %s is not a number", ErrMalformed, key)
	}
	f := v.Float()
	return &f, nil
}

// EncodeJSON writes t as {"lines": [...]}.
func EncodeJSON(t Transcript) ([]byte, error) {
	out := []byte(`{"lines":[]}`)
	for _, l := range t {
		obj, err := sjson.SetBytes([]byte(`{}`), "text", l.Text)
		if err != nil {
			return nil, err
		}
		if l.Start != nil {
			if obj, err = sjson.SetBytes(obj, "start", *l.Start); err != nil {
				return nil, err
			}
		}
		if l.End != nil {
			if obj, err = sjson.SetBytes(obj, "end", *l.End); err != nil {
				return nil, err
			}
		}
		if out, err = sjson.SetRawBytes(out, "lines.-1", obj); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Decode parses data in the given format.
func Decode(f Format, data []byte) (Transcript, error) {
	switch f {
	case FormatYAML:
		return DecodeYAML(data)
	case FormatJSON:
		return DecodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}

// Encode serializes t in the given format.
func Encode(f Format, t Transcript) ([]byte, error) {
	switch f {
	case FormatYAML:
		return EncodeYAML(t)
	case FormatJSON:
		return EncodeJSON(t)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}

// Load reads a transcript file, choosing the codec by extension.
func Load(path string) (Transcript, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Decode(f, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Save writes t to path, choosing the codec by extension.
func Save(path string, t Transcript) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	data, err := Encode(f, t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
