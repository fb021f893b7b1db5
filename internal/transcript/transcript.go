// Package transcript holds the line-oriented transcript model, its YAML
// and JSON codecs, and the conversion to and from documents.
package transcript

import (
	"errors"
	"fmt"

	"github.com/dshills/scribeline/internal/engine/region"
	"github.com/dshills/scribeline/internal/playback"
)

var (
	// ErrPartialTiming is returned for a line with only one of start and end.
	ErrPartialTiming = errors.New("line must have both start and end or neither")

	// ErrInvalidTiming is returned for a line whose start is not before its end.
	ErrInvalidTiming = errors.New("line start must be non-negative and before end")

	// ErrUnsupportedFormat is returned for a file extension with no codec.
	ErrUnsupportedFormat = errors.New("unsupported transcript format")

	// ErrMalformed is returned when a file cannot be decoded.
	ErrMalformed = errors.New("malformed transcript")
)

// LineError reports a problem with one line.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Index, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Line is one transcript entry. A timed line has both Start and End.
type Line struct {
	Text  string   `yaml:"text"`
	Start *float64 `yaml:"start,omitempty"`
	End   *float64 `yaml:"end,omitempty"`
}

// Timed returns a line with both times set.
func Timed(text string, start, end float64) Line {
	return Line{Text: text, Start: &start, End: &end}
}

// IsTimed reports whether the line carries an interval.
func (l Line) IsTimed() bool {
	return l.Start != nil && l.End != nil
}

// Interval returns the line's times.
func (l Line) Interval() (region.Interval, bool) {
	if !l.IsTimed() {
		return region.Interval{}, false
	}
	return region.Interval{Start: *l.Start, End: *l.End}, true
}

// Validate checks that the line is either untimed or has a valid interval.
func (l Line) Validate() error {
	if (l.Start == nil) != (l.End == nil) {
		return ErrPartialTiming
	}
	if l.IsTimed() && (*l.Start < 0 || *l.Start >= *l.End) {
		return ErrInvalidTiming
	}
	return nil
}

// Transcript is an ordered list of lines.
type Transcript []Line

// Validate checks every line and returns the first problem as a *LineError.
func (t Transcript) Validate() error {
	for i, l := range t {
		if err := l.Validate(); err != nil {
			return &LineError{Index: i, Err: err}
		}
	}
	return nil
}

// Len returns the number of lines.
func (t Transcript) Len() int { return len(t) }

// Bounds returns the explicit times of line i.
func (t Transcript) Bounds(i int) playback.Bounds {
	var b playback.Bounds
	if s := t[i].Start; s != nil {
		b.Start, b.HasStart = *s, true
	}
	if e := t[i].End; e != nil {
		b.End, b.HasEnd = *e, true
	}
	return b
}

var _ playback.Source = Transcript(nil)
