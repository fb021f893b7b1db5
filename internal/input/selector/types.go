package selector

import (
	"math"
	"time"

	"github.com/dshills/scribeline/internal/timing"
)

// Point is a pointer position in surface coordinates.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// HitTester reports the elements under a point, front-most first.
type HitTester[E comparable] interface {
	ElementsAt(p Point) []E
}

// Orderer knows the document order of elements.
type Orderer[E comparable] interface {
	// Between returns the elements from one element to another, in
	// document order, including both ends.
	Between(from, to E) []E

	// Selectables returns every element that may be selected.
	Selectables() []E
}

// Kind enumerates the signals a Selector emits.
type Kind uint8

const (
	// BeforeStart is offered each candidate pivot on press. Veto point.
	BeforeStart Kind = iota
	// Hover is offered each candidate target while dragging. Veto point.
	Hover
	// Change reports a recomputed selection.
	Change
	// Stop reports the final selection of a drag.
	Stop
	// Click reports a single click, possibly on empty space.
	Click
	// DblClick reports a second click on the same element within the window.
	DblClick

	numKinds
)

// String returns the signal name.
func (k Kind) String() string {
	switch k {
	case BeforeStart:
		return "beforestart"
	case Hover:
		return "hover"
	case Change:
		return "change"
	case Stop:
		return "stop"
	case Click:
		return "click"
	case DblClick:
		return "dblclick"
	default:
		return "unknown"
	}
}

// Kinds returns every signal kind.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Event is the payload of every selector signal.
type Event[E comparable] struct {
	Kind Kind

	// Target is the candidate (BeforeStart, Hover) or the element the
	// signal concerns. HasTarget is false for a click on empty space.
	Target    E
	HasTarget bool

	// Origin is the front-most selectable element under the press.
	Origin E

	// Pivot is the accepted starting element of the current gesture.
	Pivot E

	Point Point

	// Selected is the live selection. Added and Removed are the
	// differences from the previous recomputation.
	Selected []E
	Added    []E
	Removed  []E

	// Selector emitted the event; listeners may install filters or call
	// KeepSelection through it.
	Selector *Selector[E]
}

// Config configures a Selector.
type Config struct {
	// Threshold is the pointer travel, in surface units, beyond which a
	// press becomes a drag. Once exceeded it stays a drag.
	Threshold float64

	// DoubleClickWindow is the maximum delay between two clicks on the
	// same element for them to count as a double click.
	DoubleClickWindow time.Duration

	// Clock schedules the single-click timers.
	Clock timing.Clock
}

// DefaultConfig returns the default selector configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:         10,
		DoubleClickWindow: 200 * time.Millisecond,
		Clock:             timing.NewSystemClock(nil),
	}
}

// Option configures a Selector.
type Option func(*Config)

// WithThreshold sets the drag threshold.
func WithThreshold(t float64) Option {
	return func(c *Config) {
		c.Threshold = t
	}
}

// WithDoubleClickWindow sets the double-click window.
func WithDoubleClickWindow(d time.Duration) Option {
	return func(c *Config) {
		c.DoubleClickWindow = d
	}
}

// WithClock sets the clock used for click timers.
func WithClock(clock timing.Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}
