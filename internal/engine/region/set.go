package region

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/scribeline/internal/event"
	"github.com/dshills/scribeline/internal/logging"
	"github.com/dshills/scribeline/internal/timing"
)

// Player is the playback surface a Set drives while regions are edited.
type Player interface {
	IsPlaying() bool
	Pause()
	PlayRange(start, end float64)
}

// Event is the payload of every region signal.
type Event struct {
	Index  int
	Region Region
}

// Config configures a Set.
type Config struct {
	// FixupInterval is both the throttle window and the debounce quiet
	// period of the drag clamp fixups, and the delay before a released
	// region resumes playing.
	FixupInterval time.Duration

	Clock  timing.Clock
	Player Player
	Logger *logging.Logger
}

// DefaultConfig returns the default set configuration.
func DefaultConfig() Config {
	return Config{
		FixupInterval: 150 * time.Millisecond,
		Clock:         timing.NewSystemClock(nil),
	}
}

// Option configures a Set.
type Option func(*Config)

// WithFixupInterval sets the fixup throttle and debounce interval.
func WithFixupInterval(d time.Duration) Option {
	return func(c *Config) {
		c.FixupInterval = d
	}
}

// WithClock sets the clock used by the fixups.
func WithClock(clock timing.Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithPlayer sets the player paused during drags and resumed after.
func WithPlayer(p Player) Option {
	return func(c *Config) {
		c.Player = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// Set is an ordered collection of non-overlapping regions inside
// [0, duration]. Regions are sorted by start. It is not safe for
// concurrent use.
type Set struct {
	cfg      Config
	log      *logging.Logger
	duration float64
	regions  []*Region

	// Drag state: the interval each dragged region had when the drag began.
	drags    map[string]Interval
	throttle *timing.Throttle[string]
	settle   *timing.Debounce[string]
	release  *timing.Debounce[string]

	active      string
	highlighted map[string]bool

	Updated    *event.Signal[Event]
	UpdateEnd  *event.Signal[Event]
	Clicked    *event.Signal[Event]
	DblClicked *event.Signal[Event]
	MouseEnter *event.Signal[Event]
	MouseLeave *event.Signal[Event]
}

// NewSet creates an empty set over a timeline of the given duration.
func NewSet(duration float64, opts ...Option) (*Set, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Set{
		cfg:         cfg,
		log:         logging.OrDiscard(cfg.Logger).WithComponent("region"),
		duration:    duration,
		drags:       make(map[string]Interval),
		highlighted: make(map[string]bool),
		Updated:     event.NewSignal[Event]("region-updated"),
		UpdateEnd:   event.NewSignal[Event]("region-update-end"),
		Clicked:     event.NewSignal[Event]("region-click"),
		DblClicked:  event.NewSignal[Event]("region-dblclick"),
		MouseEnter:  event.NewSignal[Event]("region-mouseenter"),
		MouseLeave:  event.NewSignal[Event]("region-mouseleave"),
	}
	s.throttle = timing.NewThrottle(cfg.Clock, cfg.FixupInterval, s.fixup)
	s.settle = timing.NewDebounce(cfg.Clock, cfg.FixupInterval, s.fixup)
	s.release = timing.NewDebounce(cfg.Clock, cfg.FixupInterval, s.finishDrag)
	return s, nil
}

// Duration returns the timeline length.
func (s *Set) Duration() float64 {
	return s.duration
}

// SetFixupInterval changes the fixup interval for subsequent drags.
func (s *Set) SetFixupInterval(d time.Duration) {
	s.cfg.FixupInterval = d
	s.throttle.SetInterval(d)
	s.settle.SetInterval(d)
	s.release.SetInterval(d)
}

// Len returns the number of regions.
func (s *Set) Len() int {
	return len(s.regions)
}

// At returns a copy of the region at index.
func (s *Set) At(index int) (Region, bool) {
	if index < 0 || index >= len(s.regions) {
		return Region{}, false
	}
	return *s.regions[index], true
}

// All returns copies of every region in order.
// The returned slice is safe to modify without affecting the Set.
func (s *Set) All() []Region {
	out := make([]Region, len(s.regions))
	for i, r := range s.regions {
		out[i] = *r
	}
	return out
}

// Index returns the position of the region with the given ID, or -1.
func (s *Set) Index(id string) int {
	for i, r := range s.regions {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Add inserts a region at the position its start dictates. It reports
// the index and false when the interval is invalid or would overlap a
// neighbour.
func (s *Set) Add(iv Interval) (int, bool) {
	index := sort.Search(len(s.regions), func(i int) bool {
		return s.regions[i].Start >= iv.Start
	})
	if _, err := s.Insert(index, iv); err != nil {
		s.log.Debug("rejected region %s: %v", iv, err)
		return -1, false
	}
	return index, true
}

// Insert places a region at index. The interval must satisfy
// 0 <= start < end <= duration and fit between the regions at index-1
// and index.
func (s *Set) Insert(index int, iv Interval) (Region, error) {
	if index < 0 || index > len(s.regions) {
		return Region{}, &IndexError{Op: "insert", Index: index, Err: ErrIndexOutOfRange}
	}
	if !iv.Valid() || !iv.Within(s.duration) {
		return Region{}, &IndexError{Op: "insert", Index: index, Err: ErrInvalidInterval}
	}
	if index > 0 && s.regions[index-1].End > iv.Start {
		return Region{}, &IndexError{Op: "insert", Index: index, Err: ErrOverlap}
	}
	if index < len(s.regions) && iv.End > s.regions[index].Start {
		return Region{}, &IndexError{Op: "insert", Index: index, Err: ErrOverlap}
	}

	r := &Region{ID: uuid.NewString(), Interval: iv}
	s.regions = append(s.regions, nil)
	copy(s.regions[index+1:], s.regions[index:])
	s.regions[index] = r
	s.log.Debug("added region %d %s", index, iv)
	return *r, nil
}

// Remove deletes the region at index.
func (s *Set) Remove(index int) bool {
	if index < 0 || index >= len(s.regions) {
		return false
	}
	r := s.regions[index]
	s.regions = append(s.regions[:index], s.regions[index+1:]...)
	delete(s.drags, r.ID)
	delete(s.highlighted, r.ID)
	if s.active == r.ID {
		s.active = ""
	}
	s.log.Debug("removed region %d", index)
	return true
}

// Clear removes every region and cancels pending fixups.
func (s *Set) Clear() {
	s.regions = nil
	s.highlighted = make(map[string]bool)
	s.active = ""
	s.CancelPending()
}

// CancelPending closes every open drag and drops the fixups and
// releases still waiting on the clock. Regions keep their intervals.
func (s *Set) CancelPending() {
	s.drags = make(map[string]Interval)
	s.settle.Stop()
	s.release.Stop()
	s.throttle.Reset()
}

// update replaces the interval of the region at index without touching
// its neighbours. Call Clamp afterwards to restore ordering.
func (s *Set) update(index int, iv Interval) error {
	if index < 0 || index >= len(s.regions) {
		return &IndexError{Op: "update", Index: index, Err: ErrIndexOutOfRange}
	}
	if !iv.Valid() || !iv.Within(s.duration) {
		return &IndexError{Op: "update", Index: index, Err: ErrInvalidInterval}
	}
	s.regions[index].Interval = iv
	return nil
}

// Clamp trims the region at index to the gap between its neighbours:
// its start is raised to the previous region's end and its end lowered
// to the next region's start. It reports whether the interval changed.
// A region that would become empty falls back to the interval it had
// when its drag began, or is left unchanged outside a drag.
func (s *Set) Clamp(index int) bool {
	if index < 0 || index >= len(s.regions) {
		return false
	}
	r := s.regions[index]
	iv := r.Interval
	if index > 0 {
		iv.Start = max(iv.Start, s.regions[index-1].End)
	}
	if index < len(s.regions)-1 {
		iv.End = min(iv.End, s.regions[index+1].Start)
	}
	if !iv.Valid() {
		prev, ok := s.drags[r.ID]
		if !ok {
			return false
		}
		iv = prev
	}
	if iv == r.Interval {
		return false
	}
	r.Interval = iv
	return true
}

// IsActive reports whether the region at index is the active one.
func (s *Set) IsActive(index int) bool {
	r, ok := s.At(index)
	return ok && r.ID == s.active
}

// Active returns the index of the active region, or -1.
func (s *Set) Active() int {
	if s.active == "" {
		return -1
	}
	return s.Index(s.active)
}

// Activate makes the region at index active and pauses playback.
// Activating the already active region toggles its playback instead.
// An index outside the set deactivates every region.
func (s *Set) Activate(index int) {
	r, ok := s.At(index)
	if !ok {
		s.active = ""
		return
	}
	p := s.cfg.Player
	if s.active == r.ID {
		if p == nil {
			return
		}
		if p.IsPlaying() {
			p.Pause()
		} else {
			p.PlayRange(r.Start, r.End)
		}
		return
	}
	s.active = r.ID
	if p != nil {
		p.Pause()
	}
}

// Highlight marks or unmarks the region at index.
func (s *Set) Highlight(index int, on bool) {
	r, ok := s.At(index)
	if !ok {
		return
	}
	if on {
		s.highlighted[r.ID] = true
	} else {
		delete(s.highlighted, r.ID)
	}
}

// IsHighlighted reports whether the region at index is highlighted.
func (s *Set) IsHighlighted(index int) bool {
	r, ok := s.At(index)
	return ok && s.highlighted[r.ID]
}

// Click reports a click on the region at index.
func (s *Set) Click(index int) {
	s.emitAt(s.Clicked, index)
}

// DblClick reports a double click on the region at index.
func (s *Set) DblClick(index int) {
	s.emitAt(s.DblClicked, index)
}

// Enter reports the pointer entering the region at index.
func (s *Set) Enter(index int) {
	s.emitAt(s.MouseEnter, index)
}

// Leave reports the pointer leaving the region at index.
func (s *Set) Leave(index int) {
	s.emitAt(s.MouseLeave, index)
}

func (s *Set) emitAt(sig *event.Signal[Event], index int) {
	r, ok := s.At(index)
	if !ok {
		return
	}
	sig.Emit(Event{Index: index, Region: r})
}
