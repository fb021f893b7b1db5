package playback

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dshills/scribeline/internal/timing"
)

// ErrSeekOutOfRange is returned for a seek outside the media.
var ErrSeekOutOfRange = errors.New("seek position out of range")

// Transport is a source of media time with play/pause/seek controls.
type Transport interface {
	CurrentTime() float64
	Duration() float64
	IsPlaying() bool
	Play()
	Pause()
	Seek(t float64) error
	PlayRange(start, end float64)
}

// SeekProgress seeks tr to a fraction of its duration. The fraction
// must be a finite number in [0, 1].
func SeekProgress(tr Transport, progress float64) error {
	if math.IsNaN(progress) || math.IsInf(progress, 0) || progress < 0 || progress > 1 {
		return fmt.Errorf("%w: progress %v not in [0, 1]", ErrSeekOutOfRange, progress)
	}
	return tr.Seek(progress * tr.Duration())
}

// SimTransport is a Transport without audio. Its position advances with
// the clock while playing and stops at the end of the media or of the
// range being played.
type SimTransport struct {
	clock    timing.Clock
	duration float64
	pos      float64
	anchor   time.Time // clock time when pos was recorded
	stopAt   float64
	playing  bool
}

// NewSimTransport creates a paused transport at position 0.
func NewSimTransport(clock timing.Clock, duration float64) *SimTransport {
	return &SimTransport{clock: clock, duration: duration, stopAt: duration}
}

// CurrentTime returns the playback position in seconds.
func (s *SimTransport) CurrentTime() float64 {
	if !s.playing {
		return s.pos
	}
	p := s.pos + s.clock.Now().Sub(s.anchor).Seconds()
	if p >= s.stopAt {
		s.pos = s.stopAt
		s.playing = false
		return s.pos
	}
	return p
}

// Duration returns the media length in seconds.
func (s *SimTransport) Duration() float64 {
	return s.duration
}

// IsPlaying reports whether the position is advancing.
func (s *SimTransport) IsPlaying() bool {
	s.CurrentTime()
	return s.playing
}

// Play resumes playback to the end of the media.
func (s *SimTransport) Play() {
	if s.playing {
		return
	}
	if s.pos >= s.duration {
		s.pos = 0
	}
	s.stopAt = s.duration
	s.anchor = s.clock.Now()
	s.playing = true
}

// Pause freezes the position.
func (s *SimTransport) Pause() {
	s.pos = s.CurrentTime()
	s.playing = false
}

// Seek moves the position, keeping the play state.
func (s *SimTransport) Seek(t float64) error {
	if t < 0 || t > s.duration {
		return fmt.Errorf("%w: %.3f not in [0, %.3f]", ErrSeekOutOfRange, t, s.duration)
	}
	s.pos = t
	s.anchor = s.clock.Now()
	if t >= s.stopAt {
		s.stopAt = s.duration
	}
	return nil
}

// PlayRange plays from start and stops at end.
func (s *SimTransport) PlayRange(start, end float64) {
	s.pos = math.Max(0, start)
	s.stopAt = math.Min(end, s.duration)
	s.anchor = s.clock.Now()
	s.playing = s.pos < s.stopAt
}
