package region

// BeginDrag starts a resize or move of the region at index. A release
// still waiting for the region is dropped; one waiting for another
// region completes first.
func (s *Set) BeginDrag(index int) error {
	r, ok := s.At(index)
	if !ok {
		return &IndexError{Op: "drag", Index: index, Err: ErrIndexOutOfRange}
	}
	if id, pending := s.release.PendingValue(); pending {
		if id == r.ID {
			s.release.Stop()
		} else {
			s.release.Flush()
		}
	}
	s.drags[r.ID] = r.Interval
	s.throttle.Reset()
	return nil
}

// DragTo applies a live drag update. The requested interval is applied
// as is, playback pauses, and the clamp fixup runs throttled and again
// once updates settle.
func (s *Set) DragTo(index int, iv Interval) error {
	r, ok := s.At(index)
	if !ok {
		return &IndexError{Op: "drag", Index: index, Err: ErrIndexOutOfRange}
	}
	if _, dragging := s.drags[r.ID]; !dragging {
		return &IndexError{Op: "drag", Index: index, Err: ErrNotDragging}
	}
	iv.Start = max(iv.Start, 0)
	iv.End = min(iv.End, s.duration)
	if err := s.update(index, iv); err != nil {
		return err
	}
	if p := s.cfg.Player; p != nil && p.IsPlaying() {
		p.Pause()
	}
	s.throttle.Call(r.ID)
	s.settle.Call(r.ID)
	return nil
}

// EndDrag releases the region at index. Once the fixup interval has
// passed the region is clamped a final time, UpdateEnd fires and the
// region starts playing.
func (s *Set) EndDrag(index int) error {
	r, ok := s.At(index)
	if !ok {
		return &IndexError{Op: "drag", Index: index, Err: ErrIndexOutOfRange}
	}
	if _, dragging := s.drags[r.ID]; !dragging {
		return &IndexError{Op: "drag", Index: index, Err: ErrNotDragging}
	}
	s.release.Call(r.ID)
	return nil
}

// CancelDrag abandons a drag that never moved: the region keeps its
// interval and neither UpdateEnd nor playback follows. It reports
// whether a drag was open.
func (s *Set) CancelDrag(index int) bool {
	r, ok := s.At(index)
	if !ok {
		return false
	}
	if _, dragging := s.drags[r.ID]; !dragging {
		return false
	}
	delete(s.drags, r.ID)
	return true
}

// IsDragging reports whether the region at index is being dragged.
func (s *Set) IsDragging(index int) bool {
	r, ok := s.At(index)
	if !ok {
		return false
	}
	_, dragging := s.drags[r.ID]
	return dragging
}

// fixup clamps a region by ID and announces its interval.
func (s *Set) fixup(id string) {
	index := s.Index(id)
	if index < 0 {
		return
	}
	if s.Clamp(index) {
		s.log.Debug("clamped region %d to %s", index, s.regions[index].Interval)
	}
	s.emitAt(s.Updated, index)
}

func (s *Set) finishDrag(id string) {
	index := s.Index(id)
	if index < 0 {
		return
	}
	s.settle.Flush()
	s.Clamp(index)
	delete(s.drags, id)

	r := *s.regions[index]
	if p := s.cfg.Player; p != nil {
		p.PlayRange(r.Start, r.End)
	}
	s.UpdateEnd.Emit(Event{Index: index, Region: r})
}
