package selector

// dragTracker tracks pointer travel during a gesture.
type dragTracker struct {
	// startPos is where the press happened.
	startPos Point

	// moved becomes true once travel exceeds the threshold and stays
	// true until the next press.
	moved bool
}

// start begins tracking a new gesture.
func (t *dragTracker) start(pos Point) {
	t.startPos = pos
	t.moved = false
}

// update records the pointer position and reports whether the gesture
// is now a drag.
func (t *dragTracker) update(pos Point, threshold float64) bool {
	if !t.moved && pos.Distance(t.startPos) > threshold {
		t.moved = true
	}
	return t.moved
}

// isClick returns true while the gesture has not become a drag.
func (t *dragTracker) isClick() bool {
	return !t.moved
}
