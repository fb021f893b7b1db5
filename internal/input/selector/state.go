package selector

import "fmt"

// State is the gesture state of a Selector.
type State uint8

const (
	// Idle means no gesture is in progress.
	Idle State = iota
	// Selecting means a press was accepted and the pointer is held.
	Selecting
	// Destroyed means the selector no longer reacts to input.
	Destroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// transitions lists the legal state changes.
var transitions = map[State][]State{
	Idle:      {Selecting, Destroyed},
	Selecting: {Idle, Destroyed},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *Selector[E]) transition(to State) {
	if !canTransition(s.state, to) {
		panic(fmt.Sprintf("selector: illegal transition %s -> %s", s.state, to))
	}
	s.state = to
}
