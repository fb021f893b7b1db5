package app

// ViewState is the screen the application shows.
type ViewState uint8

const (
	// Loading is shown while a transcript is read.
	Loading ViewState = iota
	// Viewing follows playback line by line.
	Viewing
	// Editing shows the document with its Sections and the region
	// timeline.
	Editing
	// Error shows a load failure until the next load.
	Error
)

func (s ViewState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

var transitions = map[ViewState][]ViewState{
	Loading: {Viewing, Error},
	Viewing: {Editing, Loading, Error},
	Editing: {Viewing, Error},
	Error:   {Loading},
}

// CanTransition reports whether the workflow allows moving from one
// state to another.
func CanTransition(from, to ViewState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// StateEvent reports a view state change.
type StateEvent struct {
	From ViewState
	To   ViewState
}
