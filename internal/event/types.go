package event

// Priority determines listener execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for state owners that must observe a signal first.
	PriorityCritical Priority = 0

	// PriorityHigh is for coordinators that mirror state between components.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and view refresh listeners that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Verdict is a listener's answer to a signal.
type Verdict uint8

const (
	// Accept lets the emission proceed. It is the zero value.
	Accept Verdict = iota

	// Reject vetoes the emission. Only veto signals act on it.
	Reject
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Accepted returns true for Accept.
func (v Verdict) Accepted() bool {
	return v == Accept
}

// Listener receives a signal payload and returns its verdict.
type Listener[T any] func(payload T) Verdict

// Notify adapts a plain callback to a Listener that always accepts.
func Notify[T any](fn func(payload T)) Listener[T] {
	return func(payload T) Verdict {
		fn(payload)
		return Accept
	}
}

// FilterFunc is a predicate on a signal payload.
// Return true to deliver the payload, false to skip this listener.
type FilterFunc[T any] func(payload T) bool
