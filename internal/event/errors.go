package event

import "errors"

// Sentinel errors for signals.
var (
	// ErrSubscriptionNotFound is returned when unsubscribing a subscription
	// that does not belong to the signal.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrNilListener is returned when a nil listener is provided.
	ErrNilListener = errors.New("listener cannot be nil")
)

// SignalError wraps an error with the signal it concerns.
type SignalError struct {
	// Signal is the signal name.
	Signal string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SignalError) Error() string {
	return "signal " + e.Signal + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *SignalError) Unwrap() error {
	return e.Err
}
