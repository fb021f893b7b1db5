package selector

import "errors"

// Selector errors.
var (
	// ErrUnknownSignal is returned for a signal kind outside the enumerated set.
	ErrUnknownSignal = errors.New("unknown selector signal")

	// ErrDestroyed is returned when subscribing to a destroyed selector.
	ErrDestroyed = errors.New("selector destroyed")

	// ErrUnknownFilter is returned when removing a filter that is not installed.
	ErrUnknownFilter = errors.New("unknown filter")
)
