package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrInvalidTransition indicates a workflow step not allowed from
	// the current view state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrNotEditing indicates an editing operation outside editing.
	ErrNotEditing = errors.New("not editing")

	// ErrNoTranscript indicates an operation that needs a loaded
	// transcript.
	ErrNoTranscript = errors.New("no transcript loaded")

	// ErrNoSavePath indicates a save without a destination.
	ErrNoSavePath = errors.New("no save path")
)

// TransitionError reports a rejected view state change.
type TransitionError struct {
	From ViewState
	To   ViewState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "load", "save", "edit")
	Target string // Target of the operation, usually a file path
	Err    error  // Underlying error
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorList collects multiple errors.
type ErrorList struct {
	errors []error
}

// Add adds an error to the list. Nil errors are ignored.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.errors = append(e.errors, err)
	}
}

// Error returns a combined error message.
func (e *ErrorList) Error() string {
	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}
	return fmt.Sprintf("%d errors: first: %v", len(e.errors), e.errors[0])
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *ErrorList) Unwrap() []error {
	return e.errors
}

// AsError returns nil if there are no errors, otherwise returns the ErrorList.
func (e *ErrorList) AsError() error {
	if len(e.errors) == 0 {
		return nil
	}
	return e
}
