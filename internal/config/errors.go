package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSetting is returned for a key no section defines.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrTypeMismatch is returned for a value of the wrong type, such as
	// a string threshold.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed is matched by every ValidationError.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError rejects one setting.
type ValidationError struct {
	Path    string // dotted key, e.g. "selection.threshold"
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Message, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
