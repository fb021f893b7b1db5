package event

import (
	"errors"
	"testing"
)

func TestSignalError(t *testing.T) {
	err := &SignalError{Signal: "change", Err: ErrSubscriptionNotFound}

	if got := err.Error(); got != "signal change: subscription not found" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrSubscriptionNotFound) {
		t.Error("errors.Is should match the wrapped sentinel")
	}
}
