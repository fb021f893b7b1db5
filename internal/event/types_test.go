package event

import "testing"

func TestPriority_String(t *testing.T) {
	tests := []struct {
		priority Priority
		expected string
	}{
		{PriorityCritical, "critical"},
		{PriorityHigh, "high"},
		{PriorityNormal, "normal"},
		{PriorityLow, "low"},
		{Priority(50), "high"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.priority.String(); got != tt.expected {
				t.Errorf("Priority.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestVerdict(t *testing.T) {
	var zero Verdict
	if !zero.Accepted() {
		t.Error("zero Verdict should accept")
	}
	if Reject.Accepted() {
		t.Error("Reject.Accepted() = true")
	}
	if Reject.String() != "reject" {
		t.Errorf("Reject.String() = %q", Reject.String())
	}
}
