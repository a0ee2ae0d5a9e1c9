package pipeline

import "testing"

func TestStepStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status StepStatus
		want   bool
	}{
		{StatusPending, false},
		{StatusRunning, false},
		{StatusSkipped, true},
		{StatusCompleted, true},
		{StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}
