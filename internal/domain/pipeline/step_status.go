package pipeline

// StepStatus represents the state of a step within a run.
//
// Lifecycle: Pending -> {Skipped | Running -> {Completed | Failed}}.
type StepStatus string

const (
	// StatusPending indicates the step's target is absent and work is required.
	StatusPending StepStatus = "pending"
	// StatusSkipped indicates the target already exists; no work performed.
	StatusSkipped StepStatus = "skipped"
	// StatusRunning indicates the step's commands are currently executing.
	StatusRunning StepStatus = "running"
	// StatusCompleted indicates the step built and installed its target.
	StatusCompleted StepStatus = "completed"
	// StatusFailed indicates a command failed or the target is still absent.
	StatusFailed StepStatus = "failed"
)

// String returns the string representation of the status.
func (s StepStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this status represents a final state.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StatusSkipped, StatusCompleted, StatusFailed:
		return true
	case StatusPending, StatusRunning:
		return false
	}
	return false
}
