// Package execution handles step orchestration: planning which steps need
// work and running them strictly in order.
package execution

import (
	"time"

	"github.com/depstrap/depstrap/internal/domain/pipeline"
)

// StepResult captures the terminal outcome of one step.
type StepResult struct {
	stepID   pipeline.StepID
	status   pipeline.StepStatus
	err      error
	duration time.Duration
}

// NewStepResult creates a new StepResult.
func NewStepResult(stepID pipeline.StepID, status pipeline.StepStatus, err error) StepResult {
	return StepResult{
		stepID: stepID,
		status: status,
		err:    err,
	}
}

// StepID returns the ID of the step that was executed.
func (r StepResult) StepID() pipeline.StepID {
	return r.stepID
}

// Status returns the final status of the step.
func (r StepResult) Status() pipeline.StepStatus {
	return r.status
}

// Error returns any error that occurred during execution.
func (r StepResult) Error() error {
	return r.err
}

// Duration returns how long the step took to execute.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// Skipped returns true if the step's target was already present.
func (r StepResult) Skipped() bool {
	return r.status == pipeline.StatusSkipped
}

// Failed returns true if the step failed.
func (r StepResult) Failed() bool {
	return r.status == pipeline.StatusFailed
}

// WithDuration returns a new StepResult with duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}
