package execution

import (
	"context"
	"time"

	"github.com/depstrap/depstrap/internal/domain/pipeline"
)

// Executor runs plan entries strictly sequentially, in plan order. The first
// failure halts the run: later steps consume the failed step's install output
// and would fail regardless, so they are never attempted.
type Executor struct {
	dryRun bool
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// WithDryRun returns an Executor that reports what would run without
// applying anything.
func (e *Executor) WithDryRun(dryRun bool) *Executor {
	return &Executor{dryRun: dryRun}
}

// Execute runs all entries in the plan in order and returns one result per
// processed entry. Skipped entries perform zero external invocations. On the
// first failure the returned slice ends with exactly one failed result;
// remaining entries are not attempted and produce no results.
//
// Cancelling ctx stops the run: the in-flight step observes the cancellation
// through its command invocations and reports Failed, and no further entries
// are processed.
func (e *Executor) Execute(ctx context.Context, plan *Plan, runCtx *pipeline.RunContext) []StepResult {
	results := make([]StepResult, 0, plan.Len())

	rc := runCtx.WithDryRun(e.dryRun)

	for _, entry := range plan.Entries() {
		select {
		case <-ctx.Done():
			return results
		default:
		}

		result := e.executeEntry(entry, rc)
		results = append(results, result)

		if result.Failed() {
			break
		}
	}

	return results
}

// executeEntry runs a single plan entry to a terminal status.
func (e *Executor) executeEntry(entry PlanEntry, ctx *pipeline.RunContext) StepResult {
	step := entry.Step()
	stepID := step.ID()

	if entry.Status() == pipeline.StatusSkipped {
		// A satisfied step still owes its exports to downstream steps, or a
		// resumed run would build them in a different environment than an
		// uninterrupted one.
		if exporter, ok := step.(pipeline.Exporter); ok {
			exporter.PublishExports(ctx)
		}
		return NewStepResult(stepID, pipeline.StatusSkipped, nil)
	}

	if ctx.DryRun() {
		return NewStepResult(stepID, pipeline.StatusPending, nil)
	}

	start := time.Now()
	err := step.Apply(ctx)
	duration := time.Since(start)

	if err != nil {
		return NewStepResult(stepID, pipeline.StatusFailed, err).WithDuration(duration)
	}

	return NewStepResult(stepID, pipeline.StatusCompleted, nil).WithDuration(duration)
}
