// Package pipeline defines the step model for the build orchestrator:
// step identity, status, dependency graph, and the descriptor form that
// configuration compiles into.
package pipeline

// Step is one idempotent unit of execution in the pipeline. A step knows how
// to probe for its own completion marker and how to perform its external
// invocations when the marker is absent.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// DependsOn returns the IDs of steps that must complete before this one.
	DependsOn() []StepID

	// Check reports whether the step's target already exists, in which case
	// the step is skipped without side effects.
	Check(ctx *RunContext) (bool, error)

	// Apply performs the step's external invocations and verifies the target
	// afterwards. Errors wrap one of ErrFetchFailed, ErrBuildFailed, or
	// ErrPostcondition.
	Apply(ctx *RunContext) error
}

// Exporter is implemented by steps that contribute environment overrides to
// later steps. PublishExports must be called when the step completes AND when
// it is skipped as already satisfied: a step built in an earlier run still
// owes its exports to everything downstream, or a resumed run would build the
// remaining steps in a different environment than an uninterrupted one.
type Exporter interface {
	PublishExports(ctx *RunContext)
}
