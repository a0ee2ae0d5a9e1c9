// Package native provides build steps: running a descriptor's configure,
// compile, and install commands against the shared install prefix. The build
// tools are opaque external collaborators; their flags are configuration.
package native

import (
	"fmt"

	"github.com/depstrap/depstrap/internal/domain/pipeline"
	"github.com/depstrap/depstrap/internal/domain/receipt"
	"github.com/depstrap/depstrap/internal/ports"
	"github.com/depstrap/depstrap/internal/provider/source"
)

// BuildStep runs a descriptor's build commands in order inside its source
// directory, verifies the target path afterwards, and records a receipt.
//
// Completion is target presence plus a receipt matching the pinned ref: a
// directory left behind by an interrupted build has no receipt and is rebuilt
// rather than silently treated as done.
type BuildStep struct {
	desc   pipeline.StepDescriptor
	id     pipeline.StepID
	deps   []pipeline.StepID
	runner ports.CommandRunner
	fs     ports.FileSystem
	ledger *receipt.Ledger
}

// NewBuildStep creates a BuildStep for one descriptor. The step depends on
// its own fetch step (when the descriptor fetches) and on the build steps of
// every declared dependency.
func NewBuildStep(desc pipeline.StepDescriptor, runner ports.CommandRunner, fs ports.FileSystem, ledger *receipt.Ledger) *BuildStep {
	deps := make([]pipeline.StepID, 0, len(desc.DependsOn)+1)
	if desc.RequiresFetch() {
		deps = append(deps, source.StepID(desc.Name))
	}
	for _, name := range desc.DependsOn {
		deps = append(deps, StepID(name))
	}

	return &BuildStep{
		desc:   desc,
		id:     StepID(desc.Name),
		deps:   deps,
		runner: runner,
		fs:     fs,
		ledger: ledger,
	}
}

// StepID returns the build step ID for a descriptor name.
func StepID(name string) pipeline.StepID {
	return pipeline.MustNewStepID("native:build:" + name)
}

// ID returns the step identifier.
func (s *BuildStep) ID() pipeline.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *BuildStep) DependsOn() []pipeline.StepID {
	return s.deps
}

// Check reports whether the target exists and carries a receipt at the
// descriptor's pinned reference.
func (s *BuildStep) Check(ctx *pipeline.RunContext) (bool, error) {
	if !s.fs.Exists(s.desc.TargetPath) {
		return false, nil
	}
	return s.ledger.Matches(ctx.Context(), s.desc.Name, s.desc.PinnedRef)
}

// Apply runs the build commands, verifies the target, records the receipt,
// and publishes the descriptor's exports to later steps.
func (s *BuildStep) Apply(ctx *pipeline.RunContext) error {
	env := ctx.Environ()
	dir := s.desc.SourceDir()

	for _, cmd := range s.desc.BuildCommands {
		result, err := s.runner.Run(ctx.Context(), ports.Invocation{
			Command: cmd.Program,
			Args:    cmd.Args,
			Dir:     dir,
			Env:     env,
		})
		if err != nil {
			return fmt.Errorf("%w: %s %s: %w", pipeline.ErrBuildFailed, s.desc.Name, cmd.Program, err)
		}
		if !result.Success() {
			return fmt.Errorf("%w: %s %s exited %d: %s",
				pipeline.ErrBuildFailed, s.desc.Name, cmd.Program, result.ExitCode, tail(result.Stderr))
		}
	}

	if !s.fs.Exists(s.desc.TargetPath) {
		return fmt.Errorf("%w: %s expected %s", pipeline.ErrPostcondition, s.desc.Name, s.desc.TargetPath)
	}

	if err := s.ledger.Record(ctx.Context(), s.desc.Name, s.desc.PinnedRef); err != nil {
		return err
	}

	s.PublishExports(ctx)
	return nil
}

// PublishExports records the descriptor's environment exports for later
// steps. The executor also calls this when the step is skipped as satisfied.
func (s *BuildStep) PublishExports(ctx *pipeline.RunContext) {
	for k, v := range s.desc.Exports {
		ctx.Export(k, v)
	}
}

// tail returns the last few lines of command output for error messages.
func tail(s string) string {
	const max = 400
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}

// Ensure BuildStep implements pipeline.Step and pipeline.Exporter.
var (
	_ pipeline.Step     = (*BuildStep)(nil)
	_ pipeline.Exporter = (*BuildStep)(nil)
)
