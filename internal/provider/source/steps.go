// Package source provides fetch steps: cloning a repository and checking out
// the pinned reference. Version control itself is an external collaborator;
// these steps only drive the git CLI.
package source

import (
	"fmt"
	"path/filepath"

	"github.com/depstrap/depstrap/internal/domain/pipeline"
	"github.com/depstrap/depstrap/internal/ports"
)

// FetchStep clones a repository into the step's source directory and checks
// out the pinned reference. Presence of the source directory marks the fetch
// as done; a clone is never refreshed in place.
type FetchStep struct {
	name   string
	repo   string
	ref    string
	dir    string
	id     pipeline.StepID
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewFetchStep creates a FetchStep for one descriptor.
func NewFetchStep(desc pipeline.StepDescriptor, runner ports.CommandRunner, fs ports.FileSystem) *FetchStep {
	return &FetchStep{
		name:   desc.Name,
		repo:   desc.FetchSpec,
		ref:    desc.PinnedRef,
		dir:    desc.SourceDir(),
		id:     StepID(desc.Name),
		runner: runner,
		fs:     fs,
	}
}

// StepID returns the fetch step ID for a descriptor name.
func StepID(name string) pipeline.StepID {
	return pipeline.MustNewStepID("source:clone:" + name)
}

// ID returns the step identifier.
func (s *FetchStep) ID() pipeline.StepID {
	return s.id
}

// DependsOn returns the step dependencies. Fetches are independent of each
// other; ordering constraints live on the build steps.
func (s *FetchStep) DependsOn() []pipeline.StepID {
	return nil
}

// Check reports whether the source directory already exists.
func (s *FetchStep) Check(_ *pipeline.RunContext) (bool, error) {
	return s.fs.Exists(s.dir), nil
}

// Apply clones the repository and checks out the pinned reference.
func (s *FetchStep) Apply(ctx *pipeline.RunContext) error {
	parent := filepath.Dir(s.dir)
	if err := s.fs.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", pipeline.ErrFetchFailed, parent, err)
	}

	result, err := s.runner.Run(ctx.Context(), ports.Invocation{
		Command: "git",
		Args:    []string{"clone", s.repo, s.dir},
		Dir:     parent,
	})
	if err != nil {
		return fmt.Errorf("%w: clone %s: %w", pipeline.ErrFetchFailed, s.repo, err)
	}
	if !result.Success() {
		return fmt.Errorf("%w: clone %s: %s", pipeline.ErrFetchFailed, s.repo, tail(result.Stderr))
	}

	if s.ref == "" {
		return nil
	}

	result, err = s.runner.Run(ctx.Context(), ports.Invocation{
		Command: "git",
		Args:    []string{"checkout", s.ref},
		Dir:     s.dir,
	})
	if err != nil {
		return fmt.Errorf("%w: checkout %s: %w", pipeline.ErrFetchFailed, s.ref, err)
	}
	if !result.Success() {
		return fmt.Errorf("%w: checkout %s: %s", pipeline.ErrFetchFailed, s.ref, tail(result.Stderr))
	}

	return nil
}

// tail returns the last few lines of command output for error messages.
func tail(s string) string {
	const max = 400
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}

// Ensure FetchStep implements pipeline.Step.
var _ pipeline.Step = (*FetchStep)(nil)
