package pipeline

import (
	"fmt"
	"path/filepath"
)

// Command is a single external process invocation: a program and its
// arguments. Build flags live here as configuration data, not in code.
type Command struct {
	Program string
	Args    []string
}

// StepDescriptor declares one fetch+build+install unit. Descriptors are the
// declarative form steps are compiled from; the ordered descriptor list is
// the single source of execution order.
type StepDescriptor struct {
	// Name identifies the step, e.g. "x265".
	Name string
	// TargetPath is the filesystem path whose existence marks completion.
	TargetPath string
	// PinnedRef is the tag, branch, or commit to check out for reproducible
	// builds. Ignored when FetchSpec is empty.
	PinnedRef string
	// FetchSpec is the repository location to clone from. Empty means the
	// step has no fetch phase (sources already on disk).
	FetchSpec string
	// SourcePath is where sources are cloned to and build commands run in.
	// When empty, a fetched step builds inside TargetPath itself (the clone
	// creates it); a fetch-less step builds in TargetPath's parent, since
	// the target may be a plain file.
	SourcePath string
	// BuildCommands run in order inside SourcePath.
	BuildCommands []Command
	// DependsOn names descriptors whose install output this step's build
	// commands consume. All of them must appear earlier in the list.
	DependsOn []string
	// Exports are environment overrides made visible to later steps once
	// this step completes.
	Exports map[string]string
}

// RequiresFetch reports whether the step has a network fetch phase.
func (d StepDescriptor) RequiresFetch() bool {
	return d.FetchSpec != ""
}

// SourceDir returns the working directory for the step's build commands.
// Without an explicit SourcePath, a fetched step builds inside its checkout
// at TargetPath; a fetch-less step builds in TargetPath's parent so that a
// file target never becomes a working directory.
func (d StepDescriptor) SourceDir() string {
	if d.SourcePath != "" {
		return d.SourcePath
	}
	if d.RequiresFetch() {
		return d.TargetPath
	}
	return filepath.Dir(d.TargetPath)
}

// ValidateDescriptors checks the ordered descriptor list: names must be
// unique and non-empty, every target path must be set, and dependencies may
// only reference earlier descriptors (no forward references, no cycles).
func ValidateDescriptors(descs []StepDescriptor) error {
	seen := make(map[string]int, len(descs))
	for i, d := range descs {
		if d.Name == "" {
			return fmt.Errorf("step %d: name is empty", i)
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateStep, d.Name)
		}
		if d.TargetPath == "" {
			return fmt.Errorf("step %q: target path is empty", d.Name)
		}
		for _, dep := range d.DependsOn {
			if dep == d.Name {
				return fmt.Errorf("%w: %q depends on itself", ErrCyclicDependency, d.Name)
			}
			if _, ok := seen[dep]; !ok {
				// Either the dependency does not exist at all, or it appears
				// later in the list; look ahead to tell the two apart.
				for k := i + 1; k < len(descs); k++ {
					if descs[k].Name == dep {
						return fmt.Errorf("%w: %q depends on %q", ErrForwardDependency, d.Name, dep)
					}
				}
				return fmt.Errorf("%w: %q depends on %q", ErrMissingDep, d.Name, dep)
			}
		}
		seen[d.Name] = i
	}
	return nil
}
