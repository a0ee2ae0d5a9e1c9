// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// Invocation describes one external process invocation: the program, its
// arguments, the working directory it runs in, and environment overrides
// appended to the inherited process environment.
type Invocation struct {
	Command string
	Args    []string
	Dir     string
	Env     map[string]string
}

// CommandResult represents the result of executing an external command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner executes external commands. Implementations must honor
// context cancellation by terminating the in-flight process.
type CommandRunner interface {
	Run(ctx context.Context, inv Invocation) (CommandResult, error)
}
