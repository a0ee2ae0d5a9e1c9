// Package command provides command execution adapters.
package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/depstrap/depstrap/internal/ports"
)

// RealRunner executes actual external commands. A nonzero exit status is
// reported through the result, not as an error; errors mean the process
// could not run to completion (not found, cancelled, timed out).
type RealRunner struct {
	timeout time.Duration
}

// NewRealRunner creates a new RealRunner with no per-invocation timeout.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// WithTimeout returns a RealRunner that bounds every invocation. On expiry
// the process is killed and Run returns an error wrapping
// context.DeadlineExceeded.
func (r *RealRunner) WithTimeout(d time.Duration) *RealRunner {
	return &RealRunner{timeout: d}
}

// Run executes a command and returns the result.
func (r *RealRunner) Run(ctx context.Context, inv ports.Invocation) (ports.CommandResult, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, inv.Command, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), flatten(inv.Env)...)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		// A killed process is a cancellation or timeout, not an exit status.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("command %s: %w", inv.Command, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

// flatten converts an environment map to KEY=VALUE form.
func flatten(env map[string]string) []string {
	flat := make([]string, 0, len(env))
	for k, v := range env {
		flat = append(flat, k+"="+v)
	}
	return flat
}

// Ensure RealRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*RealRunner)(nil)
