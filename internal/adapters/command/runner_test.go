package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/depstrap/depstrap/internal/ports"
)

func TestRealRunner_Run_Success(t *testing.T) {
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.Invocation{
		Command: "echo",
		Args:    []string{"hello"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Success() {
		t.Error("Run() should succeed for 'echo hello'")
	}
	if result.Stdout != "hello\n" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "hello\n")
	}
}

func TestRealRunner_Run_NonzeroExit(t *testing.T) {
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.Invocation{Command: "false"})
	if err != nil {
		t.Fatalf("Run() error = %v (nonzero exit should not be an error)", err)
	}
	if result.Success() {
		t.Error("Run() should report failure for 'false'")
	}
}

func TestRealRunner_Run_NotFound(t *testing.T) {
	runner := NewRealRunner()

	_, err := runner.Run(context.Background(), ports.Invocation{Command: "nonexistent-command-12345"})
	if err == nil {
		t.Error("Run() should return error for a missing command")
	}
}

func TestRealRunner_Run_CapturesStderr(t *testing.T) {
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.Invocation{
		Command: "sh",
		Args:    []string{"-c", "echo oops >&2; exit 1"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", result.ExitCode)
	}
	if result.Stderr != "oops\n" {
		t.Errorf("Stderr = %q, want %q", result.Stderr, "oops\n")
	}
}

func TestRealRunner_Run_WorkingDirectory(t *testing.T) {
	runner := NewRealRunner()
	dir := t.TempDir()

	result, err := runner.Run(context.Background(), ports.Invocation{
		Command: "pwd",
		Dir:     dir,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// Resolve symlinks: on some systems TempDir is behind one.
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(result.Stdout[:len(result.Stdout)-1])
	if got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}

func TestRealRunner_Run_EnvironmentOverrides(t *testing.T) {
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.Invocation{
		Command: "sh",
		Args:    []string{"-c", "echo $DEPSTRAP_TEST_VAR"},
		Env:     map[string]string{"DEPSTRAP_TEST_VAR": "wired"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stdout != "wired\n" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "wired\n")
	}
}

func TestRealRunner_Run_InheritsProcessEnvironment(t *testing.T) {
	t.Setenv("DEPSTRAP_INHERITED", "yes")
	runner := NewRealRunner()

	result, err := runner.Run(context.Background(), ports.Invocation{
		Command: "sh",
		Args:    []string{"-c", "echo $DEPSTRAP_INHERITED"},
		Env:     map[string]string{"OTHER": "x"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stdout != "yes\n" {
		t.Errorf("Stdout = %q, overrides must extend, not replace, the environment", result.Stdout)
	}
}

func TestRealRunner_Run_Timeout(t *testing.T) {
	runner := NewRealRunner().WithTimeout(50 * time.Millisecond)

	start := time.Now()
	_, err := runner.Run(context.Background(), ports.Invocation{
		Command: "sleep",
		Args:    []string{"5"},
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want DeadlineExceeded", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("timeout did not kill the process promptly")
	}
}

func TestRealRunner_Run_Cancelled(t *testing.T) {
	runner := NewRealRunner()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := runner.Run(ctx, ports.Invocation{
		Command: "sleep",
		Args:    []string{"5"},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want Canceled", err)
	}
}

func TestRealRunner_Run_CreatesFiles(t *testing.T) {
	runner := NewRealRunner()
	dir := t.TempDir()
	target := filepath.Join(dir, "artifact")

	result, err := runner.Run(context.Background(), ports.Invocation{
		Command: "touch",
		Args:    []string{target},
	})
	if err != nil || !result.Success() {
		t.Fatalf("Run() = %+v, %v", result, err)
	}
	if _, statErr := os.Stat(target); statErr != nil {
		t.Errorf("expected %s to exist: %v", target, statErr)
	}
}
