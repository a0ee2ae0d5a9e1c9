// Package mocks provides test doubles for testing.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/depstrap/depstrap/internal/ports"
)

// CommandRunner is a thread-safe test double for ports.CommandRunner.
// Results are keyed by program and arguments; working directory and
// environment are recorded but not matched on.
type CommandRunner struct {
	mu      sync.RWMutex
	results map[string]ports.CommandResult
	errors  map[string]error
	hooks   map[string]func(ports.Invocation)
	calls   []ports.Invocation
}

// NewCommandRunner creates a new CommandRunner mock.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		results: make(map[string]ports.CommandResult),
		errors:  make(map[string]error),
		hooks:   make(map[string]func(ports.Invocation)),
		calls:   make([]ports.Invocation, 0),
	}
}

// AddResult registers an expected command and its result.
func (m *CommandRunner) AddResult(command string, args []string, result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[buildKey(command, args)] = result
}

// AddError registers an expected command that should return an error.
func (m *CommandRunner) AddError(command string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[buildKey(command, args)] = err
}

// AddHook registers a side effect run when the command is matched, before
// its result is returned. Used to simulate commands that create files.
func (m *CommandRunner) AddHook(command string, args []string, fn func(ports.Invocation)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks[buildKey(command, args)] = fn
}

// Run executes a mock command.
func (m *CommandRunner) Run(_ context.Context, inv ports.Invocation) (ports.CommandResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, inv)
	m.mu.Unlock()

	key := buildKey(inv.Command, inv.Args)

	m.mu.RLock()
	hook := m.hooks[key]
	err, hasErr := m.errors[key]
	result, hasResult := m.results[key]
	m.mu.RUnlock()

	if hook != nil {
		hook(inv)
	}

	if hasErr {
		return ports.CommandResult{}, err
	}
	if hasResult {
		return result, nil
	}

	return ports.CommandResult{}, fmt.Errorf("no mock result for command: %s %v", inv.Command, inv.Args)
}

// Calls returns all recorded invocations.
func (m *CommandRunner) Calls() []ports.Invocation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]ports.Invocation, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns the number of recorded invocations.
func (m *CommandRunner) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

// Reset clears all registered results, errors, hooks, and recorded calls.
func (m *CommandRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]ports.CommandResult)
	m.errors = make(map[string]error)
	m.hooks = make(map[string]func(ports.Invocation))
	m.calls = make([]ports.Invocation, 0)
}

// buildKey creates a unique key for a command and its arguments.
func buildKey(command string, args []string) string {
	return command + ":" + strings.Join(args, ":")
}

// Ensure CommandRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*CommandRunner)(nil)
