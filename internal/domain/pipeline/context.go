package pipeline

import "context"

// RunContext carries the shared state of one orchestration run: the install
// prefix all steps install into, the dry-run flag, and the accumulated
// environment overrides.
//
// The environment is append-only: a step merges its exports after completing,
// and subsequent steps see them. RunContext is not safe for concurrent use;
// execution is strictly sequential.
type RunContext struct {
	ctx    context.Context
	prefix string
	dryRun bool
	env    map[string]string
}

// NewRunContext creates a RunContext with the given install prefix and
// initial environment overrides. The env map is copied.
func NewRunContext(ctx context.Context, prefix string, env map[string]string) *RunContext {
	copied := make(map[string]string, len(env))
	for k, v := range env {
		copied[k] = v
	}
	return &RunContext{
		ctx:    ctx,
		prefix: prefix,
		env:    copied,
	}
}

// Context returns the underlying context.Context.
func (r *RunContext) Context() context.Context {
	return r.ctx
}

// InstallPrefix returns the shared filesystem root all steps install into.
func (r *RunContext) InstallPrefix() string {
	return r.prefix
}

// DryRun returns whether this is a dry-run execution.
func (r *RunContext) DryRun() bool {
	return r.dryRun
}

// WithDryRun returns a RunContext with the dry-run flag set. The environment
// map is shared with the receiver.
func (r *RunContext) WithDryRun(dryRun bool) *RunContext {
	return &RunContext{
		ctx:    r.ctx,
		prefix: r.prefix,
		dryRun: dryRun,
		env:    r.env,
	}
}

// Environ returns a copy of the accumulated environment overrides.
func (r *RunContext) Environ() map[string]string {
	copied := make(map[string]string, len(r.env))
	for k, v := range r.env {
		copied[k] = v
	}
	return copied
}

// Export records an environment override visible to subsequent steps.
func (r *RunContext) Export(key, value string) {
	r.env[key] = value
}
