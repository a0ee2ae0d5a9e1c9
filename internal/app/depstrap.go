// Package app wires the orchestrator together: it loads the pipeline file,
// compiles descriptors into fetch and build steps, plans, and executes.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/depstrap/depstrap/internal/adapters/command"
	"github.com/depstrap/depstrap/internal/adapters/filesystem"
	"github.com/depstrap/depstrap/internal/adapters/logging"
	receiptyaml "github.com/depstrap/depstrap/internal/adapters/receipt"
	"github.com/depstrap/depstrap/internal/domain/config"
	"github.com/depstrap/depstrap/internal/domain/execution"
	"github.com/depstrap/depstrap/internal/domain/pipeline"
	"github.com/depstrap/depstrap/internal/domain/receipt"
	"github.com/depstrap/depstrap/internal/ports"
	"github.com/depstrap/depstrap/internal/provider/native"
	"github.com/depstrap/depstrap/internal/provider/source"
)

// Mode selects which steps a run processes.
type Mode string

const (
	// ModeInstall runs the full step list: fetches and builds, gated by
	// the idempotency check.
	ModeInstall Mode = "install"
	// ModeBuild runs only the build steps, skipping every network fetch,
	// and rebuilds regardless of what is already on disk.
	ModeBuild Mode = "build"
)

// ReceiptsFile is the receipt location relative to the install prefix.
const ReceiptsFile = ".depstrap/receipts.yaml"

// Depstrap is the application facade used by the CLI.
type Depstrap struct {
	logger   ports.Logger
	runner   ports.CommandRunner
	fs       ports.FileSystem
	receipts receipt.Repository
	loader   *config.Loader
	timeout  time.Duration
}

// New creates a Depstrap wired to the real adapters. Rendering plans and
// results is the caller's concern; the logger is the only output Depstrap
// itself produces.
func New() *Depstrap {
	return &Depstrap{
		logger:   logging.NewNopLogger(),
		fs:       filesystem.NewRealFileSystem(),
		receipts: receiptyaml.NewYAMLRepository(),
		loader:   config.NewLoader(),
	}
}

// WithLogger returns a Depstrap using the given logger.
func (d *Depstrap) WithLogger(logger ports.Logger) *Depstrap {
	copied := *d
	copied.logger = logger
	return &copied
}

// WithRunner returns a Depstrap using the given command runner instead of
// the real one. Used by tests.
func (d *Depstrap) WithRunner(runner ports.CommandRunner) *Depstrap {
	copied := *d
	copied.runner = runner
	return &copied
}

// WithFileSystem returns a Depstrap using the given filesystem.
func (d *Depstrap) WithFileSystem(fs ports.FileSystem) *Depstrap {
	copied := *d
	copied.fs = fs
	return &copied
}

// WithReceipts returns a Depstrap using the given receipt repository.
func (d *Depstrap) WithReceipts(repo receipt.Repository) *Depstrap {
	copied := *d
	copied.receipts = repo
	return &copied
}

// WithCommandTimeout returns a Depstrap overriding the pipeline file's
// per-invocation timeout.
func (d *Depstrap) WithCommandTimeout(timeout time.Duration) *Depstrap {
	copied := *d
	copied.timeout = timeout
	return &copied
}

// Session is one planned run: the plan plus the run context its execution
// must share so environment exports carry across steps.
type Session struct {
	plan   *execution.Plan
	runCtx *pipeline.RunContext
	runID  string
}

// Plan returns the session's execution plan.
func (s *Session) Plan() *execution.Plan {
	return s.plan
}

// RunID returns the session's unique identifier.
func (s *Session) RunID() string {
	return s.runID
}

// Plan loads the pipeline file, compiles its steps for the given mode, and
// checks each one's completion marker.
func (d *Depstrap) Plan(ctx context.Context, configPath string, mode Mode) (*Session, error) {
	cfg, err := d.loader.Load(configPath)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := d.logger.With(ports.F("run", runID))

	graph, err := d.compile(cfg, mode, runID)
	if err != nil {
		return nil, err
	}

	runCtx := pipeline.NewRunContext(ctx, cfg.InstallPrefix(), cfg.Environment())

	planner := execution.NewPlanner().WithForce(mode == ModeBuild)
	plan, err := planner.Plan(runCtx, graph)
	if err != nil {
		return nil, err
	}

	summary := plan.Summary()
	logger.Info(ctx, "planned pipeline",
		ports.F("mode", string(mode)),
		ports.F("steps", summary.Total),
		ports.F("pending", summary.Pending),
		ports.F("skipped", summary.Skipped),
	)

	return &Session{plan: plan, runCtx: runCtx, runID: runID}, nil
}

// Apply executes the session's plan. Results cover every processed step;
// after the first failure no further step is attempted.
func (d *Depstrap) Apply(ctx context.Context, session *Session, dryRun bool) []execution.StepResult {
	logger := d.logger.With(ports.F("run", session.runID))

	executor := execution.NewExecutor().WithDryRun(dryRun)
	results := executor.Execute(ctx, session.plan, session.runCtx)

	for _, r := range results {
		switch {
		case r.Failed():
			logger.Error(ctx, "step failed",
				ports.F("step", r.StepID().String()),
				ports.F("error", r.Error()),
				ports.F("duration", r.Duration().Round(time.Millisecond)),
			)
		case r.Skipped():
			logger.Debug(ctx, "step skipped", ports.F("step", r.StepID().String()))
		default:
			logger.Info(ctx, "step done",
				ports.F("step", r.StepID().String()),
				ports.F("status", r.Status().String()),
				ports.F("duration", r.Duration().Round(time.Millisecond)),
			)
		}
	}

	if remaining := session.plan.Len() - len(results); remaining > 0 {
		logger.Warn(ctx, "run halted early",
			ports.F("processed", len(results)),
			ports.F("remaining", remaining),
		)
	}

	return results
}

// compile turns the pipeline's descriptors into a step graph for the mode.
// Install mode adds a fetch step per descriptor with a repository; build
// mode drops the fetch phase entirely and keeps only build steps.
func (d *Depstrap) compile(cfg *config.Pipeline, mode Mode, runID string) (*pipeline.StepGraph, error) {
	runner := d.runner
	if runner == nil {
		timeout := cfg.Timeout()
		if d.timeout > 0 {
			timeout = d.timeout
		}
		runner = command.NewRealRunner().WithTimeout(timeout)
	}

	ledgerPath := filepath.Join(cfg.InstallPrefix(), filepath.FromSlash(ReceiptsFile))
	ledger := receipt.NewLedger(d.receipts, ledgerPath, runID)

	graph := pipeline.NewStepGraph()
	for _, desc := range cfg.Descriptors() {
		if mode == ModeBuild {
			// No fetch phase: build steps must not depend on clone steps.
			desc.FetchSpec = ""
		}
		if desc.RequiresFetch() {
			if err := graph.Add(source.NewFetchStep(desc, runner, d.fs)); err != nil {
				return nil, fmt.Errorf("compile step %q: %w", desc.Name, err)
			}
		}
		if err := graph.Add(native.NewBuildStep(desc, runner, d.fs, ledger)); err != nil {
			return nil, fmt.Errorf("compile step %q: %w", desc.Name, err)
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return graph, nil
}
