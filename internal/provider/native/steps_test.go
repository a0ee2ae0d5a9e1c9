package native

import (
	"context"
	"errors"
	"testing"

	"github.com/depstrap/depstrap/internal/domain/pipeline"
	"github.com/depstrap/depstrap/internal/domain/receipt"
	"github.com/depstrap/depstrap/internal/ports"
	"github.com/depstrap/depstrap/internal/testutil/mocks"
)

func testDescriptor() pipeline.StepDescriptor {
	return pipeline.StepDescriptor{
		Name:       "ffmpeg",
		TargetPath: "/opt/deps/bin/ffmpeg",
		PinnedRef:  "n4.4.1",
		FetchSpec:  "https://git.ffmpeg.org/ffmpeg.git",
		SourcePath: "/opt/deps/src/ffmpeg",
		BuildCommands: []pipeline.Command{
			{Program: "./configure", Args: []string{"--prefix=/opt/deps"}},
			{Program: "make", Args: []string{"install"}},
		},
		DependsOn: []string{"x265"},
	}
}

func newLedger(repo receipt.Repository) *receipt.Ledger {
	return receipt.NewLedger(repo, "/opt/deps/.depstrap/receipts.yaml", "run-test")
}

func runContext() *pipeline.RunContext {
	return pipeline.NewRunContext(context.Background(), "/opt/deps", map[string]string{
		"PKG_CONFIG_PATH": "/opt/deps/lib/pkgconfig",
	})
}

func TestBuildStep_ID(t *testing.T) {
	step := NewBuildStep(testDescriptor(), nil, nil, nil)
	if got := step.ID().String(); got != "native:build:ffmpeg" {
		t.Errorf("ID() = %q, want %q", got, "native:build:ffmpeg")
	}
}

func TestBuildStep_DependsOn(t *testing.T) {
	step := NewBuildStep(testDescriptor(), nil, nil, nil)

	deps := step.DependsOn()
	want := []string{"source:clone:ffmpeg", "native:build:x265"}
	if len(deps) != len(want) {
		t.Fatalf("DependsOn() len = %d, want %d", len(deps), len(want))
	}
	for i, w := range want {
		if deps[i].String() != w {
			t.Errorf("DependsOn()[%d] = %q, want %q", i, deps[i].String(), w)
		}
	}
}

func TestBuildStep_DependsOn_NoFetch(t *testing.T) {
	desc := testDescriptor()
	desc.FetchSpec = ""

	deps := NewBuildStep(desc, nil, nil, nil).DependsOn()
	if len(deps) != 1 || deps[0].String() != "native:build:x265" {
		t.Errorf("DependsOn() = %v, want only the x265 build step", deps)
	}
}

func TestBuildStep_Check_TargetAbsent(t *testing.T) {
	step := NewBuildStep(testDescriptor(), nil, mocks.NewFileSystem(), newLedger(mocks.NewReceiptRepository()))

	satisfied, err := step.Check(runContext())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if satisfied {
		t.Error("Check() must not be satisfied without the target")
	}
}

func TestBuildStep_Check_TargetWithoutReceipt(t *testing.T) {
	// A target left behind by an interrupted build has no receipt and must
	// be rebuilt, not skipped.
	fs := mocks.NewFileSystem()
	fs.AddFile("/opt/deps/bin/ffmpeg", "elf")

	step := NewBuildStep(testDescriptor(), nil, fs, newLedger(mocks.NewReceiptRepository()))
	satisfied, err := step.Check(runContext())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if satisfied {
		t.Error("Check() must not be satisfied without a receipt")
	}
}

func TestBuildStep_Check_StaleReceipt(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("/opt/deps/bin/ffmpeg", "elf")
	repo := mocks.NewReceiptRepository()
	repo.Seed(receipt.Receipt{StepName: "ffmpeg", PinnedRef: "n4.3"})

	step := NewBuildStep(testDescriptor(), nil, fs, newLedger(repo))
	satisfied, err := step.Check(runContext())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if satisfied {
		t.Error("Check() must not be satisfied with a receipt at another ref")
	}
}

func TestBuildStep_Check_Satisfied(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("/opt/deps/bin/ffmpeg", "elf")
	repo := mocks.NewReceiptRepository()
	repo.Seed(receipt.Receipt{StepName: "ffmpeg", PinnedRef: "n4.4.1"})

	step := NewBuildStep(testDescriptor(), nil, fs, newLedger(repo))
	satisfied, err := step.Check(runContext())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !satisfied {
		t.Error("Check() should be satisfied with target and matching receipt")
	}
}

func TestBuildStep_Apply_RunsCommandsInOrder(t *testing.T) {
	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddResult("./configure", []string{"--prefix=/opt/deps"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("make", []string{"install"}, ports.CommandResult{ExitCode: 0})
	runner.AddHook("make", []string{"install"}, func(_ ports.Invocation) {
		fs.AddFile("/opt/deps/bin/ffmpeg", "elf")
	})
	repo := mocks.NewReceiptRepository()

	step := NewBuildStep(testDescriptor(), runner, fs, newLedger(repo))
	if err := step.Apply(runContext()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	calls := runner.Calls()
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}
	if calls[0].Command != "./configure" || calls[1].Command != "make" {
		t.Errorf("commands ran out of order: %v", calls)
	}
	for _, call := range calls {
		if call.Dir != "/opt/deps/src/ffmpeg" {
			t.Errorf("Dir = %q, want source directory", call.Dir)
		}
		if call.Env["PKG_CONFIG_PATH"] != "/opt/deps/lib/pkgconfig" {
			t.Error("accumulated environment should reach every command")
		}
	}

	rec, ok := repo.Get("ffmpeg")
	if !ok {
		t.Fatal("receipt should be recorded after success")
	}
	if rec.PinnedRef != "n4.4.1" {
		t.Errorf("receipt ref = %q, want %q", rec.PinnedRef, "n4.4.1")
	}
}

func TestBuildStep_Apply_FetchlessStepRunsInTargetParent(t *testing.T) {
	// A fetch-less step may target a plain file; its commands must run in
	// the target's parent directory, never in the file path itself.
	desc := pipeline.StepDescriptor{
		Name:       "liba",
		TargetPath: "/opt/deps/lib/liba.a",
		BuildCommands: []pipeline.Command{
			{Program: "make", Args: []string{"liba"}},
		},
	}

	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddResult("make", []string{"liba"}, ports.CommandResult{ExitCode: 0})
	runner.AddHook("make", []string{"liba"}, func(_ ports.Invocation) {
		fs.AddFile("/opt/deps/lib/liba.a", "ar")
	})

	step := NewBuildStep(desc, runner, fs, newLedger(mocks.NewReceiptRepository()))
	if err := step.Apply(runContext()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	calls := runner.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if calls[0].Dir != "/opt/deps/lib" {
		t.Errorf("Dir = %q, want the target's parent directory", calls[0].Dir)
	}
}

func TestBuildStep_Apply_CommandFails(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("./configure", []string{"--prefix=/opt/deps"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "ERROR: x265 not found using pkg-config",
	})
	repo := mocks.NewReceiptRepository()

	step := NewBuildStep(testDescriptor(), runner, mocks.NewFileSystem(), newLedger(repo))
	err := step.Apply(runContext())
	if !errors.Is(err, pipeline.ErrBuildFailed) {
		t.Fatalf("Apply() error = %v, want ErrBuildFailed", err)
	}

	if runner.CallCount() != 1 {
		t.Error("remaining commands must not run after a failure")
	}
	if _, ok := repo.Get("ffmpeg"); ok {
		t.Error("no receipt may be recorded for a failed build")
	}
}

func TestBuildStep_Apply_PostconditionFailure(t *testing.T) {
	// Every command succeeds but the target never appears.
	runner := mocks.NewCommandRunner()
	runner.AddResult("./configure", []string{"--prefix=/opt/deps"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("make", []string{"install"}, ports.CommandResult{ExitCode: 0})
	repo := mocks.NewReceiptRepository()

	step := NewBuildStep(testDescriptor(), runner, mocks.NewFileSystem(), newLedger(repo))
	err := step.Apply(runContext())
	if !errors.Is(err, pipeline.ErrPostcondition) {
		t.Fatalf("Apply() error = %v, want ErrPostcondition", err)
	}
	if _, ok := repo.Get("ffmpeg"); ok {
		t.Error("no receipt may be recorded when the target is missing")
	}
}

func TestBuildStep_Apply_PublishesExports(t *testing.T) {
	desc := testDescriptor()
	desc.Exports = map[string]string{"FFMPEG_BIN": "/opt/deps/bin/ffmpeg"}

	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddResult("./configure", []string{"--prefix=/opt/deps"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("make", []string{"install"}, ports.CommandResult{ExitCode: 0})
	runner.AddHook("make", []string{"install"}, func(_ ports.Invocation) {
		fs.AddFile("/opt/deps/bin/ffmpeg", "elf")
	})

	ctx := runContext()
	step := NewBuildStep(desc, runner, fs, newLedger(mocks.NewReceiptRepository()))
	if err := step.Apply(ctx); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if got := ctx.Environ()["FFMPEG_BIN"]; got != "/opt/deps/bin/ffmpeg" {
		t.Errorf("export not published, got %q", got)
	}
}
