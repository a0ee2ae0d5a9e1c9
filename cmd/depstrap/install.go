package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/depstrap/depstrap/internal/app"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Fetch, build, and install every step in the pipeline",
	Long: `Install runs the full pipeline: every step is fetched and built in
declared order into the shared install prefix.

Steps whose target artifact already exists with a matching receipt are
skipped, so install is safe to re-run. Execution halts at the first
failure; re-running resumes from the failed step.`,
	RunE: runInstall,
}

var (
	installConfigPath string
	installDryRun     bool
	installTimeout    time.Duration
)

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringVarP(&installConfigPath, "config", "c", DefaultConfigFile, "path to the pipeline file")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "show what would run without running it")
	installCmd.Flags().DurationVar(&installTimeout, "timeout", 0, "per-command timeout, overriding the pipeline file")
}

func runInstall(cmd *cobra.Command, _ []string) error {
	return runPipeline(cmd, app.ModeInstall, installConfigPath, installDryRun, installTimeout)
}

// runPipeline plans and executes one run; install and build share it.
func runPipeline(cmd *cobra.Command, mode app.Mode, configPath string, dryRun bool, timeout time.Duration) error {
	// Ctrl-C kills the in-flight build command instead of orphaning it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	depstrap := newDepstrap().WithLogger(newLogger(cmd.ErrOrStderr()))
	if timeout > 0 {
		depstrap = depstrap.WithCommandTimeout(timeout)
	}

	session, err := depstrap.Plan(ctx, configPath, mode)
	if err != nil {
		return err
	}

	printPlan(out, session.Plan())

	if !session.Plan().HasWork() {
		return nil
	}
	if dryRun {
		fmt.Fprintln(out, "\n[Dry run - no commands executed]")
		return nil
	}

	results := depstrap.Apply(ctx, session, false)
	printResults(out, results)

	for i := range results {
		if results[i].Failed() {
			return fmt.Errorf("step %s failed: %w", results[i].StepID().String(), results[i].Error())
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}
	return nil
}
