package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/depstrap/depstrap/internal/app"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a run would do without running anything",
	Long: `Plan loads the pipeline file, checks each step's target and receipt,
and prints which steps would run and which would be skipped.`,
	RunE: runPlan,
}

var (
	planConfigPath string
	planBuildMode  bool
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVarP(&planConfigPath, "config", "c", DefaultConfigFile, "path to the pipeline file")
	planCmd.Flags().BoolVar(&planBuildMode, "build", false, "plan a build-only run instead of a full install")
}

func runPlan(cmd *cobra.Command, _ []string) error {
	mode := app.ModeInstall
	if planBuildMode {
		mode = app.ModeBuild
	}

	depstrap := newDepstrap().WithLogger(newLogger(cmd.ErrOrStderr()))

	session, err := depstrap.Plan(context.Background(), planConfigPath, mode)
	if err != nil {
		return err
	}

	printPlan(cmd.OutOrStdout(), session.Plan())
	return nil
}
