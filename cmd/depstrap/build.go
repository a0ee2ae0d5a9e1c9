package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/depstrap/depstrap/internal/app"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild every step from already-fetched sources",
	Long: `Build runs only the build steps, never the fetches, and rebuilds each
step regardless of what is already installed.

Use it after editing sources under the checkout directories: the fetch
phase would not refresh them, and the receipt check would skip them.`,
	RunE: runBuild,
}

var (
	buildConfigPath string
	buildDryRun     bool
	buildTimeout    time.Duration
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildConfigPath, "config", "c", DefaultConfigFile, "path to the pipeline file")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "show what would run without running it")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 0, "per-command timeout, overriding the pipeline file")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	return runPipeline(cmd, app.ModeBuild, buildConfigPath, buildDryRun, buildTimeout)
}
