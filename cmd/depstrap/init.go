package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depstrap/depstrap/internal/domain/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter pipeline file",
	Long: `Init writes a starter depstrap.yaml describing a media encoding
toolchain: fdk-aac, x265, libaom, ffmpeg, and vmaf built into a shared
prefix. Edit it to match the dependencies you actually need.`,
	RunE: runInit,
}

var initConfigPath string

func init() {
	initCmd.Flags().StringVarP(&initConfigPath, "config", "c", DefaultConfigFile, "where to write the pipeline file")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(initConfigPath); err == nil {
		fmt.Fprintf(out, "%s already exists.\n", initConfigPath)
		fmt.Fprintln(out, "Use 'depstrap plan' to review your pipeline.")
		return nil
	}

	if err := os.WriteFile(initConfigPath, []byte(config.StarterPipeline), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", initConfigPath, err)
	}

	fmt.Fprintf(out, "Pipeline file created: %s\n", initConfigPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  depstrap plan     - Review what would run")
	fmt.Fprintln(out, "  depstrap install  - Fetch and build everything")
	return nil
}
