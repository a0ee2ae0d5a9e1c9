package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/depstrap/depstrap/internal/adapters/logging"
	"github.com/depstrap/depstrap/internal/app"
	"github.com/depstrap/depstrap/internal/domain/config"
	"github.com/depstrap/depstrap/internal/ports"
)

// DefaultConfigFile is where depstrap looks for the pipeline when --config is
// not given.
const DefaultConfigFile = "depstrap.yaml"

var (
	// Global flags
	verbose bool
	jsonLog bool
)

var rootCmd = &cobra.Command{
	Use:   "depstrap",
	Short: "A sequential build-step orchestrator for native dependencies",
	Long: `Depstrap fetches, builds, and installs a chain of native dependencies
into a shared install prefix.

Each step declares its target artifact; steps whose target already exists
and carries a matching receipt are skipped, so re-running after a failure
resumes where the previous run stopped.`,
	SilenceErrors: true, // We format errors ourselves
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_ = cmd.Help()
		return errors.New("a command is required")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "emit log lines as JSON")

	// A bad flag still shows usage, matching the legacy script behavior.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n\n", err)
		_ = cmd.Usage()
		return err
	})

	rootCmd.AddCommand(versionCmd)
}

// newDepstrap builds the application facade. Tests override this to inject
// mock adapters.
var newDepstrap = func() *app.Depstrap {
	return app.New()
}

// newLogger builds the CLI logger from the global flags.
func newLogger(w io.Writer) ports.Logger {
	level := ports.LevelInfo
	if verbose {
		level = ports.LevelDebug
	}
	return logging.NewConsoleLogger(
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithJSON(jsonLog),
	)
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
