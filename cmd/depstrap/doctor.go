package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/depstrap/depstrap/internal/adapters/command"
	"github.com/depstrap/depstrap/internal/ports"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the host has the build tools the pipeline needs",
	Long: `Doctor probes for the tools native builds typically call: git, make,
cmake, meson, ninja, nasm, and pkg-config. Missing tools are reported
with an install hint.`,
	RunE: runDoctor,
}

// hostTools are probed by doctor. Version output is discarded; only exit
// status matters.
var hostTools = []string{"git", "make", "cmake", "meson", "ninja", "nasm", "pkg-config"}

// newDoctorRunner builds the runner doctor probes with. Tests override it.
var newDoctorRunner = func() ports.CommandRunner {
	return command.NewRealRunner().WithTimeout(10 * time.Second)
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	runner := newDoctorRunner()
	ctx := context.Background()

	fmt.Fprintf(out, "\n%s\n\n", styleTitle.Render("Doctor"))

	missing := 0
	for _, tool := range hostTools {
		result, err := runner.Run(ctx, ports.Invocation{Command: tool, Args: []string{"--version"}})
		if err != nil || !result.Success() {
			missing++
			fmt.Fprintf(out, "  %s %s not found\n", styleFail.Render("✗"), tool)
			continue
		}
		fmt.Fprintf(out, "  %s %s\n", styleOK.Render("✓"), tool)
	}

	if missing > 0 {
		fmt.Fprintf(out, "\n%d tool(s) missing. Install them with your system package manager.\n", missing)
		return fmt.Errorf("%d required build tools are missing", missing)
	}

	fmt.Fprintln(out, "\nAll build tools found.")
	return nil
}
