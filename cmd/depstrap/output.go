package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/depstrap/depstrap/internal/domain/execution"
	"github.com/depstrap/depstrap/internal/domain/pipeline"
)

// Output styles.
var (
	styleTitle = lipgloss.NewStyle().Bold(true)
	styleOK    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"})
	styleFail  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"})
	styleMuted = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"})
)

// printPlan outputs a human-readable plan summary.
func printPlan(w io.Writer, plan *execution.Plan) {
	summary := plan.Summary()

	fmt.Fprintf(w, "\n%s\n\n", styleTitle.Render("Depstrap Plan"))

	if !plan.HasWork() {
		fmt.Fprintf(w, "Nothing to do. Every step's target is already present.\n")
		return
	}

	fmt.Fprintf(w, "Steps: %d total, %d to run, %d already satisfied\n\n",
		summary.Total, summary.Pending, summary.Skipped)

	for _, entry := range plan.Entries() {
		marker := styleOK.Render("✓")
		if entry.Status() == pipeline.StatusPending {
			marker = "+"
		}
		fmt.Fprintf(w, "  %s %s\n", marker, entry.Step().ID().String())
	}
}

// printResults outputs execution results.
func printResults(w io.Writer, results []execution.StepResult) {
	fmt.Fprintf(w, "\n%s\n\n", styleTitle.Render("Results"))

	var completed, failed, skipped int
	for i := range results {
		r := results[i]
		switch {
		case r.Failed():
			failed++
			fmt.Fprintf(w, "  %s %s: %v\n", styleFail.Render("✗"), r.StepID().String(), r.Error())
		case r.Skipped():
			skipped++
			fmt.Fprintf(w, "  %s %s\n", styleMuted.Render("- (skipped)"), r.StepID().String())
		case r.Status() == pipeline.StatusPending:
			fmt.Fprintf(w, "  + %s (not run)\n", r.StepID().String())
		default:
			completed++
			fmt.Fprintf(w, "  %s %s (%s)\n",
				styleOK.Render("✓"), r.StepID().String(), r.Duration().Round(time.Millisecond))
		}
	}

	fmt.Fprintf(w, "\nSummary: %d completed, %d failed, %d skipped\n", completed, failed, skipped)
}
