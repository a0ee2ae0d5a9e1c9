package execution

import (
	"github.com/depstrap/depstrap/internal/domain/pipeline"
)

// PlanEntry represents a single step's planned execution: the step itself
// and whether it needs to run or can be skipped.
type PlanEntry struct {
	step   pipeline.Step
	status pipeline.StepStatus
}

// NewPlanEntry creates a new PlanEntry. Status is StatusPending for steps
// that need work or StatusSkipped for steps whose target already exists.
func NewPlanEntry(step pipeline.Step, status pipeline.StepStatus) PlanEntry {
	return PlanEntry{
		step:   step,
		status: status,
	}
}

// Step returns the step to be executed.
func (e PlanEntry) Step() pipeline.Step {
	return e.step
}

// Status returns the planned status of the step.
func (e PlanEntry) Status() pipeline.StepStatus {
	return e.status
}

// PlanSummary provides aggregate statistics about the plan.
type PlanSummary struct {
	Total   int
	Pending int
	Skipped int
}

// Plan is the ordered list of entries one run will process.
type Plan struct {
	entries []PlanEntry
}

// NewPlan creates an empty Plan.
func NewPlan() *Plan {
	return &Plan{
		entries: make([]PlanEntry, 0),
	}
}

// Add appends an entry.
func (p *Plan) Add(entry PlanEntry) {
	p.entries = append(p.entries, entry)
}

// Len returns the number of entries.
func (p *Plan) Len() int {
	return len(p.entries)
}

// IsEmpty returns true if there are no entries.
func (p *Plan) IsEmpty() bool {
	return len(p.entries) == 0
}

// Entries returns all entries in execution order.
func (p *Plan) Entries() []PlanEntry {
	return p.entries
}

// HasWork returns true if any step needs to be built.
func (p *Plan) HasWork() bool {
	for _, e := range p.entries {
		if e.status == pipeline.StatusPending {
			return true
		}
	}
	return false
}

// Summary returns aggregate statistics.
func (p *Plan) Summary() PlanSummary {
	summary := PlanSummary{Total: len(p.entries)}
	for _, e := range p.entries {
		switch e.status {
		case pipeline.StatusPending:
			summary.Pending++
		case pipeline.StatusSkipped:
			summary.Skipped++
		}
	}
	return summary
}
