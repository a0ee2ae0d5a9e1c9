package execution

import (
	"fmt"

	"github.com/depstrap/depstrap/internal/domain/pipeline"
)

// Planner generates a Plan from a StepGraph: it sorts steps into dependency
// order and probes each one's completion marker.
type Planner struct {
	force bool
}

// NewPlanner creates a new Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// WithForce returns a Planner that marks every step pending without checking
// completion markers. Used by build mode, which rebuilds regardless of what
// is already on disk.
func (p *Planner) WithForce(force bool) *Planner {
	return &Planner{force: force}
}

// Plan checks every step in topological order and records whether it needs
// to run. The sort preserves the declared relative order of the steps.
func (p *Planner) Plan(ctx *pipeline.RunContext, graph *pipeline.StepGraph) (*Plan, error) {
	steps, err := graph.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("failed to sort steps: %w", err)
	}

	plan := NewPlan()
	for _, step := range steps {
		if p.force {
			plan.Add(NewPlanEntry(step, pipeline.StatusPending))
			continue
		}

		satisfied, err := step.Check(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to check step %q: %w", step.ID().String(), err)
		}

		status := pipeline.StatusPending
		if satisfied {
			status = pipeline.StatusSkipped
		}
		plan.Add(NewPlanEntry(step, status))
	}

	return plan, nil
}
