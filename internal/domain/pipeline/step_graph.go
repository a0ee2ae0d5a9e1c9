package pipeline

import (
	"fmt"
)

// StepGraph is a directed acyclic graph of steps. It records insertion order
// and provides a stable topological sort: among steps whose dependencies are
// satisfied, the one added first runs first, so the declared list order is
// never reshuffled.
type StepGraph struct {
	order     []string
	steps     map[string]Step
	dependsOn map[string][]string
}

// NewStepGraph creates an empty StepGraph.
func NewStepGraph() *StepGraph {
	return &StepGraph{
		steps:     make(map[string]Step),
		dependsOn: make(map[string][]string),
	}
}

// Len returns the number of steps in the graph.
func (g *StepGraph) Len() int {
	return len(g.steps)
}

// Add adds a step to the graph.
// Returns ErrDuplicateStep if a step with the same ID already exists.
func (g *StepGraph) Add(step Step) error {
	id := step.ID().String()

	if _, exists := g.steps[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateStep, id)
	}

	g.order = append(g.order, id)
	g.steps[id] = step

	deps := step.DependsOn()
	depIDs := make([]string, len(deps))
	for i, dep := range deps {
		depIDs[i] = dep.String()
	}
	g.dependsOn[id] = depIDs

	return nil
}

// Get retrieves a step by ID.
func (g *StepGraph) Get(id StepID) (Step, bool) {
	step, ok := g.steps[id.String()]
	return step, ok
}

// Steps returns all steps in insertion order.
func (g *StepGraph) Steps() []Step {
	steps := make([]Step, 0, len(g.order))
	for _, id := range g.order {
		steps = append(steps, g.steps[id])
	}
	return steps
}

// Validate checks that every dependency exists in the graph.
func (g *StepGraph) Validate() error {
	for _, id := range g.order {
		for _, depID := range g.dependsOn[id] {
			if _, exists := g.steps[depID]; !exists {
				return fmt.Errorf("%w: step %q depends on %q", ErrMissingDep, id, depID)
			}
		}
	}
	return nil
}

// TopologicalSort returns steps in dependency order. The sort is stable with
// respect to insertion order: a step is emitted as soon as its dependencies
// are satisfied, and earlier-added ready steps are emitted before later ones.
// Returns ErrCyclicDependency if the graph contains a cycle.
func (g *StepGraph) TopologicalSort() ([]Step, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	inDegree := make(map[string]int, len(g.order))
	for _, id := range g.order {
		inDegree[id] = len(g.dependsOn[id])
	}

	emitted := make(map[string]bool, len(g.order))
	sorted := make([]Step, 0, len(g.order))

	// Repeatedly scan the insertion order for the first un-emitted step whose
	// dependencies are all satisfied. Quadratic, but the graphs here are a
	// handful of build steps.
	for len(sorted) < len(g.order) {
		progressed := false
		for _, id := range g.order {
			if emitted[id] || inDegree[id] != 0 {
				continue
			}
			emitted[id] = true
			sorted = append(sorted, g.steps[id])
			for _, other := range g.order {
				if emitted[other] {
					continue
				}
				for _, depID := range g.dependsOn[other] {
					if depID == id {
						inDegree[other]--
					}
				}
			}
			progressed = true
		}
		if !progressed {
			return nil, ErrCyclicDependency
		}
	}

	return sorted, nil
}
