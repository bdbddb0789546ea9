package domain

import "fmt"

// Graph is the immutable, compiled step table.
// Build it with NewGraph; it is safe for concurrent reads.
type Graph struct {
	steps map[string]*Step
	order []string
}

// NewGraph indexes the given steps, preserving authoring order.
// It only rejects duplicate or empty ids; closure is checked by the validator.
func NewGraph(steps ...*Step) (*Graph, error) {
	g := &Graph{
		steps: make(map[string]*Step, len(steps)),
		order: make([]string, 0, len(steps)),
	}
	for _, s := range steps {
		if s == nil || s.ID == "" {
			return nil, fmt.Errorf("step missing ID")
		}
		if _, dup := g.steps[s.ID]; dup {
			return nil, fmt.Errorf("duplicate step id %q", s.ID)
		}
		g.steps[s.ID] = s
		g.order = append(g.order, s.ID)
	}
	return g, nil
}

// Lookup retrieves a step by id.
// It returns *UnknownStepError when the id is not part of the graph.
func (g *Graph) Lookup(id string) (*Step, error) {
	s, ok := g.steps[id]
	if !ok {
		return nil, &UnknownStepError{StepID: id}
	}
	return s, nil
}

// Has reports whether id names a step.
func (g *Graph) Has(id string) bool {
	_, ok := g.steps[id]
	return ok
}

// Steps returns the steps in authoring order.
func (g *Graph) Steps() []*Step {
	out := make([]*Step, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.steps[id])
	}
	return out
}

// IDs returns the step ids in authoring order.
func (g *Graph) IDs() []string {
	return append([]string(nil), g.order...)
}

// Len returns the number of steps.
func (g *Graph) Len() int {
	return len(g.order)
}
