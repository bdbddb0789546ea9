package validator

import (
	"fmt"
	"slices"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// Option configures graph validation.
type Option func(*config)

type config struct {
	actions []string
}

// WithActions declares the action names the runtime can execute.
// Steps or options referring to any other action are reported.
func WithActions(names ...string) Option {
	return func(c *config) {
		c.actions = append(c.actions, names...)
	}
}

// ValidateGraph checks closure and reachability of a compiled graph starting from entry.
// All problems are reported together as a *domain.GraphError.
func ValidateGraph(g *domain.Graph, entry string, opts ...Option) error {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	var problems []string

	if !g.Has(entry) {
		problems = append(problems, fmt.Sprintf("entry step '%s' not found", entry))
	}

	// Closure over every authored edge, reachable or not.
	for _, step := range g.Steps() {
		for _, target := range step.Successors() {
			if !g.Has(target) {
				problems = append(problems, fmt.Sprintf("step '%s' points to missing step '%s'", step.ID, target))
			}
		}
		if cfg.actions != nil {
			for _, name := range actionsOf(step) {
				if !slices.Contains(cfg.actions, name) {
					problems = append(problems, fmt.Sprintf("step '%s' uses unknown action '%s'", step.ID, name))
				}
			}
		}
	}

	if g.Has(entry) {
		terminal := false
		for id := range Reachable(g, entry) {
			step, _ := g.Lookup(id)
			if len(step.Successors()) == 0 {
				terminal = true
				break
			}
		}
		if !terminal {
			problems = append(problems, fmt.Sprintf("no terminal step reachable from '%s'", entry))
		}
	}

	if len(problems) > 0 {
		return &domain.GraphError{Problems: problems}
	}
	return nil
}

// Reachable returns the set of step ids reachable from entry through next and option edges.
// Missing targets are skipped.
func Reachable(g *domain.Graph, entry string) map[string]bool {
	visited := make(map[string]bool)
	queue := []string{entry}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		step, err := g.Lookup(currentID)
		if err != nil {
			continue
		}
		visited[currentID] = true

		for _, target := range step.Successors() {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}
	return visited
}

// Unreachable lists steps, in authoring order, that cannot be reached from entry.
func Unreachable(g *domain.Graph, entry string) []string {
	seen := Reachable(g, entry)
	var out []string
	for _, id := range g.IDs() {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

func actionsOf(step *domain.Step) []string {
	var out []string
	if l, ok := step.Kind.(domain.Loading); ok {
		out = append(out, l.Action)
	}
	if choices, ok := step.Choices(); ok {
		for _, opt := range choices.Options {
			if opt.Action != "" {
				out = append(out, opt.Action)
			}
		}
	}
	return out
}
