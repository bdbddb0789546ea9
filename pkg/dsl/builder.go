package dsl

import (
	"fmt"

	"github.com/aretw0/pagewizard/internal/compiler"
	"github.com/aretw0/pagewizard/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	steps []*StepBuilder
	index map[string]*StepBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		index: make(map[string]*StepBuilder),
	}
}

// Add creates a new step in the graph.
// If the step already exists, it returns the existing builder.
func (b *Builder) Add(id string) *StepBuilder {
	if sb, ok := b.index[id]; ok {
		return sb
	}
	sb := &StepBuilder{
		def: domain.StepDefinition{ID: id},
	}
	b.index[id] = sb
	b.steps = append(b.steps, sb)
	return sb
}

// Definitions returns the raw definitions in insertion order.
func (b *Builder) Definitions() []domain.StepDefinition {
	defs := make([]domain.StepDefinition, 0, len(b.steps))
	for _, sb := range b.steps {
		defs = append(defs, sb.Definition())
	}
	return defs
}

// Build compiles the steps into an immutable graph.
// Closure is not checked here; run the validator for that.
func (b *Builder) Build() (*domain.Graph, error) {
	g, err := compiler.Compile(b.Definitions())
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	return g, nil
}

// MustBuild is like Build but panics on error. Intended for tests and static flows.
func (b *Builder) MustBuild() *domain.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
