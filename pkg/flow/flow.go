// Package flow loads step graphs from YAML (or JSON) documents.
//
// Loading runs three gates in order: the JSON Schema shape check, compilation
// into sealed step kinds, and the closure/reachability validator. A flow that
// comes out of this package is safe to hand to the interpreter.
package flow

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/aretw0/pagewizard/internal/compiler"
	"github.com/aretw0/pagewizard/internal/validator"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFlow []byte

// Document is the authored shape of a flow file.
type Document struct {
	Entry string                  `yaml:"entry,omitempty"`
	Steps []domain.StepDefinition `yaml:"steps"`
}

// Flow is a validated, compiled step graph plus its entry point.
type Flow struct {
	Entry string
	Graph *domain.Graph
	// Definitions keeps the authored steps for export tools.
	Definitions []domain.StepDefinition
}

// Default returns the built-in content page wizard flow.
func Default() (*Flow, error) {
	return Parse(defaultFlow)
}

// DefaultSource returns the raw YAML of the built-in flow.
func DefaultSource() []byte {
	return append([]byte(nil), defaultFlow...)
}

// LoadFile reads and parses a flow file from fs.
func LoadFile(fs afero.Fs, path string) (*Flow, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Load parses a flow document from r.
func Load(r io.Reader) (*Flow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow: %w", err)
	}
	return Parse(data)
}

// Parse decodes, schema-checks, compiles and validates a flow document.
func Parse(data []byte) (*Flow, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse flow: %w", err)
	}
	if err := ValidateDocument(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode flow: %w", err)
	}

	g, err := compiler.Compile(doc.Steps)
	if err != nil {
		return nil, err
	}

	entry := doc.Entry
	if entry == "" {
		entry = doc.Steps[0].ID
	}

	if err := validator.ValidateGraph(g, entry); err != nil {
		return nil, err
	}

	return &Flow{
		Entry:       entry,
		Graph:       g,
		Definitions: doc.Steps,
	}, nil
}

// FromGraph wraps an already compiled graph (e.g. from the dsl package) after validating it.
func FromGraph(g *domain.Graph, entry string) (*Flow, error) {
	if err := validator.ValidateGraph(g, entry); err != nil {
		return nil, err
	}
	return &Flow{Entry: entry, Graph: g}, nil
}
