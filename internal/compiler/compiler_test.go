package compiler_test

import (
	"testing"

	"github.com/aretw0/pagewizard/internal/compiler"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Kinds(t *testing.T) {
	defs := []domain.StepDefinition{
		{ID: "hello", Type: domain.StepMessage, Content: "hi", Next: "name"},
		{ID: "name", Type: domain.StepQuestion, InputType: domain.InputText, Field: "genre", Next: "pick"},
		{ID: "pick", Type: domain.StepQuestion, InputType: domain.InputButtons, Field: "tone", Next: "work",
			Options: []domain.Option{{Value: "casual", Label: "Casual"}}},
		{ID: "work", Type: domain.StepLoading, Action: "analyzeProduct", Next: "card"},
		{ID: "card", Type: domain.StepProductDisplay, Next: "done"},
		{ID: "done", Type: domain.StepPreview},
	}

	g, err := compiler.Compile(defs)
	require.NoError(t, err)
	assert.Equal(t, 6, g.Len())

	step, err := g.Lookup("name")
	require.NoError(t, err)
	q, ok := step.Kind.(domain.Question)
	require.True(t, ok)
	assert.Equal(t, "genre", q.Field)
	assert.IsType(t, domain.TextInput{}, q.Input)

	step, _ = g.Lookup("work")
	assert.Equal(t, domain.Loading{Action: "analyzeProduct"}, step.Kind)
	assert.Equal(t, domain.StepLoading, step.Type())

	step, _ = g.Lookup("pick")
	choices, ok := step.Choices()
	require.True(t, ok)
	assert.Len(t, choices.Options, 1)
}

func TestCompile_MessageWithButtons(t *testing.T) {
	g, err := compiler.Compile([]domain.StepDefinition{
		{ID: "ask", Type: domain.StepMessage, InputType: domain.InputButtons, Next: "end",
			Options: []domain.Option{{Value: "save", Label: "Save", Action: "savePersona"}, {Value: "skip", Label: "Skip"}}},
		{ID: "end", Type: domain.StepPreview},
	})
	require.NoError(t, err)

	step, _ := g.Lookup("ask")
	msg, ok := step.Kind.(domain.Message)
	require.True(t, ok)
	require.NotNil(t, msg.Choices)
	assert.Equal(t, "savePersona", msg.Choices.Options[0].Action)
}

func TestCompile_RejectsIllegalCombinations(t *testing.T) {
	tests := []struct {
		name string
		def  domain.StepDefinition
		want string
	}{
		{"unknown type", domain.StepDefinition{ID: "a", Type: "popup"}, `unknown type "popup"`},
		{"missing type", domain.StepDefinition{ID: "a"}, "missing type"},
		{"buttons without options", domain.StepDefinition{ID: "a", Type: domain.StepQuestion, InputType: domain.InputButtons, Next: "b"}, "at least one option"},
		{"loading without action", domain.StepDefinition{ID: "a", Type: domain.StepLoading, Next: "b"}, "require an action"},
		{"text without field", domain.StepDefinition{ID: "a", Type: domain.StepQuestion, InputType: domain.InputText, Next: "b"}, "require a field"},
		{"question without input", domain.StepDefinition{ID: "a", Type: domain.StepQuestion, Next: "b"}, "require an inputType"},
		{"message with url input", domain.StepDefinition{ID: "a", Type: domain.StepMessage, InputType: domain.InputURL}, "only accept inputType buttons"},
		{"preview with action", domain.StepDefinition{ID: "a", Type: domain.StepPreview, Action: "x"}, "take no input or action"},
		{"options on text", domain.StepDefinition{ID: "a", Type: domain.StepQuestion, InputType: domain.InputText, Field: "f", Next: "b",
			Options: []domain.Option{{Value: 1, Label: "one"}}}, "options require inputType buttons"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.Compile([]domain.StepDefinition{tt.def})
			require.Error(t, err)
			var gerr *domain.GraphError
			require.ErrorAs(t, err, &gerr)
			assert.Contains(t, gerr.Error(), tt.want)
		})
	}
}

func TestCompile_AggregatesProblems(t *testing.T) {
	_, err := compiler.Compile([]domain.StepDefinition{
		{ID: "a", Type: "bogus"},
		{ID: "b", Type: domain.StepLoading, Next: "a"},
	})
	var gerr *domain.GraphError
	require.ErrorAs(t, err, &gerr)
	assert.Len(t, gerr.Problems, 2)
}

func TestCompile_DuplicateIDs(t *testing.T) {
	_, err := compiler.Compile([]domain.StepDefinition{
		{ID: "a", Type: domain.StepPreview},
		{ID: "a", Type: domain.StepPreview},
	})
	var gerr *domain.GraphError
	require.ErrorAs(t, err, &gerr)
	assert.Contains(t, err.Error(), "duplicate")
}
