package dsl_test

import (
	"testing"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := dsl.New()

	b.Add("start").
		Message("Hello, DSL!").
		Go("ask_genre")

	b.Add("ask_genre").
		Question("What do you sell?").
		Input(domain.InputText).
		SaveTo(domain.FieldGenre).
		Hint("e.g. toys").
		Go("tone")

	b.Add("tone").
		Question("Tone?").
		SaveTo(domain.FieldTone).
		Option("casual", "Casual").Desc("Friendly").
		Option("polite", "Polite").
		Go("end")

	b.Add("end").
		Preview("Goodbye!")

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "ask_genre", "tone", "end"}, g.IDs())

	start, err := g.Lookup("start")
	require.NoError(t, err)
	assert.Equal(t, domain.StepMessage, start.Type())
	assert.Equal(t, "Hello, DSL!", start.Content)
	assert.Equal(t, "ask_genre", start.Next)

	genre, _ := g.Lookup("ask_genre")
	q := genre.Kind.(domain.Question)
	assert.Equal(t, domain.FieldGenre, q.Field)
	assert.Equal(t, "e.g. toys", genre.Hint)

	tone, _ := g.Lookup("tone")
	choices, ok := tone.Choices()
	require.True(t, ok)
	require.Len(t, choices.Options, 2)
	assert.Equal(t, "Friendly", choices.Options[0].Desc)
}

func TestBuilder_OptionOverrides(t *testing.T) {
	b := dsl.New()
	b.Add("ask").
		Message("Save?").
		Option("save", "Save").Does("savePersona").To("saved").
		Option("skip", "Skip").
		Go("next")
	b.Add("saved").Preview("saved")
	b.Add("next").Preview("next")

	g := b.MustBuild()
	ask, _ := g.Lookup("ask")

	assert.Equal(t, []string{"next", "saved"}, ask.Successors())

	choices, _ := ask.Choices()
	assert.Equal(t, "saved", ask.NextFor(choices.Options[0]))
	assert.Equal(t, "next", ask.NextFor(choices.Options[1]))
	assert.Equal(t, "savePersona", choices.Options[0].Action)
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := dsl.New()
	b.Add("a").Message("first")
	b.Add("a").Go("b")
	b.Add("b").Preview("end")

	g := b.MustBuild()
	a, _ := g.Lookup("a")
	assert.Equal(t, "first", a.Content)
	assert.Equal(t, "b", a.Next)
}

func TestBuilder_InvalidStep(t *testing.T) {
	b := dsl.New()
	b.Add("broken").Loading("busy", "")

	_, err := b.Build()
	require.Error(t, err)
	var gerr *domain.GraphError
	assert.ErrorAs(t, err, &gerr)

	assert.Panics(t, func() { b.MustBuild() })
}
