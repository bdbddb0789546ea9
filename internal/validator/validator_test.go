package validator_test

import (
	"testing"

	"github.com/aretw0/pagewizard/internal/validator"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/dsl"
	"github.com/aretw0/pagewizard/pkg/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGraph_DefaultFlow(t *testing.T) {
	f, err := flow.Default()
	require.NoError(t, err)

	err = validator.ValidateGraph(f.Graph, f.Entry,
		validator.WithActions("analyzeProduct", "generateContent", "savePersona"))
	assert.NoError(t, err)

	// Every step of the sample flow is reachable from welcome.
	assert.Empty(t, validator.Unreachable(f.Graph, f.Entry))
	assert.Len(t, validator.Reachable(f.Graph, "welcome"), 13)
}

func TestValidateGraph_BrokenLink(t *testing.T) {
	b := dsl.New()
	b.Add("start").Message("hi").Go("ghost")

	err := validator.ValidateGraph(b.MustBuild(), "start")
	var gerr *domain.GraphError
	require.ErrorAs(t, err, &gerr)
	assert.Contains(t, err.Error(), "'ghost'")
}

func TestValidateGraph_OptionOverrideMustResolve(t *testing.T) {
	b := dsl.New()
	b.Add("ask").Message("which way?").
		Option("left", "Left").To("left").
		Option("right", "Right").To("nowhere").
		Go("left")
	b.Add("left").Preview("done")

	err := validator.ValidateGraph(b.MustBuild(), "ask")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'nowhere'")
}

func TestValidateGraph_MissingEntry(t *testing.T) {
	b := dsl.New()
	b.Add("a").Preview("end")

	err := validator.ValidateGraph(b.MustBuild(), "welcome")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry step 'welcome' not found")
}

func TestValidateGraph_NoTerminal(t *testing.T) {
	b := dsl.New()
	b.Add("a").Message("ping").Go("b")
	b.Add("b").Message("pong").Go("a")

	err := validator.ValidateGraph(b.MustBuild(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no terminal step")
}

func TestValidateGraph_UnknownAction(t *testing.T) {
	b := dsl.New()
	b.Add("work").Loading("busy", "mineBitcoin").Go("end")
	b.Add("end").Preview("done")

	err := validator.ValidateGraph(b.MustBuild(), "work", validator.WithActions("analyzeProduct"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action 'mineBitcoin'")
}

func TestUnreachable(t *testing.T) {
	b := dsl.New()
	b.Add("a").Message("hi").Go("b")
	b.Add("b").Preview("end")
	b.Add("orphan").Preview("lost")

	assert.Equal(t, []string{"orphan"}, validator.Unreachable(b.MustBuild(), "a"))
}
