package pagewizard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/pagewizard"
	"github.com/aretw0/pagewizard/internal/testutils"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/dsl"
	"github.com/aretw0/pagewizard/pkg/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedCredits int

func (c cachedCredits) CachedCredits(context.Context) (int, bool) { return int(c), true }

func fastConfig() pagewizard.Config {
	cfg := pagewizard.DefaultConfig()
	cfg.MessageDelay, cfg.TypingDelay, cfg.ProductDelay = 0, 0, 0
	return cfg
}

func TestNew_RequiresBackend(t *testing.T) {
	_, err := pagewizard.New()
	assert.ErrorContains(t, err, "backend is required")
}

func TestEngine_StartShowsCachedThenFreshCredits(t *testing.T) {
	presenter := &testutils.RecordingPresenter{}
	backend := &testutils.FakeBackend{
		CreditsFunc: func(context.Context) (int, error) { return 4, nil },
	}

	eng, err := pagewizard.New(
		pagewizard.WithConfig(fastConfig()),
		pagewizard.WithBackend(backend),
		pagewizard.WithPresenter(presenter),
		pagewizard.WithCreditCache(cachedCredits(7)),
	)
	require.NoError(t, err)
	require.NoError(t, eng.Start(context.Background()))

	credits := presenter.OfType(domain.CommandCredits)
	require.Len(t, credits, 2)
	assert.Equal(t, 7, credits[0].Payload)
	assert.Equal(t, 4, credits[1].Payload)
	assert.Equal(t, "genre", eng.CurrentStep())

	snap := eng.Snapshot()
	assert.True(t, snap.Awaiting)
	assert.Equal(t, 1, snap.Stage)
	assert.NotEmpty(t, snap.RunID)
}

func TestEngine_CreditFailureDoesNotBlockStart(t *testing.T) {
	backend := &testutils.FakeBackend{
		CreditsFunc: func(context.Context) (int, error) { return 0, errors.New("not logged in") },
	}
	eng, err := pagewizard.New(pagewizard.WithConfig(fastConfig()), pagewizard.WithBackend(backend))
	require.NoError(t, err)

	require.NoError(t, eng.Start(context.Background()))
	assert.Equal(t, "genre", eng.CurrentStep())
}

func TestEngine_CustomGraphAndAction(t *testing.T) {
	b := dsl.New()
	b.Add("ask").Question("Your name?").Input(domain.InputText).SaveTo("name").Go("shout")
	b.Add("shout").Loading("Shouting...", "shout").Go("done")
	b.Add("done").Preview("Done")
	g := b.MustBuild()

	cfg := fastConfig()
	cfg.Entry = "ask"
	cfg.ProductStep = ""
	cfg.RegenerateStep = ""

	var got string
	eng, err := pagewizard.New(
		pagewizard.WithConfig(cfg),
		pagewizard.WithGraph(g),
		pagewizard.WithBackend(&testutils.FakeBackend{}),
		pagewizard.WithAction("shout", func(_ context.Context, _ pagewizard.ActionEnv, s *domain.Session) pagewizard.Outcome {
			got = s.Persona["name"].(string)
			return pagewizard.Outcome{Route: pagewizard.Advance}
		}),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, eng.Start(ctx))
	require.NoError(t, eng.Submit(ctx, domain.TextSubmitted{Value: "Ada"}))

	assert.Equal(t, "Ada", got)
	assert.Equal(t, "done", eng.CurrentStep())
}

func TestEngine_FlowEntryOverridesConfig(t *testing.T) {
	f, err := flow.Parse([]byte(`
entry: second
steps:
  - id: first
    type: message
    content: never shown
    next: second
  - id: second
    type: question
    content: Hello?
    inputType: text
    field: greeting
    next: end
  - id: end
    type: preview
    content: Bye
`))
	require.NoError(t, err)

	cfg := fastConfig()
	cfg.ProductStep = ""
	cfg.RegenerateStep = ""

	eng, err := pagewizard.New(pagewizard.WithConfig(cfg), pagewizard.WithFlow(f), pagewizard.WithBackend(&testutils.FakeBackend{}))
	require.NoError(t, err)
	require.NoError(t, eng.Start(context.Background()))
	assert.Equal(t, "second", eng.CurrentStep())
}

func TestEngine_UnknownActionIsRejected(t *testing.T) {
	b := dsl.New()
	b.Add("work").Loading("Working...", "teleport").Go("done")
	b.Add("done").Preview("Done")

	cfg := fastConfig()
	cfg.Entry = "work"
	cfg.ProductStep = ""
	cfg.RegenerateStep = ""

	_, err := pagewizard.New(pagewizard.WithConfig(cfg), pagewizard.WithGraph(b.MustBuild()), pagewizard.WithBackend(&testutils.FakeBackend{}))
	var gerr *domain.GraphError
	assert.ErrorAs(t, err, &gerr)
}
