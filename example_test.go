package pagewizard_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/pagewizard"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/dsl"
	"github.com/aretw0/pagewizard/pkg/ports"
)

// offlineBackend is a stand-in for api.Client.
type offlineBackend struct{ ports.Backend }

func (offlineBackend) Credits(context.Context) (int, error) { return 3, nil }

// ExampleNew_dsl drives a small custom flow built with the dsl package.
func ExampleNew_dsl() {
	b := dsl.New()
	b.Add("hello").Message("Hi! Let's set up your shop.").Go("genre")
	b.Add("genre").Question("What do you sell?").Input(domain.InputText).SaveTo("genre").Go("bye")
	b.Add("bye").Preview("All set.")

	cfg := pagewizard.DefaultConfig()
	cfg.Entry = "hello"
	cfg.ProductStep, cfg.RegenerateStep = "", ""
	cfg.MessageDelay, cfg.TypingDelay = 0, 0

	presenter := ports.PresenterFunc(func(_ context.Context, cmds ...domain.Command) error {
		for _, c := range cmds {
			switch p := c.Payload.(type) {
			case domain.MessagePayload:
				fmt.Println("bot:", p.Content)
			case int:
				if c.Type == domain.CommandCredits {
					fmt.Println("credits:", p)
				}
			}
		}
		return nil
	})

	eng, err := pagewizard.New(
		pagewizard.WithConfig(cfg),
		pagewizard.WithGraph(b.MustBuild()),
		pagewizard.WithBackend(offlineBackend{}),
		pagewizard.WithPresenter(presenter),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := eng.Start(ctx); err != nil {
		log.Fatal(err)
	}
	if err := eng.Submit(ctx, domain.TextSubmitted{Value: "wooden toys"}); err != nil {
		log.Fatal(err)
	}
	fmt.Println("genre:", eng.Session().Persona.Genre())

	// Output:
	// bot: Hi! Let's set up your shop.
	// bot: What do you sell?
	// credits: 3
	// bot: All set.
	// genre: wooden toys
}
