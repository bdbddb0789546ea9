/*
Package pagewizard runs a conversational wizard that builds a product content page.

The wizard walks a step graph (persona questions, product analysis, image
selection, content generation, preview) one step at a time. It never talks to the
user directly: every decision is emitted as a render command to a Presenter,
and user input comes back as domain events through Engine.Submit. Backend work
(analysis, image generation, uploads, content generation, publishing) goes
through a ports.Backend.

# Key Features

  - Sealed step kinds: flows are checked once at startup, never at dispatch time.
  - Ordered continuations: work launched by a superseded run or step is discarded.
  - Pluggable presenters: terminal, JSON lines, HTTP outbox, or your own.

# Usage

	client := api.New(backendURL, api.WithTokenSource(account.TokenSource()))

	eng, err := pagewizard.New(
		pagewizard.WithBackend(client),
		pagewizard.WithPresenter(presenter),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := eng.Start(ctx); err != nil {
		log.Fatal(err)
	}
	// Later, from the presenter's input widgets:
	err = eng.Submit(ctx, domain.TextSubmitted{Value: "wooden toys"})
*/
package pagewizard
