/*
Package runner drives a wizard from a line-oriented input stream.

It acts as the bridge between the interpreter and a terminal or a parent
process. An IOHandler both renders the interpreter's commands and parses
input lines back into domain events.

# Key Components

  - Runner: reads lines, parses and sanitizes them, then dispatches events or wizard commands.
  - TextHandler: human readable output with numbered options and image verbs.
  - JSONHandler: one JSON object per line in both directions.

# Usage

	h := runner.NewTextHandler(os.Stdout)
	engine, _ := pagewizard.New(pagewizard.WithPresenter(h), pagewizard.WithBackend(client))
	r := runner.NewRunner(runner.WithInputHandler(h))

	if err := r.Run(ctx, engine); err != nil {
		log.Fatal(err)
	}
*/
package runner
