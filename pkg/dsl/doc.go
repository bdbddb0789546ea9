/*
Package dsl provides a fluent builder for constructing step graphs in Go.

It is an alternative to YAML flow files, mostly useful for tests and for
flows generated at runtime.

Example usage:

	b := dsl.New()

	b.Add("welcome").
		Message("Hi! Let's build a page.").
		Go("genre")

	b.Add("genre").
		Question("What do you sell?").
		Input(domain.InputText).
		SaveTo(domain.FieldGenre).
		Go("done")

	b.Add("done").
		Preview("All set!")

	graph, err := b.Build()
*/
package dsl
