/*
Package domain contains the core domain models of the content-page wizard.

It defines the step graph the interpreter walks, the per-run session accumulator,
the backend payloads the wizard reads (product, generated content) and the render
commands handed to presenters. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Step: One node of the declarative chat flow. Its Kind is a sealed sum type
    (Message, Question, Loading, ProductDisplay, Preview).
  - Graph: The immutable, closure-checked table of steps.
  - Session: The mutable accumulator for one wizard run (persona, product, images, content).
  - Command: A structural representation of what the presenter should render.
  - Event: Raw user input reported back by the presenter.
*/
package domain
