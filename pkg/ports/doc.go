/*
Package ports defines the driven ports (interfaces) for the pagewizard engine.

These interfaces decouple the interpreter from external implementations, allowing
the wizard to run against different backends, presenters and credential stores.

# Key Interfaces

  - Backend: the remote service that analyzes products, generates images and content, and publishes pages.
  - Presenter: renders commands emitted by the interpreter (terminal, JSON lines, browser outbox).
  - CredentialStore: persists the bearer token and cached user profile across runs.
*/
package ports
