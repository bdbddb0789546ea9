package runner

import (
	"context"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/ports"
)

// Wizard commands a user can issue outside the conversation.
const (
	CommandPublish    = "publish"
	CommandRegenerate = "regenerate"
	CommandRetry      = "retry"
	CommandRestart    = "restart"
	CommandQuit       = "quit"
)

// Driver is the engine surface a runner feeds input into.
type Driver interface {
	Start(ctx context.Context) error
	Submit(ctx context.Context, ev domain.Event) error
	Retry(ctx context.Context) error
	Regenerate(ctx context.Context) error
	Publish(ctx context.Context) (*domain.PublishResult, error)
}

// Request is one parsed line of user input.
// Exactly one of Event and Command is set.
type Request struct {
	Event   domain.Event
	Command string
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	ports.Presenter

	// Parse turns one sanitized input line into a request.
	Parse(ctx context.Context, line string) (Request, error)

	// SystemOutput presents a meta-message to the user (e.g. usage hints, status updates).
	// This is distinct from conversation rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is written.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

func isCommand(name string) bool {
	switch name {
	case CommandPublish, CommandRegenerate, CommandRetry, CommandRestart, CommandQuit:
		return true
	}
	return false
}
