package ports

import (
	"context"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// Presenter renders what the interpreter decides.
// It never decides flow progression; user input comes back through Engine.Submit.
type Presenter interface {
	Present(ctx context.Context, cmds ...domain.Command) error
}

// PresenterFunc adapts a plain function to a Presenter.
type PresenterFunc func(ctx context.Context, cmds ...domain.Command) error

// Present calls f.
func (f PresenterFunc) Present(ctx context.Context, cmds ...domain.Command) error {
	return f(ctx, cmds...)
}
