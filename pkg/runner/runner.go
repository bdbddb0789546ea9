package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// Runner reads user input line by line and feeds it to a Driver.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	Handler IOHandler
	Input   io.Reader
	Logger  *slog.Logger
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInputHandler configures the IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithInput sets the reader input lines come from.
func WithInput(in io.Reader) Option {
	return func(r *Runner) {
		r.Input = in
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// NewRunner creates a Runner reading from Stdin with a text handler on Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdout)
	}
	return r
}

type inputResult struct {
	text string
	err  error
}

// Run starts the wizard and processes input until EOF, /quit or ctx cancellation.
// Only flow authoring errors end the loop early; everything else is reported and skipped.
func (r *Runner) Run(ctx context.Context, d Driver) error {
	if err := d.Start(ctx); err != nil {
		return fmt.Errorf("failed to start wizard: %w", err)
	}

	lines := r.pump(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case res, ok := <-lines:
			if !ok {
				return nil
			}
			if res.err != nil {
				return res.err
			}
			quit, err := r.handleLine(ctx, d, res.text)
			if err != nil || quit {
				return err
			}
		}
	}
}

func (r *Runner) pump(ctx context.Context) <-chan inputResult {
	ch := make(chan inputResult)
	reader := bufio.NewReader(r.Input)

	go func() {
		defer close(ch)
		for {
			text, err := reader.ReadString('\n')
			if text != "" {
				select {
				case ch <- inputResult{text: text}:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					select {
					case ch <- inputResult{err: err}:
					case <-ctx.Done():
					}
				}
				return
			}
		}
	}()
	return ch
}

func (r *Runner) handleLine(ctx context.Context, d Driver, line string) (bool, error) {
	req, err := r.Handler.Parse(ctx, line)
	if err != nil {
		return false, r.Handler.SystemOutput(ctx, err.Error())
	}

	if req.Command == CommandQuit {
		return true, nil
	}
	if req.Event != nil {
		if req.Event, err = SanitizeEvent(req.Event); err != nil {
			return false, r.Handler.SystemOutput(ctx, fmt.Sprintf("Error: %v. Please try again.", err))
		}
	}
	return false, r.report(ctx, r.dispatch(ctx, d, req))
}

func (r *Runner) dispatch(ctx context.Context, d Driver, req Request) error {
	switch req.Command {
	case "":
		return d.Submit(ctx, req.Event)
	case CommandPublish:
		_, err := d.Publish(ctx)
		return err
	case CommandRegenerate:
		return d.Regenerate(ctx)
	case CommandRetry:
		return d.Retry(ctx)
	case CommandRestart:
		return d.Start(ctx)
	}
	return fmt.Errorf("unknown command %q", req.Command)
}

// report surfaces driver errors the presenter has not already shown.
func (r *Runner) report(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var unknown *domain.UnknownStepError
	var invalid *domain.ValidationError
	var failed *domain.ActionError
	switch {
	case errors.As(err, &unknown):
		return err
	case errors.As(err, &invalid), errors.As(err, &failed):
		r.Logger.Debug("input rejected", "err", err)
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	}

	r.Logger.Debug("request not handled", "err", err)
	return r.Handler.SystemOutput(ctx, err.Error())
}
