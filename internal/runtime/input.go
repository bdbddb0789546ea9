package runtime

import (
	"context"
	"net/url"
	"strings"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// continuation is work a handler schedules to run after the lock is released.
type continuation func() error

// Submit delivers a user event to the suspended step.
// Invalid input is reported to the presenter and returned as *domain.ValidationError;
// the step does not advance and the session is unchanged.
func (i *Interpreter) Submit(ctx context.Context, ev domain.Event) error {
	i.mu.Lock()
	if i.session == nil {
		i.mu.Unlock()
		return domain.ErrNotStarted
	}
	step := i.current
	if step == nil || !i.awaiting {
		i.mu.Unlock()
		return domain.ErrNotAwaitingInput
	}
	t := i.ticketLocked()

	i.logger.Debug("input received", "step", step.ID, "event", domain.EventName(ev))
	next, err := i.handleLocked(ctx, t, step, ev)
	i.mu.Unlock()

	if err != nil || next == nil {
		return err
	}
	return next()
}

func (i *Interpreter) handleLocked(ctx context.Context, t ticket, step *domain.Step, ev domain.Event) (continuation, error) {
	switch e := ev.(type) {
	case domain.TextSubmitted:
		return i.onText(ctx, t, step, e)
	case domain.URLSubmitted:
		return i.onURL(ctx, t, step, e)
	case domain.ButtonChosen:
		return i.onButton(ctx, t, step, e)
	case domain.ImageSourceSwitched, domain.ImageToggled, domain.MainImageChosen,
		domain.ModelChosen, domain.GenerateRequested, domain.FilesChosen, domain.ImagesConfirmed:
		return i.onImageEvent(ctx, t, step, ev)
	default:
		return nil, domain.ErrNotAwaitingInput
	}
}

func questionInput[T domain.Input](step *domain.Step) (domain.Question, bool) {
	q, ok := step.Kind.(domain.Question)
	if !ok {
		return q, false
	}
	_, ok = q.Input.(T)
	return q, ok
}

func (i *Interpreter) onText(ctx context.Context, t ticket, step *domain.Step, e domain.TextSubmitted) (continuation, error) {
	q, ok := questionInput[domain.TextInput](step)
	if !ok {
		return nil, domain.ErrNotAwaitingInput
	}

	value := strings.TrimSpace(e.Value)
	if value == "" {
		return nil, i.rejectLocked(ctx, step, i.cfg.Texts.EmptyText)
	}

	i.session.Persona[q.Field] = value
	i.awaiting = false
	i.present(ctx, echoUser(value), clearInput())
	return i.advance(ctx, t, step.Next), nil
}

func (i *Interpreter) onURL(ctx context.Context, t ticket, step *domain.Step, e domain.URLSubmitted) (continuation, error) {
	q, ok := questionInput[domain.URLInput](step)
	if !ok {
		return nil, domain.ErrNotAwaitingInput
	}

	value := strings.TrimSpace(e.Value)
	if !isWebURL(value) {
		return nil, i.rejectLocked(ctx, step, i.cfg.Texts.InvalidURL)
	}

	i.session.SetTopLevel(q.Field, value)
	i.awaiting = false
	i.present(ctx, echoUser(value), clearInput())
	return i.advance(ctx, t, step.Next), nil
}

func (i *Interpreter) onButton(ctx context.Context, t ticket, step *domain.Step, e domain.ButtonChosen) (continuation, error) {
	choices, ok := step.Choices()
	if !ok {
		return nil, domain.ErrNotAwaitingInput
	}
	if e.Index < 0 || e.Index >= len(choices.Options) {
		return nil, i.rejectLocked(ctx, step, i.cfg.Texts.BadOption)
	}
	opt := choices.Options[e.Index]

	if q, ok := step.Kind.(domain.Question); ok && q.Field != "" {
		i.session.Persona[q.Field] = opt.Value
	}
	i.awaiting = false
	i.present(ctx, echoUser(opt.Label), clearInput())

	next := step.NextFor(opt)
	if opt.Action == "" {
		return i.advance(ctx, t, next), nil
	}
	return func() error {
		h, err := i.runAction(ctx, t, step, opt.Action, e.Text, next)
		return i.follow(ctx, step.ID, h, err)
	}, nil
}

// advance schedules the move to next once the handler has released the lock.
func (i *Interpreter) advance(ctx context.Context, t ticket, next string) continuation {
	if next == "" {
		return nil
	}
	return func() error {
		return i.run(ctx, next, &t)
	}
}

// rejectLocked reports an inline validation error without touching the session.
func (i *Interpreter) rejectLocked(ctx context.Context, step *domain.Step, msg string) error {
	i.present(ctx, showError(msg))
	return &domain.ValidationError{StepID: step.ID, Message: msg}
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
