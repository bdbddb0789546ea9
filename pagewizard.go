package pagewizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/pagewizard/internal/runtime"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/flow"
	"github.com/aretw0/pagewizard/pkg/ports"
)

// Config is the interpreter configuration. Start from DefaultConfig.
type Config = runtime.Config

// Snapshot is a consistent view of the wizard state.
type Snapshot = runtime.Snapshot

// Action is a named side effect a loading step or a button option can run.
type Action = runtime.Action

// Outcome tells the interpreter what to do after an action.
type Outcome = runtime.Outcome

// ActionEnv is what an action may use besides the session.
type ActionEnv = runtime.Env

// Routes an Outcome can take.
const (
	Advance = runtime.Advance
	Reroute = runtime.Reroute
	Park    = runtime.Park
)

// DefaultConfig returns the configuration of the built-in wizard flow.
func DefaultConfig() Config {
	return runtime.DefaultConfig()
}

// CreditCache reports the credit count remembered from the last login.
// api.Account implements it.
type CreditCache interface {
	CachedCredits(ctx context.Context) (int, bool)
}

// Engine is the high-level entry point of the wizard.
// It wraps the internal interpreter and provides a simplified API for consumers.
type Engine struct {
	interp *runtime.Interpreter

	cfg       *Config
	flow      *flow.Flow
	graph     *domain.Graph
	backend   ports.Backend
	presenter ports.Presenter
	credits   CreditCache
	hooks     domain.LifecycleHooks
	actions   map[string]Action
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = &cfg
	}
}

// WithFlow runs a loaded flow instead of the built-in one. Its entry overrides Config.Entry.
func WithFlow(f *flow.Flow) Option {
	return func(e *Engine) {
		e.flow = f
	}
}

// WithGraph runs a compiled graph (e.g. from pkg/dsl), entering at Config.Entry.
func WithGraph(g *domain.Graph) Option {
	return func(e *Engine) {
		e.graph = g
	}
}

// WithBackend sets the backend the actions call. Required.
func WithBackend(b ports.Backend) Option {
	return func(e *Engine) {
		e.backend = b
	}
}

// WithPresenter sets where render commands go.
func WithPresenter(p ports.Presenter) Option {
	return func(e *Engine) {
		e.presenter = p
	}
}

// WithCreditCache shows remembered credits as soon as a run starts.
func WithCreditCache(c CreditCache) Option {
	return func(e *Engine) {
		e.credits = c
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithAction registers (or overrides) a named action.
func WithAction(name string, fn Action) Option {
	return func(e *Engine) {
		if e.actions == nil {
			e.actions = make(map[string]Action)
		}
		e.actions[name] = fn
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New builds an engine. Without WithFlow or WithGraph it runs the built-in flow.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.backend == nil {
		return nil, errors.New("backend is required")
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if e.presenter == nil {
		e.presenter = ports.PresenterFunc(func(context.Context, ...domain.Command) error { return nil })
	}

	cfg := runtime.DefaultConfig()
	if e.cfg != nil {
		cfg = *e.cfg
	}

	graph := e.graph
	if graph == nil {
		f := e.flow
		if f == nil {
			var err error
			if f, err = flow.Default(); err != nil {
				return nil, fmt.Errorf("failed to load default flow: %w", err)
			}
		}
		graph = f.Graph
		if f.Entry != "" {
			cfg.Entry = f.Entry
		}
	}

	runtimeOpts := []runtime.Option{
		runtime.WithConfig(cfg),
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
	}
	for name, fn := range e.actions {
		runtimeOpts = append(runtimeOpts, runtime.WithAction(name, fn))
	}

	interp, err := runtime.New(graph, e.backend, e.presenter, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	e.interp = interp
	return e, nil
}

// Start begins a new run from the entry step, discarding the previous one.
// Remembered credits are shown first, then refreshed from the backend.
func (e *Engine) Start(ctx context.Context) error {
	if e.credits != nil {
		if n, ok := e.credits.CachedCredits(ctx); ok {
			if err := e.presenter.Present(ctx, domain.Command{Type: domain.CommandCredits, Payload: n}); err != nil {
				e.logger.Warn("presenter failed", "err", err)
			}
		}
	}

	if err := e.interp.Start(ctx); err != nil {
		return err
	}

	if _, err := e.interp.RefreshCredits(ctx); err != nil {
		e.logger.Warn("failed to refresh credits", "err", err)
	}
	return nil
}

// Submit delivers a user event to the current step.
func (e *Engine) Submit(ctx context.Context, ev domain.Event) error {
	return e.interp.Submit(ctx, ev)
}

// GoTo jumps to a step of the current run.
func (e *Engine) GoTo(ctx context.Context, stepID string) error {
	return e.interp.GoTo(ctx, stepID)
}

// Retry re-enters the current step.
func (e *Engine) Retry(ctx context.Context) error {
	return e.interp.Retry(ctx)
}

// Regenerate runs content generation again.
func (e *Engine) Regenerate(ctx context.Context) error {
	return e.interp.Regenerate(ctx)
}

// Publish sends the generated page to the storefront.
func (e *Engine) Publish(ctx context.Context) (*domain.PublishResult, error) {
	return e.interp.Publish(ctx)
}

// RefreshCredits asks the backend for the remaining credits and presents them.
func (e *Engine) RefreshCredits(ctx context.Context) (int, error) {
	return e.interp.RefreshCredits(ctx)
}

// Session returns a copy of the current session, or nil before Start.
func (e *Engine) Session() *domain.Session {
	return e.interp.Session()
}

// CurrentStep returns the current step id, or "" before Start.
func (e *Engine) CurrentStep() string {
	return e.interp.CurrentStep()
}

// Snapshot returns the wizard state in one consistent read.
func (e *Engine) Snapshot() Snapshot {
	return e.interp.Snapshot()
}

// Graph returns the step graph being run.
func (e *Engine) Graph() *domain.Graph {
	return e.interp.Graph()
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.interp.Config()
}

// Catalog returns the image model, tone and emoji catalogs.
func (e *Engine) Catalog() domain.Catalog {
	return e.interp.Config().Catalog
}
