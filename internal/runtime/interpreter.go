package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/pagewizard/internal/validator"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/ports"
)

// ticket identifies the run and step entry a continuation was launched from.
// A continuation may only touch the session while its ticket is current.
type ticket struct {
	run   string
	epoch uint64
}

// hop is a pending transition produced by a step or an action.
type hop struct {
	to   string
	from ticket
}

// Interpreter walks a step graph, one step at a time, for a single wizard run.
// All methods are safe for concurrent use; superseded continuations become no-ops.
type Interpreter struct {
	graph     *domain.Graph
	backend   ports.Backend
	presenter ports.Presenter
	cfg       Config
	actions   *Actions
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	mu       sync.Mutex
	session  *domain.Session
	current  *domain.Step
	epoch    uint64
	awaiting bool
	busy     bool
	loading  bool
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(i *Interpreter) {
		i.cfg = cfg
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(i *Interpreter) {
		i.hooks = hooks
	}
}

// WithAction registers (or overrides) a named action.
func WithAction(name string, fn Action) Option {
	return func(i *Interpreter) {
		i.actions.Register(name, fn)
	}
}

// New creates an interpreter over a compiled graph.
// The graph is validated against the configured entry and the registered actions.
func New(graph *domain.Graph, backend ports.Backend, presenter ports.Presenter, opts ...Option) (*Interpreter, error) {
	if graph == nil {
		return nil, errors.New("graph is required")
	}
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if presenter == nil {
		presenter = ports.PresenterFunc(func(context.Context, ...domain.Command) error { return nil })
	}

	i := &Interpreter{
		graph:     graph,
		backend:   backend,
		presenter: presenter,
		cfg:       DefaultConfig(),
		actions:   DefaultActions(),
		logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.cfg = i.cfg.clone()

	if err := validator.ValidateGraph(graph, i.cfg.Entry, validator.WithActions(i.actions.Names()...)); err != nil {
		return nil, err
	}
	for _, id := range []string{i.cfg.ProductStep, i.cfg.RegenerateStep} {
		if id != "" && !graph.Has(id) {
			return nil, &domain.GraphError{Problems: []string{fmt.Sprintf("configured step '%s' not found", id)}}
		}
	}

	return i, nil
}

// Config returns the interpreter configuration.
func (i *Interpreter) Config() Config {
	return i.cfg.clone()
}

// Graph returns the step graph being interpreted.
func (i *Interpreter) Graph() *domain.Graph {
	return i.graph
}

// Start resets the session and enters the entry step.
// Anything still in flight from a previous run is discarded when it completes.
func (i *Interpreter) Start(ctx context.Context) error {
	i.mu.Lock()
	i.dropLoadingLocked(ctx)
	i.session = domain.NewSession()
	i.current = nil
	i.awaiting = false
	i.busy = false
	i.epoch++
	t := i.ticketLocked()
	i.mu.Unlock()

	i.logger.Info("wizard started", "run_id", t.run)
	if i.hooks.OnRunStart != nil {
		i.hooks.OnRunStart(ctx, &domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventRunStart,
			RunID:     t.run,
		})
	}

	return i.run(ctx, i.cfg.Entry, &t)
}

// GoTo jumps to stepID, superseding whatever step is current.
func (i *Interpreter) GoTo(ctx context.Context, stepID string) error {
	if !i.started() {
		return domain.ErrNotStarted
	}
	return i.run(ctx, stepID, nil)
}

// Retry re-enters the current step, e.g. after a parked action failure.
func (i *Interpreter) Retry(ctx context.Context) error {
	i.mu.Lock()
	if i.session == nil || i.current == nil {
		i.mu.Unlock()
		return domain.ErrNotStarted
	}
	id := i.current.ID
	i.mu.Unlock()

	return i.run(ctx, id, nil)
}

// Regenerate runs content generation again with the current session.
func (i *Interpreter) Regenerate(ctx context.Context) error {
	return i.GoTo(ctx, i.cfg.RegenerateStep)
}

// Session returns a copy of the current session, or nil before Start.
func (i *Interpreter) Session() *domain.Session {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.session.Clone()
}

// CurrentStep returns the id of the current step, or "" before Start.
func (i *Interpreter) CurrentStep() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current == nil {
		return ""
	}
	return i.current.ID
}

// Snapshot is a consistent view of the interpreter state.
type Snapshot struct {
	RunID    string          `json:"run_id,omitempty"`
	StepID   string          `json:"step_id,omitempty"`
	Stage    int             `json:"stage"`
	Awaiting bool            `json:"awaiting"`
	Busy     bool            `json:"busy"`
	Session  *domain.Session `json:"session,omitempty"`
}

// Snapshot returns the current state in one read.
func (i *Interpreter) Snapshot() Snapshot {
	i.mu.Lock()
	defer i.mu.Unlock()

	snap := Snapshot{Awaiting: i.awaiting, Busy: i.busy, Session: i.session.Clone()}
	if i.session != nil {
		snap.RunID = i.session.RunID
	}
	if i.current != nil {
		snap.StepID = i.current.ID
		snap.Stage = i.cfg.Stage(i.current.ID)
	}
	return snap
}

// run enters steps until one suspends, parks or stops.
// from is nil for user initiated jumps, which always win.
func (i *Interpreter) run(ctx context.Context, id string, from *ticket) error {
	for {
		h, err := i.enter(ctx, id, from)
		if err != nil {
			return i.settle(id, err)
		}
		if h == nil {
			return nil
		}
		id, from = h.to, &h.from
	}
}

// follow continues the flow after an action or a sub-flow request.
func (i *Interpreter) follow(ctx context.Context, stepID string, h *hop, err error) error {
	if err != nil {
		return i.settle(stepID, err)
	}
	if h == nil {
		return nil
	}
	return i.run(ctx, h.to, &h.from)
}

func (i *Interpreter) settle(stepID string, err error) error {
	if errors.Is(err, domain.ErrStaleContinuation) {
		i.logger.Debug("stale continuation discarded", "step", stepID)
		return nil
	}
	return err
}

func (i *Interpreter) enter(ctx context.Context, id string, from *ticket) (*hop, error) {
	step, err := i.graph.Lookup(id)
	if err != nil {
		return nil, err
	}

	i.mu.Lock()
	if i.session == nil {
		i.mu.Unlock()
		return nil, domain.ErrNotStarted
	}
	if from != nil && !i.isCurrentLocked(*from) {
		i.mu.Unlock()
		return nil, domain.ErrStaleContinuation
	}
	i.dropLoadingLocked(ctx)
	i.epoch++
	i.current = step
	i.awaiting = false
	i.busy = false
	t := i.ticketLocked()
	stage := i.cfg.Stage(step.ID)
	i.present(ctx, progress(stage))
	i.mu.Unlock()

	i.logger.Debug("entering step", "step", step.ID, "type", step.Type(), "run_id", t.run)
	if i.hooks.OnStepEnter != nil {
		i.hooks.OnStepEnter(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepEnter, RunID: t.run},
			StepID:    step.ID,
			StepType:  step.Type(),
			Stage:     stage,
		})
	}

	switch k := step.Kind.(type) {
	case domain.Message:
		return i.enterMessage(ctx, t, step, k)
	case domain.Question:
		return i.enterQuestion(ctx, t, step, k)
	case domain.Loading:
		if !i.emit(ctx, t, showMessage(step.ID, step.Content, step.Hint)) {
			return nil, domain.ErrStaleContinuation
		}
		return i.runAction(ctx, t, step, k.Action, "", step.Next)
	case domain.ProductDisplay:
		return i.enterProduct(ctx, t, step)
	case domain.Preview:
		return nil, i.enterPreview(ctx, t, step)
	default:
		return nil, fmt.Errorf("step %s: unsupported step kind %T", step.ID, step.Kind)
	}
}

func (i *Interpreter) enterMessage(ctx context.Context, t ticket, step *domain.Step, k domain.Message) (*hop, error) {
	if !i.emit(ctx, t, showMessage(step.ID, step.Content, step.Hint)) {
		return nil, domain.ErrStaleContinuation
	}
	if k.Choices != nil {
		return nil, i.suspend(ctx, t, step)
	}
	if step.Next == "" {
		return nil, nil
	}
	if err := pause(ctx, i.cfg.MessageDelay); err != nil {
		return nil, err
	}
	return &hop{to: step.Next, from: t}, nil
}

func (i *Interpreter) enterQuestion(ctx context.Context, t ticket, step *domain.Step, k domain.Question) (*hop, error) {
	if !i.emit(ctx, t, showMessage(step.ID, step.Content, "")) {
		return nil, domain.ErrStaleContinuation
	}
	if err := pause(ctx, i.cfg.TypingDelay); err != nil {
		return nil, err
	}

	if _, ok := k.Input.(domain.ImageSelectInput); ok {
		i.mu.Lock()
		if i.isCurrentLocked(t) {
			// Re-answering the image question starts from an empty selection.
			i.session.ReplaceImages(nil)
			i.session.Options.ImageSource = domain.SourceProduct
			i.session.Options.ImageModel = ""
		}
		i.mu.Unlock()
	}

	return nil, i.suspend(ctx, t, step)
}

// suspend shows the input widget of step and waits for Submit.
func (i *Interpreter) suspend(ctx context.Context, t ticket, step *domain.Step) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.isCurrentLocked(t) {
		return domain.ErrStaleContinuation
	}
	i.awaiting = true

	cmds := []domain.Command{i.inputRequest(step, i.session)}
	if q, ok := step.Kind.(domain.Question); ok {
		if _, ok := q.Input.(domain.ImageSelectInput); ok {
			cmds = append(cmds, imageSelection(i.session))
		}
	}
	i.present(ctx, cmds...)
	return nil
}

func (i *Interpreter) enterProduct(ctx context.Context, t ticket, step *domain.Step) (*hop, error) {
	i.mu.Lock()
	if !i.isCurrentLocked(t) {
		i.mu.Unlock()
		return nil, domain.ErrStaleContinuation
	}
	// The card attaches to the latest bot message; the step content is not shown.
	if p := i.session.Clone().Product; p != nil {
		i.present(ctx, domain.Command{Type: domain.CommandShowProduct, Payload: *p})
	} else {
		i.logger.Warn("no product to display", "step", step.ID)
	}
	i.mu.Unlock()

	if step.Next == "" {
		return nil, nil
	}
	if err := pause(ctx, i.cfg.ProductDelay); err != nil {
		return nil, err
	}
	return &hop{to: step.Next, from: t}, nil
}

func (i *Interpreter) enterPreview(ctx context.Context, t ticket, step *domain.Step) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.isCurrentLocked(t) {
		return domain.ErrStaleContinuation
	}
	cmds := []domain.Command{showMessage(step.ID, step.Content, step.Hint)}
	if c := i.session.Clone().GeneratedContent; c != nil {
		cmds = append(cmds, domain.Command{Type: domain.CommandShowPreview, Payload: *c})
	}
	i.present(ctx, cmds...)
	return nil
}

// runAction executes a named action against a snapshot of the session and routes on its outcome.
// next is where Advance goes.
func (i *Interpreter) runAction(ctx context.Context, t ticket, step *domain.Step, name, input, next string) (*hop, error) {
	action, err := i.actions.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("step %s: action %w", step.ID, err)
	}

	i.mu.Lock()
	if !i.isCurrentLocked(t) {
		i.mu.Unlock()
		return nil, domain.ErrStaleContinuation
	}
	snapshot := i.session.Clone()
	i.mu.Unlock()

	env := Env{
		Backend: i.backend,
		Config:  &i.cfg,
		Input:   input,
		present: func(cmds ...domain.Command) { i.emit(ctx, t, cmds...) },
	}

	i.emitActionCall(ctx, t, step.ID, name)
	start := time.Now()
	out := action(ctx, env, snapshot)
	i.emitActionReturn(ctx, t, step.ID, name, time.Since(start), out.Err)

	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.isCurrentLocked(t) {
		return nil, domain.ErrStaleContinuation
	}
	if out.Apply != nil {
		out.Apply(i.session)
	}
	i.present(ctx, out.Notices...)

	switch out.Route {
	case Reroute:
		return &hop{to: out.Target, from: t}, nil
	case Park:
		if _, ok := step.Choices(); ok {
			i.awaiting = true
			i.present(ctx, i.inputRequest(step, i.session))
		}
		return nil, nil
	default:
		if next == "" {
			return nil, nil
		}
		return &hop{to: next, from: t}, nil
	}
}

// Publish sends the generated page to the storefront. It lives outside the step graph.
func (i *Interpreter) Publish(ctx context.Context) (*domain.PublishResult, error) {
	i.mu.Lock()
	if i.session == nil {
		i.mu.Unlock()
		return nil, domain.ErrNotStarted
	}
	snap := i.session.Clone()
	t := i.ticketLocked()
	stepID := ""
	if i.current != nil {
		stepID = i.current.ID
	}
	i.mu.Unlock()

	if snap.GeneratedContent == nil {
		return nil, domain.ErrNoGeneratedContent
	}

	i.emit(ctx, t, showLoading(i.cfg.Texts.Publishing, 50))
	i.emitActionCall(ctx, t, stepID, "publish")
	start := time.Now()
	res, err := i.backend.Publish(ctx, snap.GeneratedContent, snap.Product, snap.Images)
	if err == nil && (res == nil || res.PageURL == "") {
		err = errors.New("no page URL returned")
	}
	i.emitActionReturn(ctx, t, stepID, "publish", time.Since(start), err)
	i.emit(ctx, t, hideLoading())

	if err != nil {
		i.emit(ctx, t, showError(fmt.Sprintf(i.cfg.Texts.PublishFailed, err)))
		return nil, &domain.ActionError{Action: "publish", Err: err}
	}

	i.mu.Lock()
	if i.isCurrentLocked(t) {
		if i.session.GeneratedContent != nil {
			i.session.GeneratedContent.PageURL = res.PageURL
		}
		i.present(ctx, showMessage("", fmt.Sprintf(i.cfg.Texts.Published, res.PageURL), ""))
	}
	i.mu.Unlock()

	if _, err := i.RefreshCredits(ctx); err != nil {
		i.logger.Warn("failed to refresh credits", "err", err)
	}
	return res, nil
}

// RefreshCredits asks the backend for the remaining credits and reports them.
func (i *Interpreter) RefreshCredits(ctx context.Context) (int, error) {
	n, err := i.backend.Credits(ctx)
	if err != nil {
		return 0, err
	}
	i.present(ctx, credits(n))
	return n, nil
}

// present forwards commands to the presenter. Presenter failures are logged, never fatal.
func (i *Interpreter) present(ctx context.Context, cmds ...domain.Command) {
	if len(cmds) == 0 {
		return
	}
	if err := i.presenter.Present(ctx, cmds...); err != nil {
		i.logger.Warn("presenter failed", "err", err, "commands", len(cmds))
	}
}

// emit presents cmds only while t is current. It reports whether they were presented.
func (i *Interpreter) emit(ctx context.Context, t ticket, cmds ...domain.Command) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.isCurrentLocked(t) {
		return false
	}
	for _, c := range cmds {
		switch c.Type {
		case domain.CommandShowLoading:
			i.loading = true
		case domain.CommandHideLoading:
			i.loading = false
		}
	}
	i.present(ctx, cmds...)
	return true
}

// dropLoadingLocked hides an indicator left up by the step about to be superseded,
// whose own hideLoading will be discarded as stale.
func (i *Interpreter) dropLoadingLocked(ctx context.Context) {
	if !i.loading {
		return
	}
	i.loading = false
	i.present(ctx, hideLoading())
}

func (i *Interpreter) emitActionCall(ctx context.Context, t ticket, stepID, name string) {
	i.logger.Debug("action call", "step", stepID, "action", name)
	if i.hooks.OnActionCall != nil {
		i.hooks.OnActionCall(ctx, &domain.ActionEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventActionCall, RunID: t.run},
			StepID:    stepID,
			Action:    name,
		})
	}
}

func (i *Interpreter) emitActionReturn(ctx context.Context, t ticket, stepID, name string, d time.Duration, err error) {
	if err != nil {
		i.logger.Warn("action failed", "step", stepID, "action", name, "err", err)
	} else {
		i.logger.Debug("action return", "step", stepID, "action", name, "duration", d)
	}
	if i.hooks.OnActionReturn != nil {
		i.hooks.OnActionReturn(ctx, &domain.ActionEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventActionReturn, RunID: t.run},
			StepID:    stepID,
			Action:    name,
			Duration:  d,
			IsError:   err != nil,
		})
	}
}

func (i *Interpreter) started() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.session != nil
}

func (i *Interpreter) ticketLocked() ticket {
	return ticket{run: i.session.RunID, epoch: i.epoch}
}

func (i *Interpreter) isCurrentLocked(t ticket) bool {
	return i.session != nil && i.session.RunID == t.run && i.epoch == t.epoch
}

// pause waits d unless ctx ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
