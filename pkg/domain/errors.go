package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCredentialsNotFound is returned when no credentials are stored.
var ErrCredentialsNotFound = errors.New("credentials not found")

// ErrNoGeneratedContent is returned when publishing before content exists.
var ErrNoGeneratedContent = errors.New("no generated content to publish")

// ErrStaleContinuation marks work launched against a run or step that has since been superseded.
var ErrStaleContinuation = errors.New("stale continuation discarded")

// ErrNotAwaitingInput is returned when an event does not match what the current step expects.
var ErrNotAwaitingInput = errors.New("current step is not awaiting this input")

// ErrBusy is returned when an image request is already running for the current step.
var ErrBusy = errors.New("a request is already in progress")

// ErrNotStarted is returned when events arrive before the first run.
var ErrNotStarted = errors.New("wizard has not been started")

// UnknownStepError reports a reference to a step id that is not in the graph.
// It indicates a flow authoring bug and is not recoverable at runtime.
type UnknownStepError struct {
	StepID string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown step %q", e.StepID)
}

// ValidationError is an input rejection. The step does not advance and no state changes.
type ValidationError struct {
	StepID  string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s: %s", e.StepID, e.Message)
}

// ActionError wraps a failure of a named side effect.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %s failed: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// GraphError aggregates every integrity problem found in a step table.
// Graph errors are authoring bugs and must stop startup.
type GraphError struct {
	Problems []string
}

func (e *GraphError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid step graph: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid step graph: found %d errors:\n- %s", len(e.Problems), strings.Join(e.Problems, "\n- "))
}
