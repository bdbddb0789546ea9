package domain

import (
	"context"
	"time"
)

// LifecycleEventType defines the category of a lifecycle event.
type LifecycleEventType string

const (
	EventStepEnter    LifecycleEventType = "step_enter"
	EventActionCall   LifecycleEventType = "action_call"
	EventActionReturn LifecycleEventType = "action_return"
	EventRunStart     LifecycleEventType = "run_start"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time          `json:"timestamp"`
	Type      LifecycleEventType `json:"type"`
	RunID     string             `json:"run_id"`
}

// StepEvent represents entry into a step.
type StepEvent struct {
	EventBase
	StepID   string   `json:"step_id"`
	StepType StepType `json:"step_type"`
	Stage    int      `json:"stage"`
}

// ActionEvent represents a named side effect execution.
type ActionEvent struct {
	EventBase
	StepID   string        `json:"step_id"`
	Action   string        `json:"action"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart     func(context.Context, *EventBase)
	OnStepEnter    func(context.Context, *StepEvent)
	OnActionCall   func(context.Context, *ActionEvent)
	OnActionReturn func(context.Context, *ActionEvent)
}
