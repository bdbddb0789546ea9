package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// LoggingHooks logs every lifecycle event at info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.EventBase) {
			logger.InfoContext(ctx, "run_start", "run_id", e.RunID)
		},
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step_enter", "run_id", e.RunID, "step_id", e.StepID, "type", e.StepType, "stage", e.Stage)
		},
		OnActionCall: func(ctx context.Context, e *domain.ActionEvent) {
			logger.InfoContext(ctx, "action_call", "step_id", e.StepID, "action", e.Action)
		},
		OnActionReturn: func(ctx context.Context, e *domain.ActionEvent) {
			logger.InfoContext(ctx, "action_return",
				"step_id", e.StepID,
				"action", e.Action,
				"duration", e.Duration,
				"is_error", e.IsError,
			)
		},
	}
}

// Combine fans every event out to each hook set, in order. Nil callbacks are skipped.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.EventBase) {
			for _, s := range sets {
				if s.OnRunStart != nil {
					s.OnRunStart(ctx, e)
				}
			}
		},
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			for _, s := range sets {
				if s.OnStepEnter != nil {
					s.OnStepEnter(ctx, e)
				}
			}
		},
		OnActionCall: func(ctx context.Context, e *domain.ActionEvent) {
			for _, s := range sets {
				if s.OnActionCall != nil {
					s.OnActionCall(ctx, e)
				}
			}
		},
		OnActionReturn: func(ctx context.Context, e *domain.ActionEvent) {
			for _, s := range sets {
				if s.OnActionReturn != nil {
					s.OnActionReturn(ctx, e)
				}
			}
		},
	}
}
