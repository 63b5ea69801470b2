// Package worker turns queued events into user-visible nudges through the
// backend API.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"takatrack/internal/amqp"
	"takatrack/internal/core"
)

// NudgeCreator is the slice of the backend client the worker needs.
type NudgeCreator interface {
	CreateNudge(ctx context.Context, n core.Nudge) (core.Nudge, error)
}

// Consumer delivers envelopes to a handler; the AMQP client satisfies it.
type Consumer interface {
	Consume(ctx context.Context, handler func(*amqp.Envelope) error) error
}

// NudgeWorker maps milestone and budget-alert events to nudges.
type NudgeWorker struct {
	consumer Consumer
	backend  NudgeCreator
}

func NewNudgeWorker(consumer Consumer, backend NudgeCreator) *NudgeWorker {
	return &NudgeWorker{consumer: consumer, backend: backend}
}

// Run consumes until ctx is cancelled.
func (w *NudgeWorker) Run(ctx context.Context) error {
	return w.consumer.Consume(ctx, func(env *amqp.Envelope) error {
		return w.Handle(ctx, env)
	})
}

// Handle converts one envelope into a nudge. Unknown event types are logged
// and dropped; returning an error would requeue them forever.
func (w *NudgeWorker) Handle(ctx context.Context, env *amqp.Envelope) error {
	nudge, ok, err := w.buildNudge(env)
	if err != nil {
		return err
	}
	if !ok {
		slog.WarnContext(ctx, "Dropping event of unknown type", "type", env.Type)
		return nil
	}

	created, err := w.backend.CreateNudge(ctx, nudge)
	if err != nil {
		return fmt.Errorf("create nudge: %w", err)
	}

	slog.InfoContext(ctx, "Nudge created",
		"id", created.ID, "type", nudge.Type, "title", nudge.Title)
	return nil
}

func (w *NudgeWorker) buildNudge(env *amqp.Envelope) (core.Nudge, bool, error) {
	switch env.Type {
	case amqp.TypeGoalMilestone:
		var event amqp.GoalMilestoneEvent
		if err := env.DecodePayload(amqp.TypeGoalMilestone, &event); err != nil {
			return core.Nudge{}, false, fmt.Errorf("decode milestone event: %w", err)
		}
		return core.Nudge{
			Type:     "goal_milestone",
			Title:    fmt.Sprintf("%s: %s", event.GoalName, event.Label),
			Message:  fmt.Sprintf("Your goal %q reached %.0f%% of its target.", event.GoalName, event.Percent),
			Priority: "low",
		}, true, nil

	case amqp.TypeBudgetAlert:
		var event amqp.BudgetAlertEvent
		if err := env.DecodePayload(amqp.TypeBudgetAlert, &event); err != nil {
			return core.Nudge{}, false, fmt.Errorf("decode budget alert: %w", err)
		}
		return core.Nudge{
			Type:     "budget_alert",
			Title:    fmt.Sprintf("Over budget: %s", event.CategoryName),
			Message:  fmt.Sprintf("You have used %.0f%% of your %s budget.", event.PercentageUsed, event.CategoryName),
			Priority: "high",
		}, true, nil

	default:
		return core.Nudge{}, false, nil
	}
}
