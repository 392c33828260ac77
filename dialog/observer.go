package dialog

import (
	"context"
	"log/slog"
)

// StepEvent describes one step transition for telemetry.
type StepEvent struct {
	Dialog  ID
	Step    int
	Outcome ResultKind
	Value   any
}

// Observer receives a callback after every step transition. It is decoupled
// from control flow; implementations must not influence the turn.
type Observer interface {
	OnStep(ctx context.Context, ev StepEvent)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) OnStep(context.Context, StepEvent) {}

// SlogObserver logs every transition through slog.
type SlogObserver struct {
	Logger *slog.Logger
}

func (o SlogObserver) OnStep(ctx context.Context, ev StepEvent) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.DebugContext(ctx, "dialog step",
		"dialog", string(ev.Dialog),
		"step", ev.Step,
		"outcome", string(ev.Outcome),
		"value", ev.Value,
	)
}
