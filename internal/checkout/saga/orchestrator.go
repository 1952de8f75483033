// Package saga runs a fixed list of steps and undoes the completed ones, in
// reverse order, when a later step fails.
package saga

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Step is a single unit of work with a compensating action.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

type Orchestrator struct {
	id      string
	steps   []Step
	journal Journal
}

// NewOrchestrator builds a saga identified by id. journal may be nil.
func NewOrchestrator(id string, journal Journal, steps ...Step) *Orchestrator {
	return &Orchestrator{id: id, steps: steps, journal: journal}
}

// Run executes the steps sequentially. On failure every step that already
// succeeded is compensated (LIFO) and the step's error is returned.
// Compensation failures are logged and journaled, never returned.
func (o *Orchestrator) Run(ctx context.Context) error {
	ctx, span := otel.Tracer("maison/checkout").Start(ctx, "saga.run")
	defer span.End()
	span.SetAttributes(attribute.String("saga.id", o.id))

	o.record(ctx, StatusStarted, "", nil)

	done := make([]Step, 0, len(o.steps))
	for _, step := range o.steps {
		slog.DebugContext(ctx, "executing saga step", "saga_id", o.id, "step", step.Name())
		if err := o.execute(ctx, step); err != nil {
			slog.WarnContext(ctx, "saga step failed, rolling back", "saga_id", o.id, "step", step.Name(), "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, step.Name())

			errs := o.rollback(ctx, done)
			o.record(ctx, StatusFailed, step.Name(), append([]string{fmt.Sprintf("%s: %v", step.Name(), err)}, errs...))
			return err
		}
		done = append(done, step)
		o.record(ctx, StatusStepDone, step.Name(), nil)
	}

	o.record(ctx, StatusCompleted, "", nil)
	slog.InfoContext(ctx, "saga completed", "saga_id", o.id, "steps", len(done))
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, step Step) error {
	ctx, span := otel.Tracer("maison/checkout").Start(ctx, step.Name())
	defer span.End()

	if err := step.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// rollback keeps compensating past individual failures.
func (o *Orchestrator) rollback(ctx context.Context, steps []Step) []string {
	// A cancelled request still has to undo what it did.
	ctx = context.WithoutCancel(ctx)

	var errs []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		o.record(ctx, StatusCompensating, step.Name(), nil)
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "saga compensation failed", "saga_id", o.id, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensate %s: %v", step.Name(), err))
		}
	}
	return errs
}

func (o *Orchestrator) record(ctx context.Context, status Status, step string, errs []string) {
	if o.journal == nil {
		return
	}
	if err := o.journal.Record(ctx, NewEntry(ctx, o.id, status, step, errs)); err != nil {
		slog.WarnContext(ctx, "saga journal write failed", "saga_id", o.id, "error", err)
	}
}
