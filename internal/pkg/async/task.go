// Package async provides a cancellable delayed operation.
//
// It stands in for the artificial "network" latency of login and order
// placement. A Task whose context is cancelled before its delay elapses never
// runs its function, so a caller that went away cannot apply a stale mutation.
package async

import (
	"context"
	"time"
)

type Task[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	val    T
	err    error
}

// After schedules fn to run once delay has elapsed. fn is skipped, and Wait
// reports the context error, if ctx is cancelled or Cancel is called first.
func After[T any](ctx context.Context, delay time.Duration, fn func(ctx context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(t.done)
		defer cancel()

		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()

			select {
			case <-ctx.Done():
				t.err = ctx.Err()
				return
			case <-timer.C:
			}
		}

		if err := ctx.Err(); err != nil {
			t.err = err
			return
		}
		t.val, t.err = fn(ctx)
	}()

	return t
}

// Cancel stops the task if it has not started running fn yet.
func (t *Task[T]) Cancel() {
	t.cancel()
}

// Done is closed once the task has finished or been cancelled.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task settles. Giving up on ctx cancels the task; if
// fn was already running its result is still returned.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
	case <-ctx.Done():
		t.cancel()
		<-t.done
	}
	return t.val, t.err
}
