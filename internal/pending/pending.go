// Package pending provides handles to in-flight asynchronous operations and
// a way to bound how long a caller waits on them without discarding the
// operation itself.
//
// An Operation settles exactly once. Bound and BoundSignal wrap an Operation
// so the wait resolves no later than a timeout or cancellation event; when
// the bound fires first, the caller receives a *Cancellation that still holds
// the original Operation, so the slow result is not lost — only no longer
// waited on.
package pending

import (
	"context"
	"sync"
)

// Operation is a handle to an already-started asynchronous computation.
// It settles exactly once with a value or an error; all accessors observe
// the same settlement.
type Operation[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// New returns an unsettled Operation and the function that settles it.
// The settle function is idempotent: only the first call takes effect.
func New[T any]() (*Operation[T], func(T, error)) {
	op := &Operation[T]{done: make(chan struct{})}
	return op, op.settle
}

// Start runs fn in its own goroutine and returns a handle to it.
// The handle settles with fn's return values. fn receives ctx unchanged;
// callers that want the operation to outlive a bounded wait should pass a
// context that is not cancelled when the bound fires.
func Start[T any](ctx context.Context, fn func(context.Context) (T, error)) *Operation[T] {
	op, settle := New[T]()
	go func() {
		settle(fn(ctx))
	}()
	return op
}

// Resolved returns an Operation already settled with v.
func Resolved[T any](v T) *Operation[T] {
	op, settle := New[T]()
	settle(v, nil)
	return op
}

// Failed returns an Operation already settled with err.
func Failed[T any](err error) *Operation[T] {
	op, settle := New[T]()
	var zero T
	settle(zero, err)
	return op
}

func (o *Operation[T]) settle(v T, err error) {
	o.once.Do(func() {
		o.val = v
		o.err = err
		close(o.done)
	})
}

// Done returns a channel that is closed when the operation has settled.
func (o *Operation[T]) Done() <-chan struct{} {
	return o.done
}

// Settled reports whether the operation has settled.
func (o *Operation[T]) Settled() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Result blocks until the operation settles, then returns its value and error.
func (o *Operation[T]) Result() (T, error) {
	<-o.done
	return o.val, o.err
}

// Await waits for the operation to settle or ctx to end, whichever is first.
// On ctx expiry it returns ctx's error; the operation itself keeps running.
func (o *Operation[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-o.done:
		return o.val, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancellation is the error produced when a bound fires before the wrapped
// operation settles. It carries the original, still-running Operation so the
// caller can keep listening for the eventual result. Holding a Cancellation
// does not stop the operation.
type Cancellation[T any] struct {
	// Reason is human-readable text for the bound that fired
	// ("TIMED OUT", "CANCELLED", or a caller-supplied message).
	Reason string

	// Op is the original operation, reference-identical to the one that was
	// bounded. It settles on its own schedule.
	Op *Operation[T]
}

func (c *Cancellation[T]) Error() string {
	return c.Reason
}
