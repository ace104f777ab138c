package pending

import (
	"time"
)

// Default reason texts for the two bound flavors.
const (
	reasonTimedOut  = "TIMED OUT"
	reasonCancelled = "CANCELLED"
)

// Option configures a bounded wait.
type Option[T any] func(*boundOptions[T])

type boundOptions[T any] struct {
	message  string
	onCancel func(settle func(T, error))
	clock    Clock
}

// WithMessage sets the reason text used when the bound fires.
func WithMessage[T any](msg string) Option[T] {
	return func(o *boundOptions[T]) { o.message = msg }
}

// WithOnCancel substitutes custom behavior when the bound fires. Instead of
// settling with a *Cancellation, the callback is invoked with the settle
// function and decides the wrapper's settlement itself (for example a
// fallback value). The callback runs at most once.
func WithOnCancel[T any](fn func(settle func(T, error))) Option[T] {
	return func(o *boundOptions[T]) { o.onCancel = fn }
}

// WithClock injects the timer source. Tests use a fake clock; the default is
// SystemClock.
func WithClock[T any](c Clock) Option[T] {
	return func(o *boundOptions[T]) { o.clock = c }
}

// Bound returns an Operation that settles with op's result if op settles
// within d, and otherwise with a *Cancellation carrying op. The wrapper
// settles exactly once. When op wins the race the timer is stopped; when the
// timer wins, op keeps running and stays reachable through the Cancellation.
//
// A duration of zero fires immediately unless op is already settled.
func Bound[T any](op *Operation[T], d time.Duration, opts ...Option[T]) *Operation[T] {
	o := boundOptions[T]{message: reasonTimedOut, clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	// Already-settled operations bind trivially; no timer is ever armed.
	if op.Settled() {
		out, settle := New[T]()
		settle(op.Result())
		return out
	}

	out, settle := New[T]()
	timer := o.clock.NewTimer(d)
	go func() {
		select {
		case <-op.Done():
			timer.Stop()
			settle(op.Result())
		case <-timer.C():
			// The operation may have settled on the same tick; prefer its
			// result so the caller never sees a spurious cancellation.
			if op.Settled() {
				settle(op.Result())
				return
			}
			if o.onCancel != nil {
				o.onCancel(settle)
				return
			}
			var zero T
			settle(zero, &Cancellation[T]{Reason: o.message, Op: op})
		}
	}()
	return out
}

// BoundSignal is Bound with an external cancellation signal in place of a
// duration. The signal channel firing (or closing) before op settles yields a
// *Cancellation; a signal that never fires leaves op's natural settlement
// untouched. A nil signal never fires.
//
// The signal stops only this wait. op itself is not cancelled.
func BoundSignal[T any](op *Operation[T], signal <-chan struct{}, opts ...Option[T]) *Operation[T] {
	o := boundOptions[T]{message: reasonCancelled}
	for _, opt := range opts {
		opt(&o)
	}

	if op.Settled() {
		out, settle := New[T]()
		settle(op.Result())
		return out
	}

	out, settle := New[T]()
	go func() {
		select {
		case <-op.Done():
			settle(op.Result())
		case <-signal:
			if op.Settled() {
				settle(op.Result())
				return
			}
			if o.onCancel != nil {
				o.onCancel(settle)
				return
			}
			var zero T
			settle(zero, &Cancellation[T]{Reason: o.message, Op: op})
		}
	}()
	return out
}
