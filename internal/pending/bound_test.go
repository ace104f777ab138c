package pending

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock hands out fakeTimers that fire only when the test says so.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, ch: make(chan time.Time, 1)}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) timer(i int) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[i]
}

type fakeTimer struct {
	mu      sync.Mutex
	d       time.Duration
	ch      chan time.Time
	stopped bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := t.stopped
	t.stopped = true
	return !was
}

func (t *fakeTimer) fire() {
	t.ch <- time.Now()
}

func (t *fakeTimer) wasStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func TestBoundOperationWinsRace(t *testing.T) {
	clock := &fakeClock{}
	op, settle := New[string]()

	bound := Bound(op, time.Minute, WithClock[string](clock))
	settle("hello", nil)

	got, err := bound.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("Result = %q, want %q", got, "hello")
	}

	// The non-firing branch must tear down its timer.
	waitFor(t, func() bool { return clock.timer(0).wasStopped() })
}

func TestBoundTimeoutCarriesOriginal(t *testing.T) {
	clock := &fakeClock{}
	op, settle := New[int]()

	bound := Bound(op, time.Second, WithClock[int](clock))
	clock.timer(0).fire()

	_, err := bound.Result()
	var c *Cancellation[int]
	if !errors.As(err, &c) {
		t.Fatalf("expected *Cancellation, got %v", err)
	}
	if c.Reason != "TIMED OUT" {
		t.Errorf("Reason = %q, want %q", c.Reason, "TIMED OUT")
	}
	if c.Op != op {
		t.Error("Cancellation.Op is not the original operation")
	}

	// The original operation is still live and its result is not lost.
	settle(42, nil)
	got, err := c.Op.Result()
	if err != nil {
		t.Fatalf("original operation error: %v", err)
	}
	if got != 42 {
		t.Errorf("original result = %d, want 42", got)
	}
}

func TestBoundZeroDuration(t *testing.T) {
	op, _ := New[int]()
	bound := Bound(op, 0)

	_, err := bound.Result()
	var c *Cancellation[int]
	if !errors.As(err, &c) {
		t.Fatalf("expected *Cancellation for zero duration, got %v", err)
	}
}

func TestBoundAlreadySettled(t *testing.T) {
	clock := &fakeClock{}
	op := Resolved("done")

	bound := Bound(op, 0, WithClock[string](clock))
	got, err := bound.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" {
		t.Errorf("Result = %q, want %q", got, "done")
	}

	// No timer should ever be armed for a pre-settled operation.
	clock.mu.Lock()
	n := len(clock.timers)
	clock.mu.Unlock()
	if n != 0 {
		t.Errorf("expected 0 timers, got %d", n)
	}
}

func TestBoundErrorPropagatesVerbatim(t *testing.T) {
	sentinel := fmt.Errorf("lookup exploded")
	op := Failed[int](sentinel)

	_, err := Bound(op, time.Minute).Result()
	if !errors.Is(err, sentinel) {
		t.Errorf("error = %v, want the underlying error unchanged", err)
	}
	var c *Cancellation[int]
	if errors.As(err, &c) {
		t.Error("underlying failure must not be wrapped as a Cancellation")
	}
}

func TestBoundTimerFiresAfterSettlement(t *testing.T) {
	clock := &fakeClock{}
	op, settle := New[string]()

	bound := Bound(op, time.Second, WithClock[string](clock))
	settle("fast", nil)

	// Wait for the wrapper to adopt the result, then fire the timer anyway.
	if got, err := bound.Result(); err != nil || got != "fast" {
		t.Fatalf("Result = %q, %v", got, err)
	}
	clock.timer(0).fire()

	// Exactly one settlement: the value must not be displaced.
	time.Sleep(10 * time.Millisecond)
	got, err := bound.Result()
	if err != nil || got != "fast" {
		t.Errorf("after late timer fire: Result = %q, %v; want %q, nil", got, err, "fast")
	}
}

func TestBoundSameTickPrefersOperation(t *testing.T) {
	clock := &fakeClock{}
	op, settle := New[int]()

	bound := Bound(op, time.Second, WithClock[int](clock))

	// Settle and fire on the same conceptual tick. The wrapper re-checks the
	// operation after the timer fires, so the real result wins.
	settle(7, nil)
	clock.timer(0).fire()

	got, err := bound.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("Result = %d, want 7", got)
	}
}

func TestBoundWithMessage(t *testing.T) {
	op, _ := New[int]()
	bound := Bound(op, 0, WithMessage[int]("pull request lookup timed out"))

	_, err := bound.Result()
	var c *Cancellation[int]
	if !errors.As(err, &c) {
		t.Fatalf("expected *Cancellation, got %v", err)
	}
	if c.Reason != "pull request lookup timed out" {
		t.Errorf("Reason = %q", c.Reason)
	}
	if c.Error() != c.Reason {
		t.Errorf("Error() = %q, want Reason", c.Error())
	}
}

func TestBoundWithOnCancel(t *testing.T) {
	op, _ := New[string]()
	bound := Bound(op, 0, WithOnCancel[string](func(settle func(string, error)) {
		settle("fallback", nil)
	}))

	got, err := bound.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "fallback" {
		t.Errorf("Result = %q, want %q", got, "fallback")
	}
}

func TestBoundSignalNeverFires(t *testing.T) {
	op, settle := New[int]()
	signal := make(chan struct{})

	bound := BoundSignal(op, signal)
	settle(5, nil)

	got, err := bound.Result()
	if err != nil || got != 5 {
		t.Errorf("Result = %d, %v; want 5, nil", got, err)
	}
}

func TestBoundNilSignalIsNoBound(t *testing.T) {
	op, settle := New[int]()
	bound := BoundSignal(op, nil)
	settle(9, nil)

	got, err := bound.Result()
	if err != nil || got != 9 {
		t.Errorf("Result = %d, %v; want 9, nil", got, err)
	}
}

func TestBoundSignalFires(t *testing.T) {
	op, _ := New[int]()
	signal := make(chan struct{})

	bound := BoundSignal(op, signal)
	close(signal)

	_, err := bound.Result()
	var c *Cancellation[int]
	if !errors.As(err, &c) {
		t.Fatalf("expected *Cancellation, got %v", err)
	}
	if c.Reason != "CANCELLED" {
		t.Errorf("Reason = %q, want %q", c.Reason, "CANCELLED")
	}
	if c.Op != op {
		t.Error("Cancellation.Op is not the original operation")
	}
}

func TestBoundSignalAfterSettlementIsNoOp(t *testing.T) {
	op, settle := New[string]()
	signal := make(chan struct{})

	bound := BoundSignal(op, signal)
	settle("value", nil)

	if got, err := bound.Result(); err != nil || got != "value" {
		t.Fatalf("Result = %q, %v", got, err)
	}

	close(signal)
	time.Sleep(10 * time.Millisecond)

	got, err := bound.Result()
	if err != nil || got != "value" {
		t.Errorf("after late signal: Result = %q, %v; want %q, nil", got, err, "value")
	}
}

func TestStartAndAwait(t *testing.T) {
	op := Start(context.Background(), func(ctx context.Context) (int, error) {
		return 21 * 2, nil
	})

	got, err := op.Await(context.Background())
	if err != nil || got != 42 {
		t.Errorf("Await = %d, %v; want 42, nil", got, err)
	}
	if !op.Settled() {
		t.Error("operation should report settled")
	}
}

func TestAwaitContextExpiry(t *testing.T) {
	op, settle := New[int]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := op.Await(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The operation itself is unaffected by the abandoned wait.
	settle(3, nil)
	got, err := op.Result()
	if err != nil || got != 3 {
		t.Errorf("Result = %d, %v; want 3, nil", got, err)
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	op, settle := New[int]()
	settle(1, nil)
	settle(2, fmt.Errorf("second settlement"))

	got, err := op.Result()
	if err != nil || got != 1 {
		t.Errorf("Result = %d, %v; want first settlement 1, nil", got, err)
	}
}

// waitFor polls cond for up to a second. Used where the asserted state is set
// by the bound's own goroutine just after the observable settlement.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached within 1s")
}
