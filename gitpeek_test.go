package gitpeek

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gitpeek/gitpeek/internal/pending"
)

func TestBoundThroughPublicAPI(t *testing.T) {
	op := pending.Start(context.Background(), func(ctx context.Context) (int, error) {
		time.Sleep(100 * time.Millisecond)
		return 7, nil
	})

	bound := Bound(op, 10*time.Millisecond)
	_, err := bound.Result()

	var c *Cancellation[int]
	if !errors.As(err, &c) {
		t.Fatalf("Result() error = %v, want *Cancellation", err)
	}
	if c.Op != op {
		t.Error("Cancellation does not carry the original operation")
	}

	if v, err := c.Op.Result(); err != nil || v != 7 {
		t.Errorf("late result = %d, %v; want 7", v, err)
	}
}

func TestBoundSignalThroughPublicAPI(t *testing.T) {
	op, settle := pending.New[string]()
	bound := BoundSignal(op, nil)

	settle("done", nil)
	if v, err := bound.Result(); err != nil || v != "done" {
		t.Errorf("Result() = %q, %v; want done", v, err)
	}
}
