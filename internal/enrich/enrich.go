// Package enrich orchestrates best-effort, latency-bounded lookups that
// augment a commit details view: issue autolinks and pull-request metadata.
//
// Each lookup is gated before being issued at all, wrapped in a bounded
// operation with its own timeout, and awaited concurrently with its siblings.
// Whatever has settled when the round ends is combined into a Result; lookups
// that timed out keep their still-running operation handle so a later refresh
// can pick the value up instead of losing it.
package enrich

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/gitpeek/gitpeek/internal/autolink"
	"github.com/gitpeek/gitpeek/internal/debug"
	"github.com/gitpeek/gitpeek/internal/forge"
	"github.com/gitpeek/gitpeek/internal/git"
	"github.com/gitpeek/gitpeek/internal/pending"
)

// Kind tags one enrichment lookup.
type Kind string

const (
	KindAutolinks   Kind = "autolinks"
	KindPullRequest Kind = "pullrequest"
)

// Status classifies a lookup's outcome for one orchestration round.
type Status int

const (
	// StatusValue means the lookup settled with a value inside its bound.
	StatusValue Status = iota

	// StatusSkipped means the gate decided against issuing the lookup;
	// no network call was made.
	StatusSkipped

	// StatusTimedOut means the bound fired first. The outcome retains the
	// still-running operation handle.
	StatusTimedOut

	// StatusFailed means the underlying call itself errored.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusValue:
		return "value"
	case StatusSkipped:
		return "skipped"
	case StatusTimedOut:
		return "timed-out"
	default:
		return "failed"
	}
}

// Outcome is the per-kind result of a round. Exactly one of the branches is
// meaningful, selected by Status.
type Outcome[T any] struct {
	Status Status

	// Value is set when Status is StatusValue.
	Value T

	// Err is set when Status is StatusFailed.
	Err error

	// Pending is the original, still-running operation when Status is
	// StatusTimedOut. Awaiting it independently still yields the eventual
	// value.
	Pending *pending.Operation[T]

	// Skip records why the gate rejected the lookup when Status is
	// StatusSkipped.
	Skip Decision

	// Remote is remembered for skipped pull-request lookups whose provider
	// could answer if connected.
	Remote forge.Provider
}

// Timeouts bounds each lookup independently. Zero values fall back to
// DefaultTimeout.
type Timeouts struct {
	Autolinks    time.Duration
	PullRequests time.Duration
}

// DefaultTimeout is the per-lookup bound when none is configured.
const DefaultTimeout = 250 * time.Millisecond

func (t Timeouts) autolinks() time.Duration {
	if t.Autolinks > 0 {
		return t.Autolinks
	}
	return DefaultTimeout
}

func (t Timeouts) pullRequests() time.Duration {
	if t.PullRequests > 0 {
		return t.PullRequests
	}
	return DefaultTimeout
}

// Request describes one orchestration round for one commit.
type Request struct {
	Commit   *git.Commit
	Remote   forge.Provider // nil when the repo has no recognized remote
	Rules    []autolink.Rule
	Gate     Gate
	Timeouts Timeouts
}

// Result is the combined best-effort result set of a round. Every kind gets
// exactly one outcome.
type Result struct {
	Autolinks   Outcome[[]autolink.Link]
	PullRequest Outcome[*forge.PullRequest]
}

// HasPending reports whether any lookup timed out and retains a live handle.
func (r *Result) HasPending() bool {
	return r.Autolinks.Status == StatusTimedOut || r.PullRequest.Status == StatusTimedOut
}

// Adopt promotes timed-out outcomes whose retained operation has since
// settled into their final value or failure. Outcomes still in flight are
// left untouched.
func (r *Result) Adopt() {
	r.Autolinks = adopt(r.Autolinks)
	r.PullRequest = adopt(r.PullRequest)
}

func adopt[T any](out Outcome[T]) Outcome[T] {
	if out.Status != StatusTimedOut || out.Pending == nil || !out.Pending.Settled() {
		return out
	}
	v, err := out.Pending.Result()
	if err != nil {
		return Outcome[T]{Status: StatusFailed, Err: err}
	}
	return Outcome[T]{Status: StatusValue, Value: v}
}

// Enricher runs orchestration rounds. The zero value is usable; NewEnricher
// wires the tracer.
type Enricher struct {
	tracer trace.Tracer
	clock  pending.Clock
}

// NewEnricher returns an Enricher reporting spans through the global tracer
// provider.
func NewEnricher() *Enricher {
	return &Enricher{tracer: otel.Tracer("github.com/gitpeek/gitpeek/internal/enrich")}
}

// WithClock returns a copy using c for bound timers. Tests use a fake clock.
func (e *Enricher) WithClock(c pending.Clock) *Enricher {
	return &Enricher{tracer: e.tracer, clock: c}
}

// Enrich evaluates the gate per kind, issues the relevant lookups wrapped in
// per-kind bounds, and awaits them concurrently. It returns when every issued
// wrapper has settled or ctx (the caller's own outer, distinct bound) ends.
//
// The round itself never fails: one lookup's error is recorded as
// StatusFailed in its outcome and cannot affect its siblings.
func (e *Enricher) Enrich(ctx context.Context, req Request) *Result {
	res := &Result{}
	started := time.Now()

	// Lookups must outlive a fired bound so their late results stay
	// available for refresh. Detach them from the round's cancellation.
	opCtx := context.WithoutCancel(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Autolinks = runLookup(gctx, e, KindAutolinks,
			req.Gate.Autolinks(req.Remote), req.Remote, req.Timeouts.autolinks(),
			func() *pending.Operation[[]autolink.Link] {
				return pending.Start(opCtx, func(ctx context.Context) ([]autolink.Link, error) {
					matches := autolink.ParseRefs(req.Commit.Message(), req.Rules)
					return autolink.Resolve(ctx, req.Remote, matches)
				})
			})
		return nil
	})
	g.Go(func() error {
		res.PullRequest = runLookup(gctx, e, KindPullRequest,
			req.Gate.PullRequest(req.Remote), req.Remote, req.Timeouts.pullRequests(),
			func() *pending.Operation[*forge.PullRequest] {
				return pending.Start(opCtx, func(ctx context.Context) (*forge.PullRequest, error) {
					return req.Remote.PullRequestForCommit(ctx, req.Commit.SHA)
				})
			})
		return nil
	})
	_ = g.Wait()

	debug.Logf("enrich: round for %s done in %s (autolinks=%s, pullrequest=%s)\n",
		req.Commit.ShortSHA, time.Since(started), res.Autolinks.Status, res.PullRequest.Status)
	return res
}

// runLookup applies the gate decision, issues and bounds one lookup, and
// classifies its settlement.
func runLookup[T any](ctx context.Context, e *Enricher, kind Kind, dec Decision,
	remote forge.Provider, timeout time.Duration, start func() *pending.Operation[T]) Outcome[T] {

	ctx, span := e.span(ctx, kind)
	defer span.End()

	if !dec.Relevant() {
		span.SetAttributes(attribute.String("outcome", "skipped"), attribute.String("reason", dec.String()))
		out := Outcome[T]{Status: StatusSkipped, Skip: dec}
		if dec == DecisionNotConnected || dec == DecisionNotSupported {
			out.Remote = remote
		}
		return out
	}

	op := start()
	opts := []pending.Option[T]{pending.WithMessage[T]("TIMED OUT")}
	if e.clock != nil {
		opts = append(opts, pending.WithClock[T](e.clock))
	}
	bound := pending.Bound(op, timeout, opts...)

	v, err := bound.Await(ctx)
	out := classify(op, v, err)
	span.SetAttributes(attribute.String("outcome", out.Status.String()))
	return out
}

func classify[T any](op *pending.Operation[T], v T, err error) Outcome[T] {
	switch {
	case err == nil:
		return Outcome[T]{Status: StatusValue, Value: v}
	default:
		var c *pending.Cancellation[T]
		if errors.As(err, &c) {
			return Outcome[T]{Status: StatusTimedOut, Pending: c.Op}
		}
		// The caller's outer deadline elapsing mid-await is also a bound:
		// the lookup is still running, so keep its handle.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Outcome[T]{Status: StatusTimedOut, Pending: op}
		}
		return Outcome[T]{Status: StatusFailed, Err: err}
	}
}

func (e *Enricher) span(ctx context.Context, kind Kind) (context.Context, trace.Span) {
	tracer := e.tracer
	if tracer == nil {
		tracer = otel.Tracer("github.com/gitpeek/gitpeek/internal/enrich")
	}
	return tracer.Start(ctx, "enrich."+string(kind),
		trace.WithAttributes(attribute.String("enrich.kind", string(kind))))
}
