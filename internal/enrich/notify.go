package enrich

import (
	"context"

	"github.com/gitpeek/gitpeek/internal/eventbus"
)

// Notify attaches continuations to the retained handles of timed-out lookups
// and dispatches an EnrichmentSettled event for each one that eventually
// settles. The view layer subscribes to those events to refresh itself; if
// the view is gone, cancel ctx and the continuations stop listening (the
// operations themselves are unaffected).
func Notify(ctx context.Context, bus *eventbus.Bus, sha string, res *Result) {
	if bus == nil || res == nil {
		return
	}

	if res.Autolinks.Status == StatusTimedOut && res.Autolinks.Pending != nil {
		op := res.Autolinks.Pending
		go func() {
			if _, err := op.Await(ctx); err != nil && !op.Settled() {
				return
			}
			_ = bus.Dispatch(ctx, &eventbus.Event{
				Type: eventbus.EventEnrichmentSettled,
				SHA:  sha,
				Kind: string(KindAutolinks),
			})
		}()
	}

	if res.PullRequest.Status == StatusTimedOut && res.PullRequest.Pending != nil {
		op := res.PullRequest.Pending
		go func() {
			if _, err := op.Await(ctx); err != nil && !op.Settled() {
				return
			}
			_ = bus.Dispatch(ctx, &eventbus.Event{
				Type: eventbus.EventEnrichmentSettled,
				SHA:  sha,
				Kind: string(KindPullRequest),
			})
		}()
	}
}
