// Package gitpeek provides a minimal public API for embedding the commit
// enrichment engine in other tools.
//
// Most consumers should use the gitpeek CLI. This package exports only the
// essential types and functions needed for Go programs that want to run
// bounded lookups or full enrichment rounds programmatically.
package gitpeek

import (
	"time"

	"github.com/gitpeek/gitpeek/internal/enrich"
	"github.com/gitpeek/gitpeek/internal/forge"
	"github.com/gitpeek/gitpeek/internal/pending"
)

// Core types for working with bounded asynchronous operations
type (
	Operation[T any]    = pending.Operation[T]
	Cancellation[T any] = pending.Cancellation[T]
	Option[T any]       = pending.Option[T]
)

// Enrichment types
type (
	Enricher = enrich.Enricher
	Request  = enrich.Request
	Result   = enrich.Result
	Gate     = enrich.Gate
	Timeouts = enrich.Timeouts
	Status   = enrich.Status
)

// Status constants
const (
	StatusValue    = enrich.StatusValue
	StatusSkipped  = enrich.StatusSkipped
	StatusTimedOut = enrich.StatusTimedOut
	StatusFailed   = enrich.StatusFailed
)

// Forge types
type (
	Provider    = forge.Provider
	PullRequest = forge.PullRequest
)

// WithMessage sets the reason text used when a bound fires.
func WithMessage[T any](msg string) Option[T] {
	return pending.WithMessage[T](msg)
}

// WithOnCancel substitutes custom settlement behavior when a bound fires.
func WithOnCancel[T any](fn func(settle func(T, error))) Option[T] {
	return pending.WithOnCancel[T](fn)
}

// Bound wraps op so a wait on the returned handle resolves within d. If the
// timeout fires first, the error is a *Cancellation carrying op, which keeps
// running and can still be awaited.
func Bound[T any](op *Operation[T], d time.Duration, opts ...Option[T]) *Operation[T] {
	return pending.Bound(op, d, opts...)
}

// BoundSignal is Bound with an external cancellation signal instead of a
// duration.
func BoundSignal[T any](op *Operation[T], signal <-chan struct{}, opts ...Option[T]) *Operation[T] {
	return pending.BoundSignal(op, signal, opts...)
}

// NewEnricher returns an Enricher ready to run enrichment rounds.
func NewEnricher() *Enricher {
	return enrich.NewEnricher()
}
