package eventbus

import "context"

// EventType names the events the bus carries.
type EventType string

const (
	// EventEnrichmentSettled fires when a lookup that timed out during a
	// render round eventually settles, so the view can refresh.
	EventEnrichmentSettled EventType = "EnrichmentSettled"

	// EventHeadChanged fires when the watched repository HEAD moves.
	EventHeadChanged EventType = "HeadChanged"

	// EventConfigChanged fires when the configuration file is rewritten.
	EventConfigChanged EventType = "ConfigChanged"
)

// Event is what handlers receive. Fields beyond Type are populated per event
// type: SHA and Kind for EnrichmentSettled, Path for the file-driven events.
type Event struct {
	Type EventType `json:"type"`
	SHA  string    `json:"sha,omitempty"`
	Kind string    `json:"kind,omitempty"`
	Path string    `json:"path,omitempty"`
}

// Handler reacts to events. Implementations must be safe for concurrent use;
// Dispatch may be called from multiple goroutines.
type Handler interface {
	// ID identifies the handler in logs.
	ID() string

	// Handles lists the event types this handler wants.
	Handles() []EventType

	// Priority orders handlers within a dispatch (lowest first).
	Priority() int

	// Handle processes one event. Errors are logged, not propagated.
	Handle(ctx context.Context, event *Event) error
}
