// Package forge abstracts remote git hosting providers (GitHub and friends)
// behind a capability-aware lookup interface. Providers are best-effort
// collaborators: lookups may be slow or unavailable, and callers bound them
// rather than trust them.
package forge

import (
	"context"
	"time"
)

// ConnectionState describes whether a provider can currently answer lookups.
type ConnectionState int

const (
	// Disconnected means the provider is known (the remote exists) but has no
	// credentials or session; lookups would fail.
	Disconnected ConnectionState = iota

	// MaybeConnected means credentials are present but unverified. Lookups
	// are worth attempting.
	MaybeConnected

	// Connected means at least one lookup has succeeded this session.
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Connected:
		return "connected"
	case MaybeConnected:
		return "maybe-connected"
	default:
		return "disconnected"
	}
}

// PullRequest is the metadata a provider returns for a commit's pull request.
type PullRequest struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	State    string     `json:"state"` // open, closed, merged
	URL      string     `json:"url"`
	Author   string     `json:"author,omitempty"`
	MergedAt *time.Time `json:"merged_at,omitempty"`
}

// Issue is the metadata a provider returns for an issue reference.
type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	URL    string `json:"url"`
}

// Provider is a remote hosting provider with issue and pull-request lookup
// capability. Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the lowercase identifier (e.g. "github").
	Name() string

	// Host returns the remote host (e.g. "github.com").
	Host() string

	// RepoPath returns the "owner/repo" path for the configured remote.
	RepoPath() string

	// SupportsPullRequests reports whether this provider can resolve a
	// commit to its pull request.
	SupportsPullRequests() bool

	// ConnectionState reports whether lookups are currently worth issuing.
	ConnectionState() ConnectionState

	// PullRequestForCommit returns the pull request that introduced the
	// commit, or nil if none is associated.
	PullRequestForCommit(ctx context.Context, sha string) (*PullRequest, error)

	// IssueByNumber returns metadata for an issue on this provider.
	IssueByNumber(ctx context.Context, number int) (*Issue, error)
}
