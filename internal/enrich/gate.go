package enrich

import "github.com/gitpeek/gitpeek/internal/forge"

// Decision is the gate's verdict on whether an enrichment lookup is worth
// issuing. Anything other than DecisionRelevant means the lookup is skipped
// before any network call is made; the distinct skip reasons are preserved in
// the outcome so callers can tell "feature off" from "remote could answer if
// connected".
type Decision int

const (
	// DecisionRelevant means the lookup should be issued.
	DecisionRelevant Decision = iota

	// DecisionDisabled means the feature is off in configuration.
	DecisionDisabled

	// DecisionNotReferenced means the output template uses none of the
	// fields this lookup would populate.
	DecisionNotReferenced

	// DecisionNoRemote means no provider exists for the repository.
	DecisionNoRemote

	// DecisionNotSupported means the provider cannot answer this lookup.
	DecisionNotSupported

	// DecisionNotConnected means the provider exists and could answer, but
	// has no credentials or session right now.
	DecisionNotConnected
)

func (d Decision) String() string {
	switch d {
	case DecisionRelevant:
		return "relevant"
	case DecisionDisabled:
		return "disabled"
	case DecisionNotReferenced:
		return "not-referenced"
	case DecisionNoRemote:
		return "no-remote"
	case DecisionNotSupported:
		return "not-supported"
	case DecisionNotConnected:
		return "not-connected"
	default:
		return "unknown"
	}
}

// Relevant reports whether the lookup should be issued.
func (d Decision) Relevant() bool { return d == DecisionRelevant }

// HasPredicate answers whether a template references any of the named fields.
// The concrete implementation belongs to the rendering layer and is injected
// here (hovers.Has in production).
type HasPredicate func(template string, fields ...string) bool

// Gate decides per lookup kind whether issuing it is worthwhile. It is pure:
// no suspension, no side effects.
type Gate struct {
	// AutolinksEnabled and PullRequestsEnabled come from configuration.
	AutolinksEnabled    bool
	PullRequestsEnabled bool

	// Template is the configured hover layout; Has tests field references
	// against it.
	Template string
	Has      HasPredicate

	// AutolinkFields and PullRequestFields are the template fields each
	// lookup populates.
	AutolinkFields    []string
	PullRequestFields []string
}

// Autolinks gates the issue-link lookup.
func (g Gate) Autolinks(p forge.Provider) Decision {
	if !g.AutolinksEnabled {
		return DecisionDisabled
	}
	if g.Has != nil && !g.Has(g.Template, g.AutolinkFields...) {
		return DecisionNotReferenced
	}
	if p == nil {
		return DecisionNoRemote
	}
	return DecisionRelevant
}

// PullRequest gates the pull-request lookup. A known-but-disconnected remote
// yields DecisionNotConnected rather than a plain skip, so the caller can
// surface that the remote could answer if connected.
func (g Gate) PullRequest(p forge.Provider) Decision {
	if !g.PullRequestsEnabled {
		return DecisionDisabled
	}
	if g.Has != nil && !g.Has(g.Template, g.PullRequestFields...) {
		return DecisionNotReferenced
	}
	if p == nil {
		return DecisionNoRemote
	}
	if !p.SupportsPullRequests() {
		return DecisionNotSupported
	}
	if p.ConnectionState() == forge.Disconnected {
		return DecisionNotConnected
	}
	return DecisionRelevant
}
