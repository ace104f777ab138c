package enrich

import (
	"context"
	"strings"
	"testing"

	"github.com/gitpeek/gitpeek/internal/forge"
)

type stubProvider struct {
	host       string
	state      forge.ConnectionState
	supportsPR bool
	pr         *forge.PullRequest
	prErr      error
	issues     map[int]*forge.Issue
}

func (s *stubProvider) Name() string               { return "stub" }
func (s *stubProvider) Host() string               { return s.host }
func (s *stubProvider) RepoPath() string           { return "acme/widgets" }
func (s *stubProvider) SupportsPullRequests() bool { return s.supportsPR }

func (s *stubProvider) ConnectionState() forge.ConnectionState {
	return s.state
}

func (s *stubProvider) PullRequestForCommit(ctx context.Context, sha string) (*forge.PullRequest, error) {
	return s.pr, s.prErr
}

func (s *stubProvider) IssueByNumber(ctx context.Context, number int) (*forge.Issue, error) {
	return s.issues[number], nil
}

func containsField(template string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(template, f) {
			return true
		}
	}
	return false
}

func testGate() Gate {
	return Gate{
		AutolinksEnabled:    true,
		PullRequestsEnabled: true,
		Template:            "autolinks pullRequest",
		Has:                 containsField,
		AutolinkFields:      []string{"autolinks"},
		PullRequestFields:   []string{"pullRequest"},
	}
}

func TestGateAutolinks(t *testing.T) {
	provider := &stubProvider{state: forge.MaybeConnected}

	tests := []struct {
		name     string
		mutate   func(*Gate)
		provider forge.Provider
		want     Decision
	}{
		{"relevant", func(g *Gate) {}, provider, DecisionRelevant},
		{"disabled", func(g *Gate) { g.AutolinksEnabled = false }, provider, DecisionDisabled},
		{"not referenced", func(g *Gate) { g.Template = "plain" }, provider, DecisionNotReferenced},
		{"no remote", func(g *Gate) {}, nil, DecisionNoRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGate()
			tt.mutate(&g)
			if got := g.Autolinks(tt.provider); got != tt.want {
				t.Errorf("Autolinks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGatePullRequest(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Gate)
		provider forge.Provider
		want     Decision
	}{
		{"relevant maybe-connected", func(g *Gate) {},
			&stubProvider{state: forge.MaybeConnected, supportsPR: true}, DecisionRelevant},
		{"relevant connected", func(g *Gate) {},
			&stubProvider{state: forge.Connected, supportsPR: true}, DecisionRelevant},
		{"disabled", func(g *Gate) { g.PullRequestsEnabled = false },
			&stubProvider{state: forge.Connected, supportsPR: true}, DecisionDisabled},
		{"not referenced", func(g *Gate) { g.Template = "autolinks only" },
			&stubProvider{state: forge.Connected, supportsPR: true}, DecisionNotReferenced},
		{"no remote", func(g *Gate) {}, nil, DecisionNoRemote},
		{"not supported", func(g *Gate) {},
			&stubProvider{state: forge.Connected}, DecisionNotSupported},
		{"not connected", func(g *Gate) {},
			&stubProvider{state: forge.Disconnected, supportsPR: true}, DecisionNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGate()
			tt.mutate(&g)
			if got := g.PullRequest(tt.provider); got != tt.want {
				t.Errorf("PullRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGateIsPure(t *testing.T) {
	// The gate must not touch the provider's lookup methods; only capability
	// and connection accessors.
	g := testGate()
	p := &stubProvider{state: forge.Disconnected, supportsPR: true,
		prErr: errShouldNotBeCalled{}}

	if got := g.PullRequest(p); got != DecisionNotConnected {
		t.Fatalf("PullRequest() = %v, want %v", got, DecisionNotConnected)
	}
}

type errShouldNotBeCalled struct{}

func (errShouldNotBeCalled) Error() string { return "lookup must not be issued" }
