package forge

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnknownHost is returned when a remote URL does not map to any known
// provider. Callers treat this as "no remote" rather than a failure.
var ErrUnknownHost = errors.New("forge: no provider for remote host")

// Remote identifies a parsed git remote.
type Remote struct {
	Host  string
	Owner string
	Repo  string
}

// scpLikePattern matches git's scp-like syntax: git@github.com:owner/repo.git
var scpLikePattern = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):(.+)$`)

// ParseRemoteURL extracts host, owner, and repo from the common git remote
// URL shapes (https, ssh, scp-like).
func ParseRemoteURL(raw string) (Remote, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Remote{}, fmt.Errorf("forge: empty remote URL")
	}

	var host, path string
	switch {
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "ssh://"):
		rest := s[strings.Index(s, "://")+3:]
		if at := strings.Index(rest, "@"); at >= 0 {
			rest = rest[at+1:]
		}
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return Remote{}, fmt.Errorf("forge: malformed remote URL %q", raw)
		}
		host, path = rest[:slash], rest[slash+1:]
	default:
		m := scpLikePattern.FindStringSubmatch(s)
		if m == nil {
			return Remote{}, fmt.Errorf("forge: unrecognized remote URL %q", raw)
		}
		host, path = m[1], m[2]
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Remote{}, fmt.Errorf("forge: remote URL %q has no owner/repo path", raw)
	}

	return Remote{Host: strings.ToLower(host), Owner: parts[len(parts)-2], Repo: parts[len(parts)-1]}, nil
}

// Factory builds a Provider for a parsed remote. The token may be empty, in
// which case the provider reports Disconnected but is still registered so
// callers can surface "this remote could answer if connected".
type Factory func(remote Remote, token string) Provider

// Registry maps remote hosts to provider factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry. Use Register to add providers.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for a host (e.g. "github.com").
func (r *Registry) Register(host string, f Factory) {
	r.factories[strings.ToLower(host)] = f
}

// ForRemoteURL resolves a remote URL to a Provider, or ErrUnknownHost when no
// factory is registered for its host.
func (r *Registry) ForRemoteURL(rawURL, token string) (Provider, error) {
	remote, err := ParseRemoteURL(rawURL)
	if err != nil {
		return nil, err
	}
	f, ok := r.factories[remote.Host]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHost, remote.Host)
	}
	return f(remote, token), nil
}
