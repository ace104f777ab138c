// Package github implements the forge.Provider interface against the GitHub
// REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/gitpeek/gitpeek/internal/forge"
)

const (
	// DefaultAPIEndpoint is the public GitHub REST API base URL.
	DefaultAPIEndpoint = "https://api.github.com"

	// DefaultTimeout bounds a single HTTP round trip. Callers impose their
	// own, usually much tighter, per-lookup bounds on top of this.
	DefaultTimeout = 30 * time.Second

	retryMaxElapsed = 10 * time.Second
)

// Client talks to the GitHub REST API for a single owner/repo.
type Client struct {
	Token      string
	Owner      string
	Repo       string
	BaseURL    string
	HTTPClient *http.Client

	// connected flips to true after the first successful request.
	connected atomic.Bool
}

// NewClient creates a client for owner/repo. An empty token yields a
// provider that reports Disconnected and refuses lookups.
func NewClient(token, owner, repo string) *Client {
	return &Client{
		Token:   token,
		Owner:   owner,
		Repo:    repo,
		BaseURL: DefaultAPIEndpoint,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// NewProvider is a forge.Factory for github.com remotes.
func NewProvider(remote forge.Remote, token string) forge.Provider {
	return NewClient(token, remote.Owner, remote.Repo)
}

// WithHTTPClient returns a new client with a custom HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		Token:      c.Token,
		Owner:      c.Owner,
		Repo:       c.Repo,
		BaseURL:    c.BaseURL,
		HTTPClient: httpClient,
	}
}

// WithBaseURL returns a new client with a custom base URL (for testing or
// GitHub Enterprise).
func (c *Client) WithBaseURL(baseURL string) *Client {
	return &Client{
		Token:      c.Token,
		Owner:      c.Owner,
		Repo:       c.Repo,
		BaseURL:    baseURL,
		HTTPClient: c.HTTPClient,
	}
}

// Name implements forge.Provider.
func (c *Client) Name() string { return "github" }

// Host implements forge.Provider.
func (c *Client) Host() string { return "github.com" }

// RepoPath returns the "owner/repo" path segment.
func (c *Client) RepoPath() string { return c.Owner + "/" + c.Repo }

// SupportsPullRequests implements forge.Provider. GitHub always can.
func (c *Client) SupportsPullRequests() bool { return true }

// ConnectionState implements forge.Provider. Without a token the provider is
// Disconnected; with a token it is MaybeConnected until a request succeeds.
func (c *Client) ConnectionState() forge.ConnectionState {
	if c.Token == "" {
		return forge.Disconnected
	}
	if c.connected.Load() {
		return forge.Connected
	}
	return forge.MaybeConnected
}

// buildURL constructs a full API URL.
func (c *Client) buildURL(path string, params map[string]string) string {
	u := c.BaseURL + path
	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		u += "?" + values.Encode()
	}
	return u
}

// get performs an authenticated GET with exponential-backoff retry on
// transient failures. Rate-limit responses honor Retry-After when present.
func (c *Client) get(ctx context.Context, urlStr string) ([]byte, error) {
	var body []byte

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = retryMaxElapsed

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+c.Token)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		const maxResponseSize = 10 * 1024 * 1024
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		// GitHub signals rate limiting with 429, or 403 plus a zeroed
		// X-RateLimit-Remaining header.
		if resp.StatusCode == http.StatusTooManyRequests ||
			(resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0") {
			return fmt.Errorf("rate limited (status %d)", resp.StatusCode)
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error (status %d)", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("API error: %s (status %d)", string(respBody), resp.StatusCode))
		}

		body = respBody
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	c.connected.Store(true)
	return body, nil
}

// PullRequestForCommit implements forge.Provider using the commit pulls
// endpoint. Returns nil, nil when no pull request is associated.
func (c *Client) PullRequestForCommit(ctx context.Context, sha string) (*forge.PullRequest, error) {
	if c.Token == "" {
		return nil, fmt.Errorf("github: %s: no token configured", c.RepoPath())
	}

	urlStr := c.buildURL("/repos/"+c.RepoPath()+"/commits/"+url.PathEscape(sha)+"/pulls", nil)
	body, err := c.get(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull requests for %s: %w", sha, err)
	}

	var prs []pullRequest
	if err := json.Unmarshal(body, &prs); err != nil {
		return nil, fmt.Errorf("failed to parse pull request response: %w", err)
	}
	if len(prs) == 0 {
		return nil, nil
	}

	// GitHub orders the association list most-relevant first.
	return prs[0].toForge(), nil
}

// IssueByNumber implements forge.Provider.
func (c *Client) IssueByNumber(ctx context.Context, number int) (*forge.Issue, error) {
	if c.Token == "" {
		return nil, fmt.Errorf("github: %s: no token configured", c.RepoPath())
	}

	urlStr := c.buildURL("/repos/"+c.RepoPath()+"/issues/"+strconv.Itoa(number), nil)
	body, err := c.get(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}

	var is issue
	if err := json.Unmarshal(body, &is); err != nil {
		return nil, fmt.Errorf("failed to parse issue response: %w", err)
	}
	return is.toForge(), nil
}
