// Package autolink extracts issue-tracker references from commit messages and
// resolves them to links, optionally enriched with live issue metadata from a
// forge provider.
package autolink

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/gitpeek/gitpeek/internal/forge"
)

// Rule describes one reference syntax, e.g. prefix "JIRA-" with URL template
// "https://company.atlassian.net/browse/JIRA-<num>".
type Rule struct {
	// Prefix is the literal text that introduces a reference ("#", "JIRA-").
	Prefix string `mapstructure:"prefix" yaml:"prefix"`

	// URLTemplate is the link target; the token <num> is replaced with the
	// matched reference id.
	URLTemplate string `mapstructure:"url" yaml:"url"`

	// Alphanumeric allows ids like "a1b2" instead of digits only.
	Alphanumeric bool `mapstructure:"alphanumeric" yaml:"alphanumeric,omitempty"`
}

// ForgeRule returns the built-in "#123" rule for a provider's repo.
func ForgeRule(p forge.Provider) Rule {
	return Rule{
		Prefix:      "#",
		URLTemplate: "https://" + p.Host() + "/" + p.RepoPath() + "/issues/<num>",
	}
}

// Match is one reference found in a message.
type Match struct {
	Rule Rule
	Ref  string // full text, e.g. "#123" or "JIRA-42"
	ID   string // id part, e.g. "123" or "42"
}

// Number returns the numeric id, or 0 for alphanumeric references.
func (m Match) Number() int {
	n, err := strconv.Atoi(m.ID)
	if err != nil {
		return 0
	}
	return n
}

// URL expands the rule's template for this match.
func (m Match) URL() string {
	return strings.ReplaceAll(m.Rule.URLTemplate, "<num>", m.ID)
}

// Link is a resolved autolink, ready for rendering. Title and State are empty
// when the reference was not (or could not be) enriched.
type Link struct {
	Ref   string `json:"ref"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	State string `json:"state,omitempty"`
}

// ParseRefs scans a commit message for references matching the given rules.
// Duplicate references are collapsed; order follows first appearance.
func ParseRefs(message string, rules []Rule) []Match {
	var matches []Match
	seen := make(map[string]bool)

	for _, rule := range rules {
		if rule.Prefix == "" {
			continue
		}
		re := rulePattern(rule)
		for _, m := range re.FindAllStringSubmatch(message, -1) {
			ref := rule.Prefix + m[1]
			if seen[ref] {
				continue
			}
			seen[ref] = true
			matches = append(matches, Match{Rule: rule, Ref: ref, ID: m[1]})
		}
	}
	return matches
}

func rulePattern(rule Rule) *regexp.Regexp {
	id := `\d+`
	if rule.Alphanumeric {
		id = `\w+`
	}
	// The prefix must not be glued to a preceding word character, so that
	// "v1#2" or "PROJIRA-1" do not match.
	return regexp.MustCompile(`(?:^|\W)` + regexp.QuoteMeta(rule.Prefix) + `(` + id + `)\b`)
}

// Resolve turns matches into links, fetching issue metadata from the provider
// for numeric forge references. Lookups run concurrently; a failed lookup
// degrades that link to its static URL rather than failing the batch.
// This is the slow, best-effort call that callers bound.
func Resolve(ctx context.Context, p forge.Provider, matches []Match) ([]Link, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	links := make([]Link, len(matches))
	var wg sync.WaitGroup
	for i, m := range matches {
		links[i] = Link{Ref: m.Ref, URL: m.URL()}

		n := m.Number()
		if p == nil || n == 0 || m.Rule.Prefix != "#" {
			continue
		}
		wg.Add(1)
		go func(i, n int) {
			defer wg.Done()
			is, err := p.IssueByNumber(ctx, n)
			if err != nil || is == nil {
				return
			}
			links[i].Title = is.Title
			links[i].State = is.State
			if is.URL != "" {
				links[i].URL = is.URL
			}
		}(i, n)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return links, fmt.Errorf("autolink resolve interrupted: %w", err)
	}
	return links, nil
}
