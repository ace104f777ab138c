// Package hovers formats commit details as markdown from a token template,
// and answers which tokens a template references so callers can skip lookups
// whose output would never be shown.
package hovers

import "strings"

// Template tokens. A template is plain markdown with ${token} placeholders.
const (
	TokenID          = "id"
	TokenSHA         = "sha"
	TokenAuthor      = "author"
	TokenEmail       = "email"
	TokenDate        = "date"
	TokenMessage     = "message"
	TokenPullRequest = "pullRequest"
	TokenAutolinks   = "autolinks"
)

// DefaultDetailsFormat is the hover layout used when no template is
// configured.
const DefaultDetailsFormat = "${author}, ${date}\n\n${message}\n\n${pullRequest}\n\n${autolinks}\n\n`${id}`"

// Has reports whether the template references any of the given tokens.
// It is the gate's field-reference predicate: a lookup whose tokens never
// appear in the output template is not worth issuing.
func Has(template string, tokens ...string) bool {
	for _, tok := range tokens {
		if strings.Contains(template, "${"+tok+"}") {
			return true
		}
	}
	return false
}
