package hovers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gitpeek/gitpeek/internal/autolink"
	"github.com/gitpeek/gitpeek/internal/enrich"
	"github.com/gitpeek/gitpeek/internal/forge"
	"github.com/gitpeek/gitpeek/internal/git"
)

// Render expands the template into markdown for one commit plus whatever
// enrichment settled in time. Lookups that were skipped, failed, or are still
// pending render as empty (or a connect hint); the primary view never blocks
// on them.
func Render(c *git.Commit, res *enrich.Result, template string) string {
	if template == "" {
		template = DefaultDetailsFormat
	}

	r := strings.NewReplacer(
		"${"+TokenID+"}", c.ShortSHA,
		"${"+TokenSHA+"}", c.SHA,
		"${"+TokenAuthor+"}", c.Author,
		"${"+TokenEmail+"}", c.Email,
		"${"+TokenDate+"}", c.Date.Format("Jan 2, 2006 15:04"),
		"${"+TokenMessage+"}", renderMessage(c),
		"${"+TokenPullRequest+"}", renderPullRequest(res),
		"${"+TokenAutolinks+"}", renderAutolinks(res),
	)
	return tidy(r.Replace(template))
}

func renderMessage(c *git.Commit) string {
	msg := "**" + c.Subject + "**"
	if c.Body != "" {
		msg += "\n\n" + c.Body
	}
	return msg
}

func renderPullRequest(res *enrich.Result) string {
	if res == nil {
		return ""
	}
	out := res.PullRequest
	switch out.Status {
	case enrich.StatusValue:
		pr := out.Value
		if pr == nil {
			return ""
		}
		line := fmt.Sprintf("PR [#%d](%s) %s", pr.Number, pr.URL, pr.Title)
		if pr.State != "" {
			line += " _(" + pr.State + ")_"
		}
		return line
	case enrich.StatusTimedOut:
		return "_pull request lookup still running_"
	case enrich.StatusSkipped:
		if out.Skip == enrich.DecisionNotConnected && out.Remote != nil {
			return fmt.Sprintf("_connect to %s to see pull requests_", out.Remote.Host())
		}
		return ""
	default:
		return ""
	}
}

func renderAutolinks(res *enrich.Result) string {
	if res == nil || res.Autolinks.Status != enrich.StatusValue {
		return ""
	}
	return FormatLinks(res.Autolinks.Value)
}

// FormatLinks renders resolved autolinks as a markdown list.
func FormatLinks(links []autolink.Link) string {
	if len(links) == 0 {
		return ""
	}
	var b strings.Builder
	for i, l := range links {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- [" + l.Ref + "](" + l.URL + ")")
		if l.Title != "" {
			b.WriteString(" " + l.Title)
		}
		if l.State != "" {
			b.WriteString(" _(" + l.State + ")_")
		}
	}
	return b.String()
}

// FormatPullRequest renders a pull request on its own, for refresh output.
func FormatPullRequest(pr *forge.PullRequest) string {
	if pr == nil {
		return ""
	}
	line := fmt.Sprintf("PR [#%d](%s) %s", pr.Number, pr.URL, pr.Title)
	if pr.State != "" {
		line += " _(" + pr.State + ")_"
	}
	return line
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// tidy collapses the blank runs left by empty tokens.
func tidy(s string) string {
	return strings.TrimSpace(blankRuns.ReplaceAllString(s, "\n\n")) + "\n"
}
