package github

import (
	"time"

	"github.com/gitpeek/gitpeek/internal/forge"
)

// pullRequest mirrors the subset of the GitHub pull request payload we use.
type pullRequest struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	State    string     `json:"state"`
	HTMLURL  string     `json:"html_url"`
	MergedAt *time.Time `json:"merged_at"`
	User     *user      `json:"user"`
}

type user struct {
	Login string `json:"login"`
}

func (p *pullRequest) toForge() *forge.PullRequest {
	pr := &forge.PullRequest{
		Number:   p.Number,
		Title:    p.Title,
		State:    p.State,
		URL:      p.HTMLURL,
		MergedAt: p.MergedAt,
	}
	// GitHub reports merged PRs as "closed"; the merge timestamp is the
	// real signal.
	if p.MergedAt != nil {
		pr.State = "merged"
	}
	if p.User != nil {
		pr.Author = p.User.Login
	}
	return pr
}

// issue mirrors the subset of the GitHub issue payload we use.
type issue struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
}

func (i *issue) toForge() *forge.Issue {
	return &forge.Issue{
		Number: i.Number,
		Title:  i.Title,
		State:  i.State,
		URL:    i.HTMLURL,
	}
}
