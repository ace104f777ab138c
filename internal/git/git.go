// Package git reads commit and remote information from a repository by
// shelling out to the git CLI.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Repo runs git commands in a single working directory.
type Repo struct {
	// Dir is the working directory passed to git. Empty means the current
	// directory.
	Dir string
}

// Open verifies dir is inside a git repository and returns a Repo for it.
func Open(ctx context.Context, dir string) (*Repo, error) {
	r := &Repo{Dir: dir}
	if _, err := r.run(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	return r, nil
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", args[0], strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

// GitDir returns the repository's .git directory. In a worktree this is the
// worktree-specific directory, which is where HEAD lives.
func (r *Repo) GitDir(ctx context.Context) (string, error) {
	dir, err := r.run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	return dir, nil
}

// HeadPath returns the path of the HEAD file, for file watchers.
func (r *Repo) HeadPath(ctx context.Context) (string, error) {
	gitDir, err := r.GitDir(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(gitDir, "HEAD"), nil
}

// TopLevel returns the root of the working tree, where the repo-local config
// file lives.
func (r *Repo) TopLevel(ctx context.Context) (string, error) {
	return r.run(ctx, "rev-parse", "--show-toplevel")
}

// RemoteURL returns the fetch URL of the named remote ("origin" etc).
func (r *Repo) RemoteURL(ctx context.Context, name string) (string, error) {
	url, err := r.run(ctx, "remote", "get-url", name)
	if err != nil {
		return "", fmt.Errorf("remote %q: %w", name, err)
	}
	return url, nil
}

// showFieldSep is an unlikely-in-messages separator for git show output.
const showFieldSep = "\x1f"

// showFormat lays out the commit fields we parse. %B (raw body) goes last so
// embedded newlines cannot split other fields.
const showFormat = "%H" + showFieldSep + "%h" + showFieldSep + "%an" + showFieldSep + "%ae" + showFieldSep + "%aI" + showFieldSep + "%B"

// Commit holds the details rendered in the hover view.
type Commit struct {
	SHA      string
	ShortSHA string
	Author   string
	Email    string
	Date     time.Time
	Subject  string
	Body     string
}

// Message returns the full commit message (subject plus body).
func (c *Commit) Message() string {
	if c.Body == "" {
		return c.Subject
	}
	return c.Subject + "\n\n" + c.Body
}

// Show resolves ref (HEAD, a sha, a branch...) to its commit details.
func (r *Repo) Show(ctx context.Context, ref string) (*Commit, error) {
	out, err := r.run(ctx, "show", "-s", "--format="+showFormat, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref, err)
	}
	c, err := parseCommit(out)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref, err)
	}
	return c, nil
}

func parseCommit(out string) (*Commit, error) {
	parts := strings.SplitN(out, showFieldSep, 6)
	if len(parts) != 6 {
		return nil, fmt.Errorf("unexpected git show output (%d fields)", len(parts))
	}

	date, err := time.Parse(time.RFC3339, parts[4])
	if err != nil {
		return nil, fmt.Errorf("bad author date %q: %w", parts[4], err)
	}

	subject, body := splitMessage(parts[5])
	return &Commit{
		SHA:      parts[0],
		ShortSHA: parts[1],
		Author:   parts[2],
		Email:    parts[3],
		Date:     date,
		Subject:  subject,
		Body:     body,
	}, nil
}

func splitMessage(raw string) (subject, body string) {
	msg := strings.TrimSpace(raw)
	if i := strings.Index(msg, "\n"); i >= 0 {
		return strings.TrimSpace(msg[:i]), strings.TrimSpace(msg[i+1:])
	}
	return msg, ""
}
