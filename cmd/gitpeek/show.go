package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gitpeek/gitpeek/internal/autolink"
	"github.com/gitpeek/gitpeek/internal/config"
	"github.com/gitpeek/gitpeek/internal/debug"
	"github.com/gitpeek/gitpeek/internal/enrich"
	"github.com/gitpeek/gitpeek/internal/eventbus"
	"github.com/gitpeek/gitpeek/internal/forge"
	"github.com/gitpeek/gitpeek/internal/forge/github"
	"github.com/gitpeek/gitpeek/internal/git"
	"github.com/gitpeek/gitpeek/internal/hovers"
	"github.com/gitpeek/gitpeek/internal/ui"
)

var (
	showTimeout     time.Duration
	showWait        bool
	showWaitTimeout time.Duration
	showFollow      bool
	showRemote      string
)

var showCmd = &cobra.Command{
	Use:   "show [ref]",
	Short: "Render enriched details for a commit (default HEAD)",
	Long: `Render commit details as markdown: author, date, and message from git,
plus issue autolinks and pull-request info looked up best-effort from the
repository's remote.

Each lookup has its own timeout. A lookup that misses it is simply omitted
from the first render; with --wait, gitpeek keeps listening and re-renders
when the slow lookup eventually settles. With --follow, gitpeek watches the
repository HEAD and re-renders on every new commit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := "HEAD"
		if len(args) == 1 {
			ref = args[0]
		}
		return runShow(cmd.Context(), ref)
	},
}

func init() {
	showCmd.Flags().DurationVar(&showTimeout, "timeout", 2*time.Second, "outer deadline for the whole render round")
	showCmd.Flags().BoolVar(&showWait, "wait", false, "re-render when timed-out lookups settle late")
	showCmd.Flags().DurationVar(&showWaitTimeout, "wait-timeout", 15*time.Second, "how long --wait listens for late results")
	showCmd.Flags().BoolVar(&showFollow, "follow", false, "watch HEAD and re-render on new commits")
	showCmd.Flags().StringVar(&showRemote, "remote", "", "git remote backing the forge lookups (default from config)")
	rootCmd.AddCommand(showCmd)
}

func runShow(ctx context.Context, ref string) error {
	repo, err := git.Open(ctx, "")
	if err != nil {
		return err
	}

	top, err := repo.TopLevel(ctx)
	if err != nil {
		return err
	}
	cfg, err := config.Load(top)
	if err != nil {
		return err
	}

	if err := renderOnce(ctx, repo, cfg, ref); err != nil {
		return err
	}

	if showFollow {
		return followHead(ctx, repo, cfg, config.Path(top))
	}
	return nil
}

// renderOnce runs one full round: resolve the commit, enrich, render, and
// optionally wait for late results.
func renderOnce(ctx context.Context, repo *git.Repo, cfg *config.Config, ref string) error {
	commit, err := repo.Show(ctx, ref)
	if err != nil {
		return err
	}

	provider := buildProvider(ctx, repo, cfg)
	rules := cfg.Autolinks
	if provider != nil {
		rules = append(rules, autolink.ForgeRule(provider))
	}

	template := cfg.Hovers.DetailsMarkdownFormat
	if template == "" {
		template = hovers.DefaultDetailsFormat
	}

	req := enrich.Request{
		Commit: commit,
		Remote: provider,
		Rules:  rules,
		Gate: enrich.Gate{
			AutolinksEnabled:    cfg.Hovers.Autolinks.Enabled,
			PullRequestsEnabled: cfg.Hovers.PullRequests.Enabled,
			Template:            template,
			Has:                 hovers.Has,
			AutolinkFields:      []string{hovers.TokenAutolinks},
			PullRequestFields:   []string{hovers.TokenPullRequest},
		},
		Timeouts: enrich.Timeouts{
			Autolinks:    cfg.Hovers.Autolinks.Timeout,
			PullRequests: cfg.Hovers.PullRequests.Timeout,
		},
	}

	rctx, cancel := context.WithTimeout(ctx, showTimeout)
	res := enrich.NewEnricher().Enrich(rctx, req)
	cancel()

	printRender(commit, res, template)

	if showWait && res.HasPending() {
		waitForLate(ctx, commit, res, template)
	}
	return nil
}

func printRender(commit *git.Commit, res *enrich.Result, template string) {
	fmt.Print(ui.RenderMarkdown(hovers.Render(commit, res, template)))

	for _, note := range statusNotes(res) {
		fmt.Println(note)
	}
}

func statusNotes(res *enrich.Result) []string {
	var notes []string
	if res.Autolinks.Status == enrich.StatusFailed {
		notes = append(notes, ui.RenderFail("autolink lookup failed: "+res.Autolinks.Err.Error()))
	}
	if res.PullRequest.Status == enrich.StatusFailed {
		notes = append(notes, ui.RenderFail("pull request lookup failed: "+res.PullRequest.Err.Error()))
	}
	if !showWait {
		if res.Autolinks.Status == enrich.StatusTimedOut {
			notes = append(notes, ui.RenderWarn("autolink lookup timed out; rerun with --wait to pick it up"))
		}
		if res.PullRequest.Status == enrich.StatusTimedOut {
			notes = append(notes, ui.RenderWarn("pull request lookup timed out; rerun with --wait to pick it up"))
		}
	}
	return notes
}

// waitForLate listens for the retained handles of timed-out lookups and
// re-renders once they settle (or the wait window closes).
func waitForLate(ctx context.Context, commit *git.Commit, res *enrich.Result, template string) {
	pendingKinds := 0
	if res.Autolinks.Status == enrich.StatusTimedOut {
		pendingKinds++
	}
	if res.PullRequest.Status == enrich.StatusTimedOut {
		pendingKinds++
	}

	wctx, cancel := context.WithTimeout(ctx, showWaitTimeout)
	defer cancel()

	settled := make(chan *eventbus.Event, pendingKinds)
	bus := eventbus.New()
	bus.Register(&eventbus.HandlerFunc{
		Name:  "show-refresh",
		Types: []eventbus.EventType{eventbus.EventEnrichmentSettled},
		Fn: func(ctx context.Context, event *eventbus.Event) error {
			settled <- event
			return nil
		},
	})
	enrich.Notify(wctx, bus, commit.SHA, res)

	if !debug.IsQuiet() {
		fmt.Println(ui.RenderMuted("waiting for late lookups..."))
	}

	for i := 0; i < pendingKinds; i++ {
		select {
		case event := <-settled:
			debug.Logf("show: late %s settled for %s\n", event.Kind, event.SHA)
			res.Adopt()
			printRender(commit, res, template)
		case <-wctx.Done():
			if !debug.IsQuiet() {
				fmt.Println(ui.RenderMuted("gave up waiting for late lookups"))
			}
			return
		}
	}
}

// followHead re-renders whenever the repository HEAD moves or the config file
// is rewritten. Filesystem events are translated onto the bus; the render
// handler is the single consumer.
func followHead(ctx context.Context, repo *git.Repo, cfg *config.Config, cfgPath string) error {
	headPath, err := repo.HeadPath(ctx)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch HEAD: %w", err)
	}
	defer watcher.Close()

	// Watch the directories: git and editors replace these files atomically,
	// so events arrive for the directory entry, not the old inode.
	if err := watcher.Add(filepath.Dir(headPath)); err != nil {
		return fmt.Errorf("watch %s: %w", headPath, err)
	}
	if err := watcher.Add(filepath.Dir(cfgPath)); err != nil {
		debug.Logf("show: cannot watch config dir: %v\n", err)
	}

	bus := eventbus.New()
	bus.Register(&eventbus.HandlerFunc{
		Name:  "follow-render",
		Types: []eventbus.EventType{eventbus.EventHeadChanged, eventbus.EventConfigChanged},
		Fn: func(ctx context.Context, event *eventbus.Event) error {
			if event.Type == eventbus.EventConfigChanged {
				top, err := repo.TopLevel(ctx)
				if err != nil {
					return err
				}
				fresh, err := config.Load(top)
				if err != nil {
					return fmt.Errorf("reload config: %w", err)
				}
				*cfg = *fresh
			}
			if err := renderOnce(ctx, repo, cfg, "HEAD"); err != nil {
				fmt.Println(ui.RenderFail(err.Error()))
			}
			return nil
		},
	})

	if !debug.IsQuiet() {
		fmt.Println(ui.RenderMuted("following HEAD (ctrl-c to stop)"))
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write | fsnotify.Create) {
				continue
			}
			switch {
			case filepath.Base(event.Name) == "HEAD":
				debug.Logf("show: HEAD changed (%s)\n", event.Op)
				_ = bus.Dispatch(ctx, &eventbus.Event{Type: eventbus.EventHeadChanged, Path: event.Name})
			case event.Name == cfgPath:
				debug.Logf("show: config changed (%s)\n", event.Op)
				_ = bus.Dispatch(ctx, &eventbus.Event{Type: eventbus.EventConfigChanged, Path: event.Name})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.Logf("show: watcher error: %v\n", err)
		}
	}
}

// buildProvider maps the configured remote to a forge provider. Unknown hosts
// and missing remotes yield nil: enrichment is then gated off, not failed.
func buildProvider(ctx context.Context, repo *git.Repo, cfg *config.Config) forge.Provider {
	name := showRemote
	if name == "" {
		name = cfg.Remote.Name
	}

	url, err := repo.RemoteURL(ctx, name)
	if err != nil {
		debug.Logf("show: no usable remote %q: %v\n", name, err)
		return nil
	}

	registry := forge.NewRegistry()
	registry.Register("github.com", github.NewProvider)

	provider, err := registry.ForRemoteURL(url, cfg.Token())
	if err != nil {
		debug.Logf("show: %v\n", err)
		return nil
	}
	return provider
}
