package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gitpeek/gitpeek/internal/config"
	"github.com/gitpeek/gitpeek/internal/git"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .gitpeek.yaml config file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dir := ""
		if repo, err := git.Open(ctx, ""); err == nil {
			if top, err := repo.TopLevel(ctx); err == nil {
				dir = top
			}
		}
		path := config.Path(dir)

		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		cfg, err := promptConfig()
		if err != nil {
			return err
		}
		if err := config.Write(path, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

// promptConfig walks through the handful of settings worth asking about.
// Everything else keeps its default.
func promptConfig() (*config.Config, error) {
	var (
		autolinks    = true
		pullRequests = true
		timeout      = "250ms"
		remoteName   = "origin"
		tokenEnv     = config.DefaultTokenEnv
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show issue autolinks?").
				Value(&autolinks),
			huh.NewConfirm().
				Title("Show pull request info?").
				Value(&pullRequests),
			huh.NewInput().
				Title("Per-lookup timeout").
				Description("How long each remote lookup may take before the first render goes out without it.").
				Value(&timeout).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewInput().
				Title("Git remote").
				Description("The remote whose forge backs the lookups.").
				Value(&remoteName),
			huh.NewInput().
				Title("Token environment variable").
				Description("Environment variable holding the forge API token.").
				Value(&tokenEnv),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("init aborted: %w", err)
	}

	d, err := time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("bad timeout %q: %w", timeout, err)
	}

	return &config.Config{
		Hovers: config.Hovers{
			Autolinks:    config.Feature{Enabled: autolinks, Timeout: d},
			PullRequests: config.Feature{Enabled: pullRequests, Timeout: d},
		},
		Remote: config.Remote{Name: remoteName, TokenEnv: tokenEnv},
	}, nil
}
