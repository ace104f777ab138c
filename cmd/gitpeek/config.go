package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gitpeek/gitpeek/internal/config"
	"github.com/gitpeek/gitpeek/internal/git"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long: `Manage gitpeek configuration.

Configuration lives in .gitpeek.yaml at the repository root (falling back to
your home directory) and can be overridden per-key with GITPEEK_* environment
variables.

Common keys:
  hovers.autolinks.enabled        enable the issue autolink lookup
  hovers.autolinks.timeout        per-lookup bound, e.g. 250ms
  hovers.pullRequests.enabled     enable the pull request lookup
  hovers.pullRequests.timeout     per-lookup bound, e.g. 250ms
  hovers.detailsMarkdownFormat    ${token} template for the rendered view
  remote.name                     git remote backing forge lookups
  remote.tokenEnv                 env var holding the forge token

Examples:
  gitpeek config set hovers.pullRequests.timeout 500ms
  gitpeek config get remote.name
  gitpeek config list`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath(cmd.Context())
		if err := config.SetKey(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadViper(cmd.Context())
		if err != nil {
			return err
		}
		if !v.IsSet(args[0]) {
			return fmt.Errorf("key %q is not set", args[0])
		}
		fmt.Println(v.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured values",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := config.Flatten(configFilePath(cmd.Context()))
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			fmt.Println("no configuration file; defaults apply")
			return nil
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.UnsetKey(configFilePath(cmd.Context()), args[0])
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configGetCmd, configListCmd, configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

// configFilePath resolves the active config file, preferring the repository
// root when run inside a repo.
func configFilePath(ctx context.Context) string {
	if repo, err := git.Open(ctx, ""); err == nil {
		if top, err := repo.TopLevel(ctx); err == nil {
			return config.Path(top)
		}
	}
	return config.Path("")
}

// loadViper exposes raw config keys (file plus defaults and env overrides)
// for `config get`, resolving the file the same way Load does.
func loadViper(ctx context.Context) (*viper.Viper, error) {
	repoDir := ""
	if repo, err := git.Open(ctx, ""); err == nil {
		if top, err := repo.TopLevel(ctx); err == nil {
			repoDir = top
		}
	}
	return config.Raw(repoDir)
}
