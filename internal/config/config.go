// Package config loads gitpeek configuration from .gitpeek.yaml (repository
// first, then home directory) with GITPEEK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gitpeek/gitpeek/internal/autolink"
)

// FileName is the config file base name (".gitpeek.yaml").
const FileName = ".gitpeek"

// DefaultTokenEnv is the environment variable read for the remote token when
// none is configured.
const DefaultTokenEnv = "GITHUB_TOKEN"

// Feature is the per-enrichment-kind switch and bound.
type Feature struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Hovers configures the commit details view.
type Hovers struct {
	Autolinks    Feature `mapstructure:"autolinks" yaml:"autolinks"`
	PullRequests Feature `mapstructure:"pullRequests" yaml:"pullRequests"`

	// DetailsMarkdownFormat is the ${token} template for the rendered view.
	DetailsMarkdownFormat string `mapstructure:"detailsMarkdownFormat" yaml:"detailsMarkdownFormat"`
}

// Remote selects which git remote backs the forge provider and where its
// token comes from.
type Remote struct {
	Name     string `mapstructure:"name" yaml:"name"`
	TokenEnv string `mapstructure:"tokenEnv" yaml:"tokenEnv"`
}

// Config is the root configuration.
type Config struct {
	Hovers    Hovers          `mapstructure:"hovers" yaml:"hovers"`
	Autolinks []autolink.Rule `mapstructure:"autolinks" yaml:"autolinks,omitempty"`
	Remote    Remote          `mapstructure:"remote" yaml:"remote"`
}

// Token resolves the remote token from the configured environment variable.
func (c *Config) Token() string {
	env := c.Remote.TokenEnv
	if env == "" {
		env = DefaultTokenEnv
	}
	return os.Getenv(env)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("hovers.autolinks.enabled", true)
	v.SetDefault("hovers.autolinks.timeout", "250ms")
	v.SetDefault("hovers.pullRequests.enabled", true)
	v.SetDefault("hovers.pullRequests.timeout", "250ms")
	v.SetDefault("hovers.detailsMarkdownFormat", "")
	v.SetDefault("remote.name", "origin")
	v.SetDefault("remote.tokenEnv", DefaultTokenEnv)
}

func newViper(repoDir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if repoDir != "" {
		v.AddConfigPath(repoDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.SetEnvPrefix("GITPEEK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads configuration for a repository. A missing config file is not an
// error; defaults and environment overrides still apply.
func Load(repoDir string) (*Config, error) {
	v := newViper(repoDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Raw returns the underlying viper instance with the config file (if any),
// defaults, and environment overrides applied. Callers that need untyped
// access to individual keys use this; everything else goes through Load.
func Raw(repoDir string) (*viper.Viper, error) {
	v := newViper(repoDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Path returns the config file viper resolved, or the repo-local default when
// no file exists yet.
func Path(repoDir string) string {
	v := newViper(repoDir)
	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}
	if repoDir == "" {
		repoDir = "."
	}
	return repoDir + string(os.PathSeparator) + FileName + ".yaml"
}
