// Package config loads the dashboard configuration from defaults, an optional
// TOML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/naka-gawa/repo-dashboard/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. REPO_DASHBOARD_USER.
const EnvPrefix = "REPO_DASHBOARD"

// DefaultRepositories are the tracked repositories. The first one gets the deep dive.
var DefaultRepositories = []domain.RepositoryRef{
	{Owner: "iguGH2026", Repo: "c-dersleri", Label: "c-dersleri"},
	{Owner: "trs-1342", Repo: "cd-ws", Label: "cd-ws"},
}

const (
	DefaultUser    = "iguGH2026"
	DefaultBaseURL = "https://api.github.com/"
	DefaultTimeout = 15 * time.Second
	DefaultAddr    = ":8080"
)

// Config holds application configuration.
type Config struct {
	// Token is optional; without it requests are unauthenticated.
	Token        string                 `mapstructure:"token"`
	Repositories []domain.RepositoryRef `mapstructure:"repositories"`
	User         string                 `mapstructure:"user"`
	API          APIConfig              `mapstructure:"api"`
	Server       ServerConfig           `mapstructure:"server"`
}

// APIConfig holds GitHub API client settings.
// When WaitSecondaryRateLimit is on, a request may first sleep up to Timeout,
// so its worst case is twice Timeout.
type APIConfig struct {
	BaseURL                string        `mapstructure:"base_url"`
	Timeout                time.Duration `mapstructure:"timeout"`
	WaitSecondaryRateLimit bool          `mapstructure:"wait_secondary_rate_limit"`
}

// ServerConfig holds settings of the HTTP adapter.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration. path names an optional TOML file; when empty,
// $REPO_DASHBOARD_CONFIG is used if set. A .env file in the working directory
// is loaded first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// default values
	v.SetDefault("token", "")
	v.SetDefault("repositories", DefaultRepositories)
	v.SetDefault("user", DefaultUser)
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", DefaultTimeout)
	v.SetDefault("api.wait_secondary_rate_limit", false)
	v.SetDefault("server.addr", DefaultAddr)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// GITHUB_TOKEN is the conventional name; REPO_DASHBOARD_TOKEN takes precedence.
	if err := v.BindEnv("token", EnvPrefix+"_TOKEN", "GITHUB_TOKEN"); err != nil {
		return Config{}, fmt.Errorf("bind token env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return c, nil
}

// Validate checks that the configuration can drive an aggregation run.
func (c Config) Validate() error {
	if len(c.Repositories) == 0 {
		return errors.New("at least one repository is required")
	}
	for i, ref := range c.Repositories {
		if ref.Owner == "" || ref.Repo == "" {
			return fmt.Errorf("repository %d: owner and repo are required", i)
		}
	}
	if c.User == "" {
		return errors.New("user is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	return nil
}
