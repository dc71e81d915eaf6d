package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-dashboard/internal/config"
	"github.com/naka-gawa/repo-dashboard/internal/gateway"
	"github.com/naka-gawa/repo-dashboard/internal/usecase"
)

// newLogger writes to stderr at info level, or debug level with --verbose.
func newLogger(cmd *cobra.Command) *log.Logger {
	level := log.InfoLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// newAggregator loads the configuration and wires the gateway into an Aggregator.
func newAggregator(cmd *cobra.Command, logger *log.Logger) (*usecase.Aggregator, config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, config.Config{}, err
	}

	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		Token:                  cfg.Token,
		BaseURL:                cfg.API.BaseURL,
		Timeout:                cfg.API.Timeout,
		WaitSecondaryRateLimit: cfg.API.WaitSecondaryRateLimit,
	}, logger)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return usecase.NewAggregator(githubGateway, cfg.Repositories, cfg.User, logger), cfg, nil
}
