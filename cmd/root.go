// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repo-dashboard",
	Short: "Aggregates GitHub repository, content and profile data into a dashboard state.",
	Long: `repo-dashboard fetches metrics, open pull requests and top contributors of the
tracked repositories, inspects the first repository's root listing, recent commits
and readme, and loads one user profile. Results are merged as they arrive;
a failure in one section never blocks the others.

Set GITHUB_TOKEN to raise the API rate limit.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a TOML config file")
}
