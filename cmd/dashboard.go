package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-dashboard/internal/usecase"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Runs one aggregation and outputs the dashboard state as JSON",
	Long: `Runs one aggregation and prints the final dashboard state as indented JSON.
With --watch every intermediate state is printed as soon as it is produced,
one JSON document per line, followed by the final state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		aggregator, _, err := newAggregator(cmd, logger)
		if err != nil {
			return err
		}
		watch, _ := cmd.Flags().GetBool("watch")

		// Interrupting tears the run down; pending results are dropped.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		lines := json.NewEncoder(out)
		var observe usecase.Observer
		if watch {
			observe = func(s usecase.State) {
				if err := lines.Encode(usecase.NewView(aggregator.Refs(), s)); err != nil {
					logger.Error("failed to write snapshot", "err", err)
				}
			}
		}

		state := aggregator.Run(ctx, observe)
		if state.HasError() {
			logger.Warn(state.Err, "hint", usecase.TokenHint)
		}

		jsonData, err := json.MarshalIndent(usecase.NewView(aggregator.Refs(), state), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().BoolP("watch", "w", false, "Print every intermediate state as a JSON line")
}
