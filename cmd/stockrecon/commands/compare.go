package commands

import (
	"github.com/spf13/cobra"

	"StockReconciler/internal/app"
	"StockReconciler/internal/usecase"
)

var (
	onlyDiff     bool
	compareFresh bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [--scrape] [--only-diff] [--json]",
	Short: "Reconciles the latest snapshot against the live platform catalog.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireStoredSnapshot(cfg.Storage.Driver, compareFresh); err != nil {
			return err
		}
		return withApp(cmd.Context(), func(application *app.Application) error {
			if compareFresh {
				if _, err := application.Assembler.ScrapeAndStore(cmd.Context()); err != nil {
					return err
				}
			}

			result, err := application.Reconciler.Run(cmd.Context())
			if err != nil {
				return err
			}
			if onlyDiff {
				result.Results = usecase.Discrepancies(result.Results)
				result.Total = len(result.Results)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			renderComparison(cmd.OutOrStdout(), result)
			return nil
		})
	},
}

func init() {
	compareCmd.Flags().BoolVar(&compareFresh, "scrape", false, "Scrape and store a new snapshot before comparing.")
	compareCmd.Flags().BoolVar(&onlyDiff, "only-diff", false, "Hide records whose status is Same or empty.")
	rootCmd.AddCommand(compareCmd)
}
