package commands

import (
	"github.com/spf13/cobra"

	"StockReconciler/internal/app"
	"StockReconciler/internal/usecase"
)

var (
	minScore     float64
	suggestFresh bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [--scrape] [--min-score 0.85]",
	Short: "Proposes mapping entries for scraped products the mapping file does not cover.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireStoredSnapshot(cfg.Storage.Driver, suggestFresh); err != nil {
			return err
		}
		return withApp(cmd.Context(), func(application *app.Application) error {
			if suggestFresh {
				if _, err := application.Assembler.ScrapeAndStore(cmd.Context()); err != nil {
					return err
				}
			}

			snapshot, entries, products, err := application.Reconciler.Inputs(cmd.Context())
			if err != nil {
				return err
			}

			score := cfg.Reconcile.SuggestMinScore
			if cmd.Flags().Changed("min-score") {
				score = minScore
			}
			suggestions := usecase.SuggestMappings(snapshot, entries, products, score)

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), suggestions)
			}
			renderSuggestions(cmd.OutOrStdout(), suggestions)
			return nil
		})
	},
}

func init() {
	suggestCmd.Flags().BoolVar(&suggestFresh, "scrape", false, "Scrape and store a new snapshot before suggesting.")
	suggestCmd.Flags().Float64Var(&minScore, "min-score", 0.85, "Minimum Jaro-Winkler similarity for a suggestion.")
	rootCmd.AddCommand(suggestCmd)
}
