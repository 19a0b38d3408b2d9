package commands

import (
	"time"

	"github.com/spf13/cobra"

	"StockReconciler/internal/app"
	"StockReconciler/internal/infrastructure/storage"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--json]",
	Short: "Crawls every configured collection, verifies stock and stores a snapshot.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(application *app.Application) error {
			start := time.Now()
			snapshot, err := application.Assembler.ScrapeAndStore(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("scrape finished", "snapshot", snapshot.ID, "total", snapshot.Total, "seconds", time.Since(start).Seconds())
			if storage.IsInMemory(cfg.Storage.Driver) {
				logger.Warn("snapshot kept in memory only; use compare --scrape or a postgres/mongo storage driver")
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), snapshot)
			}
			renderSnapshotSummary(cmd.OutOrStdout(), snapshot)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
