package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"StockReconciler/internal/app"
	"StockReconciler/internal/config"
	"StockReconciler/internal/infrastructure/storage"
	"StockReconciler/internal/logging"
)

var (
	configPath string
	jsonOutput bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "stockrecon",
	Short:         "stockrecon scrapes a storefront and reconciles it against the platform catalog.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load(configPath)
		logger = logging.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (defaults to $STOCKRECON_CONFIG).")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print machine-readable JSON instead of tables.")
}

// ExecuteContext runs the CLI and exits non-zero on failure.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// requireStoredSnapshot fails fast when a command reads the latest snapshot
// from a store that starts empty in every process.
func requireStoredSnapshot(driver string, scrapeFirst bool) error {
	if scrapeFirst || !storage.IsInMemory(driver) {
		return nil
	}
	return fmt.Errorf("storage driver %q keeps no snapshots between runs: set storage.driver to postgres or mongo, or pass --scrape", driver)
}

// withApp builds the application for one command and closes it afterwards.
func withApp(ctx context.Context, fn func(*app.Application) error) error {
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(context.Background()); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}()

	return fn(application)
}
