package commands

import (
	"github.com/spf13/cobra"

	"StockReconciler/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the HTTP API, plus the recurring scrape when the scheduler is enabled.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(application *app.Application) error {
			return application.Serve(cmd.Context())
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
