package cli

import (
	"tablebot/internal/fulfillment/handler"
	"tablebot/pkg/app"
	"tablebot/pkg/config"

	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the fulfillment webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(ServiceName)
			cfg.Log.Info("Starting tablebot webhook", "version", Version)

			components, err := Wire(cfg)
			if err != nil {
				cfg.Log.Fatal("Failed to initialize services", "error", err)
			}

			serverApp := app.NewApplication(cfg)
			serverApp.SetApp(
				handler.NewWebhookHandler(components.Fulfillment, cfg.Log),
				handler.NewHealthHandler(components.Fulfillment, cfg.Log),
			)
			serverApp.OnShutdown(func() {
				if err := components.Publisher.Close(); err != nil {
					cfg.Log.Warn("Failed to close event publisher", "error", err)
				}
			})
			serverApp.OnShutdown(cfg.GracefulShutdown)
			serverApp.Run()
			return nil
		},
	}
}
