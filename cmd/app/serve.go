package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Natalis/internal/di"
	"Natalis/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chart API and the Kafka chart worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadWithEnv(path)
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}

		app, err := di.InitializeApp(cfg)
		if err != nil {
			return fmt.Errorf("app initialization failed: %w", err)
		}

		// Blocks until SIGINT/SIGTERM.
		return app.Run(cmd.Context())
	},
}
