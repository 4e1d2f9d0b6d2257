package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archmap/archmap/internal/server"
)

// serveCommand creates the serve command for running the API server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the archmap HTTP API server",
		Long: `Run the archmap HTTP API server.

The server exposes document validation, version storage, diffing,
arrow routing, rendering and editing sessions over HTTP. Without a
config file it listens on :8080 with an in-memory version store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.DefaultConfig()
			if configPath != "" {
				var err error
				cfg, err = server.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("load config %s: %w", configPath, err)
				}
			}
			if listen != "" {
				cfg.Listen = listen
			}

			srv, err := server.Connect(cmd.Context(), cfg, c.Logger)
			if err != nil {
				return fmt.Errorf("start server: %w", err)
			}
			defer srv.Close(context.Background())

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")

	return cmd
}
