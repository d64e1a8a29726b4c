package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cs4273g/callreview/internal/store"
	"github.com/cs4273g/callreview/internal/webserver"
)

func newServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the review dashboard API",
		Long: `Serve the review dashboard API.

Exposes the stored dispatcher records over HTTP:

  GET /api/health              Health check
  GET /api/summary             Aggregate metrics across all dispatchers
  GET /api/dispatchers         All dispatchers (sort, order query params)
  GET /api/dispatchers/{name}  One dispatcher with per-file grades`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port == 0 {
				port = cfg.Server.Port
			}

			kv, err := store.NewFileKV(cfg.Store.Dir)
			if err != nil {
				return err
			}
			bus := store.NewBus()

			srv := webserver.New(webserver.Config{
				Port:   port,
				Store:  store.New(kv, bus),
				Bus:    bus,
				Logger: slog.Default(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Dashboard API listening on http://127.0.0.1:%d\n", port)
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (defaults to the configured server port)")

	return cmd
}
