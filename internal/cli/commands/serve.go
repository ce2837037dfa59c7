package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dbdeck-io/dbdeck/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the administration HTTP API",
		Long: `Serve the administration HTTP API.

The server exposes schema browsing, paginated reads, row edits, bulk
maintenance, and schema export under /api. It shuts down gracefully on
SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			addr := listen
			if addr == "" {
				addr = cctx.Cfg.Listen
			}

			srv := server.New(server.Config{
				Service: cctx.Service,
				Addr:    addr,
				Logger:  cctx.Logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cctx.Logger.Info("starting server", "addr", addr, "target", cctx.Service.String())
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (defaults to configured listen address)")
	return cmd
}
