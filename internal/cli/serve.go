package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/njchilds90/penalty/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /solve over HTTP",
		Long: `Serve POST /solve over HTTP.

A request's max_rounds may not exceed PENALTY_MAX_ROUNDS.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := a.newService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			// Remote callers may lower the round limit but never raise it.
			svc.RoundCeiling = a.cfg.MaxRounds

			if listen == "" {
				listen = a.cfg.Listen
			}
			srv := server.New(listen, server.Handler(svc, a.logger))
			return server.Run(ctx, srv, a.logger)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default $PENALTY_LISTEN)")
	return cmd
}
