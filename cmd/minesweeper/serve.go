package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper-engine/internal/app"
)

func newServeCmd(v *viper.Viper, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over HTTP and WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(
				cmd.Context(),
				os.Interrupt, syscall.SIGTERM,
			)
			defer stop()

			a, err := app.New(log, cfg)
			if err != nil {
				return err
			}

			if cfg.Production() {
				log.Info("starting up, mode = production")
			} else {
				log.Info("starting up, mode = development")
			}

			if err := a.Start(ctx); err != nil {
				log.WithError(err).Error("exit reason")
				return err
			}
			log.Info("shut down")
			return nil
		},
	}

	cmd.Flags().String("addr", "", "listen address (env: MINES_SERVER_ADDR)")
	v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
