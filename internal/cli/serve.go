package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/internal/server"
)

func (a *app) newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the habits JSON API",
		Long:  "Serve the habits JSON API until interrupted. The store is migrated on startup.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = a.settings.Listen
			}

			logger, err := a.newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			backend, err := a.attachBackend(logger)
			if err != nil {
				return err
			}
			defer backend.Detach()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting habits",
				zap.String("version", Version),
				zap.String("data_dir", a.settings.DataDir),
				zap.String("listen", listen),
			)
			if err := server.New(backend, logger).ListenAndServe(ctx, listen); err != nil {
				return sysError(fmt.Errorf("serving http: %w", err))
			}
			logger.Info("habits stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config: "+defaultListen+")")
	return cmd
}
