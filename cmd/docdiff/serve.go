package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/docdiff/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func serveCMD(configPath *string) *cobra.Command {
	var listenAddr string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the comparison HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			if listenAddr != "" {
				app.cfg.ServerConfig.Listen = listenAddr
			}

			if app.cache != nil {
				purged, err := app.cache.PurgeExpired(cmd.Context())
				if err != nil {
					app.logger.Warn().Err(err).Msg("Failed to purge expired cache entries")
				} else if purged > 0 {
					app.logger.Info().Int64("purged", purged).Msg("Expired cache entries removed")
				}
			}

			app.limiter.Start()

			srv, err := server.New(app.cfg.ServerConfig, app.service, app.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				app.logger.Info().Msg("Received interrupt signal, initiating graceful shutdown...")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	serve.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides server_config.listen)")

	return serve
}
