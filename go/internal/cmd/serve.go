package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var warmCatalog bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&warmCatalog, "warm", false, "fetch the catalog before accepting connections")
}

func serve(ctx context.Context) error {
	services, err := setupServices(ctx, config)
	if err != nil {
		return err
	}

	if warmCatalog {
		if _, err := services.Catalog.Items(ctx); err != nil {
			log.Warn().Err(err).Msg("catalog warm-up failed, will retry on first game")
		} else {
			log.Info().Int("items", services.Catalog.Len()).Msg("catalog warmed")
		}
	}

	server := setupServer(config, services)

	gatewayCtx, cancelGateway := context.WithCancel(context.Background())
	gatewayDone := make(chan struct{})
	go func() {
		defer close(gatewayDone)
		if err := services.Gateway.Start(gatewayCtx); err != nil {
			log.Error().Err(err).Msg("game gateway failed")
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Bool("nats", config.NATS.Enabled).
			Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	case err := <-serverErr:
		cancelGateway()
		<-gatewayDone
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	cancelGateway()
	<-gatewayDone

	log.Info().Msg("memorymatch shutdown complete")
	return nil
}
