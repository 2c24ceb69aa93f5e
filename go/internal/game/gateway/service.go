package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/memorymatch/go/internal/models"
)

// Service is the game gateway: WebSocket sessions plus optional event publishing
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	publisher         EventPublisher
	closePublisher    func() error
}

// Config holds configuration for the game gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	JetStreamConfig  JetStreamConfig
}

// DefaultConfig returns default configuration for the game gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		JetStreamConfig:  DefaultJetStreamConfig(),
	}
}

// NewService creates the gateway. When JetStream is enabled the stream is
// created or updated before the service is returned.
func NewService(ctx context.Context, config Config, sessions SessionFactory, difficulties models.DifficultyTable) (*Service, error) {
	var (
		publisher      EventPublisher = NopPublisher{}
		closePublisher                = func() error { return nil }
	)
	if config.JetStreamConfig.Enabled {
		js, err := NewJetStreamPublisher(ctx, config.JetStreamConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create event publisher: %w", err)
		}
		publisher = js
		closePublisher = js.Close
	}

	return newService(config, sessions, difficulties, publisher, closePublisher), nil
}

func newService(config Config, sessions SessionFactory, difficulties models.DifficultyTable, publisher EventPublisher, closePublisher func() error) *Service {
	connectionManager := NewConnectionManager(config.ConnectionConfig, sessions, publisher)
	return &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager, difficulties),
		publisher:         publisher,
		closePublisher:    closePublisher,
	}
}

// Start runs the gateway until ctx is cancelled
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting game gateway service")

	go s.connectionManager.Start(ctx)

	<-ctx.Done()

	log.Info().Msg("game gateway service shutting down")
	return s.Stop()
}

// Stop releases the event publisher
func (s *Service) Stop() error {
	if err := s.closePublisher(); err != nil {
		log.Error().Err(err).Msg("failed to close event publisher")
		return err
	}
	log.Info().Msg("game gateway service stopped")
	return nil
}

// RegisterRoutes registers the WebSocket HTTP routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	log.Info().Msg("game gateway routes registered")
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}
