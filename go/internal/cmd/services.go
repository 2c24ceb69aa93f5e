package main

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/memorymatch/go/clients/pokeapi_client"
	"github.com/mcdev12/memorymatch/go/internal/catalog"
	"github.com/mcdev12/memorymatch/go/internal/game/deck"
	"github.com/mcdev12/memorymatch/go/internal/game/events"
	"github.com/mcdev12/memorymatch/go/internal/game/gateway"
	"github.com/mcdev12/memorymatch/go/internal/game/session"
	"github.com/mcdev12/memorymatch/go/internal/models"
)

type Services struct {
	Catalog      *catalog.Cache
	Builder      *deck.Builder
	Difficulties models.DifficultyTable
	Gateway      *gateway.Service
}

// setupGame wires the content side: PokéAPI client → provider → cache → deck builder.
func setupGame(config *Config, opts ...deck.Option) (*catalog.Cache, *deck.Builder) {
	client := pokeapi_client.NewPokeApiClient(config.pokeAPIOptions())
	cache := catalog.NewCache(catalog.NewPokeAPIProvider(client))

	if config.Deck.MaxProbes > 0 {
		opts = append(opts, deck.WithMaxProbes(config.Deck.MaxProbes))
	}
	if config.Deck.PreloadParallelism > 0 {
		opts = append(opts, deck.WithPreloadParallelism(config.Deck.PreloadParallelism))
	}
	return cache, deck.NewBuilder(cache, opts...)
}

func setupServices(ctx context.Context, config *Config) (*Services, error) {
	cache, builder := setupGame(config)
	difficulties := models.DefaultDifficulties()
	clock := clockwork.NewRealClock()

	sessions := func(emit events.Emitter) *session.Session {
		return session.New(session.Config{
			Clock:        clock,
			Catalog:      cache,
			Builder:      builder,
			Difficulties: difficulties,
			Emit:         emit,
		})
	}

	gw, err := gateway.NewService(ctx, config.gatewayConfig(), sessions, difficulties)
	if err != nil {
		return nil, fmt.Errorf("failed to create game gateway: %w", err)
	}

	return &Services{
		Catalog:      cache,
		Builder:      builder,
		Difficulties: difficulties,
		Gateway:      gw,
	}, nil
}
