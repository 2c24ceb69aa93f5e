package catalog

import (
	"context"
	"fmt"

	"github.com/mcdev12/memorymatch/go/clients/pokeapi_client"
	"github.com/mcdev12/memorymatch/go/internal/models"
)

// PokeAPIProvider adapts the PokéAPI client to Provider.
type PokeAPIProvider struct {
	client *pokeapi_client.PokeApiClient
}

func NewPokeAPIProvider(client *pokeapi_client.PokeApiClient) *PokeAPIProvider {
	return &PokeAPIProvider{client: client}
}

func (p *PokeAPIProvider) FetchCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	pokemon, err := p.client.ListPokemon(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	items := make([]models.CatalogItem, len(pokemon))
	for i, pk := range pokemon {
		items[i] = models.CatalogItem{
			ID:       fmt.Sprintf("pokemon-%d", pk.ID),
			Name:     pk.Name,
			ImageURL: pk.ArtworkURL,
		}
	}
	return items, nil
}

func (p *PokeAPIProvider) ImageReachable(ctx context.Context, url string) bool {
	return p.client.ImageExists(ctx, url)
}

func (p *PokeAPIProvider) PreloadImage(ctx context.Context, url string) error {
	return p.client.FetchImage(ctx, url)
}
