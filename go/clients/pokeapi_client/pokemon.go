package pokeapi_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type PokemonListResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// Pokemon is one catalog entry with its artwork location resolved.
type Pokemon struct {
	ID         int
	Name       string
	ArtworkURL string
}

// ListPokemon fetches the species list and resolves each entry's artwork URL.
// Entries whose URL carries no numeric id are skipped.
func (c *PokeApiClient) ListPokemon(ctx context.Context) ([]Pokemon, error) {
	endpoint := fmt.Sprintf("%s?limit=%d", PokemonEndpoint, c.catalogLimit)
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get pokemon list: %w", err)
	}

	var response PokemonListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	pokemon := make([]Pokemon, 0, len(response.Results))
	for _, r := range response.Results {
		id, err := ParseResourceID(r.URL)
		if err != nil {
			log.Debug().Str("name", r.Name).Str("url", r.URL).Msg("skipping pokemon without numeric id")
			continue
		}
		pokemon = append(pokemon, Pokemon{
			ID:         id,
			Name:       r.Name,
			ArtworkURL: c.ArtworkURL(id),
		})
	}

	return pokemon, nil
}

// ArtworkURL returns the official artwork location for a Pokémon id.
func (c *PokeApiClient) ArtworkURL(id int) string {
	return fmt.Sprintf(c.artworkURLTemplate, id)
}

// ImageExists reports whether the artwork behind url answers a HEAD with 200.
// Any transport failure counts as missing.
func (c *PokeApiClient) ImageExists(ctx context.Context, url string) bool {
	status, err := c.Head(ctx, url)
	if err != nil {
		log.Debug().Err(err).Str("url", url).Msg("image probe failed")
		return false
	}
	return status == http.StatusOK
}

// FetchImage downloads the artwork behind url and discards it, warming any cache in between.
func (c *PokeApiClient) FetchImage(ctx context.Context, url string) error {
	if _, err := c.Stream(ctx, url, io.Discard); err != nil {
		return fmt.Errorf("failed to fetch image %s: %w", url, err)
	}
	return nil
}

// ParseResourceID extracts the numeric id from a resource URL such as
// https://pokeapi.co/api/v2/pokemon/25/.
func ParseResourceID(resourceURL string) (int, error) {
	parts := strings.Split(strings.TrimSuffix(resourceURL, "/"), "/")
	if len(parts) == 0 {
		return 0, fmt.Errorf("empty resource url")
	}
	id, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, fmt.Errorf("resource url %q has no numeric id: %w", resourceURL, err)
	}
	return id, nil
}
