package pokeapi_client

import (
	"time"

	"github.com/mcdev12/memorymatch/go/clients"
)

type PokeApiClient struct {
	*clients.BaseClient
	artworkURLTemplate string
	catalogLimit       int
}

// Options tunes the client. Zero values fall back to the package constants.
type Options struct {
	BaseURL            string
	ArtworkURLTemplate string
	CatalogLimit       int
	Timeout            time.Duration
	// RequestInterval spaces out requests, PokéAPI asks clients to be gentle.
	RequestInterval time.Duration
}

func NewPokeApiClient(opts Options) *PokeApiClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}

	client := &PokeApiClient{
		BaseClient:         clients.NewBaseClient(baseURL),
		artworkURLTemplate: opts.ArtworkURLTemplate,
		catalogLimit:       opts.CatalogLimit,
	}
	if client.artworkURLTemplate == "" {
		client.artworkURLTemplate = ArtworkURLTemplate
	}
	if client.catalogLimit <= 0 {
		client.catalogLimit = CatalogLimit
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.SetRateLimit(opts.RequestInterval, 1)
	client.SetHeader("User-Agent", UserAgent)
	client.SetHeader("Accept", "application/json")

	return client
}
