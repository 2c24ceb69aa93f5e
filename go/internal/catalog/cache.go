package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/mcdev12/memorymatch/go/internal/models"
)

// Cache fetches the catalog once and serves it to every later game.
// Failed fetches are not cached, the next call tries again.
// Concurrent misses share one fetch, and a caller whose context ends stops
// waiting without cancelling the fetch the others are waiting on.
type Cache struct {
	provider Provider
	fetches  singleflight.Group

	mu    sync.RWMutex
	items []models.CatalogItem
}

func NewCache(provider Provider) *Cache {
	return &Cache{provider: provider}
}

// Items returns the cached catalog, fetching it on first use.
func (c *Cache) Items(ctx context.Context) ([]models.CatalogItem, error) {
	if items := c.cached(); items != nil {
		return items, nil
	}

	// The shared fetch outlives any one caller, the provider's HTTP timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	result := c.fetches.DoChan("catalog", func() (any, error) {
		return c.fetch(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.CatalogItem), nil
	}
}

func (c *Cache) fetch(ctx context.Context) ([]models.CatalogItem, error) {
	if items := c.cached(); items != nil {
		return items, nil
	}

	items, err := c.provider.FetchCatalog(ctx)
	if err != nil {
		if !errors.Is(err, ErrProviderUnavailable) {
			err = fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrProviderUnavailable)
	}

	log.Info().Int("items", len(items)).Msg("catalog fetched")
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return items, nil
}

func (c *Cache) cached() []models.CatalogItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// Len reports how many items are cached, zero before the first successful fetch.
func (c *Cache) Len() int {
	return len(c.cached())
}

func (c *Cache) ImageReachable(ctx context.Context, url string) bool {
	return c.provider.ImageReachable(ctx, url)
}

func (c *Cache) PreloadImage(ctx context.Context, url string) error {
	return c.provider.PreloadImage(ctx, url)
}
