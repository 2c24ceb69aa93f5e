package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/memorymatch/go/clients/pokeapi_client"
	"github.com/mcdev12/memorymatch/go/internal/models"
)

type stubProvider struct {
	calls atomic.Int32
	items []models.CatalogItem
	err   error
}

func (s *stubProvider) FetchCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	s.calls.Add(1)
	return s.items, s.err
}

func (s *stubProvider) ImageReachable(ctx context.Context, url string) bool { return true }

func (s *stubProvider) PreloadImage(ctx context.Context, url string) error { return nil }

func TestCache_FetchesOnce(t *testing.T) {
	provider := &stubProvider{items: []models.CatalogItem{{ID: "pokemon-1"}, {ID: "pokemon-2"}}}
	cache := NewCache(provider)

	assert.Equal(t, 0, cache.Len())
	for i := 0; i < 3; i++ {
		items, err := cache.Items(context.Background())
		require.NoError(t, err)
		assert.Len(t, items, 2)
	}
	assert.Equal(t, int32(1), provider.calls.Load())
	assert.Equal(t, 2, cache.Len())
}

// blockingProvider holds FetchCatalog until release is closed.
type blockingProvider struct {
	stubProvider
	started chan struct{}
	release chan struct{}
}

func (b *blockingProvider) FetchCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	b.calls.Add(1)
	close(b.started)
	<-b.release
	return b.items, nil
}

func TestCache_WaitingCallerHonoursContext(t *testing.T) {
	provider := &blockingProvider{
		stubProvider: stubProvider{items: []models.CatalogItem{{ID: "pokemon-1"}}},
		started:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	cache := NewCache(provider)

	type result struct {
		items []models.CatalogItem
		err   error
	}
	first := make(chan result, 1)
	go func() {
		items, err := cache.Items(context.Background())
		first <- result{items, err}
	}()
	<-provider.started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	began := time.Now()
	_, err := cache.Items(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(began), time.Second)
	assert.Equal(t, 0, cache.Len())

	close(provider.release)
	select {
	case res := <-first:
		require.NoError(t, res.err)
		assert.Len(t, res.items, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("first caller never received the catalog")
	}
	assert.Equal(t, int32(1), provider.calls.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestCache_FailureIsNotCached(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	cache := NewCache(provider)

	_, err := cache.Items(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProviderUnavailable))

	provider.err = nil
	provider.items = []models.CatalogItem{{ID: "pokemon-7"}}
	items, err := cache.Items(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestCache_EmptyCatalogIsUnavailable(t *testing.T) {
	cache := NewCache(&stubProvider{items: []models.CatalogItem{}})

	_, err := cache.Items(context.Background())
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}

func TestPokeAPIProvider(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pokemon", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"name":"pikachu","url":"https://pokeapi.co/api/v2/pokemon/25/"}]}`))
	})
	mux.HandleFunc("/art/25.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := pokeapi_client.NewPokeApiClient(pokeapi_client.Options{
		BaseURL:            server.URL,
		ArtworkURLTemplate: server.URL + "/art/%d.png",
	})
	provider := NewPokeAPIProvider(client)
	ctx := context.Background()

	items, err := provider.FetchCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.CatalogItem{
		ID:       "pokemon-25",
		Name:     "pikachu",
		ImageURL: server.URL + "/art/25.png",
	}, items[0])

	assert.True(t, provider.ImageReachable(ctx, items[0].ImageURL))
	assert.NoError(t, provider.PreloadImage(ctx, items[0].ImageURL))
}

func TestPokeAPIProvider_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewPokeAPIProvider(pokeapi_client.NewPokeApiClient(pokeapi_client.Options{BaseURL: server.URL}))
	_, err := provider.FetchCatalog(context.Background())
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}
