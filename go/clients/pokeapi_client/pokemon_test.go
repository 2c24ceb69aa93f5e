package pokeapi_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    int
		wantErr bool
	}{
		{name: "trailing slash", url: "https://pokeapi.co/api/v2/pokemon/25/", want: 25},
		{name: "no trailing slash", url: "https://pokeapi.co/api/v2/pokemon/150", want: 150},
		{name: "form id", url: "https://pokeapi.co/api/v2/pokemon/10001/", want: 10001},
		{name: "named", url: "https://pokeapi.co/api/v2/pokemon/pikachu/", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResourceID(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListPokemon(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon", r.URL.Path)
		assert.Equal(t, "1500", r.URL.Query().Get("limit"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"count": 3,
			"next": null,
			"previous": null,
			"results": [
				{"name": "bulbasaur", "url": "https://pokeapi.co/api/v2/pokemon/1/"},
				{"name": "broken", "url": "https://pokeapi.co/api/v2/pokemon/broken/"},
				{"name": "pikachu", "url": "https://pokeapi.co/api/v2/pokemon/25/"}
			]
		}`))
	}))
	defer server.Close()

	client := NewPokeApiClient(Options{BaseURL: server.URL})
	pokemon, err := client.ListPokemon(context.Background())
	require.NoError(t, err)

	require.Len(t, pokemon, 2)
	assert.Equal(t, Pokemon{
		ID:         1,
		Name:       "bulbasaur",
		ArtworkURL: "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/1.png",
	}, pokemon[0])
	assert.Equal(t, 25, pokemon[1].ID)
}

func TestListPokemon_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("down for maintenance"))
	}))
	defer server.Close()

	client := NewPokeApiClient(Options{BaseURL: server.URL})
	_, err := client.ListPokemon(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestImageExistsAndFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/art/1.png":
			w.Header().Set("Content-Type", "image/png")
			if r.Method == http.MethodGet {
				w.Write([]byte("\x89PNG"))
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewPokeApiClient(Options{
		BaseURL:            server.URL,
		ArtworkURLTemplate: server.URL + "/art/%d.png",
	})
	ctx := context.Background()

	assert.True(t, client.ImageExists(ctx, client.ArtworkURL(1)))
	assert.False(t, client.ImageExists(ctx, client.ArtworkURL(2)))
	assert.False(t, client.ImageExists(ctx, "http://127.0.0.1:0/unreachable.png"))

	assert.NoError(t, client.FetchImage(ctx, client.ArtworkURL(1)))
	assert.Error(t, client.FetchImage(ctx, client.ArtworkURL(2)))
}
