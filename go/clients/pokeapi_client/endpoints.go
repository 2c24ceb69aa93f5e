package pokeapi_client

const (
	// Base URL
	BaseURL = "https://pokeapi.co/api/v2"

	// API Endpoints
	PokemonEndpoint = "/pokemon"

	// CatalogLimit is the page size used to pull the full species list in one request.
	CatalogLimit = 1500

	// Official artwork, keyed by numeric Pokémon id.
	ArtworkURLTemplate = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png"

	UserAgent = "memorymatch/1.0"
)
