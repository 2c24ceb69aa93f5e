package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/mcdev12/memorymatch/go/clients/pokeapi_client"
	"github.com/mcdev12/memorymatch/go/internal/game/gateway"
)

type Config struct {
	LogLevel string `yaml:"log_level"`

	Server struct {
		Port            string        `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		IdleTimeout     time.Duration `yaml:"idle_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
	} `yaml:"server"`

	PokeAPI struct {
		BaseURL            string        `yaml:"base_url"`
		ArtworkURLTemplate string        `yaml:"artwork_url_template"`
		CatalogLimit       int           `yaml:"catalog_limit"`
		Timeout            time.Duration `yaml:"timeout"`
		RequestInterval    time.Duration `yaml:"request_interval"`
	} `yaml:"pokeapi"`

	Deck struct {
		MaxProbes          int `yaml:"max_probes"`
		PreloadParallelism int `yaml:"preload_parallelism"`
	} `yaml:"deck"`

	Gateway struct {
		PingInterval   time.Duration `yaml:"ping_interval"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		SendBufferSize int           `yaml:"send_buffer_size"`
	} `yaml:"gateway"`

	NATS struct {
		Enabled       bool          `yaml:"enabled"`
		URL           string        `yaml:"url"`
		StreamName    string        `yaml:"stream_name"`
		SubjectPrefix string        `yaml:"subject_prefix"`
		MaxAge        time.Duration `yaml:"max_age"`
	} `yaml:"nats"`
}

func defaultConfig() *Config {
	cfg := &Config{LogLevel: "info"}

	cfg.Server.Port = "8080"
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.IdleTimeout = 120 * time.Second
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Server.AllowedOrigins = []string{"*"}

	cfg.PokeAPI.BaseURL = pokeapi_client.BaseURL
	cfg.PokeAPI.ArtworkURLTemplate = pokeapi_client.ArtworkURLTemplate
	cfg.PokeAPI.CatalogLimit = pokeapi_client.CatalogLimit
	cfg.PokeAPI.Timeout = 30 * time.Second

	conn := gateway.DefaultConnectionConfig()
	cfg.Gateway.PingInterval = conn.PingInterval
	cfg.Gateway.ReadTimeout = conn.ReadTimeout
	cfg.Gateway.SendBufferSize = conn.SendBufferSize

	js := gateway.DefaultJetStreamConfig()
	cfg.NATS.URL = js.URL
	cfg.NATS.StreamName = js.StreamName
	cfg.NATS.SubjectPrefix = js.SubjectPrefix
	cfg.NATS.MaxAge = js.MaxAge

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// loadConfig reads path over the defaults, then applies environment
// overrides. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("path", path).Msg("config file not found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.PokeAPI.BaseURL = getEnv("POKEAPI_BASE_URL", c.PokeAPI.BaseURL)
	c.PokeAPI.CatalogLimit = getEnvAsInt("POKEAPI_CATALOG_LIMIT", c.PokeAPI.CatalogLimit)
	c.Deck.MaxProbes = getEnvAsInt("DECK_MAX_PROBES", c.Deck.MaxProbes)

	// Setting NATS_URL opts in to event publishing.
	if url := os.Getenv("NATS_URL"); url != "" {
		c.NATS.URL = url
		c.NATS.Enabled = true
	}
}

func (c *Config) pokeAPIOptions() pokeapi_client.Options {
	return pokeapi_client.Options{
		BaseURL:            c.PokeAPI.BaseURL,
		ArtworkURLTemplate: c.PokeAPI.ArtworkURLTemplate,
		CatalogLimit:       c.PokeAPI.CatalogLimit,
		Timeout:            c.PokeAPI.Timeout,
		RequestInterval:    c.PokeAPI.RequestInterval,
	}
}

func (c *Config) gatewayConfig() gateway.Config {
	gc := gateway.DefaultConfig()

	if c.Gateway.PingInterval > 0 {
		gc.ConnectionConfig.PingInterval = c.Gateway.PingInterval
	}
	if c.Gateway.ReadTimeout > 0 {
		gc.ConnectionConfig.ReadTimeout = c.Gateway.ReadTimeout
	}
	if c.Gateway.SendBufferSize > 0 {
		gc.ConnectionConfig.SendBufferSize = c.Gateway.SendBufferSize
	}

	gc.JetStreamConfig.Enabled = c.NATS.Enabled
	gc.JetStreamConfig.URL = c.NATS.URL
	gc.JetStreamConfig.StreamName = c.NATS.StreamName
	gc.JetStreamConfig.SubjectPrefix = c.NATS.SubjectPrefix
	if c.NATS.MaxAge > 0 {
		gc.JetStreamConfig.MaxAge = c.NATS.MaxAge
	}
	return gc
}
