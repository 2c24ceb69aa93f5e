package session

import (
	"context"
	"errors"
	"time"

	"github.com/mcdev12/memorymatch/go/internal/game/timer"
	"github.com/mcdev12/memorymatch/go/internal/models"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusWon      Status = "won"
	StatusTimedOut Status = "timed_out"
)

const (
	MismatchDelay = 1000 * time.Millisecond
	WinDelay      = 300 * time.Millisecond
	PowerUpFreeze = 5 * time.Second
)

// ErrInvalidDeck means the deck builder produced a deck that breaks the pairing invariants.
var ErrInvalidDeck = errors.New("invalid deck")

// CatalogSource supplies the candidate items for a new deck.
type CatalogSource interface {
	Items(ctx context.Context) ([]models.CatalogItem, error)
}

// DeckBuilder turns catalog items into a shuffled deck.
type DeckBuilder interface {
	Build(ctx context.Context, items []models.CatalogItem, pairCount int) (models.Deck, error)
}

// CardView is one grid slot as the player sees it. Face details are only
// filled in while the card is face up.
type CardView struct {
	Position int    `json:"position"`
	FaceUp   bool   `json:"face_up"`
	Matched  bool   `json:"matched"`
	PairKey  string `json:"pair_key,omitempty"`
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// State is a read-only snapshot of a session.
type State struct {
	SessionID     string       `json:"session_id"`
	Status        Status       `json:"status"`
	Level         models.Level `json:"level,omitempty"`
	TotalPairs    int          `json:"total_pairs"`
	MatchedPairs  int          `json:"matched_pairs"`
	Clicks        int          `json:"clicks"`
	Locked        bool         `json:"locked"`
	PowerUpUsed   bool         `json:"power_up_used"`
	PowerUpActive bool         `json:"power_up_active"`
	TimerState    timer.State  `json:"timer_state"`
	TimeLeftSec   int          `json:"time_left_sec"`
	TurnBuffer    []int        `json:"turn_buffer"`
	Cards         []CardView   `json:"cards"`
}
