package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for everything a game session reports to its presenter.
type Event struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// EventType represents the type of game event
type EventType string

const (
	EventTypeGameStarted      EventType = "game_started"
	EventTypeGameReset        EventType = "game_reset"
	EventTypeCardRevealed     EventType = "card_revealed"
	EventTypeCardsHidden      EventType = "cards_hidden"
	EventTypePairMatched      EventType = "pair_matched"
	EventTypePairMismatched   EventType = "pair_mismatched"
	EventTypeStatus           EventType = "status"
	EventTypeTimerTick        EventType = "timer_tick"
	EventTypePowerUpActivated EventType = "power_up_activated"
	EventTypePowerUpEnded     EventType = "power_up_ended"
	EventTypeGameWon          EventType = "game_won"
	EventTypeGameTimedOut     EventType = "game_timed_out"
	EventTypeSnapshot         EventType = "snapshot"
	EventTypeError            EventType = "error"
)

// New stamps a fresh event.
func New(sessionID uuid.UUID, eventType EventType, data any, at time.Time) *Event {
	return &Event{
		ID:        uuid.New().String(),
		SessionID: sessionID.String(),
		Type:      eventType,
		Timestamp: at.UTC(),
		Data:      data,
	}
}

// Emitter receives session events. Implementations must not block and must not
// call back into the session synchronously.
type Emitter func(*Event)

// Discard drops every event.
func Discard(*Event) {}
