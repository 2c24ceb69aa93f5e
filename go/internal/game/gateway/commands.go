package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/memorymatch/go/internal/catalog"
	"github.com/mcdev12/memorymatch/go/internal/game/deck"
	"github.com/mcdev12/memorymatch/go/internal/game/events"
	"github.com/mcdev12/memorymatch/go/internal/models"
)

// CommandType is the kind of message a client sends
type CommandType string

const (
	CommandStart  CommandType = "start"
	CommandSelect CommandType = "select"
	CommandReset  CommandType = "reset"
	CommandState  CommandType = "state"
)

// Error codes sent back in error events
const (
	ErrorCodeBadRequest          = "bad_request"
	ErrorCodeUnknownCommand      = "unknown_command"
	ErrorCodeUnknownLevel        = "unknown_level"
	ErrorCodeProviderUnavailable = "provider_unavailable"
	ErrorCodeInsufficientContent = "insufficient_content"
	ErrorCodePreloadFailed       = "preload_failed"
	ErrorCodeStartFailed         = "start_failed"
)

// ClientCommand is the JSON a client sends over the socket, e.g.
// {"type":"start","level":"easy"} or {"type":"select","position":3}.
type ClientCommand struct {
	Type     CommandType `json:"type"`
	Level    string      `json:"level,omitempty"`
	Position *int        `json:"position,omitempty"`
}

// handleClientMessage decodes and runs one client command
func (c *Connection) handleClientMessage(message []byte) {
	var cmd ClientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		log.Debug().Err(err).Str("connection_id", c.ID).Msg("malformed client message")
		c.sendError(ErrorCodeBadRequest, "message is not a valid command")
		return
	}

	log.Debug().
		Str("connection_id", c.ID).
		Str("session_id", c.Session.ID().String()).
		Str("command", string(cmd.Type)).
		Msg("received client command")

	switch cmd.Type {
	case CommandStart:
		c.startAsync(models.Level(cmd.Level))
	case CommandSelect:
		if cmd.Position == nil {
			c.sendError(ErrorCodeBadRequest, "select requires a position")
			return
		}
		if !c.Session.SelectCard(*cmd.Position) {
			log.Debug().
				Str("session_id", c.Session.ID().String()).
				Int("position", *cmd.Position).
				Msg("selection ignored")
		}
	case CommandReset:
		c.cancelPendingStart()
		c.Session.Reset()
	case CommandState:
		c.sendSnapshot()
	default:
		c.sendError(ErrorCodeUnknownCommand, "unknown command type: "+string(cmd.Type))
	}
}

// startAsync builds the deck off the read loop so state and reset stay
// responsive. A newer start, a reset or a disconnect cancels a build in flight.
func (c *Connection) startAsync(level models.Level) {
	ctx, cancel := context.WithCancel(c.ctx)

	c.startMu.Lock()
	if c.cancelStart != nil {
		c.cancelStart()
	}
	c.cancelStart = cancel
	c.startMu.Unlock()

	go func() {
		defer cancel()

		err := c.Session.Start(ctx, level)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			log.Debug().
				Str("session_id", c.Session.ID().String()).
				Str("level", string(level)).
				Msg("start cancelled")
			return
		}
		log.Warn().
			Err(err).
			Str("session_id", c.Session.ID().String()).
			Str("level", string(level)).
			Msg("failed to start game")
		c.sendError(startErrorCode(err), err.Error())
	}()
}

func (c *Connection) cancelPendingStart() {
	c.startMu.Lock()
	defer c.startMu.Unlock()
	if c.cancelStart != nil {
		c.cancelStart()
		c.cancelStart = nil
	}
}

func startErrorCode(err error) string {
	switch {
	case errors.Is(err, models.ErrUnknownLevel):
		return ErrorCodeUnknownLevel
	case errors.Is(err, catalog.ErrProviderUnavailable):
		return ErrorCodeProviderUnavailable
	case errors.Is(err, deck.ErrInsufficientContent):
		return ErrorCodeInsufficientContent
	case errors.Is(err, deck.ErrPreloadFailed):
		return ErrorCodePreloadFailed
	default:
		return ErrorCodeStartFailed
	}
}

// sendError and sendSnapshot go through the broadcast loop so they stay
// ordered with the session's own events.
func (c *Connection) sendError(code, message string) {
	c.Manager.Emit(events.New(c.Session.ID(), events.EventTypeError, events.ErrorPayload{
		Code:    code,
		Message: message,
	}, time.Now()))
}

func (c *Connection) sendSnapshot() {
	c.Manager.Emit(events.New(c.Session.ID(), events.EventTypeSnapshot, c.Session.Snapshot(), time.Now()))
}
