package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/memorymatch/go/internal/game/events"
	"github.com/mcdev12/memorymatch/go/internal/game/timer"
	"github.com/mcdev12/memorymatch/go/internal/models"
)

// Config wires a session to its collaborators. Clock, Difficulties and Emit
// fall back to the real clock, the stock levels and a discarding emitter.
type Config struct {
	Clock        clockwork.Clock
	Catalog      CatalogSource
	Builder      DeckBuilder
	Difficulties models.DifficultyTable
	Emit         events.Emitter
}

// Session is one player's game. All transitions happen under mu, and every
// delayed callback carries the game it was scheduled for so a reset or a new
// game turns it into a no-op.
type Session struct {
	id           uuid.UUID
	clock        clockwork.Clock
	catalog      CatalogSource
	builder      DeckBuilder
	difficulties models.DifficultyTable
	emit         events.Emitter

	mu     sync.Mutex
	status Status
	game   *game
}

type game struct {
	profile       models.DifficultyProfile
	deck          models.Deck
	revealed      []bool
	matched       []bool
	turn          []int
	locked        bool
	clicks        int
	matchedPairs  int
	powerUpUsed   bool
	powerUpActive bool
	timeLeft      int
	timer         *timer.Timer
}

func New(cfg Config) *Session {
	s := &Session{
		id:           uuid.New(),
		clock:        cfg.Clock,
		catalog:      cfg.Catalog,
		builder:      cfg.Builder,
		difficulties: cfg.Difficulties,
		emit:         cfg.Emit,
		status:       StatusIdle,
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.difficulties == nil {
		s.difficulties = models.DefaultDifficulties()
	}
	if s.emit == nil {
		s.emit = events.Discard
	}
	return s
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start builds a deck for level and begins a new game, replacing any game in
// progress. On error nothing about the session changes.
func (s *Session) Start(ctx context.Context, level models.Level) error {
	profile, err := s.difficulties.Lookup(level)
	if err != nil {
		return err
	}

	items, err := s.catalog.Items(ctx)
	if err != nil {
		log.Error().Err(err).Str("session_id", s.id.String()).Msg("failed to load catalog")
		return fmt.Errorf("load catalog: %w", err)
	}

	deck, err := s.builder.Build(ctx, items, profile.Pairs)
	if err != nil {
		log.Error().Err(err).Str("session_id", s.id.String()).Str("level", string(level)).Msg("failed to build deck")
		return fmt.Errorf("build deck: %w", err)
	}
	if err := deck.Validate(profile.Pairs); err != nil {
		log.Error().Err(err).Str("session_id", s.id.String()).Msg("deck builder broke pairing invariant")
		return fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A start cancelled while its deck was being built must not replace whatever happened since.
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.game != nil {
		s.game.timer.Stop()
	}

	g := &game{
		profile:  profile,
		deck:     deck,
		revealed: make([]bool, len(deck)),
		matched:  make([]bool, len(deck)),
		turn:     make([]int, 0, 2),
		timeLeft: profile.TimeBudgetSeconds(),
	}
	g.timer = timer.New(s.clock, timer.Callbacks{
		OnTick:   func(remaining int) { s.handleTick(g, remaining) },
		OnExpire: func() { s.handleExpire(g) },
	})
	s.game = g
	s.status = StatusRunning

	log.Info().
		Str("session_id", s.id.String()).
		Str("level", string(level)).
		Int("pairs", profile.Pairs).
		Int("time_budget_sec", g.timeLeft).
		Msg("game started")

	s.emitLocked(events.EventTypeGameStarted, events.GameStartedPayload{
		Level:            string(profile.Level),
		TotalPairs:       profile.Pairs,
		CardCount:        len(deck),
		TimeBudgetSec:    g.timeLeft,
		PowerUpFreezeSec: int(PowerUpFreeze.Seconds()),
	})
	s.emitStatusLocked()

	g.timer.Start(g.timeLeft)
	return nil
}

// SelectCard flips the card at position. It reports false, changing nothing,
// when no game is running, the board is locked, or the card is not face down.
func (s *Session) SelectCard(position int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	if s.status != StatusRunning || g == nil || g.locked {
		return false
	}
	if position < 0 || position >= len(g.deck) || g.revealed[position] || g.matched[position] {
		return false
	}

	g.revealed[position] = true
	g.clicks++
	g.turn = append(g.turn, position)

	card := g.deck[position]
	log.Debug().
		Str("session_id", s.id.String()).
		Int("position", position).
		Str("pair_key", card.PairKey).
		Int("clicks", g.clicks).
		Msg("card revealed")

	s.emitLocked(events.EventTypeCardRevealed, events.CardRevealedPayload{Card: faceOf(card)})

	if len(g.turn) == 1 {
		s.emitStatusLocked()
		return true
	}

	g.locked = true
	first, second := g.turn[0], g.turn[1]
	if g.deck[first].PairKey == g.deck[second].PairKey {
		s.resolveMatchLocked(g, first, second)
	} else {
		s.resolveMismatchLocked(g, first, second)
	}
	return true
}

func (s *Session) resolveMatchLocked(g *game, first, second int) {
	g.matched[first] = true
	g.matched[second] = true
	g.matchedPairs++

	log.Debug().
		Str("session_id", s.id.String()).
		Str("pair_key", g.deck[first].PairKey).
		Int("matched_pairs", g.matchedPairs).
		Msg("pair matched")

	s.emitLocked(events.EventTypePairMatched, events.PairPayload{
		Positions: [2]int{first, second},
		PairKey:   g.deck[first].PairKey,
	})

	if g.matchedPairs == 1 && !g.powerUpUsed {
		g.powerUpUsed = true
		g.powerUpActive = true
		g.timer.Pause()
		s.emitLocked(events.EventTypePowerUpActivated, events.PowerUpPayload{
			Message:   events.PowerUpMessage,
			FreezeSec: int(PowerUpFreeze.Seconds()),
		})
		s.clock.AfterFunc(PowerUpFreeze, func() { s.endPowerUp(g) })
	}

	g.turn = g.turn[:0]
	g.locked = false

	// The clock stops on the last match so expiry cannot race the delayed win.
	if g.matchedPairs == g.profile.Pairs {
		g.timer.Stop()
		g.locked = true
		s.clock.AfterFunc(WinDelay, func() { s.finishWon(g) })
	}
	s.emitStatusLocked()
}

func (s *Session) resolveMismatchLocked(g *game, first, second int) {
	s.emitLocked(events.EventTypePairMismatched, events.PairPayload{Positions: [2]int{first, second}})
	s.emitStatusLocked()
	s.clock.AfterFunc(MismatchDelay, func() { s.hideMismatch(g, first, second) })
}

func (s *Session) hideMismatch(g *game, first, second int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game != g {
		return
	}

	g.revealed[first] = false
	g.revealed[second] = false
	g.turn = g.turn[:0]
	if s.status == StatusRunning {
		g.locked = false
	}

	s.emitLocked(events.EventTypeCardsHidden, events.CardsHiddenPayload{Positions: []int{first, second}})
	s.emitStatusLocked()
}

func (s *Session) endPowerUp(g *game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game != g || !g.powerUpActive {
		return
	}
	g.powerUpActive = false
	if s.status != StatusRunning {
		return
	}

	g.timer.Resume()
	log.Debug().Str("session_id", s.id.String()).Msg("power-up ended, timer resumed")
	s.emitLocked(events.EventTypePowerUpEnded, events.PowerUpPayload{})
}

func (s *Session) finishWon(g *game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game != g || s.status != StatusRunning {
		return
	}

	s.status = StatusWon
	g.locked = true
	g.timer.Stop()

	log.Info().
		Str("session_id", s.id.String()).
		Int("clicks", g.clicks).
		Int("time_left_sec", g.timeLeft).
		Msg("game won")

	s.emitLocked(events.EventTypeGameWon, s.gameOverLocked(g, "You won!"))
}

func (s *Session) handleTick(g *game, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game != g || s.status != StatusRunning {
		return
	}
	g.timeLeft = remaining
	s.emitLocked(events.EventTypeTimerTick, events.TimerTickPayload{TimeLeftSec: remaining})
}

func (s *Session) handleExpire(g *game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game != g {
		return
	}
	s.expireLocked(g)
}

// OnTimerExpired ends a running game as timed out. It does nothing otherwise.
func (s *Session) OnTimerExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		return
	}
	s.expireLocked(s.game)
}

func (s *Session) expireLocked(g *game) {
	if s.status != StatusRunning || g.matchedPairs == g.profile.Pairs {
		return
	}

	s.status = StatusTimedOut
	g.locked = true
	g.timer.Stop()

	log.Info().
		Str("session_id", s.id.String()).
		Int("pairs_matched", g.matchedPairs).
		Int("total_pairs", g.profile.Pairs).
		Msg("game timed out")

	s.emitLocked(events.EventTypeGameTimedOut, s.gameOverLocked(g, "Game Over!"))
}

// Reset abandons any game and returns the session to idle.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game != nil {
		s.game.timer.Stop()
	}
	s.game = nil
	s.status = StatusIdle

	log.Info().Str("session_id", s.id.String()).Msg("game reset")
	s.emitLocked(events.EventTypeGameReset, nil)
	s.emitStatusLocked()
}

// Close stops the clock without emitting anything, for sessions whose presenter went away.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game != nil {
		s.game.timer.Stop()
	}
	s.game = nil
	s.status = StatusIdle
}

// Snapshot returns the current state. Hidden cards expose only position and matched flag.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		SessionID:  s.id.String(),
		Status:     s.status,
		TimerState: timer.StateStopped,
		TurnBuffer: []int{},
		Cards:      []CardView{},
	}

	g := s.game
	if g == nil {
		return st
	}

	st.Level = g.profile.Level
	st.TotalPairs = g.profile.Pairs
	st.MatchedPairs = g.matchedPairs
	st.Clicks = g.clicks
	st.Locked = g.locked
	st.PowerUpUsed = g.powerUpUsed
	st.PowerUpActive = g.powerUpActive
	st.TimerState = g.timer.State()
	st.TimeLeftSec = g.timeLeft
	st.TurnBuffer = append(st.TurnBuffer, g.turn...)

	st.Cards = make([]CardView, len(g.deck))
	for i, card := range g.deck {
		view := CardView{Position: i, Matched: g.matched[i], FaceUp: g.revealed[i]}
		if view.FaceUp {
			view.PairKey = card.PairKey
			view.Name = card.Name
			view.ImageURL = card.ImageURL
		}
		st.Cards[i] = view
	}
	return st
}

func (s *Session) gameOverLocked(g *game, message string) events.GameOverPayload {
	return events.GameOverPayload{
		Message:      message,
		Clicks:       g.clicks,
		PairsMatched: g.matchedPairs,
		TotalPairs:   g.profile.Pairs,
		TimeLeftSec:  g.timeLeft,
	}
}

func (s *Session) emitStatusLocked() {
	status := events.StatusPayload{}
	if g := s.game; g != nil {
		status = events.StatusPayload{
			Clicks:       g.clicks,
			PairsLeft:    g.profile.Pairs - g.matchedPairs,
			PairsMatched: g.matchedPairs,
			TotalPairs:   g.profile.Pairs,
			TimeLeftSec:  g.timeLeft,
			Locked:       g.locked,
		}
	}
	s.emitLocked(events.EventTypeStatus, status)
}

func (s *Session) emitLocked(eventType events.EventType, data any) {
	s.emit(events.New(s.id, eventType, data, s.clock.Now()))
}

func faceOf(card models.CardRef) events.CardFace {
	return events.CardFace{
		Position: card.Position,
		PairKey:  card.PairKey,
		Name:     card.Name,
		ImageURL: card.ImageURL,
	}
}
