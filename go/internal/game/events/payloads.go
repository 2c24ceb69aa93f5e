package events

// PowerUpMessage is shown while the power-up freezes the clock.
const PowerUpMessage = "Power-Up Activated: Timer Frozen for 5 Seconds!"

// CardFace is a face-up card as shown to the player.
type CardFace struct {
	Position int    `json:"position"`
	PairKey  string `json:"pair_key"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// GameStartedPayload is the payload for a game_started event
type GameStartedPayload struct {
	Level            string `json:"level"`
	TotalPairs       int    `json:"total_pairs"`
	CardCount        int    `json:"card_count"`
	TimeBudgetSec    int    `json:"time_budget_sec"`
	PowerUpFreezeSec int    `json:"power_up_freeze_sec"`
}

// StatusPayload mirrors the status panel: clicks, pairs and time.
type StatusPayload struct {
	Clicks       int  `json:"clicks"`
	PairsLeft    int  `json:"pairs_left"`
	PairsMatched int  `json:"pairs_matched"`
	TotalPairs   int  `json:"total_pairs"`
	TimeLeftSec  int  `json:"time_left_sec"`
	Locked       bool `json:"locked"`
}

// CardRevealedPayload is the payload for a card_revealed event
type CardRevealedPayload struct {
	Card CardFace `json:"card"`
}

// CardsHiddenPayload is the payload for a cards_hidden event
type CardsHiddenPayload struct {
	Positions []int `json:"positions"`
}

// PairPayload is the payload for pair_matched and pair_mismatched events
type PairPayload struct {
	Positions [2]int `json:"positions"`
	PairKey   string `json:"pair_key,omitempty"`
}

// TimerTickPayload contains the countdown after each second
type TimerTickPayload struct {
	TimeLeftSec int `json:"time_left_sec"`
}

// PowerUpPayload is the payload for power-up events
type PowerUpPayload struct {
	Message   string `json:"message"`
	FreezeSec int    `json:"freeze_sec,omitempty"`
}

// GameOverPayload is the payload for game_won and game_timed_out events
type GameOverPayload struct {
	Message      string `json:"message"`
	Clicks       int    `json:"clicks"`
	PairsMatched int    `json:"pairs_matched"`
	TotalPairs   int    `json:"total_pairs"`
	TimeLeftSec  int    `json:"time_left_sec"`
}

// ErrorPayload carries a failed command back to the client
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
