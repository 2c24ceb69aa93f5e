package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Level names a difficulty profile.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// ErrUnknownLevel is returned when a level name has no profile.
var ErrUnknownLevel = errors.New("unknown difficulty level")

// DifficultyProfile sizes a game: how many pairs and how long the clock runs.
type DifficultyProfile struct {
	Level      Level         `json:"level"`
	Pairs      int           `json:"pairs"`
	TimeBudget time.Duration `json:"-"`
}

// TimeBudgetSeconds is the budget in whole seconds, the unit the countdown works in.
func (p DifficultyProfile) TimeBudgetSeconds() int {
	return int(p.TimeBudget / time.Second)
}

// DifficultyTable maps level names to profiles.
type DifficultyTable map[Level]DifficultyProfile

// DefaultDifficulties returns the three stock levels.
func DefaultDifficulties() DifficultyTable {
	return DifficultyTable{
		LevelEasy:   {Level: LevelEasy, Pairs: 3, TimeBudget: 30 * time.Second},
		LevelMedium: {Level: LevelMedium, Pairs: 6, TimeBudget: 60 * time.Second},
		LevelHard:   {Level: LevelHard, Pairs: 9, TimeBudget: 90 * time.Second},
	}
}

// Lookup returns the profile for a level name.
func (t DifficultyTable) Lookup(level Level) (DifficultyProfile, error) {
	p, ok := t[level]
	if !ok {
		return DifficultyProfile{}, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	return p, nil
}

// Profiles returns all profiles ordered by pair count.
func (t DifficultyTable) Profiles() []DifficultyProfile {
	out := make([]DifficultyProfile, 0, len(t))
	for _, p := range t {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pairs == out[j].Pairs {
			return out[i].Level < out[j].Level
		}
		return out[i].Pairs < out[j].Pairs
	})
	return out
}
