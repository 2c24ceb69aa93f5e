package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDifficulties(t *testing.T) {
	table := DefaultDifficulties()

	tests := []struct {
		level   Level
		pairs   int
		seconds int
	}{
		{LevelEasy, 3, 30},
		{LevelMedium, 6, 60},
		{LevelHard, 9, 90},
	}
	for _, tt := range tests {
		p, err := table.Lookup(tt.level)
		require.NoError(t, err)
		assert.Equal(t, tt.pairs, p.Pairs, "pairs for %s", tt.level)
		assert.Equal(t, tt.seconds, p.TimeBudgetSeconds(), "seconds for %s", tt.level)
	}

	_, err := table.Lookup("nightmare")
	assert.True(t, errors.Is(err, ErrUnknownLevel))

	profiles := table.Profiles()
	require.Len(t, profiles, 3)
	assert.Equal(t, LevelEasy, profiles[0].Level)
	assert.Equal(t, LevelHard, profiles[2].Level)
}

func TestDeckValidate(t *testing.T) {
	good := Deck{
		{PairKey: "a", Position: 0},
		{PairKey: "b", Position: 1},
		{PairKey: "a", Position: 2},
		{PairKey: "b", Position: 3},
	}
	assert.NoError(t, good.Validate(2))
	assert.Equal(t, []string{"a", "b"}, good.PairKeys())

	assert.Error(t, good.Validate(3), "wrong size")

	triple := Deck{
		{PairKey: "a", Position: 0},
		{PairKey: "a", Position: 1},
		{PairKey: "a", Position: 2},
		{PairKey: "b", Position: 3},
	}
	assert.Error(t, triple.Validate(2))

	misplaced := Deck{
		{PairKey: "a", Position: 1},
		{PairKey: "a", Position: 0},
	}
	assert.Error(t, misplaced.Validate(1))
}

func TestTimeBudgetSecondsTruncates(t *testing.T) {
	p := DifficultyProfile{TimeBudget: 1500 * time.Millisecond}
	assert.Equal(t, 1, p.TimeBudgetSeconds())
}
