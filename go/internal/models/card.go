package models

import "fmt"

// CardRef is a single playable card. Exactly two cards in a deck share a PairKey.
type CardRef struct {
	PairKey  string `json:"pair_key"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Deck is the ordered card layout of one game.
type Deck []CardRef

// PairKeys returns the distinct pair keys in first-seen order.
func (d Deck) PairKeys() []string {
	seen := make(map[string]bool, len(d)/2)
	keys := make([]string, 0, len(d)/2)
	for _, c := range d {
		if !seen[c.PairKey] {
			seen[c.PairKey] = true
			keys = append(keys, c.PairKey)
		}
	}
	return keys
}

// Validate checks that the deck holds pairCount pairs, every key appears exactly twice
// and every card sits at its own index.
func (d Deck) Validate(pairCount int) error {
	if len(d) != 2*pairCount {
		return fmt.Errorf("deck has %d cards, want %d", len(d), 2*pairCount)
	}

	counts := make(map[string]int, pairCount)
	for i, c := range d {
		if c.Position != i {
			return fmt.Errorf("card %d has position %d", i, c.Position)
		}
		counts[c.PairKey]++
	}
	for key, n := range counts {
		if n != 2 {
			return fmt.Errorf("pair key %q appears %d times", key, n)
		}
	}
	return nil
}
