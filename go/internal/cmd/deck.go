package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mcdev12/memorymatch/go/internal/game/deck"
	"github.com/mcdev12/memorymatch/go/internal/models"
)

var (
	deckLevel   string
	deckSeed    uint64
	deckTimeout time.Duration
)

// deckCmd builds one deck against the live catalog, handy for checking connectivity.
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Build and print a deck for a level",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), deckTimeout)
		defer cancel()

		profile, err := models.DefaultDifficulties().Lookup(models.Level(deckLevel))
		if err != nil {
			return err
		}

		var opts []deck.Option
		if deckSeed != 0 {
			opts = append(opts, deck.WithRand(rand.New(rand.NewPCG(deckSeed, deckSeed))))
		}
		cache, builder := setupGame(config, opts...)

		items, err := cache.Items(ctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		log.Info().Int("items", len(items)).Msg("catalog loaded")

		d, err := builder.Build(ctx, items, profile.Pairs)
		if err != nil {
			return fmt.Errorf("build deck: %w", err)
		}

		printDeck(cmd.OutOrStdout(), profile, d)
		return nil
	},
}

func init() {
	deckCmd.Flags().StringVarP(&deckLevel, "level", "l", string(models.LevelEasy), "difficulty level")
	deckCmd.Flags().Uint64Var(&deckSeed, "seed", 0, "shuffle seed, 0 for random")
	deckCmd.Flags().DurationVar(&deckTimeout, "timeout", 60*time.Second, "overall timeout")
}

var pairColors = []color.Attribute{
	color.FgRed, color.FgGreen, color.FgYellow, color.FgBlue, color.FgMagenta, color.FgCyan,
	color.FgHiRed, color.FgHiGreen, color.FgHiYellow,
}

// printDeck lists the cards in grid order, both cards of a pair sharing a color.
func printDeck(w io.Writer, profile models.DifficultyProfile, d models.Deck) {
	color.New(color.FgCyan, color.Bold).Fprintf(w, "%s: %d pairs, %s\n", profile.Level, profile.Pairs, profile.TimeBudget)

	colors := make(map[string]*color.Color)
	for _, key := range d.PairKeys() {
		colors[key] = color.New(pairColors[len(colors)%len(pairColors)])
	}

	for _, card := range d {
		colors[card.PairKey].Fprintf(w, "%3d  %-14s %-14s", card.Position, card.PairKey, card.Name)
		fmt.Fprintf(w, " %s\n", card.ImageURL)
	}
}
