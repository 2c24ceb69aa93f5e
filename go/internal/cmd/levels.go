package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcdev12/memorymatch/go/internal/models"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the difficulty levels",
	Run: func(cmd *cobra.Command, args []string) {
		printLevels(cmd.OutOrStdout(), models.DefaultDifficulties())
	},
}

func printLevels(w io.Writer, table models.DifficultyTable) {
	header := color.New(color.FgCyan, color.Bold)
	header.Fprintf(w, "%-8s %6s %6s %8s\n", "LEVEL", "PAIRS", "CARDS", "TIME")
	for _, p := range table.Profiles() {
		fmt.Fprintf(w, "%-8s %6d %6d %8s\n",
			color.HiWhiteString("%s", p.Level), p.Pairs, 2*p.Pairs, p.TimeBudget)
	}
}
