package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	config     *Config
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "memorymatch",
	Short: "Memory matching card game server",
	Long: `memorymatch serves a Pokémon memory-matching game over WebSocket.
Each connection plays its own game: flip two cards at a time, match every pair before the clock runs out.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Debug().Err(err).Msg("could not load .env file")
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		setupLogging(cfg.LogLevel)
		config = cfg
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	RootCmd.AddCommand(serveCmd, levelsCmd, deckCmd)
}
