package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/config"
	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/store"
)

var rootCmd = &cobra.Command{
	Use:   "tradebook",
	Short: "A personal trading journal",
	Long: `Tradebook is a single-user trading journal.

It provides tools for:
  - Recording trades across independent wallets
  - Closing trades at take-profit, stop-loss, or a manual price
  - Reviewing win rate, PnL, and the equity curve
  - Exporting closed trades to CSV or SQLite for offline review

State lives in human-readable JSON files written atomically.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var (
	cfgFile string
	dataDir string
	verbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tradebook/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}
	return config.Default(), nil
}

// openService wires config, store, and journal service for a command
// invocation.
func openService() (*journal.Service, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	log := newLogger()
	st, err := store.Open(cfg.DataDir, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return journal.NewService(st, log), cfg, nil
}
