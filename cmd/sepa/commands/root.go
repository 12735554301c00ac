package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sepa",
	Short: "SEPA equity screener - trend templates, bases and breakout signals",
	Long: `SEPA equity screener

Daily US equity screening: trend template, relative strength ranking,
volatility contraction and cup-and-handle bases, earnings quality and
Buy/Wait/Pass signals with trade levels.

Usage:
  go run ./cmd/sepa [command]

Examples:
  go run ./cmd/sepa analyze --date 2025-08-15
  go run ./cmd/sepa fetch prices
  go run ./cmd/sepa top --limit 20
  go run ./cmd/sepa api
  go run ./cmd/sepa scheduler`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy thresholds YAML (default from STRATEGY_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
