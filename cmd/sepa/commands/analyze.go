package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var analyzeDate string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full screening pipeline for one date",
	Long: `Runs the screening pipeline over every symbol with bars on the
given date: indicators, trend template, RS ranking, base detection,
earnings quality, stage and signal. Results are persisted per symbol.

Example:
  go run ./cmd/sepa analyze
  go run ./cmd/sepa analyze --date 2025-08-15`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeDate, "date", "", "analysis date YYYY-MM-DD (default: today)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	date, err := parseDateFlag(analyzeDate)
	if err != nil {
		return err
	}

	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := a.newAnalyzer().Run(context.Background(), date)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Printf("\nAnalysis for %s\n", summary.Date.Format("2006-01-02"))
	fmt.Printf("  universe:  %d\n", summary.Total)
	fmt.Printf("  analyzed:  %d\n", summary.Analyzed)
	fmt.Printf("  skipped:   %d\n", summary.Skipped)
	fmt.Printf("  failed:    %d\n", summary.Failed)
	fmt.Printf("  BUY:       %d\n", summary.BuyCount)
	fmt.Printf("  WAIT:      %d\n", summary.WaitCount)
	fmt.Printf("  duration:  %s\n", summary.Duration.Round(time.Millisecond))

	for _, f := range summary.Failures {
		fmt.Printf("  failure: %s: %s\n", f.Symbol, f.Err)
	}
	return nil
}

// parseDateFlag parses a --date value, defaulting to today (UTC).
func parseDateFlag(raw string) (time.Time, error) {
	if raw == "" {
		y, m, d := time.Now().UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", raw)
	}
	return date, nil
}
