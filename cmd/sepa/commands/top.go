package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	topDate  string
	topLimit int
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Print the strongest screened stocks",
	Long: `Prints the strongest snapshots for a date: BUY before WAIT before
PASS, then by RS rank and pattern score.

Example:
  go run ./cmd/sepa top
  go run ./cmd/sepa top --date 2025-08-15 --limit 20`,
	RunE: runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.Flags().StringVar(&topDate, "date", "", "date YYYY-MM-DD (default: latest run)")
	topCmd.Flags().IntVar(&topLimit, "limit", 25, "number of stocks to print")
}

func runTop(cmd *cobra.Command, args []string) error {
	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := context.Background()

	var date time.Time
	if topDate != "" {
		date, err = parseDateFlag(topDate)
		if err != nil {
			return err
		}
	} else {
		latest, err := a.metrics.GetLatestDate(ctx)
		if err != nil {
			return fmt.Errorf("load latest date: %w", err)
		}
		if latest == nil {
			return fmt.Errorf("no analysis runs yet")
		}
		date = *latest
	}

	top, err := a.metrics.GetTopStocks(ctx, date, topLimit)
	if err != nil {
		return fmt.Errorf("load top stocks: %w", err)
	}

	fmt.Printf("\nTop stocks for %s\n\n", date.Format("2006-01-02"))
	fmt.Printf("%-8s %-6s %8s %5s %5s %-16s %6s %9s %9s\n",
		"SYMBOL", "SIG", "CLOSE", "RS", "TPL", "STAGE", "SCORE", "PIVOT", "STOP")
	for _, m := range top {
		fmt.Printf("%-8s %-6s %8.2f %5s %4d/9 %-16s %6d %9s %9s\n",
			m.Symbol,
			m.SignalResult.Signal,
			m.Close,
			fmtRank(m.RSRank),
			m.CriteriaPassed,
			m.StageName,
			m.Pattern.Score,
			fmtPrice(m.Pattern.Pivot),
			fmtPrice(m.SignalResult.StopLoss),
		)
	}
	fmt.Printf("\n%d stocks\n", len(top))
	return nil
}

func fmtRank(rank *int) string {
	if rank == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *rank)
}

func fmtPrice(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
