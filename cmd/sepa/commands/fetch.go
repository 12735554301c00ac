package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	fetchDate    string
	backfillDays int
	fetchSymbols []string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch market data into the store",
	Long: `Pulls data from the market-data provider into PostgreSQL.

Subcommands:
  prices    grouped daily bars for one date, or per-symbol backfill
  tickers   active ticker list with market caps, list dates and sectors
  earnings  income statements, surprises and report calendar

Example:
  go run ./cmd/sepa fetch prices --date 2025-08-15
  go run ./cmd/sepa fetch prices --symbols NVDA,CRWD --days 760
  go run ./cmd/sepa fetch tickers
  go run ./cmd/sepa fetch earnings --symbols NVDA`,
}

var fetchPricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Fetch daily bars",
	RunE:  runFetchPrices,
}

var fetchTickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "Fetch the active ticker reference list",
	RunE:  runFetchTickers,
}

var fetchEarningsCmd = &cobra.Command{
	Use:   "earnings",
	Short: "Fetch earnings data for symbols",
	RunE:  runFetchEarnings,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.AddCommand(fetchPricesCmd, fetchTickersCmd, fetchEarningsCmd)

	fetchPricesCmd.Flags().StringVar(&fetchDate, "date", "", "trading date YYYY-MM-DD (default: today)")
	fetchPricesCmd.Flags().IntVar(&backfillDays, "days", 760, "calendar days of history for --symbols backfill")
	fetchPricesCmd.Flags().StringSliceVar(&fetchSymbols, "symbols", nil, "backfill these symbols instead of the grouped daily")
	fetchEarningsCmd.Flags().StringSliceVar(&fetchSymbols, "symbols", nil, "symbols to fetch (default: all active tickers)")
}

func runFetchPrices(cmd *cobra.Command, args []string) error {
	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()
	fetcher := a.newFetcher()
	ctx := context.Background()

	if len(fetchSymbols) > 0 {
		for _, symbol := range fetchSymbols {
			n, err := fetcher.BackfillSymbol(ctx, symbol, backfillDays)
			if err != nil {
				return fmt.Errorf("backfill %s: %w", symbol, err)
			}
			fmt.Printf("%s: %d bars\n", symbol, n)
		}
		return nil
	}

	date, err := parseDateFlag(fetchDate)
	if err != nil {
		return err
	}
	n, err := fetcher.FetchDailyBars(ctx, date)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d symbols ingested\n", date.Format("2006-01-02"), n)
	return nil
}

func runFetchTickers(cmd *cobra.Command, args []string) error {
	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := a.newFetcher().FetchTickers(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%d tickers refreshed\n", n)
	return nil
}

func runFetchEarnings(cmd *cobra.Command, args []string) error {
	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := context.Background()

	symbols := fetchSymbols
	if len(symbols) == 0 {
		tickers, err := a.tickers.ListTickers(ctx)
		if err != nil {
			return fmt.Errorf("list tickers: %w", err)
		}
		for _, t := range tickers {
			if t.Active {
				symbols = append(symbols, t.Symbol)
			}
		}
	}

	if err := a.newFetcher().FetchEarnings(ctx, symbols); err != nil {
		return err
	}
	fmt.Printf("earnings refreshed for %d symbols\n", len(symbols))
	return nil
}
