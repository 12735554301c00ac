// Package ingest pulls market data from the provider into the store.
package ingest

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/external/polygon"
	"github.com/wonny/sepa/backend/internal/store"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// detailWorkers bounds concurrent per-symbol reference calls. The provider
// rate limiter does the real throttling; this just caps in-flight requests.
const detailWorkers = 8

// earningsStatementLimit is how many quarterly statements to keep per
// symbol. Twelve quarters covers the acceleration lookback with slack.
const earningsStatementLimit = 12

// earningsSurpriseLimit caps the surprise history pulled per symbol.
const earningsSurpriseLimit = 12

// Fetcher orchestrates provider calls and persistence.
type Fetcher struct {
	client   *polygon.Client
	prices   *store.PriceRepository
	tickers  *store.TickerRepository
	earnings *store.EarningsRepository
	log      *logger.Logger
}

// NewFetcher creates a new fetcher.
func NewFetcher(client *polygon.Client, prices *store.PriceRepository, tickers *store.TickerRepository, earnings *store.EarningsRepository, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client:   client,
		prices:   prices,
		tickers:  tickers,
		earnings: earnings,
		log:      log,
	}
}

// FetchTickers refreshes the reference data: the active ticker list plus
// per-symbol details (market cap, list date, sector).
func (f *Fetcher) FetchTickers(ctx context.Context) (int, error) {
	listed, err := f.client.ListActiveTickers(ctx)
	if err != nil {
		return 0, err
	}

	detailed := make([]contracts.TickerDetails, len(listed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailWorkers)
	for i := range listed {
		i := i
		g.Go(func() error {
			d, err := f.client.GetTickerDetails(gctx, listed[i].Symbol)
			if err != nil {
				// Keep the listing row; details fill in on the next refresh.
				f.log.WithField("symbol", listed[i].Symbol).WithError(err).Warn("Ticker details fetch failed")
				detailed[i] = listed[i]
				return nil
			}
			detailed[i] = *d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := f.tickers.SaveTickers(ctx, detailed); err != nil {
		return 0, fmt.Errorf("save tickers: %w", err)
	}
	return len(detailed), nil
}

// FetchDailyBars loads the whole market's bars for one trading day via the
// grouped endpoint and upserts them.
func (f *Fetcher) FetchDailyBars(ctx context.Context, date time.Time) (int, error) {
	grouped, err := f.client.GetGroupedDaily(ctx, date)
	if err != nil {
		return 0, err
	}
	if len(grouped) == 0 {
		return 0, fmt.Errorf("no bars for %s (holiday or future date?)", date.Format("2006-01-02"))
	}

	saved := 0
	for symbol, bar := range grouped {
		if err := f.prices.SaveBars(ctx, symbol, contracts.Bars{bar}); err != nil {
			return saved, fmt.Errorf("save bars %s: %w", symbol, err)
		}
		saved++
	}

	f.log.WithFields(map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"symbols": saved,
	}).Info("Daily bars ingested")
	return saved, nil
}

// BackfillSymbol loads the full per-symbol history needed by the long
// moving averages, resuming from the latest stored bar when one exists.
func (f *Fetcher) BackfillSymbol(ctx context.Context, symbol string, days int) (int, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	if latest, err := f.prices.GetLatestBarDate(ctx, symbol); err != nil {
		return 0, err
	} else if latest != nil && latest.After(from) {
		from = latest.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return 0, nil
	}

	bars, err := f.client.GetDailyBars(ctx, symbol, from, to)
	if err != nil {
		return 0, err
	}
	if err := f.prices.SaveBars(ctx, symbol, bars); err != nil {
		return 0, fmt.Errorf("save bars %s: %w", symbol, err)
	}
	return len(bars), nil
}

// FetchEarnings refreshes income statements, surprise history and the
// report calendar for the given symbols.
func (f *Fetcher) FetchEarnings(ctx context.Context, symbols []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailWorkers)
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			statements, err := f.client.GetIncomeStatements(gctx, symbol, earningsStatementLimit)
			if err != nil {
				f.log.WithField("symbol", symbol).WithError(err).Warn("Financials fetch failed")
				return nil
			}
			if err := f.earnings.SaveIncomeStatements(gctx, statements); err != nil {
				return fmt.Errorf("save statements %s: %w", symbol, err)
			}

			surprises, upcoming, err := f.client.GetEarningsHistory(gctx, symbol, earningsSurpriseLimit)
			if err != nil {
				f.log.WithField("symbol", symbol).WithError(err).Warn("Earnings fetch failed")
				return nil
			}
			if err := f.earnings.SaveSurprises(gctx, surprises); err != nil {
				return fmt.Errorf("save surprises %s: %w", symbol, err)
			}
			if err := f.earnings.SaveCalendar(gctx, upcoming); err != nil {
				return fmt.Errorf("save calendar %s: %w", symbol, err)
			}
			return nil
		})
	}
	return g.Wait()
}
