package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/sepa/backend/internal/ingest"
	"github.com/wonny/sepa/backend/internal/store"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// ReferenceRefreshJob refreshes slow-moving data weekly: the ticker list
// with market caps and sectors, and per-symbol earnings history.
type ReferenceRefreshJob struct {
	fetcher *ingest.Fetcher
	tickers *store.TickerRepository
	logger  *logger.Logger
}

// NewReferenceRefreshJob creates the weekly reference refresh job.
func NewReferenceRefreshJob(fetcher *ingest.Fetcher, tickers *store.TickerRepository, log *logger.Logger) *ReferenceRefreshJob {
	return &ReferenceRefreshJob{fetcher: fetcher, tickers: tickers, logger: log}
}

// Name returns the job name.
func (j *ReferenceRefreshJob) Name() string {
	return "reference_refresh"
}

// Schedule runs Sunday mornings, when the provider is idle.
func (j *ReferenceRefreshJob) Schedule() string {
	return "0 0 6 * * 0"
}

// Run refreshes tickers first, then earnings for every active symbol.
func (j *ReferenceRefreshJob) Run(ctx context.Context) error {
	count, err := j.fetcher.FetchTickers(ctx)
	if err != nil {
		return fmt.Errorf("refresh tickers: %w", err)
	}
	j.logger.WithField("tickers", count).Info("Ticker refresh finished")

	tickers, err := j.tickers.ListTickers(ctx)
	if err != nil {
		return fmt.Errorf("list tickers: %w", err)
	}
	var symbols []string
	for _, t := range tickers {
		if t.Active {
			symbols = append(symbols, t.Symbol)
		}
	}

	if err := j.fetcher.FetchEarnings(ctx, symbols); err != nil {
		return fmt.Errorf("refresh earnings: %w", err)
	}
	j.logger.WithField("symbols", len(symbols)).Info("Earnings refresh finished")
	return nil
}
