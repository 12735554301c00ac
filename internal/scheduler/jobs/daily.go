// Package jobs holds the scheduled pipeline jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/sepa/backend/internal/analyzer"
	"github.com/wonny/sepa/backend/internal/ingest"
	"github.com/wonny/sepa/backend/internal/notify"
	"github.com/wonny/sepa/backend/internal/scheduler"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// DailyScreenJob runs the full pipeline after the close: ingest the day's
// bars, analyze the universe, diff the watchlist.
type DailyScreenJob struct {
	calendar *scheduler.TradingCalendar
	fetcher  *ingest.Fetcher
	analyzer *analyzer.Analyzer
	notifier *notify.Notifier
	logger   *logger.Logger
}

// NewDailyScreenJob creates the daily screening job.
func NewDailyScreenJob(cal *scheduler.TradingCalendar, fetcher *ingest.Fetcher, a *analyzer.Analyzer, n *notify.Notifier, log *logger.Logger) *DailyScreenJob {
	return &DailyScreenJob{
		calendar: cal,
		fetcher:  fetcher,
		analyzer: a,
		notifier: n,
		logger:   log,
	}
}

// Name returns the job name.
func (j *DailyScreenJob) Name() string {
	return "daily_screen"
}

// Schedule runs weekday evenings, after the NYSE close and the provider's
// end-of-day consolidation.
func (j *DailyScreenJob) Schedule() string {
	return "0 0 18 * * 1-5"
}

// Run executes the pipeline for today. Non-trading days are a quiet no-op
// so the weekday schedule does not need holiday awareness.
func (j *DailyScreenJob) Run(ctx context.Context) error {
	now := time.Now()
	if !j.calendar.IsTradingDay(now) {
		j.logger.WithField("date", now.Format("2006-01-02")).Info("Not a trading day, skipping")
		return nil
	}
	date := dateOnly(now)

	if _, err := j.fetcher.FetchDailyBars(ctx, date); err != nil {
		return fmt.Errorf("ingest bars: %w", err)
	}

	summary, err := j.analyzer.Run(ctx, date)
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	j.logger.WithFields(map[string]interface{}{
		"analyzed": summary.Analyzed,
		"buys":     summary.BuyCount,
	}).Info("Scheduled analysis finished")

	prev := dateOnly(j.calendar.PrevTradingDay(now))
	if _, err := j.notifier.Check(ctx, date, prev); err != nil {
		return fmt.Errorf("watchlist check: %w", err)
	}
	return nil
}

// dateOnly normalizes a timestamp to its calendar date in UTC, matching how
// bars are keyed in the store.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
