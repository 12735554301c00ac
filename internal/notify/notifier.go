// Package notify raises watchlist events by diffing the latest snapshots
// against the previous run.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/store"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Notification kinds.
const (
	KindSignalChange  = "SIGNAL_CHANGE"
	KindStageChange   = "STAGE_CHANGE"
	KindBreakout      = "BREAKOUT"
	KindStopViolation = "STOP_VIOLATION"
	KindEarningsSoon  = "EARNINGS_SOON"
)

// earningsSoonDays is how close a scheduled report must be to raise
// an EARNINGS_SOON event.
const earningsSoonDays = 7

// MetricsSource serves snapshots for the diff.
type MetricsSource interface {
	GetMetrics(ctx context.Context, symbol string, date time.Time) (*contracts.SymbolMetrics, error)
}

// WatchlistSource lists watched symbols and records events.
type WatchlistSource interface {
	List(ctx context.Context) ([]store.WatchlistEntry, error)
	SaveNotifications(ctx context.Context, notifications []store.Notification) error
}

// Notifier diffs run snapshots for watchlist symbols.
type Notifier struct {
	metrics   MetricsSource
	watchlist WatchlistSource
	log       *logger.Logger
}

// NewNotifier creates a new notifier.
func NewNotifier(metrics MetricsSource, watchlist WatchlistSource, log *logger.Logger) *Notifier {
	return &Notifier{metrics: metrics, watchlist: watchlist, log: log}
}

// Check compares each watched symbol's snapshot on date against the one on
// prevDate and persists the resulting events. Symbols without a snapshot on
// either date are skipped.
func (n *Notifier) Check(ctx context.Context, date, prevDate time.Time) ([]store.Notification, error) {
	entries, err := n.watchlist.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	var events []store.Notification
	for _, entry := range entries {
		current, err := n.metrics.GetMetrics(ctx, entry.Symbol, date)
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", entry.Symbol, err)
		}
		if current == nil {
			continue
		}

		previous, err := n.metrics.GetMetrics(ctx, entry.Symbol, prevDate)
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", entry.Symbol, err)
		}

		events = append(events, n.diff(entry.Symbol, date, previous, current)...)
	}

	if len(events) > 0 {
		if err := n.watchlist.SaveNotifications(ctx, events); err != nil {
			return nil, fmt.Errorf("save notifications: %w", err)
		}
	}

	n.log.WithFields(map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"watched": len(entries),
		"events":  len(events),
	}).Info("Watchlist check finished")
	return events, nil
}

// diff produces the events for one symbol. previous may be nil on the
// first run after a symbol is added.
func (n *Notifier) diff(symbol string, date time.Time, previous, current *contracts.SymbolMetrics) []store.Notification {
	var events []store.Notification
	add := func(kind, message string) {
		events = append(events, store.Notification{
			Symbol:    symbol,
			EventDate: date,
			Kind:      kind,
			Message:   message,
		})
	}

	if previous != nil && previous.SignalResult.Signal != current.SignalResult.Signal {
		add(KindSignalChange, fmt.Sprintf("%s: %s -> %s",
			symbol, previous.SignalResult.Signal, current.SignalResult.Signal))
	}

	if previous != nil && previous.Stage != current.Stage {
		add(KindStageChange, fmt.Sprintf("%s: %s -> %s",
			symbol, previous.StageName, current.StageName))
	}

	// Breakout: close crossed the pivot between runs.
	if pivot := current.Pattern.Pivot; pivot != nil && current.Close > *pivot {
		crossed := previous == nil || previous.Close <= *pivot
		if crossed {
			add(KindBreakout, fmt.Sprintf("%s broke out above pivot %.2f (close %.2f)",
				symbol, *pivot, current.Close))
		}
	}

	if stop := current.SignalResult.StopLoss; stop != nil && current.Close < *stop {
		add(KindStopViolation, fmt.Sprintf("%s closed at %.2f below stop %.2f",
			symbol, current.Close, *stop))
	}

	if up := current.Upcoming; up != nil && up.DaysUntil >= 0 && up.DaysUntil <= earningsSoonDays {
		add(KindEarningsSoon, fmt.Sprintf("%s reports earnings in %d days (%s)",
			symbol, up.DaysUntil, up.ReportDate.Format("2006-01-02")))
	}

	return events
}
