package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/store"
	"github.com/wonny/sepa/backend/pkg/config"
	"github.com/wonny/sepa/backend/pkg/logger"
)

type fakeMetrics struct {
	snapshots map[string]map[string]*contracts.SymbolMetrics // symbol -> date -> snapshot
}

func (f *fakeMetrics) GetMetrics(_ context.Context, symbol string, date time.Time) (*contracts.SymbolMetrics, error) {
	return f.snapshots[symbol][date.Format("2006-01-02")], nil
}

type fakeWatchlist struct {
	entries []store.WatchlistEntry
	saved   []store.Notification
}

func (f *fakeWatchlist) List(_ context.Context) ([]store.WatchlistEntry, error) {
	return f.entries, nil
}

func (f *fakeWatchlist) SaveNotifications(_ context.Context, notifications []store.Notification) error {
	f.saved = append(f.saved, notifications...)
	return nil
}

func f64(v float64) *float64 { return &v }

func snapshot(symbol string, close float64, signal contracts.Signal) *contracts.SymbolMetrics {
	return &contracts.SymbolMetrics{
		Symbol:       symbol,
		Close:        close,
		SignalResult: contracts.SignalResult{Signal: signal},
	}
}

func newNotifier(metrics *fakeMetrics, wl *fakeWatchlist) *Notifier {
	log := logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
	return NewNotifier(metrics, wl, log)
}

func kinds(events []store.Notification) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

var (
	today     = time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	yesterday = time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
)

func TestCheckSignalChange(t *testing.T) {
	prev := snapshot("NVDA", 100, contracts.SignalWait)
	curr := snapshot("NVDA", 106, contracts.SignalBuy)

	metrics := &fakeMetrics{snapshots: map[string]map[string]*contracts.SymbolMetrics{
		"NVDA": {"2025-08-14": prev, "2025-08-15": curr},
	}}
	wl := &fakeWatchlist{entries: []store.WatchlistEntry{{Symbol: "NVDA"}}}

	events, err := newNotifier(metrics, wl).Check(context.Background(), today, yesterday)
	require.NoError(t, err)

	assert.Contains(t, kinds(events), KindSignalChange)
	assert.Equal(t, events, wl.saved)
}

func TestCheckStageChange(t *testing.T) {
	prev := snapshot("NVDA", 100, contracts.SignalWait)
	prev.Stage = contracts.StageBasing
	prev.StageName = "Basing"
	curr := snapshot("NVDA", 106, contracts.SignalWait)
	curr.Stage = contracts.StageAdvancing
	curr.StageName = "Advancing"

	metrics := &fakeMetrics{snapshots: map[string]map[string]*contracts.SymbolMetrics{
		"NVDA": {"2025-08-14": prev, "2025-08-15": curr},
	}}
	wl := &fakeWatchlist{entries: []store.WatchlistEntry{{Symbol: "NVDA"}}}

	events, err := newNotifier(metrics, wl).Check(context.Background(), today, yesterday)
	require.NoError(t, err)

	assert.Equal(t, []string{KindStageChange}, kinds(events))
	assert.Contains(t, events[0].Message, "Basing -> Advancing")
}

func TestCheckBreakoutOnlyOnCross(t *testing.T) {
	prev := snapshot("NVDA", 99, contracts.SignalWait)
	curr := snapshot("NVDA", 102, contracts.SignalWait)
	curr.Pattern.Pivot = f64(100)

	metrics := &fakeMetrics{snapshots: map[string]map[string]*contracts.SymbolMetrics{
		"NVDA": {"2025-08-14": prev, "2025-08-15": curr},
	}}
	wl := &fakeWatchlist{entries: []store.WatchlistEntry{{Symbol: "NVDA"}}}
	n := newNotifier(metrics, wl)

	events, err := n.Check(context.Background(), today, yesterday)
	require.NoError(t, err)
	assert.Equal(t, []string{KindBreakout}, kinds(events))

	// Already above the pivot yesterday: no repeat event.
	prev.Close = 101
	prev.Pattern.Pivot = f64(100)
	wl.saved = nil
	events, err = n.Check(context.Background(), today, yesterday)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCheckStopViolationAndEarnings(t *testing.T) {
	curr := snapshot("CRWD", 88, contracts.SignalWait)
	curr.SignalResult.StopLoss = f64(92)
	curr.Upcoming = &contracts.UpcomingEarnings{
		Symbol:     "CRWD",
		ReportDate: today.AddDate(0, 0, 4),
		DaysUntil:  4,
	}

	metrics := &fakeMetrics{snapshots: map[string]map[string]*contracts.SymbolMetrics{
		"CRWD": {"2025-08-15": curr},
	}}
	wl := &fakeWatchlist{entries: []store.WatchlistEntry{{Symbol: "CRWD"}}}

	events, err := newNotifier(metrics, wl).Check(context.Background(), today, yesterday)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{KindStopViolation, KindEarningsSoon}, kinds(events))
}

func TestCheckSkipsSymbolsWithoutSnapshot(t *testing.T) {
	metrics := &fakeMetrics{snapshots: map[string]map[string]*contracts.SymbolMetrics{}}
	wl := &fakeWatchlist{entries: []store.WatchlistEntry{{Symbol: "GONE"}}}

	events, err := newNotifier(metrics, wl).Check(context.Background(), today, yesterday)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Empty(t, wl.saved)
}
