package relstrength

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/strategyconfig"
	"github.com/wonny/sepa/backend/pkg/config"
	"github.com/wonny/sepa/backend/pkg/logger"
)

var asOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func newTestRanker() *Ranker {
	log := logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
	return NewRanker(strategyconfig.Default().RelativeStrength, log)
}

// series generates daily closes going back the given days, ending at asOf,
// moving linearly from start to end.
func series(days int, start, end float64) []contracts.ClosePoint {
	points := make([]contracts.ClosePoint, days)
	for i := 0; i < days; i++ {
		frac := float64(i) / float64(days-1)
		points[i] = contracts.ClosePoint{
			Date:  asOf.AddDate(0, 0, -(days - 1 - i)),
			Close: start + (end-start)*frac,
		}
	}
	return points
}

func TestWeightedPerformanceFlatSeries(t *testing.T) {
	r := newTestRanker()

	perf := r.WeightedPerformance(series(400, 100, 100), asOf)
	require.NotNil(t, perf)
	assert.InDelta(t, 0, *perf, 1e-9)
}

func TestWeightedPerformanceFavorsRecentQuarter(t *testing.T) {
	r := newTestRanker()

	// Flat for three quarters, then +20% in the newest quarter. The
	// newest quarter carries 40% of the weight.
	days := 400
	points := make([]contracts.ClosePoint, days)
	for i := 0; i < days; i++ {
		date := asOf.AddDate(0, 0, -(days - 1 - i))
		close := 100.0
		if daysAgo := int(asOf.Sub(date).Hours() / 24); daysAgo < 91 {
			frac := float64(91-daysAgo) / 91.0
			close = 100 + 20*frac
		}
		points[i] = contracts.ClosePoint{Date: date, Close: close}
	}

	perf := r.WeightedPerformance(points, asOf)
	require.NotNil(t, perf)
	// Older quarters contribute roughly zero; the newest is near +20%
	// weighted at 0.40.
	assert.InDelta(t, 8.0, *perf, 1.5)
}

func TestWeightedPerformanceRenormalizesMissingQuarters(t *testing.T) {
	r := newTestRanker()

	// Only ~80 days of history: just the newest quarter exists.
	perf := r.WeightedPerformance(series(80, 100, 110), asOf)
	require.NotNil(t, perf)
	assert.InDelta(t, 10.0, *perf, 1.0)
}

func TestWeightedPerformanceInsufficientData(t *testing.T) {
	r := newTestRanker()

	assert.Nil(t, r.WeightedPerformance(nil, asOf))
	assert.Nil(t, r.WeightedPerformance(series(1, 100, 100), asOf))

	// Stale series ending long before asOf.
	old := series(400, 100, 120)
	for i := range old {
		old[i].Date = old[i].Date.AddDate(-2, 0, 0)
	}
	assert.Nil(t, r.WeightedPerformance(old, asOf))
}

func TestBenchmarkPerformance(t *testing.T) {
	r := newTestRanker()

	universe := map[string][]contracts.ClosePoint{
		"SPY": series(400, 100, 110),
		"DIA": series(400, 100, 110),
		"QQQ": series(400, 100, 110),
		"VTI": series(400, 100, 110),
		"VT":  series(400, 100, 110),
	}

	perf := r.BenchmarkPerformance(universe, asOf)
	assert.Greater(t, perf, 0.0)

	// Dropping benchmarks renormalizes instead of diluting.
	delete(universe, "VT")
	delete(universe, "DIA")
	perf2 := r.BenchmarkPerformance(universe, asOf)
	assert.InDelta(t, perf, perf2, 0.5)

	assert.Zero(t, r.BenchmarkPerformance(nil, asOf))
}

func TestBenchmarkPerformanceIsSimpleWindowReturn(t *testing.T) {
	r := newTestRanker()

	// Doubled well before the lookback window, flat inside it. The market
	// read is the plain window return, so the old advance must not leak in
	// through quarter weighting.
	days := 400
	points := make([]contracts.ClosePoint, days)
	for i := 0; i < days; i++ {
		close := 200.0
		if days-1-i >= 90 {
			close = 100
		}
		points[i] = contracts.ClosePoint{Date: asOf.AddDate(0, 0, -(days - 1 - i)), Close: close}
	}

	universe := make(map[string][]contracts.ClosePoint)
	for _, b := range []string{"SPY", "DIA", "QQQ", "VTI", "VT"} {
		universe[b] = points
	}
	assert.InDelta(t, 0, r.BenchmarkPerformance(universe, asOf), 1e-9)
}

func TestRankAssignsPercentiles(t *testing.T) {
	r := newTestRanker()

	// 100 symbols with strictly increasing performance.
	universe := make(map[string][]contracts.ClosePoint, 100)
	for i := 0; i < 100; i++ {
		symbol := fmt.Sprintf("S%03d", i)
		universe[symbol] = series(400, 100, 100+float64(i))
	}

	performances, percentiles := r.Rank(universe, asOf)
	require.Len(t, percentiles, 100)
	require.Len(t, performances, 100)

	assert.Equal(t, 99, percentiles["S099"], "best performer gets 99")
	assert.Equal(t, 1, percentiles["S000"], "worst performer clamps to 1")
	assert.Greater(t, percentiles["S080"], percentiles["S020"])

	// Percentiles stay within bounds.
	for symbol, pct := range percentiles {
		assert.GreaterOrEqual(t, pct, 1, symbol)
		assert.LessOrEqual(t, pct, 99, symbol)
	}
}

func TestRankDeterministicOnTies(t *testing.T) {
	r := newTestRanker()

	universe := map[string][]contracts.ClosePoint{
		"AAA": series(400, 100, 110),
		"BBB": series(400, 100, 110),
		"CCC": series(400, 100, 110),
	}

	_, first := r.Rank(universe, asOf)
	for i := 0; i < 5; i++ {
		_, again := r.Rank(universe, asOf)
		assert.Equal(t, first, again)
	}
}
