// Package relstrength ranks every symbol in the universe by quarter-weighted
// price performance and converts the ordering into 1..99 percentiles. The
// whole table is computed once per run from a single bulk close load.
package relstrength

import (
	"math"
	"sort"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/strategyconfig"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Ranker computes weighted performance and percentile tables.
type Ranker struct {
	cfg strategyconfig.RelativeStrength
	log *logger.Logger
}

// NewRanker creates a ranker with the given strategy section.
func NewRanker(cfg strategyconfig.RelativeStrength, log *logger.Logger) *Ranker {
	return &Ranker{cfg: cfg, log: log}
}

// WeightedPerformance computes the quarter-weighted return of one close
// series as of the given date. The trailing year splits into four quarters,
// newest first; quarters without enough data drop out and the remaining
// weights renormalize. Returns nil when no quarter is computable.
func (r *Ranker) WeightedPerformance(points []contracts.ClosePoint, asOf time.Time) *float64 {
	qDays := r.cfg.QuarterDays
	weights := r.cfg.QuarterWeights

	var sum, weightSum float64
	for q := 0; q < len(weights); q++ {
		to := asOf.AddDate(0, 0, -q*qDays)
		from := asOf.AddDate(0, 0, -(q+1)*qDays)

		ret := PeriodReturn(points, from, to)
		if ret == nil {
			continue
		}
		sum += *ret * weights[q]
		weightSum += weights[q]
	}

	if weightSum == 0 {
		return nil
	}
	v := sum / weightSum
	return &v
}

// PeriodReturn is the percentage change between the first and last close
// inside (from, to]. Needs at least two points.
func PeriodReturn(points []contracts.ClosePoint, from, to time.Time) *float64 {
	var first, last *contracts.ClosePoint
	count := 0
	for i := range points {
		p := &points[i]
		if p.Date.After(from) && !p.Date.After(to) {
			if first == nil {
				first = p
			}
			last = p
			count++
		}
	}
	if count < 2 || first.Close <= 0 {
		return nil
	}
	v := (last.Close - first.Close) / first.Close * 100
	return &v
}

// BenchmarkPerformance computes the weighted index basket performance: each
// benchmark contributes its simple return over the market lookback window,
// without quarter weighting. Missing benchmarks drop out with weight
// renormalization; an empty basket returns zero.
func (r *Ranker) BenchmarkPerformance(universe map[string][]contracts.ClosePoint, asOf time.Time) float64 {
	from := asOf.AddDate(0, 0, -r.cfg.MarketLookbackDays)

	// Fixed summation order keeps the result bit-identical across runs.
	symbols := make([]string, 0, len(r.cfg.Benchmarks))
	for symbol := range r.cfg.Benchmarks {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var sum, weightSum float64
	for _, symbol := range symbols {
		points, ok := universe[symbol]
		if !ok {
			r.log.WithField("symbol", symbol).Warn("Benchmark has no price data")
			continue
		}
		ret := PeriodReturn(points, from, asOf)
		if ret == nil {
			continue
		}
		sum += *ret * r.cfg.Benchmarks[symbol]
		weightSum += r.cfg.Benchmarks[symbol]
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

// Rank computes the weighted performance of every symbol and assigns each a
// 1..99 percentile. Benchmarks participate in the ordering but percentiles
// are what matter downstream. Ties order by symbol so the table is
// deterministic across runs.
func (r *Ranker) Rank(universe map[string][]contracts.ClosePoint, asOf time.Time) (map[string]float64, map[string]int) {
	type entry struct {
		symbol string
		perf   float64
	}

	entries := make([]entry, 0, len(universe))
	performances := make(map[string]float64, len(universe))
	for symbol, points := range universe {
		perf := r.WeightedPerformance(points, asOf)
		if perf == nil {
			continue
		}
		entries = append(entries, entry{symbol: symbol, perf: *perf})
		performances[symbol] = *perf
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].perf != entries[j].perf {
			return entries[i].perf < entries[j].perf
		}
		return entries[i].symbol < entries[j].symbol
	})

	total := len(entries)
	percentiles := make(map[string]int, total)
	for i, e := range entries {
		pct := int(math.Round(float64(i+1) / float64(total) * 99))
		if pct < 1 {
			pct = 1
		}
		if pct > 99 {
			pct = 99
		}
		percentiles[e.symbol] = pct
	}

	return performances, percentiles
}
