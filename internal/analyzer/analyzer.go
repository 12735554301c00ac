// Package analyzer orchestrates a full screening run: it builds the
// universe-wide run context once (benchmark performance, RS percentiles,
// sector strength), fans per-symbol evaluation out over a worker pool, and
// persists the resulting snapshots in batches.
package analyzer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/earnings"
	"github.com/wonny/sepa/backend/internal/patterns"
	"github.com/wonny/sepa/backend/internal/relstrength"
	"github.com/wonny/sepa/backend/internal/sector"
	"github.com/wonny/sepa/backend/internal/signals"
	"github.com/wonny/sepa/backend/internal/strategyconfig"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// persistBatchSize is how many snapshots accumulate before a flush.
const persistBatchSize = 200

// Deps are the collaborators an Analyzer needs.
type Deps struct {
	Prices   contracts.PriceReader
	Tickers  contracts.TickerReader
	Earnings contracts.EarningsReader
	Metrics  contracts.MetricsWriter
	Sectors  contracts.SectorWriter
	Config   *strategyconfig.Config
	Workers  int
	Logger   *logger.Logger
}

// Analyzer runs the screening pipeline for one date.
type Analyzer struct {
	prices    contracts.PriceReader
	tickers   contracts.TickerReader
	metrics   contracts.MetricsWriter
	sectorsW  contracts.SectorWriter
	earnings  *earnings.Evaluator
	patterns  *patterns.Detector
	ranker    *relstrength.Ranker
	sectors   *sector.Analyzer
	generator *signals.Generator
	cfg       *strategyconfig.Config
	workers   int
	log       *logger.Logger
}

// New wires an Analyzer from its dependencies.
func New(deps Deps) *Analyzer {
	workers := deps.Workers
	if workers < 1 {
		workers = 4
	}
	return &Analyzer{
		prices:    deps.Prices,
		tickers:   deps.Tickers,
		metrics:   deps.Metrics,
		sectorsW:  deps.Sectors,
		earnings:  earnings.NewEvaluator(deps.Earnings, deps.Config.Earnings, deps.Logger),
		patterns:  patterns.NewDetector(deps.Config.Patterns),
		ranker:    relstrength.NewRanker(deps.Config.RelativeStrength, deps.Logger),
		sectors:   sector.NewAnalyzer(deps.Logger),
		generator: signals.NewGenerator(deps.Config.Signals),
		cfg:       deps.Config,
		workers:   workers,
		log:       deps.Logger,
	}
}

// Run analyzes every symbol with data on the given date and persists the
// snapshots. Individual symbol failures are collected, not fatal; only
// infrastructure errors abort the run.
func (a *Analyzer) Run(ctx context.Context, date time.Time) (*contracts.RunSummary, error) {
	start := time.Now()

	symbols, err := a.prices.ListSymbols(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no price data for %s", date.Format("2006-01-02"))
	}

	rc, sectorStats, err := a.buildRunContext(ctx, date)
	if err != nil {
		return nil, err
	}

	a.log.WithFields(map[string]interface{}{
		"date":       date.Format("2006-01-02"),
		"symbols":    len(symbols),
		"market_pct": fmt.Sprintf("%+.2f", rc.MarketPerformance),
		"workers":    a.workers,
	}).Info("Analysis run started")

	summary := &contracts.RunSummary{Date: date, Total: len(symbols)}
	var mu sync.Mutex
	var snapshots []*contracts.SymbolMetrics

	results := make(chan *contracts.SymbolMetrics, persistBatchSize)
	persistErr := make(chan error, 1)

	// The collector cancels the run when a flush fails, otherwise workers
	// blocked on a full results channel would wait forever.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		err := a.collect(runCtx, results, &mu, &snapshots)
		if err != nil {
			cancel()
		}
		persistErr <- err
	}()

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(a.workers)
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			m, skip, err := a.EvaluateSymbol(gctx, symbol, date, rc)

			mu.Lock()
			switch {
			case err != nil:
				summary.Failed++
				summary.Failures = append(summary.Failures, contracts.AnalysisFailure{
					Symbol: symbol, Err: err.Error(),
				})
			case skip != "":
				summary.Skipped++
			default:
				summary.Analyzed++
				switch m.SignalResult.Signal {
				case contracts.SignalBuy:
					summary.BuyCount++
				case contracts.SignalWait:
					summary.WaitCount++
				}
			}
			mu.Unlock()

			if err != nil {
				a.log.WithField("symbol", symbol).WithError(err).Warn("Symbol analysis failed")
				return nil
			}
			if skip == "" {
				select {
				case results <- m:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	workerErr := g.Wait()
	close(results)
	if err := <-persistErr; err != nil {
		return nil, fmt.Errorf("persist snapshots: %w", err)
	}
	if workerErr != nil {
		return nil, workerErr
	}

	// Workers finish in arbitrary order; aggregate in symbol order so the
	// sector rows come out identical run to run.
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Symbol < snapshots[j].Symbol })
	rows := a.sectors.Aggregate(date, snapshots, sectorStats)
	if len(rows) > 0 {
		if err := a.sectorsW.SaveSectorPerformance(ctx, date, rows); err != nil {
			return nil, fmt.Errorf("persist sector performance: %w", err)
		}
	}

	summary.Duration = time.Since(start)
	a.log.WithFields(map[string]interface{}{
		"analyzed": summary.Analyzed,
		"skipped":  summary.Skipped,
		"failed":   summary.Failed,
		"buys":     summary.BuyCount,
		"waits":    summary.WaitCount,
		"duration": summary.Duration.Round(time.Millisecond).String(),
	}).Info("Analysis run finished")

	return summary, nil
}

// collect drains the results channel, keeping every snapshot for sector
// aggregation and flushing persistence batches as they fill.
func (a *Analyzer) collect(ctx context.Context, results <-chan *contracts.SymbolMetrics, mu *sync.Mutex, all *[]*contracts.SymbolMetrics) error {
	batch := make([]*contracts.SymbolMetrics, 0, persistBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := a.metrics.SaveMetricsBatch(ctx, batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for m := range results {
		mu.Lock()
		*all = append(*all, m)
		mu.Unlock()
		batch = append(batch, m)
		if len(batch) >= persistBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// buildRunContext loads the full-universe close history once and derives
// everything the per-symbol workers will share read-only.
func (a *Analyzer) buildRunContext(ctx context.Context, date time.Time) (*contracts.RunContext, map[string]sector.Stats, error) {
	from := date.AddDate(0, 0, -(4*a.cfg.RelativeStrength.QuarterDays + 10))
	universe, err := a.prices.GetUniverseCloses(ctx, from, date)
	if err != nil {
		return nil, nil, fmt.Errorf("load universe closes: %w", err)
	}

	marketPerf := a.ranker.BenchmarkPerformance(universe, date)
	performances, percentiles := a.ranker.Rank(universe, date)

	tickers, err := a.tickers.ListTickers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list tickers: %w", err)
	}
	sectorOf := make(map[string]string, len(tickers))
	for i := range tickers {
		if tickers[i].Sector != "" {
			sectorOf[tickers[i].Symbol] = tickers[i].Sector
		}
	}

	sectorStats := a.sectors.Compute(universe, sectorOf, marketPerf, date)
	sectorRS := make(map[string]float64, len(sectorStats))
	for name, st := range sectorStats {
		sectorRS[name] = st.RS
	}

	rc := &contracts.RunContext{
		Date:              date,
		MarketPerformance: marketPerf,
		Performances:      performances,
		RSPercentiles:     percentiles,
		SectorRS:          sectorRS,
		SectorOf:          sectorOf,
	}
	return rc, sectorStats, nil
}
