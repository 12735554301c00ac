package commands

import (
	"fmt"

	"github.com/wonny/sepa/backend/internal/analyzer"
	"github.com/wonny/sepa/backend/internal/external/polygon"
	"github.com/wonny/sepa/backend/internal/ingest"
	"github.com/wonny/sepa/backend/internal/store"
	"github.com/wonny/sepa/backend/internal/strategyconfig"
	"github.com/wonny/sepa/backend/pkg/config"
	"github.com/wonny/sepa/backend/pkg/database"
	"github.com/wonny/sepa/backend/pkg/httputil"
	"github.com/wonny/sepa/backend/pkg/logger"
	"github.com/wonny/sepa/backend/pkg/redis"
)

// app bundles the shared wiring every command starts from.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	redis    *redis.Client
	strategy *strategyconfig.Config

	prices    *store.PriceRepository
	tickers   *store.TickerRepository
	earnings  *store.EarningsRepository
	metrics   *store.MetricsRepository
	sectors   *store.SectorRepository
	watchlist *store.WatchlistRepository
}

// newApp loads configuration and connects the shared infrastructure.
// The returned cleanup closes connections and must always be deferred.
func newApp() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	path := cfg.Analysis.StrategyFile
	if strategyFile != "" {
		path = strategyFile
	}
	strategy, _, err := strategyconfig.Load(path)
	if err != nil {
		redisClient.Close()
		db.Close()
		return nil, nil, fmt.Errorf("load strategy config %s: %w", path, err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		redis:    redisClient,
		strategy: strategy,

		prices:    store.NewPriceRepository(db.Pool),
		tickers:   store.NewTickerRepository(db.Pool),
		earnings:  store.NewEarningsRepository(db.Pool),
		metrics:   store.NewMetricsRepository(db.Pool),
		sectors:   store.NewSectorRepository(db.Pool),
		watchlist: store.NewWatchlistRepository(db.Pool),
	}
	cleanup := func() {
		redisClient.Close()
		db.Close()
	}
	return a, cleanup, nil
}

// newAnalyzer wires the screening pipeline from the app's repositories.
func (a *app) newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(analyzer.Deps{
		Prices:   a.prices,
		Tickers:  a.tickers,
		Earnings: a.earnings,
		Metrics:  a.metrics,
		Sectors:  a.sectors,
		Config:   a.strategy,
		Workers:  a.cfg.Analysis.Workers,
		Logger:   a.log,
	})
}

// newFetcher wires the provider client and ingest pipeline. The Redis
// rate limiter keeps parallel fetch processes under one API budget.
func (a *app) newFetcher() *ingest.Fetcher {
	httpClient := httputil.New(a.cfg, a.log)
	if a.redis.Enabled() {
		limiter := redis.NewRateLimiter(a.redis, "sepa")
		httpClient = httpClient.WithRateLimiter(limiter, redis.PolygonRateLimit)
	}
	client := polygon.NewClient(a.cfg, httpClient, a.log)
	return ingest.NewFetcher(client, a.prices, a.tickers, a.earnings, a.log)
}
