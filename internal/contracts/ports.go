package contracts

import (
	"context"
	"time"
)

// PriceReader loads historical bars. Implementations must return bars in
// ascending date order.
type PriceReader interface {
	// ListSymbols returns the symbols that have at least one bar in the
	// window ending at date.
	ListSymbols(ctx context.Context, date time.Time) ([]string, error)

	// GetHistory returns all bars for one symbol in [from, to].
	GetHistory(ctx context.Context, symbol string, from, to time.Time) (Bars, error)

	// GetUniverseCloses returns the close series for every symbol in
	// [from, to] in a single bulk load, for ranking and sector analysis.
	GetUniverseCloses(ctx context.Context, from, to time.Time) (map[string][]ClosePoint, error)
}

// TickerReader loads reference data.
type TickerReader interface {
	// GetTicker returns details for one symbol, or (nil, nil) when unknown.
	GetTicker(ctx context.Context, symbol string) (*TickerDetails, error)

	// ListTickers returns details for all known symbols.
	ListTickers(ctx context.Context) ([]TickerDetails, error)
}

// EarningsReader loads fundamental data.
type EarningsReader interface {
	// GetIncomeStatements returns up to limit quarterly statements for one
	// symbol, most recent first.
	GetIncomeStatements(ctx context.Context, symbol string, limit int) ([]IncomeStatement, error)

	// GetSurprises returns up to limit earnings surprises, most recent first.
	GetSurprises(ctx context.Context, symbol string, limit int) ([]EarningsSurprise, error)

	// GetUpcoming returns the next scheduled report on or after the given
	// date, or (nil, nil) when none is known.
	GetUpcoming(ctx context.Context, symbol string, after time.Time) (*UpcomingEarnings, error)
}

// MetricsWriter persists analysis snapshots.
type MetricsWriter interface {
	// SaveMetricsBatch upserts a batch of snapshots keyed by (symbol, date).
	SaveMetricsBatch(ctx context.Context, batch []*SymbolMetrics) error
}

// MetricsReader serves persisted snapshots.
type MetricsReader interface {
	GetMetrics(ctx context.Context, symbol string, date time.Time) (*SymbolMetrics, error)
	GetTopStocks(ctx context.Context, date time.Time, limit int) ([]*SymbolMetrics, error)
	GetLatestDate(ctx context.Context) (*time.Time, error)
}

// SectorWriter persists per-sector results for a run date.
type SectorWriter interface {
	SaveSectorPerformance(ctx context.Context, date time.Time, rows []SectorPerformance) error
}

// SectorPerformance is one sector's run-date summary.
type SectorPerformance struct {
	Sector       string    `json:"sector"`
	Date         time.Time `json:"date"`
	AvgReturn3M  *float64  `json:"avg_return_3m,omitempty"`
	RS           float64   `json:"rs"`
	SymbolCount  int       `json:"symbol_count"`
	BuyCount     int       `json:"buy_count"`
	PassingCount int       `json:"passing_count"`
	Stage2Count  int       `json:"stage2_count"`
	VCPCount     int       `json:"vcp_count"`
	MarketCapSum *float64  `json:"market_cap_sum,omitempty"`
	AvgRSRank    *float64  `json:"avg_rs_rank,omitempty"`
	LeaderSymbol string    `json:"leader_symbol,omitempty"`
}
