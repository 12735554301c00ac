package contracts

import "time"

// SymbolMetrics is the full per-symbol, per-date analysis snapshot.
// It is what the analyzer produces, the store persists, and the API serves.
// Pointer fields are nil when the underlying data was insufficient.
type SymbolMetrics struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Name   string    `json:"name,omitempty"`
	Sector string    `json:"sector,omitempty"`

	MarketCap        *float64 `json:"market_cap,omitempty"`
	CapTier          CapTier  `json:"cap_tier,omitempty"`
	IsNewIssue       bool     `json:"is_new_issue"`
	DaysSinceListing *int     `json:"days_since_listing,omitempty"`

	Close       float64  `json:"close"`
	SMA50       *float64 `json:"sma_50,omitempty"`
	SMA150      *float64 `json:"sma_150,omitempty"`
	SMA200      *float64 `json:"sma_200,omitempty"`
	EMA10       *float64 `json:"ema_10,omitempty"`
	EMA21       *float64 `json:"ema_21,omitempty"`
	SwingLow    *float64 `json:"swing_low,omitempty"`
	ATR         *float64 `json:"atr,omitempty"`
	ATRPct      *float64 `json:"atr_pct,omitempty"`
	High52Week  *float64 `json:"high_52_week,omitempty"`
	Low52Week   *float64 `json:"low_52_week,omitempty"`
	PctFromHigh *float64 `json:"pct_from_52_high,omitempty"`
	PctAboveLow *float64 `json:"pct_above_52_low,omitempty"`

	MA200TrendPct    *float64 `json:"ma_200_trend_pct,omitempty"`
	IsNewHigh        bool     `json:"is_new_high"`
	DaysSinceNewHigh *int     `json:"days_since_new_high,omitempty"`
	AvgDollarVolume  *float64 `json:"avg_dollar_volume,omitempty"`
	VolumeRatio      *float64 `json:"volume_ratio,omitempty"`

	Return1M  *float64 `json:"return_1m,omitempty"`
	Return3M  *float64 `json:"return_3m,omitempty"`
	Return6M  *float64 `json:"return_6m,omitempty"`
	Return12M *float64 `json:"return_12m,omitempty"`

	// WeightedPerformance is the quarter-weighted return used for ranking.
	WeightedPerformance *float64 `json:"weighted_performance,omitempty"`
	RSRank              *int     `json:"rs_rank,omitempty"`
	SectorRS            *float64 `json:"sector_rs,omitempty"`

	// Criteria holds the individual trend-template check results keyed by
	// check name. CriteriaPassed counts the true entries.
	Criteria            map[string]bool `json:"criteria,omitempty"`
	CriteriaPassed      int             `json:"criteria_passed"`
	PassesTrendTemplate bool            `json:"passes_trend_template"`

	Stage       Stage              `json:"stage"`
	StageName   string             `json:"stage_name,omitempty"`
	Pattern     PatternResult      `json:"pattern"`
	PrimaryBase *PrimaryBaseResult `json:"primary_base,omitempty"`
	Growth      *GrowthResult      `json:"growth,omitempty"`
	Upcoming    *UpcomingEarnings  `json:"upcoming_earnings,omitempty"`

	SignalResult SignalResult `json:"signal_result"`
}

// SkipReason marks a symbol excluded before full evaluation (inactive
// ticker, market cap below the investable floor). Skipped symbols are not
// persisted.
type SkipReason string

const (
	SkipInactive SkipReason = "INACTIVE"
	SkipTooSmall SkipReason = "MARKET_CAP_TOO_SMALL"
	SkipNoData   SkipReason = "INSUFFICIENT_DATA"
)

// AnalysisFailure records one symbol the run could not evaluate.
type AnalysisFailure struct {
	Symbol string `json:"symbol"`
	Err    string `json:"error"`
}

// RunSummary is the outcome of one full universe run.
type RunSummary struct {
	Date      time.Time         `json:"date"`
	Total     int               `json:"total"`
	Analyzed  int               `json:"analyzed"`
	Skipped   int               `json:"skipped"`
	Failed    int               `json:"failed"`
	BuyCount  int               `json:"buy_count"`
	WaitCount int               `json:"wait_count"`
	Failures  []AnalysisFailure `json:"failures,omitempty"`
	Duration  time.Duration     `json:"duration"`
}
