package strategyconfig

// Config is the full screening strategy definition. It is the single source
// of truth for every threshold the analysis pipeline applies; components
// receive their section at construction and never read the file themselves.
type Config struct {
	Meta             Meta             `yaml:"meta" json:"meta"`
	Universe         Universe         `yaml:"universe" json:"universe"`
	TrendTemplate    TrendTemplate    `yaml:"trend_template" json:"trend_template"`
	RelativeStrength RelativeStrength `yaml:"relative_strength" json:"relative_strength"`
	Patterns         Patterns         `yaml:"patterns" json:"patterns"`
	Earnings         Earnings         `yaml:"earnings" json:"earnings"`
	Signals          Signals          `yaml:"signals" json:"signals"`
}

// Meta identifies the strategy revision.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Market     string `yaml:"market" json:"market"`
}

// Universe defines which symbols are investable at all.
type Universe struct {
	// MarketCapMinUSD excludes symbols below the investable floor entirely.
	MarketCapMinUSD float64 `yaml:"marketcap_min_usd" json:"marketcap_min_usd"`
	// MicroCapMaxUSD is the upper bound of the micro-cap tier, which is
	// held to MicroCapRSMin instead of the normal RS bar.
	MicroCapMaxUSD float64 `yaml:"microcap_max_usd" json:"microcap_max_usd"`
	MicroCapRSMin  int     `yaml:"microcap_rs_min" json:"microcap_rs_min"`
	// LookbackDays is the calendar history loaded per symbol.
	LookbackDays int `yaml:"lookback_days" json:"lookback_days"`
}

// TrendTemplate holds the trend-template check thresholds.
type TrendTemplate struct {
	MinPctAboveLow  float64 `yaml:"min_pct_above_low" json:"min_pct_above_low"`
	MaxPctFromHigh  float64 `yaml:"max_pct_from_high" json:"max_pct_from_high"`
	RSRankMin       int     `yaml:"rs_rank_min" json:"rs_rank_min"`
	RSRankPreferred int     `yaml:"rs_rank_preferred" json:"rs_rank_preferred"`
	// MATrendWindowDays is the calendar window for the long MA slope check.
	MATrendWindowDays int `yaml:"ma_trend_window_days" json:"ma_trend_window_days"`
}

// RelativeStrength defines the ranking benchmark and quarter weighting.
type RelativeStrength struct {
	// Benchmarks maps index ETF symbols to basket weights (sum 1.0).
	Benchmarks map[string]float64 `yaml:"benchmarks" json:"benchmarks"`
	// QuarterWeights weight the four trailing quarters, newest first (sum 1.0).
	QuarterWeights []float64 `yaml:"quarter_weights" json:"quarter_weights"`
	// QuarterDays is the calendar length of one ranking quarter.
	QuarterDays int `yaml:"quarter_days" json:"quarter_days"`
	// MarketLookbackDays is the simple-return window used for the benchmark
	// basket; the market read is not quarter-weighted.
	MarketLookbackDays int `yaml:"market_lookback_days" json:"market_lookback_days"`
}

// Patterns groups the base-pattern detection thresholds.
type Patterns struct {
	VCP         VCP         `yaml:"vcp" json:"vcp"`
	CupHandle   CupHandle   `yaml:"cup_handle" json:"cup_handle"`
	PrimaryBase PrimaryBase `yaml:"primary_base" json:"primary_base"`
}

// VCP thresholds for the volatility contraction detector.
type VCP struct {
	LookbackBars     int     `yaml:"lookback_bars" json:"lookback_bars"`
	MinScore         int     `yaml:"min_score" json:"min_score"`
	MinContractions  int     `yaml:"min_contractions" json:"min_contractions"`
	MinBaseDepthPct  float64 `yaml:"min_base_depth_pct" json:"min_base_depth_pct"`
	MaxBaseDepthPct  float64 `yaml:"max_base_depth_pct" json:"max_base_depth_pct"`
	MinPostPeakBars  int     `yaml:"min_post_peak_bars" json:"min_post_peak_bars"`
	MinPriorGainPct  float64 `yaml:"min_prior_gain_pct" json:"min_prior_gain_pct"`
	VolumeDryUpRatio float64 `yaml:"volume_dry_up_ratio" json:"volume_dry_up_ratio"`
}

// CupHandle thresholds for the wider cup-and-handle detector.
type CupHandle struct {
	MinWindowDays     int     `yaml:"min_window_days" json:"min_window_days"`
	MinCupDepthPct    float64 `yaml:"min_cup_depth_pct" json:"min_cup_depth_pct"`
	MaxCupDepthPct    float64 `yaml:"max_cup_depth_pct" json:"max_cup_depth_pct"`
	MinCupWeeks       float64 `yaml:"min_cup_weeks" json:"min_cup_weeks"`
	MaxCupWeeks       float64 `yaml:"max_cup_weeks" json:"max_cup_weeks"`
	MaxHandleDepthPct float64 `yaml:"max_handle_depth_pct" json:"max_handle_depth_pct"`
	MaxHandleWeeks    float64 `yaml:"max_handle_weeks" json:"max_handle_weeks"`
}

// PrimaryBase thresholds for recently listed names.
type PrimaryBase struct {
	NewIssueMaxDays      int     `yaml:"new_issue_max_days" json:"new_issue_max_days"`
	MinBaseWeeks         float64 `yaml:"min_base_weeks" json:"min_base_weeks"`
	BreakoutProximityPct float64 `yaml:"breakout_proximity_pct" json:"breakout_proximity_pct"`
}

// Earnings quality scoring thresholds. The YoY tiers mirror the SEPA bar:
// 25%+ quarterly EPS growth is the real requirement, lower tiers earn
// partial credit.
type Earnings struct {
	MinScore         int     `yaml:"min_score" json:"min_score"`
	StrongEPSYoYPct  float64 `yaml:"strong_eps_yoy_pct" json:"strong_eps_yoy_pct"`
	GoodEPSYoYPct    float64 `yaml:"good_eps_yoy_pct" json:"good_eps_yoy_pct"`
	ModestEPSYoYPct  float64 `yaml:"modest_eps_yoy_pct" json:"modest_eps_yoy_pct"`
	StatementsNeeded int     `yaml:"statements_needed" json:"statements_needed"`
	SurprisesNeeded  int     `yaml:"surprises_needed" json:"surprises_needed"`
}

// Signals holds trade-plan generation parameters.
type Signals struct {
	MaxChasePct         float64 `yaml:"max_chase_pct" json:"max_chase_pct"`
	MinPivotDistancePct float64 `yaml:"min_pivot_distance_pct" json:"min_pivot_distance_pct"`
	StopLossMinPct      float64 `yaml:"stop_loss_min_pct" json:"stop_loss_min_pct"`
	StopLossMaxPct      float64 `yaml:"stop_loss_max_pct" json:"stop_loss_max_pct"`
	// EarningsBlackoutDays suppresses new BUY signals when a report is due
	// within this many calendar days.
	EarningsBlackoutDays int `yaml:"earnings_blackout_days" json:"earnings_blackout_days"`
	// RSRankBuyMin is the rank required for a BUY, above the template bar.
	RSRankBuyMin int `yaml:"rs_rank_buy_min" json:"rs_rank_buy_min"`
}
