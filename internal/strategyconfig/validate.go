package strategyconfig

import (
	"fmt"
	"math"
)

// ValidationError is a fatal config problem; the program should not start.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	if cfg.Universe.MarketCapMinUSD <= 0 {
		return ValidationError{"universe.marketcap_min_usd", "must be > 0"}
	}
	if cfg.Universe.MicroCapMaxUSD <= cfg.Universe.MarketCapMinUSD {
		return ValidationError{"universe.microcap_max_usd", "must exceed marketcap_min_usd"}
	}
	if cfg.Universe.MicroCapRSMin < 1 || cfg.Universe.MicroCapRSMin > 99 {
		return ValidationError{"universe.microcap_rs_min", "must be in [1, 99]"}
	}
	if cfg.Universe.LookbackDays < 365 {
		return ValidationError{"universe.lookback_days", "must be >= 365 to cover 52-week metrics"}
	}

	if cfg.TrendTemplate.MinPctAboveLow <= 0 {
		return ValidationError{"trend_template.min_pct_above_low", "must be > 0"}
	}
	if cfg.TrendTemplate.MaxPctFromHigh <= 0 {
		return ValidationError{"trend_template.max_pct_from_high", "must be > 0"}
	}
	if cfg.TrendTemplate.RSRankMin < 1 || cfg.TrendTemplate.RSRankMin > 99 {
		return ValidationError{"trend_template.rs_rank_min", "must be in [1, 99]"}
	}
	if cfg.TrendTemplate.RSRankPreferred < cfg.TrendTemplate.RSRankMin {
		return ValidationError{"trend_template.rs_rank_preferred", "must be >= rs_rank_min"}
	}
	if cfg.TrendTemplate.MATrendWindowDays <= 0 {
		return ValidationError{"trend_template.ma_trend_window_days", "must be > 0"}
	}

	if len(cfg.RelativeStrength.Benchmarks) == 0 {
		return ValidationError{"relative_strength.benchmarks", "at least one benchmark required"}
	}
	if err := validateWeightsSum("relative_strength.benchmarks", mapValues(cfg.RelativeStrength.Benchmarks)); err != nil {
		return err
	}
	if len(cfg.RelativeStrength.QuarterWeights) != 4 {
		return ValidationError{"relative_strength.quarter_weights", "exactly four quarter weights required"}
	}
	if err := validateWeightsSum("relative_strength.quarter_weights", cfg.RelativeStrength.QuarterWeights); err != nil {
		return err
	}
	if cfg.RelativeStrength.QuarterDays <= 0 {
		return ValidationError{"relative_strength.quarter_days", "must be > 0"}
	}
	if cfg.RelativeStrength.MarketLookbackDays <= 0 {
		return ValidationError{"relative_strength.market_lookback_days", "must be > 0"}
	}

	if cfg.Patterns.VCP.MinScore < 0 || cfg.Patterns.VCP.MinScore > 100 {
		return ValidationError{"patterns.vcp.min_score", "must be in [0, 100]"}
	}
	if cfg.Patterns.VCP.MinContractions < 1 {
		return ValidationError{"patterns.vcp.min_contractions", "must be >= 1"}
	}
	if cfg.Patterns.VCP.MinBaseDepthPct >= cfg.Patterns.VCP.MaxBaseDepthPct {
		return ValidationError{"patterns.vcp", "min_base_depth_pct must be < max_base_depth_pct"}
	}
	if cfg.Patterns.CupHandle.MinCupDepthPct >= cfg.Patterns.CupHandle.MaxCupDepthPct {
		return ValidationError{"patterns.cup_handle", "min_cup_depth_pct must be < max_cup_depth_pct"}
	}
	if cfg.Patterns.CupHandle.MinCupWeeks >= cfg.Patterns.CupHandle.MaxCupWeeks {
		return ValidationError{"patterns.cup_handle", "min_cup_weeks must be < max_cup_weeks"}
	}
	if cfg.Patterns.PrimaryBase.NewIssueMaxDays <= 0 {
		return ValidationError{"patterns.primary_base.new_issue_max_days", "must be > 0"}
	}

	if cfg.Earnings.StrongEPSYoYPct <= cfg.Earnings.GoodEPSYoYPct ||
		cfg.Earnings.GoodEPSYoYPct <= cfg.Earnings.ModestEPSYoYPct {
		return ValidationError{"earnings", "eps yoy tiers must be strictly decreasing"}
	}
	if cfg.Earnings.StatementsNeeded < 2 {
		return ValidationError{"earnings.statements_needed", "must be >= 2"}
	}

	if cfg.Signals.StopLossMinPct <= 0 || cfg.Signals.StopLossMinPct >= cfg.Signals.StopLossMaxPct {
		return ValidationError{"signals", "stop_loss_min_pct must be in (0, stop_loss_max_pct)"}
	}
	if cfg.Signals.MaxChasePct <= 0 {
		return ValidationError{"signals.max_chase_pct", "must be > 0"}
	}
	if cfg.Signals.EarningsBlackoutDays < 0 {
		return ValidationError{"signals.earnings_blackout_days", "must be >= 0"}
	}
	if cfg.Signals.RSRankBuyMin < cfg.TrendTemplate.RSRankMin {
		return ValidationError{"signals.rs_rank_buy_min", "must be >= trend_template.rs_rank_min"}
	}

	return nil
}

func validateWeightsSum(field string, weights []float64) error {
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return ValidationError{field, "weights must be >= 0"}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return ValidationError{field, fmt.Sprintf("weights must sum to 1.0, got %.6f", sum)}
	}
	return nil
}

func mapValues(m map[string]float64) []float64 {
	out := make([]float64, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
