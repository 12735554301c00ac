package signals

import (
	"math"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// EntryRange picks the actionable buy zone. Near the pivot the zone is a
// breakout entry up to the chase limit; once extended past it, the zone
// shifts down to a pullback toward the short EMAs.
func (g *Generator) EntryRange(close, pivot float64, ema10, ema21 *float64) *contracts.EntryRange {
	if pivot <= 0 {
		return nil
	}

	dist := (close - pivot) / pivot * 100
	if dist > g.cfg.MaxChasePct {
		switch {
		case ema10 != nil && ema21 != nil:
			return &contracts.EntryRange{
				Low:  round2(math.Min(*ema10, *ema21)),
				High: round2(math.Max(*ema10, *ema21)),
			}
		case ema21 != nil:
			return &contracts.EntryRange{Low: round2(*ema21 * 0.99), High: round2(*ema21 * 1.01)}
		case ema10 != nil:
			return &contracts.EntryRange{Low: round2(*ema10 * 0.99), High: round2(*ema10 * 1.01)}
		}
	}
	return &contracts.EntryRange{
		Low:  round2(pivot),
		High: round2(pivot * (1 + g.cfg.MaxChasePct/100)),
	}
}

// StopLoss picks the tightest reasonable stop from several candidates: the
// hard maximum-loss floor, 2x ATR, just under the 21 EMA, under the last
// contraction low, and under the recent swing low. The result clamps into
// the configured loss band so noise cannot produce a 1% stop and nothing
// ever risks more than the maximum.
func (g *Generator) StopLoss(entry float64, atr, ema21, lastContractionLow, swingLow *float64) *float64 {
	if entry <= 0 {
		return nil
	}

	maxLossStop := entry * (1 - g.cfg.StopLossMaxPct/100)
	stop := maxLossStop

	consider := func(candidate float64) {
		if candidate > stop && candidate < entry {
			stop = candidate
		}
	}

	if atr != nil {
		consider(entry - 2.0**atr)
	}
	if ema21 != nil && *ema21 < entry {
		consider(*ema21 * 0.99)
	}
	if lastContractionLow != nil && *lastContractionLow < entry {
		consider(*lastContractionLow * 0.99)
	}
	if swingLow != nil && *swingLow < entry {
		consider(*swingLow * 0.99)
	}

	if minStop := entry * (1 - g.cfg.StopLossMinPct/100); stop > minStop {
		stop = minStop
	}
	if stop < maxLossStop {
		stop = maxLossStop
	}

	v := round2(stop)
	return &v
}

// SellTargets derives profit-taking levels from entry and stop. The primary
// target is the lower of 3R and +25%; the climax warning sits 70% above the
// 200-day MA.
func (g *Generator) SellTargets(entry, stop float64, sma200 *float64) *contracts.SellTargets {
	risk := entry - stop
	if entry <= 0 || risk <= 0 {
		return nil
	}

	target3R := entry + 3*risk
	target25 := entry * 1.25
	primary := math.Min(target3R, target25)

	out := &contracts.SellTargets{
		Conservative:    round2(entry + 2*risk),
		Primary:         round2(primary),
		Aggressive:      round2(target25),
		PartialProfitAt: round2(entry * 1.20),
		RiskReward:      round1((primary - entry) / risk),
		RiskPct:         round1(risk / entry * 100),
	}
	if sma200 != nil {
		v := round2(*sma200 * 1.70)
		out.ClimaxWarning = &v
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
