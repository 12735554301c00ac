// Package patterns detects consolidation structures in daily bar series:
// volatility contraction patterns, cup-and-handle bases, and the primary
// base of recently listed names. Detection is pure; callers pass the full
// loaded history and get typed results back.
package patterns

import (
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/indicators"
	"github.com/wonny/sepa/backend/internal/strategyconfig"
)

// Detector runs pattern analysis with thresholds from the strategy config.
type Detector struct {
	cfg strategyconfig.Patterns
}

// NewDetector creates a pattern detector.
func NewDetector(cfg strategyconfig.Patterns) *Detector {
	return &Detector{cfg: cfg}
}

// DetectVCP analyzes the trailing lookback window for a volatility
// contraction pattern. Partial results (depth, contractions) are populated
// even when the pattern fails a validity gate, so callers can report why.
func (d *Detector) DetectVCP(bars contracts.Bars) contracts.VCPResult {
	cfg := d.cfg.VCP
	res := contracts.VCPResult{}

	window := bars.Tail(cfg.LookbackBars)
	if len(window) < cfg.MinPostPeakBars*2 {
		return res
	}

	peakIdx := 0
	for i := 1; i < len(window); i++ {
		if window[i].High > window[peakIdx].High {
			peakIdx = i
		}
	}
	// A peak in the last 40% of the window means the consolidation has not
	// had time to form.
	if peakIdx > len(window)*6/10 {
		return res
	}

	post := window[peakIdx:]
	if len(post) < cfg.MinPostPeakBars {
		return res
	}

	peak := window[peakIdx].High
	res.PriorUptrendPct = d.priorUptrend(bars, len(bars)-len(window)+peakIdx, peak)
	if res.PriorUptrendPct == nil || *res.PriorUptrendPct < cfg.MinPriorGainPct {
		return res
	}

	minLow := post[0].Low
	for i := 1; i < len(post); i++ {
		if post[i].Low < minLow {
			minLow = post[i].Low
		}
	}
	depth := (peak - minLow) / peak * 100
	res.BaseDepthPct = &depth
	if depth < cfg.MinBaseDepthPct || depth > cfg.MaxBaseDepthPct {
		return res
	}

	n := swingWindow(len(post))
	highs := findSwingHighs(post, n)
	lows := findSwingLows(post, n)
	res.Contractions = pairContractions(post, highs, lows)
	res.ContractionCount = len(res.Contractions)
	if res.ContractionCount < cfg.MinContractions {
		return res
	}

	// The buy point is the final contraction's high. Once price has cleared
	// it, the actionable pivot becomes the highest recent swing high.
	pivot := res.Contractions[len(res.Contractions)-1].High
	if window[len(window)-1].Close > pivot {
		for _, h := range highs {
			if h.price > pivot {
				pivot = h.price
			}
		}
	}
	res.Pivot = &pivot

	_, atrPct := indicators.ATR(window, 14)
	res.Score = d.scoreVCP(&res, window, pivot, atrPct)

	res.Detected = res.Score >= cfg.MinScore && res.ContractionCount >= cfg.MinContractions
	return res
}

// priorUptrend measures the advance into the peak over up to 90 bars before
// it. A proper base forms after a markup leg, not inside a downtrend.
func (d *Detector) priorUptrend(bars contracts.Bars, peakPos int, peak float64) *float64 {
	base := peakPos - 90
	if base < 0 {
		base = 0
	}
	if peakPos-base < 20 {
		return nil
	}
	ref := bars[base].Close
	if ref <= 0 {
		return nil
	}
	gain := (peak - ref) / ref * 100
	return &gain
}

// scoreVCP grades the contraction structure on a 0..100 scale. Components:
// prior uptrend, contraction count, progressive tightening, final leg
// tightness vs ATR, higher lows, descending highs, volume dry-up, and
// proximity to the pivot.
func (d *Detector) scoreVCP(res *contracts.VCPResult, window contracts.Bars, pivot float64, atrPct *float64) int {
	cfg := d.cfg.VCP
	cs := res.Contractions
	score := 0

	if res.PriorUptrendPct != nil {
		switch gain := *res.PriorUptrendPct; {
		case gain >= 40:
			score += 10
		case gain >= 30:
			score += 8
		case gain >= cfg.MinPriorGainPct:
			score += 5
		}
	}

	if cnt := len(cs) * 8; cnt > 25 {
		score += 25
	} else {
		score += cnt
	}

	// Tolerance for "still tightening" scales with the symbol's own
	// volatility so quiet and wild names are graded on the same curve.
	tol := 1.0
	if atrPct != nil {
		tol = 0.25 * *atrPct
	}

	if len(cs) > 1 {
		tightened := 0
		higherLows := 0
		lowerHighs := 0
		for i := 1; i < len(cs); i++ {
			if cs[i].RangePct <= cs[i-1].RangePct+tol {
				tightened++
			}
			if cs[i].Low > cs[i-1].Low {
				higherLows++
			}
			if cs[i].High < cs[i-1].High {
				lowerHighs++
			}
		}
		pairs := float64(len(cs) - 1)
		score += int(float64(tightened) / pairs * 15)
		score += int(float64(higherLows) / pairs * 10)
		score += int(float64(lowerHighs) / pairs * 5)
	}

	if atrPct != nil && *atrPct > 0 {
		switch last := cs[len(cs)-1].RangePct; {
		case last <= 1.5**atrPct:
			score += 15
		case last <= 2.5**atrPct:
			score += 10
		case last <= 4.0**atrPct:
			score += 5
		}
	}

	if first, last := cs[0].AvgVolume, cs[len(cs)-1].AvgVolume; first > 0 {
		ratio := last / first
		if ratio < cfg.VolumeDryUpRatio {
			res.VolumeDryUp = true
			score += 10
		} else if ratio < cfg.VolumeDryUpRatio+0.15 {
			score += 5
		}
	}

	// No lower bound on the distance: a close already through the pivot is
	// a live breakout, not a miss.
	close := window[len(window)-1].Close
	if pivot > 0 {
		dist := (pivot - close) / pivot * 100
		switch {
		case dist <= 3:
			score += 10
		case dist <= 5:
			score += 7
		case dist <= 10:
			score += 4
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}
