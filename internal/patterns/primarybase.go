package patterns

import (
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// DetectPrimaryBase evaluates the first consolidation of a recently listed
// name. New issues rarely show a textbook VCP, so they are judged on the
// depth and age of the correction off the post-listing peak instead.
func (d *Detector) DetectPrimaryBase(bars contracts.Bars, asOf time.Time) contracts.PrimaryBaseResult {
	cfg := d.cfg.PrimaryBase
	res := contracts.PrimaryBaseResult{Status: contracts.BaseTooEarly}

	if len(bars) == 0 {
		res.Reason = "no price history"
		return res
	}
	spanDays := int(bars[len(bars)-1].Date.Sub(bars[0].Date).Hours() / 24)
	if spanDays < 15 {
		res.Reason = "listed too recently to judge"
		return res
	}

	peakIdx := 0
	for i := 1; i < len(bars); i++ {
		if bars[i].High > bars[peakIdx].High {
			peakIdx = i
		}
	}
	peak := bars[peakIdx].High
	peakDate := bars[peakIdx].Date
	res.PeakDate = &peakDate
	res.PeakPrice = &peak

	weeks := asOf.Sub(peakDate).Hours() / 24 / 7
	res.BaseWeeks = &weeks
	if weeks < cfg.MinBaseWeeks {
		res.Reason = "base younger than minimum weeks"
		return res
	}

	lowSince := peak
	for i := peakIdx; i < len(bars); i++ {
		if bars[i].Low < lowSince {
			lowSince = bars[i].Low
		}
	}
	correction := (peak - lowSince) / peak * 100
	res.CorrectionPct = &correction

	allowed := maxCorrectionPct(weeks)
	if correction > allowed {
		res.Status = contracts.BaseFailed
		res.Reason = "correction too deep for base age"
		return res
	}

	close := bars[len(bars)-1].Close
	if close >= peak*(1-cfg.BreakoutProximityPct/100) {
		res.Status = contracts.BaseComplete
		res.HasBase = true
		return res
	}

	res.Status = contracts.BaseForming
	res.Reason = "price still below breakout zone"
	return res
}

// maxCorrectionPct is the tolerated drawdown off the post-listing peak as a
// function of base age: 25% at three weeks, widening to 35% by five weeks,
// then drifting to a hard 50% cap at one year.
func maxCorrectionPct(weeks float64) float64 {
	switch {
	case weeks <= 3:
		return 25
	case weeks <= 5:
		return 25 + (weeks-3)*5
	case weeks <= 52:
		return 35 + (weeks-5)/47*15
	default:
		return 50
	}
}
