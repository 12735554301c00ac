package patterns

import "github.com/wonny/sepa/backend/internal/contracts"

// cupWindowDays is the calendar span examined for a cup. Cups run longer
// than VCP consolidations, so the window is wider than the VCP lookback.
const cupWindowDays = 280

// DetectCupHandle analyzes the wider window for a cup-and-handle base:
// left lip, rounded bottom, recovery to a right lip, then a shallow handle
// confined to the upper half of the cup.
func (d *Detector) DetectCupHandle(bars contracts.Bars) contracts.CupHandleResult {
	cfg := d.cfg.CupHandle
	res := contracts.CupHandleResult{}

	if len(bars) == 0 {
		return res
	}

	end := bars[len(bars)-1].Date
	window := bars.Since(end.AddDate(0, 0, -cupWindowDays))
	if len(window) < 2 {
		return res
	}
	spanDays := int(end.Sub(window[0].Date).Hours() / 24)
	if spanDays < cfg.MinWindowDays {
		return res
	}

	// Left lip: highest high in the first 60% of the window.
	lipLimit := len(window) * 6 / 10
	if lipLimit < 1 {
		return res
	}
	lipIdx := 0
	for i := 1; i < lipLimit; i++ {
		if window[i].High > window[lipIdx].High {
			lipIdx = i
		}
	}
	lip := window[lipIdx].High
	if lip <= 0 || lipIdx >= len(window)-1 {
		return res
	}

	// Cup bottom: lowest low after the left lip.
	bottomIdx := lipIdx + 1
	for i := bottomIdx + 1; i < len(window); i++ {
		if window[i].Low < window[bottomIdx].Low {
			bottomIdx = i
		}
	}
	bottom := window[bottomIdx].Low

	depth := (lip - bottom) / lip * 100
	res.CupDepthPct = &depth
	if depth < cfg.MinCupDepthPct || depth > cfg.MaxCupDepthPct {
		return res
	}

	// Rounded bottom: a V-shaped single-bar low is not a cup. Require
	// several bars near the low.
	nearLow := 0
	for i := lipIdx; i < len(window); i++ {
		if window[i].Low <= bottom*1.03 {
			nearLow++
		}
	}
	if nearLow < 3 {
		return res
	}

	// Right lip: first recovery to within 15% of the left lip, then walk to
	// the top of that leg so the handle starts after the rally stalls.
	rightIdx := -1
	for i := bottomIdx + 1; i < len(window); i++ {
		if window[i].High >= lip*0.85 {
			rightIdx = i
			break
		}
	}
	if rightIdx < 0 {
		return res
	}
	for rightIdx+1 < len(window) && window[rightIdx+1].High > window[rightIdx].High {
		rightIdx++
	}

	cupWeeks := float64(rightIdx-lipIdx) / 5.0
	res.CupDurationWks = &cupWeeks
	if cupWeeks < cfg.MinCupWeeks || cupWeeks > cfg.MaxCupWeeks {
		return res
	}
	res.CupDetected = true

	// Handle: the drift after the right lip.
	handle := window[rightIdx+1:]
	if len(handle) < 3 {
		return res
	}

	handleHigh := handle[0].High
	handleLow := handle[0].Low
	for i := 1; i < len(handle); i++ {
		if handle[i].High > handleHigh {
			handleHigh = handle[i].High
		}
		if handle[i].Low < handleLow {
			handleLow = handle[i].Low
		}
	}

	handleDepth := (handleHigh - handleLow) / handleHigh * 100
	res.HandleDepthPct = &handleDepth
	handleWeeks := float64(len(handle)) / 5.0
	res.HandleDurationWks = &handleWeeks

	if handleDepth > cfg.MaxHandleDepthPct || handleWeeks > cfg.MaxHandleWeeks {
		return res
	}
	// The handle must hold the upper half of the cup; a retest of the lows
	// invalidates the base.
	if handleLow < bottom+0.5*(lip-bottom) {
		return res
	}

	res.HandleDetected = true
	res.Pivot = &handleHigh
	res.HandleHasVCP = handleContracts(handle)
	return res
}

// handleContracts reports whether the handle itself shows contraction:
// tightening price ranges across thirds, or volume drying up into the end.
func handleContracts(handle contracts.Bars) bool {
	if len(handle) < 6 {
		return false
	}

	third := len(handle) / 3
	r1, v1 := segmentRangeVolume(handle[:third])
	r2, _ := segmentRangeVolume(handle[third : 2*third])
	r3, v3 := segmentRangeVolume(handle[2*third:])

	if r1 >= r2 && r2 >= r3 && r3 < r1 {
		return true
	}
	return v1 > 0 && v3 < 0.75*v1
}

func segmentRangeVolume(seg contracts.Bars) (rangePct, avgVol float64) {
	if len(seg) == 0 {
		return 0, 0
	}

	high := seg[0].High
	low := seg[0].Low
	volSum := 0.0
	for i := range seg {
		if seg[i].High > high {
			high = seg[i].High
		}
		if seg[i].Low < low {
			low = seg[i].Low
		}
		volSum += float64(seg[i].Volume)
	}
	if high > 0 {
		rangePct = (high - low) / high * 100
	}
	return rangePct, volSum / float64(len(seg))
}
