package patterns

import "github.com/wonny/sepa/backend/internal/contracts"

// swingPoint is a local extremum in the bar series.
type swingPoint struct {
	idx   int
	price float64
}

// swingWindow picks the pivot-detection half-width for a leg of the given
// length. Longer legs need wider confirmation so noise does not register
// as structure.
func swingWindow(legLen int) int {
	switch {
	case legLen < 40:
		return 2
	case legLen < 80:
		return 3
	default:
		return 4
	}
}

// findSwingHighs returns local maxima of the high series: bars whose high
// strictly exceeds every high within n bars to the left and is not exceeded
// within n bars to the right. Ties resolve to the earlier bar so a double
// top yields one swing, not zero.
func findSwingHighs(bars contracts.Bars, n int) []swingPoint {
	var out []swingPoint
	for i := n; i < len(bars)-n; i++ {
		h := bars[i].High
		isSwing := true
		for j := i - n; j < i && isSwing; j++ {
			if bars[j].High >= h {
				isSwing = false
			}
		}
		for j := i + 1; j <= i+n && isSwing; j++ {
			if bars[j].High > h {
				isSwing = false
			}
		}
		if isSwing {
			out = append(out, swingPoint{idx: i, price: h})
		}
	}
	return out
}

// findSwingLows returns local minima of the low series with the same
// tie-breaking as findSwingHighs.
func findSwingLows(bars contracts.Bars, n int) []swingPoint {
	var out []swingPoint
	for i := n; i < len(bars)-n; i++ {
		l := bars[i].Low
		isSwing := true
		for j := i - n; j < i && isSwing; j++ {
			if bars[j].Low <= l {
				isSwing = false
			}
		}
		for j := i + 1; j <= i+n && isSwing; j++ {
			if bars[j].Low < l {
				isSwing = false
			}
		}
		if isSwing {
			out = append(out, swingPoint{idx: i, price: l})
		}
	}
	return out
}

// pairContractions joins each swing high with the first swing low that
// follows it before the next swing high. Each pair is one pullback leg.
func pairContractions(bars contracts.Bars, highs, lows []swingPoint) []contracts.Contraction {
	var out []contracts.Contraction
	li := 0
	for hi, high := range highs {
		for li < len(lows) && lows[li].idx <= high.idx {
			li++
		}
		if li >= len(lows) {
			break
		}
		low := lows[li]
		if hi+1 < len(highs) && low.idx >= highs[hi+1].idx {
			continue
		}
		if high.price <= 0 {
			continue
		}

		volSum := 0.0
		for i := high.idx; i <= low.idx; i++ {
			volSum += float64(bars[i].Volume)
		}

		out = append(out, contracts.Contraction{
			HighDate:  bars[high.idx].Date,
			High:      high.price,
			LowDate:   bars[low.idx].Date,
			Low:       low.price,
			RangePct:  (high.price - low.price) / high.price * 100,
			AvgVolume: volSum / float64(low.idx-high.idx+1),
		})
	}
	return out
}
