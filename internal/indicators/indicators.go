// Package indicators provides pure technical calculations over daily bar
// series. All functions take a date-ascending bar slice, evaluate as of the
// last bar, and return nil when the series is too short.
package indicators

import (
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// SMA returns the simple moving average of the last period closes.
func SMA(bars contracts.Bars, period int) *float64 {
	if period <= 0 || len(bars) < period {
		return nil
	}

	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += bars[i].Close
	}
	v := sum / float64(period)
	return &v
}

// EMA returns the exponential moving average of closes. The seed is the SMA
// of the first period closes in the window; at most 3*period trailing bars
// feed the recursion so old history cannot shift the value.
func EMA(bars contracts.Bars, period int) *float64 {
	if period <= 0 || len(bars) < period {
		return nil
	}

	window := bars.Tail(3 * period)
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += window[i].Close
	}
	ema := seed / float64(period)

	k := 2.0 / float64(period+1)
	for i := period; i < len(window); i++ {
		ema = window[i].Close*k + ema*(1-k)
	}
	return &ema
}

// ATR returns the Wilder average true range over the period, plus its value
// as a percentage of the last close.
func ATR(bars contracts.Bars, period int) (atr, atrPct *float64) {
	if period <= 0 || len(bars) < period+1 {
		return nil, nil
	}

	trSum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		tr := trueRange(&bars[i], &bars[i-1])
		trSum += tr
	}
	v := trSum / float64(period)

	last := bars[len(bars)-1].Close
	if last <= 0 {
		return &v, nil
	}
	pct := v / last * 100
	return &v, &pct
}

func trueRange(cur, prev *contracts.PriceBar) float64 {
	hl := cur.High - cur.Low
	hc := abs(cur.High - prev.Close)
	lc := abs(cur.Low - prev.Close)
	return max3(hl, hc, lc)
}

// MATrendPct returns the moving average's percentage change versus its value
// windowDays calendar days ago. Returns nil when either endpoint lacks
// enough history.
func MATrendPct(bars contracts.Bars, period, windowDays int) *float64 {
	cur := SMA(bars, period)
	if cur == nil {
		return nil
	}

	anchor := bars[len(bars)-1].Date.AddDate(0, 0, -windowDays)
	idx := bars.IndexAtOrBefore(anchor)
	if idx < 0 {
		return nil
	}
	past := SMA(bars[:idx+1], period)
	if past == nil || *past <= 0 {
		return nil
	}

	v := (*cur - *past) / *past * 100
	return &v
}

// Week52HighLow returns the highest high and lowest low over the trailing
// 52 weeks ending at the last bar.
func Week52HighLow(bars contracts.Bars) (high, low *float64) {
	if len(bars) == 0 {
		return nil, nil
	}

	from := bars[len(bars)-1].Date.AddDate(0, 0, -364)
	window := bars.Since(from)
	if len(window) == 0 {
		return nil, nil
	}

	h := window[0].High
	l := window[0].Low
	for i := 1; i < len(window); i++ {
		if window[i].High > h {
			h = window[i].High
		}
		if window[i].Low < l {
			l = window[i].Low
		}
	}
	return &h, &l
}

// DistanceFrom52Week returns the close's percentage below the 52-week high
// (negative when under the high) and above the 52-week low.
func DistanceFrom52Week(bars contracts.Bars) (pctFromHigh, pctAboveLow *float64) {
	high, low := Week52HighLow(bars)
	if high == nil || low == nil {
		return nil, nil
	}

	close := bars[len(bars)-1].Close
	if *high > 0 {
		v := (close - *high) / *high * 100
		pctFromHigh = &v
	}
	if *low > 0 {
		v := (close - *low) / *low * 100
		pctAboveLow = &v
	}
	return pctFromHigh, pctAboveLow
}

// NewHighInfo reports whether the last bar trades within 0.5% of the trailing
// 52-week high and how many calendar days have passed since that high was set.
func NewHighInfo(bars contracts.Bars) (isNewHigh bool, daysSince *int) {
	if len(bars) == 0 {
		return false, nil
	}

	last := bars[len(bars)-1]
	window := bars.Since(last.Date.AddDate(0, 0, -364))

	maxHigh := window[0].High
	maxIdx := 0
	for i := 1; i < len(window); i++ {
		if window[i].High >= maxHigh {
			maxHigh = window[i].High
			maxIdx = i
		}
	}

	d := int(last.Date.Sub(window[maxIdx].Date).Hours() / 24)
	isNewHigh = last.High >= maxHigh*0.995
	return isNewHigh, &d
}

// SwingLow returns the most recent confirmed swing low inside the trailing
// lookback bars: a bar whose low undercuts the two bars on each side. Used
// as a stop-loss candidate; nil when no bar qualifies.
func SwingLow(bars contracts.Bars, lookback int) *float64 {
	if lookback <= 0 {
		return nil
	}

	window := bars.Tail(lookback)
	if len(window) < 5 {
		return nil
	}

	for i := len(window) - 3; i >= 2; i-- {
		l := window[i].Low
		if l < window[i-1].Low && l < window[i-2].Low &&
			l < window[i+1].Low && l < window[i+2].Low {
			return &l
		}
	}
	return nil
}

// TradingDaysBetween approximates trading days in a calendar span (5 of 7).
func TradingDaysBetween(from, to time.Time) int {
	days := int(to.Sub(from).Hours() / 24)
	if days <= 0 {
		return 0
	}
	return days * 5 / 7
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
