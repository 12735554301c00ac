package contracts

import "time"

// PriceBar is one daily OHLCV bar. Bars are stored and passed around in
// ascending date order and are never mutated after load.
type PriceBar struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// ClosePoint is a (date, close) pair used for universe-wide bulk loads
// where full OHLCV is not needed.
type ClosePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Bars is a date-ascending sequence of bars for one symbol.
type Bars []PriceBar

// Last returns the most recent bar, or nil for an empty series.
func (b Bars) Last() *PriceBar {
	if len(b) == 0 {
		return nil
	}
	return &b[len(b)-1]
}

// Tail returns the trailing n bars (all bars if fewer are available).
func (b Bars) Tail(n int) Bars {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}

// Since returns the bars on or after the given date.
func (b Bars) Since(date time.Time) Bars {
	for i := range b {
		if !b[i].Date.Before(date) {
			return b[i:]
		}
	}
	return nil
}

// IndexAtOrBefore returns the index of the last bar dated at or before the
// given date, or -1 if every bar is later.
func (b Bars) IndexAtOrBefore(date time.Time) int {
	for i := len(b) - 1; i >= 0; i-- {
		if !b[i].Date.After(date) {
			return i
		}
	}
	return -1
}

// Closes extracts the close series.
func (b Bars) Closes() []float64 {
	out := make([]float64, len(b))
	for i := range b {
		out[i] = b[i].Close
	}
	return out
}
