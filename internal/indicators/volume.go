package indicators

import "github.com/wonny/sepa/backend/internal/contracts"

// AvgDollarVolume returns the mean of close*volume over the trailing days.
// A series at least half as long as requested still yields a value, averaged
// over the bars present. Liquidity gate for the universe filter.
func AvgDollarVolume(bars contracts.Bars, days int) *float64 {
	if days <= 0 || len(bars) < days/2 {
		return nil
	}

	window := bars.Tail(days)
	sum := 0.0
	for i := range window {
		sum += window[i].Close * float64(window[i].Volume)
	}
	v := sum / float64(len(window))
	return &v
}

// VolumeRatio returns the last bar's volume relative to the average volume
// of the preceding days bars, accepting a prior window at least half as long
// as requested. Above 1 means expanding volume.
func VolumeRatio(bars contracts.Bars, days int) *float64 {
	if days <= 0 || len(bars) < 2 || len(bars)-1 < days/2 {
		return nil
	}

	prior := bars[:len(bars)-1].Tail(days)
	sum := 0.0
	for i := range prior {
		sum += float64(prior[i].Volume)
	}
	avg := sum / float64(len(prior))
	if avg <= 0 {
		return nil
	}

	v := float64(bars[len(bars)-1].Volume) / avg
	return &v
}

// Trailing trading-day offsets for the standard return horizons.
const (
	barsPerMonth    = 21
	barsPerQuarter  = 63
	barsPerHalfYear = 126
	barsPerYear     = 252
)

// Returns computes percentage returns over the standard trading-day
// horizons: 1, 3, 6, and 12 months.
func Returns(bars contracts.Bars) (r1m, r3m, r6m, r12m *float64) {
	return returnOver(bars, barsPerMonth),
		returnOver(bars, barsPerQuarter),
		returnOver(bars, barsPerHalfYear),
		returnOver(bars, barsPerYear)
}

func returnOver(bars contracts.Bars, tradingDays int) *float64 {
	if len(bars) < tradingDays+1 {
		return nil
	}

	base := bars[len(bars)-1-tradingDays].Close
	if base <= 0 {
		return nil
	}

	v := (bars[len(bars)-1].Close - base) / base * 100
	return &v
}
