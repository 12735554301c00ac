package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// makeBars builds a daily series starting at start with the given closes.
// High/low straddle the close by 1% and volume is constant.
func makeBars(start time.Time, closes ...float64) contracts.Bars {
	bars := make(contracts.Bars, len(closes))
	for i, c := range closes {
		bars[i] = contracts.PriceBar{
			Symbol: "TEST",
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return bars
}

// flatBars builds n identical bars at the given close.
func flatBars(start time.Time, n int, close float64) contracts.Bars {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = close
	}
	return makeBars(start, closes...)
}

var testStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSMA(t *testing.T) {
	bars := makeBars(testStart, 1, 2, 3, 4, 5)

	got := SMA(bars, 3)
	require.NotNil(t, got)
	assert.InDelta(t, 4.0, *got, 1e-9)

	assert.Nil(t, SMA(bars, 6), "insufficient history returns nil")
	assert.Nil(t, SMA(nil, 3))
}

func TestEMAConstantSeries(t *testing.T) {
	bars := flatBars(testStart, 100, 50)

	got := EMA(bars, 21)
	require.NotNil(t, got)
	assert.InDelta(t, 50.0, *got, 1e-9)
}

func TestEMATracksRecentPrices(t *testing.T) {
	// A series that steps up should carry the EMA above the old level
	// but below the new close.
	closes := make([]float64, 60)
	for i := range closes {
		if i < 30 {
			closes[i] = 100
		} else {
			closes[i] = 110
		}
	}
	bars := makeBars(testStart, closes...)

	got := EMA(bars, 21)
	require.NotNil(t, got)
	assert.Greater(t, *got, 100.0)
	assert.Less(t, *got, 110.0)
}

func TestATR(t *testing.T) {
	bars := flatBars(testStart, 30, 100)

	atr, atrPct := ATR(bars, 14)
	require.NotNil(t, atr)
	require.NotNil(t, atrPct)
	// Flat bars: true range is the 2% high-low spread.
	assert.InDelta(t, 2.0, *atr, 1e-9)
	assert.InDelta(t, 2.0, *atrPct, 1e-9)

	atr, atrPct = ATR(bars[:10], 14)
	assert.Nil(t, atr)
	assert.Nil(t, atrPct)
}

func TestMATrendPct(t *testing.T) {
	// A 1/day climb moves the 200-day MA by 30 over thirty days. The MA at
	// the anchor averages closes 70..269, so the base is 269.5.
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	trend := MATrendPct(makeBars(testStart, closes...), 200, 30)
	require.NotNil(t, trend)
	assert.InDelta(t, 30/269.5*100, *trend, 1e-9)

	// Steady downtrend reads negative.
	for i := range closes {
		closes[i] = 400 - float64(i)
	}
	trend = MATrendPct(makeBars(testStart, closes...), 200, 30)
	require.NotNil(t, trend)
	assert.Less(t, *trend, 0.0)

	// Not enough history at the anchor date.
	trend = MATrendPct(makeBars(testStart, closes[:210]...), 200, 30)
	assert.Nil(t, trend)
}

func TestWeek52HighLowIgnoresOlderBars(t *testing.T) {
	// A spike 400 days ago must not count toward the 52-week high.
	closes := make([]float64, 420)
	for i := range closes {
		closes[i] = 100
	}
	closes[5] = 500
	bars := makeBars(testStart, closes...)

	high, low := Week52HighLow(bars)
	require.NotNil(t, high)
	require.NotNil(t, low)
	assert.InDelta(t, 101.0, *high, 1e-9)
	assert.InDelta(t, 99.0, *low, 1e-9)
}

func TestDistanceFrom52Week(t *testing.T) {
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100
	}
	closes[150] = 130 // high inside the window
	closes[200] = 80  // low inside the window
	bars := makeBars(testStart, closes...)

	pctFromHigh, pctAboveLow := DistanceFrom52Week(bars)
	require.NotNil(t, pctFromHigh)
	require.NotNil(t, pctAboveLow)

	// high = 130*1.01, low = 80*0.99, close = 100
	assert.InDelta(t, (100-131.3)/131.3*100, *pctFromHigh, 1e-6)
	assert.InDelta(t, (100-79.2)/79.2*100, *pctAboveLow, 1e-6)
}

func TestNewHighInfo(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	isNew, days := NewHighInfo(makeBars(testStart, closes...))
	assert.True(t, isNew)
	require.NotNil(t, days)
	assert.Equal(t, 0, *days)

	// Pull the last bars well below the peak.
	closes[98] = 100
	closes[99] = 100
	isNew, days = NewHighInfo(makeBars(testStart, closes...))
	assert.False(t, isNew)
	require.NotNil(t, days)
	assert.Equal(t, 2, *days)

	// Within half a percent of the 198.97 peak still counts as a high.
	closes[99] = 196.5
	isNew, days = NewHighInfo(makeBars(testStart, closes...))
	assert.True(t, isNew)
	require.NotNil(t, days)
	assert.Equal(t, 2, *days)
}

func TestSwingLow(t *testing.T) {
	bars := makeBars(testStart, 100, 95, 90, 98, 102)

	got := SwingLow(bars, 10)
	require.NotNil(t, got)
	assert.InDelta(t, 90*0.99, *got, 1e-9, "lookback longer than series uses all bars")

	assert.Nil(t, SwingLow(bars, 3), "fewer than five bars cannot confirm a swing")

	// Two dips: the more recent one wins.
	bars = makeBars(testStart, 100, 90, 100, 105, 100, 95, 101, 104)
	got = SwingLow(bars, 10)
	require.NotNil(t, got)
	assert.InDelta(t, 95*0.99, *got, 1e-9)

	// A steady decline has no confirmed low to stop against.
	decline := make([]float64, 30)
	for i := range decline {
		decline[i] = 200 - float64(i)
	}
	assert.Nil(t, SwingLow(makeBars(testStart, decline...), 20))
}

func TestAvgDollarVolume(t *testing.T) {
	bars := makeBars(testStart, 10, 10, 10)

	got := AvgDollarVolume(bars, 3)
	require.NotNil(t, got)
	assert.InDelta(t, 10*1_000_000, *got, 1e-3)

	// Half the requested window is enough; the mean covers what exists.
	got = AvgDollarVolume(bars, 4)
	require.NotNil(t, got)
	assert.InDelta(t, 10*1_000_000, *got, 1e-3)

	assert.Nil(t, AvgDollarVolume(bars, 8), "under half the window returns nil")
}

func TestVolumeRatio(t *testing.T) {
	bars := flatBars(testStart, 51, 100)
	bars[len(bars)-1].Volume = 2_000_000

	got := VolumeRatio(bars, 50)
	require.NotNil(t, got)
	assert.InDelta(t, 2.0, *got, 1e-9)

	// A shorter history still rates the last bar against what exists.
	short := flatBars(testStart, 26, 100)
	short[len(short)-1].Volume = 3_000_000
	got = VolumeRatio(short, 50)
	require.NotNil(t, got)
	assert.InDelta(t, 3.0, *got, 1e-9)

	assert.Nil(t, VolumeRatio(flatBars(testStart, 10, 100), 50))
}

func TestReturns(t *testing.T) {
	// 1% per bar compounding is awkward; use a linear series and check the
	// 21-day horizon arithmetic directly.
	closes := make([]float64, 260)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	bars := makeBars(testStart, closes...)

	r1m, r3m, r6m, r12m := Returns(bars)
	require.NotNil(t, r1m)
	require.NotNil(t, r3m)
	require.NotNil(t, r6m)
	require.NotNil(t, r12m)

	last := closes[len(closes)-1]
	base1m := closes[len(closes)-1-21]
	assert.InDelta(t, (last-base1m)/base1m*100, *r1m, 1e-9)

	base12m := closes[len(closes)-1-252]
	assert.InDelta(t, (last-base12m)/base12m*100, *r12m, 1e-9)

	// Too short for the 12-month horizon.
	_, _, _, r12m = Returns(bars[:200])
	assert.Nil(t, r12m)
}
