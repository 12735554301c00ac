package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/strategyconfig"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }
func b(v bool) *bool         { return &v }

func newTestGenerator() *Generator {
	return NewGenerator(strategyconfig.Default().Signals)
}

func TestDetermineStage(t *testing.T) {
	tests := []struct {
		name string
		in   StageInput
		want contracts.Stage
	}{
		{
			name: "advancing",
			in: StageInput{
				Close: 110, SMA50: 105, SMA150: 100, SMA200: 95,
				MA200TrendPct: f64(1.5), PctFromHigh: -5, RSRank: i(85),
			},
			want: contracts.StageAdvancing,
		},
		{
			name: "advancing blocked by weak rank",
			in: StageInput{
				Close: 110, SMA50: 105, SMA150: 100, SMA200: 95,
				MA200TrendPct: f64(1.5), PctFromHigh: -5, RSRank: i(50),
			},
			want: contracts.StageTopping,
		},
		{
			name: "declining",
			in: StageInput{
				Close: 60, SMA50: 70, SMA150: 80, SMA200: 90,
				MA200TrendPct: f64(-1.2), PctFromHigh: -45, RSRank: i(20),
			},
			want: contracts.StageDeclining,
		},
		{
			name: "shallow ma slope is not a downtrend",
			in: StageInput{
				Close: 60, SMA50: 70, SMA150: 80, SMA200: 90,
				MA200TrendPct: f64(-0.15), PctFromHigh: -45, RSRank: i(20),
			},
			want: contracts.StageBasing,
		},
		{
			name: "topping with broken ma order",
			in: StageInput{
				Close: 100, SMA50: 95, SMA150: 98, SMA200: 96,
				MA200TrendPct: f64(1.5), PctFromHigh: -10, RSRank: i(80),
			},
			want: contracts.StageTopping,
		},
		{
			name: "topping on a stalling long ma",
			in: StageInput{
				Close: 110, SMA50: 105, SMA150: 100, SMA200: 95,
				MA200TrendPct: f64(-0.1), PctFromHigh: -5, RSRank: i(85),
			},
			want: contracts.StageTopping,
		},
		{
			name: "basing default",
			in: StageInput{
				Close: 85, SMA50: 84, SMA150: 86, SMA200: 88,
				MA200TrendPct: f64(-0.8), PctFromHigh: -20, RSRank: i(55),
			},
			want: contracts.StageBasing,
		},
		{
			name: "unknown rank blocks advancing",
			in: StageInput{
				Close: 110, SMA50: 105, SMA150: 100, SMA200: 95,
				MA200TrendPct: f64(1.5), PctFromHigh: -5, RSRank: nil,
			},
			want: contracts.StageBasing,
		},
		{
			name: "unknown trend blocks advancing",
			in: StageInput{
				Close: 110, SMA50: 105, SMA150: 100, SMA200: 95,
				MA200TrendPct: nil, PctFromHigh: -5, RSRank: i(85),
			},
			want: contracts.StageBasing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineStage(tt.in))
		})
	}
}

func TestEntryRangeBreakout(t *testing.T) {
	g := newTestGenerator()

	entry := g.EntryRange(101, 100, f64(99), f64(97))
	require.NotNil(t, entry)
	assert.InDelta(t, 100, entry.Low, 1e-9)
	assert.InDelta(t, 105, entry.High, 1e-9)
}

func TestEntryRangeExtendedPullsBackToEMAs(t *testing.T) {
	g := newTestGenerator()

	entry := g.EntryRange(110, 100, f64(106), f64(104))
	require.NotNil(t, entry)
	assert.InDelta(t, 104, entry.Low, 1e-9)
	assert.InDelta(t, 106, entry.High, 1e-9)

	// Only the 21 EMA known: a narrow band around it.
	entry = g.EntryRange(110, 100, nil, f64(104))
	require.NotNil(t, entry)
	assert.InDelta(t, 102.96, entry.Low, 0.01)
	assert.InDelta(t, 105.04, entry.High, 0.01)
}

func TestStopLossPicksTightestWithinBand(t *testing.T) {
	g := newTestGenerator()

	// EMA stop at 95.04 is the tightest candidate inside the 3..8% band.
	stop := g.StopLoss(100, f64(3), f64(96), nil, f64(90))
	require.NotNil(t, stop)
	assert.InDelta(t, 95.04, *stop, 0.01)

	// Very tight candidates clamp to the minimum 3% distance.
	stop = g.StopLoss(100, f64(0.5), f64(99.5), nil, nil)
	require.NotNil(t, stop)
	assert.InDelta(t, 97, *stop, 0.01)

	// No candidates above the floor: the 8% hard stop holds.
	stop = g.StopLoss(100, nil, nil, nil, f64(80))
	require.NotNil(t, stop)
	assert.InDelta(t, 92, *stop, 0.01)

	assert.Nil(t, g.StopLoss(0, nil, nil, nil, nil))
}

func TestSellTargets(t *testing.T) {
	g := newTestGenerator()

	targets := g.SellTargets(100, 95, f64(80))
	require.NotNil(t, targets)

	assert.InDelta(t, 110, targets.Conservative, 1e-9)
	assert.InDelta(t, 115, targets.Primary, 1e-9, "3R below the 25% cap")
	assert.InDelta(t, 125, targets.Aggressive, 1e-9)
	assert.InDelta(t, 120, targets.PartialProfitAt, 1e-9)
	assert.InDelta(t, 3.0, targets.RiskReward, 1e-9)
	assert.InDelta(t, 5.0, targets.RiskPct, 1e-9)
	require.NotNil(t, targets.ClimaxWarning)
	assert.InDelta(t, 136, *targets.ClimaxWarning, 1e-9)

	// Wide stop: the 25% level caps the primary target.
	targets = g.SellTargets(100, 92, nil)
	require.NotNil(t, targets)
	assert.InDelta(t, 124, targets.Conservative, 1e-9)
	assert.InDelta(t, 125, targets.Primary, 1e-9)
	assert.Nil(t, targets.ClimaxWarning)

	assert.Nil(t, g.SellTargets(100, 100, nil), "zero risk has no targets")
}

// buyInput is a fully qualified Stage 2 breakout setup.
func buyInput() Input {
	return Input{
		Close:          101,
		Pivot:          f64(100),
		Stage:          contracts.StageAdvancing,
		RSRank:         i(90),
		PatternFound:   true,
		PatternScore:   75,
		VolumeRatio:    f64(1.8),
		PassesTemplate: true,
		CriteriaPassed: 9,
		EMA10:          f64(99),
		EMA21:          f64(97),
		ATR:            f64(2.5),
		SMA200:         f64(85),
		SwingLow:       f64(94),
	}
}

func TestGenerateBuy(t *testing.T) {
	g := newTestGenerator()

	res := g.Generate(buyInput())
	assert.Equal(t, contracts.SignalBuy, res.Signal)
	assert.NotEmpty(t, res.Reasons)

	require.NotNil(t, res.Entry)
	assert.InDelta(t, 100, res.Entry.Low, 1e-9)
	require.NotNil(t, res.StopLoss)
	assert.Less(t, *res.StopLoss, res.Entry.Low)
	require.NotNil(t, res.Targets)
	assert.Greater(t, res.Targets.Primary, res.Entry.Low)
}

func TestGenerateWaitOnModestRank(t *testing.T) {
	g := newTestGenerator()

	in := buyInput()
	in.RSRank = i(75) // template passes at 70 but BUY needs 80
	res := g.Generate(in)

	assert.Equal(t, contracts.SignalWait, res.Signal)
	assert.NotEmpty(t, res.Reasons)
	assert.NotNil(t, res.Entry, "WAIT still carries a trade plan")
}

func TestGenerateWaitOnImminentEarnings(t *testing.T) {
	g := newTestGenerator()

	in := buyInput()
	in.DaysUntilEarnings = i(5)
	res := g.Generate(in)

	assert.Equal(t, contracts.SignalWait, res.Signal)
	assert.Contains(t, res.Reasons[0], "earnings in 5 days")
}

func TestGenerateBuyBlockedWithoutPrimaryBase(t *testing.T) {
	g := newTestGenerator()

	in := buyInput()
	in.IsNewIssue = true
	in.PrimaryBase = &contracts.PrimaryBaseResult{Status: contracts.BaseForming}
	res := g.Generate(in)
	assert.Equal(t, contracts.SignalWait, res.Signal)

	in.PrimaryBase = &contracts.PrimaryBaseResult{Status: contracts.BaseComplete, HasBase: true}
	res = g.Generate(in)
	assert.Equal(t, contracts.SignalBuy, res.Signal)
}

func TestGeneratePassInDowntrend(t *testing.T) {
	g := newTestGenerator()

	in := Input{
		Close:          60,
		Stage:          contracts.StageDeclining,
		RSRank:         i(20),
		CriteriaPassed: 2,
	}
	res := g.Generate(in)

	assert.Equal(t, contracts.SignalPass, res.Signal)
	assert.Nil(t, res.Entry)
	assert.Nil(t, res.StopLoss)
	assert.NotEmpty(t, res.Reasons)
}

func TestGenerateFailedEarningsBlocksBuy(t *testing.T) {
	g := newTestGenerator()

	in := buyInput()
	in.PassesEarnings = b(false)
	res := g.Generate(in)
	assert.Equal(t, contracts.SignalWait, res.Signal)

	in.PassesEarnings = b(true)
	res = g.Generate(in)
	assert.Equal(t, contracts.SignalBuy, res.Signal)

	in.PassesEarnings = nil // unknown fundamentals do not block
	res = g.Generate(in)
	assert.Equal(t, contracts.SignalBuy, res.Signal)
}
