// Package signals turns computed metrics into a stage classification and a
// Buy/Wait/Pass trade plan with entry, stop, and target levels. Everything
// here is pure logic over values already computed upstream.
package signals

import "github.com/wonny/sepa/backend/internal/contracts"

// StageInput carries the metrics the stage classifier looks at. Pointer
// fields may be nil when history was insufficient.
type StageInput struct {
	Close         float64
	SMA50         float64
	SMA150        float64
	SMA200        float64
	MA200TrendPct *float64
	PctFromHigh   float64
	RSRank        *int
}

// DetermineStage classifies the trend lifecycle stage. Stage 2 is the only
// buy zone: price above all three MAs in proper order, a rising long MA,
// close to highs, rank at least 60. Stage 4 needs the long MA falling more
// than half a percent over its window; a merely flat MA is not a downtrend.
func DetermineStage(in StageInput) contracts.Stage {
	priceAbove200 := in.Close > in.SMA200
	priceAbove150 := in.Close > in.SMA150
	priceAbove50 := in.Close > in.SMA50
	ma50Above150 := in.SMA50 > in.SMA150
	ma150Above200 := in.SMA150 > in.SMA200

	rank := -1
	if in.RSRank != nil {
		rank = *in.RSRank
	}
	trendRising := in.MA200TrendPct != nil && *in.MA200TrendPct > 0
	trendFalling := in.MA200TrendPct != nil && *in.MA200TrendPct < -0.5
	trendStalling := in.MA200TrendPct != nil && *in.MA200TrendPct < 0.5

	if priceAbove200 && priceAbove150 && priceAbove50 &&
		ma50Above150 && ma150Above200 &&
		trendRising &&
		in.PctFromHigh >= -25 &&
		rank >= 60 {
		return contracts.StageAdvancing
	}

	if !priceAbove200 && trendFalling &&
		in.PctFromHigh < -30 &&
		rank >= 0 && rank < 40 {
		return contracts.StageDeclining
	}

	if priceAbove200 &&
		(!ma150Above200 || !ma50Above150 || trendStalling ||
			in.PctFromHigh < -15 || (rank >= 0 && rank < 60)) {
		return contracts.StageTopping
	}

	return contracts.StageBasing
}
