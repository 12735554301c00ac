package signals

import (
	"fmt"
	"math"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/strategyconfig"
)

// Generator produces Buy/Wait/Pass verdicts and price levels.
type Generator struct {
	cfg strategyconfig.Signals
}

// NewGenerator creates a signal generator.
func NewGenerator(cfg strategyconfig.Signals) *Generator {
	return &Generator{cfg: cfg}
}

// Input is everything the verdict depends on, computed upstream.
type Input struct {
	Close float64
	Pivot *float64

	Stage          contracts.Stage
	RSRank         *int
	PatternFound   bool
	PatternScore   int
	VolumeRatio    *float64
	PassesTemplate bool
	CriteriaPassed int
	FailedCriteria []string

	DaysUntilEarnings    *int
	PassesEarnings       *bool
	EarningsAccelerating bool
	SectorRS             *float64

	EMA10              *float64
	EMA21              *float64
	ATR                *float64
	SMA200             *float64
	LastContractionLow *float64
	SwingLow           *float64

	IsNewIssue  bool
	PrimaryBase *contracts.PrimaryBaseResult
}

// Generate evaluates the input and returns the verdict with price levels.
// BUY needs everything: template, Stage 2, a scored pattern, elite RS, an
// actionable distance to the pivot, no imminent earnings, fundamentals not
// failing, and a completed primary base for new issues. WAIT covers setups
// still forming; everything else is PASS.
func (g *Generator) Generate(in Input) contracts.SignalResult {
	res := contracts.SignalResult{Signal: contracts.SignalPass}

	var distFromPivot *float64
	if in.Pivot != nil && *in.Pivot > 0 {
		v := (in.Close - *in.Pivot) / *in.Pivot * 100
		distFromPivot = &v
	}

	rank := -1
	if in.RSRank != nil {
		rank = *in.RSRank
	}
	earningsSoon := in.DaysUntilEarnings != nil && *in.DaysUntilEarnings <= g.cfg.EarningsBlackoutDays
	earningsFail := in.PassesEarnings != nil && !*in.PassesEarnings

	isBuy := in.PassesTemplate &&
		in.Stage == contracts.StageAdvancing &&
		in.PatternFound && in.PatternScore >= 50 &&
		rank >= g.cfg.RSRankBuyMin &&
		distFromPivot != nil &&
		*distFromPivot >= g.cfg.MinPivotDistancePct &&
		*distFromPivot <= g.cfg.MaxChasePct &&
		!earningsSoon &&
		!earningsFail &&
		(!in.IsNewIssue || (in.PrimaryBase != nil && in.PrimaryBase.HasBase))

	switch {
	case isBuy:
		res.Signal = contracts.SignalBuy
		res.Reasons = g.buyReasons(in)
	case (in.Stage == contracts.StageBasing || in.Stage == contracts.StageAdvancing) && in.CriteriaPassed >= 7:
		res.Signal = contracts.SignalWait
		res.Reasons = g.waitReasons(in, distFromPivot, rank, earningsSoon, earningsFail)
	default:
		res.Reasons = g.passReasons(in, rank, earningsFail)
	}

	if res.Signal != contracts.SignalPass && in.Pivot != nil {
		entry := g.EntryRange(in.Close, *in.Pivot, in.EMA10, in.EMA21)
		res.Entry = entry

		reference := *in.Pivot
		if entry != nil {
			reference = entry.Low
		}
		res.StopLoss = g.StopLoss(reference, in.ATR, in.EMA21, in.LastContractionLow, in.SwingLow)
		if res.StopLoss != nil {
			res.Targets = g.SellTargets(reference, *res.StopLoss, in.SMA200)
		}
	}

	return res
}

func (g *Generator) buyReasons(in Input) []string {
	reasons := []string{
		"all trend criteria pass",
		"stage 2 uptrend confirmed",
		fmt.Sprintf("base pattern confirmed (score %d)", in.PatternScore),
	}
	if in.VolumeRatio != nil && *in.VolumeRatio >= 1.5 {
		reasons = append(reasons, fmt.Sprintf("above-average volume (%.1fx)", *in.VolumeRatio))
	}
	if in.EarningsAccelerating {
		reasons = append(reasons, "earnings accelerating")
	}
	if in.SectorRS != nil && *in.SectorRS >= 60 {
		reasons = append(reasons, fmt.Sprintf("strong sector (RS %.0f)", *in.SectorRS))
	}
	return reasons
}

func (g *Generator) waitReasons(in Input, distFromPivot *float64, rank int, earningsSoon, earningsFail bool) []string {
	var reasons []string

	if !in.PassesTemplate {
		reasons = append(reasons, fmt.Sprintf("%d/9 criteria met (%v)", in.CriteriaPassed, in.FailedCriteria))
	}
	if in.PatternScore >= 30 && in.PatternScore < 50 {
		reasons = append(reasons, fmt.Sprintf("base forming (score %d)", in.PatternScore))
	} else if !in.PatternFound {
		reasons = append(reasons, "no base pattern yet")
	}
	if distFromPivot != nil {
		if *distFromPivot < -5 {
			reasons = append(reasons, fmt.Sprintf("price %.1f%% below pivot, wait for breakout", math.Abs(*distFromPivot)))
		} else if *distFromPivot > g.cfg.MaxChasePct {
			reasons = append(reasons, fmt.Sprintf("extended %.1f%% above pivot, wait for pullback", *distFromPivot))
		}
	}
	if earningsSoon {
		reasons = append(reasons, fmt.Sprintf("earnings in %d days, wait", *in.DaysUntilEarnings))
	}
	if rank >= 70 && rank < g.cfg.RSRankBuyMin {
		reasons = append(reasons, fmt.Sprintf("RS adequate (%d) but below preferred %d+", rank, g.cfg.RSRankBuyMin))
	}
	if earningsFail {
		reasons = append(reasons, "earnings criteria not met, watch for improvement")
	}
	if in.IsNewIssue && in.PrimaryBase != nil && in.PrimaryBase.Status == contracts.BaseForming {
		reasons = append(reasons, describeFormingBase(in.PrimaryBase))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "setup forming, monitor for confirmation")
	}
	return reasons
}

func (g *Generator) passReasons(in Input, rank int, earningsFail bool) []string {
	var reasons []string

	if in.Stage == contracts.StageTopping || in.Stage == contracts.StageDeclining {
		reasons = append(reasons, in.Stage.String())
	}
	if in.CriteriaPassed < 7 {
		reasons = append(reasons, fmt.Sprintf("only %d/9 trend criteria met", in.CriteriaPassed))
	}
	if rank >= 0 && rank < 70 {
		reasons = append(reasons, fmt.Sprintf("weak relative strength (%d)", rank))
	}
	if earningsFail {
		reasons = append(reasons, "fails earnings criteria")
	}
	if in.IsNewIssue && in.PrimaryBase != nil {
		switch in.PrimaryBase.Status {
		case contracts.BaseTooEarly:
			reasons = append(reasons, "new issue, insufficient history for a primary base")
		case contracts.BaseFailed:
			corr := "?"
			if in.PrimaryBase.CorrectionPct != nil {
				corr = fmt.Sprintf("%.0f%%", *in.PrimaryBase.CorrectionPct)
			}
			reasons = append(reasons, fmt.Sprintf("new issue, correction too deep (%s) for a primary base", corr))
		}
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "does not meet setup requirements")
	}
	return reasons
}

func describeFormingBase(pb *contracts.PrimaryBaseResult) string {
	weeks := "?"
	if pb.BaseWeeks != nil {
		weeks = fmt.Sprintf("%.0f", *pb.BaseWeeks)
	}
	corr := "?"
	if pb.CorrectionPct != nil {
		corr = fmt.Sprintf("%.0f%%", *pb.CorrectionPct)
	}
	return fmt.Sprintf("primary base forming (%swk, %s correction)", weeks, corr)
}
