package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/indicators"
	"github.com/wonny/sepa/backend/internal/signals"
)

// swingLowLookback is the trailing bar count scanned for the stop-loss
// swing low.
const swingLowLookback = 30

// EvaluateSymbol computes the full snapshot for one symbol. It returns a
// skip reason instead of a snapshot for symbols excluded before analysis:
// inactive tickers, market caps below the floor, and series too short for
// the long moving averages.
func (a *Analyzer) EvaluateSymbol(ctx context.Context, symbol string, date time.Time, rc *contracts.RunContext) (*contracts.SymbolMetrics, contracts.SkipReason, error) {
	ticker, err := a.tickers.GetTicker(ctx, symbol)
	if err != nil {
		return nil, "", fmt.Errorf("load ticker %s: %w", symbol, err)
	}
	if ticker != nil {
		if !ticker.Active {
			return nil, contracts.SkipInactive, nil
		}
		if ticker.MarketCap != nil && *ticker.MarketCap < a.cfg.Universe.MarketCapMinUSD {
			return nil, contracts.SkipTooSmall, nil
		}
	}

	from := date.AddDate(0, 0, -a.cfg.Universe.LookbackDays)
	bars, err := a.prices.GetHistory(ctx, symbol, from, date)
	if err != nil {
		return nil, "", fmt.Errorf("load history %s: %w", symbol, err)
	}
	if len(bars) == 0 || !sameDay(bars.Last().Date, date) {
		return nil, contracts.SkipNoData, nil
	}
	close := bars.Last().Close

	sma50 := indicators.SMA(bars, 50)
	sma150 := indicators.SMA(bars, 150)
	sma200 := indicators.SMA(bars, 200)
	pctFromHigh, pctAboveLow := indicators.DistanceFrom52Week(bars)
	if sma50 == nil || sma150 == nil || sma200 == nil || pctFromHigh == nil || pctAboveLow == nil {
		return nil, contracts.SkipNoData, nil
	}

	m := &contracts.SymbolMetrics{
		Symbol:      symbol,
		Date:        date,
		Close:       close,
		SMA50:       sma50,
		SMA150:      sma150,
		SMA200:      sma200,
		PctFromHigh: pctFromHigh,
		PctAboveLow: pctAboveLow,
	}
	if ticker != nil {
		m.Name = ticker.Name
		m.Sector = ticker.Sector
		m.MarketCap = ticker.MarketCap
		if ticker.MarketCap != nil {
			m.CapTier = contracts.CapTierOf(*ticker.MarketCap)
		}
		if days := ticker.DaysSinceListing(date); days >= 0 {
			m.DaysSinceListing = &days
			m.IsNewIssue = days < a.cfg.Patterns.PrimaryBase.NewIssueMaxDays
		}
	}

	m.High52Week, m.Low52Week = indicators.Week52HighLow(bars)
	m.MA200TrendPct = indicators.MATrendPct(bars, 200, a.cfg.TrendTemplate.MATrendWindowDays)
	m.EMA10 = indicators.EMA(bars, 10)
	m.EMA21 = indicators.EMA(bars, 21)
	m.ATR, m.ATRPct = indicators.ATR(bars, 14)
	m.IsNewHigh, m.DaysSinceNewHigh = indicators.NewHighInfo(bars)
	m.SwingLow = indicators.SwingLow(bars, swingLowLookback)
	m.AvgDollarVolume = indicators.AvgDollarVolume(bars, 50)
	m.VolumeRatio = indicators.VolumeRatio(bars, 50)
	m.Return1M, m.Return3M, m.Return6M, m.Return12M = indicators.Returns(bars)

	m.RSRank = rc.RSRank(symbol)
	if perf, ok := rc.Performances[symbol]; ok {
		m.WeightedPerformance = &perf
	}
	m.SectorRS = rc.SectorRSFor(symbol)

	m.Pattern = a.patterns.Analyze(bars)
	if m.IsNewIssue {
		pb := a.patterns.DetectPrimaryBase(bars, date)
		m.PrimaryBase = &pb
	}

	growth, upcoming, err := a.earnings.Evaluate(ctx, symbol, date)
	if err != nil {
		return nil, "", err
	}
	m.Growth = growth
	m.Upcoming = upcoming

	tpl := evaluateTemplate(a.cfg.TrendTemplate, templateInput{
		Close:         close,
		SMA50:         *sma50,
		SMA150:        *sma150,
		SMA200:        *sma200,
		MA200TrendPct: m.MA200TrendPct,
		PctFromHigh:   *pctFromHigh,
		PctAboveLow:   *pctAboveLow,
		RSRank:        m.RSRank,
	})
	m.Criteria = tpl.Criteria
	m.CriteriaPassed = tpl.Passed
	passes := tpl.Passes
	failed := tpl.Failed

	// Micro caps sit below the institutional radar: they need elite RS to
	// compensate for the liquidity risk.
	if m.CapTier == contracts.CapMicro {
		if m.RSRank == nil || *m.RSRank < a.cfg.Universe.MicroCapRSMin {
			passes = false
			failed = append(failed, "micro_cap_rs_too_low")
		}
	}

	// Strong technicals cannot carry weak fundamentals, but missing
	// fundamentals are not held against the symbol.
	if growth.HasData && passes && growth.Passes != nil && !*growth.Passes {
		passes = false
		failed = append(failed, "weak_earnings")
	}

	if m.IsNewIssue && (m.PrimaryBase == nil || !m.PrimaryBase.HasBase) && passes {
		passes = false
		failed = append(failed, "no_primary_base")
	}
	m.PassesTrendTemplate = passes

	m.Stage = signals.DetermineStage(signals.StageInput{
		Close:         close,
		SMA50:         *sma50,
		SMA150:        *sma150,
		SMA200:        *sma200,
		MA200TrendPct: m.MA200TrendPct,
		PctFromHigh:   *pctFromHigh,
		RSRank:        m.RSRank,
	})
	m.StageName = m.Stage.String()

	m.SignalResult = a.generator.Generate(a.signalInput(m, failed))
	return m, "", nil
}

// signalInput maps the snapshot into the signal generator's view of it.
func (a *Analyzer) signalInput(m *contracts.SymbolMetrics, failed []string) signals.Input {
	in := signals.Input{
		Close:          m.Close,
		Pivot:          m.Pattern.Pivot,
		Stage:          m.Stage,
		RSRank:         m.RSRank,
		PatternFound:   m.Pattern.Type != contracts.PatternNone,
		PatternScore:   m.Pattern.Score,
		VolumeRatio:    m.VolumeRatio,
		PassesTemplate: m.PassesTrendTemplate,
		CriteriaPassed: m.CriteriaPassed,
		FailedCriteria: failed,
		SectorRS:       m.SectorRS,
		EMA10:          m.EMA10,
		EMA21:          m.EMA21,
		ATR:            m.ATR,
		SMA200:         m.SMA200,
		SwingLow:       m.SwingLow,
		IsNewIssue:     m.IsNewIssue,
		PrimaryBase:    m.PrimaryBase,
	}
	if cs := m.Pattern.VCP.Contractions; len(cs) > 0 {
		low := cs[len(cs)-1].Low
		in.LastContractionLow = &low
	}
	if m.Growth != nil {
		in.PassesEarnings = m.Growth.Passes
		in.EarningsAccelerating = m.Growth.EPSAccelerating
	}
	if m.Upcoming != nil {
		days := m.Upcoming.DaysUntil
		in.DaysUntilEarnings = &days
	}
	return in
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
