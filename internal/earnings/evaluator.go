// Package earnings evaluates fundamental quality: EPS and revenue growth,
// acceleration across quarters, estimate beat history, and upcoming report
// dates. The SEPA bar is 25%+ quarterly EPS growth year over year.
package earnings

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/strategyconfig"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Evaluator scores earnings quality from stored fundamentals.
type Evaluator struct {
	repo contracts.EarningsReader
	cfg  strategyconfig.Earnings
	log  *logger.Logger
}

// NewEvaluator creates an earnings evaluator.
func NewEvaluator(repo contracts.EarningsReader, cfg strategyconfig.Earnings, log *logger.Logger) *Evaluator {
	return &Evaluator{repo: repo, cfg: cfg, log: log}
}

// Evaluate computes the growth result and the next scheduled report for a
// symbol as of the analysis date. A symbol with no income statements gets
// HasData=false and a nil Passes: absence of data is not a failure.
func (e *Evaluator) Evaluate(ctx context.Context, symbol string, asOf time.Time) (*contracts.GrowthResult, *contracts.UpcomingEarnings, error) {
	statements, err := e.repo.GetIncomeStatements(ctx, symbol, e.cfg.StatementsNeeded)
	if err != nil {
		return nil, nil, fmt.Errorf("load income statements for %s: %w", symbol, err)
	}
	surprises, err := e.repo.GetSurprises(ctx, symbol, e.cfg.SurprisesNeeded)
	if err != nil {
		return nil, nil, fmt.Errorf("load earnings surprises for %s: %w", symbol, err)
	}

	upcoming, err := e.repo.GetUpcoming(ctx, symbol, asOf)
	if err != nil {
		return nil, nil, fmt.Errorf("load upcoming earnings for %s: %w", symbol, err)
	}
	if upcoming != nil {
		upcoming.DaysUntil = int(upcoming.ReportDate.Sub(asOf).Hours() / 24)
	}

	res := e.score(statements, surprises, upcoming)
	return res, upcoming, nil
}

// score grades growth, acceleration, beat history, and revenue on a 0..100
// scale, with hard disqualifiers for shrinking EPS and chronic misses.
func (e *Evaluator) score(statements []contracts.IncomeStatement, surprises []contracts.EarningsSurprise, upcoming *contracts.UpcomingEarnings) *contracts.GrowthResult {
	res := &contracts.GrowthResult{}

	if len(statements) < 2 || statements[0].EPS == nil {
		res.Issues = append(res.Issues, "no earnings data available")
		return res
	}
	res.HasData = true
	res.LatestEPS = statements[0].EPS

	computeGrowth(res, statements)

	beats, misses, avgSurprise := tallySurprises(surprises)
	res.Beats = beats
	res.Misses = misses
	res.AvgEPSSurprisePct = avgSurprise

	passes := true
	score := 0

	if res.EPSGrowthYoY != nil {
		switch yoy := *res.EPSGrowthYoY; {
		case yoy >= e.cfg.StrongEPSYoYPct:
			score += 30
		case yoy >= e.cfg.GoodEPSYoYPct:
			score += 20
		case yoy >= e.cfg.ModestEPSYoYPct:
			score += 10
		default:
			passes = false
			res.Issues = append(res.Issues,
				fmt.Sprintf("low YoY EPS growth (%.1f%% < %.0f%%)", yoy, e.cfg.StrongEPSYoYPct))
		}
	} else {
		// Recent data exists but no year-ago quarter to compare against.
		score += 10
	}

	if res.EPSGrowthQoQ != nil {
		switch qoq := *res.EPSGrowthQoQ; {
		case qoq >= 20:
			score += 20
		case qoq >= 10:
			score += 15
		case qoq < 0:
			passes = false
			res.Issues = append(res.Issues,
				fmt.Sprintf("negative QoQ EPS growth (%.1f%%)", qoq))
		}
	}

	if res.EPSAccelerating {
		score += 20
	}

	if evaluated := beats + misses; evaluated > 0 {
		switch {
		case misses == 0:
			score += 20
		case float64(beats) >= float64(evaluated)*0.75:
			score += 15
		case beats < misses:
			passes = false
			res.Issues = append(res.Issues,
				fmt.Sprintf("more misses than beats (%d misses)", misses))
		}
	}

	if res.RevenueGrowthYoY != nil {
		if *res.RevenueGrowthYoY >= 15 {
			score += 10
		} else if *res.RevenueGrowthYoY < 0 {
			res.Issues = append(res.Issues,
				fmt.Sprintf("negative revenue growth (%.1f%%)", *res.RevenueGrowthYoY))
		}
	}

	if upcoming != nil {
		res.Issues = append(res.Issues,
			fmt.Sprintf("earnings in %d days", upcoming.DaysUntil))
	}

	if score > 100 {
		score = 100
	}
	res.Score = score
	res.Passes = &passes
	return res
}

// computeGrowth fills QoQ, YoY, and acceleration from quarterly statements
// ordered most recent first. YoY matches on explicit fiscal (year, quarter)
// keys so reporting gaps and fiscal-year changes cannot misalign quarters.
func computeGrowth(res *contracts.GrowthResult, statements []contracts.IncomeStatement) {
	latest := statements[0]

	if prev := statements[1]; latest.EPS != nil && prev.EPS != nil && *prev.EPS > 0 {
		v := (*latest.EPS - *prev.EPS) / *prev.EPS * 100
		res.EPSGrowthQoQ = &v
	}

	type fq struct{ year, quarter int }
	lookup := make(map[fq]*contracts.IncomeStatement, len(statements))
	for i := range statements {
		s := &statements[i]
		if s.FiscalYear != 0 && s.FiscalQuarter != 0 {
			lookup[fq{s.FiscalYear, s.FiscalQuarter}] = s
		}
	}
	yearAgo := func(s *contracts.IncomeStatement) *contracts.IncomeStatement {
		if s.FiscalYear == 0 || s.FiscalQuarter == 0 {
			return nil
		}
		return lookup[fq{s.FiscalYear - 1, s.FiscalQuarter}]
	}

	if prior := yearAgo(&latest); prior != nil {
		if latest.EPS != nil && prior.EPS != nil && *prior.EPS > 0 {
			v := (*latest.EPS - *prior.EPS) / *prior.EPS * 100
			res.EPSGrowthYoY = &v
		}
		if latest.Revenue != nil && prior.Revenue != nil && *prior.Revenue > 0 {
			v := (*latest.Revenue - *prior.Revenue) / *prior.Revenue * 100
			res.RevenueGrowthYoY = &v
		}
	}

	// Acceleration: the YoY growth rate itself improves quarter after
	// quarter across the most recent four quarters.
	var rates []float64
	limit := 4
	if len(statements) < limit {
		limit = len(statements)
	}
	for i := 0; i < limit; i++ {
		s := &statements[i]
		prior := yearAgo(s)
		if prior == nil || s.EPS == nil || prior.EPS == nil || *prior.EPS <= 0 {
			continue
		}
		rates = append(rates, (*s.EPS-*prior.EPS) / *prior.EPS * 100)
	}
	if len(rates) >= 3 {
		accelerating := true
		for i := 0; i < len(rates)-1; i++ {
			if rates[i] < rates[i+1] {
				accelerating = false
				break
			}
		}
		res.EPSAccelerating = accelerating
	}
}

func tallySurprises(surprises []contracts.EarningsSurprise) (beats, misses int, avg *float64) {
	sum := 0.0
	count := 0
	for i := range surprises {
		pct := surprises[i].EPSSurprisePct
		if pct == nil {
			continue
		}
		sum += *pct
		count++
		if *pct > 0 {
			beats++
		} else {
			misses++
		}
	}
	if count > 0 {
		v := sum / float64(count)
		avg = &v
	}
	return beats, misses, avg
}
