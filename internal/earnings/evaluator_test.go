package earnings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/strategyconfig"
	"github.com/wonny/sepa/backend/pkg/config"
	"github.com/wonny/sepa/backend/pkg/logger"
)

var asOf = time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

type fakeRepo struct {
	statements []contracts.IncomeStatement
	surprises  []contracts.EarningsSurprise
	upcoming   *contracts.UpcomingEarnings
}

func (f *fakeRepo) GetIncomeStatements(_ context.Context, _ string, limit int) ([]contracts.IncomeStatement, error) {
	if len(f.statements) > limit {
		return f.statements[:limit], nil
	}
	return f.statements, nil
}

func (f *fakeRepo) GetSurprises(_ context.Context, _ string, limit int) ([]contracts.EarningsSurprise, error) {
	if len(f.surprises) > limit {
		return f.surprises[:limit], nil
	}
	return f.surprises, nil
}

func (f *fakeRepo) GetUpcoming(_ context.Context, _ string, _ time.Time) (*contracts.UpcomingEarnings, error) {
	return f.upcoming, nil
}

func newTestEvaluator(repo *fakeRepo) *Evaluator {
	log := logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
	return NewEvaluator(repo, strategyconfig.Default().Earnings, log)
}

func f64(v float64) *float64 { return &v }

func stmt(fy, fq int, eps, revenue float64) contracts.IncomeStatement {
	return contracts.IncomeStatement{
		Symbol:        "TEST",
		PeriodEnd:     time.Date(fy, time.Month(fq*3), 28, 0, 0, 0, 0, time.UTC),
		FiscalYear:    fy,
		FiscalQuarter: fq,
		EPS:           f64(eps),
		Revenue:       f64(revenue),
	}
}

func surprise(daysAgo int, pct float64) contracts.EarningsSurprise {
	return contracts.EarningsSurprise{
		Symbol:         "TEST",
		ReportDate:     asOf.AddDate(0, 0, -daysAgo),
		ActualEPS:      f64(1),
		EstimatedEPS:   f64(1),
		EPSSurprisePct: f64(pct),
	}
}

// strongStatements has accelerating YoY growth quarter after quarter.
func strongStatements() []contracts.IncomeStatement {
	return []contracts.IncomeStatement{
		stmt(2025, 2, 2.0, 120), // vs 1.5: +33% YoY
		stmt(2025, 1, 1.6, 110), // vs 1.3: +23% YoY
		stmt(2024, 4, 1.5, 105), // vs 1.3: +15% YoY
		stmt(2024, 3, 1.4, 102), // vs 1.3: +8% YoY
		stmt(2024, 2, 1.5, 100),
		stmt(2024, 1, 1.3, 95),
		stmt(2023, 4, 1.3, 92),
		stmt(2023, 3, 1.3, 90),
	}
}

func TestEvaluateStrongGrower(t *testing.T) {
	repo := &fakeRepo{
		statements: strongStatements(),
		surprises: []contracts.EarningsSurprise{
			surprise(30, 5), surprise(120, 4), surprise(210, 8), surprise(300, 2),
		},
	}
	e := newTestEvaluator(repo)

	res, upcoming, err := e.Evaluate(context.Background(), "TEST", asOf)
	require.NoError(t, err)
	assert.Nil(t, upcoming)

	assert.True(t, res.HasData)
	require.NotNil(t, res.Passes)
	assert.True(t, *res.Passes)

	require.NotNil(t, res.EPSGrowthYoY)
	assert.InDelta(t, 33.3, *res.EPSGrowthYoY, 0.1)
	require.NotNil(t, res.EPSGrowthQoQ)
	assert.InDelta(t, 25.0, *res.EPSGrowthQoQ, 0.1)
	require.NotNil(t, res.RevenueGrowthYoY)
	assert.InDelta(t, 20.0, *res.RevenueGrowthYoY, 0.1)

	assert.True(t, res.EPSAccelerating)
	assert.Equal(t, 4, res.Beats)
	assert.Zero(t, res.Misses)
	assert.Equal(t, 100, res.Score)
}

func TestEvaluateShrinkingEPSFails(t *testing.T) {
	repo := &fakeRepo{
		statements: []contracts.IncomeStatement{
			stmt(2025, 2, 1.0, 95), // vs 1.5: -33% YoY, revenue shrinking
			stmt(2025, 1, 1.1, 100),
			stmt(2024, 2, 1.5, 100),
		},
		surprises: []contracts.EarningsSurprise{
			surprise(30, -3), surprise(120, -1), surprise(210, 2), surprise(300, -4),
		},
	}
	e := newTestEvaluator(repo)

	res, _, err := e.Evaluate(context.Background(), "TEST", asOf)
	require.NoError(t, err)

	require.NotNil(t, res.Passes)
	assert.False(t, *res.Passes)
	assert.Equal(t, 1, res.Beats)
	assert.Equal(t, 3, res.Misses)
	assert.NotEmpty(t, res.Issues)
	assert.Less(t, res.Score, 40)
}

func TestEvaluateNoData(t *testing.T) {
	e := newTestEvaluator(&fakeRepo{})

	res, upcoming, err := e.Evaluate(context.Background(), "TEST", asOf)
	require.NoError(t, err)
	assert.Nil(t, upcoming)

	assert.False(t, res.HasData)
	assert.Nil(t, res.Passes, "no data is not a failure")
	assert.Zero(t, res.Score)
}

func TestEvaluateNoYearAgoQuarterGetsPartialCredit(t *testing.T) {
	// A young company with only three reported quarters: YoY is not
	// computable, the evaluator gives modest credit instead of failing.
	repo := &fakeRepo{
		statements: []contracts.IncomeStatement{
			stmt(2025, 2, 1.5, 100),
			stmt(2025, 1, 1.0, 90),
			stmt(2024, 4, 0.8, 80),
		},
	}
	e := newTestEvaluator(repo)

	res, _, err := e.Evaluate(context.Background(), "TEST", asOf)
	require.NoError(t, err)

	assert.True(t, res.HasData)
	assert.Nil(t, res.EPSGrowthYoY)
	require.NotNil(t, res.Passes)
	assert.True(t, *res.Passes)
	// 10 for recency credit, 20 for the 50% QoQ jump.
	assert.Equal(t, 30, res.Score)
}

func TestEvaluateUpcomingEarnings(t *testing.T) {
	repo := &fakeRepo{
		statements: strongStatements(),
		upcoming: &contracts.UpcomingEarnings{
			Symbol:     "TEST",
			ReportDate: asOf.AddDate(0, 0, 10),
		},
	}
	e := newTestEvaluator(repo)

	res, upcoming, err := e.Evaluate(context.Background(), "TEST", asOf)
	require.NoError(t, err)

	require.NotNil(t, upcoming)
	assert.Equal(t, 10, upcoming.DaysUntil)
	assert.NotEmpty(t, res.Issues)
}
