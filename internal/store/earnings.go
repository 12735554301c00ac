package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// EarningsRepository implements contracts.EarningsReader over the
// data.income_statements, data.earnings_surprises and data.earnings_calendar
// tables.
type EarningsRepository struct {
	pool *pgxpool.Pool
}

// NewEarningsRepository creates a new earnings repository.
func NewEarningsRepository(pool *pgxpool.Pool) *EarningsRepository {
	return &EarningsRepository{pool: pool}
}

// GetIncomeStatements returns up to limit quarterly statements, most recent
// first.
func (r *EarningsRepository) GetIncomeStatements(ctx context.Context, symbol string, limit int) ([]contracts.IncomeStatement, error) {
	query := `
		SELECT symbol, period_end, fiscal_year, fiscal_quarter, eps, revenue, net_income
		FROM data.income_statements
		WHERE symbol = $1
		ORDER BY period_end DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statements []contracts.IncomeStatement
	for rows.Next() {
		var s contracts.IncomeStatement
		if err := rows.Scan(
			&s.Symbol, &s.PeriodEnd, &s.FiscalYear, &s.FiscalQuarter,
			&s.EPS, &s.Revenue, &s.NetIncome,
		); err != nil {
			return nil, err
		}
		statements = append(statements, s)
	}
	return statements, rows.Err()
}

// GetSurprises returns up to limit earnings surprises, most recent first.
func (r *EarningsRepository) GetSurprises(ctx context.Context, symbol string, limit int) ([]contracts.EarningsSurprise, error) {
	query := `
		SELECT symbol, report_date, actual_eps, estimated_eps, eps_surprise_pct, rev_surprise_pct
		FROM data.earnings_surprises
		WHERE symbol = $1
		ORDER BY report_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var surprises []contracts.EarningsSurprise
	for rows.Next() {
		var s contracts.EarningsSurprise
		if err := rows.Scan(
			&s.Symbol, &s.ReportDate, &s.ActualEPS, &s.EstimatedEPS,
			&s.EPSSurprisePct, &s.RevSurprisePct,
		); err != nil {
			return nil, err
		}
		surprises = append(surprises, s)
	}
	return surprises, rows.Err()
}

// GetUpcoming returns the next scheduled report on or after the given date,
// or (nil, nil) when none is known. DaysUntil is filled by the caller.
func (r *EarningsRepository) GetUpcoming(ctx context.Context, symbol string, after time.Time) (*contracts.UpcomingEarnings, error) {
	query := `
		SELECT symbol, report_date
		FROM data.earnings_calendar
		WHERE symbol = $1 AND report_date >= $2
		ORDER BY report_date ASC
		LIMIT 1
	`

	var u contracts.UpcomingEarnings
	err := r.pool.QueryRow(ctx, query, symbol, after).Scan(&u.Symbol, &u.ReportDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveIncomeStatements upserts statements keyed by (symbol, period_end).
func (r *EarningsRepository) SaveIncomeStatements(ctx context.Context, statements []contracts.IncomeStatement) error {
	if len(statements) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO data.income_statements
			(symbol, period_end, fiscal_year, fiscal_quarter, eps, revenue, net_income)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, period_end) DO UPDATE SET
			fiscal_year = EXCLUDED.fiscal_year,
			fiscal_quarter = EXCLUDED.fiscal_quarter,
			eps = EXCLUDED.eps,
			revenue = EXCLUDED.revenue,
			net_income = EXCLUDED.net_income
	`

	for _, s := range statements {
		batch.Queue(query, s.Symbol, s.PeriodEnd, s.FiscalYear, s.FiscalQuarter,
			s.EPS, s.Revenue, s.NetIncome)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range statements {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// SaveSurprises upserts surprise records keyed by (symbol, report_date).
func (r *EarningsRepository) SaveSurprises(ctx context.Context, surprises []contracts.EarningsSurprise) error {
	if len(surprises) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO data.earnings_surprises
			(symbol, report_date, actual_eps, estimated_eps, eps_surprise_pct, rev_surprise_pct)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol, report_date) DO UPDATE SET
			actual_eps = EXCLUDED.actual_eps,
			estimated_eps = EXCLUDED.estimated_eps,
			eps_surprise_pct = EXCLUDED.eps_surprise_pct,
			rev_surprise_pct = EXCLUDED.rev_surprise_pct
	`

	for _, s := range surprises {
		batch.Queue(query, s.Symbol, s.ReportDate, s.ActualEPS, s.EstimatedEPS,
			s.EPSSurprisePct, s.RevSurprisePct)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range surprises {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// SaveCalendar upserts scheduled report dates keyed by (symbol, report_date).
func (r *EarningsRepository) SaveCalendar(ctx context.Context, entries []contracts.UpcomingEarnings) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO data.earnings_calendar (symbol, report_date)
		VALUES ($1, $2)
		ON CONFLICT (symbol, report_date) DO NOTHING
	`

	for _, e := range entries {
		batch.Queue(query, e.Symbol, e.ReportDate)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range entries {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
