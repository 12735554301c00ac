package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// MetricsRepository persists analysis snapshots in analytics.symbol_metrics.
// The row carries the fields the API filters and sorts on as plain columns;
// the full snapshot travels as JSONB so the schema does not chase every
// indicator we add.
type MetricsRepository struct {
	pool *pgxpool.Pool
}

// NewMetricsRepository creates a new metrics repository.
func NewMetricsRepository(pool *pgxpool.Pool) *MetricsRepository {
	return &MetricsRepository{pool: pool}
}

// SaveMetricsBatch upserts a batch of snapshots keyed by (symbol, metric_date).
func (r *MetricsRepository) SaveMetricsBatch(ctx context.Context, snapshots []*contracts.SymbolMetrics) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO analytics.symbol_metrics
			(symbol, metric_date, close, sector, signal, stage, rs_rank,
			 pattern_type, pattern_score, passes_template, criteria_passed, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (symbol, metric_date) DO UPDATE SET
			close = EXCLUDED.close,
			sector = EXCLUDED.sector,
			signal = EXCLUDED.signal,
			stage = EXCLUDED.stage,
			rs_rank = EXCLUDED.rs_rank,
			pattern_type = EXCLUDED.pattern_type,
			pattern_score = EXCLUDED.pattern_score,
			passes_template = EXCLUDED.passes_template,
			criteria_passed = EXCLUDED.criteria_passed,
			snapshot = EXCLUDED.snapshot
	`

	for _, m := range snapshots {
		snapshot, err := json.Marshal(m)
		if err != nil {
			return err
		}
		batch.Queue(query,
			m.Symbol, m.Date, m.Close, m.Sector,
			string(m.SignalResult.Signal), int(m.Stage), m.RSRank,
			string(m.Pattern.Type), m.Pattern.Score,
			m.PassesTrendTemplate, m.CriteriaPassed, snapshot,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetMetrics returns one snapshot, or (nil, nil) when absent.
func (r *MetricsRepository) GetMetrics(ctx context.Context, symbol string, date time.Time) (*contracts.SymbolMetrics, error) {
	query := `
		SELECT snapshot
		FROM analytics.symbol_metrics
		WHERE symbol = $1 AND metric_date = $2
	`

	var raw []byte
	err := r.pool.QueryRow(ctx, query, symbol, date).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var m contracts.SymbolMetrics
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetTopStocks returns the strongest snapshots for a date: BUY before WAIT
// before PASS, then by RS rank and pattern score.
func (r *MetricsRepository) GetTopStocks(ctx context.Context, date time.Time, limit int) ([]*contracts.SymbolMetrics, error) {
	query := `
		SELECT snapshot
		FROM analytics.symbol_metrics
		WHERE metric_date = $1
		ORDER BY
			CASE signal WHEN 'BUY' THEN 0 WHEN 'WAIT' THEN 1 ELSE 2 END,
			rs_rank DESC NULLS LAST,
			pattern_score DESC,
			symbol
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*contracts.SymbolMetrics
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var m contracts.SymbolMetrics
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// GetLatestDate returns the most recent date with persisted snapshots, or
// (nil, nil) when the table is empty.
func (r *MetricsRepository) GetLatestDate(ctx context.Context) (*time.Time, error) {
	query := `
		SELECT MAX(metric_date)
		FROM analytics.symbol_metrics
	`

	var latest *time.Time
	if err := r.pool.QueryRow(ctx, query).Scan(&latest); err != nil {
		return nil, err
	}
	return latest, nil
}

// GetSignals returns the snapshots carrying a given signal on a date,
// ordered by RS rank.
func (r *MetricsRepository) GetSignals(ctx context.Context, date time.Time, signal contracts.Signal) ([]*contracts.SymbolMetrics, error) {
	query := `
		SELECT snapshot
		FROM analytics.symbol_metrics
		WHERE metric_date = $1 AND signal = $2
		ORDER BY rs_rank DESC NULLS LAST, symbol
	`

	rows, err := r.pool.Query(ctx, query, date, string(signal))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*contracts.SymbolMetrics
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var m contracts.SymbolMetrics
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
