// Package store holds the PostgreSQL repositories. Each repository owns one
// slice of the schema; nothing outside this package writes SQL.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// PriceRepository implements contracts.PriceReader over data.daily_bars.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// ListSymbols returns every symbol with a bar on the given date.
func (r *PriceRepository) ListSymbols(ctx context.Context, date time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT symbol
		FROM data.daily_bars
		WHERE bar_date = $1
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// GetHistory returns all bars for one symbol in [from, to], ascending.
func (r *PriceRepository) GetHistory(ctx context.Context, symbol string, from, to time.Time) (contracts.Bars, error) {
	query := `
		SELECT bar_date, open, high, low, close, volume
		FROM data.daily_bars
		WHERE symbol = $1 AND bar_date BETWEEN $2 AND $3
		ORDER BY bar_date ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars contracts.Bars
	for rows.Next() {
		var b contracts.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// GetUniverseCloses bulk-loads the close series for every symbol in
// [from, to]. One query instead of one per symbol: the ranking pass touches
// the whole universe and per-symbol round trips dominate otherwise.
func (r *PriceRepository) GetUniverseCloses(ctx context.Context, from, to time.Time) (map[string][]contracts.ClosePoint, error) {
	query := `
		SELECT symbol, bar_date, close
		FROM data.daily_bars
		WHERE bar_date BETWEEN $1 AND $2
		ORDER BY symbol, bar_date ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	universe := make(map[string][]contracts.ClosePoint)
	for rows.Next() {
		var symbol string
		var p contracts.ClosePoint
		if err := rows.Scan(&symbol, &p.Date, &p.Close); err != nil {
			return nil, err
		}
		universe[symbol] = append(universe[symbol], p)
	}
	return universe, rows.Err()
}

// GetLatestBarDate returns the most recent bar date for a symbol, or
// (nil, nil) when the symbol has no bars.
func (r *PriceRepository) GetLatestBarDate(ctx context.Context, symbol string) (*time.Time, error) {
	query := `
		SELECT MAX(bar_date)
		FROM data.daily_bars
		WHERE symbol = $1
	`

	var latest *time.Time
	if err := r.pool.QueryRow(ctx, query, symbol).Scan(&latest); err != nil {
		return nil, err
	}
	return latest, nil
}

// SaveBars upserts a symbol's bars keyed by (symbol, bar_date).
func (r *PriceRepository) SaveBars(ctx context.Context, symbol string, bars contracts.Bars) error {
	if len(bars) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO data.daily_bars (symbol, bar_date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, bar_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	for _, b := range bars {
		batch.Queue(query, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range bars {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
