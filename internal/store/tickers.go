package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// TickerRepository implements contracts.TickerReader over data.tickers.
type TickerRepository struct {
	pool *pgxpool.Pool
}

// NewTickerRepository creates a new ticker repository.
func NewTickerRepository(pool *pgxpool.Pool) *TickerRepository {
	return &TickerRepository{pool: pool}
}

const tickerColumns = `symbol, name, active, market_cap, list_date, sic_code, sector, primary_exchange, ticker_type`

// GetTicker returns details for one symbol, or (nil, nil) when unknown.
func (r *TickerRepository) GetTicker(ctx context.Context, symbol string) (*contracts.TickerDetails, error) {
	query := `
		SELECT ` + tickerColumns + `
		FROM data.tickers
		WHERE symbol = $1
	`

	var t contracts.TickerDetails
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&t.Symbol, &t.Name, &t.Active, &t.MarketCap, &t.ListDate,
		&t.SICCode, &t.Sector, &t.PrimaryExch, &t.Type,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTickers returns details for all known symbols.
func (r *TickerRepository) ListTickers(ctx context.Context) ([]contracts.TickerDetails, error) {
	query := `
		SELECT ` + tickerColumns + `
		FROM data.tickers
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []contracts.TickerDetails
	for rows.Next() {
		var t contracts.TickerDetails
		if err := rows.Scan(
			&t.Symbol, &t.Name, &t.Active, &t.MarketCap, &t.ListDate,
			&t.SICCode, &t.Sector, &t.PrimaryExch, &t.Type,
		); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// SaveTickers upserts reference data keyed by symbol.
func (r *TickerRepository) SaveTickers(ctx context.Context, tickers []contracts.TickerDetails) error {
	if len(tickers) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO data.tickers
			(symbol, name, active, market_cap, list_date, sic_code, sector, primary_exchange, ticker_type, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			active = EXCLUDED.active,
			market_cap = EXCLUDED.market_cap,
			list_date = EXCLUDED.list_date,
			sic_code = EXCLUDED.sic_code,
			sector = EXCLUDED.sector,
			primary_exchange = EXCLUDED.primary_exchange,
			ticker_type = EXCLUDED.ticker_type,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()
	for _, t := range tickers {
		batch.Queue(query, t.Symbol, t.Name, t.Active, t.MarketCap, t.ListDate,
			t.SICCode, t.Sector, t.PrimaryExch, t.Type, now)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range tickers {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
