package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// SectorRepository persists per-sector run summaries in
// analytics.sector_performance.
type SectorRepository struct {
	pool *pgxpool.Pool
}

// NewSectorRepository creates a new sector repository.
func NewSectorRepository(pool *pgxpool.Pool) *SectorRepository {
	return &SectorRepository{pool: pool}
}

// SaveSectorPerformance upserts the sector rows for one run date.
func (r *SectorRepository) SaveSectorPerformance(ctx context.Context, date time.Time, rows []contracts.SectorPerformance) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO analytics.sector_performance
			(sector, perf_date, avg_return_3m, rs, symbol_count, buy_count,
			 passing_count, stage2_count, vcp_count, market_cap_sum, avg_rs_rank, leader_symbol)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (sector, perf_date) DO UPDATE SET
			avg_return_3m = EXCLUDED.avg_return_3m,
			rs = EXCLUDED.rs,
			symbol_count = EXCLUDED.symbol_count,
			buy_count = EXCLUDED.buy_count,
			passing_count = EXCLUDED.passing_count,
			stage2_count = EXCLUDED.stage2_count,
			vcp_count = EXCLUDED.vcp_count,
			market_cap_sum = EXCLUDED.market_cap_sum,
			avg_rs_rank = EXCLUDED.avg_rs_rank,
			leader_symbol = EXCLUDED.leader_symbol
	`

	for _, row := range rows {
		batch.Queue(query, row.Sector, date, row.AvgReturn3M, row.RS,
			row.SymbolCount, row.BuyCount, row.PassingCount, row.Stage2Count,
			row.VCPCount, row.MarketCapSum, row.AvgRSRank, row.LeaderSymbol)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetSectorPerformance returns the sector rows for a date, strongest first.
func (r *SectorRepository) GetSectorPerformance(ctx context.Context, date time.Time) ([]contracts.SectorPerformance, error) {
	query := `
		SELECT sector, perf_date, avg_return_3m, rs, symbol_count, buy_count,
		       passing_count, stage2_count, vcp_count, market_cap_sum, avg_rs_rank, leader_symbol
		FROM analytics.sector_performance
		WHERE perf_date = $1
		ORDER BY rs DESC, sector
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.SectorPerformance
	for rows.Next() {
		var p contracts.SectorPerformance
		if err := rows.Scan(
			&p.Sector, &p.Date, &p.AvgReturn3M, &p.RS,
			&p.SymbolCount, &p.BuyCount, &p.PassingCount, &p.Stage2Count,
			&p.VCPCount, &p.MarketCapSum, &p.AvgRSRank, &p.LeaderSymbol,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
