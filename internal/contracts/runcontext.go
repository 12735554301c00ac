package contracts

import "time"

// RunContext carries the universe-wide values computed once at the start of
// a run: the benchmark performance, the relative strength percentile table,
// and per-sector relative strength. It is built before the per-symbol
// workers start and treated as read-only afterwards, so workers share it
// without locking.
type RunContext struct {
	Date time.Time

	// MarketPerformance is the weighted benchmark basket return over the
	// ranking window.
	MarketPerformance float64

	// Performances maps symbol to its quarter-weighted return.
	Performances map[string]float64

	// RSPercentiles maps symbol to its 1..99 relative strength rank.
	RSPercentiles map[string]int

	// SectorRS maps sector name to its relative strength score (0..100).
	SectorRS map[string]float64

	// SectorOf maps symbol to sector name for symbols with known sectors.
	SectorOf map[string]string
}

// RSRank returns the percentile rank for a symbol, or nil when the symbol
// was not rankable (insufficient history).
func (rc *RunContext) RSRank(symbol string) *int {
	if rc == nil {
		return nil
	}
	if rank, ok := rc.RSPercentiles[symbol]; ok {
		r := rank
		return &r
	}
	return nil
}

// SectorRSFor returns the sector relative strength for a symbol, or nil
// when the symbol's sector is unknown or unranked.
func (rc *RunContext) SectorRSFor(symbol string) *float64 {
	if rc == nil {
		return nil
	}
	sector, ok := rc.SectorOf[symbol]
	if !ok {
		return nil
	}
	if rs, ok := rc.SectorRS[sector]; ok {
		v := rs
		return &v
	}
	return nil
}
