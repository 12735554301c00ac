package sector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/config"
	"github.com/wonny/sepa/backend/pkg/logger"
)

var asOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(logger.New(&config.Config{LogLevel: "error", LogFormat: "console"}))
}

func series(days int, start, end float64) []contracts.ClosePoint {
	points := make([]contracts.ClosePoint, days)
	for i := 0; i < days; i++ {
		frac := float64(i) / float64(days-1)
		points[i] = contracts.ClosePoint{
			Date:  asOf.AddDate(0, 0, -(days - 1 - i)),
			Close: start + (end-start)*frac,
		}
	}
	return points
}

func TestComputeSectorRS(t *testing.T) {
	a := newTestAnalyzer()

	universe := map[string][]contracts.ClosePoint{
		"HOT1":  series(100, 100, 120),
		"HOT2":  series(100, 100, 130),
		"COLD1": series(100, 100, 90),
		"COLD2": series(100, 100, 85),
	}
	sectorOf := map[string]string{
		"HOT1":  "Technology",
		"HOT2":  "Technology",
		"COLD1": "Utilities",
		"COLD2": "Utilities",
	}

	stats := a.Compute(universe, sectorOf, 0, asOf)
	require.Len(t, stats, 2)

	tech := stats["Technology"]
	util := stats["Utilities"]

	assert.Equal(t, 2, tech.SymbolCount)
	assert.Greater(t, tech.AvgReturn3M, 0.0)
	assert.Less(t, util.AvgReturn3M, 0.0)

	assert.Greater(t, tech.RS, 50.0)
	assert.Less(t, util.RS, 50.0)
	assert.InDelta(t, 50+tech.AvgReturn3M*2, tech.RS, 1e-9)
}

func TestComputeSectorRSCaps(t *testing.T) {
	a := newTestAnalyzer()

	universe := map[string][]contracts.ClosePoint{
		"MOON": series(100, 100, 300),
		"DUST": series(100, 100, 10),
	}
	sectorOf := map[string]string{
		"MOON": "Rockets",
		"DUST": "Anchors",
	}

	stats := a.Compute(universe, sectorOf, 0, asOf)
	assert.InDelta(t, 100, stats["Rockets"].RS, 1e-9)
	assert.InDelta(t, 0, stats["Anchors"].RS, 1e-9)
}

func TestComputeSkipsUnknownSectors(t *testing.T) {
	a := newTestAnalyzer()

	universe := map[string][]contracts.ClosePoint{
		"A": series(100, 100, 110),
		"B": series(100, 100, 110),
	}
	sectorOf := map[string]string{
		"A": "",
		"B": "Energy",
	}

	stats := a.Compute(universe, sectorOf, 0, asOf)
	require.Len(t, stats, 1)
	assert.Contains(t, stats, "Energy")
}

func TestAggregate(t *testing.T) {
	a := newTestAnalyzer()

	rank := func(v int) *int { return &v }
	cap := func(v float64) *float64 { return &v }
	snapshots := []*contracts.SymbolMetrics{
		{Symbol: "AAA", Sector: "Technology", RSRank: rank(95), MarketCap: cap(5e9),
			PassesTrendTemplate: true,
			Stage:               contracts.StageAdvancing,
			Pattern:             contracts.PatternResult{VCP: contracts.VCPResult{Detected: true}},
			SignalResult:        contracts.SignalResult{Signal: contracts.SignalBuy}},
		{Symbol: "BBB", Sector: "Technology", RSRank: rank(85), MarketCap: cap(2e9),
			Stage:        contracts.StageTopping,
			SignalResult: contracts.SignalResult{Signal: contracts.SignalWait}},
		{Symbol: "CCC", Sector: "Energy", RSRank: rank(40),
			Stage:        contracts.StageDeclining,
			SignalResult: contracts.SignalResult{Signal: contracts.SignalPass}},
		{Symbol: "DDD", Sector: "", RSRank: rank(70),
			SignalResult: contracts.SignalResult{Signal: contracts.SignalBuy}},
	}
	stats := map[string]Stats{
		"Technology": {Sector: "Technology", AvgReturn3M: 12, RS: 74, SymbolCount: 2},
	}

	rows := a.Aggregate(asOf, snapshots, stats)
	require.Len(t, rows, 2, "sectorless symbols are excluded")

	// Sorted by sector name.
	assert.Equal(t, "Energy", rows[0].Sector)
	assert.Equal(t, "Technology", rows[1].Sector)

	tech := rows[1]
	assert.Equal(t, 2, tech.SymbolCount)
	assert.Equal(t, 1, tech.BuyCount)
	assert.Equal(t, 1, tech.PassingCount)
	assert.Equal(t, 1, tech.Stage2Count)
	assert.Equal(t, 1, tech.VCPCount)
	assert.Equal(t, "AAA", tech.LeaderSymbol)
	require.NotNil(t, tech.MarketCapSum)
	assert.InDelta(t, 7e9, *tech.MarketCapSum, 1e-3)
	require.NotNil(t, tech.AvgRSRank)
	assert.InDelta(t, 90, *tech.AvgRSRank, 1e-9)
	assert.InDelta(t, 74, tech.RS, 1e-9)
	require.NotNil(t, tech.AvgReturn3M)
	assert.InDelta(t, 12, *tech.AvgReturn3M, 1e-9)

	// Energy has no caps and no qualifying members.
	energy := rows[0]
	assert.Zero(t, energy.PassingCount)
	assert.Zero(t, energy.Stage2Count)
	assert.Zero(t, energy.VCPCount)
	assert.Nil(t, energy.MarketCapSum)
}
