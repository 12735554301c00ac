// Package sector measures how each sector trades against the market and
// rolls per-symbol snapshots up into sector summaries.
package sector

import (
	"sort"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/relstrength"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// quarter is the calendar window for sector comparisons, matching the
// newest ranking quarter.
const quarterDays = 91

// Analyzer computes sector relative strength from universe close data.
type Analyzer struct {
	log *logger.Logger
}

// NewAnalyzer creates a sector analyzer.
func NewAnalyzer(log *logger.Logger) *Analyzer {
	return &Analyzer{log: log}
}

// Stats is one sector's market-relative result.
type Stats struct {
	Sector      string
	AvgReturn3M float64
	RS          float64
	SymbolCount int
}

// Compute returns per-sector stats. A sector's relative strength is scaled
// off its average three-month return versus the market's: 50 is in line,
// each point of outperformance is worth two RS points, capped at 0 and 100.
func (a *Analyzer) Compute(
	universe map[string][]contracts.ClosePoint,
	sectorOf map[string]string,
	marketReturn3M float64,
	asOf time.Time,
) map[string]Stats {
	from := asOf.AddDate(0, 0, -quarterDays)

	// Fixed summation order keeps sector averages bit-identical across runs.
	symbols := make([]string, 0, len(sectorOf))
	for symbol := range sectorOf {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, symbol := range symbols {
		sector := sectorOf[symbol]
		if sector == "" {
			continue
		}
		points, ok := universe[symbol]
		if !ok {
			continue
		}
		ret := relstrength.PeriodReturn(points, from, asOf)
		if ret == nil {
			continue
		}
		sums[sector] += *ret
		counts[sector]++
	}

	out := make(map[string]Stats, len(sums))
	for sector, sum := range sums {
		avg := sum / float64(counts[sector])
		out[sector] = Stats{
			Sector:      sector,
			AvgReturn3M: avg,
			RS:          relativeStrength(avg, marketReturn3M),
			SymbolCount: counts[sector],
		}
	}

	a.log.WithField("sectors", len(out)).Debug("Sector relative strength computed")
	return out
}

func relativeStrength(sectorReturn, marketReturn float64) float64 {
	delta := sectorReturn - marketReturn
	scaled := delta * 2
	if scaled > 50 {
		scaled = 50
	}
	if scaled < -50 {
		scaled = -50
	}
	return 50 + scaled
}

// Aggregate rolls finished snapshots up into persistable sector rows:
// member and BUY counts, how many members pass the trend template, sit in
// Stage 2, or carry a contraction pattern, the summed market cap, the
// average RS rank, and the rank leader.
func (a *Analyzer) Aggregate(date time.Time, snapshots []*contracts.SymbolMetrics, stats map[string]Stats) []contracts.SectorPerformance {
	type agg struct {
		count      int
		buys       int
		passing    int
		stage2     int
		vcps       int
		capSum     float64
		hasCap     bool
		rankSum    int
		rankCount  int
		leader     string
		leaderRank int
	}

	byName := make(map[string]*agg)
	for _, m := range snapshots {
		if m.Sector == "" {
			continue
		}
		row, ok := byName[m.Sector]
		if !ok {
			row = &agg{}
			byName[m.Sector] = row
		}
		row.count++
		if m.SignalResult.Signal == contracts.SignalBuy {
			row.buys++
		}
		if m.PassesTrendTemplate {
			row.passing++
		}
		if m.Stage == contracts.StageAdvancing {
			row.stage2++
		}
		if m.Pattern.VCP.Detected {
			row.vcps++
		}
		if m.MarketCap != nil {
			row.capSum += *m.MarketCap
			row.hasCap = true
		}
		if m.RSRank != nil {
			row.rankSum += *m.RSRank
			row.rankCount++
			if *m.RSRank > row.leaderRank {
				row.leaderRank = *m.RSRank
				row.leader = m.Symbol
			}
		}
	}

	out := make([]contracts.SectorPerformance, 0, len(byName))
	for name, row := range byName {
		sp := contracts.SectorPerformance{
			Sector:       name,
			Date:         date,
			SymbolCount:  row.count,
			BuyCount:     row.buys,
			PassingCount: row.passing,
			Stage2Count:  row.stage2,
			VCPCount:     row.vcps,
			LeaderSymbol: row.leader,
		}
		if row.hasCap {
			capSum := row.capSum
			sp.MarketCapSum = &capSum
		}
		if st, ok := stats[name]; ok {
			ret := st.AvgReturn3M
			sp.AvgReturn3M = &ret
			sp.RS = st.RS
		}
		if row.rankCount > 0 {
			avg := float64(row.rankSum) / float64(row.rankCount)
			sp.AvgRSRank = &avg
		}
		out = append(out, sp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Sector < out[j].Sector })
	return out
}
