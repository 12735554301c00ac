package contracts

import "time"

// IncomeStatement is one reported fiscal quarter, most recent first when
// returned from the store.
type IncomeStatement struct {
	Symbol        string    `json:"symbol"`
	PeriodEnd     time.Time `json:"period_end"`
	FiscalYear    int       `json:"fiscal_year"`
	FiscalQuarter int       `json:"fiscal_quarter"`
	EPS           *float64  `json:"eps,omitempty"`
	Revenue       *float64  `json:"revenue,omitempty"`
	NetIncome     *float64  `json:"net_income,omitempty"`
}

// EarningsSurprise is one reported-vs-estimated earnings event.
type EarningsSurprise struct {
	Symbol         string    `json:"symbol"`
	ReportDate     time.Time `json:"report_date"`
	ActualEPS      *float64  `json:"actual_eps,omitempty"`
	EstimatedEPS   *float64  `json:"estimated_eps,omitempty"`
	EPSSurprisePct *float64  `json:"eps_surprise_pct,omitempty"`
	RevSurprisePct *float64  `json:"rev_surprise_pct,omitempty"`
}

// UpcomingEarnings is the next scheduled report for a symbol, if known.
type UpcomingEarnings struct {
	Symbol     string    `json:"symbol"`
	ReportDate time.Time `json:"report_date"`
	DaysUntil  int       `json:"days_until"`
}

// GrowthResult is the earnings quality evaluation for one symbol.
// Nil pointer fields mean the underlying data was unavailable; Passes is
// nil when there was no earnings data to judge at all.
type GrowthResult struct {
	HasData           bool     `json:"has_data"`
	LatestEPS         *float64 `json:"latest_eps,omitempty"`
	EPSGrowthYoY      *float64 `json:"eps_growth_yoy,omitempty"`
	EPSGrowthQoQ      *float64 `json:"eps_growth_qoq,omitempty"`
	RevenueGrowthYoY  *float64 `json:"revenue_growth_yoy,omitempty"`
	EPSAccelerating   bool     `json:"eps_accelerating"`
	Beats             int      `json:"beats"`
	Misses            int      `json:"misses"`
	AvgEPSSurprisePct *float64 `json:"avg_eps_surprise_pct,omitempty"`
	Score             int      `json:"score"`
	Passes            *bool    `json:"passes,omitempty"`
	Issues            []string `json:"issues,omitempty"`
}
