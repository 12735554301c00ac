package polygon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// GetIncomeStatements returns up to limit quarterly income statements for
// one symbol, most recent first.
func (c *Client) GetIncomeStatements(ctx context.Context, symbol string, limit int) ([]contracts.IncomeStatement, error) {
	params := url.Values{
		"ticker":    {symbol},
		"timeframe": {"quarterly"},
		"order":     {"desc"},
		"sort":      {"period_of_report_date"},
		"limit":     {strconv.Itoa(limit)},
	}

	var resp financialsResponse
	if err := c.getJSON(ctx, "/vX/reference/financials", params, &resp); err != nil {
		return nil, fmt.Errorf("financials %s: %w", symbol, err)
	}

	var statements []contracts.IncomeStatement
	for _, r := range resp.Results {
		quarter := fiscalQuarter(r.FiscalPeriod)
		if quarter == 0 {
			continue // skip annual rows mixed into the feed
		}
		end, err := time.Parse("2006-01-02", r.EndDate)
		if err != nil {
			continue
		}
		year, _ := strconv.Atoi(r.FiscalYear)

		s := contracts.IncomeStatement{
			Symbol:        symbol,
			PeriodEnd:     end,
			FiscalYear:    year,
			FiscalQuarter: quarter,
		}
		inc := r.Financials.IncomeStatement
		s.EPS = fieldValue(inc, "basic_earnings_per_share")
		s.Revenue = fieldValue(inc, "revenues")
		s.NetIncome = fieldValue(inc, "net_income_loss")
		statements = append(statements, s)
	}
	return statements, nil
}

func fiscalQuarter(period string) int {
	switch period {
	case "Q1":
		return 1
	case "Q2":
		return 2
	case "Q3":
		return 3
	case "Q4":
		return 4
	default:
		return 0
	}
}

func fieldValue(group map[string]financialValue, key string) *float64 {
	if v, ok := group[key]; ok {
		return v.Value
	}
	return nil
}
