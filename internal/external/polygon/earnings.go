package polygon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// GetEarningsHistory returns reported earnings surprises for one symbol,
// most recent first, plus any scheduled future report dates found in the
// same feed.
func (c *Client) GetEarningsHistory(ctx context.Context, symbol string, limit int) ([]contracts.EarningsSurprise, []contracts.UpcomingEarnings, error) {
	params := url.Values{
		"ticker": {symbol},
		"order":  {"desc"},
		"sort":   {"date"},
		"limit":  {strconv.Itoa(limit)},
	}

	var resp earningsResponse
	if err := c.getJSON(ctx, "/benzinga/v1/earnings", params, &resp); err != nil {
		return nil, nil, fmt.Errorf("earnings %s: %w", symbol, err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	var surprises []contracts.EarningsSurprise
	var upcoming []contracts.UpcomingEarnings
	for _, r := range resp.Results {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}

		if r.EPSActual == nil && !date.Before(today) {
			upcoming = append(upcoming, contracts.UpcomingEarnings{
				Symbol:     symbol,
				ReportDate: date,
			})
			continue
		}
		if r.EPSActual == nil {
			continue // past row without a reported figure
		}

		surprises = append(surprises, contracts.EarningsSurprise{
			Symbol:         symbol,
			ReportDate:     date,
			ActualEPS:      r.EPSActual,
			EstimatedEPS:   r.EPSEstimate,
			EPSSurprisePct: r.EPSSurprisePercent,
			RevSurprisePct: r.RevSurprisePercent,
		})
	}
	return surprises, upcoming, nil
}
