package polygon

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// GetDailyBars returns split-adjusted daily bars for one symbol in
// [from, to], ascending. Large windows paginate through next_url.
func (c *Client) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) (contracts.Bars, error) {
	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s",
		url.PathEscape(symbol), from.Format("2006-01-02"), to.Format("2006-01-02"))
	params := url.Values{
		"adjusted": {"true"},
		"sort":     {"asc"},
		"limit":    {"50000"},
	}

	var bars contracts.Bars
	for {
		var resp aggsResponse
		if err := c.getJSON(ctx, path, params, &resp); err != nil {
			return nil, fmt.Errorf("daily bars %s: %w", symbol, err)
		}

		for _, r := range resp.Results {
			bars = append(bars, contracts.PriceBar{
				Date:   time.UnixMilli(r.Timestamp).UTC().Truncate(24 * time.Hour),
				Open:   r.Open,
				High:   r.High,
				Low:    r.Low,
				Close:  r.Close,
				Volume: int64(r.Volume),
			})
		}

		if resp.NextURL == "" {
			break
		}
		path = resp.NextURL
		params = nil
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	}).Debug("Daily bars fetched")

	return bars, nil
}

// GetGroupedDaily returns the whole market's bars for one trading day in a
// single call. The daily incremental fetch uses this instead of one
// aggregates call per symbol.
func (c *Client) GetGroupedDaily(ctx context.Context, date time.Time) (map[string]contracts.PriceBar, error) {
	path := "/v2/aggs/grouped/locale/us/market/stocks/" + date.Format("2006-01-02")
	params := url.Values{"adjusted": {"true"}}

	var resp groupedResponse
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, fmt.Errorf("grouped daily %s: %w", date.Format("2006-01-02"), err)
	}

	day := date.UTC().Truncate(24 * time.Hour)
	out := make(map[string]contracts.PriceBar, len(resp.Results))
	for _, r := range resp.Results {
		out[r.Ticker] = contracts.PriceBar{
			Date:   day,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: int64(r.Volume),
		}
	}
	return out, nil
}
