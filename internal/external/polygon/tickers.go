package polygon

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// ListActiveTickers returns every active common stock, following pagination
// until the reference list is exhausted.
func (c *Client) ListActiveTickers(ctx context.Context) ([]contracts.TickerDetails, error) {
	path := "/v3/reference/tickers"
	params := url.Values{
		"market": {"stocks"},
		"active": {"true"},
		"type":   {"CS"},
		"sort":   {"ticker"},
		"limit":  {"1000"},
	}

	var tickers []contracts.TickerDetails
	for {
		var resp tickersResponse
		if err := c.getJSON(ctx, path, params, &resp); err != nil {
			return nil, fmt.Errorf("list tickers: %w", err)
		}

		for _, r := range resp.Results {
			tickers = append(tickers, contracts.TickerDetails{
				Symbol:      r.Ticker,
				Name:        r.Name,
				Active:      r.Active,
				PrimaryExch: r.PrimaryExchange,
				Type:        r.Type,
			})
		}

		if resp.NextURL == "" {
			break
		}
		path = resp.NextURL
		params = nil
	}

	c.logger.WithField("count", len(tickers)).Info("Active tickers listed")
	return tickers, nil
}

// GetTickerDetails returns the full reference record for one symbol,
// including market cap and list date.
func (c *Client) GetTickerDetails(ctx context.Context, symbol string) (*contracts.TickerDetails, error) {
	path := "/v3/reference/tickers/" + url.PathEscape(symbol)

	var resp tickerDetailsResponse
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("ticker details %s: %w", symbol, err)
	}

	r := resp.Results
	details := &contracts.TickerDetails{
		Symbol:      r.Ticker,
		Name:        r.Name,
		Active:      r.Active,
		MarketCap:   r.MarketCap,
		SICCode:     r.SICCode,
		Sector:      sectorFromSIC(r.SICCode, r.SICDescription),
		PrimaryExch: r.PrimaryExchange,
		Type:        r.Type,
	}
	if r.ListDate != "" {
		if d, err := time.Parse("2006-01-02", r.ListDate); err == nil {
			details.ListDate = &d
		}
	}
	return details, nil
}

// sectorFromSIC buckets a SIC code into a coarse sector. The reference API
// has no GICS field, so the SIC division ranges stand in for one.
func sectorFromSIC(code, description string) string {
	if len(code) < 2 {
		return description
	}
	switch code[:2] {
	case "01", "02", "07", "08", "09":
		return "Agriculture"
	case "10", "12", "13", "14":
		return "Energy & Mining"
	case "15", "16", "17":
		return "Construction"
	case "20", "21", "22", "23", "24", "25", "26", "27", "28", "29",
		"30", "31", "32", "33", "34", "35", "36", "37", "38", "39":
		return manufacturingSector(code)
	case "40", "41", "42", "43", "44", "45", "46", "47":
		return "Transportation"
	case "48":
		return "Communications"
	case "49":
		return "Utilities"
	case "50", "51":
		return "Wholesale Trade"
	case "52", "53", "54", "55", "56", "57", "58", "59":
		return "Retail Trade"
	case "60", "61", "62", "63", "64", "65", "67":
		return "Financials"
	case "70", "72", "75", "76", "78", "79":
		return "Consumer Services"
	case "73":
		return "Technology"
	case "80":
		return "Health Care"
	case "81", "82", "83", "84", "86", "87", "89":
		return "Professional Services"
	default:
		return description
	}
}

// manufacturingSector splits the broad SIC manufacturing division into the
// groups the screener cares about.
func manufacturingSector(code string) string {
	switch {
	case strings.HasPrefix(code, "283"):
		return "Health Care" // pharmaceutical preparations
	case strings.HasPrefix(code, "28"):
		return "Chemicals"
	case strings.HasPrefix(code, "35"), strings.HasPrefix(code, "36"), strings.HasPrefix(code, "38"):
		return "Technology"
	case strings.HasPrefix(code, "37"):
		return "Automotive & Aerospace"
	default:
		return "Manufacturing"
	}
}
