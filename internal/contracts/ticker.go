package contracts

import "time"

// TickerDetails carries the reference data for one listed symbol.
type TickerDetails struct {
	Symbol      string     `json:"symbol"`
	Name        string     `json:"name"`
	Active      bool       `json:"active"`
	MarketCap   *float64   `json:"market_cap,omitempty"`
	ListDate    *time.Time `json:"list_date,omitempty"`
	SICCode     string     `json:"sic_code,omitempty"`
	Sector      string     `json:"sector,omitempty"`
	PrimaryExch string     `json:"primary_exchange,omitempty"`
	Type        string     `json:"type,omitempty"`
}

// Capitalization tiers. Micro-cap names are held to a stricter relative
// strength bar because they are below the institutional radar.
type CapTier string

const (
	CapMicro CapTier = "MICRO"
	CapSmall CapTier = "SMALL"
	CapMid   CapTier = "MID"
	CapLarge CapTier = "LARGE"
	CapMega  CapTier = "MEGA"
)

// CapTierOf buckets a market cap (USD) into its tier.
func CapTierOf(marketCap float64) CapTier {
	switch {
	case marketCap < 300_000_000:
		return CapMicro
	case marketCap < 2_000_000_000:
		return CapSmall
	case marketCap < 10_000_000_000:
		return CapMid
	case marketCap < 200_000_000_000:
		return CapLarge
	default:
		return CapMega
	}
}

// DaysSinceListing returns the calendar days between the list date and
// asOf, or -1 when the list date is unknown.
func (t *TickerDetails) DaysSinceListing(asOf time.Time) int {
	if t == nil || t.ListDate == nil {
		return -1
	}
	return int(asOf.Sub(*t.ListDate).Hours() / 24)
}

// IsNewIssue reports whether the symbol listed within the last two years.
// New issues are screened against a primary base instead of a full VCP.
func (t *TickerDetails) IsNewIssue(asOf time.Time) bool {
	d := t.DaysSinceListing(asOf)
	return d >= 0 && d < 730
}
