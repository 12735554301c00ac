package polygon

// aggsResponse is the /v2/aggs daily bars payload.
type aggsResponse struct {
	Ticker       string      `json:"ticker"`
	ResultsCount int         `json:"resultsCount"`
	Status       string      `json:"status"`
	Results      []aggResult `json:"results"`
	NextURL      string      `json:"next_url"`
}

type aggResult struct {
	Timestamp int64   `json:"t"` // window start, Unix ms
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

// groupedResponse is the /v2/aggs/grouped whole-market payload.
type groupedResponse struct {
	ResultsCount int                `json:"resultsCount"`
	Status       string             `json:"status"`
	Results      []groupedAggResult `json:"results"`
}

type groupedAggResult struct {
	Ticker string  `json:"T"`
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
}

// tickersResponse is the /v3/reference/tickers list payload.
type tickersResponse struct {
	Results []tickerResult `json:"results"`
	Status  string         `json:"status"`
	Count   int            `json:"count"`
	NextURL string         `json:"next_url"`
}

type tickerResult struct {
	Ticker          string `json:"ticker"`
	Name            string `json:"name"`
	Active          bool   `json:"active"`
	PrimaryExchange string `json:"primary_exchange"`
	Type            string `json:"type"`
}

// tickerDetailsResponse is the /v3/reference/tickers/{ticker} payload.
type tickerDetailsResponse struct {
	Results tickerDetailsResult `json:"results"`
	Status  string              `json:"status"`
}

type tickerDetailsResult struct {
	Ticker          string   `json:"ticker"`
	Name            string   `json:"name"`
	Active          bool     `json:"active"`
	MarketCap       *float64 `json:"market_cap"`
	ListDate        string   `json:"list_date"` // YYYY-MM-DD
	SICCode         string   `json:"sic_code"`
	SICDescription  string   `json:"sic_description"`
	PrimaryExchange string   `json:"primary_exchange"`
	Type            string   `json:"type"`
}

// financialsResponse is the /vX/reference/financials payload, reduced to
// the income-statement fields the screener uses.
type financialsResponse struct {
	Results []financialResult `json:"results"`
	Status  string            `json:"status"`
	NextURL string            `json:"next_url"`
}

type financialResult struct {
	FiscalYear   string          `json:"fiscal_year"`
	FiscalPeriod string          `json:"fiscal_period"` // Q1..Q4, FY
	EndDate      string          `json:"end_date"`      // YYYY-MM-DD
	Financials   financialGroups `json:"financials"`
}

type financialGroups struct {
	IncomeStatement map[string]financialValue `json:"income_statement"`
}

type financialValue struct {
	Value *float64 `json:"value"`
}

// earningsResponse is the /benzinga/v1/earnings payload, reduced to the
// surprise and calendar fields.
type earningsResponse struct {
	Results []earningsResult `json:"results"`
	Status  string           `json:"status"`
	NextURL string           `json:"next_url"`
}

type earningsResult struct {
	Ticker             string   `json:"ticker"`
	Date               string   `json:"date"` // YYYY-MM-DD
	EPSActual          *float64 `json:"eps"`
	EPSEstimate        *float64 `json:"eps_estimate"`
	EPSSurprisePercent *float64 `json:"eps_surprise_percent"`
	RevSurprisePercent *float64 `json:"revenue_surprise_percent"`
	DateStatus         string   `json:"date_status"` // confirmed, projected
}
