// Package polygon is the market-data API client. All Polygon.io calls go
// through this package.
package polygon

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/wonny/sepa/backend/pkg/config"
	"github.com/wonny/sepa/backend/pkg/httputil"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Client handles communication with the Polygon.io REST API.
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	apiKey  string
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a new Polygon client. The in-process limiter smooths
// request bursts; the shared Redis limiter on the HTTP client (when
// configured) enforces the account-wide budget across processes.
func NewClient(cfg *config.Config, http *httputil.Client, log *logger.Logger) *Client {
	perMin := cfg.Polygon.RateLimitPerMin
	if perMin <= 0 {
		perMin = 100
	}
	return &Client{
		http:    http,
		logger:  log,
		apiKey:  cfg.Polygon.APIKey,
		baseURL: strings.TrimRight(cfg.Polygon.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(float64(perMin)/60.0), 5),
	}
}

// getJSON waits for the local rate budget, appends the API key and decodes
// the response into dest. path may be absolute (pagination next_url) or
// relative to the base URL.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	full := path
	if !strings.HasPrefix(path, "http") {
		full = c.baseURL + path
	}
	u, err := url.Parse(full)
	if err != nil {
		return fmt.Errorf("bad polygon url %q: %w", path, err)
	}

	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	q.Set("apiKey", c.apiKey)
	u.RawQuery = q.Encode()

	return c.http.GetJSON(ctx, u.String(), dest)
}
