package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/api"
	"github.com/wonny/sepa/backend/internal/api/handlers"
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/store"
	"github.com/wonny/sepa/backend/pkg/config"
	"github.com/wonny/sepa/backend/pkg/logger"
	"github.com/wonny/sepa/backend/pkg/redis"
)

var runDate = time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

type fakeMetrics struct {
	latest    *time.Time
	snapshots map[string]*contracts.SymbolMetrics
	top       []*contracts.SymbolMetrics
}

func (f *fakeMetrics) GetMetrics(_ context.Context, symbol string, _ time.Time) (*contracts.SymbolMetrics, error) {
	return f.snapshots[symbol], nil
}

func (f *fakeMetrics) GetTopStocks(_ context.Context, _ time.Time, limit int) ([]*contracts.SymbolMetrics, error) {
	if limit > len(f.top) {
		limit = len(f.top)
	}
	return f.top[:limit], nil
}

func (f *fakeMetrics) GetLatestDate(_ context.Context) (*time.Time, error) {
	return f.latest, nil
}

type fakeSectors struct {
	rows []contracts.SectorPerformance
}

func (f *fakeSectors) GetSectorPerformance(_ context.Context, _ time.Time) ([]contracts.SectorPerformance, error) {
	return f.rows, nil
}

type fakeWatchlist struct {
	entries       []store.WatchlistEntry
	notifications []store.Notification
	added         []string
	removed       []string
}

func (f *fakeWatchlist) Add(_ context.Context, symbol, _ string) error {
	f.added = append(f.added, symbol)
	return nil
}

func (f *fakeWatchlist) Remove(_ context.Context, symbol string) error {
	f.removed = append(f.removed, symbol)
	return nil
}

func (f *fakeWatchlist) List(_ context.Context) ([]store.WatchlistEntry, error) {
	return f.entries, nil
}

func (f *fakeWatchlist) RecentNotifications(_ context.Context, limit int) ([]store.Notification, error) {
	if limit > len(f.notifications) {
		limit = len(f.notifications)
	}
	return f.notifications[:limit], nil
}

func newTestRouter(t *testing.T, metrics *fakeMetrics, wl *fakeWatchlist) http.Handler {
	t.Helper()

	log := logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
	redisClient, err := redis.New(&config.Config{})
	require.NoError(t, err)
	cache := redis.NewCache(redisClient, "sepa-test")

	sectors := &fakeSectors{rows: []contracts.SectorPerformance{
		{Sector: "Technology", Date: runDate, RS: 62.5, SymbolCount: 12, BuyCount: 3},
	}}

	screen := handlers.NewScreenHandler(metrics, sectors, cache, log)
	watchlist := handlers.NewWatchlistHandler(wl, log)
	return api.NewRouter(screen, watchlist, log)
}

func defaultMetrics() *fakeMetrics {
	latest := runDate
	return &fakeMetrics{
		latest: &latest,
		snapshots: map[string]*contracts.SymbolMetrics{
			"NVDA": {Symbol: "NVDA", Date: runDate, Close: 182.5},
		},
		top: []*contracts.SymbolMetrics{
			{Symbol: "NVDA", Date: runDate, Close: 182.5},
			{Symbol: "CRWD", Date: runDate, Close: 310.0},
		},
	}
}

func doRequest(router http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, defaultMetrics(), &fakeWatchlist{})

	rec := doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestGetStatus(t *testing.T) {
	router := newTestRouter(t, defaultMetrics(), &fakeWatchlist{})

	rec := doRequest(router, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["analyzed"])
	assert.Equal(t, "2025-08-15", resp["latest_date"])
}

func TestGetStock(t *testing.T) {
	router := newTestRouter(t, defaultMetrics(), &fakeWatchlist{})

	rec := doRequest(router, http.MethodGet, "/api/stocks/NVDA", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var m contracts.SymbolMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "NVDA", m.Symbol)
	assert.InDelta(t, 182.5, m.Close, 1e-9)

	rec = doRequest(router, http.MethodGet, "/api/stocks/UNKNOWN", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/stocks/NVDA?date=not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStockWithoutAnyRuns(t *testing.T) {
	router := newTestRouter(t, &fakeMetrics{}, &fakeWatchlist{})

	rec := doRequest(router, http.MethodGet, "/api/stocks/NVDA", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no analysis runs")
}

func TestGetTopStocks(t *testing.T) {
	router := newTestRouter(t, defaultMetrics(), &fakeWatchlist{})

	rec := doRequest(router, http.MethodGet, "/api/top?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Date   string                     `json:"date"`
		Count  int                        `json:"count"`
		Stocks []*contracts.SymbolMetrics `json:"stocks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-08-15", resp.Date)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Stocks, 1)
	assert.Equal(t, "NVDA", resp.Stocks[0].Symbol)

	rec = doRequest(router, http.MethodGet, "/api/top?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSectors(t *testing.T) {
	router := newTestRouter(t, defaultMetrics(), &fakeWatchlist{})

	rec := doRequest(router, http.MethodGet, "/api/sectors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Technology")
}

func TestWatchlistAddAndRemove(t *testing.T) {
	wl := &fakeWatchlist{}
	router := newTestRouter(t, defaultMetrics(), wl)

	rec := doRequest(router, http.MethodPost, "/api/watchlist", `{"symbol": "nvda", "note": "vcp forming"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"NVDA"}, wl.added, "symbols normalize to upper case")

	rec = doRequest(router, http.MethodPost, "/api/watchlist", `{"note": "missing symbol"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodDelete, "/api/watchlist/nvda", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"NVDA"}, wl.removed)
}

func TestNotifications(t *testing.T) {
	wl := &fakeWatchlist{notifications: []store.Notification{
		{Symbol: "NVDA", EventDate: runDate, Kind: "BREAKOUT", Message: "NVDA broke out"},
	}}
	router := newTestRouter(t, defaultMetrics(), wl)

	rec := doRequest(router, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BREAKOUT")

	rec = doRequest(router, http.MethodGet, "/api/notifications?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
