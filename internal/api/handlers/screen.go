package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
	"github.com/wonny/sepa/backend/pkg/redis"
)

// defaultTopLimit caps /api/top when no limit is given.
const defaultTopLimit = 50

// topCacheTTL is how long the top-stocks and sector responses stay cached.
// Snapshots only change once per trading day, after the analysis run.
const topCacheTTL = 5 * time.Minute

// SectorSource serves persisted sector rows.
type SectorSource interface {
	GetSectorPerformance(ctx context.Context, date time.Time) ([]contracts.SectorPerformance, error)
}

// ScreenHandler serves the screening result endpoints.
type ScreenHandler struct {
	metrics contracts.MetricsReader
	sectors SectorSource
	cache   *redis.Cache
	logger  *logger.Logger
}

// NewScreenHandler creates a new screen handler.
func NewScreenHandler(metrics contracts.MetricsReader, sectors SectorSource, cache *redis.Cache, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		metrics: metrics,
		sectors: sectors,
		cache:   cache,
		logger:  log,
	}
}

// GetStatus returns the most recent analyzed date.
// GET /api/status
func (h *ScreenHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	latest, err := h.metrics.GetLatestDate(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest date")
		respondError(w, http.StatusInternalServerError, "Failed to load status")
		return
	}

	resp := map[string]interface{}{"analyzed": latest != nil}
	if latest != nil {
		resp["latest_date"] = latest.Format("2006-01-02")
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetStock returns one symbol's snapshot.
// GET /api/stocks/{symbol}?date=YYYY-MM-DD (defaults to the latest run)
func (h *ScreenHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := mux.Vars(r)["symbol"]

	date, ok := h.resolveDate(ctx, w, r.URL.Query().Get("date"))
	if !ok {
		return
	}

	m, err := h.metrics.GetMetrics(ctx, symbol, date)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("Failed to load snapshot")
		respondError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}
	if m == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no snapshot for %s on %s", symbol, date.Format("2006-01-02")))
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// GetTopStocks returns the strongest snapshots for a date.
// GET /api/top?date=YYYY-MM-DD&limit=N
func (h *ScreenHandler) GetTopStocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := h.resolveDate(ctx, w, r.URL.Query().Get("date"))
	if !ok {
		return
	}

	limit := defaultTopLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 500 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = v
	}

	var top []*contracts.SymbolMetrics
	cacheKey := fmt.Sprintf("top:%s:%d", date.Format("2006-01-02"), limit)
	err := h.cache.GetOrSet(ctx, cacheKey, &top, topCacheTTL, func() (interface{}, error) {
		return h.metrics.GetTopStocks(ctx, date, limit)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to load top stocks")
		respondError(w, http.StatusInternalServerError, "Failed to load top stocks")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":   date.Format("2006-01-02"),
		"count":  len(top),
		"stocks": top,
	})
}

// GetSectors returns the sector rollup for a date.
// GET /api/sectors?date=YYYY-MM-DD
func (h *ScreenHandler) GetSectors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, ok := h.resolveDate(ctx, w, r.URL.Query().Get("date"))
	if !ok {
		return
	}

	var rows []contracts.SectorPerformance
	cacheKey := "sectors:" + date.Format("2006-01-02")
	err := h.cache.GetOrSet(ctx, cacheKey, &rows, topCacheTTL, func() (interface{}, error) {
		return h.sectors.GetSectorPerformance(ctx, date)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to load sectors")
		respondError(w, http.StatusInternalServerError, "Failed to load sectors")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"sectors": rows,
	})
}

// resolveDate parses the date parameter, falling back to the latest run
// date. It writes the error response itself and reports success via ok.
func (h *ScreenHandler) resolveDate(ctx context.Context, w http.ResponseWriter, raw string) (time.Time, bool) {
	if raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return time.Time{}, false
		}
		return date, true
	}

	latest, err := h.metrics.GetLatestDate(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest date")
		respondError(w, http.StatusInternalServerError, "Failed to resolve date")
		return time.Time{}, false
	}
	if latest == nil {
		respondError(w, http.StatusNotFound, "no analysis runs yet")
		return time.Time{}, false
	}
	return *latest, true
}
