package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/sepa/backend/internal/store"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// defaultNotificationLimit caps /api/notifications when no limit is given.
const defaultNotificationLimit = 100

// WatchlistSource is the persistence surface the watchlist endpoints need.
type WatchlistSource interface {
	Add(ctx context.Context, symbol, note string) error
	Remove(ctx context.Context, symbol string) error
	List(ctx context.Context) ([]store.WatchlistEntry, error)
	RecentNotifications(ctx context.Context, limit int) ([]store.Notification, error)
}

// WatchlistHandler serves the watchlist endpoints.
type WatchlistHandler struct {
	watchlist WatchlistSource
	logger    *logger.Logger
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(watchlist WatchlistSource, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist, logger: log}
}

// List returns the watchlist.
// GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.watchlist.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to load watchlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"entries": entries,
	})
}

// Add puts a symbol on the watchlist.
// POST /api/watchlist {"symbol": "NVDA", "note": "..."}
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Symbol string `json:"symbol"`
		Note   string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(body.Symbol))
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	if err := h.watchlist.Add(r.Context(), symbol, body.Note); err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("Failed to add to watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to add to watchlist")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"symbol": symbol})
}

// Remove drops a symbol from the watchlist.
// DELETE /api/watchlist/{symbol}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	if err := h.watchlist.Remove(r.Context(), symbol); err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("Failed to remove from watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to remove from watchlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"symbol": symbol})
}

// Notifications returns the latest watchlist events.
// GET /api/notifications?limit=N
func (h *WatchlistHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	limit := defaultNotificationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 1000 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = v
	}

	notifications, err := h.watchlist.RecentNotifications(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load notifications")
		respondError(w, http.StatusInternalServerError, "Failed to load notifications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":         len(notifications),
		"notifications": notifications,
	})
}
