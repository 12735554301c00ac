package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/sepa/backend/internal/api/handlers"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(screen *handlers.ScreenHandler, watchlist *handlers.WatchlistHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Screening results
	api.HandleFunc("/status", screen.GetStatus).Methods("GET")
	api.HandleFunc("/top", screen.GetTopStocks).Methods("GET")
	api.HandleFunc("/sectors", screen.GetSectors).Methods("GET")
	api.HandleFunc("/stocks/{symbol}", screen.GetStock).Methods("GET")

	// Watchlist
	api.HandleFunc("/watchlist", watchlist.List).Methods("GET")
	api.HandleFunc("/watchlist", watchlist.Add).Methods("POST")
	api.HandleFunc("/watchlist/{symbol}", watchlist.Remove).Methods("DELETE")
	api.HandleFunc("/notifications", watchlist.Notifications).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "sepa-screener-api",
	})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
