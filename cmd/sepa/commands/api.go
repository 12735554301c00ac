package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sepa/backend/internal/api"
	"github.com/wonny/sepa/backend/internal/api/handlers"
	"github.com/wonny/sepa/backend/pkg/redis"
)

var apiPort string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the read-only screening API.

Endpoints:
  GET    /health
  GET    /api/status
  GET    /api/top?date=&limit=
  GET    /api/sectors?date=
  GET    /api/stocks/{symbol}?date=
  GET    /api/watchlist
  POST   /api/watchlist
  DELETE /api/watchlist/{symbol}
  GET    /api/notifications?limit=

Example:
  go run ./cmd/sepa api
  go run ./cmd/sepa api --port 8090`,
	RunE: runAPIServer,
}

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (default from PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	cache := redis.NewCache(a.redis, "sepa")
	screen := handlers.NewScreenHandler(a.metrics, a.sectors, cache, a.log)
	watchlist := handlers.NewWatchlistHandler(a.watchlist, a.log)
	router := api.NewRouter(screen, watchlist, a.log)
	server := api.New(a.cfg, a.log, router)

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()
	fmt.Printf("Server running on http://localhost:%s\n", a.cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
