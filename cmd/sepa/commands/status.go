package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and analysis status",
	Long: `Checks connectivity and prints the latest analyzed date.

Example:
  go run ./cmd/sepa status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := context.Background()

	health, err := a.db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	fmt.Printf("%-18s healthy=%v (%s)\n", "database:", health.Healthy, health.ResponseTime)
	fmt.Printf("%-18s enabled=%v\n", "redis:", a.redis.Enabled())

	latest, err := a.metrics.GetLatestDate(ctx)
	if err != nil {
		return fmt.Errorf("load latest date: %w", err)
	}
	if latest == nil {
		fmt.Printf("%-18s %s\n", "latest analysis:", "none")
		return nil
	}
	fmt.Printf("%-18s %s\n", "latest analysis:", latest.Format("2006-01-02"))

	top, err := a.metrics.GetTopStocks(ctx, *latest, 1)
	if err == nil && len(top) > 0 {
		fmt.Printf("%-18s %s (%s)\n", "strongest:", top[0].Symbol, top[0].SignalResult.Signal)
	}
	return nil
}
