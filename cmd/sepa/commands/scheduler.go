package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/sepa/backend/internal/notify"
	"github.com/wonny/sepa/backend/internal/scheduler"
	"github.com/wonny/sepa/backend/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the scheduled pipeline daemon",
	Long: `Starts the cron daemon:

  daily_screen       weekday evenings on NYSE trading days:
                     ingest bars, analyze, diff watchlist
  reference_refresh  Sunday mornings: tickers and earnings

Example:
  go run ./cmd/sepa scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	cal := scheduler.NewTradingCalendar()
	fetcher := a.newFetcher()
	notifier := notify.NewNotifier(a.metrics, a.watchlist, a.log)

	s := scheduler.New(a.log)
	if err := s.AddJob(jobs.NewDailyScreenJob(cal, fetcher, a.newAnalyzer(), notifier, a.log)); err != nil {
		return err
	}
	if err := s.AddJob(jobs.NewReferenceRefreshJob(fetcher, a.tickers, a.log)); err != nil {
		return err
	}

	s.Start()
	defer s.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	return nil
}
