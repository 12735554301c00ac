package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/pkg/config"
	"github.com/wonny/sepa/backend/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	runs     int
}

func (j *stubJob) Name() string              { return j.name }
func (j *stubJob) Schedule() string          { return j.schedule }
func (j *stubJob) Run(context.Context) error { j.runs++; return nil }

func newTestScheduler() *Scheduler {
	log := logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
	return New(log)
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "daily_screen", schedule: "0 0 18 * * 1-5"}

	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job))
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.AddJob(&stubJob{name: "broken", schedule: "not a cron expr"}))
}

func TestRunJobUnknown(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.RunJob("missing"))
}

func TestJobHistoryRetention(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+20; i++ {
		h.AddResult(JobResult{JobName: "daily_screen", Success: true})
	}
	assert.Len(t, h.Results, historyLimit)
	require.NotNil(t, h.Latest())
}

func TestTradingCalendar(t *testing.T) {
	tc := NewTradingCalendar()

	saturday := time.Date(2025, 8, 16, 12, 0, 0, 0, time.UTC)
	assert.False(t, tc.IsTradingDay(saturday))

	tuesday := time.Date(2025, 8, 12, 12, 0, 0, 0, time.UTC)
	assert.True(t, tc.IsTradingDay(tuesday))

	// July 4th 2025 fell on a Friday; the NYSE was closed.
	if !tc.fallback {
		independenceDay := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)
		assert.False(t, tc.IsTradingDay(independenceDay))
	}
}

func TestPrevTradingDay(t *testing.T) {
	tc := NewTradingCalendar()

	monday := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	prev := tc.PrevTradingDay(monday)
	assert.Equal(t, time.Friday, prev.In(time.UTC).Weekday())
}
