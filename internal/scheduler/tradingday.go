package scheduler

import (
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers whether a date is an NYSE trading day. When the
// exchange calendar cannot be loaded it falls back to plain weekdays.
type TradingCalendar struct {
	cal      *calendar.Calendar
	fallback bool
	loc      *time.Location
}

// NewTradingCalendar loads the NYSE calendar (MIC xnys).
func NewTradingCalendar() *TradingCalendar {
	cal := calendar.GetCalendar("xnys")
	if cal == nil {
		loc, _ := time.LoadLocation("America/New_York")
		if loc == nil {
			loc = time.UTC
		}
		return &TradingCalendar{fallback: true, loc: loc}
	}
	return &TradingCalendar{cal: cal, loc: cal.Loc}
}

// IsTradingDay reports whether the NYSE is open on the given date.
func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	date = date.In(tc.loc)

	if tc.fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.cal.IsBusinessDay(date)
}

// PrevTradingDay returns the last trading day strictly before date.
func (tc *TradingCalendar) PrevTradingDay(date time.Time) time.Time {
	for {
		date = date.AddDate(0, 0, -1)
		if tc.IsTradingDay(date) {
			return date
		}
	}
}
