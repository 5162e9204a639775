// Package studyplan computes study timetables: it partitions a list of
// topics into calendar days between a start and end date, inserting breaks
// and respecting daily hour budgets and the day's clock.
//
// The computation is pure and stateless; it performs no I/O and is safe to
// invoke concurrently.
package studyplan

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrInvalidRange = errors.New("end date is before start date")
	ErrEmptyTopics  = errors.New("no topics supplied")
)

const (
	dayStartMinute = 9 * 60  // sessions start at 09:00
	dayEndMinute   = 21 * 60 // no session or break may end after 21:00

	// safety bounds; packing stops gracefully when exceeded
	maxPlanDays    = 1000
	maxDaySessions = 100

	// ranges of up to this many days schedule on weekends too
	veryShortRangeDays = 2

	breakTopic = "Break"
)

type (
	// Session is a single timetable block; either study time for a topic or
	// a break.
	Session struct {
		Topic     string `json:"topic"`
		StartTime string `json:"startTime"` // HH:MM
		EndTime   string `json:"endTime"`   // HH:MM
		Duration  int    `json:"duration"`  // minutes
		IsBreak   bool   `json:"isBreak"`
		Completed bool   `json:"completed"`
	}

	// DayEntry holds the ordered sessions of one calendar day. Days without
	// sessions are omitted from the Schedule.
	DayEntry struct {
		Date     string    `json:"date"` // YYYY-MM-DD
		Sessions []Session `json:"sessions"`
	}

	Schedule []DayEntry

	// Result is a built schedule. Overrun reports that a safety bound was
	// exhausted and the plan may be incomplete; it is a warning, not an error.
	Result struct {
		Schedule Schedule
		Overrun  bool
	}
)

// Build computes a timetable for the given raw topics between start and end
// (inclusive). Topics are normalized first (see NormalizeTopics); the range
// is a soft target: topics that do not fit before end spill onto overflow
// days after it.
func Build(raw []RawTopic, start, end time.Time, diff Difficulty) (Result, error) {
	if len(raw) == 0 {
		return Result{}, ErrEmptyTopics
	}
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return Result{}, errors.Wrapf(ErrInvalidRange, "%s < %s", end.Format(dateFormat), start.Format(dateFormat))
	}

	topics := NormalizeTopics(raw, diff)
	sched, overrun := pack(topics, buildDayRange(start, end))
	return Result{Schedule: sched, Overrun: overrun}, nil
}

const dateFormat = "2006-01-02"

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// clockTime renders minutes-since-midnight as HH:MM, clamped to the day.
func clockTime(minute int) string {
	if minute > 24*60-1 {
		minute = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
