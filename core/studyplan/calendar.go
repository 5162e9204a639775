package studyplan

import (
	"math"
	"time"
)

// dayRange is the set of candidate scheduling days between two dates.
type dayRange struct {
	start, end time.Time
	// available days for pacing & packing; weekends are excluded unless the
	// range is very short. Never empty.
	days      []time.Time
	totalDays int
	veryShort bool
}

// buildDayRange enumerates the candidate dates between start and end
// (inclusive, both date-only). Callers validate start <= end.
func buildDayRange(start, end time.Time) dayRange {
	totalDays := int(end.Sub(start).Hours()/24) + 1
	veryShort := totalDays <= veryShortRangeDays

	days := make([]time.Time, 0, totalDays)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !veryShort && isWeekend(d) {
			continue
		}
		days = append(days, d)
	}
	// a weekend-only range still gets its start day
	if len(days) == 0 {
		days = append(days, start)
	}

	return dayRange{start: start, end: end, days: days, totalDays: totalDays, veryShort: veryShort}
}

// dailyBudgetMinutes decides the study minutes to aim for per day: the naive
// even spread of the total, capped so single days do not balloon. The budget
// is advisory; the packer may exceed it to avoid splitting a topic that
// still fits the day's clock.
func dailyBudgetMinutes(totalMinutes, availableDays int, veryShort bool) int {
	totalHours := float64(totalMinutes) / 60
	naiveHours := int(math.Ceil(totalHours / float64(availableDays)))

	var capHours int
	switch {
	case veryShort:
		capHours = 6
	case totalHours <= 10:
		capHours = 3
	case totalHours <= 20:
		capHours = 4
	case totalHours <= 40:
		capHours = 5
	default:
		capHours = 6
	}

	if naiveHours < capHours {
		return naiveHours * 60
	}
	return capHours * 60
}

// breakMinutes sizes the break after a study session of the given length.
// Very short ranges use a compressed table to save clock time.
func breakMinutes(sessionMinutes int, veryShort bool) int {
	if veryShort {
		switch {
		case sessionMinutes <= 60:
			return 5
		case sessionMinutes <= 120:
			return 10
		default:
			return 15
		}
	}
	switch {
	case sessionMinutes <= 30:
		return 5
	case sessionMinutes <= 60:
		return 10
	case sessionMinutes <= 90:
		return 15
	default:
		return 20
	}
}
