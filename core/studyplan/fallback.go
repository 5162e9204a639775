package studyplan

import (
	"math"
	"time"
)

const fallbackBreakMinutes = 15

// BuildFallback is the deliberately simpler degradation path used when the
// primary packer fails: topics are spread evenly across the days of the
// range (all of them, weekends included), each day packing linearly from
// 09:00 with fixed 15-minute breaks. No daily budget and no 21:00 ceiling.
// A day that runs out of clock before 23:59 pushes its remaining topics to
// the next calendar day, appending days past the range as needed; only a
// topic too long for a whole day is truncated at 23:59.
func BuildFallback(topics []Topic, start, end time.Time) Schedule {
	if len(topics) == 0 {
		return nil
	}
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		end = start
	}

	days := make([]time.Time, 0, 8)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	perDay := int(math.Ceil(float64(len(topics)) / float64(len(days))))

	endOfDay := 24*60 - 1
	minutes := topicMinutes(topics)

	var sched Schedule
	ti := 0
	dayIdx := 0
	day := days[0]
	for ti < len(topics) {
		clock := dayStartMinute
		var sessions []Session

		for n := 0; n < perDay && ti < len(topics); n++ {
			dur := minutes[ti]
			if clock+dur > endOfDay {
				if clock > dayStartMinute {
					break // out of clock; the rest moves to the next day
				}
				// too long for even a whole day
				dur = endOfDay - clock
			}
			sessions = append(sessions, Session{
				Topic:     topics[ti].Title,
				StartTime: clockTime(clock),
				EndTime:   clockTime(clock + dur),
				Duration:  dur,
			})
			clock += dur
			ti++

			if n < perDay-1 && ti < len(topics) {
				br := fallbackBreakMinutes
				if clock+br > endOfDay {
					break
				}
				sessions = append(sessions, Session{
					Topic:     breakTopic,
					StartTime: clockTime(clock),
					EndTime:   clockTime(clock + br),
					Duration:  br,
					IsBreak:   true,
				})
				clock += br
			}
		}

		sched = append(sched, DayEntry{Date: day.Format(dateFormat), Sessions: sessions})

		dayIdx++
		if dayIdx < len(days) {
			day = days[dayIdx]
		} else {
			day = day.AddDate(0, 0, 1)
		}
	}

	return sched
}
