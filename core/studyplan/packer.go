package studyplan

import "math"

// topicMinutes converts topic hours to whole minutes up front, so total
// study time is conserved exactly even when a topic is chunked across days.
func topicMinutes(topics []Topic) []int {
	minutes := make([]int, len(topics))
	for i, t := range topics {
		m := int(math.Round(t.Hours * 60))
		if m < 1 {
			m = 1
		}
		minutes[i] = m
	}
	return minutes
}

// pack walks the day list and the topic list together, emitting study
// sessions and breaks. Topics that do not fit before the end of the range
// spill onto overflow days after it; the returned bool reports that a
// safety bound was exhausted and the schedule is partial.
func pack(topics []Topic, dr dayRange) (Schedule, bool) {
	remaining := topicMinutes(topics)
	var total int
	for _, m := range remaining {
		total += m
	}
	budget := dailyBudgetMinutes(total, len(dr.days), dr.veryShort)

	var sched Schedule
	ti := 0
	dayIdx := 0
	day := dr.days[0]

	for dayCount := 0; ti < len(topics) && dayCount < maxPlanDays; dayCount++ {
		clock := dayStartMinute
		budgetLeft := budget
		var sessions []Session

		for ti < len(topics) && budgetLeft > 0 && len(sessions) < maxDaySessions {
			if remaining[ti] <= 0 {
				ti++
				continue
			}

			alloc := remaining[ti]
			if alloc > budgetLeft && clock+alloc > dayEndMinute {
				// chunk to the day's budget; the remainder spills to a
				// later day. A topic that still fits the clock is kept
				// whole instead: the budget is advisory, the ceiling is not.
				alloc = budgetLeft
			}
			if clock+alloc > dayEndMinute {
				break // would cross 21:00; close the day
			}

			sessions = append(sessions, Session{
				Topic:     topics[ti].Title,
				StartTime: clockTime(clock),
				EndTime:   clockTime(clock + alloc),
				Duration:  alloc,
			})
			clock += alloc
			budgetLeft -= alloc
			remaining[ti] -= alloc
			if remaining[ti] <= 0 {
				ti++
			}

			// break after a non-final session of the day
			if ti < len(topics) && budgetLeft > 0 {
				br := breakMinutes(alloc, dr.veryShort)
				if clock+br > dayEndMinute {
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

		if len(sessions) > 0 {
			sched = append(sched, DayEntry{Date: day.Format(dateFormat), Sessions: sessions})
		}
		if ti >= len(topics) {
			break
		}

		dayIdx++
		if dayIdx < len(dr.days) {
			day = dr.days[dayIdx]
		} else {
			// overflow days start the day after the range ends
			if day.Before(dr.end) {
				day = dr.end
			}
			day = day.AddDate(0, 0, 1)
			for !dr.veryShort && isWeekend(day) {
				day = day.AddDate(0, 0, 1)
			}
		}
	}

	return sched, ti < len(topics)
}
