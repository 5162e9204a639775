package studyplan

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildDayRange(t *testing.T) {
	tests := []struct {
		name          string
		start, end    time.Time
		wantTotal     int
		wantVeryShort bool
		wantDays      []time.Time
	}{
		{
			name:  "single weekday",
			start: date(2024, time.January, 1), end: date(2024, time.January, 1), // Mon
			wantTotal: 1, wantVeryShort: true,
			wantDays: []time.Time{date(2024, time.January, 1)},
		},
		{
			name:  "two day weekend range includes weekend",
			start: date(2024, time.January, 6), end: date(2024, time.January, 7), // Sat..Sun
			wantTotal: 2, wantVeryShort: true,
			wantDays: []time.Time{date(2024, time.January, 6), date(2024, time.January, 7)},
		},
		{
			name:  "week excludes weekend",
			start: date(2024, time.January, 1), end: date(2024, time.January, 7), // Mon..Sun
			wantTotal: 7, wantVeryShort: false,
			wantDays: []time.Time{
				date(2024, time.January, 1), date(2024, time.January, 2), date(2024, time.January, 3),
				date(2024, time.January, 4), date(2024, time.January, 5),
			},
		},
		{
			name:  "friday through sunday keeps only friday",
			start: date(2024, time.January, 5), end: date(2024, time.January, 7), // Fri..Sun
			wantTotal: 3, wantVeryShort: false,
			wantDays: []time.Time{date(2024, time.January, 5)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr := buildDayRange(tt.start, tt.end)
			if dr.totalDays != tt.wantTotal {
				t.Errorf("totalDays = %d; want %d", dr.totalDays, tt.wantTotal)
			}
			if dr.veryShort != tt.wantVeryShort {
				t.Errorf("veryShort = %t; want %t", dr.veryShort, tt.wantVeryShort)
			}
			if len(dr.days) != len(tt.wantDays) {
				t.Fatalf("days = %v; want %v", dr.days, tt.wantDays)
			}
			for i, d := range dr.days {
				if !d.Equal(tt.wantDays[i]) {
					t.Errorf("days[%d] = %s; want %s", i, d, tt.wantDays[i])
				}
			}
		})
	}
}

func TestDailyBudgetMinutes(t *testing.T) {
	tests := []struct {
		name       string
		totalHours float64
		days       int
		veryShort  bool
		want       int // minutes
	}{
		{name: "naive below cap", totalHours: 4, days: 4, veryShort: false, want: 60},
		{name: "small total capped at 3h", totalHours: 10, days: 2, veryShort: false, want: 3 * 60},
		{name: "medium total capped at 4h", totalHours: 20, days: 2, veryShort: false, want: 4 * 60},
		{name: "large total capped at 5h", totalHours: 40, days: 2, veryShort: false, want: 5 * 60},
		{name: "huge total capped at 6h", totalHours: 41, days: 2, veryShort: false, want: 6 * 60},
		{name: "very short range capped at 6h", totalHours: 10, days: 1, veryShort: true, want: 6 * 60},
		{name: "very short range naive below cap", totalHours: 4, days: 2, veryShort: true, want: 2 * 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dailyBudgetMinutes(int(tt.totalHours*60), tt.days, tt.veryShort)
			if got != tt.want {
				t.Errorf("dailyBudgetMinutes() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestBreakMinutes(t *testing.T) {
	tests := []struct {
		session   int
		veryShort bool
		want      int
	}{
		{30, false, 5},
		{60, false, 10},
		{90, false, 15},
		{91, false, 20},
		{60, true, 5},
		{120, true, 10},
		{121, true, 15},
	}
	for _, tt := range tests {
		if got := breakMinutes(tt.session, tt.veryShort); got != tt.want {
			t.Errorf("breakMinutes(%d, %t) = %d; want %d", tt.session, tt.veryShort, got, tt.want)
		}
	}
}
