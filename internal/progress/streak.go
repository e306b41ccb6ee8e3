package progress

import (
	"sort"
	"time"
)

// DayOf truncates a timestamp to its UTC calendar day. All day math
// uses UTC so the streak is stable regardless of device timezone or DST.
func DayOf(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// ComputeStreak counts the user's consecutive completion days ending at
// today or yesterday relative to now. Multiple completions on the same
// day count once. A most recent completion older than yesterday means
// the streak is broken and yields 0.
func ComputeStreak(records []CompletionRecord, userID int, now time.Time) int {
	daySet := make(map[time.Time]bool)
	for _, r := range records {
		if r.UserID == userID {
			daySet[DayOf(r.CompletedAt)] = true
		}
	}
	if len(daySet) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})

	today := DayOf(now)
	yesterday := today.AddDate(0, 0, -1)

	mostRecent := days[0]
	if !mostRecent.Equal(today) && !mostRecent.Equal(yesterday) {
		return 0
	}

	streak := 1
	cursor := mostRecent
	for _, day := range days[1:] {
		if !day.Equal(cursor.AddDate(0, 0, -1)) {
			break
		}
		streak++
		cursor = day
	}

	return streak
}
