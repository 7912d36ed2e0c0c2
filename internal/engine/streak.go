package engine

import (
	"time"

	"liferpg/internal/storage"
)

// StreakLookback bounds how much ledger history feeds the streak.
const StreakLookback = 365 * 24 * time.Hour

// DayOf truncates t to midnight UTC.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ActivityDays reduces ledger entries to the distinct UTC days they fall on.
func ActivityDays(entries []storage.XPLogEntry) map[time.Time]bool {
	days := make(map[time.Time]bool, len(entries))
	for _, e := range entries {
		days[DayOf(e.CreatedAt)] = true
	}
	return days
}

// ComputeStreak counts consecutive active days ending at asOf. A quiet asOf does
// not break a streak that was alive yesterday; it just isn't counted yet.
func ComputeStreak(days map[time.Time]bool, asOf time.Time) int {
	cursor := DayOf(asOf)
	if !days[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
		if !days[cursor] {
			return 0
		}
	}

	streak := 0
	for days[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}
