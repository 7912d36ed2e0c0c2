package engine

import (
	"testing"
	"time"

	"liferpg/internal/storage"
)

func entriesOn(days ...time.Time) []storage.XPLogEntry {
	out := make([]storage.XPLogEntry, 0, len(days))
	for _, d := range days {
		out = append(out, storage.XPLogEntry{CreatedAt: d})
	}
	return out
}

func TestComputeStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	day := func(back int) time.Time { return today.AddDate(0, 0, -back) }

	cases := []struct {
		name    string
		entries []storage.XPLogEntry
		want    int
	}{
		{"empty", nil, 0},
		{"today only", entriesOn(day(0)), 1},
		{"five in a row", entriesOn(day(0), day(1), day(2), day(3), day(4)), 5},
		{"yesterday grace", entriesOn(day(1), day(2)), 2},
		{"gap breaks", entriesOn(day(0), day(1), day(3), day(4)), 2},
		{"two days ago is dead", entriesOn(day(2), day(3)), 0},
		{"several entries one day", entriesOn(day(0), day(0).Add(-time.Hour), day(1)), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeStreak(ActivityDays(tc.entries), today); got != tc.want {
				t.Fatalf("streak=%d, want %d", got, tc.want)
			}
		})
	}
}

func TestDayOfUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2026, 3, 11, 5, 0, 0, 0, loc)
	if got, want := DayOf(local), time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("DayOf=%v, want %v", got, want)
	}
}
