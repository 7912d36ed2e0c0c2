package engine

import (
	"context"

	"liferpg/internal/storage"
)

type Stats struct {
	Level           int
	TotalXP         int
	XPToNextLevel   int
	GlobalStreak    int
	FocusHoursToday float64
	ActiveRoles     int
}

// DashboardStats aggregates the headline numbers. TotalXP sums the current XP of
// every role; the streak reads the ledger over StreakLookback.
func (s *Service) DashboardStats(ctx context.Context, userID string) (*Stats, error) {
	now := s.clock()

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	roles, err := s.repos.Roles.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	entries, err := s.repos.XPLog.ListSince(ctx, userID, now.Add(-StreakLookback))
	if err != nil {
		return nil, err
	}
	blocks, err := s.repos.TimeBlocks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Level:           user.Level,
		// XPToNextLevel follows the user's profile level, which roles never raise.
		XPToNextLevel:   XPRequiredForLevel(user.Level),
		GlobalStreak:    ComputeStreak(ActivityDays(entries), now),
		FocusHoursToday: FocusHours(blocks, now),
	}
	for _, r := range roles {
		stats.TotalXP += r.CurrentXP
		if r.IsActive {
			stats.ActiveRoles++
		}
	}
	return stats, nil
}

// RecentXP returns the latest ledger entries, newest first.
func (s *Service) RecentXP(ctx context.Context, userID string, limit int) ([]storage.XPLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repos.XPLog.ListRecent(ctx, userID, limit)
}
