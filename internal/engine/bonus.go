package engine

import (
	"context"

	"liferpg/internal/storage"
)

// GrantBonusXP pays an ad-hoc reward into a role and records it with source "bonus".
// reason is stored as the ledger source id so the grant can be traced back.
func (s *Service) GrantBonusXP(ctx context.Context, userID string, roleID string, amount int, reason string) (*CompleteResult, error) {
	if amount <= 0 {
		return nil, ValidationError{Field: "amount", Reason: "must be positive"}
	}
	sourceID, err := normalizeTitle("reason", reason)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	var (
		res    *CompleteResult
		events []Event
	)
	err = s.withTx(ctx, func(r *storage.Repos) error {
		role, err := ownedRole(ctx, r, userID, roleID)
		if err != nil {
			return err
		}
		lr, err := AddXP(role, amount, now)
		if err != nil {
			return err
		}
		if err := r.Roles.Update(ctx, role); err != nil {
			return err
		}
		rid := role.ID
		if err := r.XPLog.Insert(ctx, &storage.XPLogEntry{
			UserID:     userID,
			RoleID:     &rid,
			SourceType: string(SourceBonus),
			SourceID:   sourceID,
			XPAmount:   amount,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		res = &CompleteResult{
			XPAwarded:   amount,
			LevelBefore: lr.LevelBefore,
			LevelAfter:  lr.NewLevel,
			LevelUp:     lr.LeveledUp,
			Role:        role,
		}
		events = levelEvents(EventBonusGranted, userID, role.ID, sourceID, amount, lr, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(events...)
	return res, nil
}
