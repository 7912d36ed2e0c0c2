package engine

import (
	"fmt"
	"time"

	"liferpg/internal/storage"
)

type LevelResult struct {
	LeveledUp   bool
	LevelBefore int
	NewLevel    int
	RemainingXP int
}

// AddXP applies amount to the role and resolves every level-up it pays for.
// At MaxLevel the excess stays in CurrentXP. It mutates the role in place and
// does not persist or log anything; the caller writes the role and the ledger
// entry in one transaction and must not call AddXP again for the same grant.
func AddXP(role *storage.Role, amount int, now time.Time) (LevelResult, error) {
	if role == nil {
		return LevelResult{}, InvariantError{Reason: "nil role"}
	}
	if amount <= 0 {
		return LevelResult{}, InvariantError{Reason: fmt.Sprintf("xp amount must be positive, got %d", amount)}
	}
	if role.Level < 1 || role.Level > MaxLevel {
		return LevelResult{}, InvariantError{Reason: fmt.Sprintf("role %s has level %d outside [1,%d]", role.ID, role.Level, MaxLevel)}
	}
	if role.CurrentXP < 0 {
		return LevelResult{}, InvariantError{Reason: fmt.Sprintf("role %s has negative xp %d", role.ID, role.CurrentXP)}
	}
	if role.XPToNextLevel <= 0 {
		role.XPToNextLevel = XPRequiredForLevel(role.Level)
	}

	res := LevelResult{LevelBefore: role.Level}
	role.CurrentXP += amount
	for role.CurrentXP >= role.XPToNextLevel && role.Level < MaxLevel {
		role.CurrentXP -= role.XPToNextLevel
		role.Level++
		role.XPToNextLevel = XPRequiredForLevel(role.Level)
		res.LeveledUp = true
	}
	role.UpdatedAt = now

	res.NewLevel = role.Level
	res.RemainingXP = role.CurrentXP
	return res, nil
}

// NewRoleProgress sets a fresh role to level 1 with the matching threshold.
func NewRoleProgress(role *storage.Role) {
	role.Level = 1
	role.CurrentXP = 0
	role.XPToNextLevel = XPRequiredForLevel(1)
}
