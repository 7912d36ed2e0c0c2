package engine

import "liferpg/internal/storage"

type UnlockResult struct {
	Skill            *storage.Skill
	UnlockedChildren []*storage.Skill
}

// InitialAvailability is the creation rule: roots start available, children start
// unavailable even when their parent is already unlocked.
func InitialAvailability(parentSkillID *string) bool {
	return parentSkillID == nil
}

// UnlockSkill unlocks skill and makes its direct children available. roleSkills is
// the skill's role forest; matching children are mutated in place and returned.
// Grandchildren are left alone until their own parent unlocks. Costs are not deducted.
func UnlockSkill(skill *storage.Skill, roleSkills []storage.Skill) (*UnlockResult, error) {
	if skill == nil {
		return nil, InvariantError{Reason: "nil skill"}
	}
	if skill.IsUnlocked {
		return nil, ErrAlreadyUnlocked
	}
	if !skill.IsAvailable {
		return nil, ErrNotAvailable
	}

	skill.IsUnlocked = true

	res := &UnlockResult{Skill: skill}
	for i := range roleSkills {
		child := &roleSkills[i]
		if child.ParentSkillID == nil || *child.ParentSkillID != skill.ID {
			continue
		}
		child.IsAvailable = true
		res.UnlockedChildren = append(res.UnlockedChildren, child)
	}
	return res, nil
}
