package engine

import (
	"context"
	"fmt"

	"liferpg/internal/storage"
)

type CreateSkillInput struct {
	UserID        string
	RoleID        string
	Name          string
	Description   string
	Icon          string
	CostXP        int
	CostMoney     *float64
	CostTime      string
	ParentSkillID *string
	PositionX     int
	PositionY     int
}

// CreateSkill adds a node to a role's skill tree. A parent must belong to the same role.
func (s *Service) CreateSkill(ctx context.Context, in CreateSkillInput) (*storage.Skill, error) {
	name, err := normalizeTitle("name", in.Name)
	if err != nil {
		return nil, err
	}
	if in.CostXP < 0 {
		return nil, ValidationError{Field: "cost_xp", Reason: "must not be negative"}
	}
	if in.CostMoney != nil && *in.CostMoney < 0 {
		return nil, ValidationError{Field: "cost_money", Reason: "must not be negative"}
	}
	icon := in.Icon
	if icon == "" {
		icon = "star"
	}

	sk := &storage.Skill{
		RoleID:        in.RoleID,
		Name:          name,
		Description:   optionalString(in.Description),
		Icon:          icon,
		CostXP:        in.CostXP,
		CostMoney:     in.CostMoney,
		CostTime:      optionalString(in.CostTime),
		IsAvailable:   InitialAvailability(in.ParentSkillID),
		ParentSkillID: in.ParentSkillID,
		PositionX:     in.PositionX,
		PositionY:     in.PositionY,
		CreatedAt:     s.clock(),
	}

	err = s.withTx(ctx, func(r *storage.Repos) error {
		if _, err := ownedRole(ctx, r, in.UserID, in.RoleID); err != nil {
			return err
		}
		if in.ParentSkillID != nil {
			parent, err := r.Skills.Get(ctx, *in.ParentSkillID)
			if err != nil {
				return err
			}
			if parent == nil || parent.RoleID != in.RoleID {
				return InvariantError{Reason: fmt.Sprintf("parent skill %s is not in role %s", *in.ParentSkillID, in.RoleID)}
			}
		}
		return r.Skills.Insert(ctx, sk)
	})
	if err != nil {
		return nil, err
	}
	return sk, nil
}

func (s *Service) GetSkill(ctx context.Context, userID string, skillID string) (*storage.Skill, error) {
	return ownedSkill(ctx, s.repos, userID, skillID)
}

// ListSkills returns one role's tree, or every tree the user owns when roleID is nil.
func (s *Service) ListSkills(ctx context.Context, userID string, roleID *string) ([]storage.Skill, error) {
	if roleID == nil {
		return s.repos.Skills.ListByUser(ctx, userID)
	}
	if _, err := ownedRole(ctx, s.repos, userID, *roleID); err != nil {
		return nil, err
	}
	return s.repos.Skills.ListByRole(ctx, *roleID)
}

// UnlockSkill unlocks an available skill and opens up its direct children.
func (s *Service) UnlockSkill(ctx context.Context, userID string, skillID string) (*UnlockResult, error) {
	now := s.clock()
	var (
		res    *UnlockResult
		roleID string
	)

	err := s.withTx(ctx, func(r *storage.Repos) error {
		sk, err := ownedSkill(ctx, r, userID, skillID)
		if err != nil {
			return err
		}
		roleID = sk.RoleID

		tree, err := r.Skills.ListByRole(ctx, sk.RoleID)
		if err != nil {
			return err
		}
		res, err = UnlockSkill(sk, tree)
		if err != nil {
			return err
		}

		if err := r.Skills.UpdateState(ctx, res.Skill); err != nil {
			return err
		}
		for _, child := range res.UnlockedChildren {
			if err := r.Skills.UpdateState(ctx, child); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(Event{Kind: EventSkillUnlocked, UserID: userID, RoleID: roleID, SourceID: skillID, At: now})
	return res, nil
}
