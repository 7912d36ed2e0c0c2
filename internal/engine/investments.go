package engine

import (
	"context"
	"errors"

	"liferpg/internal/storage"
)

type CreateInvestmentInput struct {
	UserID        string
	ObjectiveID   *string
	SkillID       *string
	Title         string
	Type          string
	Amount        *float64
	EstimatedTime string
	URL           string
	Status        string
}

// CreateInvestment records money, time or gear put toward a skill or objective.
// A linked skill or objective must belong to the user.
func (s *Service) CreateInvestment(ctx context.Context, in CreateInvestmentInput) (*storage.Investment, error) {
	title, err := normalizeTitle("title", in.Title)
	if err != nil {
		return nil, err
	}
	typ, err := ParseInvestmentType(in.Type)
	if err != nil {
		return nil, err
	}
	status, err := ParseInvestmentStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if in.Amount != nil && *in.Amount < 0 {
		return nil, ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	inv := &storage.Investment{
		UserID:        in.UserID,
		ObjectiveID:   in.ObjectiveID,
		SkillID:       in.SkillID,
		Title:         title,
		Type:          string(typ),
		Amount:        in.Amount,
		EstimatedTime: optionalString(in.EstimatedTime),
		URL:           optionalString(in.URL),
		Status:        string(status),
		CreatedAt:     s.clock(),
	}

	err = s.withTx(ctx, func(r *storage.Repos) error {
		if _, err := s.requireUser(ctx, r, in.UserID); err != nil {
			return err
		}
		if in.ObjectiveID != nil {
			if _, err := ownedObjective(ctx, r, in.UserID, *in.ObjectiveID); err != nil {
				return err
			}
		}
		if in.SkillID != nil {
			if _, err := ownedSkill(ctx, r, in.UserID, *in.SkillID); err != nil {
				return err
			}
		}
		return r.Investments.Insert(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) ListInvestments(ctx context.Context, userID string) ([]storage.Investment, error) {
	return s.repos.Investments.ListByUser(ctx, userID)
}

func (s *Service) DeleteInvestment(ctx context.Context, userID string, investmentID string) error {
	return s.withTx(ctx, func(r *storage.Repos) error {
		inv, err := r.Investments.Get(ctx, investmentID)
		if err != nil {
			return err
		}
		if inv == nil || inv.UserID != userID {
			return NotFoundError{Entity: "investment", ID: investmentID}
		}
		return r.Investments.Delete(ctx, investmentID)
	})
}

// ownedSkill loads a skill whose role belongs to userID. A foreign skill reads as missing.
func ownedSkill(ctx context.Context, r *storage.Repos, userID string, skillID string) (*storage.Skill, error) {
	sk, err := r.Skills.Get(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if sk == nil {
		return nil, NotFoundError{Entity: "skill", ID: skillID}
	}
	if _, err := ownedRole(ctx, r, userID, sk.RoleID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundError{Entity: "skill", ID: skillID}
		}
		return nil, err
	}
	return sk, nil
}
