package engine

import (
	"context"

	"liferpg/internal/storage"
)

// MaxActiveRoles is the number of roles a user may have active at once.
const MaxActiveRoles = 7

type CreateRoleInput struct {
	UserID      string
	Name        string
	Description string
	Icon        string
	Color       string
}

func (s *Service) CreateRole(ctx context.Context, in CreateRoleInput) (*storage.Role, error) {
	name, err := normalizeTitle("name", in.Name)
	if err != nil {
		return nil, err
	}
	icon := in.Icon
	if icon == "" {
		icon = "circle"
	}
	color := in.Color
	if color == "" {
		color = "bg-slate-500"
	}

	now := s.clock()
	role := &storage.Role{
		UserID:      in.UserID,
		Name:        name,
		Description: optionalString(in.Description),
		Icon:        icon,
		Color:       color,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	NewRoleProgress(role)

	err = s.withTx(ctx, func(r *storage.Repos) error {
		if _, err := s.requireUser(ctx, r, in.UserID); err != nil {
			return err
		}
		active, err := r.Roles.CountActive(ctx, in.UserID)
		if err != nil {
			return err
		}
		if active >= MaxActiveRoles {
			return CapacityError{Limit: MaxActiveRoles}
		}
		return r.Roles.Insert(ctx, role)
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (s *Service) GetRole(ctx context.Context, userID string, roleID string) (*storage.Role, error) {
	return ownedRole(ctx, s.repos, userID, roleID)
}

func (s *Service) ListRoles(ctx context.Context, userID string, activeOnly bool) ([]storage.Role, error) {
	return s.repos.Roles.ListByUser(ctx, userID, activeOnly)
}

// SetRoleActive toggles a role. Reactivating counts against MaxActiveRoles.
func (s *Service) SetRoleActive(ctx context.Context, userID string, roleID string, active bool) (*storage.Role, error) {
	var out *storage.Role
	err := s.withTx(ctx, func(r *storage.Repos) error {
		role, err := ownedRole(ctx, r, userID, roleID)
		if err != nil {
			return err
		}
		if role.IsActive == active {
			out = role
			return nil
		}
		if active {
			n, err := r.Roles.CountActive(ctx, userID)
			if err != nil {
				return err
			}
			if n >= MaxActiveRoles {
				return CapacityError{Limit: MaxActiveRoles}
			}
		}
		role.IsActive = active
		role.UpdatedAt = s.clock()
		if err := r.Roles.Update(ctx, role); err != nil {
			return err
		}
		out = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) requireUser(ctx context.Context, r *storage.Repos, userID string) (*storage.User, error) {
	u, err := r.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NotFoundError{Entity: "user", ID: userID}
	}
	return u, nil
}
