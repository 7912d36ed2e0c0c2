package engine

import (
	"context"
	"fmt"
	"time"

	"liferpg/internal/storage"
)

type CreateObjectiveInput struct {
	UserID      string
	RoleID      *string
	Title       string
	Description string
	Quarter     string
	Year        int
	XPReward    int
	Deadline    *time.Time
}

type ObjectiveCompleteResult struct {
	CompleteResult
	Objective *storage.Objective
}

func (s *Service) CreateObjective(ctx context.Context, in CreateObjectiveInput) (*storage.Objective, error) {
	title, err := normalizeTitle("title", in.Title)
	if err != nil {
		return nil, err
	}
	if in.XPReward < 0 {
		return nil, ValidationError{Field: "xp_reward", Reason: "must not be negative"}
	}

	now := s.clock()
	quarter := in.Quarter
	if quarter == "" {
		quarter = QuarterOf(now)
	}
	quarter, err = ParseQuarter(quarter)
	if err != nil {
		return nil, err
	}
	year := in.Year
	if year == 0 {
		year = now.Year()
	}

	o := &storage.Objective{
		UserID:      in.UserID,
		RoleID:      in.RoleID,
		Title:       title,
		Description: optionalString(in.Description),
		Quarter:     quarter,
		Year:        year,
		Status:      string(ObjectivePending),
		XPReward:    in.XPReward,
		Deadline:    in.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.withTx(ctx, func(r *storage.Repos) error {
		if _, err := s.requireUser(ctx, r, in.UserID); err != nil {
			return err
		}
		if in.RoleID != nil {
			if _, err := ownedRole(ctx, r, in.UserID, *in.RoleID); err != nil {
				return err
			}
		}
		return r.Objectives.Insert(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) ListObjectives(ctx context.Context, userID string, quarter string, year int) ([]storage.Objective, error) {
	if quarter != "" {
		q, err := ParseQuarter(quarter)
		if err != nil {
			return nil, err
		}
		quarter = q
	}
	return s.repos.Objectives.ListByUser(ctx, userID, quarter, year)
}

// CompleteObjective is a one-way transition. When the objective is tied to a role
// and carries a reward, the role gains XP and the ledger records it in the same tx.
func (s *Service) CompleteObjective(ctx context.Context, userID string, objectiveID string) (*ObjectiveCompleteResult, error) {
	now := s.clock()
	var (
		res    *ObjectiveCompleteResult
		events []Event
	)

	err := s.withTx(ctx, func(r *storage.Repos) error {
		o, err := ownedObjective(ctx, r, userID, objectiveID)
		if err != nil {
			return err
		}
		if o.Status == string(ObjectiveCompleted) {
			return CompletedError{Entity: "objective", ID: objectiveID}
		}

		o.Status = string(ObjectiveCompleted)
		o.CompletedAt = &now
		o.UpdatedAt = now
		res = &ObjectiveCompleteResult{Objective: o}

		if o.RoleID != nil && o.XPReward > 0 {
			role, err := ownedRole(ctx, r, userID, *o.RoleID)
			if err != nil {
				return err
			}
			lr, err := AddXP(role, o.XPReward, now)
			if err != nil {
				return err
			}
			if err := r.Roles.Update(ctx, role); err != nil {
				return err
			}
			roleID := role.ID
			if err := r.XPLog.Insert(ctx, &storage.XPLogEntry{
				UserID:     o.UserID,
				RoleID:     &roleID,
				SourceType: string(SourceObjective),
				SourceID:   o.ID,
				XPAmount:   o.XPReward,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			res.CompleteResult = CompleteResult{
				XPAwarded:   o.XPReward,
				LevelBefore: lr.LevelBefore,
				LevelAfter:  lr.NewLevel,
				LevelUp:     lr.LeveledUp,
				Role:        role,
			}
			events = levelEvents(EventObjectiveCompleted, userID, role.ID, o.ID, o.XPReward, lr, now)
		} else {
			events = []Event{{Kind: EventObjectiveCompleted, UserID: userID, SourceID: o.ID, At: now}}
		}

		return r.Objectives.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.publish(events...)
	return res, nil
}

// SetObjectiveStatus moves an objective between pending, in_progress and failed.
// Completion goes through CompleteObjective and cannot be undone here.
func (s *Service) SetObjectiveStatus(ctx context.Context, userID string, objectiveID string, status ObjectiveStatus) (*storage.Objective, error) {
	if !status.IsValid() {
		return nil, ValidationError{Field: "status", Reason: fmt.Sprintf("invalid objective status %q", status)}
	}
	if status == ObjectiveCompleted {
		return nil, ValidationError{Field: "status", Reason: "use complete to finish an objective"}
	}

	var out *storage.Objective
	err := s.withTx(ctx, func(r *storage.Repos) error {
		o, err := ownedObjective(ctx, r, userID, objectiveID)
		if err != nil {
			return err
		}
		if o.Status == string(ObjectiveCompleted) {
			return CompletedError{Entity: "objective", ID: objectiveID}
		}
		o.Status = string(status)
		o.UpdatedAt = s.clock()
		if err := r.Objectives.Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetObjective(ctx context.Context, userID string, objectiveID string) (*storage.Objective, error) {
	return ownedObjective(ctx, s.repos, userID, objectiveID)
}

// ObjectivePatch holds the editable objective fields. Nil fields are left unchanged.
type ObjectivePatch struct {
	RoleID      *string
	Title       *string
	Description *string
	Quarter     *string
	Year        *int
	XPReward    *int
	Deadline    *time.Time
}

// UpdateObjective edits an open objective. A completed objective has already paid
// out and is read-only.
func (s *Service) UpdateObjective(ctx context.Context, userID string, objectiveID string, p ObjectivePatch) (*storage.Objective, error) {
	var out *storage.Objective
	err := s.withTx(ctx, func(r *storage.Repos) error {
		o, err := ownedObjective(ctx, r, userID, objectiveID)
		if err != nil {
			return err
		}
		if o.Status == string(ObjectiveCompleted) {
			return CompletedError{Entity: "objective", ID: objectiveID}
		}
		if p.RoleID != nil {
			if _, err := ownedRole(ctx, r, userID, *p.RoleID); err != nil {
				return err
			}
			rid := *p.RoleID
			o.RoleID = &rid
		}
		if p.Title != nil {
			title, err := normalizeTitle("title", *p.Title)
			if err != nil {
				return err
			}
			o.Title = title
		}
		if p.Description != nil {
			o.Description = optionalString(*p.Description)
		}
		if p.Quarter != nil {
			q, err := ParseQuarter(*p.Quarter)
			if err != nil {
				return err
			}
			o.Quarter = q
		}
		if p.Year != nil {
			if *p.Year <= 0 {
				return ValidationError{Field: "year", Reason: "must be positive"}
			}
			o.Year = *p.Year
		}
		if p.XPReward != nil {
			if *p.XPReward < 0 {
				return ValidationError{Field: "xp_reward", Reason: "must not be negative"}
			}
			o.XPReward = *p.XPReward
		}
		if p.Deadline != nil {
			d := p.Deadline.UTC()
			o.Deadline = &d
		}
		o.UpdatedAt = s.clock()
		if err := r.Objectives.Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteObjective removes the objective. Linked investments are unlinked and
// ledger entries it produced stay.
func (s *Service) DeleteObjective(ctx context.Context, userID string, objectiveID string) error {
	return s.withTx(ctx, func(r *storage.Repos) error {
		if _, err := ownedObjective(ctx, r, userID, objectiveID); err != nil {
			return err
		}
		return r.Objectives.Delete(ctx, objectiveID)
	})
}

// QuarterOf returns "Q1".."Q4" for t.
func QuarterOf(t time.Time) string {
	return fmt.Sprintf("Q%d", (int(t.Month())-1)/3+1)
}

func ownedObjective(ctx context.Context, r *storage.Repos, userID string, objectiveID string) (*storage.Objective, error) {
	o, err := r.Objectives.Get(ctx, objectiveID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != userID {
		return nil, NotFoundError{Entity: "objective", ID: objectiveID}
	}
	return o, nil
}
