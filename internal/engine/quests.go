package engine

import (
	"context"

	"liferpg/internal/storage"
)

type CreateQuestInput struct {
	UserID      string
	RoleID      string
	Title       string
	Description string
	XPReward    int
	Frequency   string
}

type CompleteResult struct {
	XPAwarded   int
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
	Role        *storage.Role
}

type QuestCompleteResult struct {
	CompleteResult
	Quest *storage.Quest
}

func (s *Service) CreateQuest(ctx context.Context, in CreateQuestInput) (*storage.Quest, error) {
	title, err := normalizeTitle("title", in.Title)
	if err != nil {
		return nil, err
	}
	if in.XPReward <= 0 {
		return nil, ValidationError{Field: "xp_reward", Reason: "must be positive"}
	}
	freq, err := ParseFrequency(in.Frequency)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	q := &storage.Quest{
		UserID:      in.UserID,
		RoleID:      in.RoleID,
		Title:       title,
		Description: optionalString(in.Description),
		XPReward:    in.XPReward,
		Frequency:   string(freq),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.withTx(ctx, func(r *storage.Repos) error {
		if _, err := ownedRole(ctx, r, in.UserID, in.RoleID); err != nil {
			return err
		}
		return r.Quests.Insert(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) GetQuest(ctx context.Context, userID string, questID string) (*storage.Quest, error) {
	return ownedQuest(ctx, s.repos, userID, questID)
}

func (s *Service) ListQuests(ctx context.Context, userID string, roleID *string) ([]storage.Quest, error) {
	return s.repos.Quests.ListByUser(ctx, userID, roleID)
}

// TodayQuests lists what is on the plate today: daily and weekly quests.
func (s *Service) TodayQuests(ctx context.Context, userID string) ([]storage.Quest, error) {
	return s.repos.Quests.ListByFrequency(ctx, userID, string(FrequencyDaily), string(FrequencyWeekly))
}

// CompleteQuest marks the quest done, bumps its streak and pays its reward into
// the owning role. Quest, role, quest log and XP ledger are written atomically.
func (s *Service) CompleteQuest(ctx context.Context, userID string, questID string) (*QuestCompleteResult, error) {
	now := s.clock()
	var (
		res    *QuestCompleteResult
		events []Event
	)

	err := s.withTx(ctx, func(r *storage.Repos) error {
		q, err := ownedQuest(ctx, r, userID, questID)
		if err != nil {
			return err
		}
		if q.IsCompleted {
			return CompletedError{Entity: "quest", ID: questID}
		}

		role, err := ownedRole(ctx, r, userID, q.RoleID)
		if err != nil {
			return err
		}
		lr, err := AddXP(role, q.XPReward, now)
		if err != nil {
			return err
		}

		q.IsCompleted = true
		q.CompletedAt = &now
		q.Streak++
		q.UpdatedAt = now

		if err := r.Quests.Update(ctx, q); err != nil {
			return err
		}
		if err := r.Roles.Update(ctx, role); err != nil {
			return err
		}
		if err := r.QuestLog.Insert(ctx, &storage.QuestLog{
			QuestID:     q.ID,
			UserID:      q.UserID,
			CompletedAt: now,
			XPEarned:    q.XPReward,
		}); err != nil {
			return err
		}
		roleID := role.ID
		if err := r.XPLog.Insert(ctx, &storage.XPLogEntry{
			UserID:     q.UserID,
			RoleID:     &roleID,
			SourceType: string(SourceQuest),
			SourceID:   q.ID,
			XPAmount:   q.XPReward,
			CreatedAt:  now,
		}); err != nil {
			return err
		}

		res = &QuestCompleteResult{
			CompleteResult: CompleteResult{
				XPAwarded:   q.XPReward,
				LevelBefore: lr.LevelBefore,
				LevelAfter:  lr.NewLevel,
				LevelUp:     lr.LeveledUp,
				Role:        role,
			},
			Quest: q,
		}
		events = levelEvents(EventQuestCompleted, userID, role.ID, q.ID, q.XPReward, lr, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(events...)
	return res, nil
}

// UncompleteQuest only reopens the quest. Streak and XP already granted stay.
func (s *Service) UncompleteQuest(ctx context.Context, userID string, questID string) (*storage.Quest, error) {
	var out *storage.Quest
	err := s.withTx(ctx, func(r *storage.Repos) error {
		q, err := ownedQuest(ctx, r, userID, questID)
		if err != nil {
			return err
		}
		q.IsCompleted = false
		q.CompletedAt = nil
		q.UpdatedAt = s.clock()
		if err := r.Quests.Update(ctx, q); err != nil {
			return err
		}
		out = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// QuestPatch holds the editable quest fields. Nil fields are left unchanged.
// Completion state only moves through CompleteQuest and UncompleteQuest.
type QuestPatch struct {
	Title       *string
	Description *string
	XPReward    *int
	Frequency   *string
}

func (s *Service) UpdateQuest(ctx context.Context, userID string, questID string, p QuestPatch) (*storage.Quest, error) {
	var out *storage.Quest
	err := s.withTx(ctx, func(r *storage.Repos) error {
		q, err := ownedQuest(ctx, r, userID, questID)
		if err != nil {
			return err
		}
		if p.Title != nil {
			title, err := normalizeTitle("title", *p.Title)
			if err != nil {
				return err
			}
			q.Title = title
		}
		if p.Description != nil {
			q.Description = optionalString(*p.Description)
		}
		if p.XPReward != nil {
			if *p.XPReward <= 0 {
				return ValidationError{Field: "xp_reward", Reason: "must be positive"}
			}
			q.XPReward = *p.XPReward
		}
		if p.Frequency != nil {
			freq, err := ParseFrequency(*p.Frequency)
			if err != nil {
				return err
			}
			q.Frequency = string(freq)
		}
		q.UpdatedAt = s.clock()
		if err := r.Quests.Update(ctx, q); err != nil {
			return err
		}
		out = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteQuest removes the quest and its completion log. XP it already paid stays
// in the role and in the ledger.
func (s *Service) DeleteQuest(ctx context.Context, userID string, questID string) error {
	return s.withTx(ctx, func(r *storage.Repos) error {
		if _, err := ownedQuest(ctx, r, userID, questID); err != nil {
			return err
		}
		return r.Quests.Delete(ctx, questID)
	})
}

// ResetDailyQuests reopens the user's completed daily quests and reports how many.
func (s *Service) ResetDailyQuests(ctx context.Context, userID string) (int, error) {
	return s.repos.Quests.ResetDaily(ctx, userID, s.clock())
}

func ownedQuest(ctx context.Context, r *storage.Repos, userID string, questID string) (*storage.Quest, error) {
	q, err := r.Quests.Get(ctx, questID)
	if err != nil {
		return nil, err
	}
	if q == nil || q.UserID != userID {
		return nil, NotFoundError{Entity: "quest", ID: questID}
	}
	return q, nil
}
