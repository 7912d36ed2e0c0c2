package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"liferpg/internal/storage"
)

const minutesPerDay = 24 * 60

type CreateTimeBlockInput struct {
	UserID      string
	RoleID      *string
	Title       string
	StartMinute int
	EndMinute   int
	BlockType   string
	IsRecurring bool
	DaysOfWeek  []int
}

func (s *Service) CreateTimeBlock(ctx context.Context, in CreateTimeBlockInput) (*storage.TimeBlock, error) {
	title, err := normalizeTitle("title", in.Title)
	if err != nil {
		return nil, err
	}
	bt, err := parseBlockType(in.BlockType)
	if err != nil {
		return nil, err
	}

	b := &storage.TimeBlock{
		UserID:      in.UserID,
		RoleID:      in.RoleID,
		Title:       title,
		StartMinute: in.StartMinute,
		EndMinute:   in.EndMinute,
		DayPeriod:   DayPeriodOf(in.StartMinute),
		BlockType:   string(bt),
		IsRecurring: in.IsRecurring,
		DaysOfWeek:  in.DaysOfWeek,
		CreatedAt:   s.clock(),
	}
	if err := validateTimeBlock(b); err != nil {
		return nil, err
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
		return r.TimeBlocks.Insert(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetTimeBlock(ctx context.Context, userID string, blockID string) (*storage.TimeBlock, error) {
	return ownedTimeBlock(ctx, s.repos, userID, blockID)
}

// TimeBlockPatch holds the editable block fields. Nil fields are left unchanged.
// Setting DaysOfWeek also sets IsRecurring to whether any day is given.
type TimeBlockPatch struct {
	RoleID      *string
	Title       *string
	StartMinute *int
	EndMinute   *int
	BlockType   *string
	DaysOfWeek  *[]int
}

func (s *Service) UpdateTimeBlock(ctx context.Context, userID string, blockID string, p TimeBlockPatch) (*storage.TimeBlock, error) {
	var out *storage.TimeBlock
	err := s.withTx(ctx, func(r *storage.Repos) error {
		b, err := ownedTimeBlock(ctx, r, userID, blockID)
		if err != nil {
			return err
		}
		if p.RoleID != nil {
			if _, err := ownedRole(ctx, r, userID, *p.RoleID); err != nil {
				return err
			}
			rid := *p.RoleID
			b.RoleID = &rid
		}
		if p.Title != nil {
			title, err := normalizeTitle("title", *p.Title)
			if err != nil {
				return err
			}
			b.Title = title
		}
		if p.StartMinute != nil {
			b.StartMinute = *p.StartMinute
		}
		if p.EndMinute != nil {
			b.EndMinute = *p.EndMinute
		}
		if p.BlockType != nil {
			bt, err := parseBlockType(*p.BlockType)
			if err != nil {
				return err
			}
			b.BlockType = string(bt)
		}
		if p.DaysOfWeek != nil {
			b.DaysOfWeek = *p.DaysOfWeek
			b.IsRecurring = len(b.DaysOfWeek) > 0
		}
		b.DayPeriod = DayPeriodOf(b.StartMinute)
		if err := validateTimeBlock(b); err != nil {
			return err
		}
		if err := r.TimeBlocks.Update(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) DeleteTimeBlock(ctx context.Context, userID string, blockID string) error {
	return s.withTx(ctx, func(r *storage.Repos) error {
		if _, err := ownedTimeBlock(ctx, r, userID, blockID); err != nil {
			return err
		}
		return r.TimeBlocks.Delete(ctx, blockID)
	})
}

func parseBlockType(input string) (BlockType, error) {
	bt := BlockType(strings.ToLower(strings.TrimSpace(input)))
	if bt == "" {
		return BlockFocus, nil
	}
	if !bt.IsValid() {
		return "", ValidationError{Field: "block_type", Reason: fmt.Sprintf("invalid block type %q", input)}
	}
	return bt, nil
}

func validateTimeBlock(b *storage.TimeBlock) error {
	if b.StartMinute < 0 || b.EndMinute > minutesPerDay || b.StartMinute >= b.EndMinute {
		return ValidationError{Field: "time", Reason: "start must be before end within one day"}
	}
	for _, d := range b.DaysOfWeek {
		if d < 0 || d > 6 {
			return ValidationError{Field: "days_of_week", Reason: fmt.Sprintf("day %d outside 0..6", d)}
		}
	}
	return nil
}

func ownedTimeBlock(ctx context.Context, r *storage.Repos, userID string, blockID string) (*storage.TimeBlock, error) {
	b, err := r.TimeBlocks.Get(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if b == nil || b.UserID != userID {
		return nil, NotFoundError{Entity: "time block", ID: blockID}
	}
	return b, nil
}

func (s *Service) ListTimeBlocks(ctx context.Context, userID string) ([]storage.TimeBlock, error) {
	return s.repos.TimeBlocks.ListByUser(ctx, userID)
}

// DayPeriodOf buckets a start minute into morning, afternoon or evening.
func DayPeriodOf(startMinute int) string {
	switch {
	case startMinute < 12*60:
		return "morning"
	case startMinute < 18*60:
		return "afternoon"
	default:
		return "evening"
	}
}

// OccursOn reports whether the block is scheduled on day. One-off blocks count every day.
func OccursOn(b storage.TimeBlock, day time.Time) bool {
	if !b.IsRecurring {
		return true
	}
	wd := int(day.Weekday())
	for _, d := range b.DaysOfWeek {
		if d == wd {
			return true
		}
	}
	return false
}

// FocusHours sums the duration of focus blocks scheduled on day.
func FocusHours(blocks []storage.TimeBlock, day time.Time) float64 {
	minutes := 0
	for _, b := range blocks {
		if b.BlockType != string(BlockFocus) || !OccursOn(b, day) {
			continue
		}
		minutes += b.EndMinute - b.StartMinute
	}
	return float64(minutes) / 60
}
