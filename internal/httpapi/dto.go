package httpapi

import (
	"time"

	"liferpg/internal/engine"
	"liferpg/internal/storage"
)

type roleDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Icon          string    `json:"icon"`
	Color         string    `json:"color"`
	Level         int       `json:"level"`
	CurrentXP     int       `json:"currentXp"`
	XPToNextLevel int       `json:"xpToNextLevel"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toRoleDTO(r *storage.Role) roleDTO {
	return roleDTO{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Icon:          r.Icon,
		Color:         r.Color,
		Level:         r.Level,
		CurrentXP:     r.CurrentXP,
		XPToNextLevel: r.XPToNextLevel,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
	}
}

type questDTO struct {
	ID          string     `json:"id"`
	RoleID      string     `json:"roleId"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	XPReward    int        `json:"xpReward"`
	Frequency   string     `json:"frequency"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Streak      int        `json:"streak"`
}

func toQuestDTO(q *storage.Quest) questDTO {
	return questDTO{
		ID:          q.ID,
		RoleID:      q.RoleID,
		Title:       q.Title,
		Description: q.Description,
		XPReward:    q.XPReward,
		Frequency:   q.Frequency,
		IsCompleted: q.IsCompleted,
		CompletedAt: q.CompletedAt,
		Streak:      q.Streak,
	}
}

type objectiveDTO struct {
	ID          string     `json:"id"`
	RoleID      *string    `json:"roleId,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Quarter     string     `json:"quarter"`
	Year        int        `json:"year"`
	Status      string     `json:"status"`
	XPReward    int        `json:"xpReward"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func toObjectiveDTO(o *storage.Objective) objectiveDTO {
	return objectiveDTO{
		ID:          o.ID,
		RoleID:      o.RoleID,
		Title:       o.Title,
		Description: o.Description,
		Quarter:     o.Quarter,
		Year:        o.Year,
		Status:      o.Status,
		XPReward:    o.XPReward,
		Deadline:    o.Deadline,
		CompletedAt: o.CompletedAt,
	}
}

type skillDTO struct {
	ID            string   `json:"id"`
	RoleID        string   `json:"roleId"`
	Name          string   `json:"name"`
	Description   *string  `json:"description,omitempty"`
	Icon          string   `json:"icon"`
	CostXP        int      `json:"costXp"`
	CostMoney     *float64 `json:"costMoney,omitempty"`
	CostTime      *string  `json:"costTime,omitempty"`
	IsUnlocked    bool     `json:"isUnlocked"`
	IsAvailable   bool     `json:"isAvailable"`
	ParentSkillID *string  `json:"parentSkillId,omitempty"`
	PositionX     int      `json:"positionX"`
	PositionY     int      `json:"positionY"`
}

func toSkillDTO(s *storage.Skill) skillDTO {
	return skillDTO{
		ID:            s.ID,
		RoleID:        s.RoleID,
		Name:          s.Name,
		Description:   s.Description,
		Icon:          s.Icon,
		CostXP:        s.CostXP,
		CostMoney:     s.CostMoney,
		CostTime:      s.CostTime,
		IsUnlocked:    s.IsUnlocked,
		IsAvailable:   s.IsAvailable,
		ParentSkillID: s.ParentSkillID,
		PositionX:     s.PositionX,
		PositionY:     s.PositionY,
	}
}

type completionDTO struct {
	XPAwarded   int      `json:"xpAwarded"`
	LevelBefore int      `json:"levelBefore"`
	LevelAfter  int      `json:"levelAfter"`
	LevelUp     bool     `json:"levelUp"`
	Role        *roleDTO `json:"role,omitempty"`
}

func toCompletionDTO(r engine.CompleteResult) completionDTO {
	out := completionDTO{
		XPAwarded:   r.XPAwarded,
		LevelBefore: r.LevelBefore,
		LevelAfter:  r.LevelAfter,
		LevelUp:     r.LevelUp,
	}
	if r.Role != nil {
		role := toRoleDTO(r.Role)
		out.Role = &role
	}
	return out
}

type timeBlockDTO struct {
	ID          string  `json:"id"`
	RoleID      *string `json:"roleId,omitempty"`
	Title       string  `json:"title"`
	StartMinute int     `json:"startMinute"`
	EndMinute   int     `json:"endMinute"`
	DayPeriod   string  `json:"dayPeriod"`
	BlockType   string  `json:"blockType"`
	IsRecurring bool    `json:"isRecurring"`
	DaysOfWeek  []int   `json:"daysOfWeek,omitempty"`
}

func toTimeBlockDTO(b *storage.TimeBlock) timeBlockDTO {
	return timeBlockDTO{
		ID:          b.ID,
		RoleID:      b.RoleID,
		Title:       b.Title,
		StartMinute: b.StartMinute,
		EndMinute:   b.EndMinute,
		DayPeriod:   b.DayPeriod,
		BlockType:   b.BlockType,
		IsRecurring: b.IsRecurring,
		DaysOfWeek:  b.DaysOfWeek,
	}
}

type xpEntryDTO struct {
	ID         string    `json:"id"`
	RoleID     *string   `json:"roleId,omitempty"`
	SourceType string    `json:"sourceType"`
	SourceID   string    `json:"sourceId"`
	XPAmount   int       `json:"xpAmount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toXPEntryDTO(e *storage.XPLogEntry) xpEntryDTO {
	return xpEntryDTO{
		ID:         e.ID,
		RoleID:     e.RoleID,
		SourceType: e.SourceType,
		SourceID:   e.SourceID,
		XPAmount:   e.XPAmount,
		CreatedAt:  e.CreatedAt,
	}
}

type statsDTO struct {
	Level           int     `json:"level"`
	CurrentXP       int     `json:"currentXp"`
	XPToNextLevel   int     `json:"xpToNextLevel"`
	GlobalStreak    int     `json:"globalStreak"`
	FocusHoursToday float64 `json:"focusHoursToday"`
	ActiveRoles     int     `json:"activeRoles"`
}

func mapSlice[T any, D any](in []T, fn func(*T) D) []D {
	out := make([]D, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}

type userDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Level     int       `json:"level"`
	TotalXP   int       `json:"totalXp"`
	Mission   *string   `json:"mission,omitempty"`
	Vision    *string   `json:"vision,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserDTO(u *storage.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Level:     u.Level,
		TotalXP:   u.TotalXP,
		Mission:   u.Mission,
		Vision:    u.Vision,
		CreatedAt: u.CreatedAt,
	}
}

type investmentDTO struct {
	ID            string    `json:"id"`
	ObjectiveID   *string   `json:"objectiveId,omitempty"`
	SkillID       *string   `json:"skillId,omitempty"`
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	Amount        *float64  `json:"amount,omitempty"`
	EstimatedTime *string   `json:"estimatedTime,omitempty"`
	URL           *string   `json:"url,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toInvestmentDTO(inv *storage.Investment) investmentDTO {
	return investmentDTO{
		ID:            inv.ID,
		ObjectiveID:   inv.ObjectiveID,
		SkillID:       inv.SkillID,
		Title:         inv.Title,
		Type:          inv.Type,
		Amount:        inv.Amount,
		EstimatedTime: inv.EstimatedTime,
		URL:           inv.URL,
		Status:        inv.Status,
		CreatedAt:     inv.CreatedAt,
	}
}
