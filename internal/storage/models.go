package storage

import "time"

type User struct {
	ID        string
	Username  string
	Email     string
	Level     int
	TotalXP   int
	Mission   *string
	Vision    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role is a life domain with its own level track.
// Version is bumped on every successful update and guards concurrent writers.
type Role struct {
	ID            string
	UserID        string
	Name          string
	Description   *string
	Icon          string
	Color         string
	Level         int
	CurrentXP     int
	XPToNextLevel int
	IsActive      bool
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Quest struct {
	ID          string
	UserID      string
	RoleID      string
	Title       string
	Description *string
	XPReward    int
	Frequency   string // daily, weekly, monthly
	IsCompleted bool
	CompletedAt *time.Time
	Streak      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Objective struct {
	ID          string
	UserID      string
	RoleID      *string
	Title       string
	Description *string
	Quarter     string
	Year        int
	Status      string // pending, in_progress, completed, failed
	XPReward    int
	Deadline    *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Skill struct {
	ID            string
	RoleID        string
	Name          string
	Description   *string
	Icon          string
	CostXP        int
	CostMoney     *float64
	CostTime      *string
	IsUnlocked    bool
	IsAvailable   bool
	ParentSkillID *string
	PositionX     int
	PositionY     int
	CreatedAt     time.Time
}

// XPLogEntry is an append-only record of an XP grant.
type XPLogEntry struct {
	ID         string
	UserID     string
	RoleID     *string
	SourceType string // quest, objective, bonus
	SourceID   string
	XPAmount   int
	CreatedAt  time.Time
}

type QuestLog struct {
	ID          string
	QuestID     string
	UserID      string
	CompletedAt time.Time
	XPEarned    int
}

// TimeBlock is a planned slot of the day. Start and end are minutes since midnight.
type TimeBlock struct {
	ID          string
	UserID      string
	RoleID      *string
	Title       string
	StartMinute int
	EndMinute   int
	DayPeriod   string // morning, afternoon, evening
	BlockType   string // focus, rest, admin
	IsRecurring bool
	DaysOfWeek  []int // 0=Sunday
	CreatedAt   time.Time
}

// Investment is money, time or gear put toward a skill or objective.
type Investment struct {
	ID            string
	UserID        string
	ObjectiveID   *string
	SkillID       *string
	Title         string
	Type          string // money, time, course, tool, other
	Amount        *float64
	EstimatedTime *string
	URL           *string
	Status        string // planned, in_progress, completed
	CreatedAt     time.Time
}
