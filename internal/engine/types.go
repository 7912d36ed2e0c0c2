package engine

import (
	"fmt"
	"strings"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

func ParseFrequency(input string) (Frequency, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return FrequencyDaily, nil
	}
	f := Frequency(s)
	if !f.IsValid() {
		return "", ValidationError{Field: "frequency", Reason: fmt.Sprintf("invalid frequency %q", input)}
	}
	return f, nil
}

type ObjectiveStatus string

const (
	ObjectivePending    ObjectiveStatus = "pending"
	ObjectiveInProgress ObjectiveStatus = "in_progress"
	ObjectiveCompleted  ObjectiveStatus = "completed"
	ObjectiveFailed     ObjectiveStatus = "failed"
)

func (s ObjectiveStatus) IsValid() bool {
	switch s {
	case ObjectivePending, ObjectiveInProgress, ObjectiveCompleted, ObjectiveFailed:
		return true
	default:
		return false
	}
}

func ParseObjectiveStatus(input string) (ObjectiveStatus, error) {
	s := ObjectiveStatus(strings.TrimSpace(strings.ToLower(strings.ReplaceAll(input, "-", "_"))))
	if !s.IsValid() {
		return "", ValidationError{Field: "status", Reason: fmt.Sprintf("invalid objective status %q", input)}
	}
	return s, nil
}

// SourceType names what granted an XP ledger entry.
type SourceType string

const (
	SourceQuest     SourceType = "quest"
	SourceObjective SourceType = "objective"
	SourceBonus     SourceType = "bonus"
)

type BlockType string

const (
	BlockFocus BlockType = "focus"
	BlockRest  BlockType = "rest"
	BlockAdmin BlockType = "admin"
)

func (b BlockType) IsValid() bool {
	switch b {
	case BlockFocus, BlockRest, BlockAdmin:
		return true
	default:
		return false
	}
}

// ParseQuarter accepts "q1".."Q4" or "1".."4".
func ParseQuarter(input string) (string, error) {
	s := strings.TrimSpace(strings.ToUpper(input))
	if len(s) == 1 {
		s = "Q" + s
	}
	switch s {
	case "Q1", "Q2", "Q3", "Q4":
		return s, nil
	default:
		return "", ValidationError{Field: "quarter", Reason: fmt.Sprintf("invalid quarter %q", input)}
	}
}

type InvestmentType string

const (
	InvestmentMoney  InvestmentType = "money"
	InvestmentTime   InvestmentType = "time"
	InvestmentCourse InvestmentType = "course"
	InvestmentTool   InvestmentType = "tool"
	InvestmentOther  InvestmentType = "other"
)

func ParseInvestmentType(input string) (InvestmentType, error) {
	t := InvestmentType(strings.TrimSpace(strings.ToLower(input)))
	switch t {
	case "":
		return InvestmentMoney, nil
	case InvestmentMoney, InvestmentTime, InvestmentCourse, InvestmentTool, InvestmentOther:
		return t, nil
	default:
		return "", ValidationError{Field: "type", Reason: fmt.Sprintf("invalid investment type %q", input)}
	}
}

type InvestmentStatus string

const (
	InvestmentPlanned    InvestmentStatus = "planned"
	InvestmentInProgress InvestmentStatus = "in_progress"
	InvestmentCompleted  InvestmentStatus = "completed"
)

func ParseInvestmentStatus(input string) (InvestmentStatus, error) {
	s := InvestmentStatus(strings.TrimSpace(strings.ToLower(strings.ReplaceAll(input, "-", "_"))))
	switch s {
	case "":
		return InvestmentPlanned, nil
	case InvestmentPlanned, InvestmentInProgress, InvestmentCompleted:
		return s, nil
	default:
		return "", ValidationError{Field: "status", Reason: fmt.Sprintf("invalid investment status %q", input)}
	}
}
