package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// liferpg theme (CLI + TUI).

const (
	IconRole    = "🎭"
	IconQuest   = "🗺️"
	IconTarget  = "🎯"
	IconSkill   = "🌳"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconUndo    = "↩️"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconFire    = "🔥"
	IconClock   = "⏱️"
	IconLock    = "🔒"
	IconOpen    = "🔓"
	IconError   = "🧨"
	IconLoop    = "🔁"
	IconGift    = "🎁"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// ObjectiveStatus colors an objective status.
func ObjectiveStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed":
		return Good.Render("completed")
	case "in_progress":
		return H2.Render("in progress")
	case "pending":
		return Warn.Render("pending")
	case "failed":
		return Bad.Render("failed")
	default:
		return Muted.Render(status)
	}
}

// SkillState renders the lock state of a skill node.
func SkillState(unlocked bool, available bool) string {
	switch {
	case unlocked:
		return Good.Render(IconOpen + " unlocked")
	case available:
		return Warn.Render(IconSparkle + " available")
	default:
		return Muted.Render(IconLock + " locked")
	}
}

// FrequencyIcon marks recurring quests.
func FrequencyIcon(freq string) string {
	switch freq {
	case "weekly", "monthly":
		return IconLoop
	default:
		return IconQuest
	}
}

// XPBar draws a fixed-width bar for current/required XP.
func XPBar(current int, required int, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := 0
	if required > 0 {
		filled = current * width / required
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

// LevelLine summarizes a role's progress on one line.
func LevelLine(level int, current int, required int) string {
	return fmt.Sprintf("%s %s %s", Gold.Render(fmt.Sprintf("Lv %d", level)), XPBar(current, required, 20), Muted.Render(fmt.Sprintf("%d/%d XP", current, required)))
}
