package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"liferpg/internal/engine"
	"liferpg/internal/storage"
)

func ptr(s string) *string { return &s }

func loadedBoard(t *testing.T) boardModel {
	t.Helper()
	m := newBoardModel(context.Background(), nil, "u1")
	next, _ := m.Update(loadedMsg{
		stats: &engine.Stats{Level: 1, TotalXP: 40, GlobalStreak: 3},
		roles: []storage.Role{
			{ID: "r1", Name: "Athlete", Level: 2, CurrentXP: 40, XPToNextLevel: 300},
			{ID: "r2", Name: "Writer", Level: 1, XPToNextLevel: 150},
		},
		quests: []storage.Quest{
			{ID: "q1", RoleID: "r1", Title: "Run", XPReward: 20, Frequency: "daily"},
			{ID: "q2", RoleID: "r1", Title: "Stretch", XPReward: 10, Frequency: "daily", IsCompleted: true},
			{ID: "q3", RoleID: "r2", Title: "Write", XPReward: 30, Frequency: "weekly"},
		},
		skills: []storage.Skill{
			{ID: "s1", RoleID: "r1", Name: "Endurance", IsAvailable: true, IsUnlocked: true},
			{ID: "s2", RoleID: "r1", Name: "Marathon", ParentSkillID: ptr("s1"), IsAvailable: true},
			{ID: "s3", RoleID: "r1", Name: "Ultra", ParentSkillID: ptr("s2")},
		},
	})
	return next.(boardModel)
}

func key(m boardModel, k string) boardModel {
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, _ := m.Update(msg)
	return next.(boardModel)
}

func TestBoardFiltersQuestsByRole(t *testing.T) {
	m := loadedBoard(t)
	if got := len(m.roleQuests()); got != 2 {
		t.Fatalf("role quests=%d, want 2", got)
	}
	m = key(m, "l")
	if qs := m.roleQuests(); len(qs) != 1 || qs[0].ID != "q3" {
		t.Fatalf("role quests after switch=%v", qs)
	}
}

func TestBoardCompleteSkipsDoneQuest(t *testing.T) {
	m := loadedBoard(t)
	m = key(m, "j")
	m = key(m, "c")
	if m.lastLog != "Already done." {
		t.Fatalf("lastLog=%q", m.lastLog)
	}
}

func TestBoardSkillTreeWalk(t *testing.T) {
	m := loadedBoard(t)
	m = key(m, "tab")

	lines := m.skillLines()
	if len(lines) != 2 || lines[1].depth != 1 {
		t.Fatalf("lines=%+v, want unlocked root expanded with one child", lines)
	}

	m = key(m, "j")
	m = key(m, "enter")
	lines = m.skillLines()
	if len(lines) != 3 || lines[2].name != "Ultra" {
		t.Fatalf("lines=%+v, want grandchild after expand", lines)
	}

	m = key(m, "j")
	m = key(m, "u")
	if !strings.HasPrefix(m.lastLog, "Locked") {
		t.Fatalf("lastLog=%q", m.lastLog)
	}

	m = key(m, "k")
	m = key(m, "k")
	m = key(m, "u")
	if m.lastLog != "Already unlocked." {
		t.Fatalf("lastLog=%q", m.lastLog)
	}
}

func TestBoardView(t *testing.T) {
	m := loadedBoard(t)
	view := m.View()
	for _, want := range []string{"Level 1", "Streak 3", "Athlete L2", "Run"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(5, 10, 10); got != "[#####-----]" {
		t.Fatalf("progressBar=%q", got)
	}
	if got := progressBar(50, 10, 4); got != "[####]" {
		t.Fatalf("overfull progressBar=%q", got)
	}
}
