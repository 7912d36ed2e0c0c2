package root

import (
	"strings"
	"testing"

	"liferpg/internal/storage"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{"00:00": 0, "09:30": 570, "24:00": 1440}
	for in, want := range cases {
		got, err := parseClock(in)
		if err != nil {
			t.Fatalf("parseClock(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("parseClock(%q)=%d, want %d", in, got, want)
		}
	}
	for _, bad := range []string{"9", "25:00", "24:30", "ab:cd", "10:60"} {
		if _, err := parseClock(bad); err == nil {
			t.Fatalf("parseClock(%q) expected error", bad)
		}
	}
	if got := formatClock(570); got != "09:30" {
		t.Fatalf("formatClock=%q", got)
	}
}

func TestParseDays(t *testing.T) {
	got, err := parseDays("1, 3,5")
	if err != nil {
		t.Fatalf("parseDays: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 5 {
		t.Fatalf("parseDays=%v", got)
	}
	if got, _ := parseDays(""); got != nil {
		t.Fatalf("empty days=%v, want nil", got)
	}
	if _, err := parseDays("7"); err == nil {
		t.Fatalf("expected error for day 7")
	}
}

func TestSkillTreeIndentsChildren(t *testing.T) {
	root := "a"
	lines := skillTree([]storage.Skill{
		{ID: "a", Name: "Base", IsAvailable: true},
		{ID: "b", Name: "Next", ParentSkillID: &root},
	})
	if len(lines) != 2 {
		t.Fatalf("lines=%d, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "- Base") || !strings.HasPrefix(lines[1], "  - Next") {
		t.Fatalf("lines=%q", lines)
	}
}
