package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"liferpg/internal/storage"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestService(t *testing.T, opts ...Option) (*Service, *testClock, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	svc := NewService(db, opts...)
	cleanup := func() {
		_ = db.Close()
	}
	return svc, clock, cleanup
}

func mainUser(t *testing.T, svc *Service) *storage.User {
	t.Helper()
	u, err := svc.MainUser(context.Background())
	if err != nil {
		t.Fatalf("main user: %v", err)
	}
	return u
}

func mustRole(t *testing.T, svc *Service, userID string, name string) *storage.Role {
	t.Helper()
	r, err := svc.CreateRole(context.Background(), CreateRoleInput{UserID: userID, Name: name})
	if err != nil {
		t.Fatalf("CreateRole %s: %v", name, err)
	}
	return r
}

func mustQuest(t *testing.T, svc *Service, userID string, roleID string, xp int, freq string) *storage.Quest {
	t.Helper()
	q, err := svc.CreateQuest(context.Background(), CreateQuestInput{
		UserID: userID, RoleID: roleID, Title: "Run 5k", XPReward: xp, Frequency: freq,
	})
	if err != nil {
		t.Fatalf("CreateQuest: %v", err)
	}
	return q
}

func TestMainUserIsStable(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	a := mainUser(t, svc)
	b := mainUser(t, svc)
	if a.ID != b.ID {
		t.Fatalf("main user recreated: %s vs %s", a.ID, b.ID)
	}
	if a.Level != 1 {
		t.Fatalf("level=%d, want 1", a.Level)
	}
}

func TestCompleteQuestAwardsXPAndLogs(t *testing.T) {
	var got []Event
	svc, _, cleanup := newTestService(t, WithListeners(ListenerFunc(func(e Event) { got = append(got, e) })))
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Athlete")
	q := mustQuest(t, svc, u.ID, role.ID, 200, "daily")

	res, err := svc.CompleteQuest(ctx, u.ID, q.ID)
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	if !res.LevelUp || res.LevelBefore != 1 || res.LevelAfter != 2 || res.XPAwarded != 200 {
		t.Fatalf("unexpected result %+v", res.CompleteResult)
	}

	stored, err := svc.GetRole(ctx, u.ID, role.ID)
	if err != nil {
		t.Fatalf("GetRole: %v", err)
	}
	if stored.Level != 2 || stored.CurrentXP != 50 || stored.XPToNextLevel != 300 {
		t.Fatalf("role level=%d xp=%d next=%d", stored.Level, stored.CurrentXP, stored.XPToNextLevel)
	}

	qs, err := svc.GetQuest(ctx, u.ID, q.ID)
	if err != nil {
		t.Fatalf("GetQuest: %v", err)
	}
	if !qs.IsCompleted || qs.Streak != 1 || qs.CompletedAt == nil {
		t.Fatalf("quest not completed: %+v", qs)
	}

	entries, err := svc.Repos().XPLog.ListBySource(ctx, string(SourceQuest), q.ID)
	if err != nil {
		t.Fatalf("ListBySource: %v", err)
	}
	if len(entries) != 1 || entries[0].XPAmount != 200 || entries[0].RoleID == nil || *entries[0].RoleID != role.ID {
		t.Fatalf("ledger=%+v", entries)
	}
	logs, err := svc.Repos().QuestLog.ListByQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("ListByQuest: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("quest logs=%d, want 1", len(logs))
	}

	if len(got) != 2 || got[0].Kind != EventQuestCompleted || got[1].Kind != EventLevelUp || got[1].Level != 2 {
		t.Fatalf("events=%+v", got)
	}
}

func TestCompleteQuestTwiceFails(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Writer")
	q := mustQuest(t, svc, u.ID, role.ID, 50, "daily")

	if _, err := svc.CompleteQuest(ctx, u.ID, q.ID); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if _, err := svc.CompleteQuest(ctx, u.ID, q.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("err=%v, want ErrAlreadyCompleted", err)
	}

	entries, _ := svc.Repos().XPLog.ListBySource(ctx, string(SourceQuest), q.ID)
	if len(entries) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(entries))
	}
	r, _ := svc.GetRole(ctx, u.ID, role.ID)
	if r.CurrentXP != 50 {
		t.Fatalf("xp=%d, want 50", r.CurrentXP)
	}
}

func TestUncompleteKeepsStreakAndXP(t *testing.T) {
	svc, clock, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Reader")
	q := mustQuest(t, svc, u.ID, role.ID, 40, "daily")

	if _, err := svc.CompleteQuest(ctx, u.ID, q.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	reopened, err := svc.UncompleteQuest(ctx, u.ID, q.ID)
	if err != nil {
		t.Fatalf("UncompleteQuest: %v", err)
	}
	if reopened.IsCompleted || reopened.CompletedAt != nil || reopened.Streak != 1 {
		t.Fatalf("reopened=%+v", reopened)
	}

	clock.now = clock.now.Add(time.Hour)
	if _, err := svc.CompleteQuest(ctx, u.ID, q.ID); err != nil {
		t.Fatalf("complete again: %v", err)
	}
	again, _ := svc.GetQuest(ctx, u.ID, q.ID)
	if again.Streak != 2 {
		t.Fatalf("streak=%d, want 2", again.Streak)
	}
	r, _ := svc.GetRole(ctx, u.ID, role.ID)
	if r.CurrentXP != 80 {
		t.Fatalf("xp=%d, want 80", r.CurrentXP)
	}
}

func TestResetDailyQuests(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Chef")
	daily := mustQuest(t, svc, u.ID, role.ID, 10, "daily")
	weekly := mustQuest(t, svc, u.ID, role.ID, 10, "weekly")
	for _, id := range []string{daily.ID, weekly.ID} {
		if _, err := svc.CompleteQuest(ctx, u.ID, id); err != nil {
			t.Fatalf("complete %s: %v", id, err)
		}
	}

	n, err := svc.ResetDailyQuests(ctx, u.ID)
	if err != nil {
		t.Fatalf("ResetDailyQuests: %v", err)
	}
	if n != 1 {
		t.Fatalf("reset %d quests, want 1", n)
	}
	d, _ := svc.GetQuest(ctx, u.ID, daily.ID)
	w, _ := svc.GetQuest(ctx, u.ID, weekly.ID)
	if d.IsCompleted || !w.IsCompleted {
		t.Fatalf("daily completed=%v weekly completed=%v", d.IsCompleted, w.IsCompleted)
	}
	if d.Streak != 1 {
		t.Fatalf("reset lost streak: %d", d.Streak)
	}
}

func TestTodayQuestsExcludesMonthly(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Saver")
	mustQuest(t, svc, u.ID, role.ID, 10, "daily")
	mustQuest(t, svc, u.ID, role.ID, 10, "weekly")
	mustQuest(t, svc, u.ID, role.ID, 10, "monthly")

	qs, err := svc.TodayQuests(ctx, u.ID)
	if err != nil {
		t.Fatalf("TodayQuests: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("today=%d quests, want 2", len(qs))
	}
}

func TestCreateQuestValidation(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Coder")

	var verr ValidationError
	if _, err := svc.CreateQuest(ctx, CreateQuestInput{UserID: u.ID, RoleID: role.ID, Title: "  ", XPReward: 10}); !errors.As(err, &verr) {
		t.Fatalf("blank title err=%v, want ValidationError", err)
	}
	if _, err := svc.CreateQuest(ctx, CreateQuestInput{UserID: u.ID, RoleID: role.ID, Title: "x", XPReward: 10, Frequency: "hourly"}); !errors.As(err, &verr) {
		t.Fatalf("bad frequency err=%v, want ValidationError", err)
	}
	if _, err := svc.CreateQuest(ctx, CreateQuestInput{UserID: u.ID, RoleID: "missing", Title: "x", XPReward: 10}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing role err=%v, want ErrNotFound", err)
	}
}

func TestActiveRoleCap(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	var first *storage.Role
	for i := 0; i < MaxActiveRoles; i++ {
		r := mustRole(t, svc, u.ID, "role")
		if first == nil {
			first = r
		}
	}

	var cerr CapacityError
	if _, err := svc.CreateRole(ctx, CreateRoleInput{UserID: u.ID, Name: "one too many"}); !errors.As(err, &cerr) {
		t.Fatalf("err=%v, want CapacityError", err)
	}

	if _, err := svc.SetRoleActive(ctx, u.ID, first.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	spare := mustRole(t, svc, u.ID, "spare")
	if _, err := svc.SetRoleActive(ctx, u.ID, first.ID, true); !errors.As(err, &cerr) {
		t.Fatalf("reactivate err=%v, want CapacityError", err)
	}

	all, err := svc.ListRoles(ctx, u.ID, false)
	if err != nil {
		t.Fatalf("ListRoles: %v", err)
	}
	active, err := svc.ListRoles(ctx, u.ID, true)
	if err != nil {
		t.Fatalf("ListRoles active: %v", err)
	}
	if len(all) != MaxActiveRoles+1 || len(active) != MaxActiveRoles {
		t.Fatalf("all=%d active=%d", len(all), len(active))
	}
	_ = spare
}

func TestRoleStaleWrite(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Builder")

	a, _ := svc.Repos().Roles.Get(ctx, role.ID)
	b, _ := svc.Repos().Roles.Get(ctx, role.ID)

	if _, err := AddXP(a, 10, time.Now().UTC()); err != nil {
		t.Fatalf("AddXP a: %v", err)
	}
	if err := svc.Repos().Roles.Update(ctx, a); err != nil {
		t.Fatalf("update a: %v", err)
	}
	if _, err := AddXP(b, 20, time.Now().UTC()); err != nil {
		t.Fatalf("AddXP b: %v", err)
	}
	if err := svc.Repos().Roles.Update(ctx, b); !errors.Is(err, storage.ErrStaleWrite) {
		t.Fatalf("err=%v, want ErrStaleWrite", err)
	}

	got, _ := svc.GetRole(ctx, u.ID, role.ID)
	if got.CurrentXP != 10 {
		t.Fatalf("xp=%d, want 10", got.CurrentXP)
	}
}

func TestForeignRoleIsNotFound(t *testing.T) {
	svc, clock, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Mine")

	other := &storage.User{Username: "other", Email: "other@localhost", Level: 1, CreatedAt: clock.now, UpdatedAt: clock.now}
	if err := svc.Repos().Users.Insert(ctx, other); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := svc.GetRole(ctx, other.ID, role.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
	if _, err := svc.GrantBonusXP(ctx, other.ID, role.ID, 10, "sneaky"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("bonus err=%v, want ErrNotFound", err)
	}
}

func TestCompleteObjective(t *testing.T) {
	var got []Event
	svc, _, cleanup := newTestService(t, WithListeners(ListenerFunc(func(e Event) { got = append(got, e) })))
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Founder")
	rid := role.ID

	o, err := svc.CreateObjective(ctx, CreateObjectiveInput{UserID: u.ID, RoleID: &rid, Title: "Ship v1", XPReward: 500})
	if err != nil {
		t.Fatalf("CreateObjective: %v", err)
	}
	if o.Quarter != "Q1" || o.Year != 2026 || o.Status != string(ObjectivePending) {
		t.Fatalf("defaults quarter=%s year=%d status=%s", o.Quarter, o.Year, o.Status)
	}

	if _, err := svc.SetObjectiveStatus(ctx, u.ID, o.ID, ObjectiveInProgress); err != nil {
		t.Fatalf("SetObjectiveStatus: %v", err)
	}

	res, err := svc.CompleteObjective(ctx, u.ID, o.ID)
	if err != nil {
		t.Fatalf("CompleteObjective: %v", err)
	}
	// 500 = 150 (L1) + 300 (L2) + 50.
	if res.LevelAfter != 3 || res.Role.CurrentXP != 50 {
		t.Fatalf("level=%d xp=%d", res.LevelAfter, res.Role.CurrentXP)
	}
	if _, err := svc.CompleteObjective(ctx, u.ID, o.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second complete err=%v, want ErrAlreadyCompleted", err)
	}
	if _, err := svc.SetObjectiveStatus(ctx, u.ID, o.ID, ObjectivePending); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("reopen err=%v, want ErrAlreadyCompleted", err)
	}

	entries, _ := svc.Repos().XPLog.ListBySource(ctx, string(SourceObjective), o.ID)
	if len(entries) != 1 || entries[0].XPAmount != 500 {
		t.Fatalf("ledger=%+v", entries)
	}
	if len(got) != 2 || got[1].Kind != EventLevelUp {
		t.Fatalf("events=%+v", got)
	}

	listed, err := svc.ListObjectives(ctx, u.ID, "q1", 2026)
	if err != nil {
		t.Fatalf("ListObjectives: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed=%d, want 1", len(listed))
	}
}

func TestCompleteObjectiveWithoutRole(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	o, err := svc.CreateObjective(ctx, CreateObjectiveInput{UserID: u.ID, Title: "Read 12 books", Quarter: "4", Year: 2026, XPReward: 100})
	if err != nil {
		t.Fatalf("CreateObjective: %v", err)
	}
	res, err := svc.CompleteObjective(ctx, u.ID, o.ID)
	if err != nil {
		t.Fatalf("CompleteObjective: %v", err)
	}
	if res.XPAwarded != 0 || res.Role != nil {
		t.Fatalf("roleless objective paid xp: %+v", res.CompleteResult)
	}
	recent, _ := svc.RecentXP(ctx, u.ID, 10)
	if len(recent) != 0 {
		t.Fatalf("ledger has %d entries, want 0", len(recent))
	}
}

func TestSkillTreeUnlockPersists(t *testing.T) {
	var got []Event
	svc, _, cleanup := newTestService(t, WithListeners(ListenerFunc(func(e Event) { got = append(got, e) })))
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Musician")

	root, err := svc.CreateSkill(ctx, CreateSkillInput{UserID: u.ID, RoleID: role.ID, Name: "Scales", CostXP: 100})
	if err != nil {
		t.Fatalf("CreateSkill root: %v", err)
	}
	rootID := root.ID
	child, err := svc.CreateSkill(ctx, CreateSkillInput{UserID: u.ID, RoleID: role.ID, Name: "Improvisation", ParentSkillID: &rootID})
	if err != nil {
		t.Fatalf("CreateSkill child: %v", err)
	}
	childID := child.ID
	grand, err := svc.CreateSkill(ctx, CreateSkillInput{UserID: u.ID, RoleID: role.ID, Name: "Jam session", ParentSkillID: &childID})
	if err != nil {
		t.Fatalf("CreateSkill grand: %v", err)
	}
	if !root.IsAvailable || child.IsAvailable || grand.IsAvailable {
		t.Fatalf("initial availability root=%v child=%v grand=%v", root.IsAvailable, child.IsAvailable, grand.IsAvailable)
	}

	if _, err := svc.UnlockSkill(ctx, u.ID, child.ID); !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("child unlock err=%v, want ErrNotAvailable", err)
	}

	res, err := svc.UnlockSkill(ctx, u.ID, root.ID)
	if err != nil {
		t.Fatalf("UnlockSkill root: %v", err)
	}
	if len(res.UnlockedChildren) != 1 || res.UnlockedChildren[0].ID != child.ID {
		t.Fatalf("children=%+v", res.UnlockedChildren)
	}

	c, _ := svc.Repos().Skills.Get(ctx, child.ID)
	g, _ := svc.Repos().Skills.Get(ctx, grand.ID)
	if !c.IsAvailable || c.IsUnlocked || g.IsAvailable {
		t.Fatalf("child=%+v grand=%+v", c, g)
	}

	if _, err := svc.UnlockSkill(ctx, u.ID, root.ID); !errors.Is(err, ErrAlreadyUnlocked) {
		t.Fatalf("second unlock err=%v, want ErrAlreadyUnlocked", err)
	}

	r, _ := svc.GetRole(ctx, u.ID, role.ID)
	if r.CurrentXP != 0 {
		t.Fatalf("unlock spent xp: %d", r.CurrentXP)
	}
	if len(got) != 1 || got[0].Kind != EventSkillUnlocked {
		t.Fatalf("events=%+v", got)
	}
}

func TestCreateSkillRejectsForeignParent(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	a := mustRole(t, svc, u.ID, "A")
	b := mustRole(t, svc, u.ID, "B")
	parent, err := svc.CreateSkill(ctx, CreateSkillInput{UserID: u.ID, RoleID: a.ID, Name: "Base"})
	if err != nil {
		t.Fatalf("CreateSkill: %v", err)
	}
	pid := parent.ID
	if _, err := svc.CreateSkill(ctx, CreateSkillInput{UserID: u.ID, RoleID: b.ID, Name: "Cross", ParentSkillID: &pid}); !errors.Is(err, ErrInvariant) {
		t.Fatalf("err=%v, want ErrInvariant", err)
	}
}

func TestDashboardStats(t *testing.T) {
	svc, clock, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	a := mustRole(t, svc, u.ID, "Athlete")
	b := mustRole(t, svc, u.ID, "Artist")
	qa := mustQuest(t, svc, u.ID, a.ID, 30, "daily")
	qb := mustQuest(t, svc, u.ID, b.ID, 20, "daily")

	// Activity two days ago and yesterday, nothing yet today.
	clock.now = clock.now.AddDate(0, 0, -2)
	if _, err := svc.CompleteQuest(ctx, u.ID, qa.ID); err != nil {
		t.Fatalf("complete qa: %v", err)
	}
	clock.now = clock.now.AddDate(0, 0, 1)
	if _, err := svc.CompleteQuest(ctx, u.ID, qb.ID); err != nil {
		t.Fatalf("complete qb: %v", err)
	}
	clock.now = clock.now.AddDate(0, 0, 1)

	if _, err := svc.CreateTimeBlock(ctx, CreateTimeBlockInput{UserID: u.ID, Title: "Deep work", StartMinute: 9 * 60, EndMinute: 11 * 60}); err != nil {
		t.Fatalf("CreateTimeBlock: %v", err)
	}
	if _, err := svc.CreateTimeBlock(ctx, CreateTimeBlockInput{UserID: u.ID, Title: "Walk", StartMinute: 13 * 60, EndMinute: 14 * 60, BlockType: "rest"}); err != nil {
		t.Fatalf("CreateTimeBlock rest: %v", err)
	}

	stats, err := svc.DashboardStats(ctx, u.ID)
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.Level != 1 || stats.XPToNextLevel != 150 {
		t.Fatalf("level=%d next=%d", stats.Level, stats.XPToNextLevel)
	}
	if stats.TotalXP != 50 {
		t.Fatalf("total xp=%d, want 50", stats.TotalXP)
	}
	if stats.GlobalStreak != 2 {
		t.Fatalf("streak=%d, want 2", stats.GlobalStreak)
	}
	if stats.FocusHoursToday != 2 {
		t.Fatalf("focus hours=%v, want 2", stats.FocusHoursToday)
	}
	if stats.ActiveRoles != 2 {
		t.Fatalf("active roles=%d, want 2", stats.ActiveRoles)
	}
}

func TestGrantBonusXP(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Parent")

	if _, err := svc.GrantBonusXP(ctx, u.ID, role.ID, 0, "nothing"); err == nil {
		t.Fatalf("expected error for zero bonus")
	}
	res, err := svc.GrantBonusXP(ctx, u.ID, role.ID, 160, "birthday party")
	if err != nil {
		t.Fatalf("GrantBonusXP: %v", err)
	}
	if !res.LevelUp || res.Role.CurrentXP != 10 {
		t.Fatalf("result=%+v", res)
	}
	recent, err := svc.RecentXP(ctx, u.ID, 5)
	if err != nil {
		t.Fatalf("RecentXP: %v", err)
	}
	if len(recent) != 1 || recent[0].SourceType != string(SourceBonus) || recent[0].SourceID != "birthday party" {
		t.Fatalf("recent=%+v", recent)
	}
}

func TestChildOfUnlockedSkillStartsUnavailable(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Musician")
	root, err := svc.CreateSkill(ctx, CreateSkillInput{UserID: u.ID, RoleID: role.ID, Name: "Scales"})
	if err != nil {
		t.Fatalf("CreateSkill root: %v", err)
	}
	if _, err := svc.UnlockSkill(ctx, u.ID, root.ID); err != nil {
		t.Fatalf("UnlockSkill root: %v", err)
	}

	rootID := root.ID
	late, err := svc.CreateSkill(ctx, CreateSkillInput{UserID: u.ID, RoleID: role.ID, Name: "Arpeggios", ParentSkillID: &rootID})
	if err != nil {
		t.Fatalf("CreateSkill child: %v", err)
	}
	if late.IsAvailable {
		t.Fatalf("returned child is available")
	}
	stored, err := svc.Repos().Skills.Get(ctx, late.ID)
	if err != nil {
		t.Fatalf("Skills.Get: %v", err)
	}
	if stored == nil || stored.IsAvailable || stored.IsUnlocked {
		t.Fatalf("stored child=%+v, want unavailable", stored)
	}
}

func TestUpdateQuest(t *testing.T) {
	svc, clock, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Athlete")
	q := mustQuest(t, svc, u.ID, role.ID, 50, "daily")
	if _, err := svc.CompleteQuest(ctx, u.ID, q.ID); err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}

	clock.now = clock.now.Add(time.Hour)
	title, xp, freq := "Run 10k", 80, "weekly"
	got, err := svc.UpdateQuest(ctx, u.ID, q.ID, QuestPatch{Title: &title, XPReward: &xp, Frequency: &freq})
	if err != nil {
		t.Fatalf("UpdateQuest: %v", err)
	}
	if got.Title != "Run 10k" || got.XPReward != 80 || got.Frequency != "weekly" {
		t.Fatalf("updated=%+v", got)
	}
	if !got.IsCompleted || got.Streak != 1 {
		t.Fatalf("completion state changed: %+v", got)
	}
	if !got.UpdatedAt.Equal(clock.now) {
		t.Fatalf("updated_at=%v, want %v", got.UpdatedAt, clock.now)
	}

	zero, bad := 0, "hourly"
	if _, err := svc.UpdateQuest(ctx, u.ID, q.ID, QuestPatch{XPReward: &zero}); !errors.As(err, new(ValidationError)) {
		t.Fatalf("zero xp err=%v, want ValidationError", err)
	}
	if _, err := svc.UpdateQuest(ctx, u.ID, q.ID, QuestPatch{Frequency: &bad}); !errors.As(err, new(ValidationError)) {
		t.Fatalf("bad frequency err=%v, want ValidationError", err)
	}
	if _, err := svc.UpdateQuest(ctx, u.ID, "missing", QuestPatch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing err=%v, want ErrNotFound", err)
	}
}

func TestDeleteQuestKeepsLedger(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Athlete")
	q := mustQuest(t, svc, u.ID, role.ID, 40, "daily")
	if _, err := svc.CompleteQuest(ctx, u.ID, q.ID); err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}

	if err := svc.DeleteQuest(ctx, u.ID, q.ID); err != nil {
		t.Fatalf("DeleteQuest: %v", err)
	}
	if _, err := svc.GetQuest(ctx, u.ID, q.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetQuest after delete err=%v, want ErrNotFound", err)
	}
	logs, err := svc.Repos().QuestLog.ListByQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("ListByQuest: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("quest logs=%d after delete, want 0", len(logs))
	}

	entries, err := svc.Repos().XPLog.ListBySource(ctx, string(SourceQuest), q.ID)
	if err != nil {
		t.Fatalf("ListBySource: %v", err)
	}
	if len(entries) != 1 || entries[0].XPAmount != 40 {
		t.Fatalf("ledger=%+v, want the completion entry kept", entries)
	}
	r, _ := svc.GetRole(ctx, u.ID, role.ID)
	if r.CurrentXP != 40 {
		t.Fatalf("role xp=%d after delete, want 40", r.CurrentXP)
	}

	if err := svc.DeleteQuest(ctx, u.ID, q.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err=%v, want ErrNotFound", err)
	}
}

func TestUpdateAndDeleteObjective(t *testing.T) {
	svc, clock, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	a := mustRole(t, svc, u.ID, "Founder")
	b := mustRole(t, svc, u.ID, "Writer")
	aid := a.ID

	o, err := svc.CreateObjective(ctx, CreateObjectiveInput{UserID: u.ID, RoleID: &aid, Title: "Ship v1", XPReward: 100})
	if err != nil {
		t.Fatalf("CreateObjective: %v", err)
	}

	bid, quarter, year := b.ID, "q3", 2027
	deadline := time.Date(2027, 9, 30, 18, 0, 0, 0, time.FixedZone("CET", 3600))
	got, err := svc.UpdateObjective(ctx, u.ID, o.ID, ObjectivePatch{RoleID: &bid, Quarter: &quarter, Year: &year, Deadline: &deadline})
	if err != nil {
		t.Fatalf("UpdateObjective: %v", err)
	}
	if *got.RoleID != b.ID || got.Quarter != "Q3" || got.Year != 2027 || got.Title != "Ship v1" {
		t.Fatalf("updated=%+v", got)
	}
	if got.Deadline == nil || got.Deadline.Location() != time.UTC || !got.Deadline.Equal(deadline) {
		t.Fatalf("deadline=%v, want %v in UTC", got.Deadline, deadline)
	}

	other := &storage.User{Username: "other", Email: "other@localhost", Level: 1, CreatedAt: clock.now, UpdatedAt: clock.now}
	if err := svc.Repos().Users.Insert(ctx, other); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	foreign := mustRole(t, svc, other.ID, "Spy")
	fid := foreign.ID
	if _, err := svc.UpdateObjective(ctx, u.ID, o.ID, ObjectivePatch{RoleID: &fid}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign role err=%v, want ErrNotFound", err)
	}
	if err := svc.DeleteObjective(ctx, other.ID, o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete err=%v, want ErrNotFound", err)
	}

	if _, err := svc.CompleteObjective(ctx, u.ID, o.ID); err != nil {
		t.Fatalf("CompleteObjective: %v", err)
	}
	title := "Ship v2"
	if _, err := svc.UpdateObjective(ctx, u.ID, o.ID, ObjectivePatch{Title: &title}); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("edit completed err=%v, want ErrAlreadyCompleted", err)
	}

	if err := svc.DeleteObjective(ctx, u.ID, o.ID); err != nil {
		t.Fatalf("DeleteObjective: %v", err)
	}
	if _, err := svc.GetObjective(ctx, u.ID, o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetObjective after delete err=%v, want ErrNotFound", err)
	}
	entries, _ := svc.Repos().XPLog.ListBySource(ctx, string(SourceObjective), o.ID)
	if len(entries) != 1 || entries[0].XPAmount != 100 {
		t.Fatalf("ledger=%+v, want the completion entry kept", entries)
	}
}

func TestUpdateAndDeleteTimeBlock(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	b, err := svc.CreateTimeBlock(ctx, CreateTimeBlockInput{UserID: u.ID, Title: "Deep work", StartMinute: 540, EndMinute: 660})
	if err != nil {
		t.Fatalf("CreateTimeBlock: %v", err)
	}
	if b.BlockType != string(BlockFocus) || b.DayPeriod != "morning" {
		t.Fatalf("created=%+v", b)
	}

	start, end, days := 14*60, 16*60, []int{1, 3}
	got, err := svc.UpdateTimeBlock(ctx, u.ID, b.ID, TimeBlockPatch{StartMinute: &start, EndMinute: &end, DaysOfWeek: &days})
	if err != nil {
		t.Fatalf("UpdateTimeBlock: %v", err)
	}
	if got.DayPeriod != "afternoon" || !got.IsRecurring || len(got.DaysOfWeek) != 2 {
		t.Fatalf("updated=%+v", got)
	}
	stored, err := svc.GetTimeBlock(ctx, u.ID, b.ID)
	if err != nil {
		t.Fatalf("GetTimeBlock: %v", err)
	}
	if stored.StartMinute != start || stored.EndMinute != end || len(stored.DaysOfWeek) != 2 {
		t.Fatalf("stored=%+v", stored)
	}

	none := []int{}
	got, err = svc.UpdateTimeBlock(ctx, u.ID, b.ID, TimeBlockPatch{DaysOfWeek: &none})
	if err != nil {
		t.Fatalf("clear days: %v", err)
	}
	if got.IsRecurring {
		t.Fatalf("block still recurring after clearing days")
	}

	early, badDay := 600, []int{7}
	if _, err := svc.UpdateTimeBlock(ctx, u.ID, b.ID, TimeBlockPatch{EndMinute: &early}); !errors.As(err, new(ValidationError)) {
		t.Fatalf("end before start err=%v, want ValidationError", err)
	}
	if _, err := svc.UpdateTimeBlock(ctx, u.ID, b.ID, TimeBlockPatch{DaysOfWeek: &badDay}); !errors.As(err, new(ValidationError)) {
		t.Fatalf("bad day err=%v, want ValidationError", err)
	}

	if err := svc.DeleteTimeBlock(ctx, u.ID, b.ID); err != nil {
		t.Fatalf("DeleteTimeBlock: %v", err)
	}
	if _, err := svc.GetTimeBlock(ctx, u.ID, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetTimeBlock after delete err=%v, want ErrNotFound", err)
	}
}

func TestDashboardXPToNextFollowsUserLevel(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := mainUser(t, svc)
	role := mustRole(t, svc, u.ID, "Athlete")
	q := mustQuest(t, svc, u.ID, role.ID, 500, "daily")
	res, err := svc.CompleteQuest(ctx, u.ID, q.ID)
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	if res.LevelAfter != 3 {
		t.Fatalf("role level=%d, want 3", res.LevelAfter)
	}

	stats, err := svc.DashboardStats(ctx, u.ID)
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.Level != 1 || stats.XPToNextLevel != XPRequiredForLevel(1) {
		t.Fatalf("level=%d next=%d, want user level 1 and %d", stats.Level, stats.XPToNextLevel, XPRequiredForLevel(1))
	}
}
