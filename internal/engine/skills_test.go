package engine

import (
	"errors"
	"testing"

	"liferpg/internal/storage"
)

func strPtr(s string) *string { return &s }

// root -> child -> grandchild, plus an unrelated root.
func skillForest() []storage.Skill {
	return []storage.Skill{
		{ID: "root", RoleID: "r", IsAvailable: InitialAvailability(nil)},
		{ID: "child", RoleID: "r", ParentSkillID: strPtr("root"), IsAvailable: InitialAvailability(strPtr("root"))},
		{ID: "grand", RoleID: "r", ParentSkillID: strPtr("child")},
		{ID: "other", RoleID: "r", IsAvailable: true},
	}
}

func TestInitialAvailability(t *testing.T) {
	if !InitialAvailability(nil) {
		t.Fatalf("root skills must start available")
	}
	if InitialAvailability(strPtr("p")) {
		t.Fatalf("child skills must start unavailable")
	}
}

func TestUnlockSkillOpensDirectChildrenOnly(t *testing.T) {
	forest := skillForest()
	res, err := UnlockSkill(&forest[0], forest)
	if err != nil {
		t.Fatalf("UnlockSkill: %v", err)
	}
	if !forest[0].IsUnlocked {
		t.Fatalf("root not unlocked")
	}
	if len(res.UnlockedChildren) != 1 || res.UnlockedChildren[0].ID != "child" {
		t.Fatalf("children=%v, want [child]", res.UnlockedChildren)
	}
	if !forest[1].IsAvailable || forest[1].IsUnlocked {
		t.Fatalf("child should be available but locked: %+v", forest[1])
	}
	if forest[2].IsAvailable {
		t.Fatalf("grandchild became available early")
	}
}

func TestUnlockSkillNotAvailable(t *testing.T) {
	forest := skillForest()
	if _, err := UnlockSkill(&forest[1], forest); !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("err=%v, want ErrNotAvailable", err)
	}
	if forest[1].IsUnlocked {
		t.Fatalf("skill mutated on failure")
	}
}

func TestUnlockSkillTwice(t *testing.T) {
	forest := skillForest()
	if _, err := UnlockSkill(&forest[3], forest); err != nil {
		t.Fatalf("first unlock: %v", err)
	}
	if _, err := UnlockSkill(&forest[3], forest); !errors.Is(err, ErrAlreadyUnlocked) {
		t.Fatalf("err=%v, want ErrAlreadyUnlocked", err)
	}
}

func TestUnlockSkillLeaf(t *testing.T) {
	forest := skillForest()
	res, err := UnlockSkill(&forest[3], forest)
	if err != nil {
		t.Fatalf("UnlockSkill: %v", err)
	}
	if len(res.UnlockedChildren) != 0 {
		t.Fatalf("leaf unlocked children: %v", res.UnlockedChildren)
	}
}
