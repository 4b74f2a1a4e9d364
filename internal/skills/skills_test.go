package skills

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSkill(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".md"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	writeSkill(t, dir, "lunch", "# Lunch ordering\nkeywords: lunch, ubereats, 便當\n\nHow to order lunch.")
	writeSkill(t, dir, "standup", "# Standup notes\n\nCollect yesterday/today/blockers.")
	return NewManager(dir)
}

func TestLoadSkills(t *testing.T) {
	m := newTestManager(t)

	if got := m.List(); len(got) != 2 {
		t.Fatalf("expected 2 skills, got %v", got)
	}
	if m.Get("lunch") == nil || m.Get("LUNCH") == nil {
		t.Error("expected case-insensitive lookup")
	}
}

func TestMatchSlashCommand(t *testing.T) {
	m := newTestManager(t)

	skill := m.Match("/standup for today please")
	if skill == nil || skill.Name != "standup" {
		t.Errorf("expected standup skill, got %+v", skill)
	}
}

func TestMatchKeyword(t *testing.T) {
	m := newTestManager(t)

	skill := m.Match("can you get UberEats for the team?")
	if skill == nil || skill.Name != "lunch" {
		t.Errorf("expected lunch skill via keyword, got %+v", skill)
	}

	skill = m.Match("幫我訂便當")
	if skill == nil || skill.Name != "lunch" {
		t.Errorf("expected lunch skill via CJK keyword, got %+v", skill)
	}
}

func TestMatchNothing(t *testing.T) {
	m := newTestManager(t)

	if skill := m.Match("how was your weekend"); skill != nil {
		t.Errorf("expected no match, got %s", skill.Name)
	}
}

func TestMissingDirIsEmpty(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope"))

	if got := m.List(); len(got) != 0 {
		t.Errorf("expected no skills, got %v", got)
	}
	if m.Match("/anything") != nil {
		t.Error("expected no match from empty manager")
	}
}
