// Package skills loads markdown skill briefs and matches them to incoming
// messages. A brief is a NAME.md file whose content gets injected into the
// persona prompt when the skill triggers, either by /NAME slash command or by
// a keyword hit.
package skills

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bowerhall/vera/internal/logger"
)

type Skill struct {
	Name     string
	Brief    string
	Keywords []string
}

type Manager struct {
	dir    string
	skills map[string]*Skill
}

func NewManager(dir string) *Manager {
	m := &Manager{
		dir:    dir,
		skills: make(map[string]*Skill),
	}
	m.load()
	return m
}

func (m *Manager) load() {
	if m.dir == "" {
		return
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		logger.Debug("skills dir not found", "dir", m.dir)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(m.dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		name := strings.ToLower(strings.TrimSuffix(entry.Name(), ".md"))
		m.skills[name] = &Skill{
			Name:     name,
			Brief:    string(content),
			Keywords: parseKeywords(string(content)),
		}
	}

	logger.Info("skills loaded", "count", len(m.skills))
}

// parseKeywords reads an optional "keywords: a, b, c" line from the brief.
func parseKeywords(brief string) []string {
	for _, line := range strings.Split(brief, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		if rest, ok := strings.CutPrefix(lower, "keywords:"); ok {
			var keywords []string
			for _, kw := range strings.Split(rest, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					keywords = append(keywords, kw)
				}
			}
			return keywords
		}
	}
	return nil
}

func (m *Manager) Get(name string) *Skill {
	return m.skills[strings.ToLower(name)]
}

// List returns skill names sorted for stable display.
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.skills))
	for name := range m.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match finds the skill triggered by a message: an explicit /name command
// wins, otherwise the first keyword hit in name order. Returns nil when
// nothing triggers.
func (m *Manager) Match(message string) *Skill {
	trimmed := strings.TrimSpace(message)
	if strings.HasPrefix(trimmed, "/") {
		cmd := strings.ToLower(strings.TrimPrefix(strings.Fields(trimmed)[0], "/"))
		if skill, ok := m.skills[cmd]; ok {
			return skill
		}
	}

	lower := strings.ToLower(message)
	for _, name := range m.List() {
		skill := m.skills[name]
		for _, kw := range skill.Keywords {
			if strings.Contains(lower, kw) {
				return skill
			}
		}
	}
	return nil
}
