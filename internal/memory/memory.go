// Package memory is the human-readable markdown layer behind the retrieval
// engine. Three file kinds live under the memory root:
//
//   - MEMORY.md: long-term facts grouped by category heading
//   - daily/YYYY-MM-DD.md: append-only daily journal
//   - sessions/YYYY-MM-DD-slug.md: conversation transcripts
//
// Every write re-ingests the touched file so search stays current.
package memory

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bowerhall/vera/internal/logger"
	"github.com/bowerhall/vera/pkg/veramem"
)

const memoryHeader = "# Long-term memory\n\n> Maintained by vera.\n"

var slugPattern = regexp.MustCompile(`[^\w\-]+`)

type Store struct {
	mu     sync.Mutex
	root   string
	engine *veramem.Engine
}

func New(root string, engine *veramem.Engine) (*Store, error) {
	for _, dir := range []string{root, filepath.Join(root, "daily"), filepath.Join(root, "sessions")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create memory dir: %w", err)
		}
	}

	memoryFile := filepath.Join(root, "MEMORY.md")
	if _, err := os.Stat(memoryFile); os.IsNotExist(err) {
		if err := os.WriteFile(memoryFile, []byte(memoryHeader), 0644); err != nil {
			return nil, fmt.Errorf("seed MEMORY.md: %w", err)
		}
	}

	return &Store{root: root, engine: engine}, nil
}

// LoadAll walks the memory root and ingests every markdown file.
func (s *Store) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		if err := s.ingestFileLocked(ctx, path); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("load memory dir: %w", err)
	}

	logger.Info("memory loaded", "files", count, "chunks", s.engine.Store().Len())
	return nil
}

// Remember appends a fact to MEMORY.md under the given category heading,
// creating the section if needed, then re-ingests the file.
func (s *Store) Remember(ctx context.Context, fact, category string) error {
	if category == "" {
		category = "Preferences"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.root, "MEMORY.md")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read MEMORY.md: %w", err)
	}

	content := insertUnderCategory(string(data), category, fact)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write MEMORY.md: %w", err)
	}

	logger.Info("fact remembered", "category", category, "fact", truncate(fact, 60))
	return s.ingestFileLocked(ctx, path)
}

// ReadMemory returns the full MEMORY.md content.
func (s *Store) ReadMemory() string {
	data, err := os.ReadFile(filepath.Join(s.root, "MEMORY.md"))
	if err != nil {
		return ""
	}
	return string(data)
}

// LogDaily appends a timestamped entry to the day's journal.
func (s *Store) LogDaily(ctx context.Context, entry string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := now.Format("2006-01-02")
	path := filepath.Join(s.root, "daily", day+".md")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("# "+day+"\n\n"), 0644); err != nil {
			return fmt.Errorf("create daily journal: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open daily journal: %w", err)
	}
	_, err = fmt.Fprintf(f, "- [%s] %s\n", now.Format("15:04"), entry)
	f.Close()
	if err != nil {
		return fmt.Errorf("append daily journal: %w", err)
	}

	return s.ingestFileLocked(ctx, path)
}

// ReadDaily returns the journal for the given day, empty if none.
func (s *Store) ReadDaily(day time.Time) string {
	data, err := os.ReadFile(filepath.Join(s.root, "daily", day.Format("2006-01-02")+".md"))
	if err != nil {
		return ""
	}
	return string(data)
}

// SaveSession writes a conversation transcript and ingests it.
func (s *Store) SaveSession(ctx context.Context, slug, transcript string, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	safe := strings.Trim(slugPattern.ReplaceAllString(slug, "-"), "-")
	if len(safe) > 50 {
		safe = safe[:50]
	}
	if safe == "" {
		// unique name so two unnamed sessions on the same day don't collide
		safe = "session-" + uuid.NewString()[:8]
	}

	path := filepath.Join(s.root, "sessions", now.Format("2006-01-02")+"-"+safe+".md")
	if err := os.WriteFile(path, []byte(transcript), 0644); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}

	logger.Info("session saved", "file", filepath.Base(path), "chars", len(transcript))
	return path, s.ingestFileLocked(ctx, path)
}

// ListSessions returns recent session file paths, newest first.
func (s *Store) ListSessions(limit int) []string {
	entries, err := os.ReadDir(filepath.Join(s.root, "sessions"))
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(s.root, "sessions", n)
	}
	return paths
}

// Reingest refreshes the index for one file path. A deleted file drops its
// chunks from the engine.
func (s *Store) Reingest(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		s.engine.Remove(rel)
		return nil
	}

	return s.ingestFileLocked(ctx, path)
}

func (s *Store) ingestFileLocked(ctx context.Context, path string) error {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", rel, err)
	}

	// source paths are root-relative so filename dates survive a root move
	s.engine.Ingest(ctx, rel, string(data))
	return nil
}

// insertUnderCategory places "- fact" at the end of the category section,
// appending a new section when the heading does not exist yet.
func insertUnderCategory(content, category, fact string) string {
	heading := "## " + category
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == heading {
			start = i
			break
		}
	}

	if start == -1 {
		return strings.TrimRight(content, "\n") + "\n\n" + heading + "\n\n- " + fact + "\n"
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "## ") {
			end = i
			break
		}
	}

	// trim blank lines at the section tail so the bullet joins the list
	insert := end
	for insert > start+1 && strings.TrimSpace(lines[insert-1]) == "" {
		insert--
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:insert]...)
	out = append(out, "- "+fact)
	out = append(out, lines[insert:]...)
	return strings.Join(out, "\n")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
