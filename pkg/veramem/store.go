package veramem

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

var (
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
	datePrefix     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
)

// minChunkLen filters out fragments too small to be worth retrieving.
const minChunkLen = 6

// MemoryStore owns the chunk corpus. Chunks are created when a source is
// ingested and replaced when its content changes; unchanged chunks keep their
// identity so cached embeddings stay valid.
type MemoryStore struct {
	mu          sync.RWMutex
	chunks      map[string]*Chunk
	bySource    map[string][]string
	sources     []string // ingestion order, for deterministic listing
	maxChunkLen int
}

func NewMemoryStore(maxChunkLen int) *MemoryStore {
	if maxChunkLen <= 0 {
		maxChunkLen = 2000
	}
	return &MemoryStore{
		chunks:      make(map[string]*Chunk),
		bySource:    make(map[string][]string),
		maxChunkLen: maxChunkLen,
	}
}

// Ingest re-chunks a source and reconciles it with the stored corpus. Only
// chunks whose content hash changed are replaced; the returned slices name
// the chunks that need (re-)indexing and the chunk IDs that disappeared.
func (ms *MemoryStore) Ingest(sourcePath, text string) (changed []*Chunk, removed []string) {
	date := parseSourceDate(sourcePath)
	texts := splitChunks(text, ms.maxChunkLen)

	ms.mu.Lock()
	defer ms.mu.Unlock()

	oldIDs := ms.bySource[sourcePath]
	if len(oldIDs) == 0 && len(texts) > 0 {
		ms.sources = append(ms.sources, sourcePath)
	}

	newIDs := make([]string, 0, len(texts))
	for i, t := range texts {
		id := fmt.Sprintf("%s#%d", sourcePath, i)
		hash := ContentHash(t)

		if old, ok := ms.chunks[id]; ok && old.ContentHash == hash {
			newIDs = append(newIDs, id)
			continue
		}

		chunk := &Chunk{
			ID:          id,
			Text:        t,
			SourcePath:  sourcePath,
			Date:        date,
			ContentHash: hash,
		}
		ms.chunks[id] = chunk
		newIDs = append(newIDs, id)
		changed = append(changed, chunk)
	}

	// chunks past the new tail are gone
	for _, id := range oldIDs {
		if _, ok := ms.chunks[id]; !ok {
			continue
		}
		found := false
		for _, nid := range newIDs {
			if nid == id {
				found = true
				break
			}
		}
		if !found {
			delete(ms.chunks, id)
			removed = append(removed, id)
		}
	}

	if len(newIDs) == 0 {
		delete(ms.bySource, sourcePath)
		ms.dropSourceLocked(sourcePath)
	} else {
		ms.bySource[sourcePath] = newIDs
	}

	return changed, removed
}

// Remove drops every chunk of a source and returns their IDs.
func (ms *MemoryStore) Remove(sourcePath string) []string {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ids := ms.bySource[sourcePath]
	for _, id := range ids {
		delete(ms.chunks, id)
	}
	delete(ms.bySource, sourcePath)
	ms.dropSourceLocked(sourcePath)

	return ids
}

func (ms *MemoryStore) dropSourceLocked(sourcePath string) {
	for i, s := range ms.sources {
		if s == sourcePath {
			ms.sources = append(ms.sources[:i], ms.sources[i+1:]...)
			return
		}
	}
}

func (ms *MemoryStore) Get(id string) (*Chunk, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	c, ok := ms.chunks[id]
	return c, ok
}

// ListChunks returns every chunk in deterministic (source ingestion, then
// position) order.
func (ms *MemoryStore) ListChunks() []*Chunk {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([]*Chunk, 0, len(ms.chunks))
	for _, src := range ms.sources {
		for _, id := range ms.bySource[src] {
			if c, ok := ms.chunks[id]; ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.chunks)
}

// splitChunks breaks text at paragraph boundaries, then caps each piece at
// maxLen, preferring sentence boundaries for the overflow split.
func splitChunks(text string, maxLen int) []string {
	var out []string
	for _, para := range paragraphSplit.Split(text, -1) {
		para = strings.TrimSpace(para)
		if len(para) < minChunkLen {
			continue
		}
		for len(para) > maxLen {
			cut := sentenceCut(para, maxLen)
			out = append(out, strings.TrimSpace(para[:cut]))
			para = strings.TrimSpace(para[cut:])
		}
		if len(para) >= minChunkLen {
			out = append(out, para)
		}
	}
	return out
}

// sentenceCut finds the latest sentence end within limit, falling back to the
// latest rune boundary so multi-byte characters are never split.
func sentenceCut(s string, limit int) int {
	best := -1
	for _, end := range []string{". ", "。", "! ", "? ", "！", "？", "\n"} {
		if idx := strings.LastIndex(s[:limit], end); idx > best {
			best = idx + len(end)
		}
	}
	if best > minChunkLen {
		return best
	}

	cut := limit
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return cut
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// parseSourceDate extracts a calendar date from a daily-log style filename
// (YYYY-MM-DD prefix). Sources without one are evergreen. A prefix that looks
// like a date but does not parse is logged and treated as undated, which
// means no decay is ever applied to it.
func parseSourceDate(sourcePath string) *time.Time {
	base := filepath.Base(sourcePath)
	m := datePrefix.FindString(base)
	if m == "" {
		return nil
	}

	d, err := time.Parse("2006-01-02", m)
	if err != nil {
		slog.Warn("malformed date in source name, treating as undated",
			"source", sourcePath, "value", m)
		return nil
	}
	return &d
}
