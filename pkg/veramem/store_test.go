package veramem

import (
	"strings"
	"testing"
)

func TestIngestChunksParagraphs(t *testing.T) {
	ms := NewMemoryStore(2000)

	changed, removed := ms.Ingest("MEMORY.md", "first paragraph here\n\nsecond paragraph here\n\n\nthird one")
	if len(changed) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(changed))
	}
	if len(removed) != 0 {
		t.Errorf("expected no removals on first ingest, got %d", len(removed))
	}

	if changed[0].Date != nil {
		t.Error("expected evergreen chunk to have no date")
	}
}

func TestIngestSkipsTinyFragments(t *testing.T) {
	ms := NewMemoryStore(2000)

	changed, _ := ms.Ingest("notes.md", "ok\n\na real paragraph worth keeping")
	if len(changed) != 1 {
		t.Fatalf("expected tiny fragment skipped, got %d chunks", len(changed))
	}
}

func TestIngestParsesDateFromFilename(t *testing.T) {
	ms := NewMemoryStore(2000)

	changed, _ := ms.Ingest("daily/2026-02-01.md", "went for a run today")
	if len(changed) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(changed))
	}
	if changed[0].Date == nil {
		t.Fatal("expected date parsed from filename")
	}
	if got := changed[0].Date.Format("2006-01-02"); got != "2026-02-01" {
		t.Errorf("expected 2026-02-01, got %s", got)
	}
}

func TestIngestMalformedDateIsEvergreen(t *testing.T) {
	ms := NewMemoryStore(2000)

	changed, _ := ms.Ingest("daily/2026-13-99.md", "a log with a bogus date")
	if len(changed) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(changed))
	}
	if changed[0].Date != nil {
		t.Error("expected malformed date treated as undated")
	}
}

func TestIngestCapsChunkLength(t *testing.T) {
	ms := NewMemoryStore(100)

	long := strings.Repeat("A sentence that keeps going. ", 20)
	changed, _ := ms.Ingest("big.md", long)

	if len(changed) < 2 {
		t.Fatalf("expected long paragraph split, got %d chunks", len(changed))
	}
	for _, c := range changed {
		if len(c.Text) > 100 {
			t.Errorf("chunk exceeds cap: %d bytes", len(c.Text))
		}
	}
}

func TestRescanOnlyChangedChunks(t *testing.T) {
	ms := NewMemoryStore(2000)

	ms.Ingest("notes.md", "stable paragraph\n\noriginal second paragraph")
	changed, removed := ms.Ingest("notes.md", "stable paragraph\n\nedited second paragraph")

	if len(changed) != 1 {
		t.Fatalf("expected only the edited chunk regenerated, got %d", len(changed))
	}
	if changed[0].Text != "edited second paragraph" {
		t.Errorf("wrong chunk regenerated: %q", changed[0].Text)
	}
	if len(removed) != 0 {
		t.Errorf("expected no removals, got %v", removed)
	}
}

func TestRescanShrinkRemovesTail(t *testing.T) {
	ms := NewMemoryStore(2000)

	ms.Ingest("notes.md", "first paragraph\n\nsecond paragraph")
	_, removed := ms.Ingest("notes.md", "first paragraph")

	if len(removed) != 1 {
		t.Fatalf("expected 1 removed chunk, got %d", len(removed))
	}
	if ms.Len() != 1 {
		t.Errorf("expected 1 chunk left, got %d", ms.Len())
	}
}

func TestRemoveSource(t *testing.T) {
	ms := NewMemoryStore(2000)

	ms.Ingest("a.md", "paragraph one\n\nparagraph two")
	ms.Ingest("b.md", "paragraph three")

	ids := ms.Remove("a.md")
	if len(ids) != 2 {
		t.Fatalf("expected 2 removed ids, got %d", len(ids))
	}
	if ms.Len() != 1 {
		t.Errorf("expected 1 chunk remaining, got %d", ms.Len())
	}
}

func TestListChunksDeterministicOrder(t *testing.T) {
	ms := NewMemoryStore(2000)

	ms.Ingest("b.md", "from b one\n\nfrom b two")
	ms.Ingest("a.md", "from a one")

	first := ms.ListChunks()
	second := ms.ListChunks()

	if len(first) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(first))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("listing order not stable at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
	if first[0].SourcePath != "b.md" {
		t.Errorf("expected ingestion order preserved, got %s first", first[0].SourcePath)
	}
}

func TestContentHashChangesWithText(t *testing.T) {
	if ContentHash("a") == ContentHash("b") {
		t.Error("different text produced same hash")
	}
	if ContentHash("same") != ContentHash("same") {
		t.Error("same text produced different hashes")
	}
}
