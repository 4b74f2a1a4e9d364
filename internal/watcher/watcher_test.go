package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	seen  chan string
}

func newRecorder() *recorder {
	return &recorder{seen: make(chan string, 16)}
}

func (r *recorder) reingest(ctx context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.seen <- path
	return nil
}

func TestWatcherReingestsChangedMarkdown(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()

	w := New(dir, 50*time.Millisecond, rec.reingest)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// give the watcher a moment to register
	time.Sleep(200 * time.Millisecond)

	target := filepath.Join(dir, "MEMORY.md")
	if err := os.WriteFile(target, []byte("a note worth indexing"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-rec.seen:
		if got != target {
			t.Errorf("expected %s reingested, got %s", target, got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reingest")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()

	w := New(dir, 50*time.Millisecond, rec.reingest)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "cache.db"), []byte("binary"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-rec.seen:
		t.Errorf("unexpected reingest of %s", got)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherBatchesBursts(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()

	w := New(dir, 100*time.Millisecond, rec.reingest)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(200 * time.Millisecond)

	target := filepath.Join(dir, "notes.md")
	for i := 0; i < 5; i++ {
		os.WriteFile(target, []byte("revision"), 0644)
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-rec.seen:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reingest")
	}

	// the burst collapses into one pass for the file
	time.Sleep(300 * time.Millisecond)
	rec.mu.Lock()
	n := len(rec.paths)
	rec.mu.Unlock()
	if n != 1 {
		t.Errorf("expected 1 reingest for the burst, got %d", n)
	}
}
