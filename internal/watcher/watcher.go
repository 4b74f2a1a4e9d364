// Package watcher re-indexes memory files when they change on disk, so
// edits made outside the assistant (a text editor, a sync client) show up
// in retrieval without a restart.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bowerhall/vera/internal/logger"
)

const defaultDebounce = 2 * time.Second

// ReingestFunc refreshes the index for one changed file.
type ReingestFunc func(ctx context.Context, path string) error

type Watcher struct {
	dir      string
	debounce time.Duration
	reingest ReingestFunc

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

func New(dir string, debounce time.Duration, reingest ReingestFunc) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		reingest: reingest,
		pending:  make(map[string]bool),
	}
}

// Start watches the memory tree until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	err = filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	logger.Info("memory watcher started", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.flushTimer()
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				// new subdirectory needs its own watch
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					fsw.Add(event.Name)
					continue
				}
			}

			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.schedule(ctx, event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// schedule batches changed paths and fires one reingest pass after a quiet
// period, so editors that write in bursts trigger a single rebuild.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.flush(ctx)
	})
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	for _, p := range paths {
		if err := w.reingest(ctx, p); err != nil {
			logger.Warn("reingest failed", "path", p, "error", err)
		}
	}
	if len(paths) > 0 {
		logger.Info("memory reindexed", "files", len(paths))
	}
}

func (w *Watcher) flushTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
