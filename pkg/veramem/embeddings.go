package veramem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// ContentHash identifies chunk text for embedding reuse. Identical text across
// different chunks (or dates) deliberately shares one cache entry.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:16]
}

// EmbeddingStore resolves chunk embeddings through the persistent cache,
// calling the provider once per distinct content hash. Concurrent misses for
// the same hash are coalesced onto a single provider call.
type EmbeddingStore struct {
	embedder Embedder
	cache    *Cache
	timeout  time.Duration
	flight   singleflight.Group
}

func NewEmbeddingStore(embedder Embedder, cache *Cache, timeout time.Duration) *EmbeddingStore {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &EmbeddingStore{embedder: embedder, cache: cache, timeout: timeout}
}

// Enabled reports whether an embedding provider is configured.
func (es *EmbeddingStore) Enabled() bool {
	return es.embedder != nil
}

// Get returns the embedding for the chunk, computing and caching it on miss.
// A provider failure is returned to the caller, who is expected to degrade to
// lexical-only scoring for this chunk rather than fail the request.
func (es *EmbeddingStore) Get(ctx context.Context, chunk *Chunk) ([]float32, error) {
	if vec, ok := es.cache.Get(chunk.ContentHash); ok {
		return vec, nil
	}

	v, err, _ := es.flight.Do(chunk.ContentHash, func() (any, error) {
		// re-check: another requester may have stored it while we queued
		if vec, ok := es.cache.Get(chunk.ContentHash); ok {
			return vec, nil
		}

		callCtx, cancel := context.WithTimeout(ctx, es.timeout)
		defer cancel()

		vec, err := es.embedder.Embed(callCtx, chunk.Text)
		if err != nil {
			return nil, err
		}

		if err := es.cache.Put(chunk.ContentHash, vec); err != nil {
			slog.Warn("embedding cache write failed", "hash", chunk.ContentHash, "error", err)
		}
		return vec, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]float32), nil
}

// EmbedQuery embeds the query string under the provider timeout.
func (es *EmbeddingStore) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, es.timeout)
	defer cancel()
	return es.embedder.Embed(callCtx, query)
}

// BuildIndex embeds every distinct-hash chunk that is not yet cached. It is
// resilient to partial failure: a failing item is skipped and counted, the
// rest continue. Returns the number of failures.
func (es *EmbeddingStore) BuildIndex(ctx context.Context, chunks []*Chunk) int {
	if es.embedder == nil {
		return 0
	}

	seen := make(map[string]bool)
	var missing []*Chunk
	for _, c := range chunks {
		if seen[c.ContentHash] {
			continue
		}
		seen[c.ContentHash] = true
		if _, ok := es.cache.Get(c.ContentHash); !ok {
			missing = append(missing, c)
		}
	}

	if len(missing) == 0 {
		return 0
	}

	texts := make([]string, len(missing))
	for i, c := range missing {
		texts[i] = c.Text
	}

	batchCtx, cancel := context.WithTimeout(ctx, es.timeout)
	vectors, err := es.embedder.EmbedBatch(batchCtx, texts)
	cancel()

	if err == nil && len(vectors) == len(missing) {
		for i, c := range missing {
			if err := es.cache.Put(c.ContentHash, vectors[i]); err != nil {
				slog.Warn("embedding cache write failed", "hash", c.ContentHash, "error", err)
			}
		}
		slog.Info("embeddings built", "new", len(missing), "total", len(chunks))
		return 0
	}

	// batch path failed, fall back to per-item calls so one bad item cannot
	// sink the whole build
	failures := 0
	for _, c := range missing {
		if _, err := es.Get(ctx, c); err != nil {
			failures++
			slog.Warn("embedding failed, chunk excluded from vector scoring",
				"chunk", c.ID, "error", err)
		}
	}

	slog.Info("embeddings built", "new", len(missing)-failures, "failed", failures)
	return failures
}
