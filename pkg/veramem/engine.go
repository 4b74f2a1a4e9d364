package veramem

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Engine is the hybrid retrieval engine: BM25 over an inverted index plus
// cosine similarity over cached embeddings, merged, age-decayed and
// diversity-reranked. Queries are independent and idempotent; a fixed corpus
// always yields the same ranked result.
type Engine struct {
	cfg        Config
	store      *MemoryStore
	index      *Index
	embeddings *EmbeddingStore
}

// New builds an engine. embedder may be nil, in which case every query runs
// lexical-only.
func New(cfg Config, embedder Embedder, cache *Cache) *Engine {
	return &Engine{
		cfg:        cfg,
		store:      NewMemoryStore(cfg.MaxChunkLen),
		index:      NewIndex(),
		embeddings: NewEmbeddingStore(embedder, cache, cfg.EmbedTimeout),
	}
}

// Store exposes the chunk corpus (read paths only).
func (e *Engine) Store() *MemoryStore {
	return e.store
}

// Ingest re-chunks a source document, updates the lexical index for changed
// chunks only, and embeds any content hash not seen before. Embedding
// failures are logged and tolerated; the affected chunks simply score
// lexical-only until a later rebuild succeeds.
func (e *Engine) Ingest(ctx context.Context, sourcePath, text string) {
	changed, removed := e.store.Ingest(sourcePath, text)

	for _, id := range removed {
		e.index.Remove(id)
	}
	for _, c := range changed {
		e.index.Add(c.ID, Tokenize(c.Text))
	}

	if len(changed) > 0 && e.embeddings.Enabled() {
		if failures := e.embeddings.BuildIndex(ctx, changed); failures > 0 {
			slog.Warn("partial embedding build", "failed", failures, "changed", len(changed))
		}
	}

	slog.Debug("source ingested", "source", sourcePath,
		"changed", len(changed), "removed", len(removed), "corpus", e.store.Len())
}

// Remove drops a source and its postings.
func (e *Engine) Remove(sourcePath string) {
	for _, id := range e.store.Remove(sourcePath) {
		e.index.Remove(id)
	}
}

// Search returns up to k chunks ranked for the query, with scores decayed by
// age relative to reference. An empty corpus yields an empty result; k <= 0
// is the only condition surfaced as an error.
func (e *Engine) Search(ctx context.Context, query string, k int, reference time.Time) ([]Result, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	chunks := e.store.ListChunks()
	if len(chunks) == 0 {
		return nil, nil
	}

	lexical := e.index.ScoreBM25(Tokenize(query), e.cfg.K1, e.cfg.B)
	vector := e.vectorScores(ctx, query, chunks)

	combined := combine(lexical, vector, e.cfg)
	if len(combined) == 0 {
		return nil, nil
	}

	// candidate list in corpus order keeps equal scores deterministic
	candidates := make([]scoredChunk, 0, len(combined))
	for _, c := range chunks {
		score, ok := combined[c.ID]
		if !ok {
			continue
		}
		score = applyDecay(score, c.Date, reference, e.cfg.HalfLifeDays)
		candidates = append(candidates, scoredChunk{
			chunk:  c,
			score:  score,
			tokens: tokenSet(c.Text),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	top := rerankMMR(candidates, k, e.cfg.MMRLambda, e.cfg.DupCutoff)

	results := make([]Result, 0, len(top))
	for _, sc := range top {
		results = append(results, Result{
			ChunkID:    sc.chunk.ID,
			Text:       sc.chunk.Text,
			SourcePath: sc.chunk.SourcePath,
			Date:       sc.chunk.Date,
			Score:      sc.score,
		})
	}

	return results, nil
}

// vectorScores computes cosine similarity between the query embedding and
// every chunk with a resolvable embedding. Scoring is parallel across chunks;
// any provider failure (query or per-chunk) degrades that part of the request
// to lexical-only instead of failing it.
func (e *Engine) vectorScores(ctx context.Context, query string, chunks []*Chunk) map[string]float64 {
	if !e.embeddings.Enabled() {
		return nil
	}

	queryVec, err := e.embeddings.EmbedQuery(ctx, query)
	if err != nil {
		slog.Warn("query embedding failed, lexical-only search", "error", err)
		return nil
	}

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	similarities := make([]float64, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range chunks {
		g.Go(func() error {
			vec, err := e.embeddings.Get(gctx, c)
			if err != nil {
				slog.Debug("chunk embedding unavailable", "chunk", c.ID, "error", err)
				return nil
			}
			similarities[i] = Cosine(queryVec, vec)
			return nil
		})
	}
	g.Wait()

	scores := make(map[string]float64)
	for i, c := range chunks {
		if similarities[i] > 0 {
			scores[c.ID] = similarities[i]
		}
	}
	return scores
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokenize(text) {
		set[tok] = true
	}
	return set
}
