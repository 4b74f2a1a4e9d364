package veramem

import (
	"context"
	"errors"
	"time"
)

// Embedder is the external embedding capability. Implementations are injected
// at construction; the engine never assumes a particular provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Chunk is the atomic retrievable unit. Date is nil for evergreen content.
type Chunk struct {
	ID          string
	Text        string
	SourcePath  string
	Date        *time.Time
	ContentHash string
}

// Result is one ranked search hit.
type Result struct {
	ChunkID    string
	Text       string
	SourcePath string
	Date       *time.Time
	Score      float64
}

// ErrInvalidK is the only error Search surfaces to the caller: k <= 0 is a
// programming error, everything else degrades to a weaker ranked list.
var ErrInvalidK = errors.New("veramem: k must be > 0")

// Config holds the engine tunables. The decay half-life and duplicate cutoff
// were tuned empirically upstream; treat them as defaults, not truths.
type Config struct {
	K1             float64 // BM25 term-frequency saturation
	B              float64 // BM25 length normalization
	LexicalWeight  float64
	VectorWeight   float64
	AgreementBonus float64 // added when both engines score a chunk
	HalfLifeDays   float64 // temporal decay half-life
	MMRLambda      float64 // relevance vs novelty balance
	DupCutoff      float64 // jaccard similarity treated as near-duplicate
	MaxChunkLen    int     // chunk text cap in bytes
	EmbedTimeout   time.Duration
	Workers        int // parallel vector scoring workers, 0 = NumCPU
}

func DefaultConfig() Config {
	return Config{
		K1:             1.5,
		B:              0.75,
		LexicalWeight:  0.3,
		VectorWeight:   0.7,
		AgreementBonus: 0.1,
		HalfLifeDays:   45,
		MMRLambda:      0.7,
		DupCutoff:      0.7,
		MaxChunkLen:    2000,
		EmbedTimeout:   15 * time.Second,
	}
}
