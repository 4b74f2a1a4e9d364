package veramem

import "math"

// Cosine returns the cosine similarity of two vectors, in [-1, 1]. Mismatched
// or empty vectors score 0 rather than erroring; the caller treats that as
// "no vector signal" for the chunk.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + 1e-9)
}
