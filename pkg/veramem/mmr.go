package veramem

// scoredChunk pairs a chunk with its combined, decayed score plus the token
// set used for duplicate detection.
type scoredChunk struct {
	chunk  *Chunk
	score  float64
	tokens map[string]bool
}

// jaccard computes token-set overlap between two chunks, in [0, 1].
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	intersect := 0
	for tok := range small {
		if large[tok] {
			intersect++
		}
	}

	union := len(a) + len(b) - intersect
	return float64(intersect) / float64(union)
}

// rerankMMR selects up to k results by greedy maximal marginal relevance:
// each pick maximizes lambda*relevance - (1-lambda)*maxSimilarity(selected).
// Candidates whose similarity to an already-selected chunk crosses dupCutoff
// are near-duplicates and suppressed while any non-duplicate remains; they
// fill leftover slots only when the pool runs dry. Candidates must arrive
// sorted by score descending (ties in insertion order) so the result is
// deterministic.
func rerankMMR(candidates []scoredChunk, k int, lambda, dupCutoff float64) []scoredChunk {
	if len(candidates) == 0 || k <= 0 {
		return nil
	}

	selected := make([]scoredChunk, 0, k)
	remaining := make([]scoredChunk, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestMarginal := 0.0
		bestIsDup := true

		for i, cand := range remaining {
			maxSim := 0.0
			for _, sel := range selected {
				if sim := jaccard(cand.tokens, sel.tokens); sim > maxSim {
					maxSim = sim
				}
			}

			isDup := maxSim >= dupCutoff
			marginal := lambda*cand.score - (1-lambda)*maxSim

			// non-duplicates always beat duplicates; within a class the
			// higher marginal wins, first-seen (higher score) on ties
			if bestIdx == -1 ||
				(!isDup && bestIsDup) ||
				(isDup == bestIsDup && marginal > bestMarginal) {
				bestIdx = i
				bestMarginal = marginal
				bestIsDup = isDup
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}
