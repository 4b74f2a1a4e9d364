package veramem

import "math"

// ScoreBM25 ranks every indexed chunk against the query tokens and returns a
// chunkID -> score map. Only chunks matching at least one query token appear.
//
// idf uses the smoothed form ln(1 + (N-df+0.5)/(df+0.5)) so scores stay
// non-negative even for a single-document corpus.
func (ix *Index) ScoreBM25(queryTokens []string, k1, b float64) map[string]float64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n := len(ix.lengths)
	if n == 0 || len(queryTokens) == 0 {
		return nil
	}

	avgLen := float64(ix.totalLen) / float64(n)
	if avgLen == 0 {
		return nil
	}

	scores := make(map[string]float64)
	for _, tok := range queryTokens {
		plist := ix.postings[tok]
		if len(plist) == 0 {
			continue
		}

		df := 0
		for _, p := range plist {
			if _, ok := ix.lengths[p.chunkID]; ok {
				df++
			}
		}
		if df == 0 {
			continue
		}

		idf := math.Log(1 + (float64(n)-float64(df)+0.5)/(float64(df)+0.5))

		for _, p := range plist {
			docLen, ok := ix.lengths[p.chunkID]
			if !ok {
				// dangling posting, chunk was removed; skip rather than fail
				continue
			}
			tf := float64(p.tf)
			norm := k1 * (1 - b + b*float64(docLen)/avgLen)
			scores[p.chunkID] += idf * (tf * (k1 + 1)) / (tf + norm)
		}
	}

	return scores
}
