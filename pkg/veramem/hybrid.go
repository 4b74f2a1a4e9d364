package veramem

// normalize min-max scales scores to [0, 1] across the candidate set. A
// degenerate set (all scores equal) maps positive scores to 1.0 and the rest
// to 0, so a single strong candidate is not flattened to zero.
func normalize(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return nil
	}

	first := true
	var min, max float64
	for _, s := range scores {
		if first {
			min, max = s, s
			first = false
			continue
		}
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	normed := make(map[string]float64, len(scores))
	spread := max - min
	for id, s := range scores {
		if spread == 0 {
			if s > 0 {
				normed[id] = 1.0
			} else {
				normed[id] = 0
			}
			continue
		}
		normed[id] = (s - min) / spread
	}

	return normed
}

// combine merges independently-normalized lexical and vector score streams
// into one score per candidate. A chunk confirmed by both engines earns a
// fixed agreement bonus on top of the weighted sum; a chunk seen by only one
// engine (say, its embedding failed) stays eligible without the bonus.
func combine(lexical, vector map[string]float64, cfg Config) map[string]float64 {
	lexNorm := normalize(lexical)
	vecNorm := normalize(vector)

	merged := make(map[string]float64, len(lexNorm)+len(vecNorm))
	for id, s := range lexNorm {
		merged[id] = cfg.LexicalWeight * s
	}
	for id, s := range vecNorm {
		merged[id] += cfg.VectorWeight * s
	}

	for id := range merged {
		if lexical[id] > 0 && vector[id] > 0 {
			merged[id] += cfg.AgreementBonus
		}
	}

	return merged
}
