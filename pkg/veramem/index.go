package veramem

import "sync"

type posting struct {
	chunkID string
	tf      int
}

// Index is the inverted lexical index. Mutation is single-writer (Add/Remove
// take the write lock); scoring takes the read lock, so queries never observe
// a half-applied postings update.
type Index struct {
	mu       sync.RWMutex
	postings map[string][]posting
	lengths  map[string]int // chunkID -> token count
	order    map[string]int // chunkID -> insertion sequence, for stable ties
	seq      int
	totalLen int
}

func NewIndex() *Index {
	return &Index{
		postings: make(map[string][]posting),
		lengths:  make(map[string]int),
		order:    make(map[string]int),
	}
}

func (ix *Index) Add(chunkID string, tokens []string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.lengths[chunkID]; exists {
		ix.removeLocked(chunkID)
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	for tok, tf := range counts {
		ix.postings[tok] = append(ix.postings[tok], posting{chunkID: chunkID, tf: tf})
	}

	ix.lengths[chunkID] = len(tokens)
	ix.totalLen += len(tokens)
	ix.seq++
	ix.order[chunkID] = ix.seq
}

func (ix *Index) Remove(chunkID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(chunkID)
}

func (ix *Index) removeLocked(chunkID string) {
	length, ok := ix.lengths[chunkID]
	if !ok {
		return
	}

	for tok, plist := range ix.postings {
		kept := plist[:0]
		for _, p := range plist {
			if p.chunkID != chunkID {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(ix.postings, tok)
		} else {
			ix.postings[tok] = kept
		}
	}

	ix.totalLen -= length
	delete(ix.lengths, chunkID)
	delete(ix.order, chunkID)
}

// Size returns the number of indexed chunks.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.lengths)
}

// InsertionOrder returns the sequence number a chunk was indexed at, used to
// keep equal-score ordering deterministic.
func (ix *Index) InsertionOrder(chunkID string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.order[chunkID]
}
