package veramem

import "testing"

func TestBM25SingleDocumentNonNegative(t *testing.T) {
	ix := NewIndex()
	ix.Add("a", Tokenize("the quick brown fox"))

	scores := ix.ScoreBM25(Tokenize("quick fox"), 1.5, 0.75)
	if scores["a"] <= 0 {
		t.Errorf("expected positive score for single-document corpus, got %f", scores["a"])
	}
}

func TestBM25RanksMatchingHigher(t *testing.T) {
	ix := NewIndex()
	ix.Add("coffee", Tokenize("coffee coffee coffee beans"))
	ix.Add("tea", Tokenize("green tea leaves steeping"))
	ix.Add("mixed", Tokenize("coffee with tea"))

	scores := ix.ScoreBM25(Tokenize("coffee"), 1.5, 0.75)

	if scores["coffee"] <= scores["mixed"] {
		t.Errorf("expected repeated-term doc to outrank single mention: %f vs %f",
			scores["coffee"], scores["mixed"])
	}
	if _, ok := scores["tea"]; ok {
		t.Error("expected no score for non-matching doc")
	}
}

func TestBM25NoMatchesEmpty(t *testing.T) {
	ix := NewIndex()
	ix.Add("a", Tokenize("hello world"))

	if scores := ix.ScoreBM25(Tokenize("zebra"), 1.5, 0.75); len(scores) != 0 {
		t.Errorf("expected empty scores, got %v", scores)
	}
}

func TestIndexRemoveReversesPostings(t *testing.T) {
	ix := NewIndex()
	ix.Add("a", Tokenize("hello world"))
	ix.Add("b", Tokenize("hello there"))
	ix.Remove("a")

	scores := ix.ScoreBM25(Tokenize("hello"), 1.5, 0.75)
	if _, ok := scores["a"]; ok {
		t.Error("removed chunk still scored")
	}
	if _, ok := scores["b"]; !ok {
		t.Error("remaining chunk lost its postings")
	}
	if ix.Size() != 1 {
		t.Errorf("expected 1 indexed chunk, got %d", ix.Size())
	}
}

func TestBM25EmptyIndex(t *testing.T) {
	ix := NewIndex()
	if scores := ix.ScoreBM25(Tokenize("anything"), 1.5, 0.75); scores != nil {
		t.Errorf("expected nil scores on empty index, got %v", scores)
	}
}
