package veramem

import (
	"reflect"
	"testing"
)

func TestTokenizeDelimited(t *testing.T) {
	got := Tokenize("Hello, World! foo-bar")
	want := []string{"hello", "world", "foo", "bar"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenizeHanBigrams(t *testing.T) {
	got := Tokenize("Ted 喜歡喝咖啡")

	if got[0] != "ted" {
		t.Errorf("expected first token 'ted', got %q", got[0])
	}

	wantBigrams := []string{"喜歡", "歡喝", "喝咖", "咖啡"}
	for _, b := range wantBigrams {
		if !contains(got, b) {
			t.Errorf("expected bigram %q in %v", b, got)
		}
	}
}

func TestTokenizeShortHanWord(t *testing.T) {
	got := Tokenize("咖啡")
	want := []string{"咖啡"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := Tokenize(""); len(got) != 0 {
		t.Errorf("expected no tokens, got %v", got)
	}

	if got := Tokenize("  ...  "); len(got) != 0 {
		t.Errorf("expected no tokens for punctuation, got %v", got)
	}
}

func contains(tokens []string, want string) bool {
	for _, tok := range tokens {
		if tok == want {
			return true
		}
	}
	return false
}
