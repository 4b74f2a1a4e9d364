package veramem

import (
	"math"
	"testing"
	"time"
)

func date(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestDecayOlderScoresLower(t *testing.T) {
	ref := *date("2026-03-01")

	newer := applyDecay(1.0, date("2026-02-20"), ref, 45)
	older := applyDecay(1.0, date("2026-01-01"), ref, 45)

	if older >= newer {
		t.Errorf("expected older chunk to decay more: %f vs %f", older, newer)
	}
	if newer >= 1.0 {
		t.Errorf("expected some decay on a dated chunk, got %f", newer)
	}
}

func TestDecayHalfLife(t *testing.T) {
	ref := *date("2026-02-15")

	got := applyDecay(1.0, date("2026-01-01"), ref, 45)
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected 0.5 at exactly one half-life, got %f", got)
	}
}

func TestDecayUndatedPassThrough(t *testing.T) {
	if got := applyDecay(0.7, nil, time.Now(), 45); got != 0.7 {
		t.Errorf("expected undated chunk untouched, got %f", got)
	}
}

func TestDecayDisabled(t *testing.T) {
	if got := applyDecay(0.7, date("2020-01-01"), *date("2026-01-01"), 0); got != 0.7 {
		t.Errorf("expected no decay with half-life 0, got %f", got)
	}
}

func TestDecayFutureDateClampsToNoDecay(t *testing.T) {
	ref := *date("2026-01-01")

	got := applyDecay(0.9, date("2026-06-01"), ref, 45)
	if got != 0.9 {
		t.Errorf("expected future date to clamp to zero age, got %f", got)
	}
}
