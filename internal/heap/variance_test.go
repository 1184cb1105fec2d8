package heap

import "testing"

func TestVarianceKeepsTopMCandidates(t *testing.T) {
	v := NewVariance[float64](3)
	vals := []float64{1, 5, 2, 9, 0, 7}
	for i, val := range vals {
		v.Offer(VarianceCandidate[float64]{Dim: i, Variance: val})
	}
	if v.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", v.Len())
	}
	seen := make(map[float64]bool)
	for _, c := range v.Candidates() {
		seen[c.Variance] = true
	}
	for _, want := range []float64{5, 9, 7} {
		if !seen[want] {
			t.Fatalf("expected top-3 variance %v to survive, candidates=%v", want, v.Candidates())
		}
	}
}

func TestVarianceNotFullBeforeCapacity(t *testing.T) {
	v := NewVariance[float64](5)
	v.Offer(VarianceCandidate[float64]{Dim: 0, Variance: 1})
	if v.Full() {
		t.Fatalf("heap with 1 of 5 slots filled should not be Full")
	}
}

func TestVarianceResetClearsCandidates(t *testing.T) {
	v := NewVariance[float64](2)
	v.Offer(VarianceCandidate[float64]{Dim: 0, Variance: 1})
	v.Offer(VarianceCandidate[float64]{Dim: 1, Variance: 2})
	v.Reset()
	if v.Len() != 0 || v.Full() {
		t.Fatalf("Reset should empty the candidate heap")
	}
}
