package heap

import "testing"

func TestResultsPopDescendingYieldsAscendingDistance(t *testing.T) {
	r := NewResults[float64](3)
	for _, item := range []ResultItem[float64]{
		{Point: 0, Dist: 5},
		{Point: 1, Dist: 1},
		{Point: 2, Dist: 3},
	} {
		r.Offer(item)
	}
	out := r.PopDescending()
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].Dist < out[i-1].Dist {
			t.Fatalf("PopDescending did not return ascending order: %v", out)
		}
	}
}

func TestResultsEvictsWorstWhenFull(t *testing.T) {
	r := NewResults[float64](2)
	r.Offer(ResultItem[float64]{Point: 0, Dist: 10})
	r.Offer(ResultItem[float64]{Point: 1, Dist: 20})
	if !r.Full() {
		t.Fatalf("heap of capacity 2 with 2 items should be Full")
	}
	// Closer than the current worst (20): should evict it.
	r.Offer(ResultItem[float64]{Point: 2, Dist: 5})
	// Farther than the current worst: should be rejected.
	r.Offer(ResultItem[float64]{Point: 3, Dist: 100})

	out := r.PopDescending()
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Dist != 5 || out[1].Dist != 10 {
		t.Fatalf("expected kept distances [5, 10], got %v", out)
	}
}
