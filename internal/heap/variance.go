package heap

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

// VarianceCandidate is one dimension considered as a split axis: its index
// and the sample variance of the active point range along it.
type VarianceCandidate[F constraints.Float] struct {
	Dim      int
	Variance F
	Mean     F
}

// Variance is the fixed-capacity min-heap of the m = min(T, 5)
// highest-variance split candidates seen so far during one split's
// dimension scan (spec.md §4.2 step 2). Its root is always the smallest
// variance among the kept candidates, so a higher-variance newcomer can
// evict it in O(log m).
type Variance[F constraints.Float] struct {
	items    varianceSlice[F]
	capacity int
}

// NewVariance preallocates a candidate heap of the given capacity (m).
func NewVariance[F constraints.Float](capacity int) *Variance[F] {
	return &Variance[F]{items: make(varianceSlice[F], 0, capacity), capacity: capacity}
}

// Reset empties the heap for reuse across splits of the same build.
func (v *Variance[F]) Reset() {
	v.items = v.items[:0]
}

// Len reports the number of kept candidates.
func (v *Variance[F]) Len() int { return len(v.items) }

// Full reports whether the heap already holds `capacity` candidates.
func (v *Variance[F]) Full() bool { return len(v.items) >= v.capacity }

// Offer considers a new candidate: if the heap isn't full yet it is kept
// unconditionally; otherwise it replaces the current smallest-variance
// candidate only if it exceeds it, per spec.md §4.2 step 2.
func (v *Variance[F]) Offer(c VarianceCandidate[F]) {
	if !v.Full() {
		heap.Push(&v.items, c)
		return
	}
	if c.Variance > v.items[0].Variance {
		v.items[0] = c
		heap.Fix(&v.items, 0)
	}
}

// Candidates returns the kept candidates in arbitrary order (the caller
// picks one at random among them, per spec.md §4.2 step 4).
func (v *Variance[F]) Candidates() []VarianceCandidate[F] {
	return v.items
}

type varianceSlice[F constraints.Float] []VarianceCandidate[F]

func (s varianceSlice[F]) Len() int           { return len(s) }
func (s varianceSlice[F]) Less(i, j int) bool { return s[i].Variance < s[j].Variance }
func (s varianceSlice[F]) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s *varianceSlice[F]) Push(x any)        { *s = append(*s, x.(VarianceCandidate[F])) }
func (s *varianceSlice[F]) Pop() any {
	old := *s
	n := len(old)
	item := old[n-1]
	*s = old[:n-1]
	return item
}
