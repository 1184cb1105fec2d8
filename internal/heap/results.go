package heap

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

// ResultItem is one candidate nearest neighbor: the index of an indexed
// point and its full distance to the query.
type ResultItem[F constraints.Float] struct {
	Point int32
	Dist  F
}

// Results is the fixed-capacity top-k max-heap (spec.md §4.1): its root is
// always the *worst* (largest-distance) kept neighbor, so a closer newcomer
// can evict it once the heap is full.
type Results[F constraints.Float] struct {
	items    resultSlice[F]
	capacity int
}

// NewResults preallocates a results heap of capacity k.
func NewResults[F constraints.Float](k int) *Results[F] {
	return &Results[F]{items: make(resultSlice[F], 0, k), capacity: k}
}

// Reset empties the heap for reuse across queries on the same searcher.
func (r *Results[F]) Reset() {
	r.items = r.items[:0]
}

// Len reports the number of kept neighbors.
func (r *Results[F]) Len() int { return len(r.items) }

// Full reports whether the heap already holds k neighbors.
func (r *Results[F]) Full() bool { return len(r.items) >= r.capacity }

// Worst returns the current worst (largest) kept distance. Only valid when
// Len() > 0.
func (r *Results[F]) Worst() F { return r.items[0].Dist }

// Offer considers a new candidate neighbor: kept unconditionally while the
// heap isn't full; once full, it replaces the current worst only if it is
// strictly closer, per spec.md §4.5's leaf-iteration step.
func (r *Results[F]) Offer(item ResultItem[F]) {
	if !r.Full() {
		heap.Push(&r.items, item)
		return
	}
	if item.Dist < r.items[0].Dist {
		r.items[0] = item
		heap.Fix(&r.items, 0)
	}
}

// PopDescending drains the heap and returns its contents sorted by
// ascending distance (spec.md §4.5 step 4: repeated pops of the max-heap
// fill the output buffer back-to-front, which yields ascending order).
func (r *Results[F]) PopDescending() []ResultItem[F] {
	n := len(r.items)
	out := make([]ResultItem[F], n)
	for i := n - 1; i >= 0; i-- {
		out[i] = heap.Pop(&r.items).(ResultItem[F])
	}
	return out
}

type resultSlice[F constraints.Float] []ResultItem[F]

func (s resultSlice[F]) Len() int           { return len(s) }
func (s resultSlice[F]) Less(i, j int) bool { return s[i].Dist > s[j].Dist }
func (s resultSlice[F]) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s *resultSlice[F]) Push(x any)        { *s = append(*s, x.(ResultItem[F])) }
func (s *resultSlice[F]) Pop() any {
	old := *s
	n := len(old)
	item := old[n-1]
	*s = old[:n-1]
	return item
}
