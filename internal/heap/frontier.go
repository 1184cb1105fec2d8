// Package heap implements the three bounded priority heaps the KD-forest
// engine shares across build and query: a search-frontier min-heap keyed by
// lower-bound distance (best-bin-first branch-and-bound, Beis & Lowe 1997;
// Silpa-Anan & Hartley 2008), a split-candidate min-heap keyed by variance,
// and a top-k result max-heap keyed by distance. All three are arrays under
// container/heap, sized to their caller's known capacity up front; overflow
// is the caller's responsibility, matching the bounded-heap contract.
package heap

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

// FrontierItem is one pending branch in the best-bin-first search: a node
// in a specific tree, with an admissible lower bound on the distance from
// the query to any point the node's sub-region could contain.
type FrontierItem[F constraints.Float] struct {
	Tree  int
	Node  int32
	Bound F
}

// Frontier is the shared min-heap across all trees in a forest: the pop
// with smallest Bound is always expanded next.
type Frontier[F constraints.Float] struct {
	items frontierSlice[F]
}

// NewFrontier preallocates a frontier with the given capacity (the total
// node count across the forest's trees, which NewSearcher sums).
func NewFrontier[F constraints.Float](capacity int) *Frontier[F] {
	return &Frontier[F]{items: make(frontierSlice[F], 0, capacity)}
}

// Reset empties the frontier without releasing its backing array, for
// query-to-query reuse on one searcher.
func (f *Frontier[F]) Reset() {
	f.items = f.items[:0]
}

// Len reports the number of pending branches.
func (f *Frontier[F]) Len() int { return len(f.items) }

// Push inserts a branch into the frontier.
func (f *Frontier[F]) Push(item FrontierItem[F]) {
	heap.Push(&f.items, item)
}

// Pop removes and returns the branch with smallest Bound. Callers must
// check Len() > 0 first.
func (f *Frontier[F]) Pop() FrontierItem[F] {
	return heap.Pop(&f.items).(FrontierItem[F])
}

// frontierSlice implements container/heap.Interface over FrontierItem.
type frontierSlice[F constraints.Float] []FrontierItem[F]

func (s frontierSlice[F]) Len() int            { return len(s) }
func (s frontierSlice[F]) Less(i, j int) bool  { return s[i].Bound < s[j].Bound }
func (s frontierSlice[F]) Swap(i, j int)       { s[i], s[j] = s[j], s[i] }
func (s *frontierSlice[F]) Push(x any)         { *s = append(*s, x.(FrontierItem[F])) }
func (s *frontierSlice[F]) Pop() any {
	old := *s
	n := len(old)
	item := old[n-1]
	*s = old[:n-1]
	return item
}
