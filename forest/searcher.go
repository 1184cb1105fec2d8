package forest

import (
	"math"

	"kdforest/internal/errutil"
	"kdforest/internal/heap"
	"kdforest/internal/treeindex"

	"golang.org/x/exp/constraints"
)

// Neighbor is one result slot: Index is the original row index into the
// data passed to Build, or -1 for an unfilled slot when fewer than k
// neighbors exist (spec.md §4.5 step 4's "index=none, distance=NaN"
// sentinel).
type Neighbor[F constraints.Float] struct {
	Index    int
	Distance F
}

// Stats reports one query's cost counters (spec.md §4.6's per-searcher
// instrumentation).
type Stats struct {
	Comparisons     int
	Simplifications int
	LeavesVisited   int
}

// Searcher is a query-time scratch object bound to one Forest. It is not
// safe for concurrent use by multiple goroutines, but many independent
// Searchers may query the same built Forest concurrently (spec.md §5:
// "per-thread searchers, shared immutable tree data").
type Searcher[F constraints.Float] struct {
	forest *Forest[F]
	id     uint64

	frontier   *heap.Frontier[F]
	bookmark   []uint64
	generation uint64

	lastStats Stats
}

// NewSearcher binds a new Searcher to f; f must already be built.
func NewSearcher[F constraints.Float](f *Forest[F]) *Searcher[F] {
	errutil.Require(f.built, "cannot create a searcher on an unbuilt forest")

	capacity := 0
	for _, t := range f.trees {
		capacity += t.Used
	}

	s := &Searcher[F]{
		forest:   f,
		frontier: heap.NewFrontier[F](capacity),
		bookmark: make([]uint64, f.points.N),
	}
	s.id = f.registerSearcher(s)
	return s
}

// Close unregisters the searcher from its forest. Once closed, the
// searcher must not be queried again.
func (s *Searcher[F]) Close() {
	s.forest.unregisterSearcher(s.id)
}

// LastStats reports the cost counters from the most recent Query call.
func (s *Searcher[F]) LastStats() Stats { return s.lastStats }

// Query runs best-bin-first branch-and-bound search for the k nearest
// neighbors of query across every tree in the forest, sharing one
// priority frontier so the best candidate bin across ALL trees is always
// explored next (spec.md §4.5). If the forest has a positive
// MaxComparisons budget, the search stops early once that many
// leaf-point distances have been evaluated, trading recall for cost;
// with a zero budget it runs to exact completion.
func (s *Searcher[F]) Query(k int, query []F) []Neighbor[F] {
	f := s.forest
	errutil.Require(len(query) == f.dim, "query vector dimension %d does not match forest dimension %d", len(query), f.dim)
	errutil.Require(k >= 1, "k must be positive")

	s.generation++
	s.frontier.Reset()
	results := heap.NewResults[F](k)
	stats := Stats{}
	budget := f.maxComparisons

	for t, tree := range f.trees {
		s.frontier.Push(heap.FrontierItem[F]{Tree: t, Node: tree.Root(), Bound: 0})
	}

	for s.frontier.Len() > 0 {
		if budget > 0 && stats.Comparisons >= budget {
			break
		}
		item := s.frontier.Pop()
		if results.Full() && item.Bound >= results.Worst() {
			stats.Simplifications++
			break
		}
		s.descend(item.Tree, item.Node, query, item.Bound, budget, results, &stats)
	}

	s.lastStats = stats
	return extractNeighbors(results, k)
}

// descend walks from nodeIdx down to a leaf along the branch nearest to
// query, pushing each far sibling onto the shared frontier with an
// admissible lower bound before continuing (spec.md §4.5's "descend"
// step). bound is the already-accumulated lower bound for nodeIdx itself.
//
// Pushing the far sibling needs more than bound plus this node's own
// split-axis contribution: node.LowerBound/node.UpperBound (x1/x3, from
// builder.ComputeBounds) are this node's own box edges on node.SplitDim,
// inherited from the nearest ancestor that last split the same
// dimension. If that ancestor already charged bound for query being
// outside this same edge — (q−x1)² when q≤x1, or (q−x3)² when q>x3 — the
// new contribution to the far child must replace it, not add to it,
// exactly as spec.md §4.5's saveDist formula does:
//
//	saveDist = dist + (q−x2)² − (q−x1)²   if q ≤ x1
//	saveDist = dist + (q−x2)² − (q−x3)²   if q > x3
//	saveDist = dist + (q−x2)²             otherwise (x1 < q ≤ x3)
//
// where x2 is node.Threshold. Skipping the subtraction double-counts
// this dimension whenever it is split more than once along a path (the
// common case), turning the bound into an over-estimate and making the
// frontier's early-termination check inadmissible.
func (s *Searcher[F]) descend(treeIdx int, nodeIdx int32, query []F, bound F, budget int, results *heap.Results[F], stats *Stats) {
	tree := s.forest.trees[treeIdx]
	axisFn := s.forest.axisFn

	for {
		node := &tree.Nodes[nodeIdx]
		if node.IsLeaf {
			s.visitLeaf(tree, node, query, budget, results, stats)
			return
		}

		qv := query[node.SplitDim]

		var alreadyCharged F
		switch {
		case qv <= node.LowerBound:
			alreadyCharged = axisFn(node.LowerBound - qv)
		case qv > node.UpperBound:
			alreadyCharged = axisFn(qv - node.UpperBound)
		}

		var nearIdx, farIdx int32
		var delta F
		if qv <= node.Threshold {
			nearIdx, farIdx = node.Lower, node.Upper
			delta = node.Threshold - qv
		} else {
			nearIdx, farIdx = node.Upper, node.Lower
			delta = qv - node.Threshold
		}
		if delta < 0 {
			delta = 0
		}

		farBound := bound - alreadyCharged + axisFn(delta)
		if farBound < 0 {
			farBound = 0
		}
		s.frontier.Push(heap.FrontierItem[F]{Tree: treeIdx, Node: farIdx, Bound: farBound})
		nodeIdx = nearIdx
	}
}

// visitLeaf evaluates the true distance from query to every not-yet-seen
// point in the leaf's range, deduplicating across trees via the bookmark
// array (spec.md §4.5's "bookmark dedup": the same point can be reached
// through different trees' leaves within one query).
func (s *Searcher[F]) visitLeaf(tree *treeindex.Tree[F], node *treeindex.Node[F], query []F, budget int, results *heap.Results[F], stats *Stats) {
	distFn := s.forest.distFn
	points := s.forest.points

	for i := node.Begin; i < node.End; i++ {
		if budget > 0 && stats.Comparisons >= budget {
			return
		}
		pointIdx := tree.Perm[i]
		if s.bookmark[pointIdx] == s.generation {
			continue
		}
		s.bookmark[pointIdx] = s.generation

		d := distFn(points.D, query, points.Point(int(pointIdx)))
		stats.Comparisons++
		if !results.Full() || d < results.Worst() {
			results.Offer(heap.ResultItem[F]{Point: pointIdx, Dist: d})
		}
	}
	stats.LeavesVisited++
}

// extractNeighbors drains results in ascending-distance order and pads
// with "none" sentinels if fewer than k neighbors were found (spec.md
// §4.5 step 4).
func extractNeighbors[F constraints.Float](results *heap.Results[F], k int) []Neighbor[F] {
	items := results.PopDescending()
	out := make([]Neighbor[F], k)
	nan := F(math.NaN())
	for i := range out {
		out[i] = Neighbor[F]{Index: -1, Distance: nan}
	}
	for i, it := range items {
		out[i] = Neighbor[F]{Index: int(it.Point), Distance: it.Dist}
	}
	return out
}
