package builder

import (
	"kdforest/internal/errutil"
	"kdforest/internal/heap"
	"kdforest/internal/randsource"
	"kdforest/internal/sortutil"
	"kdforest/internal/treeindex"

	"golang.org/x/exp/constraints"
)

// Build populates one tree over points, starting from its identity
// permutation (spec.md §4.2's "public operation build_tree(points, tree)").
// rng is the forest-scoped random source used to diversify split-dimension
// choices across a forest's trees (spec.md §6).
func Build[F constraints.Float](points *treeindex.PointSet[F], tree *treeindex.Tree[F], params Params, rng *randsource.Source) {
	errutil.Require(points.N >= 1, "cannot build a tree over zero points")
	errutil.Require(params.CandidateCount >= 1, "split-candidate capacity must be positive")

	st := &state[F]{
		points:  points,
		tree:    tree,
		params:  params,
		rng:     rng,
		scratch: make([]F, points.N),
		cands:   heap.NewVariance[F](params.CandidateCount),
	}
	root := tree.AllocNode(-1)
	st.split(root, 0, points.N, 0)
}

// state is the recursive splitter's working set: the scratch coordinate
// buffer and split-candidate heap are allocated once per build and reused
// across every split call, since a split's [begin, end) range never
// overlaps a sibling's at the same point in the recursion.
type state[F constraints.Float] struct {
	points  *treeindex.PointSet[F]
	tree    *treeindex.Tree[F]
	params  Params
	rng     *randsource.Source
	scratch []F
	cands   *heap.Variance[F]
}

func (st *state[F]) split(nodeIdx int32, begin, end, depth int) {
	tree := st.tree

	if end-begin <= 1 {
		st.markLeaf(nodeIdx, begin, end, depth)
		return
	}

	splitDim, mean, ok := st.chooseSplitDim(begin, end)
	if !ok {
		// All points in this range are coincident: no positive-variance
		// dimension exists (spec.md §4.2 step 3).
		st.markLeaf(nodeIdx, begin, end, depth)
		return
	}

	for i := begin; i < end; i++ {
		st.scratch[i] = st.points.At(int(tree.Perm[i]), splitDim)
	}
	sortutil.SortPairs(tree.Perm[begin:end], st.scratch[begin:end])

	threshold, splitIndex := st.chooseThreshold(begin, end, mean)

	node := &tree.Nodes[nodeIdx]
	node.SplitDim = splitDim
	node.Threshold = threshold

	lowerIdx := tree.AllocNode(nodeIdx)
	node.Lower = lowerIdx
	st.split(lowerIdx, begin, splitIndex+1, depth+1)

	upperIdx := tree.AllocNode(nodeIdx)
	node.Upper = upperIdx
	st.split(upperIdx, splitIndex+1, end, depth+1)
}

func (st *state[F]) markLeaf(nodeIdx int32, begin, end, depth int) {
	node := &st.tree.Nodes[nodeIdx]
	node.IsLeaf = true
	node.Begin, node.End = begin, end
	if depth > st.tree.MaxDepth {
		st.tree.MaxDepth = depth
	}
}

// chooseSplitDim runs the variance scan (spec.md §4.2 step 2) and picks one
// of the m highest-variance dimensions uniformly at random (step 4). ok is
// false when every dimension in the active range has zero variance.
func (st *state[F]) chooseSplitDim(begin, end int) (dim int, mean F, ok bool) {
	st.cands.Reset()
	tree := st.tree
	points := st.points
	count := F(end - begin)

	for d := 0; d < points.D; d++ {
		var sum F
		for i := begin; i < end; i++ {
			sum += points.At(int(tree.Perm[i]), d)
		}
		dimMean := sum / count

		var sumSq F
		for i := begin; i < end; i++ {
			delta := points.At(int(tree.Perm[i]), d) - dimMean
			sumSq += delta * delta
		}
		variance := sumSq / count
		if variance == 0 {
			continue
		}
		st.cands.Offer(heap.VarianceCandidate[F]{Dim: d, Variance: variance, Mean: dimMean})
	}

	candidates := st.cands.Candidates()
	if len(candidates) == 0 {
		return 0, 0, false
	}
	choice := candidates[st.rng.Intn(len(candidates))]
	return choice.Dim, choice.Mean, true
}

// chooseThreshold implements spec.md §4.2 step 6: MEDIAN always picks the
// slice's median coordinate; MEAN picks the sample mean but falls back to
// MEDIAN if that would assign every point to one side.
func (st *state[F]) chooseThreshold(begin, end int, mean F) (threshold F, splitIndex int) {
	medianIndex := (begin + end - 1) / 2
	medianThreshold := st.scratch[medianIndex]

	if st.params.Threshold == Median {
		return medianThreshold, medianIndex
	}

	splitIndex = begin - 1
	for i := begin; i < end; i++ {
		if st.scratch[i] <= mean {
			splitIndex = i
		} else {
			break
		}
	}
	if splitIndex < begin || splitIndex+1 >= end {
		return medianThreshold, medianIndex
	}
	return mean, splitIndex
}
