package builder

import (
	"math"

	"kdforest/internal/treeindex"

	"golang.org/x/exp/constraints"
)

// dimBound is one ancestor's narrowing of a single dimension, carried down
// the bounds pass's recursion (spec.md §4.3: "other dimensions' bounds are
// inherited implicitly from the path").
type dimBound[F constraints.Float] struct {
	Dim    int
	Lo, Hi F
}

// ComputeBounds runs the second recursive pass (spec.md §4.3) that sets
// LowerBound/UpperBound on every internal node along its own split
// dimension. Call once per tree, after Build.
func ComputeBounds[F constraints.Float](tree *treeindex.Tree[F]) {
	if len(tree.Nodes) == 0 {
		return
	}
	negInf := F(math.Inf(-1))
	posInf := F(math.Inf(1))
	boundsRecurse(tree, tree.Root(), nil, negInf, posInf)
}

func boundsRecurse[F constraints.Float](tree *treeindex.Tree[F], nodeIdx int32, path []dimBound[F], negInf, posInf F) {
	node := &tree.Nodes[nodeIdx]
	if node.IsLeaf {
		return
	}

	lo, hi := negInf, posInf
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].Dim == node.SplitDim {
			lo, hi = path[i].Lo, path[i].Hi
			break
		}
	}
	node.LowerBound = lo
	node.UpperBound = hi

	boundsRecurse(tree, node.Lower, append(path, dimBound[F]{Dim: node.SplitDim, Lo: lo, Hi: node.Threshold}), negInf, posInf)
	boundsRecurse(tree, node.Upper, append(path, dimBound[F]{Dim: node.SplitDim, Lo: node.Threshold, Hi: hi}), negInf, posInf)
}
