package builder

import (
	"math"
	"testing"

	"kdforest/internal/randsource"
	"kdforest/internal/treeindex"
)

func buildTestTree(t *testing.T, data []float64, n, d int, params Params, seed uint64) *treeindex.Tree[float64] {
	t.Helper()
	points := &treeindex.PointSet[float64]{Data: data, N: n, D: d}
	tree := treeindex.New[float64](n)
	Build[float64](points, tree, params, randsource.New(seed))
	ComputeBounds[float64](tree)
	return tree
}

func TestBuildSinglePointIsOneLeaf(t *testing.T) {
	tree := buildTestTree(t, []float64{1, 2, 3}, 1, 3, Params{CandidateCount: 1, Threshold: Median}, 1)
	if tree.Used != 1 {
		t.Fatalf("Used = %d, want 1", tree.Used)
	}
	root := tree.Nodes[tree.Root()]
	if !root.IsLeaf || root.Begin != 0 || root.End != 1 {
		t.Fatalf("expected a single-leaf tree, got %+v", root)
	}
}

func TestBuildArenaNeverExceeds2NMinus1(t *testing.T) {
	n := 97
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	tree := buildTestTree(t, data, n, 1, Params{CandidateCount: 1, Threshold: Median}, 7)
	if tree.Used > 2*n-1 {
		t.Fatalf("Used = %d exceeds 2n-1 = %d", tree.Used, 2*n-1)
	}
}

func TestBuildEveryLeafCoversDisjointContiguousRange(t *testing.T) {
	n := 50
	data := make([]float64, n*2)
	for i := 0; i < n; i++ {
		data[2*i] = float64(i)
		data[2*i+1] = float64(n - i)
	}
	tree := buildTestTree(t, data, n, 2, Params{CandidateCount: 2, Threshold: Median}, 3)

	covered := make([]bool, n)
	var walk func(idx int32)
	walk = func(idx int32) {
		node := tree.Nodes[idx]
		if node.IsLeaf {
			for i := node.Begin; i < node.End; i++ {
				if covered[i] {
					t.Fatalf("permutation slot %d covered by more than one leaf", i)
				}
				covered[i] = true
			}
			return
		}
		walk(node.Lower)
		walk(node.Upper)
	}
	walk(tree.Root())
	for i, c := range covered {
		if !c {
			t.Fatalf("permutation slot %d not covered by any leaf", i)
		}
	}
}

func TestBuildPermutationIsStillABijection(t *testing.T) {
	n := 64
	data := make([]float64, n*3)
	for i := range data {
		data[i] = math.Sin(float64(i))
	}
	tree := buildTestTree(t, data, n, 3, Params{CandidateCount: 3, Threshold: Mean}, 11)

	seen := make([]bool, n)
	for _, p := range tree.Perm {
		if seen[p] {
			t.Fatalf("point index %d appears twice in the permutation", p)
		}
		seen[p] = true
	}
}

func TestBuildSplitIsConsistentWithChildren(t *testing.T) {
	n := 40
	data := make([]float64, n*2)
	for i := 0; i < n; i++ {
		data[2*i] = float64(i % 7)
		data[2*i+1] = float64((i * 3) % 11)
	}
	tree := buildTestTree(t, data, n, 2, Params{CandidateCount: 2, Threshold: Median}, 42)
	points := &treeindex.PointSet[float64]{Data: data, N: n, D: 2}

	// Direct invariant check: every point reachable under node.Lower must
	// have coordinate <= node.Threshold on node.SplitDim, and every point
	// under node.Upper must have coordinate >= node.Threshold.
	var check func(idx int32)
	check = func(idx int32) {
		node := tree.Nodes[idx]
		if node.IsLeaf {
			return
		}
		checkSide(t, tree, points, node.Lower, node.SplitDim, node.Threshold, false)
		checkSide(t, tree, points, node.Upper, node.SplitDim, node.Threshold, true)
		check(node.Lower)
		check(node.Upper)
	}
	check(tree.Root())
}

func checkSide(t *testing.T, tree *treeindex.Tree[float64], points *treeindex.PointSet[float64], idx int32, dim int, threshold float64, upper bool) {
	t.Helper()
	node := tree.Nodes[idx]
	var begin, end int
	if node.IsLeaf {
		begin, end = node.Begin, node.End
	} else {
		begin, end = subtreeRange(tree, idx)
	}
	for i := begin; i < end; i++ {
		v := points.At(int(tree.Perm[i]), dim)
		if upper {
			if v < threshold {
				t.Fatalf("point %v under the upper child has coordinate %v < threshold %v", tree.Perm[i], v, threshold)
			}
		} else if v > threshold {
			t.Fatalf("point %v under the lower child has coordinate %v > threshold %v", tree.Perm[i], v, threshold)
		}
	}
}

// subtreeRange finds the contiguous permutation range spanned by idx's
// subtree by descending to its leftmost and rightmost leaves.
func subtreeRange(tree *treeindex.Tree[float64], idx int32) (int, int) {
	left := idx
	for !tree.Nodes[left].IsLeaf {
		left = tree.Nodes[left].Lower
	}
	right := idx
	for !tree.Nodes[right].IsLeaf {
		right = tree.Nodes[right].Upper
	}
	return tree.Nodes[left].Begin, tree.Nodes[right].End
}

func TestBuildBoundsAreConsistentWithThresholds(t *testing.T) {
	n := 30
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	tree := buildTestTree(t, data, n, 1, Params{CandidateCount: 1, Threshold: Median}, 5)

	for i := range tree.Nodes {
		node := tree.Nodes[i]
		if node.IsLeaf {
			continue
		}
		if node.LowerBound > node.Threshold || node.Threshold > node.UpperBound {
			t.Fatalf("node %d bounds [%v, %v] do not contain its own threshold %v", i, node.LowerBound, node.UpperBound, node.Threshold)
		}
	}
}

func TestBuildIsReproducibleWithSameSeed(t *testing.T) {
	n := 25
	data := make([]float64, n*4)
	for i := range data {
		data[i] = math.Cos(float64(i) * 0.37)
	}
	a := buildTestTree(t, data, n, 4, Params{CandidateCount: 3, Threshold: Median}, 123)
	b := buildTestTree(t, data, n, 4, Params{CandidateCount: 3, Threshold: Median}, 123)

	if len(a.Nodes) != len(b.Nodes) {
		t.Fatalf("rebuild with identical seed produced different node counts: %d vs %d", len(a.Nodes), len(b.Nodes))
	}
	for i := range a.Nodes {
		if a.Nodes[i] != b.Nodes[i] {
			t.Fatalf("rebuild with identical seed diverged at node %d: %+v vs %+v", i, a.Nodes[i], b.Nodes[i])
		}
	}
	for i := range a.Perm {
		if a.Perm[i] != b.Perm[i] {
			t.Fatalf("rebuild with identical seed produced different permutation at %d", i)
		}
	}
}

func TestBuildCoincidentPointsDegenerateToOneLeaf(t *testing.T) {
	n := 10
	data := make([]float64, n*3)
	for i := range data {
		data[i] = 7.0
	}
	tree := buildTestTree(t, data, n, 3, Params{CandidateCount: 3, Threshold: Median}, 9)
	root := tree.Nodes[tree.Root()]
	if !root.IsLeaf {
		t.Fatalf("all-coincident points should degenerate to a single leaf, got internal root %+v", root)
	}
}
