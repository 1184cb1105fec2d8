package treeindex

import (
	"kdforest/internal/errutil"

	"golang.org/x/exp/constraints"
)

// Tree owns one randomized KD-tree's arena and point-index permutation
// (spec.md §3). It never owns the point data itself.
type Tree[F constraints.Float] struct {
	Nodes    []Node[F]
	Used     int
	Perm     []int32
	MaxDepth int

	leafIdx *LeafIndex
}

// New allocates a tree sized for n points: an arena of capacity 2n-1 (the
// most nodes a strict binary tree with n leaves can have) and an identity
// permutation of length n.
func New[F constraints.Float](n int) *Tree[F] {
	capNodes := 1
	if n > 1 {
		capNodes = 2*n - 1
	}
	perm := make([]int32, n)
	for i := range perm {
		perm[i] = int32(i)
	}
	return &Tree[F]{
		Nodes: make([]Node[F], 0, capNodes),
		Perm:  perm,
	}
}

// AllocNode appends a new node parented at parent and returns its arena
// index. Fatal if the 2n-1 bound (spec.md testable property #1) would be
// exceeded; that can only happen from a builder defect, since the builder
// never allocates more than 2n-1 nodes for n points.
func (t *Tree[F]) AllocNode(parent int32) int32 {
	if len(t.Nodes) == cap(t.Nodes) {
		errutil.Fatalf("tree arena exceeded capacity %d", cap(t.Nodes))
	}
	idx := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node[F]{Parent: parent})
	t.Used = len(t.Nodes)
	return idx
}

// Root is the arena index of the tree's root node. Build always allocates
// it first, so it is always 0.
func (t *Tree[F]) Root() int32 { return 0 }

// NumPoints returns the number of points indexed by this tree.
func (t *Tree[F]) NumPoints() int { return len(t.Perm) }

// LeafIndex lazily builds and caches the succinct leaf-boundary index
// (leafindex.go) over this tree's permutation.
func (t *Tree[F]) LeafIndex() *LeafIndex {
	if t.leafIdx == nil {
		t.leafIdx = buildLeafIndex(t)
	}
	return t.leafIdx
}
