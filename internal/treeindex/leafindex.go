package treeindex

import (
	"github.com/hillbig/rsdic"
	"golang.org/x/exp/constraints"
)

// LeafIndex is a succinct, rank-queryable index over a tree's leaf
// boundaries: a bitvector of length N with a 1 at every permutation
// position that starts a leaf's range. Rank over that bitvector answers
// "which leaf (0-based, left-to-right) owns permutation slot i" in O(1),
// without walking the arena.
//
// This generalizes the teacher's RangeLocator idea (a trie node's name maps
// to a leaf-rank interval via a rank-supporting bitvector over the trie's
// boundary set) to a KD-tree's leaves mapping to point-range intervals. It
// backs diagnostics and tests; the query path never needs it, since the
// arena's Begin/End fields already give leaf ranges directly in O(1).
type LeafIndex struct {
	bv *rsdic.RSDic
}

func buildLeafIndex[F constraints.Float](t *Tree[F]) *LeafIndex {
	bv := rsdic.New()
	n := len(t.Perm)
	starts := make([]bool, n)
	for i := range t.Nodes {
		node := &t.Nodes[i]
		if node.IsLeaf && node.End > node.Begin {
			starts[node.Begin] = true
		}
	}
	for _, s := range starts {
		bv.PushBack(s)
	}
	return &LeafIndex{bv: bv}
}

// LeafOrdinal returns the 0-based, left-to-right index of the leaf owning
// permutation position pos, or -1 if the tree has no leaves (N == 0).
func (li *LeafIndex) LeafOrdinal(pos int) int {
	if li.bv.Num() == 0 {
		return -1
	}
	return int(li.bv.Rank(uint64(pos+1), true)) - 1
}

// NumLeaves returns the total number of leaves recorded in the index.
func (li *LeafIndex) NumLeaves() int {
	if li.bv.Num() == 0 {
		return 0
	}
	return int(li.bv.Rank(li.bv.Num(), true))
}

// AllocSize reports the bitvector's resident memory in bytes, for
// diagnostics.MemoryReport.
func (li *LeafIndex) AllocSize() int {
	return li.bv.AllocSize()
}
