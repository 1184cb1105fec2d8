// Package treeindex is the tree-storage component (spec.md §3, §4.1
// "Tree storage"): a contiguous node arena per tree, the per-tree point-
// index permutation, and the externally-owned point set the forest never
// copies.
package treeindex

import "golang.org/x/exp/constraints"

// PointSet is a non-owning view over an externally-owned, immutable,
// contiguous array of N vectors of fixed dimension D (spec.md §3). The
// forest and its trees never copy Data; Data must outlive every tree and
// searcher built against this PointSet.
type PointSet[F constraints.Float] struct {
	Data []F // flattened, row-major: point i's coordinates are Data[i*D : i*D+D]
	N    int
	D    int
}

// At returns point i's coordinate along dimension d.
func (p *PointSet[F]) At(i, d int) F {
	return p.Data[i*p.D+d]
}

// Point returns the coordinate slice for point i.
func (p *PointSet[F]) Point(i int) []F {
	return p.Data[i*p.D : i*p.D+p.D]
}
