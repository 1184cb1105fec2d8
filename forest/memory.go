package forest

import (
	"fmt"
	"unsafe"

	"kdforest/diagnostics"
	"kdforest/internal/treeindex"

	"golang.org/x/exp/constraints"
)

// MemoryReport breaks down the forest's footprint by tree, plus the
// shared point set (spec.md's non-functional "memory accounting"
// supplement, adapted from the teacher's utils.MemReport).
func (f *Forest[F]) MemoryReport() diagnostics.MemoryReport {
	var zero F
	elemSize := int(unsafe.Sizeof(zero))

	pointBytes := 0
	if f.points != nil {
		pointBytes = len(f.points.Data) * elemSize
	}

	children := diagnostics.Map(f.trees, func(t *treeindex.Tree[F]) diagnostics.MemoryReport {
		return treeMemoryReport(t, elemSize)
	})

	return diagnostics.MemoryReport{
		Name:     "forest",
		Children: append([]diagnostics.MemoryReport{{Name: "points", TotalBytes: pointBytes}}, children...),
	}
}

func treeMemoryReport[F constraints.Float](t *treeindex.Tree[F], elemSize int) diagnostics.MemoryReport {
	var nodeZero treeindex.Node[F]
	nodeBytes := len(t.Nodes) * int(unsafe.Sizeof(nodeZero))
	permBytes := len(t.Perm) * 4 // int32

	children := []diagnostics.MemoryReport{
		{Name: "nodes", TotalBytes: nodeBytes},
		{Name: "permutation", TotalBytes: permBytes},
	}
	if li := t.LeafIndex(); li != nil {
		children = append(children, diagnostics.MemoryReport{Name: "leaf_index", TotalBytes: li.AllocSize()})
	}

	return diagnostics.MemoryReport{
		Name:     fmt.Sprintf("tree[%d nodes]", t.Used),
		Children: children,
	}
}
