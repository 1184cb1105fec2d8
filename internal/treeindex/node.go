package treeindex

import "golang.org/x/exp/constraints"

// Node is one entry in a tree's arena (spec.md §3).
//
// The original C layout overloads the child-index fields with a sign trick
// (a negative value encodes a leaf range). Design Notes §9 flags that as
// worth replacing with a tagged variant; Node does that directly with an
// IsLeaf discriminator instead of decoding signs, while keeping the same
// contiguous, pointer-free array-of-structs layout the arena needs.
type Node[F constraints.Float] struct {
	Parent int32
	IsLeaf bool

	// Interior fields, valid when !IsLeaf.
	Lower, Upper int32
	SplitDim     int
	Threshold    F
	LowerBound   F
	UpperBound   F

	// Leaf fields, valid when IsLeaf: the half-open range [Begin, End)
	// this leaf owns in the tree's point-index permutation.
	Begin, End int
}

// IsRoot reports whether this node has no parent.
func (n *Node[F]) IsRoot() bool { return n.Parent < 0 }
