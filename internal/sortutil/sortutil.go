// Package sortutil sorts a tree builder's point-index permutation by a
// scratch coordinate value (spec.md §4.2 step 5: "materialize each point's
// coordinate... then sort the slice [begin,end) by that coordinate in
// ascending order").
//
// Above smallSortThreshold this is an LSD radix sort over the sign-flipped
// IEEE-754 bit pattern of the coordinate (the classic technique for making
// float bit patterns compare like the floats themselves), carrying the
// point-index payload through each pass. Below the threshold it falls back
// to a plain comparison sort, since radix bucket setup costs more than it
// saves on small leaves.
package sortutil

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

const smallSortThreshold = 48

// SortPairs sorts idx and key in lockstep, ascending by key. Both slices
// must have equal length; they are typically sub-slices (a builder's
// [begin, end) split range) of longer permutation/scratch arrays.
func SortPairs[F constraints.Float](idx []int32, key []F) {
	n := len(idx)
	if n < 2 {
		return
	}
	if n < smallSortThreshold {
		sort.Sort(&pairSlice[F]{idx: idx, key: key})
		return
	}
	radixSortPairs(idx, key)
}

// pairSlice adapts (idx, key) to sort.Interface for the small-n fallback.
type pairSlice[F constraints.Float] struct {
	idx []int32
	key []F
}

func (s *pairSlice[F]) Len() int           { return len(s.idx) }
func (s *pairSlice[F]) Less(i, j int) bool { return s.key[i] < s.key[j] }
func (s *pairSlice[F]) Swap(i, j int) {
	s.idx[i], s.idx[j] = s.idx[j], s.idx[i]
	s.key[i], s.key[j] = s.key[j], s.key[i]
}

func radixSortPairs[F constraints.Float](idx []int32, key []F) {
	n := len(idx)
	sortKeys := make([]uint64, n)
	for i, v := range key {
		sortKeys[i] = sortableBits(v)
	}

	idxBuf := make([]int32, n)
	keyBuf := make([]F, n)
	sortKeyBuf := make([]uint64, n)

	srcIdx, dstIdx := idx, idxBuf
	srcKey, dstKey := key, keyBuf
	srcSortKey, dstSortKey := sortKeys, sortKeyBuf

	var count [257]int
	for shift := uint(0); shift < 64; shift += 8 {
		for i := range count {
			count[i] = 0
		}
		for _, k := range srcSortKey {
			b := (k >> shift) & 0xFF
			count[b+1]++
		}
		for i := 0; i < 256; i++ {
			count[i+1] += count[i]
		}
		for i, k := range srcSortKey {
			b := (k >> shift) & 0xFF
			pos := count[b]
			count[b]++
			dstIdx[pos] = srcIdx[i]
			dstKey[pos] = srcKey[i]
			dstSortKey[pos] = k
		}
		srcIdx, dstIdx = dstIdx, srcIdx
		srcKey, dstKey = dstKey, srcKey
		srcSortKey, dstSortKey = dstSortKey, srcSortKey
	}
	// 8 passes (an even count) leave the sorted result back in idx/key,
	// the callers' original slices.
	copy(idx, srcIdx)
	copy(key, srcKey)
}

// sortableBits maps an F value to a uint64 whose unsigned ordering matches
// the float ordering: positive values get their sign bit set, negative
// values are fully complemented. NaN is not a valid coordinate value in
// this engine (points are real-valued) and is not handled specially.
func sortableBits[F constraints.Float](v F) uint64 {
	switch x := any(v).(type) {
	case float32:
		b := uint64(math.Float32bits(x))
		if b&0x80000000 != 0 {
			return (^b) & 0xFFFFFFFF
		}
		return b | 0x80000000
	case float64:
		b := math.Float64bits(x)
		if b&0x8000000000000000 != 0 {
			return ^b
		}
		return b | 0x8000000000000000
	default:
		panic("kdforest: unsupported float type")
	}
}
