package sortutil

import (
	"math/rand"
	"sort"
	"testing"
)

func TestSortPairsSmallN(t *testing.T) {
	idx := []int32{0, 1, 2, 3}
	key := []float64{3, 1, 4, 2}
	SortPairs(idx, key)
	wantKey := []float64{1, 2, 3, 4}
	wantIdx := []int32{1, 3, 0, 2}
	for i := range key {
		if key[i] != wantKey[i] || idx[i] != wantIdx[i] {
			t.Fatalf("SortPairs small-n = idx %v key %v, want idx %v key %v", idx, key, wantIdx, wantKey)
		}
	}
}

func TestSortPairsRadixPathAboveThreshold(t *testing.T) {
	n := smallSortThreshold + 200
	rng := rand.New(rand.NewSource(1))
	idx := make([]int32, n)
	key := make([]float64, n)
	for i := range key {
		idx[i] = int32(i)
		key[i] = rng.NormFloat64() * 1000
	}

	wantKey := append([]float64(nil), key...)
	sort.Float64s(wantKey)

	SortPairs(idx, key)

	if !sort.Float64sAreSorted(key) {
		t.Fatalf("radix path did not leave key ascending-sorted")
	}
	for i := range key {
		if key[i] != wantKey[i] {
			t.Fatalf("radix-sorted keys diverge from reference sort at %d: got %v want %v", i, key[i], wantKey[i])
		}
	}

	seen := make(map[int32]bool, n)
	for _, i := range idx {
		if seen[i] {
			t.Fatalf("permutation lost uniqueness: index %d appears twice", i)
		}
		seen[i] = true
	}
}

func TestSortPairsNegativeAndPositiveFloats(t *testing.T) {
	n := smallSortThreshold + 10
	idx := make([]int32, n)
	key := make([]float64, n)
	for i := range key {
		idx[i] = int32(i)
		key[i] = float64(i)*1.5 - float64(n)
	}
	// shuffle
	rng := rand.New(rand.NewSource(2))
	rng.Shuffle(n, func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
		key[i], key[j] = key[j], key[i]
	})

	SortPairs(idx, key)
	if !sort.Float64sAreSorted(key) {
		t.Fatalf("radix sort failed to order a mix of negative and positive floats")
	}
}

func TestSortableBitsPreservesOrdering(t *testing.T) {
	values := []float64{-100, -1, -0.0001, 0, 0.0001, 1, 100}
	for i := 1; i < len(values); i++ {
		if sortableBits(values[i-1]) >= sortableBits(values[i]) {
			t.Fatalf("sortableBits(%v) should be < sortableBits(%v)", values[i-1], values[i])
		}
	}
}
