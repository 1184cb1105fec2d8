// Package forest implements the forest (spec.md §4.4) and searcher
// (spec.md §4.5, §4.6) components together: a Forest owns N independently
// built trees over a shared point set, and a Searcher is a query-time
// scratch object bound to one Forest. They are defined in one package
// because the spec couples their lifecycle tightly enough (§3 "lifecycle
// coupling of a forest to its live searchers") that splitting them would
// just mean two packages importing each other's concrete types back and
// forth on every call.
package forest

import (
	"kdforest/builder"
	"kdforest/internal/distance"
)

// Config carries the build-time parameters spec.md §6 enumerates, except
// element type: that option is expressed by which type argument (float32
// or float64) the caller instantiates New with, chosen once at
// construction rather than carried as a runtime tag (Design Notes §9's
// "distance dispatch -> capability object" idea applied to the data type
// too).
type Config struct {
	Dim            int
	NumTrees       int
	Distance       distance.Kind
	Threshold      builder.ThresholdMethod
	MaxComparisons int // 0 means unbounded (exact search)
	Seed           uint64
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithThreshold overrides the default MEDIAN thresholding method.
func WithThreshold(m builder.ThresholdMethod) Option {
	return func(c *Config) { c.Threshold = m }
}

// WithMaxComparisons sets the per-query leaf-point comparison budget; 0
// (the default) requests exact search.
func WithMaxComparisons(n int) Option {
	return func(c *Config) { c.MaxComparisons = n }
}

// WithSeed pins the forest's random source, making Build reproducible
// (testable property #10). Without it, New derives a seed from the
// configuration alone (dimension, tree count, distance, threshold method),
// so forests with the same configuration still build identical trees.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// candidateCount computes m = min(T, 5), the split-candidate heap's
// capacity (spec.md §4.2 step 2, §3's Forest field list).
func candidateCount(numTrees int) int {
	if numTrees < 5 {
		return numTrees
	}
	return 5
}
