// Package randsource is the external random-number provider spec.md §6
// assigns to the forest: "a seeded uniform-integer generator... used only to
// pick among the top-m variance dimensions per split". Design Notes §9
// prefers a generator injected per forest over a process-global one, so
// that builds are reproducible and tests deterministic (testable property
// #10: same data + same seed => identical trees).
package randsource

import (
	"math/rand"
	"time"

	"github.com/zeebo/xxh3"
)

// Source is the forest-scoped random generator. It is not safe for
// concurrent use; it is touched only during Build, which spec.md §5 already
// documents as single-threaded.
type Source struct {
	rng *rand.Rand
}

// New wraps a seed into a Source.
func New(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewSource(int64(seed)))}
}

// NewFromTime derives a non-deterministic seed, for callers that don't care
// about build reproducibility.
func NewFromTime() *Source {
	return New(uint64(time.Now().UnixNano()))
}

// Intn returns a uniform value in [0, n). n must be positive.
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// Seed describes the pieces of a forest's configuration that should feed
// the reproducibility hash: two forests created with equal descriptors and
// an explicit seed build byte-identical trees.
type Seed struct {
	ElemType  string
	Dim       int
	NumTrees  int
	Distance  string
	Threshold string
}

// DeriveSeed hashes a configuration descriptor with xxh3 to produce a base
// seed. Forests built from the same configuration and the same caller-
// supplied salt reproduce the same trees; varying the salt (e.g. a build
// counter) diversifies repeated builds of the same configuration.
func DeriveSeed(cfg Seed, salt uint64) uint64 {
	h := xxh3.HashString(cfg.ElemType + "|" + cfg.Distance + "|" + cfg.Threshold)
	h ^= uint64(cfg.Dim)*0x9E3779B97F4A7C15 + uint64(cfg.NumTrees)
	return h ^ salt
}
