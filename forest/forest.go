package forest

import (
	"encoding/binary"
	"fmt"
	"sync"

	"kdforest/builder"
	"kdforest/internal/distance"
	"kdforest/internal/errutil"
	"kdforest/internal/randsource"
	"kdforest/internal/treeindex"

	iradix "github.com/hashicorp/go-immutable-radix"
	"golang.org/x/exp/constraints"
)

// Forest owns T independently randomized trees over one shared point set
// (spec.md §4.4) plus the registry of currently-live searchers bound to it
// (spec.md §4.6). All trees share the same points, distance function, and
// thresholding method; they differ only in their random split choices.
type Forest[F constraints.Float] struct {
	dim            int
	numTrees       int
	distKind       distance.Kind
	distFn         distance.Func[F]
	axisFn         distance.AxisFunc[F]
	threshold      builder.ThresholdMethod
	maxComparisons int
	rng            *randsource.Source

	points *treeindex.PointSet[F]
	trees  []*treeindex.Tree[F]
	built  bool

	searchMu       sync.Mutex
	searchers      *iradix.Tree
	nextSearcherID uint64
}

// New creates an unbuilt forest (spec.md §4.4 "create"). The element type
// F (float32 or float64) is chosen by the caller's type argument rather
// than carried in Config.
func New[F constraints.Float](dim, numTrees int, dist distance.Kind, opts ...Option) *Forest[F] {
	errutil.Require(dim >= 1, "dimension must be positive")
	errutil.Require(numTrees >= 1, "forest must contain at least one tree")

	cfg := Config{
		Dim:       dim,
		NumTrees:  numTrees,
		Distance:  dist,
		Threshold: builder.Median,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = randsource.DeriveSeed(randsource.Seed{
			Dim:       dim,
			NumTrees:  numTrees,
			Distance:  dist.String(),
			Threshold: cfg.Threshold.String(),
		}, 0)
	}

	return &Forest[F]{
		dim:            dim,
		numTrees:       numTrees,
		distKind:       dist,
		distFn:         distance.Resolve[F](dist),
		axisFn:         distance.ResolveAxis[F](dist),
		threshold:      cfg.Threshold,
		maxComparisons: cfg.MaxComparisons,
		rng:            randsource.New(seed),
		searchers:      iradix.New(),
	}
}

// Build constructs all T trees over data (spec.md §4.4 "build", §4.2, §4.3).
// data is a flattened row-major N*D slice; it is retained, not copied, so
// the caller must not mutate it while the forest or any searcher bound to
// it is alive.
func (f *Forest[F]) Build(data []F, n int) error {
	errutil.Require(!f.built, "forest is already built")
	if n < 1 {
		return fmt.Errorf("forest: cannot build over zero points")
	}
	if len(data) != n*f.dim {
		return fmt.Errorf("forest: data length %d does not match n*dim=%d", len(data), n*f.dim)
	}

	f.points = &treeindex.PointSet[F]{Data: data, N: n, D: f.dim}
	params := builder.Params{CandidateCount: candidateCount(f.numTrees), Threshold: f.threshold}

	f.trees = make([]*treeindex.Tree[F], f.numTrees)
	for t := 0; t < f.numTrees; t++ {
		tree := treeindex.New[F](n)
		builder.Build[F](f.points, tree, params, f.rng)
		builder.ComputeBounds[F](tree)
		f.trees[t] = tree
	}
	f.built = true
	return nil
}

// Destroy drops every live searcher bound to the forest. It does not need
// to free anything explicitly beyond that: Go's collector reclaims tree
// arenas and the point set once the forest itself goes out of scope.
func (f *Forest[F]) Destroy() {
	f.searchMu.Lock()
	f.searchers = iradix.New()
	f.searchMu.Unlock()
}

// NumTrees, Dim, Distance, Threshold, MaxComparisons are the read
// accessors spec.md §4.4/§6 expects a forest to expose.
func (f *Forest[F]) NumTrees() int                      { return f.numTrees }
func (f *Forest[F]) Dim() int                           { return f.dim }
func (f *Forest[F]) Distance() distance.Kind            { return f.distKind }
func (f *Forest[F]) Threshold() builder.ThresholdMethod { return f.threshold }
func (f *Forest[F]) MaxComparisons() int                { return f.maxComparisons }
func (f *Forest[F]) SetMaxComparisons(n int)             { f.maxComparisons = n }
func (f *Forest[F]) NumPoints() int {
	if f.points == nil {
		return 0
	}
	return f.points.N
}

// TreeDepth reports the max recursion depth reached while building tree i.
func (f *Forest[F]) TreeDepth(i int) int {
	return f.trees[i].MaxDepth
}

// TreeNodes reports the number of arena slots tree i actually used.
func (f *Forest[F]) TreeNodes(i int) int {
	return f.trees[i].Used
}

// registerSearcher assigns a monotonically increasing id to s and inserts
// it into the immutable registry, replacing the forest's root pointer
// under the write lock (spec.md §4.6: searcher creation/destruction
// mutates forest-owned state and is not itself concurrency-safe against
// other registry mutations).
func (f *Forest[F]) registerSearcher(s *Searcher[F]) uint64 {
	f.searchMu.Lock()
	defer f.searchMu.Unlock()
	id := f.nextSearcherID
	f.nextSearcherID++
	tree, _, _ := f.searchers.Insert(searcherKey(id), s)
	f.searchers = tree
	return id
}

func (f *Forest[F]) unregisterSearcher(id uint64) {
	f.searchMu.Lock()
	defer f.searchMu.Unlock()
	tree, _, _ := f.searchers.Delete(searcherKey(id))
	f.searchers = tree
}

// SearcherAt returns the pos-th currently-live searcher in ascending
// creation order (big-endian ids sort the same as numeric order), or
// false if pos is out of range.
func (f *Forest[F]) SearcherAt(pos int) (*Searcher[F], bool) {
	f.searchMu.Lock()
	tree := f.searchers
	f.searchMu.Unlock()

	it := tree.Root().Iterator()
	i := 0
	for {
		_, v, ok := it.Next()
		if !ok {
			return nil, false
		}
		if i == pos {
			return v.(*Searcher[F]), true
		}
		i++
	}
}

// NumSearchers reports how many searchers are currently live.
func (f *Forest[F]) NumSearchers() int {
	f.searchMu.Lock()
	defer f.searchMu.Unlock()
	return f.searchers.Len()
}

func searcherKey(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}
