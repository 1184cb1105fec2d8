package diagnostics

import (
	"encoding/binary"
	"sync"
	"time"

	iradix "github.com/hashicorp/go-immutable-radix"
)

// QueryRecord is one query's cost counters, independent of element type
// or distance kind so this package never needs to import forest.
type QueryRecord struct {
	Comparisons     int
	Simplifications int
	LeavesVisited   int
	Found           int
	Elapsed         time.Duration
}

// QueryLog accumulates QueryRecords behind a monotonically increasing id,
// backed by an immutable radix tree the same way forest's live-searcher
// registry is (spec.md §4.6's instrumentation, generalized to persist
// across a whole benchmark run rather than one searcher's lifetime).
type QueryLog struct {
	mu     sync.Mutex
	tree   *iradix.Tree
	nextID uint64
}

// NewQueryLog returns an empty log.
func NewQueryLog() *QueryLog {
	return &QueryLog{tree: iradix.New()}
}

// Record appends r and returns its assigned id.
func (q *QueryLog) Record(r QueryRecord) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := q.nextID
	q.nextID++
	tree, _, _ := q.tree.Insert(logKey(id), r)
	q.tree = tree
	return id
}

// Get looks up a previously recorded entry by id.
func (q *QueryLog) Get(id uint64) (QueryRecord, bool) {
	q.mu.Lock()
	tree := q.tree
	q.mu.Unlock()

	v, ok := tree.Get(logKey(id))
	if !ok {
		return QueryRecord{}, false
	}
	return v.(QueryRecord), true
}

// Len reports how many records are stored.
func (q *QueryLog) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tree.Len()
}

// Each visits every record in ascending id order until fn returns false.
func (q *QueryLog) Each(fn func(id uint64, r QueryRecord) bool) {
	q.mu.Lock()
	tree := q.tree
	q.mu.Unlock()

	it := tree.Root().Iterator()
	for {
		k, v, ok := it.Next()
		if !ok {
			return
		}
		if !fn(binary.BigEndian.Uint64(k), v.(QueryRecord)) {
			return
		}
	}
}

// Summary aggregates every record's counters, useful for a benchmark's
// closing report.
func (q *QueryLog) Summary() QueryRecord {
	var total QueryRecord
	var count int
	q.Each(func(_ uint64, r QueryRecord) bool {
		total.Comparisons += r.Comparisons
		total.Simplifications += r.Simplifications
		total.LeavesVisited += r.LeavesVisited
		total.Found += r.Found
		total.Elapsed += r.Elapsed
		count++
		return true
	})
	if count == 0 {
		return total
	}
	total.Comparisons /= count
	total.Simplifications /= count
	total.LeavesVisited /= count
	total.Found /= count
	total.Elapsed /= time.Duration(count)
	return total
}

func logKey(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}
