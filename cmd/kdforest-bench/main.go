// Command kdforest-bench builds a forest over synthetic random vectors
// and reports approximate-search recall and cost against an exact
// (unbounded) baseline, in the style of the teacher's
// mmph/paramselect/cmd/psig_study benchmarking tool.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"kdforest/builder"
	"kdforest/diagnostics"
	"kdforest/forest"
	"kdforest/internal/distance"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

func main() {
	n := flag.Int("n", 20000, "number of points")
	dim := flag.Int("dim", 32, "vector dimension")
	trees := flag.Int("trees", 4, "number of trees in the forest")
	k := flag.Int("k", 10, "neighbors per query")
	queries := flag.Int("queries", 200, "number of queries to run")
	budget := flag.Int("budget", 500, "approximate search comparison budget (0 = exact)")
	threshold := flag.String("threshold", "median", "split threshold method: median or mean")
	seed := flag.Uint64("seed", 0, "random seed (0 = forest seed derived from its configuration)")
	flag.Parse()

	thresholdMethod := builder.Median
	if *threshold == "mean" {
		thresholdMethod = builder.Mean
	}

	rng := rand.New(rand.NewSource(int64(*seed) + 1))
	data := make([]float64, *n**dim)
	for i := range data {
		data[i] = rng.NormFloat64()
	}

	opts := []forest.Option{forest.WithThreshold(thresholdMethod)}
	if *seed != 0 {
		opts = append(opts, forest.WithSeed(*seed))
	}

	f := forest.New[float64](*dim, *trees, distance.L2Squared, opts...)

	bar := progressbar.Default(int64(*n), "building forest")
	buildStart := time.Now()
	if err := f.Build(data, *n); err != nil {
		fmt.Fprintln(os.Stderr, "build failed:", err)
		os.Exit(1)
	}
	bar.Finish()
	buildElapsed := time.Since(buildStart)

	report := f.MemoryReport()
	fmt.Printf("build: %s, %s points, %s bytes\n",
		buildElapsed, humanize.Comma(int64(*n)), humanize.Comma(int64(report.Sum())))
	fmt.Print(report.String())

	exact := forest.New[float64](*dim, *trees, distance.L2Squared, forest.WithThreshold(thresholdMethod), forest.WithSeed(*seed+1))
	if err := exact.Build(data, *n); err != nil {
		fmt.Fprintln(os.Stderr, "exact build failed:", err)
		os.Exit(1)
	}
	exact.SetMaxComparisons(0)
	f.SetMaxComparisons(*budget)

	approxSearcher := forest.NewSearcher[float64](f)
	defer approxSearcher.Close()
	exactSearcher := forest.NewSearcher[float64](exact)
	defer exactSearcher.Close()

	log := diagnostics.NewQueryLog()
	var hits, total int
	for q := 0; q < *queries; q++ {
		query := make([]float64, *dim)
		for i := range query {
			query[i] = rng.NormFloat64()
		}

		start := time.Now()
		approx := approxSearcher.Query(*k, query)
		elapsed := time.Since(start)
		stats := approxSearcher.LastStats()
		log.Record(diagnostics.QueryRecord{
			Comparisons:     stats.Comparisons,
			Simplifications: stats.Simplifications,
			LeavesVisited:   stats.LeavesVisited,
			Found:           countFound(approx),
			Elapsed:         elapsed,
		})

		want := exactSearcher.Query(*k, query)
		hits += overlap(approx, want)
		total += *k
	}

	summary := log.Summary()
	fmt.Printf("recall: %.3f (%d/%d)\n", float64(hits)/float64(total), hits, total)
	fmt.Printf("avg comparisons: %d, avg leaves: %d, avg latency: %s\n",
		summary.Comparisons, summary.LeavesVisited, summary.Elapsed)
}

func countFound(ns []forest.Neighbor[float64]) int {
	n := 0
	for _, x := range ns {
		if x.Index >= 0 {
			n++
		}
	}
	return n
}

func overlap(a, b []forest.Neighbor[float64]) int {
	seen := make(map[int]bool, len(b))
	for _, x := range b {
		if x.Index >= 0 {
			seen[x.Index] = true
		}
	}
	n := 0
	for _, x := range a {
		if x.Index >= 0 && seen[x.Index] {
			n++
		}
	}
	return n
}
