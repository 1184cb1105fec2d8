// Package builder implements the recursive tree-construction pass (spec.md
// §4.2) and the post-build axis-aligned bounds pass (spec.md §4.3).
package builder

// ThresholdMethod selects how a split node's threshold is chosen.
type ThresholdMethod int

const (
	// Median sets the threshold to the coordinate at the slice's median
	// index; always balanced, never degenerate.
	Median ThresholdMethod = iota
	// Mean sets the threshold to the sample mean of the chosen dimension,
	// falling back to Median when that would put every point on one side
	// (spec.md §4.2 step 6).
	Mean
)

func (m ThresholdMethod) String() string {
	switch m {
	case Median:
		return "median"
	case Mean:
		return "mean"
	default:
		return "unknown"
	}
}

// Params carries the per-build knobs the recursive splitter needs.
type Params struct {
	// CandidateCount is m = min(T, 5), the split-candidate heap's
	// capacity (spec.md §4.2 step 2).
	CandidateCount int
	Threshold      ThresholdMethod
}
