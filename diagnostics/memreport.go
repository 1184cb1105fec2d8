// Package diagnostics holds the forest's non-core instrumentation: memory
// accounting and query-cost logging. Neither builder nor the query path
// depends on this package; forest imports it only for Forest.MemoryReport.
// It exists so callers can introspect a built forest, mirroring the
// reporting surface the teacher codebase ships alongside its index
// structures.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// MemoryReport is a hierarchical memory-usage breakdown for one component
// (a forest, a tree, a leaf index, ...), adapted from the teacher's
// MemReport to additionally print human-readable sizes via go-humanize.
type MemoryReport struct {
	Name       string         `json:"name"`
	TotalBytes int            `json:"total_bytes"`
	Children   []MemoryReport `json:"children,omitempty"`
}

// Print writes the report as an indented tree to stdout.
func (r MemoryReport) Print(indent int) {
	fmt.Print(r.stringAt(indent))
}

// String renders the report as an indented tree.
func (r MemoryReport) String() string {
	return r.stringAt(0)
}

func (r MemoryReport) stringAt(indent int) string {
	var sb strings.Builder
	r.buildString(&sb, indent)
	return sb.String()
}

func (r MemoryReport) buildString(sb *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(sb, "%s- %s: %s (%d bytes)\n", prefix, r.Name, humanize.Bytes(uint64(r.TotalBytes)), r.TotalBytes)
	for _, child := range r.Children {
		child.buildString(sb, indent+1)
	}
}

// JSON marshals the report.
func (r MemoryReport) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(b)
}

// Sum returns TotalBytes plus every descendant's TotalBytes.
func (r MemoryReport) Sum() int {
	total := r.TotalBytes
	for _, child := range r.Children {
		total += child.Sum()
	}
	return total
}
