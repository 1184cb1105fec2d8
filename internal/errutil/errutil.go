// Package errutil holds the small fatal-error helpers shared by the forest,
// builder and searcher packages.
//
// The core is a compute kernel: precondition violations (bad dimension,
// building twice, querying before build, ...) are programmer-contract
// violations, not recoverable conditions, so they panic rather than return
// an error. Adapted from the teacher's debug-gated Bug/BugOn: those only
// fired when built with a debug flag, but a compute-kernel contract check
// must always fire.
package errutil

import "fmt"

// Require panics with a formatted diagnostic if cond is false. Call it at
// the top of every public operation for the preconditions spec.md assigns
// to that operation (Create, Build, NewSearcher, Query, accessors).
func Require(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("kdforest: "+format, args...))
	}
}

// Fatalf unconditionally panics with a formatted diagnostic. Used in
// branches that are unreachable if Require has already validated the
// relevant preconditions (arena overflow, an internal invariant break).
func Fatalf(format string, args ...any) {
	panic(fmt.Sprintf("kdforest: "+format, args...))
}

// First returns the first non-nil error among errs, or nil. Used when
// chaining fallible configuration or build steps.
func First(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
