// Package slicer computes the dynamic backward slice spec.md §4.9
// describes, specialized to the test-case statement model: a statement's
// Ref is its "defined variable", and testcase.Statement.ArgRefs are the
// uses that make it a control/data parent in the slice (the toy VM's
// checked-coverage access sites don't carry variable identity, so slicing
// at statement granularity is the natural fit for what the tracer actually
// records — see DESIGN.md).
package slicer

import "github.com/ormasoftchile/suitegen/internal/testcase"

// Slice computes the backward slice of tc from target: target itself plus
// the transitive closure of every statement it (directly or transitively)
// reads a value from (spec.md §4.9 steps 1–2; the work list empties when
// every reachable Ref has been visited, step 3).
func Slice(tc *testcase.Case, target testcase.Ref) map[testcase.Ref]bool {
	seen := map[testcase.Ref]bool{}
	work := []testcase.Ref{target}
	for len(work) > 0 {
		r := work[len(work)-1]
		work = work[:len(work)-1]
		if r == testcase.NoRef || int(r) < 0 || int(r) >= tc.Len() || seen[r] {
			continue
		}
		seen[r] = true
		work = append(work, tc.Stmts[r].ArgRefs()...)
	}
	return seen
}

// SliceAll unions the backward slices from every target position, the form
// checked-coverage fitness and assertion generation consume: "does
// statement p contribute to any retained assertion's observed value."
func SliceAll(tc *testcase.Case, targets []testcase.Ref) map[testcase.Ref]bool {
	out := map[testcase.Ref]bool{}
	for _, t := range targets {
		for r := range Slice(tc, t) {
			out[r] = true
		}
	}
	return out
}

// Includes reports whether pos is part of the slice built from targets.
func Includes(tc *testcase.Case, targets []testcase.Ref, pos int) bool {
	return SliceAll(tc, targets)[testcase.Ref(pos)]
}
