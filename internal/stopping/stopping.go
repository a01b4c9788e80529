// Package stopping implements the composable stopping conditions
// spec.md §4.7 evaluates at the top of every GA iteration.
package stopping

import (
	"time"
)

// Stats is the run-state snapshot stopping conditions are evaluated
// against.
type Stats struct {
	Elapsed           time.Duration
	Iterations        int
	StatementsExecuted int
	TestsExecuted     int
	Coverage          float64 // covered/total, [0,1]
	PlateauIterations int     // iterations since the archive last grew
	ResidentMemoryMB  float64
}

// Condition reports whether the run should stop given the current stats.
type Condition func(Stats) bool

// Any combines conditions with logical OR — the run stops once any one of
// them fires (spec.md §4.7 "Composable OR of predicates").
func Any(conditions ...Condition) Condition {
	return func(s Stats) bool {
		for _, c := range conditions {
			if c(s) {
				return true
			}
		}
		return false
	}
}

// MaxWallClock stops once Elapsed reaches d.
func MaxWallClock(d time.Duration) Condition {
	return func(s Stats) bool { return s.Elapsed >= d }
}

// MaxIterations stops once Iterations reaches n.
func MaxIterations(n int) Condition {
	return func(s Stats) bool { return s.Iterations >= n }
}

// MaxStatementExecutions stops once the cumulative sum of trace lengths
// reaches n.
func MaxStatementExecutions(n int) Condition {
	return func(s Stats) bool { return s.StatementsExecuted >= n }
}

// MaxTestExecutions stops once the number of executed test cases reaches n.
func MaxTestExecutions(n int) Condition {
	return func(s Stats) bool { return s.TestsExecuted >= n }
}

// MaxCoverage stops once Coverage reaches target.
func MaxCoverage(target float64) Condition {
	return func(s Stats) bool { return s.Coverage >= target }
}

// CoveragePlateau stops once the archive has gone n consecutive iterations
// without growing.
func CoveragePlateau(n int) Condition {
	return func(s Stats) bool { return s.PlateauIterations >= n }
}

// MaxResidentMemory stops once ResidentMemoryMB reaches limitMB.
func MaxResidentMemory(limitMB float64) Condition {
	return func(s Stats) bool { return s.ResidentMemoryMB >= limitMB }
}
