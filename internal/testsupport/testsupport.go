// Package testsupport carries the small golden-value comparison helpers
// the teacher's tests otherwise wrote inline per package (spec.md's ambient
// "Test tooling" section: stdlib testing, table-driven, no assertion
// library).
package testsupport

import (
	"math"
	"testing"
)

// RequireNoError fails the test immediately if err is non-nil.
func RequireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// RequireError fails the test if err is nil.
func RequireError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

// ApproxEqual reports whether a and b differ by no more than eps, for
// float comparisons in branch-distance and fitness tests where exact
// equality is the wrong check.
func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// RequireApproxEqual fails the test unless a and b are within eps.
func RequireApproxEqual(t *testing.T, a, b, eps float64, msg string) {
	t.Helper()
	if !ApproxEqual(a, b, eps) {
		t.Fatalf("%s: got %v, want %v (±%v)", msg, a, b, eps)
	}
}
