package slicer

import (
	"testing"

	"github.com/ormasoftchile/suitegen/internal/testcase"
)

// chainCase builds a 4-statement case: 0 and 1 are primitives, 2 calls f
// using 0 and 1 as args, 3 calls g using only 1 — so slicing from 2 should
// include {0,1,2} but exclude 3, and slicing from 3 should include {1,3}
// but exclude 0 and 2.
func chainCase() *testcase.Case {
	tc := testcase.New()
	tc.Append(&testcase.Statement{Kind: testcase.KPrimitive, Literal: 1})
	tc.Append(&testcase.Statement{Kind: testcase.KPrimitive, Literal: 2})
	tc.Append(&testcase.Statement{Kind: testcase.KFunctionCall, Callable: "f", Args: []testcase.Ref{0, 1}})
	tc.Append(&testcase.Statement{Kind: testcase.KFunctionCall, Callable: "g", Args: []testcase.Ref{1}})
	return tc
}

func TestSlice_IncludesTransitiveDependencies(t *testing.T) {
	tc := chainCase()
	sl := Slice(tc, 2)
	for _, want := range []testcase.Ref{0, 1, 2} {
		if !sl[want] {
			t.Errorf("slice from 2 should include %d", want)
		}
	}
	if sl[3] {
		t.Error("slice from 2 should not include statement 3")
	}
}

func TestSlice_ExcludesUnrelatedStatements(t *testing.T) {
	tc := chainCase()
	sl := Slice(tc, 3)
	if sl[0] || sl[2] {
		t.Error("slice from 3 should not include 0 or 2")
	}
	if !sl[1] || !sl[3] {
		t.Error("slice from 3 should include 1 and 3")
	}
}

func TestSliceAll_UnionsMultipleTargets(t *testing.T) {
	tc := chainCase()
	sl := SliceAll(tc, []testcase.Ref{2, 3})
	for _, want := range []testcase.Ref{0, 1, 2, 3} {
		if !sl[want] {
			t.Errorf("union slice should include %d", want)
		}
	}
}

func TestIncludes_ReportsMembership(t *testing.T) {
	tc := chainCase()
	if !Includes(tc, []testcase.Ref{2}, 0) {
		t.Error("statement 0 should be included via statement 2's slice")
	}
	if Includes(tc, []testcase.Ref{2}, 3) {
		t.Error("statement 3 should not be included via statement 2's slice")
	}
}
