package archive

import (
	"testing"

	"github.com/ormasoftchile/suitegen/internal/testcase"
)

func shortCase(n int) *testcase.Case {
	tc := testcase.New()
	for i := 0; i < n; i++ {
		tc.Append(&testcase.Statement{Kind: testcase.KPrimitive, Literal: i})
	}
	return tc
}

func TestCoverageArchive_KeepsShortestCoveringIndividual(t *testing.T) {
	a := NewCoverageArchive([]string{"branch:f:0:true"})
	long := shortCase(5)
	short := shortCase(2)

	a.Update(long, []string{"branch:f:0:true"})
	a.Update(short, []string{"branch:f:0:true"})

	e, ok := a.Entry("branch:f:0:true")
	if !ok {
		t.Fatal("goal should be covered")
	}
	if e.Case != short {
		t.Error("archive should have kept the shorter individual")
	}
	if len(a.UncoveredGoals()) != 0 {
		t.Error("goal should no longer be uncovered")
	}
}

func TestCoverageArchive_LongerIndividualDoesNotReplace(t *testing.T) {
	a := NewCoverageArchive([]string{"branch:f:0:true"})
	short := shortCase(1)
	a.Update(short, []string{"branch:f:0:true"})
	a.Update(shortCase(9), []string{"branch:f:0:true"})

	e, _ := a.Entry("branch:f:0:true")
	if e.Case != short {
		t.Error("a longer later arrival should not replace a shorter stored individual")
	}
}

func TestCoverageArchive_AddGoalsRecomputesUncovered(t *testing.T) {
	a := NewCoverageArchive(nil)
	a.AddGoals([]string{"line:f:1", "line:f:2"})
	if len(a.UncoveredGoals()) != 2 {
		t.Fatalf("want 2 uncovered goals, got %d", len(a.UncoveredGoals()))
	}
	a.Update(shortCase(1), []string{"line:f:1"})
	if len(a.UncoveredGoals()) != 1 {
		t.Fatalf("want 1 uncovered goal after covering one, got %d", len(a.UncoveredGoals()))
	}
}
