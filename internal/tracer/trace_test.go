package tracer

import (
	"context"
	"testing"
	"time"

	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

// absSign returns 0 when its argument is negative and the argument itself
// otherwise; it has exactly one comparison predicate, useful for exercising
// branch events.
func absSignModule() *vm.Module {
	code := &vm.CodeObject{
		Name:      "abs_sign",
		NumLocals: 0,
		Consts:    []any{0},
		Instrs: []vm.Instr{
			{Op: vm.OpLoadParam, Arg: 0, Line: 1},
			{Op: vm.OpLoadConst, Arg: 0, Line: 1},
			{Op: vm.OpCompareOp, Arg: int(vm.CmpLt), Arg2: 7, Line: 1},
			{Op: vm.OpJumpIfFalse, Arg: 6, Line: 1},
			{Op: vm.OpLoadConst, Arg: 0, Line: 2},
			{Op: vm.OpReturn, Line: 2},
			{Op: vm.OpLoadParam, Arg: 0, Line: 3},
			{Op: vm.OpReturn, Line: 3},
		},
		LineTable: map[int]int{1: 0, 2: 4, 3: 6},
	}
	return &vm.Module{Name: "target", Objects: []*vm.CodeObject{code}, Entry: 0}
}

func oneStatementCall(objectID int) func(pos int, s *testcase.Statement, results []StmtResult) (int, []any, bool) {
	return func(pos int, s *testcase.Statement, results []StmtResult) (int, []any, bool) {
		return objectID, []any{s.Literal}, true
	}
}

func TestRun_RecordsBranchDistanceForNegativeArg(t *testing.T) {
	mod := absSignModule()
	interp := &vm.Interp{Mod: mod}
	tc := testcase.New()
	tc.Append(&testcase.Statement{Kind: testcase.KFunctionCall, Literal: -3})

	tr, err := Run(context.Background(), interp, tc, oneStatementCall(0), Limits{PerStatement: time.Second, PerTest: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Branches) != 1 {
		t.Fatalf("want 1 branch event, got %d", len(tr.Branches))
	}
	if !tr.Branches[0].Taken {
		t.Error("want true-branch taken for a negative argument")
	}
	if tr.Branches[0].Distance != 0 {
		t.Errorf("want distance 0 for a satisfied predicate, got %v", tr.Branches[0].Distance)
	}
	if !tr.LinesHit[1] || !tr.LinesHit[2] {
		t.Errorf("want lines 1 and 2 hit, got %v", tr.LinesHit)
	}
	if tr.LinesHit[3] {
		t.Error("line 3 should not have been reached")
	}
}

func TestRun_RecordsNonzeroDistanceForUnsatisfiedPredicate(t *testing.T) {
	mod := absSignModule()
	interp := &vm.Interp{Mod: mod}
	tc := testcase.New()
	tc.Append(&testcase.Statement{Kind: testcase.KFunctionCall, Literal: 5})

	tr, err := Run(context.Background(), interp, tc, oneStatementCall(0), Limits{PerStatement: time.Second, PerTest: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Branches[0].Taken {
		t.Error("5 < 0 should be false")
	}
	if tr.Branches[0].Distance <= 0 || tr.Branches[0].Distance >= 1 {
		t.Errorf("distance should be strictly between 0 and 1, got %v", tr.Branches[0].Distance)
	}
}

func TestRun_StatementTimeoutIsMarked(t *testing.T) {
	spin := &vm.CodeObject{
		Name: "spin",
		Instrs: []vm.Instr{
			{Op: vm.OpLoadConst, Arg: 0, Line: 1},
			{Op: vm.OpJump, Arg: 0, Line: 1},
		},
		Consts:    []any{1},
		LineTable: map[int]int{1: 0},
	}
	mod := &vm.Module{Name: "target", Objects: []*vm.CodeObject{spin}}
	interp := &vm.Interp{Mod: mod}
	tc := testcase.New()
	tc.Append(&testcase.Statement{Kind: testcase.KFunctionCall, Literal: 0})

	tr, err := Run(context.Background(), interp, tc, oneStatementCall(0), Limits{PerStatement: 10 * time.Millisecond, PerTest: time.Second, Grace: 5 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if !tr.TimedOut {
		t.Error("want trace marked timed out for an infinite loop statement")
	}
}

func TestBranchDistance_NormalizedBounds(t *testing.T) {
	cases := []struct {
		kind  vm.CompareKind
		l, r  any
	}{
		{vm.CmpEq, 3, 3},
		{vm.CmpEq, 3, 103},
		{vm.CmpLt, "abc", "abd"},
		{vm.CmpIn, 5, []any{1, 2, 3}},
	}
	for _, c := range cases {
		d := branchDistance(c.kind, c.l, c.r)
		if d < 0 || d >= 1 {
			t.Errorf("distance %v for %v %v %v out of [0,1)", d, c.l, c.kind, c.r)
		}
	}
}

func TestLevenshtein_KnownValues(t *testing.T) {
	if got := levenshtein("kitten", "sitting"); got != 3 {
		t.Errorf("levenshtein(kitten, sitting) = %d, want 3", got)
	}
	if got := levenshtein("", "abc"); got != 3 {
		t.Errorf("levenshtein('', abc) = %d, want 3", got)
	}
	if got := levenshtein("same", "same"); got != 0 {
		t.Errorf("levenshtein(same, same) = %d, want 0", got)
	}
}
