package assertgen

import (
	"context"
	"testing"
	"time"

	"github.com/ormasoftchile/suitegen/internal/langfe"
	"github.com/ormasoftchile/suitegen/internal/mutate"
	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/tracer"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

const absSrc = `
func abs(a) {
	if a < 0 {
		return 0 - a
	}
	return a
}
`

func buildAbs(t *testing.T) (*langfe.Program, *vm.Module) {
	t.Helper()
	prog, err := langfe.Parse(absSrc)
	if err != nil {
		t.Fatal(err)
	}
	mod, err := langfe.Compile(prog, "target")
	if err != nil {
		t.Fatal(err)
	}
	return prog, mod
}

func absCase(arg int) *testcase.Case {
	tc := testcase.New()
	lit := tc.Append(&testcase.Statement{Kind: testcase.KPrimitive, Literal: arg})
	tc.Append(&testcase.Statement{Kind: testcase.KFunctionCall, Callable: "abs", Args: []testcase.Ref{lit}})
	return tc
}

func TestGenerateCandidates_EmitsEqualsForStableValue(t *testing.T) {
	_, mod := buildAbs(t)
	interp := &vm.Interp{Mod: mod}
	tc := absCase(-3)

	err := GenerateCandidates(context.Background(), interp, tc, tracer.ResolveStmtCall(mod), tracer.Limits{PerStatement: time.Second, PerTest: time.Second}, Config{})
	if err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, a := range tc.Assertions {
		if a.StmtPos == 1 && a.Kind == "equals" {
			found = true
			if a.Payload != 3 {
				t.Errorf("want abs(-3) == 3, got %v", a.Payload)
			}
		}
	}
	if !found {
		t.Fatal("want an equals assertion on the call statement")
	}
}

func TestEvaluate_FlagsViolatedEquals(t *testing.T) {
	_, mod := buildAbs(t)
	interp := &vm.Interp{Mod: mod}
	tc := absCase(-3)
	tc.Assertions = []testcase.Assertion{{StmtPos: 1, Kind: "equals", Payload: 99}}

	tr, err := tracer.Run(context.Background(), interp, tc, tracer.ResolveStmtCall(mod), tracer.Limits{PerStatement: time.Second, PerTest: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	results := Evaluate(tc.Assertions, tr)
	if !HasFailures(results) {
		t.Fatal("want the wrong-value assertion to fail")
	}
}

func TestFilterByMutationScore_KeepsOnlyKillingAssertions(t *testing.T) {
	prog, mod := buildAbs(t)
	interp := &vm.Interp{Mod: mod}
	tc := absCase(-3)

	if err := GenerateCandidates(context.Background(), interp, tc, tracer.ResolveStmtCall(mod), tracer.Limits{PerStatement: time.Second, PerTest: time.Second}, Config{}); err != nil {
		t.Fatal(err)
	}
	if len(tc.Assertions) == 0 {
		t.Fatal("expected at least one candidate assertion")
	}

	suite := testcase.NewSuite(tc)
	installer := &MutantInstaller{}
	limits := tracer.Limits{PerStatement: time.Second, PerTest: time.Second}

	report, err := FilterByMutationScore(context.Background(), prog, "target", interp, tracer.ResolveStmtCall(mod), limits, suite, mutate.All(), installer)
	if err != nil {
		t.Fatal(err)
	}
	if report.Created == 0 {
		t.Fatal("want at least one compiled mutant")
	}
	if report.Killed == 0 {
		t.Errorf("want at least one mutant killed by the equals assertion on abs(-3)")
	}
	if len(tc.Assertions) == 0 {
		t.Error("want the killing assertion to survive pruning")
	}
	if interp.Mod != mod {
		t.Error("want the original module restored on interp after filtering")
	}
}

const identitySrc = `
func identity(x) {
	return x
}
`

func TestFilterByMutationScore_KeepsAllAssertionsWhenNoMutantsExist(t *testing.T) {
	prog, err := langfe.Parse(identitySrc)
	if err != nil {
		t.Fatal(err)
	}
	mod, err := langfe.Compile(prog, "target")
	if err != nil {
		t.Fatal(err)
	}
	interp := &vm.Interp{Mod: mod}

	tc := testcase.New()
	lit := tc.Append(&testcase.Statement{Kind: testcase.KPrimitive, Literal: 7})
	tc.Append(&testcase.Statement{Kind: testcase.KFunctionCall, Callable: "identity", Args: []testcase.Ref{lit}})

	limits := tracer.Limits{PerStatement: time.Second, PerTest: time.Second}
	if err := GenerateCandidates(context.Background(), interp, tc, tracer.ResolveStmtCall(mod), limits, Config{}); err != nil {
		t.Fatal(err)
	}
	wantAssertions := len(tc.Assertions)
	if wantAssertions == 0 {
		t.Fatal("expected at least one candidate assertion")
	}

	suite := testcase.NewSuite(tc)
	installer := &MutantInstaller{}
	report, err := FilterByMutationScore(context.Background(), prog, "target", interp, tracer.ResolveStmtCall(mod), limits, suite, mutate.All(), installer)
	if err != nil {
		t.Fatal(err)
	}
	if report.Created != 0 {
		t.Fatalf("want no mutants for a site-free function, got %d", report.Created)
	}
	if len(tc.Assertions) != wantAssertions {
		t.Errorf("want every candidate assertion kept when the mutant set is empty, got %d of %d", len(tc.Assertions), wantAssertions)
	}
}
