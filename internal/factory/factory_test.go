package factory

import (
	"math/rand"
	"testing"

	"github.com/ormasoftchile/suitegen/internal/cluster"
	"github.com/ormasoftchile/suitegen/internal/langfe"
	"github.com/ormasoftchile/suitegen/internal/seedpool"
	"github.com/ormasoftchile/suitegen/internal/testcase"
)

func triangleProgram(t *testing.T) *langfe.Program {
	t.Helper()
	src := `
func classify(a, b, c) {
	if a == b {
		return 1
	}
	return 0
}
`
	prog, err := langfe.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func TestFactory_InsertCallStatementSynthesizesArgs(t *testing.T) {
	prog := triangleProgram(t)
	c := cluster.Build(prog)
	f := New(c, seedpool.New())
	rng := rand.New(rand.NewSource(42))

	tc := testcase.New()
	ref, ok := f.InsertCallStatement(tc, rng, "classify")
	if !ok {
		t.Fatal("expected classify to be found in the cluster")
	}
	if int(ref) != tc.Len()-1 {
		t.Errorf("call statement should be the last appended statement")
	}
	if err := tc.Validate(); err != nil {
		t.Errorf("synthesized case should satisfy reference-before-use: %v", err)
	}
	call := tc.Stmts[ref]
	if len(call.Args) != 3 {
		t.Errorf("want 3 synthesized arguments, got %d", len(call.Args))
	}
}

func TestFactory_MutateKeepsCaseValid(t *testing.T) {
	prog := triangleProgram(t)
	c := cluster.Build(prog)
	f := New(c, seedpool.New())
	rng := rand.New(rand.NewSource(7))

	tc := testcase.New()
	f.InsertCallStatement(tc, rng, "classify")

	for i := 0; i < 20; i++ {
		f.Mutate(tc, rng, MutationProbabilities{Delete: 0.3, Change: 0.5, Insert: 0.3})
		if err := tc.Validate(); err != nil {
			t.Fatalf("mutation %d left an invalid case: %v", i, err)
		}
	}
}

func TestMutateValue_ChangesOrWrapsSensibly(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if v := MutateValue(rng, true); v != false {
		t.Errorf("bool mutation should flip, got %v", v)
	}
	if v, ok := MutateValue(rng, 10).(int); !ok {
		t.Errorf("int mutation should stay an int, got %T", v)
	}
}
