package mutate

import (
	"testing"

	"github.com/ormasoftchile/suitegen/internal/langfe"
)

func parseOrFail(t *testing.T, src string) *langfe.Program {
	t.Helper()
	prog, err := langfe.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func classifyProgram(t *testing.T) *langfe.Program {
	return parseOrFail(t, `
func classify(a, b) {
	if a == b and not (a < 0) {
		raise ValueError("bad")
	}
	return a + b * 2
}
`)
}

func TestArithmeticReplace_ProducesDistinctOperators(t *testing.T) {
	prog := classifyProgram(t)
	op := ArithmeticReplace{}
	n := op.Sites(prog)
	if n == 0 {
		t.Fatal("expected at least one arithmetic site")
	}
	for site := 0; site < n; site++ {
		mutant := op.Apply(prog, site)
		if mutant == prog {
			t.Fatal("Apply must return an independent program")
		}
	}
}

func TestComparisonReplace_FlipsOperator(t *testing.T) {
	prog := classifyProgram(t)
	op := ComparisonReplace{}
	mutant := op.Apply(prog, 0)

	var found string
	walkProgramExprSlots(mutant, func(slot *langfe.Expr) {
		if c, ok := (*slot).(*langfe.CompareExpr); ok {
			found = c.Op
		}
	})
	if found == "" || found == "==" {
		t.Errorf("expected comparison operator to change from ==, got %q", found)
	}
}

func TestBooleanSwap_FlipsAndToOr(t *testing.T) {
	prog := classifyProgram(t)
	op := BooleanSwap{}
	if op.Sites(prog) != 1 {
		t.Fatalf("expected exactly one logical expr, got %d sites", op.Sites(prog))
	}
	mutant := op.Apply(prog, 0)
	walkProgramExprSlots(mutant, func(slot *langfe.Expr) {
		if l, ok := (*slot).(*langfe.LogicalExpr); ok && l.Op != "or" {
			t.Errorf("expected 'and' swapped to 'or', got %q", l.Op)
		}
	})
}

func TestNegationDelete_RemovesNotWrapper(t *testing.T) {
	prog := classifyProgram(t)
	op := NegationDelete{}
	if op.Sites(prog) != 1 {
		t.Fatalf("expected exactly one negation site, got %d", op.Sites(prog))
	}
	mutant := op.Apply(prog, 0)
	remaining := 0
	walkProgramExprSlots(mutant, func(slot *langfe.Expr) {
		if u, ok := (*slot).(*langfe.UnaryExpr); ok && u.Op == "not" {
			remaining++
		}
	})
	if remaining != 0 {
		t.Error("expected the 'not' wrapper to be gone")
	}
}

func TestConstantTweak_IncrementsIntLiteral(t *testing.T) {
	prog := parseOrFail(t, `
func f(a) {
	return a + 2
}
`)
	op := ConstantTweak{}
	mutant := op.Apply(prog, 0) // site 0 is +1 on the IntLit(2)

	var val int
	found := false
	walkProgramExprSlots(mutant, func(slot *langfe.Expr) {
		if lit, ok := (*slot).(*langfe.IntLit); ok {
			val = lit.Value
			found = true
		}
	})
	if !found || val != 3 {
		t.Errorf("expected literal tweaked to 3, got %v (found=%v)", val, found)
	}
}

func TestExceptionTypeSwap_ChangesExcType(t *testing.T) {
	prog := classifyProgram(t)
	op := ExceptionTypeSwap{}
	if op.Sites(prog) == 0 {
		t.Fatal("expected at least one exception-type-swap site")
	}
	mutant := op.Apply(prog, 0)

	var got string
	walkRaiseStmts(mutant, func(r *langfe.RaiseStmt) { got = r.ExcType })
	if got == "" || got == "ValueError" {
		t.Errorf("expected ExcType swapped away from ValueError, got %q", got)
	}
}

func TestGenerate_ProducesOneMutantPerSite(t *testing.T) {
	prog := classifyProgram(t)
	mutants := Generate(prog, All())
	if len(mutants) == 0 {
		t.Fatal("expected at least one mutant across all operators")
	}
	for _, m := range mutants {
		if m.Program == prog {
			t.Fatal("mutant program must not alias the original")
		}
	}
}

func TestHigherOrder_ComposesTwoMutants(t *testing.T) {
	prog := classifyProgram(t)
	firstOrder := Generate(prog, []Operator{ArithmeticReplace{}})
	if len(firstOrder) == 0 {
		t.Fatal("expected at least one first-order arithmetic mutant")
	}
	second := Generate(prog, []Operator{BooleanSwap{}})
	if len(second) == 0 {
		t.Fatal("expected at least one first-order boolean mutant")
	}

	combined, ok := HigherOrder(firstOrder[0], second[0])
	if !ok {
		t.Fatal("expected a valid higher-order composition")
	}
	if combined.Program == firstOrder[0].Program {
		t.Fatal("higher-order mutant must be independently cloned")
	}
}

func TestClone_DoesNotAliasOriginal(t *testing.T) {
	prog := classifyProgram(t)
	clone := cloneProgram(prog)
	clone.Funcs[0].Name = "renamed"
	if prog.Funcs[0].Name == "renamed" {
		t.Fatal("mutating the clone must not affect the original")
	}
}
