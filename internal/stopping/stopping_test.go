package stopping

import (
	"testing"
	"time"
)

func TestAny_FiresWhenOneConditionFires(t *testing.T) {
	cond := Any(MaxIterations(100), MaxWallClock(time.Minute))
	if cond(Stats{Iterations: 5, Elapsed: 10 * time.Second}) {
		t.Error("neither condition should fire yet")
	}
	if !cond(Stats{Iterations: 100}) {
		t.Error("MaxIterations should have fired")
	}
}

func TestCoveragePlateau(t *testing.T) {
	cond := CoveragePlateau(10)
	if cond(Stats{PlateauIterations: 9}) {
		t.Error("should not fire before reaching the plateau window")
	}
	if !cond(Stats{PlateauIterations: 10}) {
		t.Error("should fire once the plateau window is reached")
	}
}

func TestExpr_EvaluatesBooleanExpression(t *testing.T) {
	cond, err := Expr("Iterations > 200 && Coverage < 0.3")
	if err != nil {
		t.Fatal(err)
	}
	if cond(Stats{Iterations: 300, Coverage: 0.5}) {
		t.Error("coverage 0.5 should not satisfy Coverage < 0.3")
	}
	if !cond(Stats{Iterations: 300, Coverage: 0.1}) {
		t.Error("expected the expression to fire")
	}
}

func TestExpr_InvalidExpressionFailsToCompile(t *testing.T) {
	if _, err := Expr("Iterations >"); err == nil {
		t.Error("want a compile error for a malformed expression")
	}
}
