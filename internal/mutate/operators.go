// Package mutate implements the closed set of AST-level mutation operators
// assertgen's Phase 2 mutation analysis runs against a compiled target: each
// Operator finds every site in a langfe.Program where its rule applies and
// can produce one single-site mutant per site, grounded in the small,
// flat grammar langfe.Program actually exposes (no loops' break/continue, no
// try/except, no classes/decorators/super — those spec.md §4.8 operator
// kinds have no AST to apply to here and are intentionally absent, not
// dropped; see DESIGN.md).
package mutate

import "github.com/ormasoftchile/suitegen/internal/langfe"

// Operator is one mutation rule. Sites reports how many places in prog it
// could apply; Apply returns a fresh, fully independent mutant program with
// only the site-th occurrence changed.
type Operator interface {
	Name() string
	Sites(prog *langfe.Program) int
	Apply(prog *langfe.Program, site int) *langfe.Program
}

var arithmeticReplacements = map[string][]string{
	"+": {"-", "*"},
	"-": {"+", "*"},
	"*": {"+", "/"},
	"/": {"*", "-"},
	"%": {"*", "-"},
}

// ArithmeticReplace swaps a BinaryExpr's operator for a different one from
// arithmeticReplacements, cycling through the candidates by site count so
// repeated Sites of the same operator don't all collapse onto one mutant.
type ArithmeticReplace struct{}

func (ArithmeticReplace) Name() string { return "arithmetic-replace" }

func (ArithmeticReplace) Sites(prog *langfe.Program) int {
	n := 0
	walkProgramExprSlots(prog, func(slot *langfe.Expr) {
		if b, ok := (*slot).(*langfe.BinaryExpr); ok {
			n += len(arithmeticReplacements[b.Op])
		}
	})
	return n
}

func (ArithmeticReplace) Apply(prog *langfe.Program, site int) *langfe.Program {
	mutant := cloneProgram(prog)
	i := 0
	walkProgramExprSlots(mutant, func(slot *langfe.Expr) {
		b, ok := (*slot).(*langfe.BinaryExpr)
		if !ok {
			return
		}
		for _, repl := range arithmeticReplacements[b.Op] {
			if i == site {
				b.Op = repl
			}
			i++
		}
	})
	return mutant
}

var comparisonReplacements = map[string][]string{
	"==": {"!="},
	"!=": {"=="},
	"<":  {">=", "<="},
	"<=": {">", "<"},
	">":  {"<=", ">="},
	">=": {"<", ">"},
	"in": {"is"},
	"is": {"in"},
}

// ComparisonReplace swaps a CompareExpr's operator for a different one.
type ComparisonReplace struct{}

func (ComparisonReplace) Name() string { return "comparison-replace" }

func (ComparisonReplace) Sites(prog *langfe.Program) int {
	n := 0
	walkProgramExprSlots(prog, func(slot *langfe.Expr) {
		if c, ok := (*slot).(*langfe.CompareExpr); ok {
			n += len(comparisonReplacements[c.Op])
		}
	})
	return n
}

func (ComparisonReplace) Apply(prog *langfe.Program, site int) *langfe.Program {
	mutant := cloneProgram(prog)
	i := 0
	walkProgramExprSlots(mutant, func(slot *langfe.Expr) {
		c, ok := (*slot).(*langfe.CompareExpr)
		if !ok {
			return
		}
		for _, repl := range comparisonReplacements[c.Op] {
			if i == site {
				c.Op = repl
			}
			i++
		}
	})
	return mutant
}

// BooleanSwap flips a LogicalExpr's "and" to "or" or vice versa.
type BooleanSwap struct{}

func (BooleanSwap) Name() string { return "boolean-swap" }

func (BooleanSwap) Sites(prog *langfe.Program) int {
	n := 0
	walkProgramExprSlots(prog, func(slot *langfe.Expr) {
		if _, ok := (*slot).(*langfe.LogicalExpr); ok {
			n++
		}
	})
	return n
}

func (BooleanSwap) Apply(prog *langfe.Program, site int) *langfe.Program {
	mutant := cloneProgram(prog)
	i := 0
	walkProgramExprSlots(mutant, func(slot *langfe.Expr) {
		l, ok := (*slot).(*langfe.LogicalExpr)
		if !ok {
			return
		}
		if i == site {
			if l.Op == "and" {
				l.Op = "or"
			} else {
				l.Op = "and"
			}
		}
		i++
	})
	return mutant
}

// UnaryDelete removes a UnaryExpr wrapper (e.g. the "-" in "-x"), replacing
// it with its operand.
type UnaryDelete struct{}

func (UnaryDelete) Name() string { return "unary-delete" }

func (UnaryDelete) Sites(prog *langfe.Program) int {
	n := 0
	walkProgramExprSlots(prog, func(slot *langfe.Expr) {
		if u, ok := (*slot).(*langfe.UnaryExpr); ok && u.Op == "-" {
			n++
		}
	})
	return n
}

func (UnaryDelete) Apply(prog *langfe.Program, site int) *langfe.Program {
	mutant := cloneProgram(prog)
	i := 0
	walkProgramExprSlots(mutant, func(slot *langfe.Expr) {
		u, ok := (*slot).(*langfe.UnaryExpr)
		if !ok || u.Op != "-" {
			return
		}
		if i == site {
			*slot = u.X
		}
		i++
	})
	return mutant
}

// NegationDelete removes a "not" UnaryExpr wrapper, the boolean-logic
// counterpart to UnaryDelete.
type NegationDelete struct{}

func (NegationDelete) Name() string { return "negation-delete" }

func (NegationDelete) Sites(prog *langfe.Program) int {
	n := 0
	walkProgramExprSlots(prog, func(slot *langfe.Expr) {
		if u, ok := (*slot).(*langfe.UnaryExpr); ok && u.Op == "not" {
			n++
		}
	})
	return n
}

func (NegationDelete) Apply(prog *langfe.Program, site int) *langfe.Program {
	mutant := cloneProgram(prog)
	i := 0
	walkProgramExprSlots(mutant, func(slot *langfe.Expr) {
		u, ok := (*slot).(*langfe.UnaryExpr)
		if !ok || u.Op != "not" {
			return
		}
		if i == site {
			*slot = u.X
		}
		i++
	})
	return mutant
}

// ConstantTweak perturbs literal values: IntLit by +-1, StringLit to "",
// BoolLit flipped, and any literal replaced outright by NoneLit.
type ConstantTweak struct{}

func (ConstantTweak) Name() string { return "constant-tweak" }

func constantTweakCount(e langfe.Expr) int {
	switch e.(type) {
	case *langfe.IntLit:
		return 3 // +1, -1, None
	case *langfe.StringLit, *langfe.BoolLit:
		return 2 // zero-value, None
	default:
		return 0
	}
}

func (ConstantTweak) Sites(prog *langfe.Program) int {
	n := 0
	walkProgramExprSlots(prog, func(slot *langfe.Expr) {
		n += constantTweakCount(*slot)
	})
	return n
}

func (ConstantTweak) Apply(prog *langfe.Program, site int) *langfe.Program {
	mutant := cloneProgram(prog)
	i := 0
	walkProgramExprSlots(mutant, func(slot *langfe.Expr) {
		count := constantTweakCount(*slot)
		if count == 0 {
			return
		}
		offset := site - i
		i += count
		if offset < 0 || offset >= count {
			return
		}
		switch lit := (*slot).(type) {
		case *langfe.IntLit:
			switch offset {
			case 0:
				lit.Value++
			case 1:
				lit.Value--
			case 2:
				*slot = &langfe.NoneLit{}
			}
		case *langfe.StringLit:
			if offset == 0 {
				lit.Value = ""
			} else {
				*slot = &langfe.NoneLit{}
			}
		case *langfe.BoolLit:
			if offset == 0 {
				lit.Value = !lit.Value
			} else {
				*slot = &langfe.NoneLit{}
			}
		}
	})
	return mutant
}

var exceptionTypePool = []string{"ValueError", "TypeError", "KeyError", "IndexError", "RuntimeError"}

// ExceptionTypeSwap rewrites a RaiseStmt's exception type to a different
// one drawn from exceptionTypePool — the nearest analogue this grammar has
// to spec.md §4.8's exception-type-swap operator (there is no except
// clause to remove, since the grammar has no try/except construct at all).
type ExceptionTypeSwap struct{}

func (ExceptionTypeSwap) Name() string { return "exception-type-swap" }

func candidateExceptionTypes(current string) []string {
	out := make([]string, 0, len(exceptionTypePool))
	for _, t := range exceptionTypePool {
		if t != current {
			out = append(out, t)
		}
	}
	return out
}

func (ExceptionTypeSwap) Sites(prog *langfe.Program) int {
	n := 0
	walkRaiseStmts(prog, func(r *langfe.RaiseStmt) {
		n += len(candidateExceptionTypes(r.ExcType))
	})
	return n
}

func (ExceptionTypeSwap) Apply(prog *langfe.Program, site int) *langfe.Program {
	mutant := cloneProgram(prog)
	i := 0
	walkRaiseStmts(mutant, func(r *langfe.RaiseStmt) {
		candidates := candidateExceptionTypes(r.ExcType)
		offset := site - i
		i += len(candidates)
		if offset >= 0 && offset < len(candidates) {
			r.ExcType = candidates[offset]
		}
	})
	return mutant
}

// All returns the complete, closed operator set, in a fixed order so
// mutation runs are reproducible across seeds (spec.md §8).
func All() []Operator {
	return []Operator{
		ArithmeticReplace{},
		ComparisonReplace{},
		BooleanSwap{},
		UnaryDelete{},
		NegationDelete{},
		ConstantTweak{},
		ExceptionTypeSwap{},
	}
}
