package stopping

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// statsEnv is the variable environment an Expr condition is compiled and
// evaluated against — one field per Stats member, in the names an operator
// would naturally reach for.
type statsEnv struct {
	Elapsed            float64 // seconds
	Iterations         int
	StatementsExecuted int
	TestsExecuted      int
	Coverage           float64
	PlateauIterations  int
	ResidentMemoryMB   float64
}

func toEnv(s Stats) statsEnv {
	return statsEnv{
		Elapsed:            s.Elapsed.Seconds(),
		Iterations:         s.Iterations,
		StatementsExecuted: s.StatementsExecuted,
		TestsExecuted:      s.TestsExecuted,
		Coverage:           s.Coverage,
		PlateauIterations:  s.PlateauIterations,
		ResidentMemoryMB:   s.ResidentMemoryMB,
	}
}

// Expr compiles a boolean expr-lang/expr expression over run statistics
// (e.g. "Iterations > 200 && Coverage < 0.3") into a Condition. This is an
// escape hatch for operators who want a one-off composite beyond the named
// conditions above — not a replacement for them.
func Expr(source string) (Condition, error) {
	program, err := expr.Compile(source, expr.Env(statsEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("stopping: compile expression %q: %w", source, err)
	}
	return func(s Stats) bool {
		out, err := expr.Run(program, toEnv(s))
		if err != nil {
			return false
		}
		b, _ := out.(bool)
		return b
	}, nil
}
