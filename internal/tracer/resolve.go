package tracer

import (
	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

// ResolveStmtCall builds the StmtCall adapter Run needs for the common
// case: a module whose objects are looked up by testcase.Statement.Callable.
// Non-call statement kinds are handled upstream by evalPureStatement, so
// this only ever sees KConstructor/KFunctionCall/KMethodCall.
func ResolveStmtCall(mod *vm.Module) func(pos int, s *testcase.Statement, results []StmtResult) (int, []any, bool) {
	return func(pos int, s *testcase.Statement, results []StmtResult) (int, []any, bool) {
		switch s.Kind {
		case testcase.KFunctionCall, testcase.KConstructor:
			return resolveArgsCall(mod, s.Callable, s.Args, results)
		case testcase.KMethodCall:
			_, objID, ok := mod.ObjectByName(s.Callable)
			if !ok {
				return 0, nil, false
			}
			args := make([]any, 0, len(s.Args)+1)
			args = append(args, refValue(results, s.Receiver))
			for _, ref := range s.Args {
				args = append(args, refValue(results, ref))
			}
			return objID, args, true
		default:
			return 0, nil, false
		}
	}
}

func resolveArgsCall(mod *vm.Module, callable string, refs []testcase.Ref, results []StmtResult) (int, []any, bool) {
	_, objID, ok := mod.ObjectByName(callable)
	if !ok {
		return 0, nil, false
	}
	args := make([]any, len(refs))
	for i, ref := range refs {
		args[i] = refValue(results, ref)
	}
	return objID, args, true
}
