package tracer

import "github.com/ormasoftchile/suitegen/internal/testcase"

// evalPureStatement handles the testcase.Statement kinds that construct or
// read a value without invoking the target interpreter at all (a literal,
// a collection literal, a field read/write, a bare assignment). Run
// resolves these directly so every later statement's argument references
// see a real value, regardless of whether that argument was itself a call
// result or a literal.
func evalPureStatement(s *testcase.Statement, results []StmtResult) (StmtResult, bool) {
	switch s.Kind {
	case testcase.KPrimitive:
		return StmtResult{Value: s.Literal}, true
	case testcase.KCollection:
		items := make([]any, len(s.Elems))
		for i, e := range s.Elems {
			items[i] = refValue(results, e)
		}
		return StmtResult{Value: items}, true
	case testcase.KFieldRead:
		obj := refValue(results, s.Receiver)
		m, _ := obj.(map[string]any)
		return StmtResult{Value: m[s.Field]}, true
	case testcase.KFieldWrite:
		if m, ok := refValue(results, s.Receiver).(map[string]any); ok {
			m[s.Field] = refValue(results, s.From)
		}
		return StmtResult{}, true
	case testcase.KAssign:
		return StmtResult{Value: refValue(results, s.From)}, true
	default:
		return StmtResult{}, false
	}
}

// refValue looks up the value a completed statement at r produced, or nil
// if r is out of range (NoRef, or a forward reference that hasn't run yet).
func refValue(results []StmtResult, r testcase.Ref) any {
	if r == testcase.NoRef || int(r) < 0 || int(r) >= len(results) {
		return nil
	}
	return results[r].Value
}
