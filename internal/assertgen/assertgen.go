// Package assertgen implements spec.md §4.8's assertion generator: replay a
// finished test case to harvest candidate assertions (Phase 1), then prune
// them against a mutant population so only assertions that actually kill a
// mutant survive (Phase 2). Phase 3, emission to a concrete test-file
// format, is the out-of-scope unparser's job — this package only produces
// the pruned testcase.Case/Assertion structures it consumes.
package assertgen

import (
	"context"
	"math"

	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/tracer"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

// StmtCall is the same statement-resolution adapter tracer.Run takes.
// tracer.Run and ga.RunContext.StmtCall spell the shape out inline, and
// subprocess declares its own identical StmtCall type.
type StmtCall func(pos int, s *testcase.Statement, results []tracer.StmtResult) (objectID int, args []any, ok bool)

// Config bounds Phase 1 replay and the float-equality tolerance used for
// both flakiness detection and approximate assertions.
type Config struct {
	Replays        int     // number of replays consulted for flaky-value detection; 0 defaults to 3
	FloatTolerance float64 // 0 defaults to 1e-9
}

func (c Config) replays() int {
	if c.Replays <= 0 {
		return 3
	}
	return c.Replays
}

func (c Config) tolerance() float64 {
	if c.FloatTolerance <= 0 {
		return 1e-9
	}
	return c.FloatTolerance
}

// ApproxPayload is the Payload of an Assertion{Kind: "approx"}: the
// replay-observed float value plus the tolerance it was generated with.
type ApproxPayload struct {
	Value     float64
	Tolerance float64
}

// GenerateCandidates replays tc cfg.replays() times against interp and
// appends one Assertion per non-flaky statement to tc.Assertions (spec.md
// §4.8 Phase 1). Existing assertions are left untouched; call this once per
// case, before Phase 2 filtering.
func GenerateCandidates(ctx context.Context, interp *vm.Interp, tc *testcase.Case, stmtCall StmtCall, limits tracer.Limits, cfg Config) error {
	n := cfg.replays()
	replays := make([]*tracer.Trace, 0, n)
	for i := 0; i < n; i++ {
		tr, err := tracer.Run(ctx, interp, tc, stmtCall, limits)
		if err != nil {
			return err
		}
		if tr.TimedOut {
			continue
		}
		replays = append(replays, tr)
	}
	if len(replays) == 0 {
		return nil
	}

	for pos, stmt := range tc.Stmts {
		if !stmt.Produces() {
			continue
		}
		if a, ok := candidateFor(pos, replays, cfg); ok {
			tc.Assertions = append(tc.Assertions, a...)
		}
	}
	return nil
}

// candidateFor inspects every replay's result at pos and builds the
// type-appropriate assertion set, or reports false if the observed value
// (or raised-exception type) varied across replays — "flaky", per spec.md
// §4.8 Phase 1, and therefore not assertable.
func candidateFor(pos int, replays []*tracer.Trace, cfg Config) ([]testcase.Assertion, bool) {
	first := replays[0].Results[pos]
	for _, tr := range replays[1:] {
		res := tr.Results[pos]
		if res.ExcType != first.ExcType {
			return nil, false
		}
		if first.ExcType == "" && !valueStable(first.Value, res.Value, cfg.tolerance()) {
			return nil, false
		}
	}
	if first.ExcType != "" {
		return []testcase.Assertion{{StmtPos: pos, Kind: "raises", Payload: first.ExcType}}, true
	}
	return assertionsForValue(pos, first.Value, cfg), true
}

// valueStable reports whether two replay observations of the same
// statement agree closely enough to be asserted on: exact equality for
// everything except floats, which tolerate cfg's tolerance.
func valueStable(a, b any, tol float64) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return math.Abs(af-bf) <= tol
	}
	return deepEqual(a, b)
}

// assertionsForValue builds the candidate set for one concrete value:
// exact equality (with type-appropriate predicate) for primitives,
// type/length/isinstance structural checks for everything else.
func assertionsForValue(pos int, v any, cfg Config) []testcase.Assertion {
	switch val := v.(type) {
	case nil:
		return []testcase.Assertion{{StmtPos: pos, Kind: "equals", Payload: nil}}
	case bool, int, string:
		return []testcase.Assertion{{StmtPos: pos, Kind: "equals", Payload: val}}
	case float64:
		return []testcase.Assertion{{StmtPos: pos, Kind: "approx", Payload: ApproxPayload{Value: val, Tolerance: cfg.tolerance()}}}
	case []any:
		return []testcase.Assertion{
			{StmtPos: pos, Kind: "type", Payload: "list"},
			{StmtPos: pos, Kind: "length", Payload: len(val)},
			{StmtPos: pos, Kind: "isinstance", Payload: "sequence"},
		}
	case map[string]any:
		return []testcase.Assertion{
			{StmtPos: pos, Kind: "type", Payload: "object"},
			{StmtPos: pos, Kind: "length", Payload: len(val)},
			{StmtPos: pos, Kind: "isinstance", Payload: "mapping"},
		}
	default:
		return []testcase.Assertion{{StmtPos: pos, Kind: "type", Payload: classify(val)}}
	}
}

func classify(v any) string {
	switch v.(type) {
	case nil:
		return "none"
	case bool:
		return "bool"
	case int:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

func deepEqual(a, b any) bool {
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			if bv2, ok := bv[k]; !ok || !deepEqual(v, bv2) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
