package assertgen

import (
	"fmt"

	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/tracer"
)

// Result is the outcome of checking one Assertion against a replay Trace,
// the same per-assertion pass/fail/message shape the teacher's
// pkg/testing.AssertionResult uses to report one TestSpec field's outcome.
type Result struct {
	StmtPos int
	Kind    string
	Passed  bool
	Message string
}

// Evaluate checks every assertion in assertions against tr, mirroring the
// teacher's pkg/testing.Evaluate: one independent check per assertion,
// dispatched by kind, each producing its own pass/fail verdict and message.
func Evaluate(assertions []testcase.Assertion, tr *tracer.Trace) []Result {
	out := make([]Result, 0, len(assertions))
	for _, a := range assertions {
		out = append(out, evalOne(a, tr))
	}
	return out
}

// HasFailures reports whether any result in results failed.
func HasFailures(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}

func evalOne(a testcase.Assertion, tr *tracer.Trace) Result {
	if a.StmtPos < 0 || a.StmtPos >= len(tr.Results) {
		return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: false, Message: "statement position missing from trace"}
	}
	res := tr.Results[a.StmtPos]
	switch a.Kind {
	case "raises":
		want, _ := a.Payload.(string)
		if res.ExcType == want {
			return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: true}
		}
		return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: false,
			Message: fmt.Sprintf("expected exception %q, got %q", want, res.ExcType)}
	case "equals":
		if res.ExcType != "" {
			return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: false, Message: fmt.Sprintf("unexpected exception %q", res.ExcType)}
		}
		if deepEqual(res.Value, a.Payload) {
			return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: true}
		}
		return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: false,
			Message: fmt.Sprintf("expected %v, got %v", a.Payload, res.Value)}
	case "approx":
		want, _ := a.Payload.(ApproxPayload)
		got, ok := res.Value.(float64)
		if !ok || absFloat(got-want.Value) > want.Tolerance {
			return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: false,
				Message: fmt.Sprintf("expected ~%v (tol %v), got %v", want.Value, want.Tolerance, res.Value)}
		}
		return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: true}
	case "type", "isinstance":
		want, _ := a.Payload.(string)
		got := classify(res.Value)
		if a.Kind == "isinstance" {
			got = isinstanceCategory(res.Value)
		}
		if got == want {
			return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: true}
		}
		return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: false,
			Message: fmt.Sprintf("expected %s %q, got %q", a.Kind, want, got)}
	case "length":
		want, _ := a.Payload.(int)
		got, ok := lengthOf(res.Value)
		if !ok || got != want {
			return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: false,
				Message: fmt.Sprintf("expected length %d, got %d (ok=%v)", want, got, ok)}
		}
		return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: true}
	default:
		return Result{StmtPos: a.StmtPos, Kind: a.Kind, Passed: false, Message: "unknown assertion kind"}
	}
}

// isinstanceCategory reports the broader structural category a value
// belongs to ("sequence"/"mapping"/its exact type for scalars) — a coarser
// check than classify's exact type name, the closest this value model gets
// to isinstance's subclass tolerance without any class hierarchy to widen
// over.
func isinstanceCategory(v any) string {
	switch v.(type) {
	case []any:
		return "sequence"
	case map[string]any:
		return "mapping"
	default:
		return classify(v)
	}
}

func lengthOf(v any) (int, bool) {
	switch val := v.(type) {
	case []any:
		return len(val), true
	case map[string]any:
		return len(val), true
	case string:
		return len(val), true
	default:
		return 0, false
	}
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
