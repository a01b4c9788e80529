package ga

import (
	"context"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/stopping"
	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/tracer"
)

// Random is feedback-directed random testing: each iteration picks a random
// callable and extends an existing test (or starts a fresh one), executes
// it, and keeps it only if it's not structurally a duplicate of something
// already retained. Passing and failing cases are kept in separate lists
// that feed extension and iteration events; the Result carries only the
// coverage archive's suite, with no regression/error split (spec.md §4.6
// "Random specifics").
type Random struct{}

func (Random) Name() string { return "random" }

func (r Random) Run(ctx context.Context, rc *RunContext) (*Result, error) {
	allGoalIDs := make([]string, len(rc.Goals))
	for i, g := range rc.Goals {
		allGoalIDs[i] = g.ID()
	}
	cov := archive.NewCoverageArchive(allGoalIDs)

	var passing, failing []*testcase.Case
	start := statsStart()
	iterations := 0
	plateau := 0
	totalStatements, totalTests := 0, 0

	for {
		tc := r.extend(rc, passing)
		tr, fit := evaluateCase(ctx, rc, tc)
		totalStatements += len(tr.Results)
		totalTests++
		notifyGoalManager(rc, tr)

		before := cov.CoveredCount()
		cov.Update(tc, coveredGoalIDs(fit))
		grew := cov.CoveredCount() > before
		if grew {
			plateau = 0
		} else {
			plateau++
		}

		if tr.TimedOut || hasException(tr) {
			if !containsStructurally(failing, tc) {
				failing = append(failing, tc)
			}
		} else if !containsStructurally(passing, tc) {
			passing = append(passing, tc)
		}

		st := stopping.Stats{
			Elapsed:            elapsedSince(start),
			Iterations:         iterations,
			StatementsExecuted: totalStatements,
			TestsExecuted:      totalTests,
			Coverage:           cov.Progress(),
			PlateauIterations:  plateau,
		}
		emitIteration(rc, iterations, cov, grew, append(append([]*testcase.Case(nil), passing...), failing...))
		if rc.Stop != nil && rc.Stop(st) {
			break
		}
		iterations++
	}

	return &Result{Suite: cov.Suite(), Iterations: iterations, Coverage: cov.Progress()}, nil
}

// extend clones a random existing passing case and appends one more call
// statement, or starts a fresh one-statement case when none exist yet.
func (Random) extend(rc *RunContext, passing []*testcase.Case) *testcase.Case {
	candidates := rc.Factory.Cluster.All()
	var tc *testcase.Case
	if len(passing) > 0 && rc.Rng.Float64() < 0.7 {
		tc = passing[rc.Rng.Intn(len(passing))].Clone()
	} else {
		tc = testcase.New()
	}
	if len(candidates) > 0 {
		cb := candidates[rc.Rng.Intn(len(candidates))]
		rc.Factory.InsertCallStatement(tc, rc.Rng, cb.ID)
	}
	return tc
}

func hasException(tr *tracer.Trace) bool {
	for _, res := range tr.Results {
		if res.ExcType != "" {
			return true
		}
	}
	return false
}

func containsStructurally(set []*testcase.Case, tc *testcase.Case) bool {
	for _, existing := range set {
		if existing.StructurallyEqual(tc) {
			return true
		}
	}
	return false
}
