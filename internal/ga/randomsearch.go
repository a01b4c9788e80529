package ga

import (
	"context"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/stopping"
	"github.com/ormasoftchile/suitegen/internal/testcase"
)

// RandomSearch is pure random search: every iteration samples a fresh suite
// from scratch, ignoring everything retained so far except the coverage
// archive itself (spec.md §4.6 "RandomSearch specifics" — the baseline
// every other variant is compared against).
type RandomSearch struct{}

func (RandomSearch) Name() string { return "randomsearch" }

func (RandomSearch) Run(ctx context.Context, rc *RunContext) (*Result, error) {
	allGoalIDs := make([]string, len(rc.Goals))
	for i, g := range rc.Goals {
		allGoalIDs[i] = g.ID()
	}
	cov := archive.NewCoverageArchive(allGoalIDs)

	candidates := rc.Factory.Cluster.All()
	start := statsStart()
	iterations := 0
	plateau := 0
	totalStatements, totalTests := 0, 0

	for {
		grew := false
		var sample []*testcase.Case
		n := 1 + rc.Rng.Intn(3)
		for i := 0; i < n; i++ {
			tc := testcase.New()
			if len(candidates) > 0 {
				cb := candidates[rc.Rng.Intn(len(candidates))]
				rc.Factory.InsertCallStatement(tc, rc.Rng, cb.ID)
			}
			tr, fit := evaluateCase(ctx, rc, tc)
			totalStatements += len(tr.Results)
			totalTests++
			before := cov.CoveredCount()
			cov.Update(tc, coveredGoalIDs(fit))
			if cov.CoveredCount() > before {
				grew = true
			}
			sample = append(sample, tc)
		}
		if grew {
			plateau = 0
		} else {
			plateau++
		}

		st := stopping.Stats{
			Elapsed:            elapsedSince(start),
			Iterations:         iterations,
			StatementsExecuted: totalStatements,
			TestsExecuted:      totalTests,
			Coverage:           cov.Progress(),
			PlateauIterations:  plateau,
		}
		emitIteration(rc, iterations, cov, grew, sample)
		if rc.Stop != nil && rc.Stop(st) {
			break
		}
		iterations++
	}

	return &Result{Suite: cov.Suite(), Iterations: iterations, Coverage: cov.Progress()}, nil
}
