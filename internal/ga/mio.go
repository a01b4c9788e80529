package ga

import (
	"context"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/stopping"
	"github.com/ormasoftchile/suitegen/internal/testcase"
)

// MIO runs spec.md §4.6's "MIO specifics" loop: no preference sorting or
// crossover. Each iteration, for every uncovered target, it samples or
// mutates an existing candidate M times (per the archive's current
// exploration/exploitation parameters) and records every result back into
// the per-target MIOArchive population.
type MIO struct{}

func (MIO) Name() string { return "mio" }

func (MIO) Run(ctx context.Context, rc *RunContext) (*Result, error) {
	allGoalIDs := make([]string, len(rc.Goals))
	for i, g := range rc.Goals {
		allGoalIDs[i] = g.ID()
	}
	cov := archive.NewCoverageArchive(allGoalIDs)
	mio := rc.Archive
	if mio == nil {
		mio = archive.NewMIOArchive()
	}

	start := statsStart()
	iterations := 0
	plateau := 0
	totalStatements, totalTests := 0, 0

	for {
		targets := cov.UncoveredGoals()
		mio.AdvanceParams(cov.Progress())
		params := mio.Params()
		grew := false

		for _, goalID := range targets {
			for i := 0; i < params.M; i++ {
				tc := sampleOrMutate(rc, mio, goalID)
				tr, fit := evaluateCase(ctx, rc, tc)
				totalStatements += len(tr.Results)
				totalTests++
				notifyGoalManager(rc, tr)

				f, ok := fit[goalID]
				if !ok {
					f = 1
				}
				h := 1 - f
				mio.Record(goalID, tc, h)

				before := cov.CoveredCount()
				cov.Update(tc, coveredGoalIDs(fit))
				if cov.CoveredCount() > before {
					grew = true
				}
			}
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
		emitIteration(rc, iterations, cov, grew, nil)
		if rc.Stop != nil && rc.Stop(st) {
			break
		}
		iterations++
	}

	return &Result{Suite: cov.Suite(), Iterations: iterations, Coverage: cov.Progress()}, nil
}

// sampleOrMutate draws a candidate from the target's archive population per
// MIOArchive.Sample's Pr gate, mutating it when one is found; falls back to
// a fresh synthesized case otherwise (spec.md §4.5 sampling rule).
func sampleOrMutate(rc *RunContext, mio *archive.MIOArchive, goalID string) *testcase.Case {
	if ind, ok := mio.Sample(goalID, rc.Rng); ok {
		tc := ind.Case.Clone()
		rc.Factory.Mutate(tc, rc.Rng, rc.MutationProb)
		return tc
	}
	candidates := rc.Factory.Cluster.All()
	tc := testcase.New()
	if len(candidates) > 0 {
		cb := candidates[rc.Rng.Intn(len(candidates))]
		rc.Factory.InsertCallStatement(tc, rc.Rng, cb.ID)
	}
	return tc
}
