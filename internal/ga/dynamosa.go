package ga

import (
	"context"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/stopping"
	"github.com/ormasoftchile/suitegen/internal/testcase"
)

// DynaMOSA implements the common loop of spec.md §4.6 with DynaMOSA's
// goal-activation frontier: preference sorting runs only over the goals the
// GoalManager currently reports active, and covering an active goal may
// activate its CDG children for the next iteration (spec.md §4.6 "DynaMOSA
// specifics").
type DynaMOSA struct{}

func (DynaMOSA) Name() string { return "dynamosa" }

func (DynaMOSA) Run(ctx context.Context, rc *RunContext) (*Result, error) {
	allGoalIDs := make([]string, len(rc.Goals))
	for i, g := range rc.Goals {
		allGoalIDs[i] = g.ID()
	}
	cov := archive.NewCoverageArchive(allGoalIDs)

	pop := initialPopulation(rc)
	start := statsStart()
	iterations := 0
	plateau := 0
	totalStatements := 0
	totalTests := 0

	for {
		active := activeUncovered(rc, cov)
		scoredPop, grew := evaluatePopulation(ctx, rc, cov, pop, active, &totalStatements, &totalTests)
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
		emitIteration(rc, iterations, cov, grew, pop)
		if rc.Stop != nil && rc.Stop(st) {
			break
		}

		fronts := preferenceSort(scoredPop, active)
		offspring := breed(rc, fronts)
		combined := append(append([]*testcase.Case(nil), pop...), offspring...)
		combinedScored, grew2 := evaluatePopulation(ctx, rc, cov, combined, active, &totalStatements, &totalTests)
		if grew2 {
			plateau = 0
		}
		pop = truncate(preferenceSort(combinedScored, active), rc.PopSize)
		iterations++
	}

	return &Result{Suite: cov.Suite(), Iterations: iterations, Coverage: cov.Progress()}, nil
}

// activeUncovered intersects the goal manager's active frontier with the
// archive's uncovered set, so preference sorting never wastes budget on a
// goal that's either already covered or not yet reachable.
func activeUncovered(rc *RunContext, cov *archive.CoverageArchive) []string {
	uncovered := cov.UncoveredGoals()
	if rc.GoalManager == nil {
		return uncovered
	}
	var out []string
	for _, id := range uncovered {
		if rc.GoalManager.Active(id) {
			out = append(out, id)
		}
	}
	return out
}

func initialPopulation(rc *RunContext) []*testcase.Case {
	pop := make([]*testcase.Case, 0, rc.PopSize)
	candidates := rc.Factory.Cluster.All()
	for i := 0; i < rc.PopSize; i++ {
		tc := testcase.New()
		if len(candidates) > 0 {
			cb := candidates[rc.Rng.Intn(len(candidates))]
			rc.Factory.InsertCallStatement(tc, rc.Rng, cb.ID)
		}
		pop = append(pop, tc)
	}
	return pop
}

func evaluatePopulation(ctx context.Context, rc *RunContext, cov *archive.CoverageArchive, pop []*testcase.Case, active []string, totalStatements, totalTests *int) ([]scored, bool) {
	out := make([]scored, len(pop))
	grew := false
	for i, tc := range pop {
		tr, fit := evaluateCase(ctx, rc, tc)
		*totalStatements += len(tr.Results)
		*totalTests++
		notifyGoalManager(rc, tr)
		covers := coveredGoalIDs(fit)
		before := cov.CoveredCount()
		cov.Update(tc, covers)
		if cov.CoveredCount() > before {
			grew = true
		}
		restricted := make(map[string]float64, len(active))
		for _, id := range active {
			if f, ok := fit[id]; ok {
				restricted[id] = f
			} else {
				restricted[id] = 1
			}
		}
		out[i] = scored{tc: tc, fit: restricted}
	}
	return out, grew
}

func breed(rc *RunContext, fronts [][]scored) []*testcase.Case {
	var offspring []*testcase.Case
	for len(offspring) < rc.PopSize {
		p1 := tournamentSelect(fronts, rc.Rng)
		p2 := tournamentSelect(fronts, rc.Rng)
		c1, c2 := p1.tc.Clone(), p2.tc.Clone()
		if rc.Rng.Float64() < rc.CrossoverPr {
			c1, c2 = testcase.Crossover(c1, c2, rc.Rng.Float64())
		}
		rc.Factory.Mutate(c1, rc.Rng, rc.MutationProb)
		rc.Factory.Mutate(c2, rc.Rng, rc.MutationProb)
		offspring = append(offspring, c1, c2)
	}
	return offspring[:rc.PopSize]
}

// truncate flattens ranked fronts and keeps the first n individuals,
// preserving the front and subvector-distance ordering preferenceSort
// already established (spec.md §4.6 step (e) "Rank combined population;
// truncate to population size").
func truncate(fronts [][]scored, n int) []*testcase.Case {
	flat := flatten(fronts)
	if n > len(flat) {
		n = len(flat)
	}
	out := make([]*testcase.Case, n)
	for i := 0; i < n; i++ {
		out[i] = flat[i].tc
	}
	return out
}
