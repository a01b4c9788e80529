package ga

import (
	"context"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/stopping"
	"github.com/ormasoftchile/suitegen/internal/testcase"
)

// WholeSuite evolves whole test suites as chromosomes: fitness aggregates
// over all goals, and elitism preserves the best k suites each iteration
// (spec.md §4.6 "Whole-suite specifics"). Every other slot of the next
// generation is filled with a crossed-over, mutated offspring; offspring
// are not compared with their parents before they enter the population.
type WholeSuite struct {
	Elite int // number of best suites preserved unconditionally each generation
}

func (WholeSuite) Name() string { return "wholesuite" }

// suiteScore is one suite's aggregate fitness and total statement length.
type suiteScore struct {
	suite  *testcase.Suite
	fitSum float64
	length int
}

func (w WholeSuite) Run(ctx context.Context, rc *RunContext) (*Result, error) {
	allGoalIDs := make([]string, len(rc.Goals))
	for i, g := range rc.Goals {
		allGoalIDs[i] = g.ID()
	}
	cov := archive.NewCoverageArchive(allGoalIDs)

	elite := w.Elite
	if elite <= 0 {
		elite = 2
	}

	pop := initialSuitePopulation(rc)
	start := statsStart()
	iterations := 0
	plateau := 0
	totalStatements, totalTests := 0, 0

	for {
		scores, grew := evaluateSuites(ctx, rc, cov, pop, &totalStatements, &totalTests)
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
		emitSuiteIteration(rc, iterations, cov, grew, scores)
		if rc.Stop != nil && rc.Stop(st) {
			break
		}

		sortSuites(scores)
		next := make([]*testcase.Suite, 0, rc.PopSize)
		for i := 0; i < elite && i < len(scores); i++ {
			next = append(next, scores[i].suite)
		}
		for len(next) < rc.PopSize {
			p1 := scores[rc.Rng.Intn(len(scores))].suite
			p2 := scores[rc.Rng.Intn(len(scores))].suite
			child := crossSuites(rc, p1, p2)
			mutateSuite(rc, child)
			next = append(next, child)
		}
		pop = next[:rc.PopSize]
		iterations++
	}

	return &Result{Suite: cov.Suite(), Iterations: iterations, Coverage: cov.Progress()}, nil
}

func initialSuitePopulation(rc *RunContext) []*testcase.Suite {
	pop := make([]*testcase.Suite, rc.PopSize)
	candidates := rc.Factory.Cluster.All()
	for i := range pop {
		s := testcase.NewSuite()
		n := 1 + rc.Rng.Intn(3)
		for j := 0; j < n; j++ {
			tc := testcase.New()
			if len(candidates) > 0 {
				cb := candidates[rc.Rng.Intn(len(candidates))]
				rc.Factory.InsertCallStatement(tc, rc.Rng, cb.ID)
			}
			s.Add(tc)
		}
		pop[i] = s
	}
	return pop
}

func evaluateSuites(ctx context.Context, rc *RunContext, cov *archive.CoverageArchive, pop []*testcase.Suite, totalStatements, totalTests *int) ([]suiteScore, bool) {
	out := make([]suiteScore, len(pop))
	grew := false
	for i, s := range pop {
		sum := 0.0
		for _, tc := range s.Cases {
			tr, fit := evaluateCase(ctx, rc, tc)
			*totalStatements += len(tr.Results)
			*totalTests++
			for _, f := range fit {
				sum += f
			}
			before := cov.CoveredCount()
			cov.Update(tc, coveredGoalIDs(fit))
			if cov.CoveredCount() > before {
				grew = true
			}
		}
		out[i] = suiteScore{suite: s, fitSum: sum, length: s.TotalStatements()}
	}
	return out, grew
}

func sortSuites(scores []suiteScore) {
	for i := 1; i < len(scores); i++ {
		j := i
		for j > 0 && less(scores[j], scores[j-1]) {
			scores[j-1], scores[j] = scores[j], scores[j-1]
			j--
		}
	}
}

// less implements "strictly better or equal-with-smaller-length": lower
// fitSum wins; ties broken by shorter total length.
func less(a, b suiteScore) bool {
	if a.fitSum != b.fitSum {
		return a.fitSum < b.fitSum
	}
	return a.length < b.length
}

func crossSuites(rc *RunContext, p1, p2 *testcase.Suite) *testcase.Suite {
	child := testcase.NewSuite()
	for _, tc := range p1.Cases {
		child.Add(tc.Clone())
	}
	cut := rc.Rng.Intn(len(p2.Cases) + 1)
	for _, tc := range p2.Cases[:cut] {
		child.Add(tc.Clone())
	}
	return child
}

func mutateSuite(rc *RunContext, s *testcase.Suite) {
	for _, tc := range s.Cases {
		rc.Factory.Mutate(tc, rc.Rng, rc.MutationProb)
	}
}
