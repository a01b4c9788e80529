package ga

import (
	"time"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/progress"
	"github.com/ormasoftchile/suitegen/internal/testcase"
)

func statsStart() time.Time { return time.Now() }

func elapsedSince(start time.Time) time.Duration { return time.Since(start) }

// emitIteration yields an iteration event to the run's observer bus
// (spec.md §4.6 step (f)).
func emitIteration(rc *RunContext, iteration int, cov *archive.CoverageArchive, grew bool, pop []*testcase.Case) {
	if rc.Observers == nil {
		return
	}
	best := 0
	for _, tc := range pop {
		if best == 0 || tc.Len() < best {
			best = tc.Len()
		}
	}
	rc.Observers.Emit(progress.IterationEvent{
		Iteration:  iteration,
		Coverage:   cov.Progress(),
		Population: len(pop),
		ArchiveHit: grew,
		BestLength: best,
	})
}

// emitSuiteIteration is emitIteration's whole-suite counterpart: "length"
// there means total statements across a suite, not a single case.
func emitSuiteIteration(rc *RunContext, iteration int, cov *archive.CoverageArchive, grew bool, scores []suiteScore) {
	if rc.Observers == nil {
		return
	}
	best := 0
	for _, sc := range scores {
		if best == 0 || sc.length < best {
			best = sc.length
		}
	}
	rc.Observers.Emit(progress.IterationEvent{
		Iteration:  iteration,
		Coverage:   cov.Progress(),
		Population: len(scores),
		ArchiveHit: grew,
		BestLength: best,
	})
}
