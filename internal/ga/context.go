// Package ga implements the evolutionary-algorithm family spec.md §4.6
// calls for (DynaMOSA, MOSA, MIO, Whole-Suite, feedback-directed Random, and
// RandomSearch), sharing one common loop shape, preference sorting, and
// selection machinery across variants.
package ga

import (
	"context"
	"math/rand"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/factory"
	"github.com/ormasoftchile/suitegen/internal/fitness"
	"github.com/ormasoftchile/suitegen/internal/goal"
	"github.com/ormasoftchile/suitegen/internal/goalmgr"
	"github.com/ormasoftchile/suitegen/internal/progress"
	"github.com/ormasoftchile/suitegen/internal/stopping"
	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/tracer"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

// RunContext bundles everything an Algorithm needs to evaluate and evolve a
// population against one instrumented module: the interpreter to execute
// statements against, the fitness/goal-manager machinery, the factory for
// synthesis and mutation, and the stopping/observer wiring.
type RunContext struct {
	Interp       *vm.Interp
	EntryObject  string
	Goals        []goal.Goal
	ObjectInfo   map[string]*fitness.ObjectInfo
	GoalManager  *goalmgr.DynaMOSAManager
	Factory      *factory.Factory
	StmtCall     func(pos int, s *testcase.Statement, results []tracer.StmtResult) (objectID int, args []any, ok bool)
	Limits       tracer.Limits
	PopSize      int
	Rng          *rand.Rand
	Stop         stopping.Condition
	Observers    *progress.Bus
	CrossoverPr  float64
	MutationProb factory.MutationProbabilities

	// Archive, when set, is the MIOArchive the MIO algorithm records into
	// instead of an internal one it would otherwise own — letting a caller
	// (cmd/suitegen's live dashboard, the post-run inspector) observe and
	// browse goal populations during and after the run. Other algorithms
	// ignore this field.
	Archive *archive.MIOArchive
}

// Result is what every Algorithm.Run returns: the final emitted suite plus
// summary run statistics.
type Result struct {
	Suite      *testcase.Suite
	Iterations int
	Coverage   float64
}

// Algorithm is the shared strategy surface every evolutionary variant
// implements; each owns its own loop shape internally since MIO's
// population-per-target model and Whole-Suite's suite-level chromosomes
// don't fit one uniform step function (spec.md §4.6's named specifics per
// variant).
type Algorithm interface {
	Name() string
	Run(ctx context.Context, rc *RunContext) (*Result, error)
}

// evaluateCase runs tc once and scores it against every known goal.
func evaluateCase(ctx context.Context, rc *RunContext, tc *testcase.Case) (*tracer.Trace, map[string]float64) {
	tr, err := tracer.Run(ctx, rc.Interp, tc, rc.StmtCall, rc.Limits)
	if err != nil {
		tr = &tracer.Trace{TimedOut: true}
	}
	fit := fitness.Evaluate(rc.Goals, tr, rc.ObjectInfo)
	return tr, fit
}

// coveredGoalIDs returns the ids among fit whose fitness is exactly 0.
func coveredGoalIDs(fit map[string]float64) []string {
	var out []string
	for id, f := range fit {
		if f == 0 {
			out = append(out, id)
		}
	}
	return out
}

// notifyGoalManager tells the DynaMOSA frontier about every branch goal
// newly covered this iteration, activating CDG children as appropriate.
// Each event carries the object whose predicate fired, so a module with
// more than one function activates every object's CDG children, not just
// the entry function's.
func notifyGoalManager(rc *RunContext, tr *tracer.Trace) {
	if rc.GoalManager == nil {
		return
	}
	for _, b := range tr.Branches {
		if b.Taken {
			rc.GoalManager.NotifyCovered(b.Object, b.Predicate)
		}
	}
}
