package ga

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/ormasoftchile/suitegen/internal/cluster"
	"github.com/ormasoftchile/suitegen/internal/factory"
	"github.com/ormasoftchile/suitegen/internal/fitness"
	"github.com/ormasoftchile/suitegen/internal/goal"
	"github.com/ormasoftchile/suitegen/internal/goalmgr"
	"github.com/ormasoftchile/suitegen/internal/instrument"
	"github.com/ormasoftchile/suitegen/internal/langfe"
	"github.com/ormasoftchile/suitegen/internal/seedpool"
	"github.com/ormasoftchile/suitegen/internal/stopping"
	"github.com/ormasoftchile/suitegen/internal/tracer"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

// buildRunContext compiles a tiny classify(a, b) function with one branch,
// instruments it, and wires every piece an Algorithm needs to run against
// it — the same assembly internal/runner does for cmd/suitegen.
func buildRunContext(t *testing.T, stop stopping.Condition) *RunContext {
	t.Helper()
	src := `
func classify(a, b) {
	if a == b {
		return 1
	}
	return 0
}
`
	prog, err := langfe.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	mod, err := langfe.Compile(prog, "target")
	if err != nil {
		t.Fatal(err)
	}
	clu := cluster.Build(prog)

	inst, err := instrument.Instrument(mod, vm.V1{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	var goals []goal.Goal
	goals = append(goals, goal.Entry("classify"))
	objInfo := map[string]*fitness.ObjectInfo{}
	predicateBlocks := inst.PredicateBlocks()
	for name, g := range inst.CFGs {
		objInfo[name] = &fitness.ObjectInfo{
			Graph:          g,
			CDG:            inst.CDGs[name],
			PredicateBlock: predicateBlocks[name],
		}
	}
	for _, b := range inst.Registry.Branches {
		goals = append(goals, goal.BranchTrue(b.Object, b.Predicate), goal.BranchFalse(b.Object, b.Predicate))
	}

	mgr := goalmgr.New(inst.CDGs, goals, predicateBlocks)
	f := factory.New(clu, seedpool.New())

	return &RunContext{
		Interp:       &vm.Interp{Mod: mod},
		EntryObject:  "classify",
		Goals:        goals,
		ObjectInfo:   objInfo,
		GoalManager:  mgr,
		Factory:      f,
		StmtCall:     tracer.ResolveStmtCall(mod),
		Limits:       tracer.Limits{PerStatement: time.Second, PerTest: time.Second},
		PopSize:      6,
		Rng:          rand.New(rand.NewSource(1)),
		Stop:         stop,
		CrossoverPr:  0.7,
		MutationProb: factory.DefaultMutationProbabilities,
	}
}

func runsToCompletion(t *testing.T, name string, a Algorithm) {
	t.Helper()
	rc := buildRunContext(t, stopping.MaxIterations(4))
	res, err := a.Run(context.Background(), rc)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	if res.Iterations < 4 {
		t.Errorf("%s: want at least 4 iterations, got %d", name, res.Iterations)
	}
	if res.Coverage < 0 || res.Coverage > 1 {
		t.Errorf("%s: coverage out of range: %v", name, res.Coverage)
	}
}

func TestDynaMOSA_RunsToCompletion(t *testing.T) {
	runsToCompletion(t, "dynamosa", DynaMOSA{})
}

func TestMOSA_RunsToCompletion(t *testing.T) {
	runsToCompletion(t, "mosa", MOSA{})
}

func TestMIO_RunsToCompletion(t *testing.T) {
	runsToCompletion(t, "mio", MIO{})
}

func TestWholeSuite_RunsToCompletion(t *testing.T) {
	runsToCompletion(t, "wholesuite", WholeSuite{Elite: 1})
}

func TestRandom_RunsToCompletion(t *testing.T) {
	runsToCompletion(t, "random", Random{})
}

func TestRandomSearch_RunsToCompletion(t *testing.T) {
	runsToCompletion(t, "randomsearch", RandomSearch{})
}

func TestDynaMOSA_CoverageCanReachFull(t *testing.T) {
	rc := buildRunContext(t, stopping.Any(stopping.MaxCoverage(1.0), stopping.MaxIterations(200)))
	res, err := DynaMOSA{}.Run(context.Background(), rc)
	if err != nil {
		t.Fatal(err)
	}
	if res.Coverage < 1.0 {
		t.Errorf("expected full coverage of classify's single branch within 200 iterations, got %v", res.Coverage)
	}
}
