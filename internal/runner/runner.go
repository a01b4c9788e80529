// Package runner assembles everything cmd/suitegen's entry point needs into
// one search run: parse and compile the target source, instrument it,
// build the goal set and RunContext ga_test.go's buildRunContext shows the
// shape of, pick and run the configured Algorithm, then (optionally)
// generate and filter assertions, following spec.md §4's invocation
// contract (project-root path, module identifier, output directory,
// configuration object).
package runner

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/assertgen"
	"github.com/ormasoftchile/suitegen/internal/cluster"
	"github.com/ormasoftchile/suitegen/internal/config"
	"github.com/ormasoftchile/suitegen/internal/factory"
	"github.com/ormasoftchile/suitegen/internal/fitness"
	"github.com/ormasoftchile/suitegen/internal/ga"
	"github.com/ormasoftchile/suitegen/internal/goal"
	"github.com/ormasoftchile/suitegen/internal/goalmgr"
	"github.com/ormasoftchile/suitegen/internal/instrument"
	"github.com/ormasoftchile/suitegen/internal/langfe"
	"github.com/ormasoftchile/suitegen/internal/mutate"
	"github.com/ormasoftchile/suitegen/internal/progress"
	"github.com/ormasoftchile/suitegen/internal/seedpool"
	"github.com/ormasoftchile/suitegen/internal/stopping"
	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/tracer"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

// Run is one complete invocation: the compiled target, its search result,
// the generated/filtered suite, and the mutation report when assertion
// generation ran.
type Run struct {
	Config        *config.Config
	ModuleName    string
	Algorithm     string
	Suite         *testcase.Suite
	Iterations    int
	Coverage      float64
	MutationScore float64
	Archive       *archive.MIOArchive
}

// ConsentEnvVar is the environment flag spec.md §6's `[FULL]` addendum
// requires before any target code is instrumented or executed.
const ConsentEnvVar = "SUITEGEN_I_CONSENT_TO_CODE_EXECUTION"

// ErrNoConsent is returned when ConsentEnvVar isn't set; callers translate
// it to exit code 4.
var ErrNoConsent = fmt.Errorf("runner: %s is not set — refusing to instrument or execute target code", ConsentEnvVar)

// CheckConsent reports ErrNoConsent unless the consent environment flag is
// set to a non-empty value.
func CheckConsent() error {
	if os.Getenv(ConsentEnvVar) == "" {
		return ErrNoConsent
	}
	return nil
}

// Execute compiles the langfe source at srcPath, instruments it as
// moduleName, builds every goal cfg.CoverageMetrics names, runs the
// configured Algorithm, and — when cfg.AssertionStrategy isn't "none" —
// generates and (for "mutation") prunes assertions. obs, when non-nil, is
// registered on the run's progress.Bus. arch, when non-nil, is the
// MIOArchive the run records into — letting a caller watch it live, e.g.
// cmd/suitegen's dashboard; when nil, Execute allocates its own.
func Execute(ctx context.Context, srcPath, moduleName string, cfg *config.Config, obs progress.Observer, arch *archive.MIOArchive) (*Run, error) {
	if err := CheckConsent(); err != nil {
		return nil, err
	}

	src, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("runner: read %s: %w", srcPath, err)
	}
	prog, err := langfe.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("runner: parse %s: %w", srcPath, err)
	}
	mod, err := langfe.Compile(prog, moduleName)
	if err != nil {
		return nil, fmt.Errorf("runner: compile %s: %w", srcPath, err)
	}

	finder := instrument.NewFinder()
	instrumented, err := finder.InstrumentAll(mod, vm.V1{}, nil)
	if err != nil {
		return nil, fmt.Errorf("runner: instrument %s: %w", srcPath, err)
	}
	inst := instrumented[mod.Name]

	goals, objInfo := buildGoals(mod, inst, cfg.CoverageMetrics, cfg.IncludeMethods, cfg.ExcludeMethods)

	clu := cluster.Build(prog)
	rng := rand.New(rand.NewSource(seedOrAuto(cfg.Seed)))

	bus := progress.NewBus()
	if obs != nil {
		bus.Register(obs)
	}

	rc := &ga.RunContext{
		Interp:       &vm.Interp{Mod: mod},
		EntryObject:  entryObject(cfg.IncludeMethods, mod),
		Goals:        goals,
		ObjectInfo:   objInfo,
		GoalManager:  goalmgr.New(inst.CDGs, goals, inst.PredicateBlocks()),
		Factory:      factory.New(clu, seedpool.New()),
		StmtCall:     tracer.ResolveStmtCall(mod),
		Limits:       tracer.Limits{PerStatement: cfg.Timeouts.PerStatement.Duration(), PerTest: cfg.Timeouts.PerTest.Duration()},
		PopSize:      cfg.PopulationSize,
		Rng:          rng,
		Stop:         buildStopCondition(cfg.Stopping),
		Observers:    bus,
		CrossoverPr:  cfg.CrossoverProbability,
		MutationProb: cfg.Mutation.Probabilities.ToFactory(),
		Archive:      arch,
	}
	if rc.Archive == nil {
		rc.Archive = archive.NewMIOArchive()
	}

	algo, err := selectAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	result, err := algo.Run(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("runner: %s run: %w", algo.Name(), err)
	}

	run := &Run{
		Config:     cfg,
		ModuleName: moduleName,
		Algorithm:  algo.Name(),
		Suite:      result.Suite,
		Iterations: result.Iterations,
		Coverage:   result.Coverage,
		Archive:    rc.Archive,
	}

	if cfg.AssertionStrategy != "none" {
		if err := generateAssertions(ctx, prog, moduleName, rc, run, cfg); err != nil {
			return nil, err
		}
	}

	return run, nil
}

func seedOrAuto(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return time.Now().UnixNano()
}

// entryObject picks the target function: the first name in IncludeMethods
// if set, otherwise the module's first compiled object (matching
// langfe.Compile's convention of Entry=0 for the first declared function).
func entryObject(include []string, mod *vm.Module) string {
	if len(include) > 0 {
		return include[0]
	}
	if len(mod.Objects) > 0 {
		return mod.Objects[0].Name
	}
	return ""
}

func selectAlgorithm(name string) (ga.Algorithm, error) {
	switch strings.ToLower(name) {
	case "dynamosa", "":
		return ga.DynaMOSA{}, nil
	case "mosa":
		return ga.MOSA{}, nil
	case "mio":
		return ga.MIO{}, nil
	case "wholesuite":
		return ga.WholeSuite{Elite: 2}, nil
	case "random":
		return ga.Random{}, nil
	case "randomsearch":
		return ga.RandomSearch{}, nil
	default:
		return nil, fmt.Errorf("runner: unknown algorithm %q", name)
	}
}

// buildGoals assembles the goal set per cfg.CoverageMetrics (branch is
// always included; line/checked are additive) over every object in mod
// that survives the include/exclude method filters, mirroring
// ga_test.go's buildRunContext for the single-function case.
func buildGoals(mod *vm.Module, inst *instrument.Instrumented, metrics, include, exclude []string) ([]goal.Goal, map[string]*fitness.ObjectInfo) {
	wantLine := containsFold(metrics, "line")
	wantChecked := containsFold(metrics, "checked")

	objInfo := map[string]*fitness.ObjectInfo{}
	for name, g := range inst.CFGs {
		if !methodSelected(name, include, exclude) {
			continue
		}
		objInfo[name] = &fitness.ObjectInfo{
			Graph:          g,
			CDG:            inst.CDGs[name],
			PredicateBlock: inst.PredicateBlocks()[name],
		}
	}

	var goals []goal.Goal
	for _, obj := range mod.Objects {
		if !methodSelected(obj.Name, include, exclude) {
			continue
		}
		goals = append(goals, goal.Entry(obj.Name))
	}
	for _, b := range inst.Registry.Branches {
		if !methodSelected(b.Object, include, exclude) {
			continue
		}
		goals = append(goals, goal.BranchTrue(b.Object, b.Predicate), goal.BranchFalse(b.Object, b.Predicate))
	}
	if wantLine {
		for obj, lines := range inst.Registry.Lines {
			if !methodSelected(obj, include, exclude) {
				continue
			}
			for _, ln := range lines {
				goals = append(goals, goal.Line(obj, ln))
			}
		}
	}
	if wantChecked {
		for _, a := range inst.Registry.Accesses {
			if !methodSelected(a.Object, include, exclude) {
				continue
			}
			goals = append(goals, goal.Checked(a.Object, a.InstrPos))
		}
	}
	return goals, objInfo
}

func methodSelected(name string, include, exclude []string) bool {
	for _, e := range exclude {
		if e == name {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, i := range include {
		if i == name {
			return true
		}
	}
	return false
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

func buildStopCondition(c config.StoppingConfig) stopping.Condition {
	var conds []stopping.Condition
	if c.MaxIterations > 0 {
		conds = append(conds, stopping.MaxIterations(c.MaxIterations))
	}
	if c.MaxWallClock > 0 {
		conds = append(conds, stopping.MaxWallClock(c.MaxWallClock.Duration()))
	}
	if c.MaxStatementExecutions > 0 {
		conds = append(conds, stopping.MaxStatementExecutions(c.MaxStatementExecutions))
	}
	if c.MaxTestExecutions > 0 {
		conds = append(conds, stopping.MaxTestExecutions(c.MaxTestExecutions))
	}
	if c.MaxCoverage > 0 {
		conds = append(conds, stopping.MaxCoverage(c.MaxCoverage))
	}
	if c.CoveragePlateau > 0 {
		conds = append(conds, stopping.CoveragePlateau(c.CoveragePlateau))
	}
	if c.MaxResidentMemoryMB > 0 {
		conds = append(conds, stopping.MaxResidentMemory(c.MaxResidentMemoryMB))
	}
	if c.Expr != "" {
		if cond, err := stopping.Expr(c.Expr); err == nil {
			conds = append(conds, cond)
		}
	}
	if len(conds) == 0 {
		conds = append(conds, stopping.MaxIterations(200))
	}
	return stopping.Any(conds...)
}

// generateAssertions runs assertgen Phase 1 over every case in the suite,
// then Phase 2 mutation filtering when cfg.AssertionStrategy is "mutation".
func generateAssertions(ctx context.Context, prog *langfe.Program, moduleName string, rc *ga.RunContext, run *Run, cfg *config.Config) error {
	acfg := assertgen.Config{}
	for _, tc := range run.Suite.Cases {
		if err := assertgen.GenerateCandidates(ctx, rc.Interp, tc, assertgen.StmtCall(rc.StmtCall), rc.Limits, acfg); err != nil {
			return fmt.Errorf("runner: generate assertions: %w", err)
		}
	}

	if cfg.AssertionStrategy != "mutation" {
		return nil
	}

	ops := selectOperators(cfg.Mutation.Operators)
	installer := &assertgen.MutantInstaller{}
	report, err := assertgen.FilterByMutationScore(ctx, prog, moduleName, rc.Interp, assertgen.StmtCall(rc.StmtCall), rc.Limits, run.Suite, ops, installer)
	if err != nil {
		return fmt.Errorf("runner: filter assertions: %w", err)
	}
	run.MutationScore = report.Score
	return nil
}

func selectOperators(names []string) []mutate.Operator {
	if len(names) == 0 {
		return mutate.All()
	}
	all := mutate.All()
	var out []mutate.Operator
	for _, op := range all {
		for _, n := range names {
			if strings.EqualFold(op.Name(), n) {
				out = append(out, op)
			}
		}
	}
	if len(out) == 0 {
		return mutate.All()
	}
	return out
}
