package assertgen

import (
	"context"
	"fmt"
	"sync"

	"github.com/ormasoftchile/suitegen/internal/langfe"
	"github.com/ormasoftchile/suitegen/internal/mutate"
	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/tracer"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

// MutantInstaller serializes module swaps on a shared *vm.Interp: spec.md
// §5 "mutation-analysis replacement of the module is serialized (only one
// mutant installed at a time)". Every caller that needs to run the suite
// against a mutant module goes through Install so two goroutines can never
// have two different mutants installed at once.
type MutantInstaller struct {
	mu sync.Mutex
}

// Install swaps interp.Mod to mod for the duration of fn, restoring the
// original module on every exit path including a panic in fn.
func (m *MutantInstaller) Install(interp *vm.Interp, mod *vm.Module, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orig := interp.Mod
	interp.Mod = mod
	defer func() { interp.Mod = orig }()
	fn()
}

// MutationReport summarizes one Phase 2 filtering pass: spec.md §4.8's
// "report mutation score killed / (created − timed_out)".
type MutationReport struct {
	Created  int
	Killed   int
	TimedOut int
	Score    float64
}

// FilterByMutationScore implements spec.md §4.8 Phase 2: build a mutant
// population from prog via ops (composing adjacent pairs from distinct
// operators into higher-order mutants to hold down the mutant count while
// keeping operator diversity, per spec.md §4.8), re-execute suite's cases
// against each compiled mutant module under installer, and prune every
// case's Assertions down to only the ones that contributed to killing at
// least one mutant. stmtCall resolves statements against whichever module
// is currently installed, exactly like tracer.Run's contract elsewhere.
func FilterByMutationScore(ctx context.Context, prog *langfe.Program, moduleName string, interp *vm.Interp, stmtCall StmtCall, limits tracer.Limits, suite *testcase.Suite, ops []mutate.Operator, installer *MutantInstaller) (MutationReport, error) {
	mutants := higherOrderPopulation(prog, ops)
	if len(mutants) == 0 {
		// spec.md §9: an empty mutant set keeps every candidate assertion
		// rather than pruning against a score that was never computed.
		return MutationReport{}, nil
	}

	contributed := make([]map[int]bool, len(suite.Cases))
	for i, tc := range suite.Cases {
		contributed[i] = make(map[int]bool, len(tc.Assertions))
	}

	var report MutationReport
	for _, mut := range mutants {
		mod, err := langfe.Compile(mut.Program, moduleName)
		if err != nil {
			// Not a viable mutant (the operator produced an uncompilable
			// program); skip rather than counting it against the score.
			continue
		}
		report.Created++

		killedThisMutant := false
		timedOutThisMutant := false
		installer.Install(interp, mod, func() {
			for ci, tc := range suite.Cases {
				select {
				case <-ctx.Done():
					return
				default:
				}
				tr, err := tracer.Run(ctx, interp, tc, stmtCall, limits)
				if err != nil {
					continue
				}
				if tr.TimedOut {
					timedOutThisMutant = true
					continue
				}
				for ai, res := range Evaluate(tc.Assertions, tr) {
					if !res.Passed {
						killedThisMutant = true
						contributed[ci][ai] = true
					}
				}
			}
		})
		if timedOutThisMutant {
			report.TimedOut++
			continue
		}
		if killedThisMutant {
			report.Killed++
		}
	}

	denom := report.Created - report.TimedOut
	if denom > 0 {
		report.Score = float64(report.Killed) / float64(denom)
	}

	for i, tc := range suite.Cases {
		var kept []testcase.Assertion
		for ai, a := range tc.Assertions {
			if contributed[i][ai] {
				kept = append(kept, a)
			}
		}
		tc.Assertions = kept
	}
	return report, nil
}

// higherOrderPopulation generates the first-order mutant set and folds
// adjacent pairs drawn from distinct operators into second-order mutants
// (spec.md §4.8 "Higher-order mutation strategies combine pairs of
// mutations to reduce mutant count while preserving operator diversity").
// A pair that can't compose (same operator, or the second site no longer
// exists on the first mutant) is left as two separate first-order mutants
// instead of being dropped.
func higherOrderPopulation(prog *langfe.Program, ops []mutate.Operator) []mutate.Mutant {
	first := mutate.Generate(prog, ops)
	out := make([]mutate.Mutant, 0, len(first))
	for i := 0; i < len(first); i += 2 {
		if i+1 >= len(first) || first[i].Operator == first[i+1].Operator {
			out = append(out, first[i])
			if i+1 < len(first) {
				out = append(out, first[i+1])
			}
			continue
		}
		combined, ok := mutate.HigherOrder(first[i], first[i+1])
		if !ok {
			out = append(out, first[i], first[i+1])
			continue
		}
		out = append(out, combined)
	}
	return out
}

// Validate reports whether a MutationReport's denominator would divide by
// zero, the same "no mutants survived compilation" degenerate case the
// caller should log rather than silently report a 0.0 score for.
func (r MutationReport) Validate() error {
	if r.Created == r.TimedOut {
		return fmt.Errorf("assertgen: no scorable mutants (created=%d, all timed out)", r.Created)
	}
	return nil
}
