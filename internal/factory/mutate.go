package factory

import (
	"math/rand"

	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/typesys"
)

// MutationProbabilities configures how often each test-case mutation
// operator fires, independently, per mutation pass (spec.md §4.3 "each
// applied independently with configured probability").
type MutationProbabilities struct {
	Delete float64
	Change float64
	Insert float64
}

// DefaultMutationProbabilities is a conservative per-operator rate typical
// of search-based test generators' defaults.
var DefaultMutationProbabilities = MutationProbabilities{Delete: 0.1, Change: 0.1, Insert: 0.1}

// Mutate applies Delete, Change, and Insert independently to tc according
// to probs, then enforces the reference-before-use invariant by dropping
// any statement left violating it (spec.md §4.3 "After mutation, enforce
// the reference-before-use invariant; if violated, drop the offending
// statements"). tc is mutated in place.
func (f *Factory) Mutate(tc *testcase.Case, rng *rand.Rand, probs MutationProbabilities) {
	if tc.Len() > 0 && rng.Float64() < probs.Delete {
		f.mutateDelete(tc, rng)
	}
	if tc.Len() > 0 && rng.Float64() < probs.Change {
		f.mutateChange(tc, rng)
	}
	if rng.Float64() < probs.Insert {
		f.mutateInsert(tc, rng)
	}
	f.dropInvalid(tc)
}

func (f *Factory) mutateDelete(tc *testcase.Case, rng *rand.Rand) {
	pos := rng.Intn(tc.Len())
	tc.DeleteAt(pos)
}

// mutateChange picks one statement and replaces a primitive literal with a
// mutated value, or re-targets a call to a different callable with a
// compatible return type (spec.md §4.3 "Change"). Reference arguments are
// never swapped for other references.
func (f *Factory) mutateChange(tc *testcase.Case, rng *rand.Rand) {
	pos := rng.Intn(tc.Len())
	s := tc.Stmts[pos]
	switch s.Kind {
	case testcase.KPrimitive:
		s.Literal = MutateValue(rng, s.Literal)
	case testcase.KFunctionCall, testcase.KConstructor, testcase.KMethodCall:
		f.retargetCall(tc, rng, pos)
	}
	tc.MarkDirty()
}

func (f *Factory) retargetCall(tc *testcase.Case, rng *rand.Rand, pos int) {
	s := tc.Stmts[pos]
	candidates := f.Cluster.ByReturnType(s.Type)
	if len(candidates) == 0 {
		return
	}
	choice := candidates[rng.Intn(len(candidates))]
	if len(choice.Params) != len(s.Args) {
		// Arity mismatch: swapping in this candidate would require
		// re-synthesizing arguments, which risks pulling in forward
		// references; skip rather than risk an invalid case.
		return
	}
	s.Callable = choice.ID
}

// mutateInsert prepends up to k new random statements at a random position,
// where k decays exponentially per spec.md §4.3 "Insert".
func (f *Factory) mutateInsert(tc *testcase.Case, rng *rand.Rand) {
	k := 1
	for rng.Float64() < 0.5 && k < 10 {
		k++
	}
	all := f.Cluster.All()
	if len(all) == 0 {
		return
	}
	for i := 0; i < k; i++ {
		pos := 0
		if tc.Len() > 0 {
			pos = rng.Intn(tc.Len() + 1)
		}
		cb := all[rng.Intn(len(all))]
		args := make([]testcase.Ref, len(cb.Params))
		for j, p := range cb.Params {
			args[j] = f.resolveOrSynthesizeAt(tc, rng, p.Type, pos)
		}
		tc.InsertAt(pos, &testcase.Statement{
			Kind:     callKindFor(cb.Kind),
			Type:     cb.Return,
			Callable: cb.ID,
			Args:     args,
		})
	}
}

// resolveOrSynthesizeAt returns the nearest producing statement before
// insertion position pos whose type renders the same as want, so an
// inserted statement's arguments never reference something that will
// appear after it once inserted. It synthesizes nothing: when no such
// statement exists it returns testcase.NoRef.
func (f *Factory) resolveOrSynthesizeAt(tc *testcase.Case, rng *rand.Rand, want typesys.Type, pos int) testcase.Ref {
	for i := pos - 1; i >= 0; i-- {
		s := tc.Stmts[i]
		if s.Produces() && s.Type.String() == want.String() {
			return testcase.Ref(i)
		}
	}
	return testcase.NoRef
}

// dropInvalid removes, first offender from the head on, any statement that still
// references a later position or no statement at all (NoRef, as an insert
// with no earlier compatible statement produces) after the mutations above — defensive
// cleanup for the rare case a retarget or insert left a dangling forward
// reference.
func (f *Factory) dropInvalid(tc *testcase.Case) {
	for {
		bad := -1
		for i, s := range tc.Stmts {
			for _, r := range s.ArgRefs() {
				if int(r) < 0 || int(r) >= i {
					bad = i
					break
				}
			}
			if bad >= 0 {
				break
			}
		}
		if bad < 0 {
			return
		}
		tc.DeleteAt(bad)
	}
}
