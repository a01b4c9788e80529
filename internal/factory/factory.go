// Package factory synthesizes test-case statements by back-chaining over a
// cluster.Cluster, and implements the test-case mutation operators
// (spec.md §4.3).
package factory

import (
	"math/rand"

	"github.com/ormasoftchile/suitegen/internal/cluster"
	"github.com/ormasoftchile/suitegen/internal/seedpool"
	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/typesys"
)

// SeedRatios weights the three primitive pools the factory draws from when
// synthesizing a parameter value (spec.md §4.3 "three pools in ratio given
// by configuration").
type SeedRatios struct {
	Random  float64 // fresh random literal of the declared type
	Pool    float64 // drawn from seedpool.Pool
	Mutated float64 // a pool value, lightly mutated
}

// DefaultSeedRatios matches the teacher-adjacent ecosystem's usual
// "mostly fresh, sometimes seeded" default until config overrides it.
var DefaultSeedRatios = SeedRatios{Random: 0.6, Pool: 0.2, Mutated: 0.2}

// Factory synthesizes statements for a fixed cluster and seed pool.
type Factory struct {
	Cluster *cluster.Cluster
	Pool    *seedpool.Pool
	Ratios  SeedRatios
	// MaxDepth bounds back-chaining recursion for compound parameter types.
	MaxDepth int
}

// New returns a Factory with sane defaults, including MaxDepth 4.
func New(c *cluster.Cluster, pool *seedpool.Pool) *Factory {
	return &Factory{Cluster: c, Pool: pool, Ratios: DefaultSeedRatios, MaxDepth: 4}
}

// InsertCallStatement synthesizes a full call to callable id, back-chaining
// any parameter that needs a fresh value, and appends every synthesized
// statement (parameters first, then the call) to tc. Returns the call
// statement's own Ref, or false if the callable is unknown.
func (f *Factory) InsertCallStatement(tc *testcase.Case, rng *rand.Rand, id string) (testcase.Ref, bool) {
	cb, ok := f.Cluster.Lookup(id)
	if !ok {
		return testcase.NoRef, false
	}
	args := make([]testcase.Ref, len(cb.Params))
	for i, p := range cb.Params {
		args[i] = f.resolveOrSynthesize(tc, rng, p.Type, f.MaxDepth)
	}
	stmt := &testcase.Statement{
		Kind:     callKindFor(cb.Kind),
		Type:     cb.Return,
		Callable: id,
		Args:     args,
	}
	return tc.Append(stmt), true
}

func callKindFor(k typesys.CallableKind) testcase.Kind {
	switch k {
	case typesys.KConstructor:
		return testcase.KConstructor
	case typesys.KMethod:
		return testcase.KMethodCall
	default:
		return testcase.KFunctionCall
	}
}

// resolveOrSynthesize implements back-chaining (spec.md §4.3): with
// probability 1/2 it reuses an existing in-scope reference of a compatible
// type if one exists, otherwise it appends a fresh primitive statement of
// type want. It never synthesizes a call to produce the value, and depth is
// not used.
func (f *Factory) resolveOrSynthesize(tc *testcase.Case, rng *rand.Rand, want typesys.Type, depth int) testcase.Ref {
	if existing, ok := f.findCompatibleExisting(tc, want); ok && rng.Float64() < 0.5 {
		return existing
	}
	return f.synthesizePrimitive(tc, rng, want)
}

// findCompatibleExisting scans tc for a producing statement whose type is
// subtype-compatible with want, preferring the most recently appended
// candidate (most likely to still be "in scope" in a hand-written test).
func (f *Factory) findCompatibleExisting(tc *testcase.Case, want typesys.Type) (testcase.Ref, bool) {
	for i := tc.Len() - 1; i >= 0; i-- {
		s := tc.Stmts[i]
		if !s.Produces() {
			continue
		}
		if typesys.Subtype(s.Type, want) || typesys.Subtype(want, s.Type) {
			return testcase.Ref(i), true
		}
	}
	return testcase.NoRef, false
}

// synthesizePrimitive appends a KPrimitive statement drawing from the
// factory's three pools in the configured ratio, and returns its Ref.
func (f *Factory) synthesizePrimitive(tc *testcase.Case, rng *rand.Rand, want typesys.Type) testcase.Ref {
	v := f.drawValue(rng, want)
	stmt := &testcase.Statement{Kind: testcase.KPrimitive, Type: want, Literal: v}
	return tc.Append(stmt)
}

func (f *Factory) drawValue(rng *rand.Rand, want typesys.Type) any {
	r := rng.Float64()
	total := f.Ratios.Random + f.Ratios.Pool + f.Ratios.Mutated
	if total <= 0 {
		total = 1
	}
	poolCut := f.Ratios.Random / total
	mutatedCut := poolCut + f.Ratios.Pool/total

	if r >= poolCut && r < mutatedCut && f.Pool != nil {
		if v, ok := f.Pool.Sample(rng); ok {
			return v
		}
	}
	if r >= mutatedCut && f.Pool != nil {
		if v, ok := f.Pool.Sample(rng); ok {
			return MutateValue(rng, v)
		}
	}
	return randomLiteral(rng, want)
}

// randomLiteral draws a fresh value of the declared primitive type; Any
// falls back to a small fixed set of representative kinds.
func randomLiteral(rng *rand.Rand, want typesys.Type) any {
	switch {
	case want.Kind == typesys.KindConcrete && want.Name == "int":
		return rng.Intn(201) - 100
	case want.Kind == typesys.KindConcrete && want.Name == "float":
		return (rng.Float64() - 0.5) * 200
	case want.Kind == typesys.KindConcrete && want.Name == "str":
		return randomString(rng, rng.Intn(8))
	case want.Kind == typesys.KindConcrete && want.Name == "bool":
		return rng.Intn(2) == 0
	default:
		switch rng.Intn(4) {
		case 0:
			return rng.Intn(201) - 100
		case 1:
			return randomString(rng, rng.Intn(8))
		case 2:
			return rng.Intn(2) == 0
		default:
			return nil
		}
	}
}

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomString(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}

// MutateValue nudges an existing value into a "fresh value mutated from a
// seed" (spec.md §4.3 pool (iii)).
func MutateValue(rng *rand.Rand, v any) any {
	switch x := v.(type) {
	case int:
		return x + rng.Intn(11) - 5
	case float64:
		return x + (rng.Float64()-0.5)*2
	case bool:
		return !x
	case string:
		if len(x) == 0 {
			return randomString(rng, 1)
		}
		b := []byte(x)
		i := rng.Intn(len(b))
		b[i] = alphabet[rng.Intn(len(alphabet))]
		return string(b)
	default:
		return v
	}
}
