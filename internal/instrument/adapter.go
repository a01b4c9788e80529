// Package instrument rewrites vm.CodeObject bytecode at "import time" to
// emit the coverage/branch-distance/checked-coverage/seeding events the
// rest of the system needs, and builds the CFG/CDG each code object is
// judged against (spec.md §4.1).
//
// The adapter chain composes in a fixed order — coverage adapters, then
// the seeding adapter, then the unwrap adapter (spec.md §9 "Instrumentation
// chain ordering") — because later adapters assume earlier ones have
// already placed their trace call sites.
package instrument

import (
	"fmt"

	"github.com/ormasoftchile/suitegen/internal/cfg"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

// BranchSite records one branch-coverage goal site discovered in a code
// object: a predicate id, its kind, and the source line it sits on.
type BranchSite struct {
	Object    string
	Predicate int
	Kind      vm.BranchKind
	Line      int
	InstrPos  int // index of the predicate-bearing instruction, for CFG block correlation
}

// AccessSite records one memory-access instrumented for checked coverage.
type AccessSite struct {
	Object   string
	InstrPos int
	Kind     vm.AccessKind
}

// Registry accumulates every adapter's discovered sites for one module, in
// adapter-composition order.
type Registry struct {
	Branches []BranchSite
	Lines    map[string][]int // object name -> line numbers
	Accesses []AccessSite
	Seeded   map[string]bool // predicate-id-bearing objects eligible for seeding
}

func newRegistry() *Registry {
	return &Registry{Lines: map[string][]int{}, Seeded: map[string]bool{}}
}

// Adapter is one link in the instrumentation chain. StackEffect must be 0:
// every adapter's setup sequence is designed to leave the operand stack
// exactly as it found it (spec.md §4.1 "Instrumentation must preserve
// operand-stack balance").
type Adapter interface {
	Name() string
	StackEffect() int
	Apply(version vm.BytecodeVersion, obj *vm.CodeObject, reg *Registry) error
}

// Chain is an ordered adapter composition.
type Chain struct {
	Adapters []Adapter
}

// DefaultChain returns the canonical adapter ordering for target-module
// code objects: branch, line, checked-coverage, seeding, unwrap.
func DefaultChain(excludedLines map[string]map[int]bool) Chain {
	return Chain{Adapters: []Adapter{
		&BranchAdapter{},
		&LineAdapter{Excluded: excludedLines},
		&CheckedCoverageAdapter{},
		&SeedingAdapter{},
		&UnwrapAdapter{},
	}}
}

// StdlibChain is what spec.md §4.1 calls third-party/stdlib treatment:
// only the unwrap adapter runs.
func StdlibChain() Chain {
	return Chain{Adapters: []Adapter{&UnwrapAdapter{}}}
}

// Validate checks the chain's adapters sum to a net-zero stack effect,
// the lightweight analogue of verifying bytecode stack-balance for a
// composed rewrite (spec.md §4.1 "stack shape transition").
func (c Chain) Validate() error {
	total := 0
	for _, a := range c.Adapters {
		total += a.StackEffect()
	}
	if total != 0 {
		return fmt.Errorf("instrument: adapter chain unbalanced by %d stack slots", total)
	}
	return nil
}

// Instrumented holds everything the instrumenter produced for one module:
// the code objects (rewritten in place: the checked-coverage adapter
// inserts trace instructions and remaps the line table, and Skip and
// Branchless flags are set), their CFGs/CDGs, and the discovered goal
// site registry.
type Instrumented struct {
	Module   *vm.Module
	CFGs     map[string]*cfg.Graph
	CDGs     map[string]*cfg.ControlDependence
	Registry *Registry
}

// Instrument runs the adapter chain over every non-skipped code object in
// mod, recursing into nested code objects is unnecessary here since langfe
// flattens closures into top-level objects, but the walk is written
// generically over Module.Objects so a future front end with real nested
// code objects needs no change here.
func Instrument(mod *vm.Module, version vm.BytecodeVersion, excludedLines map[string]map[int]bool) (*Instrumented, error) {
	chain := DefaultChain(excludedLines)
	if err := chain.Validate(); err != nil {
		return nil, fmt.Errorf("fatal instrumentation error: %w", err)
	}
	stdlibChain := StdlibChain()
	if err := stdlibChain.Validate(); err != nil {
		return nil, fmt.Errorf("fatal instrumentation error: %w", err)
	}

	inst := &Instrumented{
		Module:   mod,
		CFGs:     map[string]*cfg.Graph{},
		CDGs:     map[string]*cfg.ControlDependence{},
		Registry: newRegistry(),
	}
	for _, obj := range mod.Objects {
		if obj.LineTable == nil && len(obj.Instrs) > 0 {
			obj.Skip = true // missing line information: registered as "skip" per spec.md §4.1
			continue
		}
		active := chain
		if mod.Stdlib {
			active = stdlibChain
		}
		for _, a := range active.Adapters {
			if err := a.Apply(version, obj, inst.Registry); err != nil {
				return nil, fmt.Errorf("fatal instrumentation error in %q: %w", obj.Name, err)
			}
		}
		if mod.Stdlib {
			continue
		}
		g := cfg.Build(obj)
		inst.CFGs[obj.Name] = g
		inst.CDGs[obj.Name] = cfg.BuildCDG(g)
	}
	return inst, nil
}
