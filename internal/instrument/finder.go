package instrument

import "github.com/ormasoftchile/suitegen/internal/vm"

// Finder decides, for each module reachable from the target module, whether
// it gets the full adapter chain (the target module and its transitive local
// imports) or only the unwrap adapter (everything else — spec.md §4.1
// "module finder distinguishes the module under test and its local imports
// from third-party/stdlib code"). langfe programs are single-module today,
// so in practice Finder runs over one target plus whatever modules the
// caller registers as additional local imports or marks Stdlib.
type Finder struct {
	// Local lists module names, besides the target itself, that should
	// receive the full instrumentation chain.
	Local map[string]bool
}

// NewFinder returns a Finder treating only the named modules as local.
func NewFinder(local ...string) *Finder {
	f := &Finder{Local: map[string]bool{}}
	for _, n := range local {
		f.Local[n] = true
	}
	return f
}

// IsLocal reports whether mod should receive the full adapter chain.
func (f *Finder) IsLocal(mod *vm.Module, targetName string) bool {
	if mod.Stdlib {
		return false
	}
	return mod.Name == targetName || f.Local[mod.Name]
}

// InstrumentAll instruments target plus every module in extra, applying the
// full chain to the target and any registered local import, and only the
// unwrap adapter to the rest.
func (f *Finder) InstrumentAll(target *vm.Module, version vm.BytecodeVersion, excludedLines map[string]map[int]bool, extra ...*vm.Module) (map[string]*Instrumented, error) {
	out := make(map[string]*Instrumented, len(extra)+1)
	all := append([]*vm.Module{target}, extra...)
	for _, mod := range all {
		if !f.IsLocal(mod, target.Name) {
			mod.Stdlib = true
		}
		inst, err := Instrument(mod, version, excludedLines)
		if err != nil {
			return nil, err
		}
		out[mod.Name] = inst
	}
	return out, nil
}
