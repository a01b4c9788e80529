package instrument

import "github.com/ormasoftchile/suitegen/internal/vm"

// SeedingAdapter marks code objects eligible for dynamic seeding. It
// contributes no new instructions — only registry bookkeeping recording
// which objects have at least one comparison site (spec.md §4.1
// "Dynamic-seeding adapter"). The tracer's Hooks.Branch callback records
// compared operands in BranchEvent.Left/Right; nothing adds them to a
// seedpool.Pool.
type SeedingAdapter struct{}

func (a *SeedingAdapter) Name() string    { return "seed" }
func (a *SeedingAdapter) StackEffect() int { return 0 }

func (a *SeedingAdapter) Apply(version vm.BytecodeVersion, obj *vm.CodeObject, reg *Registry) error {
	for _, in := range obj.Instrs {
		if in.Op == vm.OpCompareOp {
			reg.Seeded[obj.Name] = true
			break
		}
	}
	return nil
}
