package instrument

import "github.com/ormasoftchile/suitegen/internal/vm"

// BranchAdapter registers every predicate site langfe's compiler already
// baked a stable id into — OpCompareOp.Arg2 for comparisons, OpTraceBranch.Arg
// for truthy/falsy jumps — as branch-coverage goal candidates. It never
// rewrites the instruction stream: the compiler is the one placing these ids,
// since only it knows predicate identity at AST-traversal time (spec.md §8
// determinism invariant). The adapter's job is purely discovery/registration.
type BranchAdapter struct{}

func (a *BranchAdapter) Name() string    { return "branch" }
func (a *BranchAdapter) StackEffect() int { return 0 }

func (a *BranchAdapter) Apply(version vm.BytecodeVersion, obj *vm.CodeObject, reg *Registry) error {
	for i, in := range obj.Instrs {
		switch in.Op {
		case vm.OpCompareOp:
			reg.Branches = append(reg.Branches, BranchSite{
				Object:    obj.Name,
				Predicate: in.Arg2,
				Kind:      vm.BranchComparison,
				Line:      in.Line,
				InstrPos:  i,
			})
		case vm.OpTraceBranch:
			kind := vm.BranchTruthy
			if i+1 < len(obj.Instrs) && obj.Instrs[i+1].Op == vm.OpJumpIfFalse {
				kind = vm.BranchFalsy
			}
			reg.Branches = append(reg.Branches, BranchSite{
				Object:    obj.Name,
				Predicate: in.Arg,
				Kind:      kind,
				Line:      in.Line,
				InstrPos:  i,
			})
		}
	}
	if !vm.HasConditionalJump(obj) {
		obj.Branchless = true
	}
	return nil
}
