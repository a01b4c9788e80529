package instrument

import "github.com/ormasoftchile/suitegen/internal/vm"

// CheckedCoverageAdapter performs genuine literal instruction insertion: an
// OpTraceAccess follows every load/store/attribute/subscript instruction
// (spec.md §4.1 "Checked-coverage adapter ... every memory access"). Because
// OpTraceAccess never touches the operand stack (interp.go dispatches it to
// Hooks.Access and nothing else), insertion is trivially stack-neutral; the
// harder part is keeping jump targets and the line table correct once the
// instruction stream has grown.
type CheckedCoverageAdapter struct{}

func (a *CheckedCoverageAdapter) Name() string    { return "checked" }
func (a *CheckedCoverageAdapter) StackEffect() int { return 0 }

func accessKindFor(op vm.Op) (vm.AccessKind, bool) {
	switch op {
	case vm.OpLoadLocal, vm.OpLoadParam:
		return vm.AccessLoadLocal, true
	case vm.OpStoreLocal:
		return vm.AccessStoreLocal, true
	case vm.OpGetAttr:
		return vm.AccessAttrRead, true
	case vm.OpSetAttr:
		return vm.AccessAttrWrite, true
	case vm.OpIndex:
		return vm.AccessSubscript, true
	default:
		return 0, false
	}
}

func (a *CheckedCoverageAdapter) Apply(version vm.BytecodeVersion, obj *vm.CodeObject, reg *Registry) error {
	old := obj.Instrs
	newInstrs := make([]vm.Instr, 0, len(old)+len(old)/2)
	oldToNew := make([]int, len(old))

	siteID := 0
	for i, in := range old {
		oldToNew[i] = len(newInstrs)
		newInstrs = append(newInstrs, in)
		if kind, ok := accessKindFor(in.Op); ok {
			newInstrs = append(newInstrs, vm.Instr{
				Op:   vm.OpTraceAccess,
				Arg:  siteID,
				Arg2: int(kind),
				Line: in.Line,
			})
			reg.Accesses = append(reg.Accesses, AccessSite{
				Object:   obj.Name,
				InstrPos: oldToNew[i],
				Kind:     kind,
			})
			siteID++
		}
	}

	// Retarget every jump to the new position of its original destination.
	for i := range newInstrs {
		switch newInstrs[i].Op {
		case vm.OpJump, vm.OpJumpIfFalse, vm.OpJumpIfTrue:
			newInstrs[i].Arg = oldToNew[newInstrs[i].Arg]
		}
	}
	for line, oldIdx := range obj.LineTable {
		obj.LineTable[line] = oldToNew[oldIdx]
	}
	for i := range reg.Branches {
		if reg.Branches[i].Object == obj.Name {
			reg.Branches[i].InstrPos = oldToNew[reg.Branches[i].InstrPos]
		}
	}
	obj.Instrs = newInstrs
	return nil
}
