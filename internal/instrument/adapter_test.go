package instrument

import (
	"testing"

	"github.com/ormasoftchile/suitegen/internal/vm"
)

func sampleCode() *vm.CodeObject {
	return &vm.CodeObject{
		Name:      "abs_sign",
		NumLocals: 1,
		Consts:    []any{0},
		Instrs: []vm.Instr{
			{Op: vm.OpLoadParam, Arg: 0, Line: 1}, // 0
			{Op: vm.OpLoadConst, Arg: 0, Line: 1},  // 1
			{Op: vm.OpCompareOp, Arg: int(vm.CmpLt), Arg2: 0, Line: 1}, // 2
			{Op: vm.OpJumpIfFalse, Arg: 6, Line: 1},                   // 3
			{Op: vm.OpLoadParam, Arg: 0, Line: 2},                     // 4
			{Op: vm.OpReturn, Line: 2},                                 // 5
			{Op: vm.OpLoadParam, Arg: 0, Line: 3},                      // 6
			{Op: vm.OpReturn, Line: 3},                                 // 7
		},
		LineTable: map[int]int{1: 0, 2: 4, 3: 6},
	}
}

func TestInstrument_RegistersBranchAndLineSites(t *testing.T) {
	mod := &vm.Module{Name: "target", Objects: []*vm.CodeObject{sampleCode()}}
	inst, err := Instrument(mod, vm.V1{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(inst.Registry.Branches) != 1 {
		t.Fatalf("want 1 branch site, got %d", len(inst.Registry.Branches))
	}
	if inst.Registry.Branches[0].Kind != vm.BranchComparison {
		t.Errorf("want comparison branch kind, got %v", inst.Registry.Branches[0].Kind)
	}
	lines := inst.Registry.Lines["abs_sign"]
	if len(lines) != 3 {
		t.Fatalf("want 3 registered lines, got %d", len(lines))
	}
	if !inst.Registry.Seeded["abs_sign"] {
		t.Error("want abs_sign marked seed-eligible, it contains a comparison")
	}
}

func TestInstrument_ExcludedLinesDropped(t *testing.T) {
	mod := &vm.Module{Name: "target", Objects: []*vm.CodeObject{sampleCode()}}
	excl := map[string]map[int]bool{"abs_sign": {3: true}}
	inst, err := Instrument(mod, vm.V1{}, excl)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range inst.Registry.Lines["abs_sign"] {
		if l == 3 {
			t.Error("excluded line 3 should not be registered")
		}
	}
}

func TestCheckedCoverageAdapter_PreservesJumpTargets(t *testing.T) {
	code := sampleCode()
	original := len(code.Instrs)
	reg := newRegistry()
	a := &CheckedCoverageAdapter{}
	if err := a.Apply(vm.V1{}, code, reg); err != nil {
		t.Fatal(err)
	}
	if len(code.Instrs) <= original {
		t.Fatalf("expected instructions inserted, got %d (was %d)", len(code.Instrs), original)
	}
	// Every jump must still land on an OpLoadParam/OpReturn/OpCompareOp, not
	// mid-stream on a trace instruction it shifted past.
	for _, in := range code.Instrs {
		switch in.Op {
		case vm.OpJump, vm.OpJumpIfFalse, vm.OpJumpIfTrue:
			if in.Arg < 0 || in.Arg >= len(code.Instrs) {
				t.Fatalf("jump target %d out of range", in.Arg)
			}
			if code.Instrs[in.Arg].Op == vm.OpTraceAccess {
				t.Errorf("jump target %d lands on a trace instruction", in.Arg)
			}
		}
	}
}

func TestInstrument_BranchlessObjectFlagged(t *testing.T) {
	code := &vm.CodeObject{
		Name:   "const_fn",
		Instrs: []vm.Instr{{Op: vm.OpLoadConst, Arg: 0}, {Op: vm.OpReturn}},
		Consts: []any{42},
		LineTable: map[int]int{1: 0},
	}
	mod := &vm.Module{Name: "target", Objects: []*vm.CodeObject{code}}
	if _, err := Instrument(mod, vm.V1{}, nil); err != nil {
		t.Fatal(err)
	}
	if !code.Branchless {
		t.Error("const_fn has no conditional jump and should be marked branchless")
	}
}

func TestInstrument_PredicateBlocksCorrelatesToOwningBlock(t *testing.T) {
	mod := &vm.Module{Name: "target", Objects: []*vm.CodeObject{sampleCode()}}
	inst, err := Instrument(mod, vm.V1{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	pb := inst.PredicateBlocks()
	block, ok := pb["abs_sign"][0]
	if !ok {
		t.Fatal("expected predicate 0 to be correlated to a block")
	}
	g := inst.CFGs["abs_sign"]
	if g.Blocks[block].IsEntry || g.Blocks[block].IsExit {
		t.Errorf("predicate block should be a real branch block, got sentinel block %d", block)
	}
}

func TestFinder_StdlibGetsUnwrapOnly(t *testing.T) {
	target := &vm.Module{Name: "target", Objects: []*vm.CodeObject{sampleCode()}}
	builtins := &vm.Module{Name: "builtins", Objects: []*vm.CodeObject{{
		Name:   "len",
		Instrs: []vm.Instr{{Op: vm.OpReturn}},
	}}}
	f := NewFinder()
	results, err := f.InstrumentAll(target, vm.V1{}, nil, builtins)
	if err != nil {
		t.Fatal(err)
	}
	if !builtins.Stdlib {
		t.Error("builtins module should have been marked Stdlib")
	}
	if len(results["builtins"].Registry.Branches) != 0 {
		t.Error("stdlib module should not collect branch sites")
	}
	if len(results["target"].Registry.Branches) != 1 {
		t.Error("target module should collect its branch site")
	}
}
