// Package vm implements suitegen's own small stack-based bytecode machine.
// It stands in for the "compiled bytecode" of a dynamically-typed host
// module: langfe compiles the toy target language into vm.CodeObject
// values, instrument rewrites their instruction streams, and tracer executes
// them. One concrete vm.BytecodeVersion implementation (V1) satisfies the
// version-discipline protocol spec.md §4.1 calls for.
package vm

// Op is a single bytecode opcode.
type Op byte

const (
	OpNop Op = iota
	OpLoadConst
	OpLoadLocal
	OpStoreLocal
	OpLoadParam
	OpPop
	OpDup
	OpBinaryOp  // arithmetic: +, -, *, /, %
	OpCompareOp // ==, !=, <, <=, >, >=, in, is
	OpUnaryNot
	OpJump
	OpJumpIfFalse
	OpJumpIfTrue
	OpCall
	OpReturn
	OpRaise
	OpBuildList
	OpIndex
	OpGetAttr
	OpSetAttr
	// trace markers: langfe itself emits OpTraceBranch for truthy/falsy
	// predicates; the others are inserted by instrumentation adapters.
	OpTraceBranch
	OpTraceLine
	OpTraceEntered
	OpTraceAccess
	OpTraceSeed
	OpUnwrapArgs
)

// AccessKind distinguishes the memory-access shapes the checked-coverage
// adapter instruments (spec.md §4.1 "Checked-coverage adapter").
type AccessKind int

const (
	AccessLoadLocal AccessKind = iota
	AccessStoreLocal
	AccessAttrRead
	AccessAttrWrite
	AccessSubscript
)

func (k AccessKind) String() string {
	switch k {
	case AccessLoadLocal:
		return "load_local"
	case AccessStoreLocal:
		return "store_local"
	case AccessAttrRead:
		return "attr_read"
	case AccessAttrWrite:
		return "attr_write"
	case AccessSubscript:
		return "subscript"
	default:
		return "?"
	}
}

// CompareKind distinguishes the predicate comparisons OpCompareOp can carry.
type CompareKind int

const (
	CmpEq CompareKind = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
	CmpIn
	CmpIs
)

func (c CompareKind) String() string {
	switch c {
	case CmpEq:
		return "=="
	case CmpNe:
		return "!="
	case CmpLt:
		return "<"
	case CmpLe:
		return "<="
	case CmpGt:
		return ">"
	case CmpGe:
		return ">="
	case CmpIn:
		return "in"
	case CmpIs:
		return "is"
	default:
		return "?"
	}
}

// BinOpKind distinguishes arithmetic operators for OpBinaryOp.
type BinOpKind int

const (
	BinAdd BinOpKind = iota
	BinSub
	BinMul
	BinDiv
	BinMod
)

// Instr is one bytecode instruction. Arg and Arg2 are opcode-specific:
//   - OpLoadConst: Arg is an index into CodeObject.Consts
//   - OpLoadLocal/OpStoreLocal: Arg is a local slot index (< CodeObject.NumLocals)
//   - OpLoadParam: Arg is a parameter index
//   - OpBinaryOp: Arg is a BinOpKind
//   - OpCompareOp: Arg is a CompareKind, Arg2 is a stable predicate id
//   - OpJump/OpJumpIfFalse/OpJumpIfTrue: Arg is a target instruction index
//   - OpCall: Arg is the callee's CodeObject index in Module.Objects, Arg2 is argument count
//   - OpBuildList: Arg is element count
//   - OpGetAttr/OpSetAttr: Arg is an index into CodeObject.Names
//   - OpTraceBranch/OpTraceLine/OpTraceEntered/OpTraceAccess/OpTraceSeed: instrumentation-owned, Arg is a site id
type Instr struct {
	Op   Op
	Arg  int
	Arg2 int
	Line int
}
