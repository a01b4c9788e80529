package langfe

import (
	"fmt"

	"github.com/ormasoftchile/suitegen/internal/vm"
)

// Compile lowers a parsed Program into a vm.Module. Predicate/line/site ids
// assigned here are purely a function of AST structure and traversal order,
// so two compiles of identical source always produce identical ids — a
// prerequisite for the determinism invariant (spec.md §8).
func Compile(prog *Program, moduleName string) (*vm.Module, error) {
	mod := &vm.Module{Name: moduleName}
	byName := map[string]int{}
	for i, fn := range prog.Funcs {
		byName[fn.Name] = i
		mod.Objects = append(mod.Objects, &vm.CodeObject{Name: fn.Name, Params: fn.Params})
	}
	for i, fn := range prog.Funcs {
		c := &compiler{code: mod.Objects[i], locals: map[string]int{}, funcs: byName, nextPredicate: 0}
		for pi, p := range fn.Params {
			c.locals[p] = pi // params addressed via OpLoadParam, but reserve name for shadowing checks
			_ = pi
		}
		if err := c.compileBlock(fn.Body); err != nil {
			return nil, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		c.emit(vm.Instr{Op: vm.OpLoadConst, Arg: c.constIndex(nil)})
		c.emit(vm.Instr{Op: vm.OpReturn})
		c.code.NumLocals = len(c.locals)
		c.code.LineTable = c.lineTable
		c.code.Branchless = !vm.HasConditionalJump(c.code)
	}
	if len(mod.Objects) > 0 {
		mod.Entry = 0
	}
	return mod, nil
}

type compiler struct {
	code          *vm.CodeObject
	locals        map[string]int
	funcs         map[string]int
	nextPredicate int
	lineTable     map[int]int
}

func (c *compiler) emit(in vm.Instr) int {
	if c.lineTable == nil {
		c.lineTable = map[int]int{}
	}
	if in.Line != 0 {
		if _, seen := c.lineTable[in.Line]; !seen {
			c.lineTable[in.Line] = len(c.code.Instrs)
		}
	}
	c.code.Instrs = append(c.code.Instrs, in)
	return len(c.code.Instrs) - 1
}

func (c *compiler) constIndex(v any) int {
	for i, existing := range c.code.Consts {
		if existing == v {
			return i
		}
	}
	c.code.Consts = append(c.code.Consts, v)
	return len(c.code.Consts) - 1
}

func (c *compiler) nameIndex(name string) int {
	for i, n := range c.code.Names {
		if n == name {
			return i
		}
	}
	c.code.Names = append(c.code.Names, name)
	return len(c.code.Names) - 1
}

func (c *compiler) localSlot(name string) int {
	if idx, ok := c.locals[name]; ok {
		return idx
	}
	idx := len(c.locals)
	c.locals[name] = idx
	return idx
}

func (c *compiler) paramSlot(name string) (int, bool) {
	for i, p := range c.code.Params {
		if p == name {
			return i, true
		}
	}
	return 0, false
}

func (c *compiler) compileBlock(stmts []Stmt) error {
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) compileStmt(s Stmt) error {
	switch st := s.(type) {
	case *AssignStmt:
		if err := c.compileExpr(st.Expr, st.Line); err != nil {
			return err
		}
		c.emit(vm.Instr{Op: vm.OpStoreLocal, Arg: c.localSlot(st.Name), Line: st.Line})
		return nil
	case *IndexAssignStmt:
		if err := c.compileExpr(st.Target, st.Line); err != nil {
			return err
		}
		if err := c.compileExpr(st.Index, st.Line); err != nil {
			return err
		}
		if err := c.compileExpr(st.Value, st.Line); err != nil {
			return err
		}
		// Collections are value types in this VM; index-assignment is
		// approximated as a no-op pop sequence since lists are immutable
		// once built. Real mutation is modeled via attribute maps instead.
		c.emit(vm.Instr{Op: vm.OpPop, Line: st.Line})
		c.emit(vm.Instr{Op: vm.OpPop, Line: st.Line})
		c.emit(vm.Instr{Op: vm.OpPop, Line: st.Line})
		return nil
	case *AttrAssignStmt:
		if err := c.compileExpr(st.Target, st.Line); err != nil {
			return err
		}
		if err := c.compileExpr(st.Value, st.Line); err != nil {
			return err
		}
		c.emit(vm.Instr{Op: vm.OpSetAttr, Arg: c.nameIndex(st.Attr), Line: st.Line})
		return nil
	case *IfStmt:
		return c.compileIf(st)
	case *WhileStmt:
		return c.compileWhile(st)
	case *ReturnStmt:
		if st.Expr == nil {
			c.emit(vm.Instr{Op: vm.OpLoadConst, Arg: c.constIndex(nil), Line: st.Line})
		} else if err := c.compileExpr(st.Expr, st.Line); err != nil {
			return err
		}
		c.emit(vm.Instr{Op: vm.OpReturn, Line: st.Line})
		return nil
	case *RaiseStmt:
		msg := ""
		if st.Message != nil {
			if lit, ok := st.Message.(*StringLit); ok {
				msg = lit.Value
			}
		}
		c.emit(vm.Instr{Op: vm.OpLoadConst, Arg: c.constIndex(&vm.Exception{Type: st.ExcType, Message: msg}), Line: st.Line})
		c.emit(vm.Instr{Op: vm.OpRaise, Line: st.Line})
		return nil
	case *ExprStmt:
		if err := c.compileExpr(st.Expr, st.Line); err != nil {
			return err
		}
		c.emit(vm.Instr{Op: vm.OpPop, Line: st.Line})
		return nil
	default:
		return fmt.Errorf("unknown statement type %T", s)
	}
}

func (c *compiler) compileIf(st *IfStmt) error {
	if err := c.compileCondition(st.Cond, st.Line); err != nil {
		return err
	}
	jumpOverThen := c.emit(vm.Instr{Op: vm.OpJumpIfFalse, Line: st.Line})
	if err := c.compileBlock(st.Then); err != nil {
		return err
	}
	if len(st.Else) > 0 {
		jumpOverElse := c.emit(vm.Instr{Op: vm.OpJump})
		c.code.Instrs[jumpOverThen].Arg = len(c.code.Instrs)
		if err := c.compileBlock(st.Else); err != nil {
			return err
		}
		c.code.Instrs[jumpOverElse].Arg = len(c.code.Instrs)
	} else {
		c.code.Instrs[jumpOverThen].Arg = len(c.code.Instrs)
	}
	return nil
}

func (c *compiler) compileWhile(st *WhileStmt) error {
	top := len(c.code.Instrs)
	if err := c.compileCondition(st.Cond, st.Line); err != nil {
		return err
	}
	exitJump := c.emit(vm.Instr{Op: vm.OpJumpIfFalse, Line: st.Line})
	if err := c.compileBlock(st.Body); err != nil {
		return err
	}
	c.emit(vm.Instr{Op: vm.OpJump, Arg: top})
	c.code.Instrs[exitJump].Arg = len(c.code.Instrs)
	return nil
}

// compileCondition compiles a boolean-valued expression used directly as a
// branch predicate. Comparisons are compiled with their predicate id
// attached to the OpCompareOp instruction itself (Arg2); non-comparison
// predicates get their id attached to the conditional jump instruction via
// a following no-op carrying the id, matching spec.md §4.1's distinction
// between comparison and truthy/falsy branch kinds.
func (c *compiler) compileCondition(e Expr, line int) error {
	if cmp, ok := e.(*CompareExpr); ok {
		if err := c.compileExpr(cmp.L, line); err != nil {
			return err
		}
		if err := c.compileExpr(cmp.R, line); err != nil {
			return err
		}
		pid := c.nextPredicate
		c.nextPredicate++
		c.emit(vm.Instr{Op: vm.OpCompareOp, Arg: int(compareKind(cmp.Op)), Arg2: pid, Line: line})
		return nil
	}
	if err := c.compileExpr(e, line); err != nil {
		return err
	}
	pid := c.nextPredicate
	c.nextPredicate++
	// Truthy/falsy predicates are registered by duplicating the value so
	// the branch adapter's hook can observe it without disturbing the
	// jump's own operand.
	c.emit(vm.Instr{Op: vm.OpDup, Line: line})
	c.emit(vm.Instr{Op: vm.OpTraceBranch, Arg: pid, Line: line})
	return nil
}

func compareKind(op string) vm.CompareKind {
	switch op {
	case "==":
		return vm.CmpEq
	case "!=":
		return vm.CmpNe
	case "<":
		return vm.CmpLt
	case "<=":
		return vm.CmpLe
	case ">":
		return vm.CmpGt
	case ">=":
		return vm.CmpGe
	case "in":
		return vm.CmpIn
	case "is":
		return vm.CmpIs
	default:
		return vm.CmpEq
	}
}

func (c *compiler) compileExpr(e Expr, line int) error {
	switch ex := e.(type) {
	case *IntLit:
		c.emit(vm.Instr{Op: vm.OpLoadConst, Arg: c.constIndex(ex.Value), Line: line})
	case *FloatLit:
		c.emit(vm.Instr{Op: vm.OpLoadConst, Arg: c.constIndex(ex.Value), Line: line})
	case *StringLit:
		c.emit(vm.Instr{Op: vm.OpLoadConst, Arg: c.constIndex(ex.Value), Line: line})
	case *BoolLit:
		c.emit(vm.Instr{Op: vm.OpLoadConst, Arg: c.constIndex(ex.Value), Line: line})
	case *NoneLit:
		c.emit(vm.Instr{Op: vm.OpLoadConst, Arg: c.constIndex(nil), Line: line})
	case *Ident:
		if idx, ok := c.paramSlot(ex.Name); ok {
			c.emit(vm.Instr{Op: vm.OpLoadParam, Arg: idx, Line: line})
			return nil
		}
		c.emit(vm.Instr{Op: vm.OpLoadLocal, Arg: c.localSlot(ex.Name), Line: line})
	case *ListLit:
		for _, item := range ex.Items {
			if err := c.compileExpr(item, line); err != nil {
				return err
			}
		}
		c.emit(vm.Instr{Op: vm.OpBuildList, Arg: len(ex.Items), Line: line})
	case *IndexExpr:
		if err := c.compileExpr(ex.Target, line); err != nil {
			return err
		}
		if err := c.compileExpr(ex.Index, line); err != nil {
			return err
		}
		c.emit(vm.Instr{Op: vm.OpIndex, Line: line})
	case *AttrExpr:
		if err := c.compileExpr(ex.Target, line); err != nil {
			return err
		}
		c.emit(vm.Instr{Op: vm.OpGetAttr, Arg: c.nameIndex(ex.Attr), Line: line})
	case *UnaryExpr:
		if err := c.compileExpr(ex.X, line); err != nil {
			return err
		}
		switch ex.Op {
		case "not":
			c.emit(vm.Instr{Op: vm.OpUnaryNot, Line: line})
		case "-":
			c.emit(vm.Instr{Op: vm.OpLoadConst, Arg: c.constIndex(-1), Line: line})
			c.emit(vm.Instr{Op: vm.OpBinaryOp, Arg: int(vm.BinMul), Line: line})
		}
	case *BinaryExpr:
		if err := c.compileExpr(ex.L, line); err != nil {
			return err
		}
		if err := c.compileExpr(ex.R, line); err != nil {
			return err
		}
		c.emit(vm.Instr{Op: vm.OpBinaryOp, Arg: int(binOpKind(ex.Op)), Line: line})
	case *CompareExpr:
		if err := c.compileExpr(ex.L, line); err != nil {
			return err
		}
		if err := c.compileExpr(ex.R, line); err != nil {
			return err
		}
		pid := c.nextPredicate
		c.nextPredicate++
		c.emit(vm.Instr{Op: vm.OpCompareOp, Arg: int(compareKind(ex.Op)), Arg2: pid, Line: line})
	case *LogicalExpr:
		return c.compileLogical(ex, line)
	case *CallExpr:
		for _, a := range ex.Args {
			if err := c.compileExpr(a, line); err != nil {
				return err
			}
		}
		idx, ok := c.funcs[ex.Callee]
		if !ok {
			return fmt.Errorf("line %d: call to undefined function %q", line, ex.Callee)
		}
		c.emit(vm.Instr{Op: vm.OpCall, Arg: idx, Arg2: len(ex.Args), Line: line})
	default:
		return fmt.Errorf("unknown expression type %T", e)
	}
	return nil
}

// compileLogical short-circuits and/or using jumps, matching the host
// language's lazy boolean evaluation semantics.
func (c *compiler) compileLogical(ex *LogicalExpr, line int) error {
	if err := c.compileExpr(ex.L, line); err != nil {
		return err
	}
	c.emit(vm.Instr{Op: vm.OpDup, Line: line})
	var skip int
	if ex.Op == "and" {
		skip = c.emit(vm.Instr{Op: vm.OpJumpIfFalse, Line: line})
	} else {
		skip = c.emit(vm.Instr{Op: vm.OpJumpIfTrue, Line: line})
	}
	c.emit(vm.Instr{Op: vm.OpPop, Line: line})
	if err := c.compileExpr(ex.R, line); err != nil {
		return err
	}
	c.code.Instrs[skip].Arg = len(c.code.Instrs)
	return nil
}

func binOpKind(op string) vm.BinOpKind {
	switch op {
	case "+":
		return vm.BinAdd
	case "-":
		return vm.BinSub
	case "*":
		return vm.BinMul
	case "/":
		return vm.BinDiv
	case "%":
		return vm.BinMod
	default:
		return vm.BinAdd
	}
}
