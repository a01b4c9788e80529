package mutate

import "github.com/ormasoftchile/suitegen/internal/langfe"

// walkExprSlot visits slot and then recurses into the children of the
// expression it held *before* visit ran, so a visit that replaces *slot
// (e.g. deleting a UnaryExpr wrapper) doesn't change what gets recursed
// into — each operator touches exactly one slot per mutant.
func walkExprSlot(slot *langfe.Expr, visit func(*langfe.Expr)) {
	if slot == nil || *slot == nil {
		return
	}
	orig := *slot
	visit(slot)
	switch ex := orig.(type) {
	case *langfe.ListLit:
		for i := range ex.Items {
			walkExprSlot(&ex.Items[i], visit)
		}
	case *langfe.IndexExpr:
		walkExprSlot(&ex.Target, visit)
		walkExprSlot(&ex.Index, visit)
	case *langfe.AttrExpr:
		walkExprSlot(&ex.Target, visit)
	case *langfe.UnaryExpr:
		walkExprSlot(&ex.X, visit)
	case *langfe.BinaryExpr:
		walkExprSlot(&ex.L, visit)
		walkExprSlot(&ex.R, visit)
	case *langfe.CompareExpr:
		walkExprSlot(&ex.L, visit)
		walkExprSlot(&ex.R, visit)
	case *langfe.LogicalExpr:
		walkExprSlot(&ex.L, visit)
		walkExprSlot(&ex.R, visit)
	case *langfe.CallExpr:
		for i := range ex.Args {
			walkExprSlot(&ex.Args[i], visit)
		}
	}
}

// walkStmtExprSlots visits every expression slot reachable from stmts,
// recursing into If/While bodies.
func walkStmtExprSlots(stmts []langfe.Stmt, visit func(*langfe.Expr)) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *langfe.AssignStmt:
			walkExprSlot(&st.Expr, visit)
		case *langfe.IfStmt:
			walkExprSlot(&st.Cond, visit)
			walkStmtExprSlots(st.Then, visit)
			walkStmtExprSlots(st.Else, visit)
		case *langfe.WhileStmt:
			walkExprSlot(&st.Cond, visit)
			walkStmtExprSlots(st.Body, visit)
		case *langfe.ReturnStmt:
			walkExprSlot(&st.Expr, visit)
		case *langfe.RaiseStmt:
			walkExprSlot(&st.Message, visit)
		case *langfe.ExprStmt:
			walkExprSlot(&st.Expr, visit)
		case *langfe.IndexAssignStmt:
			walkExprSlot(&st.Target, visit)
			walkExprSlot(&st.Index, visit)
			walkExprSlot(&st.Value, visit)
		case *langfe.AttrAssignStmt:
			walkExprSlot(&st.Target, visit)
			walkExprSlot(&st.Value, visit)
		}
	}
}

// walkProgramExprSlots visits every expression slot in prog, across every
// function.
func walkProgramExprSlots(prog *langfe.Program, visit func(*langfe.Expr)) {
	for _, fn := range prog.Funcs {
		walkStmtExprSlots(fn.Body, visit)
	}
}

// walkRaiseStmts visits every *langfe.RaiseStmt in prog.
func walkRaiseStmts(prog *langfe.Program, visit func(*langfe.RaiseStmt)) {
	walkAllStmts(prog, func(s langfe.Stmt) {
		if r, ok := s.(*langfe.RaiseStmt); ok {
			visit(r)
		}
	})
}
