package mutate

import "github.com/ormasoftchile/suitegen/internal/langfe"

// cloneProgram deep-copies prog so an operator can mutate a site in place
// without disturbing the original AST or any other mutant derived from it.
func cloneProgram(prog *langfe.Program) *langfe.Program {
	out := &langfe.Program{Funcs: make([]*langfe.FuncDecl, len(prog.Funcs))}
	for i, fn := range prog.Funcs {
		out.Funcs[i] = &langfe.FuncDecl{
			Name:   fn.Name,
			Params: append([]string(nil), fn.Params...),
			Body:   cloneStmts(fn.Body),
			Line:   fn.Line,
		}
	}
	return out
}

func cloneStmts(stmts []langfe.Stmt) []langfe.Stmt {
	out := make([]langfe.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = cloneStmt(s)
	}
	return out
}

func cloneStmt(s langfe.Stmt) langfe.Stmt {
	switch st := s.(type) {
	case *langfe.AssignStmt:
		return &langfe.AssignStmt{Name: st.Name, Expr: cloneExpr(st.Expr), Line: st.Line}
	case *langfe.IfStmt:
		return &langfe.IfStmt{
			Cond: cloneExpr(st.Cond),
			Then: cloneStmts(st.Then),
			Else: cloneStmts(st.Else),
			Line: st.Line,
		}
	case *langfe.WhileStmt:
		return &langfe.WhileStmt{Cond: cloneExpr(st.Cond), Body: cloneStmts(st.Body), Line: st.Line}
	case *langfe.ReturnStmt:
		return &langfe.ReturnStmt{Expr: cloneExpr(st.Expr), Line: st.Line}
	case *langfe.RaiseStmt:
		return &langfe.RaiseStmt{ExcType: st.ExcType, Message: cloneExpr(st.Message), Line: st.Line}
	case *langfe.ExprStmt:
		return &langfe.ExprStmt{Expr: cloneExpr(st.Expr), Line: st.Line}
	case *langfe.IndexAssignStmt:
		return &langfe.IndexAssignStmt{
			Target: cloneExpr(st.Target),
			Index:  cloneExpr(st.Index),
			Value:  cloneExpr(st.Value),
			Line:   st.Line,
		}
	case *langfe.AttrAssignStmt:
		return &langfe.AttrAssignStmt{
			Target: cloneExpr(st.Target),
			Attr:   st.Attr,
			Value:  cloneExpr(st.Value),
			Line:   st.Line,
		}
	default:
		return s
	}
}

func cloneExpr(e langfe.Expr) langfe.Expr {
	if e == nil {
		return nil
	}
	switch ex := e.(type) {
	case *langfe.IntLit:
		return &langfe.IntLit{Value: ex.Value}
	case *langfe.FloatLit:
		return &langfe.FloatLit{Value: ex.Value}
	case *langfe.StringLit:
		return &langfe.StringLit{Value: ex.Value}
	case *langfe.BoolLit:
		return &langfe.BoolLit{Value: ex.Value}
	case *langfe.NoneLit:
		return &langfe.NoneLit{}
	case *langfe.Ident:
		return &langfe.Ident{Name: ex.Name}
	case *langfe.ListLit:
		items := make([]langfe.Expr, len(ex.Items))
		for i, it := range ex.Items {
			items[i] = cloneExpr(it)
		}
		return &langfe.ListLit{Items: items}
	case *langfe.IndexExpr:
		return &langfe.IndexExpr{Target: cloneExpr(ex.Target), Index: cloneExpr(ex.Index)}
	case *langfe.AttrExpr:
		return &langfe.AttrExpr{Target: cloneExpr(ex.Target), Attr: ex.Attr}
	case *langfe.UnaryExpr:
		return &langfe.UnaryExpr{Op: ex.Op, X: cloneExpr(ex.X)}
	case *langfe.BinaryExpr:
		return &langfe.BinaryExpr{Op: ex.Op, L: cloneExpr(ex.L), R: cloneExpr(ex.R)}
	case *langfe.CompareExpr:
		return &langfe.CompareExpr{Op: ex.Op, L: cloneExpr(ex.L), R: cloneExpr(ex.R)}
	case *langfe.LogicalExpr:
		return &langfe.LogicalExpr{Op: ex.Op, L: cloneExpr(ex.L), R: cloneExpr(ex.R)}
	case *langfe.CallExpr:
		args := make([]langfe.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = cloneExpr(a)
		}
		return &langfe.CallExpr{Callee: ex.Callee, Args: args}
	default:
		return e
	}
}

// walkStmts visits every statement and, depth-first, every nested statement
// list (If/While bodies), calling visit on each. Expression mutation walks
// separately via walkExprsIn since every statement kind exposes a different
// expression shape.
func walkStmts(stmts []langfe.Stmt, visit func(langfe.Stmt)) {
	for _, s := range stmts {
		visit(s)
		switch st := s.(type) {
		case *langfe.IfStmt:
			walkStmts(st.Then, visit)
			walkStmts(st.Else, visit)
		case *langfe.WhileStmt:
			walkStmts(st.Body, visit)
		}
	}
}

// walkExpr visits e and every expression reachable from it, depth-first.
func walkExpr(e langfe.Expr, visit func(langfe.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch ex := e.(type) {
	case *langfe.ListLit:
		for _, it := range ex.Items {
			walkExpr(it, visit)
		}
	case *langfe.IndexExpr:
		walkExpr(ex.Target, visit)
		walkExpr(ex.Index, visit)
	case *langfe.AttrExpr:
		walkExpr(ex.Target, visit)
	case *langfe.UnaryExpr:
		walkExpr(ex.X, visit)
	case *langfe.BinaryExpr:
		walkExpr(ex.L, visit)
		walkExpr(ex.R, visit)
	case *langfe.CompareExpr:
		walkExpr(ex.L, visit)
		walkExpr(ex.R, visit)
	case *langfe.LogicalExpr:
		walkExpr(ex.L, visit)
		walkExpr(ex.R, visit)
	case *langfe.CallExpr:
		for _, a := range ex.Args {
			walkExpr(a, visit)
		}
	}
}

// stmtExprs returns the top-level expression(s) owned directly by s (not
// its nested statement lists, which walkStmts already descends into).
func stmtExprs(s langfe.Stmt) []langfe.Expr {
	switch st := s.(type) {
	case *langfe.AssignStmt:
		return []langfe.Expr{st.Expr}
	case *langfe.IfStmt:
		return []langfe.Expr{st.Cond}
	case *langfe.WhileStmt:
		return []langfe.Expr{st.Cond}
	case *langfe.ReturnStmt:
		return []langfe.Expr{st.Expr}
	case *langfe.RaiseStmt:
		return []langfe.Expr{st.Message}
	case *langfe.ExprStmt:
		return []langfe.Expr{st.Expr}
	case *langfe.IndexAssignStmt:
		return []langfe.Expr{st.Target, st.Index, st.Value}
	case *langfe.AttrAssignStmt:
		return []langfe.Expr{st.Target, st.Value}
	default:
		return nil
	}
}

// walkAllExprs visits every expression in prog, across every function.
func walkAllExprs(prog *langfe.Program, visit func(langfe.Expr)) {
	for _, fn := range prog.Funcs {
		walkStmts(fn.Body, func(s langfe.Stmt) {
			for _, e := range stmtExprs(s) {
				walkExpr(e, visit)
			}
		})
	}
}

// walkAllStmts visits every statement in prog, across every function.
func walkAllStmts(prog *langfe.Program, visit func(langfe.Stmt)) {
	for _, fn := range prog.Funcs {
		walkStmts(fn.Body, visit)
	}
}
