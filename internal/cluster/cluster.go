// Package cluster enumerates the callables under test and their inferred
// parameter/return types, and offers a lookup service the factory and GA
// consult when synthesizing or mutating statements (spec.md §3 "Callable
// descriptor", §4.3).
package cluster

import (
	"github.com/ormasoftchile/suitegen/internal/langfe"
	"github.com/ormasoftchile/suitegen/internal/typesys"
)

// Cluster is an immutable, queryable set of Callable descriptors built
// once from a parsed module.
type Cluster struct {
	byID    map[string]typesys.Callable
	ordered []typesys.Callable
}

// Build enumerates every function declaration in prog as a free-function
// Callable. The toy language has no type annotations, so parameter types
// start as a light heuristic inference over operator usage within the body
// and fall back to Any, and every return type is Any — mirroring a dynamic host language where
// static types are unavailable and the factory must rely on runtime
// feedback to refine them.
func Build(prog *langfe.Program) *Cluster {
	c := &Cluster{byID: map[string]typesys.Callable{}}
	for _, fn := range prog.Funcs {
		params := make([]typesys.Param, len(fn.Params))
		hints := inferParamHints(fn)
		for i, p := range fn.Params {
			t := typesys.Any()
			if h, ok := hints[p]; ok {
				t = h
			}
			params[i] = typesys.Param{Name: p, Type: t}
		}
		callable := typesys.Callable{
			ID:         fn.Name,
			Kind:       typesys.KFunction,
			Params:     params,
			Return:     typesys.Any(),
			Visibility: "public",
		}
		c.byID[fn.Name] = callable
		c.ordered = append(c.ordered, callable)
	}
	return c
}

// All returns every visible callable in declaration order (stable,
// supporting deterministic population seeding).
func (c *Cluster) All() []typesys.Callable { return c.ordered }

// Lookup finds a callable by its qualified id.
func (c *Cluster) Lookup(id string) (typesys.Callable, bool) {
	cb, ok := c.byID[id]
	return cb, ok
}

// ByReturnType returns every callable whose return type is compatible with
// want, used when the factory/mutation retargets a call to an alternative
// callable with the same return type (spec.md §4.3 "Change").
func (c *Cluster) ByReturnType(want typesys.Type) []typesys.Callable {
	var out []typesys.Callable
	for _, cb := range c.ordered {
		if typesys.Subtype(cb.Return, want) || typesys.Subtype(want, cb.Return) {
			out = append(out, cb)
		}
	}
	return out
}

// inferParamHints does a shallow scan of a function body for comparisons
// and arithmetic against literal constants to guess a parameter's
// primitive type; anything not matched stays Any.
func inferParamHints(fn *langfe.FuncDecl) map[string]typesys.Type {
	hints := map[string]typesys.Type{}
	var visit func(e langfe.Expr)
	note := func(name string, t typesys.Type) {
		if _, ok := hints[name]; !ok {
			hints[name] = t
		}
	}
	visit = func(e langfe.Expr) {
		switch ex := e.(type) {
		case *langfe.BinaryExpr:
			pairHint(ex.L, ex.R, note)
			pairHint(ex.R, ex.L, note)
			visit(ex.L)
			visit(ex.R)
		case *langfe.CompareExpr:
			pairHint(ex.L, ex.R, note)
			pairHint(ex.R, ex.L, note)
			visit(ex.L)
			visit(ex.R)
		case *langfe.LogicalExpr:
			visit(ex.L)
			visit(ex.R)
		case *langfe.UnaryExpr:
			visit(ex.X)
		case *langfe.CallExpr:
			for _, a := range ex.Args {
				visit(a)
			}
		case *langfe.IndexExpr:
			visit(ex.Target)
			visit(ex.Index)
		case *langfe.AttrExpr:
			visit(ex.Target)
		}
	}
	var visitStmt func(s langfe.Stmt)
	visitStmt = func(s langfe.Stmt) {
		switch st := s.(type) {
		case *langfe.AssignStmt:
			visit(st.Expr)
		case *langfe.IfStmt:
			visit(st.Cond)
			for _, b := range st.Then {
				visitStmt(b)
			}
			for _, b := range st.Else {
				visitStmt(b)
			}
		case *langfe.WhileStmt:
			visit(st.Cond)
			for _, b := range st.Body {
				visitStmt(b)
			}
		case *langfe.ReturnStmt:
			if st.Expr != nil {
				visit(st.Expr)
			}
		case *langfe.ExprStmt:
			visit(st.Expr)
		}
	}
	for _, s := range fn.Body {
		visitStmt(s)
	}
	return hints
}

func pairHint(maybeIdent, other langfe.Expr, note func(string, typesys.Type)) {
	id, ok := maybeIdent.(*langfe.Ident)
	if !ok {
		return
	}
	switch other.(type) {
	case *langfe.IntLit:
		note(id.Name, typesys.Concrete("int"))
	case *langfe.FloatLit:
		note(id.Name, typesys.Concrete("float"))
	case *langfe.StringLit:
		note(id.Name, typesys.Concrete("str"))
	case *langfe.BoolLit:
		note(id.Name, typesys.Concrete("bool"))
	}
}
