package testcase

import "github.com/ormasoftchile/suitegen/internal/typesys"

// Crossover implements spec.md §4.3: pick a relative split point r in
// (0,1), cut each parent at floor((len-1)*r)+1, and produce two offspring
// by swapping tails. Tail statements whose arguments referenced a
// statement dropped along with the other parent's head are remapped to a
// structurally compatible survivor in the new head, or dropped if none
// exists. Both offspring are bounded by max(len(p1), len(p2)) by
// construction (a head-plus-tail never exceeds either parent's length).
func Crossover(p1, p2 *Case, r float64) (*Case, *Case) {
	cut1 := splitPoint(len(p1.Stmts), r)
	cut2 := splitPoint(len(p2.Stmts), r)
	return combine(p1.Stmts[:cut1], p2.Stmts[cut2:], cut2), combine(p2.Stmts[:cut2], p1.Stmts[cut1:], cut1)
}

func splitPoint(n int, r float64) int {
	if n == 0 {
		return 0
	}
	p := int(float64(n-1)*r) + 1
	if p > n {
		p = n
	}
	if p < 0 {
		p = 0
	}
	return p
}

// combine builds one offspring from a head slice (kept as-is, references
// already valid within it) and a tail slice from the *other* parent, which
// started at index tailStart of that parent.
func combine(head, tail []*Statement, tailStart int) *Case {
	out := &Case{}
	out.Stmts = make([]*Statement, len(head))
	for i, s := range head {
		out.Stmts[i] = s.clone()
	}

	survived := map[int]int{} // tail-local index -> new case index

	for i, s := range tail {
		remap := func(r Ref) (Ref, bool) {
			ri := int(r) - tailStart
			if ri < 0 || ri >= i {
				// Not a statement placed earlier from the tail.
				return 0, false
			}
			// Reference produced earlier *within the tail itself*.
			if newIdx, ok := survived[ri]; ok {
				return Ref(newIdx), true
			}
			return 0, false
		}

		resolved := true
		newStmt := s.clone()
		resolveOne := func(r Ref, ok *bool) Ref {
			if int(r) >= tailStart {
				if nr, found := remap(r); found {
					return nr
				}
			}
			// Reference pointed at the original parent's now-discarded
			// head: find a structurally compatible survivor in the new
			// head instead.
			if repl, found := findCompatible(out.Stmts, r, s); found {
				return repl
			}
			*ok = false
			return 0
		}

		for j, r := range newStmt.Elems {
			newStmt.Elems[j] = resolveOne(r, &resolved)
		}
		for j, r := range newStmt.Args {
			newStmt.Args[j] = resolveOne(r, &resolved)
		}
		for k, r := range newStmt.Named {
			newStmt.Named[k] = resolveOne(r, &resolved)
		}
		if newStmt.Receiver != NoRef {
			newStmt.Receiver = resolveOne(newStmt.Receiver, &resolved)
		}
		if newStmt.From != NoRef {
			newStmt.From = resolveOne(newStmt.From, &resolved)
		}

		if !resolved {
			continue // drop statement whose dependency couldn't be resolved
		}
		survived[i] = len(out.Stmts)
		out.Stmts = append(out.Stmts, newStmt)
	}
	return out
}

// findCompatible looks for a statement in the current head whose produced
// type is compatible with what the tail statement expected, preferring the
// structurally-same index when it matches (spec.md's "structural mapping").
func findCompatible(head []*Statement, origRef Ref, forStmt *Statement) (Ref, bool) {
	want := typesys.Any()
	if int(origRef) >= 0 {
		// We don't have the original parent's statement anymore at this
		// point, so fall back to accepting any produced value.
		_ = forStmt
	}
	if idx := int(origRef); idx >= 0 && idx < len(head) && head[idx].Produces() {
		if typesys.Subtype(head[idx].Type, want) {
			return Ref(idx), true
		}
	}
	for i, s := range head {
		if s.Produces() {
			return Ref(i), true
		}
	}
	return 0, false
}
