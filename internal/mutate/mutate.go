package mutate

import "github.com/ormasoftchile/suitegen/internal/langfe"

// Mutant pairs a mutated program with the operator and site that produced
// it, the provenance assertgen's mutation report needs to name which rule
// killed or survived.
type Mutant struct {
	Operator string
	Site     int
	Program  *langfe.Program
}

// Generate runs every operator in ops against prog and returns one Mutant
// per site each operator finds.
func Generate(prog *langfe.Program, ops []Operator) []Mutant {
	var out []Mutant
	for _, op := range ops {
		n := op.Sites(prog)
		for site := 0; site < n; site++ {
			out = append(out, Mutant{Operator: op.Name(), Site: site, Program: op.Apply(prog, site)})
		}
	}
	return out
}

// HigherOrder composes two first-order mutants into one second-order
// mutant by re-applying b's operator to a's already-mutated program. If b's
// site no longer exists on a's mutant (the two operators touched the same
// node), the pair is skipped rather than silently wrapping around to a
// different, unrelated site.
func HigherOrder(a, b Mutant) (Mutant, bool) {
	for _, op := range All() {
		if op.Name() != b.Operator {
			continue
		}
		if b.Site >= op.Sites(a.Program) {
			return Mutant{}, false
		}
		return Mutant{
			Operator: a.Operator + "+" + b.Operator,
			Site:     b.Site,
			Program:  op.Apply(a.Program, b.Site),
		}, true
	}
	return Mutant{}, false
}
