package ga

import "math/rand"

// tournamentSelect picks one individual from ranked fronts (best fronts
// first, best-by-distance first within a front) via binary tournament:
// draw two candidates uniformly, keep whichever sorts earlier in the
// flattened front order.
func tournamentSelect(fronts [][]scored, rng *rand.Rand) scored {
	flat := flatten(fronts)
	a := flat[rng.Intn(len(flat))]
	b := flat[rng.Intn(len(flat))]
	if rankOf(flat, a) <= rankOf(flat, b) {
		return a
	}
	return b
}

func flatten(fronts [][]scored) []scored {
	var out []scored
	for _, f := range fronts {
		out = append(out, f...)
	}
	return out
}

// rankOf returns the position of s within the flattened, rank-ordered
// slice, found by test-case pointer identity (len(flat) if absent) — used
// as a lightweight "earlier is better" comparator, so ties within a front
// resolve deterministically by slice order.
func rankOf(flat []scored, s scored) int {
	for i, x := range flat {
		if x.tc == s.tc {
			return i
		}
	}
	return len(flat)
}
