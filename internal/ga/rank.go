package ga

import (
	"math"
	"sort"

	"github.com/ormasoftchile/suitegen/internal/testcase"
)

// scored pairs a chromosome with its fitness vector over the *uncovered*
// goal set for this iteration's preference sort.
type scored struct {
	tc  *testcase.Case
	fit map[string]float64
}

// preferenceSort implements spec.md §4.6 "Preference sorting (MOSA/DynaMOSA)":
// rank 0 is, for each uncovered goal, the single individual with the lowest
// fitness on that goal (shortest as tie-break); the rest is non-dominated
// sorted over the uncovered-goal vector, and individuals within a rank are
// ordered by an epsilon-dominance-approximated subvector distance. Returns
// fronts in rank order, each front itself ordered by that distance.
func preferenceSort(pop []scored, uncovered []string) [][]scored {
	if len(pop) == 0 {
		return nil
	}
	rank0 := rankZero(pop, uncovered)
	inRank0 := map[*testcase.Case]bool{}
	for _, s := range rank0 {
		inRank0[s.tc] = true
	}
	rest := make([]scored, 0, len(pop))
	for _, s := range pop {
		if !inRank0[s.tc] {
			rest = append(rest, s)
		}
	}
	fronts := [][]scored{orderByDistance(rank0, uncovered)}
	for len(rest) > 0 {
		front, remaining := nonDominatedFront(rest, uncovered)
		fronts = append(fronts, orderByDistance(front, uncovered))
		rest = remaining
	}
	return fronts
}

// rankZero picks, for each uncovered goal, the single best (lowest
// fitness, shortest tie-break) individual; a chromosome may win more than
// one goal but appears once in the result.
func rankZero(pop []scored, uncovered []string) []scored {
	winners := map[*testcase.Case]bool{}
	var out []scored
	for _, goalID := range uncovered {
		var winner *scored
		for i := range pop {
			f, ok := pop[i].fit[goalID]
			if !ok {
				continue
			}
			if winner == nil || f < winner.fit[goalID] ||
				(f == winner.fit[goalID] && pop[i].tc.Len() < winner.tc.Len()) {
				winner = &pop[i]
			}
		}
		if winner != nil && !winners[winner.tc] {
			winners[winner.tc] = true
			out = append(out, *winner)
		}
	}
	return out
}

// dominates reports whether a dominates b over the uncovered-goal vector:
// no worse on every goal, strictly better on at least one.
func dominates(a, b scored, uncovered []string) bool {
	strictlyBetter := false
	for _, g := range uncovered {
		af, bf := a.fit[g], b.fit[g]
		if af > bf {
			return false
		}
		if af < bf {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}

// nonDominatedFront splits pop into its non-dominated front and the rest.
func nonDominatedFront(pop []scored, uncovered []string) (front, rest []scored) {
	for i := range pop {
		dominated := false
		for j := range pop {
			if i != j && dominates(pop[j], pop[i], uncovered) {
				dominated = true
				break
			}
		}
		if dominated {
			rest = append(rest, pop[i])
		} else {
			front = append(front, pop[i])
		}
	}
	return front, rest
}

// orderByDistance sorts a front by a subvector distance: the sum, per
// goal, of the fitness gap to the next-closest individual in the front, an
// epsilon-dominance approximation of crowding distance (spec.md §4.6
// "subvector distance ... approximated by fast epsilon dominance"),
// descending so the most distinctive individuals sort first.
func orderByDistance(front []scored, uncovered []string) []scored {
	if len(front) <= 2 {
		return front
	}
	dist := make(map[*testcase.Case]float64, len(front))
	for _, goalID := range uncovered {
		ordered := append([]scored(nil), front...)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].fit[goalID] < ordered[j].fit[goalID] })
		span := ordered[len(ordered)-1].fit[goalID] - ordered[0].fit[goalID]
		dist[ordered[0].tc] = math.Inf(1)
		dist[ordered[len(ordered)-1].tc] = math.Inf(1)
		if span <= 0 {
			continue
		}
		for k := 1; k < len(ordered)-1; k++ {
			dist[ordered[k].tc] += (ordered[k+1].fit[goalID] - ordered[k-1].fit[goalID]) / span
		}
	}
	out := append([]scored(nil), front...)
	sort.SliceStable(out, func(i, j int) bool { return dist[out[i].tc] > dist[out[j].tc] })
	return out
}
