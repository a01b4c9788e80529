package archive

import (
	"math/rand"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ormasoftchile/suitegen/internal/testcase"
)

// MIOIndividual is one stored candidate for a target, with its h-value
// (1 - normalized fitness; h=1 denotes coverage) and how many times it's
// been sampled, used to bias sampling towards under-explored entries.
type MIOIndividual struct {
	Case    *testcase.Case
	H       float64
	Samples int
}

// MIOParams are the exploration/exploitation knobs spec.md §4.5 advances
// linearly as archive progress crosses a focus threshold.
type MIOParams struct {
	Pr float64 // probability of sampling a fresh random individual instead of the population
	N  int     // max population size per target
	M  int     // mutate/sample count per target per iteration
}

var (
	explorationParams  = MIOParams{Pr: 0.5, N: 5, M: 1}
	exploitationParams = MIOParams{Pr: 0, N: 1, M: 10}
)

// MIOArchive holds a bounded population per goal (spec.md §4.5 "MIO archive
// invariants"). Populations are kept in an insertion-ordered map rather than
// Go's native map: goal iteration order otherwise feeds into reporting and
// the whole-suite export path, and a randomized order there would break the
// (seed, iteration-count) reproducibility invariant of spec.md §8.
type MIOArchive struct {
	populations    *orderedmap.OrderedMap[string, []MIOIndividual]
	FocusThreshold float64
	params         MIOParams
}

// NewMIOArchive returns an archive starting in full-exploration mode.
func NewMIOArchive() *MIOArchive {
	return &MIOArchive{
		populations:    orderedmap.New[string, []MIOIndividual](),
		FocusThreshold: 0.85,
		params:         explorationParams,
	}
}

// AdvanceParams linearly interpolates between exploration and exploitation
// parameters as progress (covered/total) advances past FocusThreshold.
func (a *MIOArchive) AdvanceParams(progress float64) {
	if progress <= a.FocusThreshold {
		a.params = explorationParams
		return
	}
	// t in [0,1] over the remaining distance from the focus threshold to 1.
	t := (progress - a.FocusThreshold) / (1 - a.FocusThreshold)
	if t > 1 {
		t = 1
	}
	a.params = MIOParams{
		Pr: lerp(explorationParams.Pr, exploitationParams.Pr, t),
		N:  int(lerp(float64(explorationParams.N), float64(exploitationParams.N), t)),
		M:  int(lerp(float64(explorationParams.M), float64(exploitationParams.M), t)),
	}
	if a.params.N < 1 {
		a.params.N = 1
	}
	if a.params.M < 1 {
		a.params.M = 1
	}
	// Once exploitation begins, shrink any existing population over N down
	// to size N (spec.md §4.5 "begin shrinking per-target populations
	// towards size 1").
	for pair := a.populations.Oldest(); pair != nil; pair = pair.Next() {
		if len(pair.Value) > a.params.N {
			a.populations.Set(pair.Key, pair.Value[:a.params.N])
		}
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Params returns the archive's current adaptive parameters.
func (a *MIOArchive) Params() MIOParams { return a.params }

// Record offers tc as a candidate for goal with h-value h, inserting it
// into the goal's population (sorted h-value descending, ties by length
// ascending) and truncating to the current max population size.
func (a *MIOArchive) Record(goalID string, tc *testcase.Case, h float64) {
	existing, _ := a.populations.Get(goalID)
	pop := append(existing, MIOIndividual{Case: tc, H: h})
	sort.SliceStable(pop, func(i, j int) bool {
		if pop[i].H != pop[j].H {
			return pop[i].H > pop[j].H
		}
		return pop[i].Case.Len() < pop[j].Case.Len()
	})
	if len(pop) > a.params.N {
		pop = pop[:a.params.N]
	}
	a.populations.Set(goalID, pop)
}

// Sample draws a candidate for goalID per spec.md §4.5: with probability Pr
// report that a fresh random individual should be synthesized instead
// (second return false); otherwise pick from the goal's population,
// preferring low-sample-count entries with random tie-break.
func (a *MIOArchive) Sample(goalID string, rng *rand.Rand) (MIOIndividual, bool) {
	if rng.Float64() < a.params.Pr {
		return MIOIndividual{}, false
	}
	pop, ok := a.populations.Get(goalID)
	if !ok || len(pop) == 0 {
		return MIOIndividual{}, false
	}
	minSamples := pop[0].Samples
	for _, ind := range pop[1:] {
		if ind.Samples < minSamples {
			minSamples = ind.Samples
		}
	}
	var candidates []int
	for i, ind := range pop {
		if ind.Samples == minSamples {
			candidates = append(candidates, i)
		}
	}
	idx := candidates[rng.Intn(len(candidates))]
	pop[idx].Samples++
	a.populations.Set(goalID, pop)
	return pop[idx], true
}

// Covered reports how many goals have at least one h=1 individual.
func (a *MIOArchive) Covered() int {
	n := 0
	for pair := a.populations.Oldest(); pair != nil; pair = pair.Next() {
		for _, ind := range pair.Value {
			if ind.H >= 1 {
				n++
				break
			}
		}
	}
	return n
}

// Population returns a copy of goalID's current population.
func (a *MIOArchive) Population(goalID string) []MIOIndividual {
	pop, _ := a.populations.Get(goalID)
	return append([]MIOIndividual(nil), pop...)
}

// Goals returns every goal id the archive has ever recorded a candidate
// for, in insertion order, for status reporting (mcpserver, tui).
func (a *MIOArchive) Goals() []string {
	goals := make([]string, 0, a.populations.Len())
	for pair := a.populations.Oldest(); pair != nil; pair = pair.Next() {
		goals = append(goals, pair.Key)
	}
	return goals
}

// Total reports how many distinct goals have been recorded at all
// (covered or not), the denominator for Covered()'s progress ratio.
func (a *MIOArchive) Total() int { return a.populations.Len() }
