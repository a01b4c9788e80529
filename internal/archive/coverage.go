// Package archive implements the two archive variants spec.md §4.5 calls
// for: a single-best-individual-per-goal CoverageArchive (used by
// MOSA/DynaMOSA/Whole-Suite) and a bounded-population-per-goal MIOArchive.
package archive

import "github.com/ormasoftchile/suitegen/internal/testcase"

// CoverageEntry is the best known individual covering one goal.
type CoverageEntry struct {
	Case   *testcase.Case
	Length int
}

// CoverageArchive stores exactly one individual per covered goal — the
// shortest known to cover it (spec.md §4.5 "Coverage archive invariants").
type CoverageArchive struct {
	goals     map[string]bool
	covered   map[string]CoverageEntry
	uncovered map[string]bool
}

// NewCoverageArchive seeds the archive with the full goal set, all
// initially uncovered.
func NewCoverageArchive(goalIDs []string) *CoverageArchive {
	a := &CoverageArchive{
		goals:     map[string]bool{},
		covered:   map[string]CoverageEntry{},
		uncovered: map[string]bool{},
	}
	a.AddGoals(goalIDs)
	return a
}

// AddGoals introduces new goals (e.g. DynaMOSA activating CDG children) and
// recomputes the uncovered set.
func (a *CoverageArchive) AddGoals(goalIDs []string) {
	for _, id := range goalIDs {
		if a.goals[id] {
			continue
		}
		a.goals[id] = true
		if _, ok := a.covered[id]; !ok {
			a.uncovered[id] = true
		}
	}
}

// RemoveGoals drops goals (e.g. discovered to be unreachable) and
// recomputes the uncovered set.
func (a *CoverageArchive) RemoveGoals(goalIDs []string) {
	for _, id := range goalIDs {
		delete(a.goals, id)
		delete(a.uncovered, id)
		delete(a.covered, id)
	}
}

// Update offers tc, which covers every goal id in covers (fitness == 0 on
// that goal), as a candidate. For each such goal, tc replaces the stored
// entry if the archive is empty at that goal or tc is strictly shorter
// (spec.md §4.5 "Updating with a new individual").
func (a *CoverageArchive) Update(tc *testcase.Case, covers []string) {
	length := tc.Len()
	for _, id := range covers {
		if !a.goals[id] {
			continue
		}
		existing, ok := a.covered[id]
		if !ok || length < existing.Length {
			a.covered[id] = CoverageEntry{Case: tc, Length: length}
			delete(a.uncovered, id)
		}
	}
}

// UncoveredGoals returns the current uncovered goal ids.
func (a *CoverageArchive) UncoveredGoals() []string {
	out := make([]string, 0, len(a.uncovered))
	for id := range a.uncovered {
		out = append(out, id)
	}
	return out
}

// CoveredCount reports how many goals currently have a stored individual.
func (a *CoverageArchive) CoveredCount() int { return len(a.covered) }

// TotalGoals reports the current goal-set size.
func (a *CoverageArchive) TotalGoals() int { return len(a.goals) }

// Progress is covered/total, the fraction goalmgr/MIO adaptive parameters
// key off.
func (a *CoverageArchive) Progress() float64 {
	if len(a.goals) == 0 {
		return 1
	}
	return float64(len(a.covered)) / float64(len(a.goals))
}

// Entry returns the stored individual for goal id, if any.
func (a *CoverageArchive) Entry(id string) (CoverageEntry, bool) {
	e, ok := a.covered[id]
	return e, ok
}

// Suite collects every distinct individual currently stored across all
// covered goals, the final emitted test suite (spec.md §4.6 step 4).
func (a *CoverageArchive) Suite() *testcase.Suite {
	seen := map[*testcase.Case]bool{}
	s := testcase.NewSuite()
	for _, e := range a.covered {
		if seen[e.Case] {
			continue
		}
		seen[e.Case] = true
		s.Add(e.Case)
	}
	return s
}
