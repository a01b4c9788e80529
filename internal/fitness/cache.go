package fitness

import "github.com/ormasoftchile/suitegen/internal/testcase"

// entry is one cached chromosome's most recent scoring.
type entry struct {
	touch    uint64
	fitness  map[string]float64
	coverage map[string]bool
}

// Cache memoizes the most recent fitness and coverage vectors per
// chromosome, invalidated by any structural mutation — testcase.Case bumps
// its Touch() counter on every mutating operation, so a cache hit requires
// an exact touch match (spec.md §4.4 "computation cache").
type Cache struct {
	entries map[*testcase.Case]entry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: map[*testcase.Case]entry{}}
}

// Get returns the cached vectors for tc if they're still valid (same touch
// count as when they were stored).
func (c *Cache) Get(tc *testcase.Case) (fit map[string]float64, cov map[string]bool, ok bool) {
	e, found := c.entries[tc]
	if !found || e.touch != tc.Touch() {
		return nil, nil, false
	}
	return e.fitness, e.coverage, true
}

// Put stores tc's current fitness vector, deriving its coverage vector as
// "fitness == 0" per spec.md §4.4 ("coverage is inferred from fitness = 0
// without a separate evaluation pass").
func (c *Cache) Put(tc *testcase.Case, fit map[string]float64) {
	cov := make(map[string]bool, len(fit))
	for id, f := range fit {
		cov[id] = f == 0
	}
	c.entries[tc] = entry{touch: tc.Touch(), fitness: fit, coverage: cov}
}

// Evict drops tc's cached entry, e.g. when the chromosome is discarded from
// the population to bound memory.
func (c *Cache) Evict(tc *testcase.Case) {
	delete(c.entries, tc)
}

// Len reports how many chromosomes currently have a cached entry.
func (c *Cache) Len() int { return len(c.entries) }
