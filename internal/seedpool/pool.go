// Package seedpool implements the dynamic-seeding constant pool: an
// append-only, thread-safe collection of values harvested from comparisons
// and string-predicate arguments observed during execution (spec.md §4.1
// "Dynamic-seeding adapter", §5 "append-only, thread-safe").
package seedpool

import (
	"math/rand"
	"sync"
)

// Pool is the process-wide (but explicitly threaded, never a package
// singleton — spec.md §9) dynamic-seeding constant pool.
type Pool struct {
	mu     sync.RWMutex
	values []any
}

// New returns an empty pool, optionally pre-seeded from a CSV-loaded slice
// (spec.md §6 "A seed file ... may be supplied as input").
func New(initial ...any) *Pool {
	return &Pool{values: append([]any(nil), initial...)}
}

// Add appends a harvested value. Safe for concurrent use by multiple
// tracer workers.
func (p *Pool) Add(v any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = append(p.values, v)
}

// Sample draws a uniformly random value from the pool using the supplied
// PRNG (never the package's own — spec.md §9 "single seeded instance").
// The second return is false if the pool is empty.
func (p *Pool) Sample(rng *rand.Rand) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.values) == 0 {
		return nil, false
	}
	return p.values[rng.Intn(len(p.values))], true
}

// Snapshot returns a copy of the pool's current contents, e.g. for
// appending to a seed-file on exit.
func (p *Pool) Snapshot() []any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]any(nil), p.values...)
}

// Len reports the number of harvested values.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.values)
}
