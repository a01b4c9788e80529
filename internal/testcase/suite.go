package testcase

// Suite is a multiset of test cases with an aggregate fitness, the
// whole-suite GA's chromosome (spec.md §3 "Test suite").
type Suite struct {
	Cases []*Case
}

// NewSuite builds a suite from the given cases (shared, not cloned).
func NewSuite(cases ...*Case) *Suite { return &Suite{Cases: cases} }

// Clone deep-copies every case in the suite.
func (s *Suite) Clone() *Suite {
	out := &Suite{Cases: make([]*Case, len(s.Cases))}
	for i, c := range s.Cases {
		out.Cases[i] = c.Clone()
	}
	return out
}

// TotalStatements is the total statement count across all cases, used as
// a suite's length by the whole-suite GA.
func (s *Suite) TotalStatements() int {
	n := 0
	for _, c := range s.Cases {
		n += c.Len()
	}
	return n
}

// Add appends a case to the suite.
func (s *Suite) Add(c *Case) { s.Cases = append(s.Cases, c) }

// Remove drops the case at index i.
func (s *Suite) Remove(i int) {
	s.Cases = append(s.Cases[:i], s.Cases[i+1:]...)
}
