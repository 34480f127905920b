package filtering

// DomainSet stores normalised domains in first-seen order.
type DomainSet struct {
	order []string
	index map[string]struct{}
}

// NewDomainSet creates an empty DomainSet.
func NewDomainSet() *DomainSet {
	return &DomainSet{
		index: make(map[string]struct{}),
	}
}

// Add appends domain unless it is empty or already present. It reports whether
// the set changed.
func (s *DomainSet) Add(domain string) bool {
	if domain == "" {
		return false
	}
	if _, ok := s.index[domain]; ok {
		return false
	}
	s.index[domain] = struct{}{}
	s.order = append(s.order, domain)
	return true
}

// Contains reports an exact, literal match. Wildcards are not expanded.
func (s *DomainSet) Contains(domain string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[domain]
	return ok
}

// Len returns the number of domains in the set.
func (s *DomainSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Domains returns the domains in insertion order.
func (s *DomainSet) Domains() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Merge appends the domains of other that are not yet present.
func (s *DomainSet) Merge(other *DomainSet) {
	if other == nil {
		return
	}
	for _, domain := range other.order {
		s.Add(domain)
	}
}

// MergeSets folds any number of sets into a new one. Nil sets are skipped.
func MergeSets(sets ...*DomainSet) *DomainSet {
	merged := NewDomainSet()
	for _, set := range sets {
		merged.Merge(set)
	}
	return merged
}
