package slug

// Set is an insertion-ordered set of slugs.
// The empty slug is never stored, so an empty fragment matches nothing.
type Set struct {
	index  map[string]struct{}
	values []string
}

// NewSet returns a set holding values.
func NewSet(values ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v. It reports whether v was newly added.
func (s *Set) Add(v string) bool {
	if v == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.values = append(s.values, v)
	return true
}

// Has reports whether v is in the set. A nil set is empty.
func (s *Set) Has(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[v]
	return ok
}

// Len returns the number of slugs in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Values returns the slugs in insertion order.
func (s *Set) Values() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.values...)
}
