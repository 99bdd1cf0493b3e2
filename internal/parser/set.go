package parser

// Set is a set of playlist URLs that remembers insertion order.
type Set struct {
	seen  map[string]struct{}
	order []string
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Add inserts u and reports whether it was new.
func (s *Set) Add(u string) bool {
	if _, ok := s.seen[u]; ok {
		return false
	}
	s.seen[u] = struct{}{}
	s.order = append(s.order, u)
	return true
}

// Len returns the number of URLs in the set.
func (s *Set) Len() int {
	return len(s.order)
}

// Filter returns the URLs accepted by keep, first-added first.
func (s *Set) Filter(keep func(string) bool) []string {
	out := make([]string, 0, len(s.order))
	for _, u := range s.order {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}

// List returns every URL, first-added first.
func (s *Set) List() []string {
	return s.Filter(func(string) bool { return true })
}
