package crawler

// VisitedSet records addresses that have been dequeued and processed.
// It only grows: once marked, an address is never fetched again.
type VisitedSet struct {
	seen map[string]struct{}
}

// NewVisitedSet creates an empty set
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{seen: make(map[string]struct{})}
}

// Contains reports whether address was marked
func (v *VisitedSet) Contains(address string) bool {
	_, ok := v.seen[address]
	return ok
}

// Mark records address as visited. It returns false if it already was.
func (v *VisitedSet) Mark(address string) bool {
	if v.Contains(address) {
		return false
	}
	v.seen[address] = struct{}{}
	return true
}

// Len returns the number of visited addresses
func (v *VisitedSet) Len() int {
	return len(v.seen)
}
