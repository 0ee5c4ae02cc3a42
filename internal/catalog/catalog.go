package catalog

import "strings"

// Catalog is the growable set of known item names offered as choices.
type Catalog interface {
	// Ensure adds name if it is not known yet and reports whether it was added.
	Ensure(name string) bool
	Contains(name string) bool
	Names() []string
}

// Set is an in-memory Catalog that keeps names in insertion order.
// It is not safe for concurrent use.
type Set struct {
	names []string
	index map[string]struct{}
}

// NewSet returns a Set seeded with the given names. Duplicates and blank
// names are skipped.
func NewSet(seed ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(seed))}
	for _, n := range seed {
		s.Ensure(n)
	}
	return s
}

// Ensure adds name to the set. Blank names are never added.
func (s *Set) Ensure(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

// Contains reports whether name is in the set.
func (s *Set) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the known names in the order they were added.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of known names.
func (s *Set) Len() int {
	return len(s.names)
}
