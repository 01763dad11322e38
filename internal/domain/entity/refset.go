// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"slices"

	"github.com/google/uuid"
)

// RefSet is an ordered set of entity references. It is the building block of
// every bidirectional relationship in the graph: both sides of a relation hold
// a RefSet, and every mutating operation must keep the two sides symmetric.
type RefSet []uuid.UUID

// Contains reports whether id is a member of the set.
func (s RefSet) Contains(id uuid.UUID) bool {
	return slices.Contains(s, id)
}

// Push adds id to the set if absent, preserving insertion order.
func (s *RefSet) Push(id uuid.UUID) {
	if s.Contains(id) {
		return
	}
	*s = append(*s, id)
}

// Pull removes every occurrence of id from the set.
func (s *RefSet) Pull(id uuid.UUID) {
	*s = slices.DeleteFunc(*s, func(member uuid.UUID) bool {
		return member == id
	})
}

// Clone returns an independent copy of the set.
func (s RefSet) Clone() RefSet {
	return slices.Clone(s)
}

// Strings converts the set to its string identifiers.
func (s RefSet) Strings() []string {
	result := make([]string, len(s))
	for i, id := range s {
		result[i] = id.String()
	}

	return result
}
