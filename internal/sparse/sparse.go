// Package sparse provides a sparse membership set over small integer
// universes, used by the grammar compiler to track visited rules while
// walking the reference graph.
//
// Insert, Contains and Clear are O(1); the dense backing keeps
// iteration proportional to the number of members, not the capacity.
package sparse

// Set is a set of uint32 values below a fixed capacity.
//
// The classic two-array layout: sparse maps a value to its slot in
// dense, dense lists the members in insertion order. A membership test
// checks that the two arrays agree, so the backing memory never needs
// zeroing on Clear.
type Set struct {
	sparse []uint32
	dense  []uint32
}

// New returns an empty set that can hold values in [0, capacity).
func New(capacity uint32) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set; inserting an existing member is a
// no-op. Values at or above the capacity are ignored.
func (s *Set) Insert(value uint32) {
	if value >= uint32(len(s.sparse)) || s.Contains(value) {
		return
	}
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
}

// Contains reports whether value is a member.
func (s *Set) Contains(value uint32) bool {
	if value >= uint32(len(s.sparse)) {
		return false
	}
	i := s.sparse[value]
	return i < uint32(len(s.dense)) && s.dense[i] == value
}

// Len returns the number of members.
func (s *Set) Len() int { return len(s.dense) }

// Clear removes all members without releasing the backing arrays.
func (s *Set) Clear() { s.dense = s.dense[:0] }

// Members returns the members in insertion order. The slice is shared
// and valid until the next Insert or Clear.
func (s *Set) Members() []uint32 { return s.dense }
