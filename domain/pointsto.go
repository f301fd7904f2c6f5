package domain

import (
	"sort"
	"strings"
)

// PointsToSet is a monotone collection of AbstractObject: the bottom
// element is the empty set, and union is the join (§3, Invariants).
// AbstractObject is already a plain comparable struct, so the set is
// backed directly by a Go map keyed on the object itself -- no custom
// hashing is required, unlike a set over non-comparable elements.
//
// The zero value is a valid, empty PointsToSet.
type PointsToSet struct {
	items map[AbstractObject]struct{}
}

// NewPointsToSet returns an empty set with the given capacity hint.
func NewPointsToSet(capacity int) *PointsToSet {
	return &PointsToSet{items: make(map[AbstractObject]struct{}, capacity)}
}

// Add inserts obj, returning true iff the set grew (obj was not
// already present). A nil receiver's map is lazily allocated.
func (s *PointsToSet) Add(obj AbstractObject) bool {
	if s.items == nil {
		s.items = make(map[AbstractObject]struct{}, 4)
	}
	if _, ok := s.items[obj]; ok {
		return false
	}
	s.items[obj] = struct{}{}
	return true
}

// Contains reports whether obj is a member.
func (s *PointsToSet) Contains(obj AbstractObject) bool {
	if s == nil {
		return false
	}
	_, ok := s.items[obj]
	return ok
}

// Len returns the number of members.
func (s *PointsToSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Empty reports whether the set has no members.
func (s *PointsToSet) Empty() bool {
	return s.Len() == 0
}

// Each calls f once per member, in no particular order.
func (s *PointsToSet) Each(f func(AbstractObject)) {
	if s == nil {
		return
	}
	for o := range s.items {
		f(o)
	}
}

// Slice returns the members as a slice sorted by String(), for
// deterministic test assertions and debug printing.
func (s *PointsToSet) Slice() []AbstractObject {
	out := make([]AbstractObject, 0, s.Len())
	s.Each(func(o AbstractObject) { out = append(out, o) })
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// UnionInto adds every member of src into s, returning true iff s
// grew. This is the primitive behind every Copy/Load/Store constraint
// solve() step.
func (s *PointsToSet) UnionInto(src *PointsToSet) bool {
	changed := false
	src.Each(func(o AbstractObject) {
		if s.Add(o) {
			changed = true
		}
	})
	return changed
}

// Only reports whether the kind of every member satisfies pred; an
// empty set vacuously returns true.
func (s *PointsToSet) Only(pred func(AbstractObject) bool) bool {
	only := true
	s.Each(func(o AbstractObject) {
		if !pred(o) {
			only = false
		}
	})
	return only
}

func (s *PointsToSet) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, o := range s.Slice() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(o.String())
	}
	b.WriteString("}")
	return b.String()
}
