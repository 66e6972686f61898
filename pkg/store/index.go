package store

import (
	"slices"

	"github.com/matzehuels/familytree/pkg/member"
)

// ChildrenOf returns the IDs of members whose father or mother is id,
// in ID order.
func (s *Store) ChildrenOf(id member.ID) []member.ID {
	if s.children == nil || s.indexRev != s.rev {
		s.rebuildIndex()
	}
	return slices.Clone(s.children[id])
}

// rebuildIndex recomputes the parent -> children map. Iterating in ID order
// keeps every child list sorted.
func (s *Store) rebuildIndex() {
	s.children = make(map[member.ID][]member.ID)
	for _, id := range s.ids() {
		m := s.members[id]
		if m.Father != 0 {
			s.children[m.Father] = append(s.children[m.Father], id)
		}
		if m.Mother != 0 {
			s.children[m.Mother] = append(s.children[m.Mother], id)
		}
	}
	s.indexRev = s.rev
}
