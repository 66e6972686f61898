package relation

import (
	"slices"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/store"
)

// Parents returns the father and mother of the member with the given ID.
// A nil result means no parent is recorded in that slot.
func Parents(s *store.Store, id member.ID) (father, mother *member.Member, err error) {
	m, err := lookup(s, id)
	if err != nil {
		return nil, nil, err
	}
	return ref(s, m.Father), ref(s, m.Mother), nil
}

// Children returns the members whose father or mother is id, ordered by ID.
func Children(s *store.Store, id member.ID) ([]member.Member, error) {
	if _, err := lookup(s, id); err != nil {
		return nil, err
	}
	return collect(s, s.ChildrenOf(id)), nil
}

// Spouses returns the member's own spouse entries in list order, followed by
// members that list id as a spouse without being listed back, ordered by ID.
func Spouses(s *store.Store, id member.ID) ([]member.Member, error) {
	m, err := lookup(s, id)
	if err != nil {
		return nil, err
	}
	ids := slices.Clone(m.Spouses)
	for _, other := range s.List() {
		if other.HasSpouse(id) && !slices.Contains(ids, other.ID) {
			ids = append(ids, other.ID)
		}
	}
	return collect(s, ids), nil
}

// Siblings returns the members sharing at least one parent with id,
// excluding id itself, ordered by ID. Half-siblings are included.
func Siblings(s *store.Store, id member.ID) ([]member.Member, error) {
	m, err := lookup(s, id)
	if err != nil {
		return nil, err
	}
	var ids []member.ID
	for _, p := range []member.ID{m.Father, m.Mother} {
		if p == 0 {
			continue
		}
		for _, c := range s.ChildrenOf(p) {
			if c != id && !slices.Contains(ids, c) {
				ids = append(ids, c)
			}
		}
	}
	slices.Sort(ids)
	return collect(s, ids), nil
}

func lookup(s *store.Store, id member.ID) (member.Member, error) {
	m, ok := s.Get(id)
	if !ok {
		return member.Member{}, apperr.New(apperr.ErrCodeNotFound, "member %d not found", id)
	}
	return m, nil
}

func ref(s *store.Store, id member.ID) *member.Member {
	if id == 0 {
		return nil
	}
	m, ok := s.Get(id)
	if !ok {
		return nil
	}
	return &m
}

func collect(s *store.Store, ids []member.ID) []member.Member {
	out := make([]member.Member, 0, len(ids))
	for _, id := range ids {
		if m, ok := s.Get(id); ok {
			out = append(out, m)
		}
	}
	return out
}
