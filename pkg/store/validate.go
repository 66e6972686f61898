package store

import (
	"errors"
	"slices"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/member"
)

// ErrAncestorCycle is the cause of a FieldError for a father or mother
// assignment that would make a member their own ancestor.
var ErrAncestorCycle = errors.New("member would become their own ancestor")

// ValidateParentReference reports whether id is an acceptable father or
// mother reference: either the zero ID (no parent recorded) or the ID of a
// stored member. Matching is by ID only; names are never consulted.
func ValidateParentReference(s *Store, id member.ID) bool {
	return id == 0 || s.Contains(id)
}

// ValidateSpouseList reports whether every ID in ids names a stored member
// other than self, with no ID listed twice.
func ValidateSpouseList(s *Store, self member.ID, ids []member.ID) bool {
	seen := make(map[member.ID]bool, len(ids))
	for _, id := range ids {
		if id == self || seen[id] || !s.Contains(id) {
			return false
		}
		seen[id] = true
	}
	return true
}

// checkReferences verifies every reference of m against the store.
func (s *Store) checkReferences(m member.Member) error {
	return s.checkChangedReferences(member.Member{ID: m.ID}, m)
}

// checkChangedReferences verifies only the references that differ between
// cur and next, so an update never fails on fields it did not touch.
func (s *Store) checkChangedReferences(cur, next member.Member) error {
	if next.Father != cur.Father {
		if err := s.checkParent(next, member.FieldFather, next.Father); err != nil {
			return err
		}
	}
	if next.Mother != cur.Mother {
		if err := s.checkParent(next, member.FieldMother, next.Mother); err != nil {
			return err
		}
	}
	if !slices.Equal(next.Spouses, cur.Spouses) && !ValidateSpouseList(s, next.ID, next.Spouses) {
		for _, id := range next.Spouses {
			if !s.Contains(id) {
				return apperr.Invalid(member.FieldSpouses, nil, "unknown member %d", id)
			}
		}
		return apperr.Invalid(member.FieldSpouses, nil, "spouse list must not repeat members or name the member itself")
	}
	return nil
}

func (s *Store) checkParent(m member.Member, field string, parent member.ID) error {
	if !ValidateParentReference(s, parent) {
		return apperr.Invalid(field, nil, "unknown member %d", parent)
	}
	if parent != 0 && s.isAncestor(m.ID, parent) {
		return apperr.Invalid(field, ErrAncestorCycle, "%s is a descendant of %s", s.DisplayName(parent), s.DisplayName(m.ID))
	}
	return nil
}

// isAncestor reports whether anc is start or one of start's ancestors,
// following the stored father/mother links.
func (s *Store) isAncestor(anc, start member.ID) bool {
	seen := make(map[member.ID]bool)
	stack := []member.ID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == anc {
			return true
		}
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		if m, ok := s.members[id]; ok {
			stack = append(stack, m.Father, m.Mother)
		}
	}
	return false
}
