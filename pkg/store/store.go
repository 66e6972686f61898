package store

import (
	"fmt"
	"maps"
	"slices"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/member"
)

// Store is the in-memory member collection. The zero value is not usable;
// create one with [New] or [FromMembers].
type Store struct {
	members map[member.ID]*member.Member
	rev     uint64

	children map[member.ID][]member.ID
	indexRev uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{members: make(map[member.ID]*member.Member)}
}

// FromMembers creates a store holding copies of ms. It fails if the set
// violates any store invariant (duplicate IDs, dangling references, cycles);
// the error names the first offending member.
func FromMembers(ms []member.Member) (*Store, error) {
	s := New()
	for _, m := range ms {
		if err := m.Validate(); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "member %d", m.ID)
		}
		if _, dup := s.members[m.ID]; dup {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "duplicate member id %d", m.ID)
		}
		c := m.Clone()
		s.members[m.ID] = &c
	}
	for _, id := range s.ids() {
		if err := s.checkReferences(*s.members[id]); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "member %d", id)
		}
	}
	return s, nil
}

// Len returns the number of stored members.
func (s *Store) Len() int { return len(s.members) }

// Revision returns a counter that advances on every effective mutation.
// Two reads returning the same revision saw the same member set.
func (s *Store) Revision() uint64 { return s.rev }

// Contains reports whether a member with the given ID exists.
func (s *Store) Contains(id member.ID) bool {
	_, ok := s.members[id]
	return ok
}

// NextID returns the ID the next [Store.Create] will assign.
func (s *Store) NextID() member.ID {
	var hi member.ID
	for id := range s.members {
		hi = max(hi, id)
	}
	return hi + 1
}

// Get returns a copy of the member with the given ID.
func (s *Store) Get(id member.ID) (member.Member, bool) {
	m, ok := s.members[id]
	if !ok {
		return member.Member{}, false
	}
	return m.Clone(), true
}

// List returns copies of all members ordered by ID.
// Presentation ordering (by name) is left to the caller, see
// [member.SortByLastName].
func (s *Store) List() []member.Member {
	out := make([]member.Member, 0, len(s.members))
	for _, id := range s.ids() {
		out = append(out, s.members[id].Clone())
	}
	return out
}

// Create validates f and stores a new member, returning its ID.
// It fails with a MISSING_FIELD error when no name is supplied and with an
// INVALID_FIELD error for the first invalid field; the store is unchanged
// on failure.
func (s *Store) Create(f member.Fields) (member.ID, error) {
	if f.Name == nil {
		return 0, apperr.Missing(member.FieldName)
	}
	id := s.NextID()
	m, err := f.Apply(member.Member{ID: id})
	if err != nil {
		return 0, err
	}
	if err := s.checkReferences(m); err != nil {
		return 0, err
	}
	s.members[id] = &m
	s.bump()
	return id, nil
}

// Update validates f against the member with the given ID and returns the
// resulting diff without modifying the store. Supplied fields whose
// normalized value equals the stored one do not appear in the diff.
func (s *Store) Update(id member.ID, f member.Fields) (Diff, error) {
	d, _, err := s.prepare(id, f)
	return d, err
}

// Commit applies f to the member with the given ID and returns the applied
// diff. When the diff is empty nothing changes, including the revision.
func (s *Store) Commit(id member.ID, f member.Fields) (Diff, error) {
	d, next, err := s.prepare(id, f)
	if err != nil || d.Empty() {
		return d, err
	}
	s.members[id] = &next
	s.bump()
	return d, nil
}

func (s *Store) prepare(id member.ID, f member.Fields) (Diff, member.Member, error) {
	cur, ok := s.members[id]
	if !ok {
		return Diff{}, member.Member{}, notFound(id)
	}
	next, err := f.Apply(*cur)
	if err != nil {
		return Diff{}, member.Member{}, err
	}
	if err := s.checkChangedReferences(*cur, next); err != nil {
		return Diff{}, member.Member{}, err
	}
	return s.diff(*cur, next), next, nil
}

// Delete removes the member with the given ID and clears every reference
// other members held to it.
func (s *Store) Delete(id member.ID) error {
	if _, ok := s.members[id]; !ok {
		return notFound(id)
	}
	delete(s.members, id)
	for _, m := range s.members {
		if m.Father == id {
			m.Father = 0
		}
		if m.Mother == id {
			m.Mother = 0
		}
		if m.HasSpouse(id) {
			m.Spouses = slices.DeleteFunc(m.Spouses, func(x member.ID) bool { return x == id })
			if len(m.Spouses) == 0 {
				m.Spouses = nil
			}
		}
	}
	s.bump()
	return nil
}

// Dependents returns the IDs of members holding a reference to id, in ID
// order. Callers use it to describe the cascade before calling [Store.Delete].
func (s *Store) Dependents(id member.ID) []member.ID {
	var out []member.ID
	for _, other := range s.ids() {
		m := s.members[other]
		if m.HasParent(id) || m.HasSpouse(id) {
			out = append(out, other)
		}
	}
	return out
}

// DisplayName returns "Name (#id)" for a stored member and "#id" otherwise.
func (s *Store) DisplayName(id member.ID) string {
	if m, ok := s.members[id]; ok {
		return fmt.Sprintf("%s (#%d)", m.Name, id)
	}
	return fmt.Sprintf("#%d", id)
}

func (s *Store) ids() []member.ID {
	return slices.Sorted(maps.Keys(s.members))
}

func (s *Store) bump() {
	s.rev++
}

func notFound(id member.ID) error {
	return apperr.New(apperr.ErrCodeNotFound, "member %d not found", id)
}
