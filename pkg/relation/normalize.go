package relation

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/store"
)

// Relationship kinds understood by [Normalize].
const (
	KindParent = "parent"
	KindSpouse = "spouse"
)

// Parent roles an [Edge] may state explicitly.
const (
	RoleFather = "father"
	RoleMother = "mother"
)

// Edge is one legacy relationship record. For KindParent, PersonA is the
// parent of PersonB. Role is optional and only meaningful for parent edges.
type Edge struct {
	PersonA member.ID
	PersonB member.ID
	Kind    string
	Role    string
}

func (e Edge) String() string {
	return fmt.Sprintf("%s %d -> %d", e.Kind, e.PersonA, e.PersonB)
}

// Policy decides the parent slot for an edge whose role and parent gender
// are both inconclusive.
type Policy int

const (
	// PolicyStrict rejects the edge with an INVALID_RELATIONSHIP error.
	PolicyStrict Policy = iota
	// PolicyFatherFirst assigns the father slot if it is free, else the
	// mother slot.
	PolicyFatherFirst
)

// Policies lists the accepted policy names in declaration order.
var Policies = []string{"strict", "father-first"}

// String returns the policy's configuration name.
func (p Policy) String() string {
	if int(p) >= 0 && int(p) < len(Policies) {
		return Policies[p]
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses a configuration name; the empty string selects
// [PolicyStrict].
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "father-first":
		return PolicyFatherFirst, nil
	}
	return 0, apperr.Invalid("parent_policy", nil, "unknown policy %q", s).WithAllowed(Policies...)
}

// Report summarizes a successful [Normalize] run.
type Report struct {
	Parents   int            // father/mother assignments made
	Spouses   int            // spouse pairs linked
	Unchanged int            // edges already reflected in the store
	Ignored   map[string]int // edges of other kinds, by kind
}

// IgnoredKinds returns the ignored kinds in sorted order.
func (r Report) IgnoredKinds() []string {
	return slices.Sorted(maps.Keys(r.Ignored))
}

type pending struct {
	id     member.ID
	fields member.Fields
}

// Normalize folds legacy relationship edges into the father, mother and
// spouses references of the members in s.
//
// Every edge is validated and applied to a scratch copy of s first. If any
// edge is rejected, Normalize returns an INVALID_RELATIONSHIP error naming
// the edge and s is left untouched. Otherwise the same changes are
// committed to s and a [Report] is returned.
func Normalize(s *store.Store, edges []Edge, policy Policy) (Report, error) {
	scratch, err := store.FromMembers(s.List())
	if err != nil {
		return Report{}, apperr.Wrap(apperr.ErrCodeInternal, err, "copy store")
	}

	rep := Report{Ignored: make(map[string]int)}
	var ops []pending
	for i, e := range edges {
		changes, err := normalizeEdge(scratch, e, policy, &rep)
		if err != nil {
			return Report{}, apperr.Wrap(apperr.ErrCodeInvalidRelationship, err, "relationship %d (%s)", i+1, e)
		}
		for _, op := range changes {
			if _, err := scratch.Commit(op.id, op.fields); err != nil {
				return Report{}, apperr.Wrap(apperr.ErrCodeInvalidRelationship, err, "relationship %d (%s)", i+1, e)
			}
		}
		ops = append(ops, changes...)
	}

	for _, op := range ops {
		if _, err := s.Commit(op.id, op.fields); err != nil {
			return Report{}, apperr.Wrap(apperr.ErrCodeInternal, err, "apply relationship to member %d", op.id)
		}
	}
	return rep, nil
}

// normalizeEdge returns the changes e makes to scratch, or none when the edge
// is ignored or already satisfied.
func normalizeEdge(scratch *store.Store, e Edge, policy Policy, rep *Report) ([]pending, error) {
	kind := strings.ToLower(strings.TrimSpace(e.Kind))
	if kind != KindParent && kind != KindSpouse {
		rep.Ignored[kind]++
		return nil, nil
	}

	a, okA := scratch.Get(e.PersonA)
	b, okB := scratch.Get(e.PersonB)
	switch {
	case !okA:
		return nil, fmt.Errorf("unknown member %d", e.PersonA)
	case !okB:
		return nil, fmt.Errorf("unknown member %d", e.PersonB)
	case a.ID == b.ID:
		return nil, fmt.Errorf("member %d cannot be related to themselves", a.ID)
	}

	if kind == KindSpouse {
		return spouseEdge(a, b, rep), nil
	}
	return parentEdge(a, b, e.Role, policy, rep)
}

func parentEdge(parent, child member.Member, role string, policy Policy, rep *Report) ([]pending, error) {
	if child.Father == parent.ID || child.Mother == parent.ID {
		rep.Unchanged++
		return nil, nil
	}

	slot, err := parentSlot(parent, child, role, policy)
	if err != nil {
		return nil, err
	}

	cur := child.Father
	if slot == RoleMother {
		cur = child.Mother
	}
	if cur != 0 {
		return nil, fmt.Errorf("member %d already has a %s (member %d)", child.ID, slot, cur)
	}

	rep.Parents++
	f := member.Fields{Father: member.Ref(parent.ID)}
	if slot == RoleMother {
		f = member.Fields{Mother: member.Ref(parent.ID)}
	}
	return []pending{{id: child.ID, fields: f}}, nil
}

func parentSlot(parent, child member.Member, role string, policy Policy) (string, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleFather:
		return RoleFather, nil
	case RoleMother:
		return RoleMother, nil
	case "":
	default:
		return "", fmt.Errorf("unknown parent role %q (allowed: %s, %s)", role, RoleFather, RoleMother)
	}

	switch parent.Gender {
	case member.GenderMale:
		return RoleFather, nil
	case member.GenderFemale:
		return RoleMother, nil
	}

	if policy == PolicyFatherFirst {
		if child.Father == 0 {
			return RoleFather, nil
		}
		return RoleMother, nil
	}
	return "", fmt.Errorf("cannot tell whether member %d is father or mother (gender %q); state a role", parent.ID, parent.Gender)
}

// spouseEdge links a and b both ways, adding only the missing entries.
func spouseEdge(a, b member.Member, rep *Report) []pending {
	var ops []pending
	if !a.HasSpouse(b.ID) {
		ops = append(ops, pending{id: a.ID, fields: member.Fields{Spouses: member.Refs(append(a.Spouses, b.ID)...)}})
	}
	if !b.HasSpouse(a.ID) {
		ops = append(ops, pending{id: b.ID, fields: member.Fields{Spouses: member.Refs(append(b.Spouses, a.ID)...)}})
	}
	if len(ops) == 0 {
		rep.Unchanged++
	} else {
		rep.Spouses++
	}
	return ops
}
