package member

import (
	"slices"
	"strconv"
	"strings"
)

// ID identifies a member. IDs start at 1; the zero ID means "none".
type ID int

// String returns the decimal form of the ID.
func (id ID) String() string { return strconv.Itoa(int(id)) }

// Persisted field names. They double as the field names reported in
// validation errors and diff entries.
const (
	FieldID               = "id"
	FieldName             = "name"
	FieldAge              = "age"
	FieldGender           = "gender"
	FieldLocation         = "location"
	FieldOccupation       = "occupation"
	FieldAspiration       = "aspiration"
	FieldCauseOfDeath     = "cause_of_death"
	FieldExtraInformation = "extra_information"
	FieldFather           = "father"
	FieldMother           = "mother"
	FieldSpouses          = "spouses"
)

// EditableFields lists the mutable fields in display order.
var EditableFields = []string{
	FieldName,
	FieldAge,
	FieldGender,
	FieldLocation,
	FieldOccupation,
	FieldAspiration,
	FieldCauseOfDeath,
	FieldExtraInformation,
	FieldFather,
	FieldMother,
	FieldSpouses,
}

// Label returns the display label of a persisted field name,
// e.g. "cause_of_death" -> "Cause Of Death".
func Label(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Member is one person in the family tree.
type Member struct {
	ID     ID
	Name   string
	Age    *int
	Gender Gender

	// AgeGroup is an age category (one of [AgeCategories]) recorded without
	// a numeric age, as older files did. It is only meaningful while Age is
	// nil; setting a numeric age clears it.
	AgeGroup string

	Location         *string
	Occupation       *string
	Aspiration       *string
	CauseOfDeath     *string
	ExtraInformation *string

	Father  ID
	Mother  ID
	Spouses []ID
}

// Clone returns a deep copy of m.
func (m Member) Clone() Member {
	c := m
	c.Age = clonePtr(m.Age)
	c.Location = clonePtr(m.Location)
	c.Occupation = clonePtr(m.Occupation)
	c.Aspiration = clonePtr(m.Aspiration)
	c.CauseOfDeath = clonePtr(m.CauseOfDeath)
	c.ExtraInformation = clonePtr(m.ExtraInformation)
	c.Spouses = slices.Clone(m.Spouses)
	return c
}

// Equal reports whether m and o hold the same values, treating nil and empty
// spouse lists as equal.
func (m Member) Equal(o Member) bool {
	return m.ID == o.ID &&
		m.Name == o.Name &&
		equalPtr(m.Age, o.Age) &&
		m.AgeGroup == o.AgeGroup &&
		m.Gender == o.Gender &&
		equalPtr(m.Location, o.Location) &&
		equalPtr(m.Occupation, o.Occupation) &&
		equalPtr(m.Aspiration, o.Aspiration) &&
		equalPtr(m.CauseOfDeath, o.CauseOfDeath) &&
		equalPtr(m.ExtraInformation, o.ExtraInformation) &&
		m.Father == o.Father &&
		m.Mother == o.Mother &&
		slices.Equal(m.Spouses, o.Spouses)
}

// HasParent reports whether id is m's father or mother.
func (m Member) HasParent(id ID) bool {
	return id != 0 && (m.Father == id || m.Mother == id)
}

// HasSpouse reports whether id appears in m's spouse list.
func (m Member) HasSpouse(id ID) bool {
	return slices.Contains(m.Spouses, id)
}

// References returns every member ID m points at, in field order.
func (m Member) References() []ID {
	var refs []ID
	if m.Father != 0 {
		refs = append(refs, m.Father)
	}
	if m.Mother != 0 {
		refs = append(refs, m.Mother)
	}
	return append(refs, m.Spouses...)
}

// Text returns the display value of a scalar field; unset and cleared
// fields yield "". Reference fields are rendered as raw IDs.
func (m Member) Text(field string) string {
	switch field {
	case FieldID:
		return m.ID.String()
	case FieldName:
		return m.Name
	case FieldAge:
		if m.Age == nil {
			return m.AgeGroup
		}
		return strconv.Itoa(*m.Age)
	case FieldGender:
		return string(m.Gender)
	case FieldLocation:
		return deref(m.Location)
	case FieldOccupation:
		return deref(m.Occupation)
	case FieldAspiration:
		return deref(m.Aspiration)
	case FieldCauseOfDeath:
		return deref(m.CauseOfDeath)
	case FieldExtraInformation:
		return deref(m.ExtraInformation)
	case FieldFather:
		return refText(m.Father)
	case FieldMother:
		return refText(m.Mother)
	case FieldSpouses:
		parts := make([]string, len(m.Spouses))
		for i, s := range m.Spouses {
			parts[i] = s.String()
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func refText(id ID) string {
	if id == 0 {
		return ""
	}
	return id.String()
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
