package member

import (
	"slices"
	"strconv"
	"strings"

	apperr "github.com/matzehuels/familytree/pkg/errors"
)

// Fields carries the raw values of a create or update request.
// A nil pointer means the field was not supplied. A supplied empty value
// clears the field (name cannot be cleared). The ID is never part of Fields.
type Fields struct {
	Name             *string
	Age              *string
	Gender           *string
	Location         *string
	Occupation       *string
	Aspiration       *string
	CauseOfDeath     *string
	ExtraInformation *string

	Father  *ID
	Mother  *ID
	Spouses *[]ID
}

// String returns a pointer to s, for building Fields literals.
func String(s string) *string { return &s }

// Number returns a pointer to the decimal form of n, for the Age field.
func Number(n int) *string { return String(strconv.Itoa(n)) }

// Ref returns a pointer to id, for the Father and Mother fields.
// Ref(0) clears the parent.
func Ref(id ID) *ID { return &id }

// Refs returns a pointer to a spouse list. Refs() clears the list.
func Refs(ids ...ID) *[]ID {
	s := slices.Clone(ids)
	return &s
}

// Supplied returns the names of the fields present in f, in
// [EditableFields] order.
func (f Fields) Supplied() []string {
	var out []string
	for _, field := range EditableFields {
		if f.has(field) {
			out = append(out, field)
		}
	}
	return out
}

func (f Fields) has(field string) bool {
	switch field {
	case FieldName:
		return f.Name != nil
	case FieldAge:
		return f.Age != nil
	case FieldGender:
		return f.Gender != nil
	case FieldLocation:
		return f.Location != nil
	case FieldOccupation:
		return f.Occupation != nil
	case FieldAspiration:
		return f.Aspiration != nil
	case FieldCauseOfDeath:
		return f.CauseOfDeath != nil
	case FieldExtraInformation:
		return f.ExtraInformation != nil
	case FieldFather:
		return f.Father != nil
	case FieldMother:
		return f.Mother != nil
	case FieldSpouses:
		return f.Spouses != nil
	}
	return false
}

// Apply validates every supplied field and returns a copy of m with the
// normalized values written in. It fails on the first invalid field, in
// [EditableFields] order, and never modifies m.
//
// Only field-local rules are checked here: name presence, gender and age
// vocabularies, and self-references. Whether referenced members exist is
// the store's concern.
func (f Fields) Apply(m Member) (Member, error) {
	out := m.Clone()

	if f.Name != nil {
		name, err := ValidateName(*f.Name)
		if err != nil {
			return m, err
		}
		out.Name = name
	}
	if f.Age != nil {
		out.AgeGroup = ""
		if strings.TrimSpace(*f.Age) == "" {
			out.Age = nil
		} else {
			age, err := ValidateNumericAge(*f.Age)
			if err != nil {
				return m, err
			}
			out.Age = &age
		}
	}
	if f.Gender != nil {
		if strings.TrimSpace(*f.Gender) == "" {
			out.Gender = ""
		} else {
			g, err := ValidateGender(*f.Gender)
			if err != nil {
				return m, err
			}
			out.Gender = g
		}
	}

	setText(&out.Location, f.Location)
	setText(&out.Occupation, f.Occupation)
	setText(&out.Aspiration, f.Aspiration)
	setText(&out.CauseOfDeath, f.CauseOfDeath)
	setText(&out.ExtraInformation, f.ExtraInformation)

	if f.Father != nil {
		out.Father = *f.Father
	}
	if f.Mother != nil {
		out.Mother = *f.Mother
	}
	if f.Spouses != nil {
		out.Spouses = slices.Clone(*f.Spouses)
		if len(out.Spouses) == 0 {
			out.Spouses = nil
		}
	}

	if err := checkSelfReferences(out); err != nil {
		return m, err
	}
	return out, nil
}

// setText writes v into dst. Clearing a field that was never set keeps it
// unset, so only a previously recorded value turns into an explicit "".
func setText(dst **string, v *string) {
	if v == nil {
		return
	}
	s := strings.TrimSpace(*v)
	if s == "" && *dst == nil {
		return
	}
	*dst = &s
}

// Validate checks a complete record against the field-local rules: positive
// ID, non-blank name, known gender, a non-negative age or a known age
// category (never both), and sane references.
// Loaders use it for records that did not come through [Fields.Apply].
func (m Member) Validate() error {
	if m.ID <= 0 {
		return apperr.Invalid(FieldID, nil, "must be a positive integer (got %d)", m.ID)
	}
	if strings.TrimSpace(m.Name) == "" {
		return apperr.Missing(FieldName)
	}
	if m.Gender != "" {
		if _, err := ValidateGender(string(m.Gender)); err != nil {
			return err
		}
	}
	if m.Age != nil && *m.Age < 0 {
		return apperr.Invalid(FieldAge, ErrNegativeAge, "cannot be negative (got %d)", *m.Age)
	}
	if m.AgeGroup != "" {
		if m.Age != nil {
			return apperr.Invalid(FieldAge, nil, "has both a number and the category %q", m.AgeGroup)
		}
		if c, err := ValidateAgeCategory(m.AgeGroup); err != nil || c != m.AgeGroup {
			return apperr.Invalid(FieldAge, nil, "unknown age category %q", m.AgeGroup).WithAllowed(AgeCategories...)
		}
	}
	return checkSelfReferences(m)
}

func checkSelfReferences(m Member) error {
	if m.Father < 0 {
		return apperr.Invalid(FieldFather, nil, "invalid member id %d", m.Father)
	}
	if m.Mother < 0 {
		return apperr.Invalid(FieldMother, nil, "invalid member id %d", m.Mother)
	}
	if m.ID != 0 && m.Father == m.ID {
		return apperr.Invalid(FieldFather, nil, "a member cannot be their own father")
	}
	if m.ID != 0 && m.Mother == m.ID {
		return apperr.Invalid(FieldMother, nil, "a member cannot be their own mother")
	}
	if m.Father != 0 && m.Father == m.Mother {
		return apperr.Invalid(FieldMother, nil, "father and mother must be different members")
	}
	seen := make(map[ID]bool, len(m.Spouses))
	for _, s := range m.Spouses {
		switch {
		case s <= 0:
			return apperr.Invalid(FieldSpouses, nil, "invalid member id %d", s)
		case m.ID != 0 && s == m.ID:
			return apperr.Invalid(FieldSpouses, nil, "a member cannot be their own spouse")
		case seen[s]:
			return apperr.Invalid(FieldSpouses, nil, "member %d is listed twice", s)
		}
		seen[s] = true
	}
	return nil
}
