package store

import (
	"errors"
	"slices"
	"testing"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/member"
)

func mustCreate(t *testing.T, s *Store, f member.Fields) member.ID {
	t.Helper()
	id, err := s.Create(f)
	if err != nil {
		t.Fatalf("Create(%+v) error = %v", f, err)
	}
	return id
}

func named(name string) member.Fields {
	return member.Fields{Name: member.String(name)}
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	s := New()
	var maxSeen member.ID
	for i := range 10 {
		id := mustCreate(t, s, named("Member"))
		if id != maxSeen+1 {
			t.Fatalf("create #%d id = %d, want %d", i, id, maxSeen+1)
		}
		maxSeen = id
	}

	if err := s.Delete(4); err != nil {
		t.Fatal(err)
	}
	if id := mustCreate(t, s, named("After gap")); id != 11 {
		t.Errorf("id after deleting 4 = %d, want 11 (max+1)", id)
	}
	if err := s.Delete(11); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(10); err != nil {
		t.Fatal(err)
	}
	if id := mustCreate(t, s, named("After tail delete")); id != 10 {
		t.Errorf("id after deleting tail = %d, want 10", id)
	}
}

func TestCreateNormalizes(t *testing.T) {
	s := New()
	id := mustCreate(t, s, member.Fields{
		Name:   member.String("Ben Roberson"),
		Age:    member.Number(65),
		Gender: member.String("male"),
	})
	m, ok := s.Get(id)
	if !ok {
		t.Fatal("Get() ok = false")
	}
	if m.ID != 1 || m.Gender != member.GenderMale || *m.Age != 65 {
		t.Errorf("created = %+v", m)
	}
}

func TestCreateRejects(t *testing.T) {
	tests := []struct {
		name   string
		fields member.Fields
		field  string
		code   apperr.Code
		cause  error
	}{
		{
			name:   "missing name",
			fields: member.Fields{Age: member.Number(3)},
			field:  member.FieldName,
			code:   apperr.ErrCodeMissingField,
		},
		{
			name:   "unknown gender",
			fields: member.Fields{Name: member.String("X"), Gender: member.String("Purple")},
			field:  member.FieldGender,
			code:   apperr.ErrCodeInvalidField,
		},
		{
			name:   "negative age",
			fields: member.Fields{Name: member.String("X"), Age: member.Number(-5)},
			field:  member.FieldAge,
			code:   apperr.ErrCodeInvalidField,
			cause:  member.ErrNegativeAge,
		},
		{
			name:   "non-numeric age",
			fields: member.Fields{Name: member.String("X"), Age: member.String("banana")},
			field:  member.FieldAge,
			code:   apperr.ErrCodeInvalidField,
			cause:  member.ErrAgeNotNumber,
		},
		{
			name:   "unknown father",
			fields: member.Fields{Name: member.String("X"), Father: member.Ref(9999)},
			field:  member.FieldFather,
			code:   apperr.ErrCodeInvalidField,
		},
		{
			name:   "unknown spouse",
			fields: member.Fields{Name: member.String("X"), Spouses: member.Refs(1, 42)},
			field:  member.FieldSpouses,
			code:   apperr.ErrCodeInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			mustCreate(t, s, named("Existing"))
			before, rev := s.Len(), s.Revision()

			_, err := s.Create(tt.fields)
			fe, ok := apperr.AsField(err)
			if !ok {
				t.Fatalf("Create() error = %v, want FieldError", err)
			}
			if fe.Field != tt.field || fe.Code != tt.code {
				t.Errorf("FieldError = %s/%s, want %s/%s", fe.Field, fe.Code, tt.field, tt.code)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want cause %v", err, tt.cause)
			}
			if s.Len() != before || s.Revision() != rev {
				t.Errorf("store changed: len %d -> %d, rev %d -> %d", before, s.Len(), rev, s.Revision())
			}
		})
	}
}

func TestUpdateDiff(t *testing.T) {
	s := New()
	dad := mustCreate(t, s, named("Ben Roberson"))
	id := mustCreate(t, s, member.Fields{
		Name:             member.String("Sarah Smith"),
		Occupation:       member.String("Doctor"),
		Aspiration:       member.String("Open a clinic"),
		ExtraInformation: member.String("Loves gardening"),
	})

	d, err := s.Update(id, member.Fields{
		Name:             member.String("Sarah Smith"),
		Occupation:       member.String("Surgeon"),
		Location:         member.String("Boston"),
		Aspiration:       member.String(""),
		ExtraInformation: member.String("Loves baking"),
		Father:           member.Ref(dad),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	want := []Change{
		{Field: member.FieldLocation, Kind: Added, Old: "", New: "Boston"},
		{Field: member.FieldOccupation, Kind: Changed, Old: "Doctor", New: "Surgeon"},
		{Field: member.FieldAspiration, Kind: Removed, Old: "Open a clinic", New: ""},
		{Field: member.FieldExtraInformation, Kind: Changed, Old: "Loves gardening", New: "Loves baking"},
		{Field: member.FieldFather, Kind: Added, Old: "", New: "Ben Roberson (#1)"},
	}
	if !slices.Equal(d.Changes, want) {
		t.Errorf("Changes =\n%+v\nwant\n%+v", d.Changes, want)
	}

	wantSummary := []string{
		"Location: Added 'Boston'",
		"Occupation: 'Doctor' → 'Surgeon'",
		"Aspiration: Removed 'Open a clinic'",
		"Extra Information has been modified",
		"Father: Added 'Ben Roberson (#1)'",
	}
	if got := d.Summary(); !slices.Equal(got, wantSummary) {
		t.Errorf("Summary() =\n%v\nwant\n%v", got, wantSummary)
	}

	m, _ := s.Get(id)
	if m.Text(member.FieldOccupation) != "Doctor" || m.Father != 0 {
		t.Error("Update() mutated the store")
	}
}

func TestCommit(t *testing.T) {
	s := New()
	id := mustCreate(t, s, member.Fields{Name: member.String("Emma Smith"), Aspiration: member.String("Art")})
	rev := s.Revision()

	d, err := s.Commit(id, member.Fields{Age: member.String("18"), Aspiration: member.String("")})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if got := d.Fields(); !slices.Equal(got, []string{member.FieldAge, member.FieldAspiration}) {
		t.Errorf("Fields() = %v", got)
	}
	if s.Revision() != rev+1 {
		t.Errorf("Revision() = %d, want %d", s.Revision(), rev+1)
	}

	m, _ := s.Get(id)
	if m.Age == nil || *m.Age != 18 {
		t.Errorf("Age = %v, want 18", m.Age)
	}
	if m.Aspiration == nil || *m.Aspiration != "" {
		t.Errorf("Aspiration = %v, want explicitly cleared", m.Aspiration)
	}
}

func TestNoOpDiff(t *testing.T) {
	s := New()
	id := mustCreate(t, s, member.Fields{Name: member.String("Ben Roberson"), Age: member.Number(65), Gender: member.String("Male")})
	rev := s.Revision()
	before, _ := s.Get(id)

	d, err := s.Commit(id, member.Fields{
		Name:             member.String("Ben Roberson"),
		Age:              member.String("65.4"),
		Gender:           member.String("MALE"),
		ExtraInformation: member.String(""),
	})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if !d.Empty() {
		t.Errorf("Changes = %+v, want none", d.Changes)
	}
	if s.Revision() != rev {
		t.Errorf("Revision() = %d, want unchanged %d", s.Revision(), rev)
	}
	after, _ := s.Get(id)
	if !after.Equal(before) {
		t.Errorf("member changed: %+v -> %+v", before, after)
	}
}

func TestUpdateErrors(t *testing.T) {
	s := New()
	grandpa := mustCreate(t, s, named("Ben Roberson"))
	dad := mustCreate(t, s, member.Fields{Name: member.String("Robert Smith"), Father: member.Ref(grandpa)})
	kid := mustCreate(t, s, member.Fields{Name: member.String("Emma Smith"), Father: member.Ref(dad)})

	t.Run("not found", func(t *testing.T) {
		_, err := s.Update(99, named("x"))
		if !apperr.Is(err, apperr.ErrCodeNotFound) {
			t.Errorf("error = %v, want NOT_FOUND", err)
		}
	})

	t.Run("unknown father", func(t *testing.T) {
		_, err := s.Update(kid, member.Fields{Father: member.Ref(9999)})
		fe, ok := apperr.AsField(err)
		if !ok || fe.Field != member.FieldFather {
			t.Errorf("error = %v, want FieldError on father", err)
		}
	})

	t.Run("ancestor cycle", func(t *testing.T) {
		_, err := s.Commit(grandpa, member.Fields{Father: member.Ref(kid)})
		if !errors.Is(err, ErrAncestorCycle) {
			t.Errorf("error = %v, want ErrAncestorCycle", err)
		}
		if m, _ := s.Get(grandpa); m.Father != 0 {
			t.Error("cycle was committed")
		}
	})

	t.Run("untouched invalid-looking fields are not revalidated", func(t *testing.T) {
		if _, err := s.Update(kid, member.Fields{Location: member.String("Boston")}); err != nil {
			t.Errorf("error = %v", err)
		}
	})
}

func TestDeleteCascades(t *testing.T) {
	s := New()
	a := mustCreate(t, s, named("Ben Roberson"))
	wife := mustCreate(t, s, member.Fields{Name: member.String("Brooke Roberson"), Spouses: member.Refs(a)})
	b := mustCreate(t, s, member.Fields{Name: member.String("Robert Smith"), Father: member.Ref(a), Mother: member.Ref(wife)})

	if got := s.Dependents(a); !slices.Equal(got, []member.ID{wife, b}) {
		t.Errorf("Dependents() = %v", got)
	}
	if err := s.Delete(a); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, ok := s.Get(a); ok {
		t.Error("deleted member still present")
	}
	child, _ := s.Get(b)
	if child.Father != 0 {
		t.Errorf("Father = %d, want cleared", child.Father)
	}
	if child.Mother != wife {
		t.Errorf("Mother = %d, want untouched %d", child.Mother, wife)
	}
	spouse, _ := s.Get(wife)
	if spouse.Spouses != nil {
		t.Errorf("Spouses = %v, want cleared", spouse.Spouses)
	}

	if err := s.Delete(a); !apperr.Is(err, apperr.ErrCodeNotFound) {
		t.Errorf("second Delete() error = %v, want NOT_FOUND", err)
	}
}

func TestChildrenOfIndex(t *testing.T) {
	s := New()
	dad := mustCreate(t, s, named("Robert Smith"))
	mom := mustCreate(t, s, named("Sarah Smith"))
	c1 := mustCreate(t, s, member.Fields{Name: member.String("Emma"), Father: member.Ref(dad), Mother: member.Ref(mom)})

	if got := s.ChildrenOf(dad); !slices.Equal(got, []member.ID{c1}) {
		t.Fatalf("ChildrenOf(dad) = %v", got)
	}

	c2 := mustCreate(t, s, member.Fields{Name: member.String("Liam"), Mother: member.Ref(mom)})
	if got := s.ChildrenOf(mom); !slices.Equal(got, []member.ID{c1, c2}) {
		t.Errorf("ChildrenOf(mom) after create = %v", got)
	}

	if _, err := s.Commit(c1, member.Fields{Father: member.Ref(0)}); err != nil {
		t.Fatal(err)
	}
	if got := s.ChildrenOf(dad); len(got) != 0 {
		t.Errorf("ChildrenOf(dad) after unlink = %v", got)
	}

	got := s.ChildrenOf(mom)
	got[0] = 999
	if again := s.ChildrenOf(mom); again[0] == 999 {
		t.Error("ChildrenOf() exposed the internal index")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	id := mustCreate(t, s, member.Fields{Name: member.String("Emma"), Location: member.String("Boston")})
	m, _ := s.Get(id)
	*m.Location = "Paris"
	m.Name = "Changed"

	again, _ := s.Get(id)
	if again.Name != "Emma" || *again.Location != "Boston" {
		t.Errorf("store was modified through a copy: %+v", again)
	}
}

func TestFromMembers(t *testing.T) {
	valid := []member.Member{
		{ID: 3, Name: "Child", Father: 1, Mother: 2},
		{ID: 1, Name: "Dad", Spouses: []member.ID{2}},
		{ID: 2, Name: "Mom"},
	}
	s, err := FromMembers(valid)
	if err != nil {
		t.Fatalf("FromMembers() error = %v", err)
	}
	if got := s.List(); len(got) != 3 || got[0].ID != 1 || got[2].ID != 3 {
		t.Errorf("List() = %+v, want ordered by id", got)
	}
	if s.NextID() != 4 {
		t.Errorf("NextID() = %d, want 4", s.NextID())
	}

	tests := []struct {
		name string
		ms   []member.Member
	}{
		{"duplicate id", []member.Member{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}}},
		{"zero id", []member.Member{{ID: 0, Name: "A"}}},
		{"blank name", []member.Member{{ID: 1, Name: " "}}},
		{"dangling father", []member.Member{{ID: 1, Name: "A", Father: 7}}},
		{"dangling spouse", []member.Member{{ID: 1, Name: "A", Spouses: []member.ID{7}}}},
		{"cycle", []member.Member{{ID: 1, Name: "A", Father: 2}, {ID: 2, Name: "B", Father: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromMembers(tt.ms); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
				t.Errorf("FromMembers() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestValidateReferences(t *testing.T) {
	s := New()
	a := mustCreate(t, s, named("A"))
	b := mustCreate(t, s, named("B"))

	if !ValidateParentReference(s, 0) || !ValidateParentReference(s, a) || ValidateParentReference(s, 42) {
		t.Error("ValidateParentReference() mismatch")
	}
	if !ValidateSpouseList(s, a, []member.ID{b}) || !ValidateSpouseList(s, a, nil) {
		t.Error("ValidateSpouseList() rejected a valid list")
	}
	for _, bad := range [][]member.ID{{a}, {b, b}, {42}} {
		if ValidateSpouseList(s, a, bad) {
			t.Errorf("ValidateSpouseList(%v) = true, want false", bad)
		}
	}
}
