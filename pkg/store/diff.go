package store

import (
	"fmt"
	"strings"

	"github.com/matzehuels/familytree/pkg/member"
)

// ChangeKind classifies a field-level change.
type ChangeKind int

const (
	// Added means the field had no value and now has one.
	Added ChangeKind = iota
	// Changed means the field had a value and now has a different one.
	Changed
	// Removed means the field had a value and was explicitly cleared.
	Removed
)

// String returns "added", "changed" or "removed".
func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is one field-level entry of a [Diff]. Old and New are display
// values: references are rendered as "Name (#id)".
type Change struct {
	Field string
	Kind  ChangeKind
	Old   string
	New   string
}

// Diff lists the field changes an update makes to one member, in
// [member.EditableFields] order. The ID never appears in a diff.
type Diff struct {
	ID      member.ID
	Changes []Change
}

// Empty reports whether the diff has no changes.
func (d Diff) Empty() bool { return len(d.Changes) == 0 }

// Fields returns the names of the changed fields.
func (d Diff) Fields() []string {
	out := make([]string, len(d.Changes))
	for i, c := range d.Changes {
		out[i] = c.Field
	}
	return out
}

// Summary renders one human-readable line per change, suitable for a
// confirmation prompt:
//
//	Occupation: 'Doctor' → 'Surgeon'
//	Location: Added 'Boston'
//	Aspiration: Removed 'Open a clinic'
//	Extra Information has been modified
//
// Extra information is free-form and possibly long, so its lines never
// quote the value.
func (d Diff) Summary() []string {
	lines := make([]string, 0, len(d.Changes))
	for _, c := range d.Changes {
		label := member.Label(c.Field)
		if c.Field == member.FieldExtraInformation {
			verb := map[ChangeKind]string{Added: "added", Changed: "modified", Removed: "removed"}[c.Kind]
			lines = append(lines, fmt.Sprintf("%s has been %s", label, verb))
			continue
		}
		switch c.Kind {
		case Added:
			lines = append(lines, fmt.Sprintf("%s: Added '%s'", label, c.New))
		case Changed:
			lines = append(lines, fmt.Sprintf("%s: '%s' → '%s'", label, c.Old, c.New))
		case Removed:
			lines = append(lines, fmt.Sprintf("%s: Removed '%s'", label, c.Old))
		}
	}
	return lines
}

// String joins the summary lines with newlines.
func (d Diff) String() string {
	return strings.Join(d.Summary(), "\n")
}

// diff compares every editable field of cur and next. A field whose display
// value is empty on one side only is Added or Removed; otherwise differing
// values are Changed.
func (s *Store) diff(cur, next member.Member) Diff {
	d := Diff{ID: cur.ID}
	for _, field := range member.EditableFields {
		oldRaw, newRaw := cur.Text(field), next.Text(field)
		if oldRaw == newRaw {
			continue
		}
		c := Change{Field: field, Old: s.displayValue(cur, field), New: s.displayValue(next, field)}
		switch {
		case oldRaw == "":
			c.Kind = Added
		case newRaw == "":
			c.Kind = Removed
		default:
			c.Kind = Changed
		}
		d.Changes = append(d.Changes, c)
	}
	return d
}

func (s *Store) displayValue(m member.Member, field string) string {
	switch field {
	case member.FieldFather:
		if m.Father == 0 {
			return ""
		}
		return s.DisplayName(m.Father)
	case member.FieldMother:
		if m.Mother == 0 {
			return ""
		}
		return s.DisplayName(m.Mother)
	case member.FieldSpouses:
		names := make([]string, len(m.Spouses))
		for i, id := range m.Spouses {
			names[i] = s.DisplayName(id)
		}
		return strings.Join(names, ", ")
	}
	return m.Text(field)
}
