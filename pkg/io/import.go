package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/store"
)

// errSkip marks a record-level problem: the record is dropped and loading
// continues.
var errSkip = errors.New("record skipped")

// ref is a father/mother/spouse reference as found in a file: a numeric ID
// or, in older files, a member name.
type ref struct {
	id   member.ID
	name string
}

func (r ref) String() string {
	if r.name != "" {
		return strconv.Quote(r.name)
	}
	return r.id.String()
}

// record is a member decoded from one array element, before references are
// resolved.
type record struct {
	index   int
	hasID   bool
	m       member.Member
	father  *ref
	mother  *ref
	spouses []ref
	notes   []string
}

// ReadMembers decodes a members document from r into a new store.
//
// The input must be a JSON array of member objects (see the package
// documentation for the keys). ReadMembers fails with INVALID_FORMAT if the
// input is not valid JSON and with INVALID_SCHEMA if the top-level value is
// not an array.
//
// Individual records are tolerant: a record that is not an object, lacks a
// name, has an unknown gender or an unparseable age is skipped and a
// warning is logged to logger. References that do not resolve, point at the
// member itself or would create an ancestor cycle are dropped with a
// warning; the member is kept. A nil logger uses log.Default().
//
// Loading runs in two passes: first every record's own fields, then the
// father, mother and spouse references, so a record may reference members
// that appear later in the array.
func ReadMembers(r io.Reader, logger *log.Logger) (*store.Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	elems, err := decodeArray(r)
	if err != nil {
		return nil, err
	}
	recs := parseRecords(elems, logger)
	return build(recs, logger)
}

// Load reads the members file at path.
//
// Load fails with FILE_NOT_FOUND if path does not exist and with IO_ERROR
// if it cannot be read; otherwise it behaves like [ReadMembers].
func Load(path string, logger *log.Logger) (*store.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "members file %s not found", path)
		}
		return nil, apperr.Wrap(apperr.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadMembers(f, logger)
}

// decodeDocument reads exactly one JSON value from r. Anything but
// whitespace after it makes the document malformed.
func decodeDocument(r io.Reader) (json.RawMessage, error) {
	dec := json.NewDecoder(r)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "malformed JSON")
	}
	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return raw, nil
	case err != nil:
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "malformed JSON after the document")
	}
	return nil, apperr.New(apperr.ErrCodeInvalidFormat, "malformed JSON: unexpected data after the document")
}

func decodeArray(r io.Reader) ([]json.RawMessage, error) {
	raw, err := decodeDocument(r)
	if err != nil {
		return nil, err
	}
	if t := bytes.TrimSpace(raw); len(t) == 0 || t[0] != '[' {
		return nil, apperr.New(apperr.ErrCodeInvalidSchema, "top-level value must be an array of members")
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode members")
	}
	return elems, nil
}

// parseRecords runs the first pass: own fields, ID assignment and duplicate
// detection. Records without an ID are numbered after the highest explicit
// ID, in file order.
func parseRecords(elems []json.RawMessage, logger *log.Logger) []record {
	var recs []record
	for i, raw := range elems {
		rec, err := parseRecord(i, raw)
		if err != nil {
			logger.Warn("skipping member record", "index", i, "reason", apperr.UserMessage(err))
			continue
		}
		for _, note := range rec.notes {
			logger.Debug("member record", "index", i, "name", rec.m.Name, "note", note)
		}
		recs = append(recs, rec)
	}

	seen := make(map[member.ID]bool)
	var hi member.ID
	kept := recs[:0]
	for _, rec := range recs {
		if !rec.hasID {
			kept = append(kept, rec)
			continue
		}
		if seen[rec.m.ID] {
			logger.Warn("skipping member record", "index", rec.index, "reason", fmt.Sprintf("duplicate id %d", rec.m.ID))
			continue
		}
		seen[rec.m.ID] = true
		hi = max(hi, rec.m.ID)
		kept = append(kept, rec)
	}
	for i := range kept {
		if !kept[i].hasID {
			hi++
			kept[i].m.ID = hi
			logger.Debug("assigned id to member record", "index", kept[i].index, "id", hi)
		}
	}
	return kept
}

func parseRecord(index int, raw json.RawMessage) (record, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return record{}, fmt.Errorf("%w: not an object", errSkip)
	}
	rec := record{index: index}

	if v, ok := present(obj, member.FieldID); ok {
		id, err := parseID(v)
		if err != nil || id <= 0 {
			return record{}, apperr.Invalid(member.FieldID, errSkip, "must be a positive integer (got %s)", v)
		}
		rec.m.ID, rec.hasID = id, true
	}

	nameRaw, _ := present(obj, member.FieldName)
	name, err := stringValue(member.FieldName, nameRaw)
	if err != nil {
		return record{}, err
	}
	if name == nil {
		return record{}, apperr.Missing(member.FieldName)
	}
	if rec.m.Name, err = member.ValidateName(*name); err != nil {
		return record{}, err
	}

	if v, ok := present(obj, member.FieldAge); ok {
		rec.m.Age, err = parseAge(v)
		if err != nil {
			text, _ := numberText(v)
			cat, catErr := member.ValidateAgeCategory(text)
			if catErr != nil {
				return record{}, err
			}
			rec.m.AgeGroup = cat
			rec.notes = append(rec.notes, fmt.Sprintf("age category %q kept without a numeric age", cat))
		}
	}

	if v, ok := present(obj, member.FieldGender); ok {
		g, err := stringValue(member.FieldGender, v)
		if err != nil {
			return record{}, err
		}
		if g != nil && strings.TrimSpace(*g) != "" {
			if rec.m.Gender, err = member.ValidateGender(*g); err != nil {
				return record{}, err
			}
		}
	}

	for _, t := range []struct {
		field string
		dst   **string
	}{
		{member.FieldLocation, &rec.m.Location},
		{member.FieldOccupation, &rec.m.Occupation},
		{member.FieldAspiration, &rec.m.Aspiration},
		{member.FieldCauseOfDeath, &rec.m.CauseOfDeath},
		{member.FieldExtraInformation, &rec.m.ExtraInformation},
	} {
		v, _ := present(obj, t.field)
		if *t.dst, err = stringValue(t.field, v); err != nil {
			return record{}, err
		}
	}

	if v, ok := present(obj, member.FieldFather); ok {
		if rec.father, err = parseRef(member.FieldFather, v); err != nil {
			return record{}, err
		}
	}
	if v, ok := present(obj, member.FieldMother); ok {
		if rec.mother, err = parseRef(member.FieldMother, v); err != nil {
			return record{}, err
		}
	}
	if v, ok := present(obj, member.FieldSpouses); ok {
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err != nil {
			return record{}, apperr.Invalid(member.FieldSpouses, errSkip, "must be an array")
		}
		for _, item := range items {
			r, err := parseRef(member.FieldSpouses, item)
			if err != nil {
				return record{}, err
			}
			if r != nil {
				rec.spouses = append(rec.spouses, *r)
			}
		}
	}
	return rec, nil
}

// present returns obj[key] unless it is missing or JSON null.
func present(obj map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	v, ok := obj[key]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}

// stringValue decodes an optional string. Missing and null yield nil; an
// empty string is kept as an explicit "".
func stringValue(field string, v json.RawMessage) (*string, error) {
	if v == nil {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, apperr.Invalid(field, errSkip, "must be a string")
	}
	return &s, nil
}

// numberText returns the text of a JSON number or string, for fields that
// older files stored either way.
func numberText(v json.RawMessage) (string, bool) {
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String(), true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, true
	}
	return "", false
}

func parseID(v json.RawMessage) (member.ID, error) {
	text, ok := numberText(v)
	if !ok {
		return 0, errSkip
	}
	n, numeric, whole := wholeNumber(text)
	if !numeric || !whole {
		return 0, errSkip
	}
	return member.ID(n), nil
}

// wholeNumber parses text as a JSON-style number. numeric reports whether
// text is a number at all, whole whether it has no fractional part, so
// "2", "2.0" and "2e0" all yield 2.
func wholeNumber(text string) (n int, numeric, whole bool) {
	text = strings.TrimSpace(text)
	if i, err := strconv.Atoi(text); err == nil {
		return i, true, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, false
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, true, false
	}
	return int(f), true, true
}

// parseAge accepts a number or a numeric string. An empty string means no
// age.
func parseAge(v json.RawMessage) (*int, error) {
	text, ok := numberText(v)
	if !ok {
		return nil, apperr.Invalid(member.FieldAge, member.ErrAgeNotNumber, "must be a number")
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	age, err := member.ValidateNumericAge(text)
	if err != nil {
		return nil, err
	}
	return &age, nil
}

// parseRef decodes a reference. Whole numbers and numeric strings ("2",
// "2.0", "2e0") are IDs, other strings are legacy name references.
// Fractional or negative numbers are invalid. Null, 0 and "" mean no reference.
func parseRef(field string, v json.RawMessage) (*ref, error) {
	text, ok := numberText(v)
	if !ok {
		return nil, apperr.Invalid(field, errSkip, "must be a member id")
	}
	text = strings.TrimSpace(text)
	if text == "" || text == "0" {
		return nil, nil
	}
	n, numeric, whole := wholeNumber(text)
	switch {
	case !numeric:
		return &ref{name: text}, nil
	case !whole || n < 0:
		return nil, apperr.Invalid(field, errSkip, "invalid member id %s", text)
	case n == 0:
		return nil, nil
	}
	return &ref{id: member.ID(n)}, nil
}

// build runs the second pass: it stores every record without references,
// then resolves and commits references one at a time so each goes through
// the store's own checks.
func build(recs []record, logger *log.Logger) (*store.Store, error) {
	ms := make([]member.Member, len(recs))
	for i, rec := range recs {
		ms[i] = rec.m
	}
	s, err := store.FromMembers(ms)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "build store")
	}

	byName := make(map[string][]member.ID)
	for _, m := range ms {
		byName[m.Name] = append(byName[m.Name], m.ID)
	}
	resolve := func(id member.ID, field string, r ref) (member.ID, bool) {
		target := r.id
		if r.name != "" {
			matches := byName[r.name]
			if len(matches) != 1 {
				logger.Warn("dropping reference", "member", id, "field", field, "ref", r,
					"reason", fmt.Sprintf("name matches %d members", len(matches)))
				return 0, false
			}
			target = matches[0]
		}
		if !s.Contains(target) {
			logger.Warn("dropping reference", "member", id, "field", field, "ref", r, "reason", "unknown member")
			return 0, false
		}
		return target, true
	}
	commit := func(id member.ID, field string, f member.Fields) {
		if _, err := s.Commit(id, f); err != nil {
			logger.Warn("dropping reference", "member", id, "field", field, "reason", apperr.UserMessage(err))
		}
	}

	for _, rec := range recs {
		id := rec.m.ID
		if rec.father != nil {
			if target, ok := resolve(id, member.FieldFather, *rec.father); ok {
				commit(id, member.FieldFather, member.Fields{Father: member.Ref(target)})
			}
		}
		if rec.mother != nil {
			if target, ok := resolve(id, member.FieldMother, *rec.mother); ok {
				commit(id, member.FieldMother, member.Fields{Mother: member.Ref(target)})
			}
		}
		var spouses []member.ID
		for _, r := range rec.spouses {
			target, ok := resolve(id, member.FieldSpouses, r)
			switch {
			case !ok:
			case target == id:
				logger.Warn("dropping reference", "member", id, "field", member.FieldSpouses, "ref", r, "reason", "member cannot be their own spouse")
			case slices.Contains(spouses, target):
				logger.Warn("dropping reference", "member", id, "field", member.FieldSpouses, "ref", r, "reason", "listed twice")
			default:
				spouses = append(spouses, target)
			}
		}
		if len(spouses) > 0 {
			commit(id, member.FieldSpouses, member.Fields{Spouses: member.Refs(spouses...)})
		}
	}
	return s, nil
}
