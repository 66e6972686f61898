// Package member defines the person record of a family tree and the pure
// validators for its fields.
//
// # Overview
//
// A [Member] is identified by an immutable numeric [ID] assigned by the store.
// The display name is an ordinary, editable attribute: every reference held by
// another member (father, mother, spouses) stores the ID, never the name, so
// renaming a person never breaks a relationship.
//
// # Field Representation
//
//   - Age is a non-negative integer. The seven-term category vocabulary
//     (Infant ... Elder) is derived from it with [AgeCategory]. Records
//     from older files may hold only a category, kept in AgeGroup until a
//     numeric age replaces it.
//   - Gender is one of [Genders] or unset.
//   - Optional text fields are *string: nil means "never set", a pointer to
//     "" means "explicitly cleared". The distinction survives a save/load
//     round-trip and drives the Added/Changed/Removed wording of diffs.
//   - Father and Mother use the zero ID for "no parent recorded".
//
// # Input
//
// Callers describe a create or update with [Fields]: raw values as typed into
// a form, where a nil pointer means "not supplied". [Fields.Apply] validates
// every supplied field and returns the normalized record, failing fast on the
// first invalid field without touching the input record.
//
// Referential checks (does father 9 exist? would this create a cycle?) need
// the whole member set and live in the store package.
//
// # Validators
//
// [ValidateGender], [ValidateAgeCategory], [ValidateNumericAge] and
// [ValidateName] are pure and total: every input, including the empty string
// and garbage, yields either a normalized value or a *errors.FieldError.
package member
