// Package io reads and writes the family tree's members file.
//
// # File Format
//
// The members file is a JSON array with one object per member:
//
//	[
//	  {
//	    "id": 1,
//	    "name": "Ben Roberson",
//	    "age": 65,
//	    "gender": "Male",
//	    "location": null,
//	    "occupation": "Carpenter",
//	    "aspiration": null,
//	    "cause_of_death": null,
//	    "extra_information": "",
//	    "father": null,
//	    "mother": null,
//	    "spouses": [2]
//	  }
//	]
//
// [Save] always writes every key. Optional values that were never set are
// null; text fields that were explicitly cleared are "". The two are kept
// apart on load so a round trip preserves the difference.
//
// # Loading
//
// [Load] and [ReadMembers] accept files written by older versions of the
// program:
//
//   - id may be a number or a numeric string; records without one are
//     numbered after the highest explicit id
//   - age may be a number or numeric string; fractions are truncated
//   - father, mother and spouse entries may be ids or unique member names
//
// A bad record (not an object, missing name, unknown gender, invalid age,
// duplicate id) is skipped with a warning instead of failing the load.
// References are resolved in a second pass through the store, so dangling,
// self and cyclic references are dropped with a warning and the member is
// kept. Only a missing file (FILE_NOT_FOUND), malformed JSON
// (INVALID_FORMAT) or a non-array document (INVALID_SCHEMA) fail the load.
//
// # Saving
//
// [Save] replaces the whole file. It writes a temporary file next to the
// target and renames it into place using github.com/google/renameio/v2, so
// the previous file survives a failed write.
//
// # Legacy Edge Lists
//
// [ImportLegacy] reads the older layout where relationships were stored
// separately from members:
//
//	{
//	  "members": [...],
//	  "relationships": [
//	    {"person_a": 1, "person_b": 3, "kind": "parent", "role": "father"},
//	    {"person_a": 1, "person_b": 2, "kind": "spouse"}
//	  ]
//	}
//
// It returns the members as a store plus the edges, which the caller folds
// in with [relation.Normalize].
//
// [relation.Normalize]: github.com/matzehuels/familytree/pkg/relation.Normalize
package io
