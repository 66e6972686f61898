// Package relation derives family relationships from the references stored
// on each member and normalizes legacy relationship edge lists into those
// references.
//
// # Resolution
//
// Members only record upward and sideways links: father, mother and an
// ordered spouse list. Everything else is derived on demand:
//
//   - [Parents] resolves the father and mother references
//   - [Children] lists members naming the given member as father or mother
//   - [Spouses] lists the member's own spouse entries first, then members
//     that name the member as a spouse without being listed back
//   - [Siblings] lists members sharing at least one parent
//
// All resolvers return copies ordered by ID (spouse order follows the
// member's own list) and fail with a NOT_FOUND error for unknown IDs.
//
// # Legacy Edge Lists
//
// Older data files stored relationships as a separate list of typed edges:
//
//	{"person_a": 1, "person_b": 3, "kind": "parent", "role": "father"}
//	{"person_a": 1, "person_b": 2, "kind": "spouse"}
//
// A parent edge means person_a is a parent of person_b. [Normalize] turns
// parent edges into father/mother assignments on the child and spouse edges
// into mutual spouse entries. Other kinds (sibling, cousin, ...) carry no
// information the embedded references cannot derive and are counted as
// ignored in the [Report].
//
// Which slot a parent fills comes from the edge's role when present, then
// from the parent's gender. When neither decides, the [Policy] applies:
// [PolicyStrict] rejects the edge and [PolicyFatherFirst] takes the first
// free slot. Normalization is all-or-nothing: every edge is checked against
// a scratch copy of the store before the real store is touched.
package relation
