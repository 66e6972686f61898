// Package store holds the in-memory collection of family members and
// enforces its consistency rules.
//
// # Overview
//
// A [Store] owns every [member.Member] of a family tree, keyed by an
// immutable numeric ID. All mutations go through validated operations:
//
//   - [Store.Create] assigns the next ID (max existing + 1, or 1), validates
//     every supplied field and stores the record. Nothing is stored when any
//     field is invalid.
//   - [Store.Update] computes the [Diff] an update would produce without
//     touching the store, so a caller can show it and ask for confirmation.
//   - [Store.Commit] recomputes the diff and applies it. An empty diff is a
//     no-op and does not advance the [Store.Revision].
//   - [Store.Delete] removes a member and clears every father, mother and
//     spouse reference other members held to it.
//
// # Invariants
//
// At all times:
//
//   - IDs are unique and positive
//   - father, mother and spouse references resolve to stored members
//   - no member is its own ancestor through father/mother links
//   - father and mother of a member differ, spouse lists hold no duplicates
//     and no self-reference
//
// [FromMembers] builds a store from already-decoded records and rejects any
// set that violates these rules; the persistence layer cleans records before
// handing them over.
//
// # Children Index
//
// Children are derived from the father/mother fields. [Store.ChildrenOf]
// serves them from a reverse index that is rebuilt lazily the first time it
// is read after any mutation. The index is an internal cache: callers only
// ever see copies.
//
// # Concurrency
//
// A Store is not safe for concurrent use. The application has exactly one
// writer; wrap the store in external synchronization if that ever changes.
package store
