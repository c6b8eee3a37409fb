// Package field converts between the flat frontmatter key/value map
// and typed relationship records.
//
// Key grammar:
//
//	RELATED[kind]      first (or only) relationship of a kind
//	RELATED[n:kind]    n-th relationship of a kind, n >= 1
//
// Both forms are accepted on parse, including legacy unindexed keys
// mixed with indexed ones for the same kind. On encode the grammar is
// canonical: a single relationship of a kind is unindexed, two or more
// are indexed from 1 in name-sorted order.
//
// Value grammar:
//
//	id:<entityId>        resolved target
//	urn:uuid:<entityId>  resolved target, URN form (accepted transparently)
//	name:<displayName>   unresolved target
//
// An empty value marks a deletion; such keys are treated as absent on
// parse and are never emitted on encode. Malformed keys are skipped
// one at a time and reported to the caller, never aborting the parse.
package field
