package rel

import "sort"

// Kind is a typed relationship label, always lowercase ("parent",
// "friend"). Unknown kinds are legal: they render as themselves and
// complement to Related.
type Kind string

// Built-in kinds. The registry in registry.go defines their
// complements, symmetry, and gendered display terms.
const (
	Parent      Kind = "parent"
	Child       Kind = "child"
	Sibling     Kind = "sibling"
	Spouse      Kind = "spouse"
	Partner     Kind = "partner"
	Friend      Kind = "friend"
	Colleague   Kind = "colleague"
	Relative    Kind = "relative"
	Auncle      Kind = "auncle"
	Nibling     Kind = "nibling"
	Grandparent Kind = "grandparent"
	Grandchild  Kind = "grandchild"
	Related     Kind = "related"
)

// Gender is a display hint for a relationship target. Only binary
// genders select a gendered noun; everything else renders the neutral
// term.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderFemale
	GenderMale
)

// Target identifies the far end of a relationship. Exactly one of the
// two resolution states applies:
//   - resolved: ID is set (Name may carry the display name for sorting)
//   - unresolved: ID is empty and Name holds the referenced display name
type Target struct {
	ID   string
	Name string
}

// Resolved reports whether the target references a known entity id.
func (t Target) Resolved() bool {
	return t.ID != ""
}

// Key returns the dedup identity of the target: the id when resolved,
// else the normalized display name. Two records with equal (Kind, Key)
// describe the same relationship.
func (t Target) Key() string {
	if t.ID != "" {
		return "id:" + t.ID
	}
	return "name:" + NormalizeName(t.Name)
}

// SortName returns the display name used for deterministic ordering.
// Resolved targets without a known display name fall back to the id so
// ordering stays total.
func (t Target) SortName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// Record is one typed relationship from a source entity to a target.
// Gender is an optional display hint for the target, inferred from
// gendered section terms ("Mother" implies female).
type Record struct {
	Kind   Kind
	Target Target
	Gender Gender
}

// Key returns the dedup identity of the record.
func (r Record) Key() string {
	return string(r.Kind) + "\x00" + r.Target.Key()
}

// Less orders records by (kind, folded display name, raw display name,
// id). This is the single ordering used by every serializer, so
// re-serializing an unchanged set is byte-identical.
func (r Record) Less(other Record) bool {
	if r.Kind != other.Kind {
		return r.Kind < other.Kind
	}
	a, b := NormalizeName(r.Target.SortName()), NormalizeName(other.Target.SortName())
	if a != b {
		return a < b
	}
	if r.Target.SortName() != other.Target.SortName() {
		return r.Target.SortName() < other.Target.SortName()
	}
	return r.Target.ID < other.Target.ID
}

// SortRecords sorts records in place using Record.Less.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Less(records[j])
	})
}
